package text2cypher

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/theapemachine/contract-search/pkg/errors"
)

const DefaultOllamaModel = "llama3.1"

type Ollama struct {
	client      *api.Client
	Model       string
	Temperature float64
}

func NewOllama(cfg Config) (*Ollama, error) {
	var (
		client *api.Client
		err    error
	)

	if cfg.BaseURL != "" {
		var base *url.URL

		if base, err = url.Parse(cfg.BaseURL); err != nil {
			return nil, errors.ErrValidation.WithMessagef("ollama base url: %v", err)
		}

		client = api.NewClient(base, http.DefaultClient)
	} else if client, err = api.ClientFromEnvironment(); err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	model := cfg.Model

	if model == "" {
		model = DefaultOllamaModel
	}

	return &Ollama{client: client, Model: model, Temperature: cfg.Temperature}, nil
}

func (translator *Ollama) Translate(
	ctx context.Context, question string, schema Schema,
) (string, error) {
	stream := false
	builder := &strings.Builder{}

	err := translator.client.Chat(ctx, &api.ChatRequest{
		Model: translator.Model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(question, schema)},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": translator.Temperature},
	}, func(resp api.ChatResponse) error {
		builder.WriteString(resp.Message.Content)
		return nil
	})

	if err != nil {
		return "", errors.ErrConnectivity.Wrap(err)
	}

	return finish(builder.String())
}
