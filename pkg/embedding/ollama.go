package embedding

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/theapemachine/contract-search/pkg/errors"
)

const DefaultOllamaModel = "nomic-embed-text"

type Ollama struct {
	client *api.Client
	Model  string
}

/*
NewOllama uses cfg.BaseURL when set, and OLLAMA_HOST otherwise.
*/
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
		return nil, unavailable(err)
	}

	model := cfg.Model

	if model == "" {
		model = DefaultOllamaModel
	}

	return &Ollama{client: client, Model: model}, nil
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: o.Model,
		Input: text,
	})

	if err != nil {
		return nil, unavailable(err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, errors.ErrConnectivity.WithMessagef("ollama returned no embedding")
	}

	return resp.Embeddings[0], nil
}
