package text2cypher

import (
	"context"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/theapemachine/contract-search/pkg/errors"
)

const DefaultAnthropicModel = "claude-3-5-sonnet-latest"

type Anthropic struct {
	api         anthropic.Client
	Model       string
	Temperature float64
	MaxTokens   int64
}

func NewAnthropic(cfg Config) *Anthropic {
	key := cfg.APIKey

	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}

	options := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}

	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model

	if model == "" {
		model = DefaultAnthropicModel
	}

	return &Anthropic{
		api:         anthropic.NewClient(options...),
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   1024,
	}
}

func (translator *Anthropic) Translate(
	ctx context.Context, question string, schema Schema,
) (string, error) {
	msg, err := translator.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(translator.Model),
		MaxTokens:   translator.MaxTokens,
		Temperature: anthropic.Float(translator.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(question, schema))),
		},
	})

	if err != nil {
		return "", errors.ErrConnectivity.Wrap(err)
	}

	builder := &strings.Builder{}

	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	return finish(builder.String())
}
