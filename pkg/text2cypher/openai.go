package text2cypher

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/theapemachine/contract-search/pkg/errors"
)

const DefaultOpenAIModel = "gpt-4o"

type OpenAI struct {
	api         openai.Client
	Model       string
	Temperature float64
}

func NewOpenAI(cfg Config) *OpenAI {
	key := cfg.APIKey

	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}

	options := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}

	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model

	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		api:         openai.NewClient(options...),
		Model:       model,
		Temperature: cfg.Temperature,
	}
}

func (translator *OpenAI) Translate(
	ctx context.Context, question string, schema Schema,
) (string, error) {
	resp, err := translator.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(translator.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(Prompt(question, schema)),
		},
		Temperature: openai.Float(translator.Temperature),
	})

	if err != nil {
		return "", errors.ErrConnectivity.Wrap(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.ErrTranslation.WithMessagef("openai returned no choices")
	}

	return finish(resp.Choices[0].Message.Content)
}
