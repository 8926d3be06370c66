package embedding

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/utils"
)

const DefaultOpenAIModel = "text-embedding-3-small"

type OpenAI struct {
	api        openai.Client
	apiKey     string
	baseURL    string
	Model      string
	Dimensions int
}

type OpenAIOption func(*OpenAI)

func NewOpenAI(options ...OpenAIOption) *OpenAI {
	embedder := &OpenAI{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		Model:  DefaultOpenAIModel,
	}

	for _, opt := range options {
		opt(embedder)
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(embedder.apiKey),
		option.WithMaxRetries(0),
	}

	if embedder.baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(embedder.baseURL))
	}

	embedder.api = openai.NewClient(requestOptions...)

	return embedder
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.Model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
	}

	if e.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.Dimensions))
	}

	resp, err := e.api.Embeddings.New(ctx, params)

	if err != nil {
		return nil, unavailable(err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.ErrConnectivity.WithMessagef("openai returned no embedding")
	}

	return utils.ConvertToFloat32(resp.Data[0].Embedding), nil
}

func WithOpenAIModel(model string) OpenAIOption {
	return func(e *OpenAI) {
		if model != "" {
			e.Model = model
		}
	}
}

func WithOpenAIDimensions(dimensions int) OpenAIOption {
	return func(e *OpenAI) {
		e.Dimensions = dimensions
	}
}

func WithOpenAIKey(key string) OpenAIOption {
	return func(e *OpenAI) {
		if key != "" {
			e.apiKey = key
		}
	}
}

func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(e *OpenAI) {
		e.baseURL = url
	}
}
