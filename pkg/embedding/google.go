package embedding

import (
	"context"
	"os"

	"github.com/theapemachine/contract-search/pkg/errors"
	"google.golang.org/genai"
)

const DefaultGoogleModel = "text-embedding-004"

// Google embeds through the Gemini API.
type Google struct {
	client     *genai.Client
	Model      string
	Dimensions int
}

func NewGoogle(ctx context.Context, cfg Config) (*Google, error) {
	key := cfg.APIKey

	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)

	if err != nil {
		return nil, unavailable(err)
	}

	model := cfg.Model

	if model == "" {
		model = DefaultGoogleModel
	}

	return &Google{client: client, Model: model, Dimensions: cfg.Dimensions}, nil
}

func (g *Google) Embed(ctx context.Context, text string) ([]float32, error) {
	config := &genai.EmbedContentConfig{}

	if g.Dimensions > 0 {
		config.OutputDimensionality = genai.Ptr(int32(g.Dimensions))
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.Model, genai.Text(text), config)

	if err != nil {
		return nil, unavailable(err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, errors.ErrConnectivity.WithMessagef("gemini returned no embedding")
	}

	return resp.Embeddings[0].Values, nil
}
