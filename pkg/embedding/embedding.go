package embedding

import (
	"context"
	"strings"

	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Embedder turns text into a fixed-size vector. The dimensionality must
match the excerpt_embedding vector index.
*/
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
}

/*
New builds the Embedder named by cfg.Provider: openai (default), google,
ollama or mock.
*/
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(
			WithOpenAIModel(cfg.Model),
			WithOpenAIDimensions(cfg.Dimensions),
			WithOpenAIKey(cfg.APIKey),
			WithOpenAIBaseURL(cfg.BaseURL),
		), nil
	case "google", "gemini":
		return NewGoogle(ctx, cfg)
	case "ollama":
		return NewOllama(cfg)
	case "mock":
		return NewMock(cfg.Dimensions), nil
	default:
		return nil, errors.ErrValidation.WithMessagef("unknown embedding provider %q", cfg.Provider)
	}
}

func unavailable(err error) error {
	return errors.ErrConnectivity.Wrap(err)
}
