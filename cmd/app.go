package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/metrics"
	"github.com/theapemachine/contract-search/pkg/search"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/text2cypher"
)

/*
connect builds the graph store executor and waits for it to answer,
retrying with backoff while the store starts up.
*/
func connect(ctx context.Context) (neo4j.Executor, error) {
	exec, err := neo4j.Connect(cfg.Neo4j)

	if err != nil {
		return nil, err
	}

	err = errors.RetryWithBackoff(ctx, errors.DefaultRetryConfig(), func(ctx context.Context) error {
		pingErr := exec.Ping(ctx)

		if pingErr != nil {
			log.Warn("graph store not ready", "uri", cfg.Neo4j.URI, "error", pingErr)
		}

		return pingErr
	})

	if err != nil {
		_ = exec.Close(ctx)
		return nil, err
	}

	return exec, nil
}

/*
newSearchService wires the facade. A model client that cannot be built
is left out with a warning: structured lookups still work without it.
*/
func newSearchService(ctx context.Context, exec neo4j.Executor, m *metrics.Metrics) *search.Service {
	options := []search.ServiceOption{
		search.WithTopK(cfg.Search.TopK),
		search.WithOrganizationIndex(cfg.Search.OrganizationIndex),
		search.WithVectorIndex(cfg.Search.VectorIndex),
		search.WithMetrics(m),
	}

	if embedder, err := embedding.New(ctx, cfg.Embedding); err != nil {
		log.Warn("semantic search disabled", "provider", cfg.Embedding.Provider, "error", err)
	} else {
		options = append(options, search.WithEmbedder(embedder))
	}

	if translator, err := text2cypher.New(cfg.Translator); err != nil {
		log.Warn("aggregation questions disabled", "provider", cfg.Translator.Provider, "error", err)
	} else {
		options = append(options, search.WithTranslator(translator))
	}

	return search.New(exec, options...)
}

// withService connects, builds the facade, runs fn and closes the store.
func withService(ctx context.Context, fn func(*search.Service) error) error {
	exec, err := connect(ctx)

	if err != nil {
		return err
	}

	defer exec.Close(ctx)

	return fn(newSearchService(ctx, exec, nil))
}

// output prints value as JSON with --json, otherwise the rendered form.
func output(value any, rendered string) error {
	if !jsonOutput {
		_, err := fmt.Fprintln(os.Stdout, rendered)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}
