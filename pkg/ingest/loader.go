package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/utils"
	"golang.org/x/sync/errgroup"
)

/*
Loader writes extracted agreements into the graph and embeds excerpts
that have no vector yet.
*/
type Loader struct {
	exec        neo4j.Executor
	embedder    embedding.Embedder
	concurrency int
}

type LoaderOption func(*Loader)

// Report summarizes one Load call.
type Report struct {
	Loaded   int      `json:"loaded"`
	Failed   []string `json:"failed,omitempty"`
	Embedded int      `json:"embedded"`
}

func NewLoader(exec neo4j.Executor, options ...LoaderOption) *Loader {
	loader := &Loader{exec: exec, concurrency: 4}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// WithEmbedder enables the embedding backfill after documents are written.
func WithEmbedder(embedder embedding.Embedder) LoaderOption {
	return func(loader *Loader) {
		loader.embedder = embedder
	}
}

func WithConcurrency(n int) LoaderOption {
	return func(loader *Loader) {
		if n > 0 {
			loader.concurrency = n
		}
	}
}

/*
Load assigns contract ids 1..N in document-name order and writes the
documents concurrently. A document the store rejects is reported and the
rest continue; losing the store aborts the load.
*/
func (loader *Loader) Load(ctx context.Context, docs []NamedDocument) (Report, error) {
	report := Report{}

	if loader.exec == nil {
		return report, errors.NewErrMissingExecutor()
	}

	sorted := append([]NamedDocument(nil), docs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var (
		mu       sync.Mutex
		failures []any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loader.concurrency)

	for i, doc := range sorted {
		contractID := int64(i + 1)

		g.Go(func() error {
			_, err := loader.exec.Write(gctx, createGraph, doc.Document.params(contractID))

			if errors.Is(err, errors.ErrConnectivity) {
				return fmt.Errorf("load %s: %w", doc.Name, err)
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Error("failed to load document", "document", doc.Name, "contract_id", contractID, "error", err)
				report.Failed = append(report.Failed, doc.Name)
				failures = append(failures, fmt.Errorf("%s: %w", doc.Name, err))
				return nil
			}

			log.Info("loaded document", "document", doc.Name, "contract_id", contractID)
			report.Loaded++

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	sort.Strings(report.Failed)

	if loader.embedder != nil {
		embedded, err := loader.Backfill(ctx)
		report.Embedded = embedded

		if err != nil {
			return report, err
		}
	}

	if len(failures) > 0 {
		return report, errors.NewError(failures...)
	}

	return report, nil
}

/*
Backfill embeds every excerpt that has text but no embedding and returns
how many were written.
*/
func (loader *Loader) Backfill(ctx context.Context) (int, error) {
	if loader.embedder == nil {
		return 0, errors.NewErrMissingEmbedder()
	}

	result, err := loader.exec.Read(ctx, queryMissingEmbeddings, nil)

	if err != nil {
		return 0, fmt.Errorf("find excerpts without embeddings: %w", err)
	}

	log.Info("generating embeddings for contract excerpts", "excerpts", len(result.Records))

	var (
		mu       sync.Mutex
		embedded int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loader.concurrency)

	for _, record := range result.Records {
		text, ok := record["text"].(string)

		if !ok || text == "" {
			continue
		}

		g.Go(func() error {
			vector, err := loader.embedder.Embed(gctx, text)

			if err != nil {
				return fmt.Errorf("embed excerpt %q: %w", utils.Truncate(text, 40), err)
			}

			if _, err := loader.exec.Write(gctx, setEmbedding, map[string]any{
				"text":      text,
				"embedding": utils.ConvertToFloat64(vector),
			}); err != nil {
				return fmt.Errorf("store embedding: %w", err)
			}

			mu.Lock()
			embedded++
			mu.Unlock()

			return nil
		})
	}

	err = g.Wait()

	return embedded, err
}
