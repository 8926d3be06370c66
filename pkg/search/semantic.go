package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/utils"
)

// GetContractsSimilarText is SearchSimilarExcerpts with the configured top-k.
func (service *Service) GetContractsSimilarText(
	ctx context.Context, clauseText string,
) ([]contract.Agreement, error) {
	return service.SearchSimilarExcerpts(ctx, clauseText, service.topK)
}

/*
SearchSimilarExcerpts embeds text and returns one minimal agreement record
per matching excerpt, most similar first. Matches from the same agreement
are not merged.
*/
func (service *Service) SearchSimilarExcerpts(
	ctx context.Context, text string, topK int,
) (agreements []contract.Agreement, err error) {
	started := time.Now()
	defer func() { service.metrics.Observe("search_similar_excerpts", started, len(agreements), err) }()

	if err = validate(valgo.
		Is(valgo.String(text, "text").Not().Blank()).
		Is(valgo.Int(topK, "top_k").GreaterThan(0)),
	); err != nil {
		return nil, err
	}

	if err = service.ready(); err != nil {
		return nil, err
	}

	if service.embedder == nil {
		return nil, errors.NewErrMissingEmbedder()
	}

	vector, err := service.embedder.Embed(ctx, text)

	if err != nil {
		if !errors.Is(err, errors.ErrConnectivity) {
			err = errors.ErrConnectivity.Wrap(err)
		}

		return nil, fmt.Errorf("embed query text: %w", err)
	}

	log.Debug("vector search", "index", service.vectorIndex, "top_k", topK, "dimensions", len(vector))

	result, err := service.exec.Read(ctx, querySimilarExcerpts, map[string]any{
		"index_name": service.vectorIndex,
		"top_k":      topK,
		"embedding":  utils.ConvertToFloat64(vector),
	})

	if err != nil {
		return nil, fmt.Errorf("search similar excerpts: %w", err)
	}

	matches, err := neo4j.DecodeAll[contract.ExcerptMatch](result)

	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	agreements = make([]contract.Agreement, 0, len(matches))

	for _, match := range matches {
		agreements = append(agreements, match.Agreement())
	}

	return agreements, nil
}
