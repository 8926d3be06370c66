package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
)

/*
AnswerAggregationQuestion has the translator write Cypher for question,
runs it read-only and joins the rows into text, each row followed by a
blank line. The answer is advisory: a query the model could not produce,
or one the store rejects, gives an empty answer. Connectivity failures
are returned.
*/
func (service *Service) AnswerAggregationQuestion(
	ctx context.Context, question string,
) (answer string, err error) {
	started := time.Now()
	rows := 0
	defer func() { service.metrics.Observe("answer_aggregation_question", started, rows, err) }()

	if err = validate(valgo.Is(valgo.String(question, "question").Not().Blank())); err != nil {
		return "", err
	}

	if err = service.ready(); err != nil {
		return "", err
	}

	if service.translator == nil {
		return "", errors.NewErrMissingTranslator()
	}

	cypher, err := service.translator.Translate(ctx, question, service.schema)

	if errors.Is(err, errors.ErrTranslation) {
		log.Warn("no query generated", "question", question, "error", err)
		return "", nil
	}

	if err != nil {
		if !errors.Is(err, errors.ErrConnectivity) {
			err = errors.ErrConnectivity.Wrap(err)
		}

		return "", fmt.Errorf("translate question: %w", err)
	}

	log.Debug("generated query", "question", question, "cypher", cypher)

	result, err := service.exec.Read(ctx, cypher, nil)

	if errors.Is(err, errors.ErrConnectivity) {
		return "", fmt.Errorf("run generated query: %w", err)
	}

	if err != nil {
		log.Warn(
			"generated query failed",
			"cypher", cypher,
			"error", errors.ErrTranslation.Wrap(err),
		)

		return "", nil
	}

	rows = len(result.Records)

	builder := &strings.Builder{}

	for _, record := range result.Records {
		if content := renderRecord(result.Keys, record); content != "" {
			builder.WriteString(content)
			builder.WriteString("\n\n")
		}
	}

	return builder.String(), nil
}

/*
renderRecord writes a row as "key: value" pairs in column order. Maps and
lists are written as JSON.
*/
func renderRecord(keys []string, record neo4j.Record) string {
	if len(keys) == 0 {
		for key := range record {
			keys = append(keys, key)
		}

		sort.Strings(keys)
	}

	parts := make([]string, 0, len(keys))

	for _, key := range keys {
		value, ok := record[key]

		if !ok {
			continue
		}

		parts = append(parts, key+": "+renderValue(value))
	}

	return strings.Join(parts, ", ")
}

func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]any, []any:
		b, err := json.Marshal(v)

		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
