package bootstrap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
)

// Index is one named index and the statement that creates it.
type Index struct {
	Name   string
	Create string
}

type Options struct {
	Dimensions int
	Similarity string
}

func DefaultOptions() Options {
	return Options{Dimensions: 1536, Similarity: "cosine"}
}

const queryIndexExists = "SHOW INDEXES YIELD name WHERE name = $index_name RETURN name"

/*
Indexes lists the full-text, range and vector indexes the retrieval
queries depend on.
*/
func Indexes(opts Options) []Index {
	if opts.Dimensions <= 0 {
		opts.Dimensions = DefaultOptions().Dimensions
	}

	if opts.Similarity == "" {
		opts.Similarity = DefaultOptions().Similarity
	}

	return []Index{
		{"excerptTextIndex", "CREATE FULLTEXT INDEX excerptTextIndex IF NOT EXISTS FOR (e:Excerpt) ON EACH [e.text]"},
		{"agreementTypeTextIndex", "CREATE FULLTEXT INDEX agreementTypeTextIndex IF NOT EXISTS FOR (a:Agreement) ON EACH [a.agreement_type]"},
		{"clauseTypeNameTextIndex", "CREATE FULLTEXT INDEX clauseTypeNameTextIndex IF NOT EXISTS FOR (ct:ClauseType) ON EACH [ct.name]"},
		{"clauseNameTextIndex", "CREATE FULLTEXT INDEX clauseNameTextIndex IF NOT EXISTS FOR (c:ContractClause) ON EACH [c.type]"},
		{"organizationNameTextIndex", "CREATE FULLTEXT INDEX organizationNameTextIndex IF NOT EXISTS FOR (o:Organization) ON EACH [o.name]"},
		{"agreementContractId", "CREATE INDEX agreementContractId IF NOT EXISTS FOR (a:Agreement) ON (a.contract_id)"},
		{"excerpt_embedding", fmt.Sprintf(
			"CREATE VECTOR INDEX excerpt_embedding IF NOT EXISTS FOR (e:Excerpt) ON (e.embedding) "+
				"OPTIONS {indexConfig: {`vector.dimensions`: %d, `vector.similarity_function`: '%s'}}",
			opts.Dimensions, opts.Similarity,
		)},
	}
}

/*
EnsureIndexes creates every index that does not exist yet, checking by
name first, and returns the names it created. Running it again against
the same store creates nothing.
*/
func EnsureIndexes(ctx context.Context, exec neo4j.Executor, opts Options) ([]string, error) {
	created := make([]string, 0)

	for _, index := range Indexes(opts) {
		exists, err := indexExists(ctx, exec, index.Name)

		if err != nil {
			return created, err
		}

		if exists {
			log.Info("index already exists", "index", index.Name)
			continue
		}

		log.Info("creating index", "index", index.Name)

		if _, err := exec.Write(ctx, index.Create, nil); err != nil {
			return created, fmt.Errorf("create index %s: %w", index.Name, err)
		}

		created = append(created, index.Name)
	}

	return created, nil
}

func indexExists(ctx context.Context, exec neo4j.Executor, name string) (bool, error) {
	result, err := exec.Read(ctx, queryIndexExists, map[string]any{"index_name": name})

	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}

	return len(result.Records) > 0, nil
}
