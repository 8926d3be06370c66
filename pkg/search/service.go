package search

import (
	"context"

	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/metrics"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/text2cypher"
)

const (
	DefaultTopK              = 3
	DefaultOrganizationIndex = "organizationNameTextIndex"
	DefaultVectorIndex       = "excerpt_embedding"
)

/*
Searcher is what the caller surfaces need from the retrieval facade.
*Service implements it; tests substitute their own.
*/
type Searcher interface {
	GetContract(ctx context.Context, contractID int64) (*contract.Agreement, error)
	GetContracts(ctx context.Context, organizationName string) ([]contract.Agreement, error)
	GetContractsWithClauseType(ctx context.Context, clauseType contract.ClauseType) ([]contract.Agreement, error)
	GetContractsWithoutClause(ctx context.Context, clauseType contract.ClauseType) ([]contract.Agreement, error)
	GetContractsSimilarText(ctx context.Context, clauseText string) ([]contract.Agreement, error)
	SearchSimilarExcerpts(ctx context.Context, text string, topK int) ([]contract.Agreement, error)
	GetContractClauses(ctx context.Context, contractID int64) ([]contract.ContractClause, error)
	AnswerAggregationQuestion(ctx context.Context, question string) (string, error)
}

var _ Searcher = (*Service)(nil)

/*
Service is the single entry point for contract retrieval. It holds client
handles only; every call is an independent read against the graph store.
*/
type Service struct {
	exec        neo4j.Executor
	embedder    embedding.Embedder
	translator  text2cypher.Translator
	schema      text2cypher.Schema
	topK        int
	orgIndex    string
	vectorIndex string
	metrics     *metrics.Metrics
}

type ServiceOption func(*Service)

func New(exec neo4j.Executor, options ...ServiceOption) *Service {
	service := &Service{
		exec:        exec,
		schema:      text2cypher.ContractSchema(),
		topK:        DefaultTopK,
		orgIndex:    DefaultOrganizationIndex,
		vectorIndex: DefaultVectorIndex,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

func WithEmbedder(embedder embedding.Embedder) ServiceOption {
	return func(service *Service) {
		service.embedder = embedder
	}
}

func WithTranslator(translator text2cypher.Translator) ServiceOption {
	return func(service *Service) {
		service.translator = translator
	}
}

// WithSchema replaces the schema handed to the translator.
func WithSchema(schema text2cypher.Schema) ServiceOption {
	return func(service *Service) {
		service.schema = schema
	}
}

// WithTopK sets how many excerpts GetContractsSimilarText returns.
func WithTopK(topK int) ServiceOption {
	return func(service *Service) {
		if topK > 0 {
			service.topK = topK
		}
	}
}

func WithOrganizationIndex(name string) ServiceOption {
	return func(service *Service) {
		service.orgIndex = name
	}
}

func WithVectorIndex(name string) ServiceOption {
	return func(service *Service) {
		service.vectorIndex = name
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(service *Service) {
		service.metrics = m
	}
}

// Schema returns the schema the translator is given.
func (service *Service) Schema() text2cypher.Schema {
	return service.schema
}
