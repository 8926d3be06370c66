package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/search"
)

/*
ContractTools exposes the retrieval facade as MCP tools. Every tool
answers with JSON text; failures come back as tool errors so the calling
model can read them.
*/
type ContractTools struct {
	searcher search.Searcher
}

func NewContractTools(searcher search.Searcher) *ContractTools {
	return &ContractTools{searcher: searcher}
}

func clauseTypeArgument(description string) mcp.ToolOption {
	return mcp.WithString(
		"clause_type",
		mcp.Description(description),
		mcp.Enum(contract.ClauseTypeLabels()...),
		mcp.Required(),
	)
}

func NewGetContractTool() mcp.Tool {
	return mcp.NewTool(
		"get_contract",
		mcp.WithDescription("Gets details about a contract with the given id."),
		mcp.WithNumber("contract_id", mcp.Description("The contract id."), mcp.Required()),
	)
}

func NewGetContractsTool() mcp.Tool {
	return mcp.NewTool(
		"get_contracts",
		mcp.WithDescription("Gets basic details about all contracts where one of the parties has a name similar to the given organization name."),
		mcp.WithString("organization_name", mcp.Description("Name, or part of the name, of a party."), mcp.Required()),
	)
}

func NewGetContractsWithoutClauseTool() mcp.Tool {
	return mcp.NewTool(
		"get_contracts_without_clause",
		mcp.WithDescription("Gets basic details from contracts without a clause of the given type."),
		clauseTypeArgument("The clause type that must be absent."),
	)
}

func NewGetContractsWithClauseTypeTool() mcp.Tool {
	return mcp.NewTool(
		"get_contracts_with_clause_type",
		mcp.WithDescription("Gets basic details from contracts with a clause of the given type."),
		clauseTypeArgument("The clause type that must be present."),
	)
}

func NewGetContractsSimilarTextTool() mcp.Tool {
	return mcp.NewTool(
		"get_contracts_similar_text",
		mcp.WithDescription("Gets basic details from contracts having semantically similar text in one of their clauses to the clause_text provided."),
		mcp.WithString("clause_text", mcp.Description("Text to compare clause excerpts against."), mcp.Required()),
		mcp.WithNumber("top_k", mcp.Description("How many excerpts to match. Defaults to the server setting.")),
	)
}

func NewAnswerAggregationQuestionTool() mcp.Tool {
	return mcp.NewTool(
		"answer_aggregation_question",
		mcp.WithDescription("Answers a counting or aggregation question about the contracts by turning it into a Cypher query."),
		mcp.WithString("user_question", mcp.Description("The question, in natural language."), mcp.Required()),
	)
}

func NewGetContractClausesTool() mcp.Tool {
	return mcp.NewTool(
		"get_contract_clauses",
		mcp.WithDescription("Gets the clauses of a contract with their excerpts."),
		mcp.WithNumber("contract_id", mcp.Description("The contract id."), mcp.Required()),
	)
}

func NewListClauseTypesTool() mcp.Tool {
	return mcp.NewTool(
		"list_clause_types",
		mcp.WithDescription("Lists every clause type the other tools accept."),
	)
}

// Tools pairs every tool definition with its handler.
func (ct *ContractTools) Tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: NewGetContractTool(), Handler: ct.HandleGetContract},
		{Tool: NewGetContractsTool(), Handler: ct.HandleGetContracts},
		{Tool: NewGetContractsWithoutClauseTool(), Handler: ct.HandleGetContractsWithoutClause},
		{Tool: NewGetContractsWithClauseTypeTool(), Handler: ct.HandleGetContractsWithClauseType},
		{Tool: NewGetContractsSimilarTextTool(), Handler: ct.HandleGetContractsSimilarText},
		{Tool: NewAnswerAggregationQuestionTool(), Handler: ct.HandleAnswerAggregationQuestion},
		{Tool: NewGetContractClausesTool(), Handler: ct.HandleGetContractClauses},
		{Tool: NewListClauseTypesTool(), Handler: ct.HandleListClauseTypes},
	}
}

func (ct *ContractTools) Register(srv *server.MCPServer) {
	srv.AddTools(ct.Tools()...)
}

func (ct *ContractTools) HandleGetContract(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	contractID, err := req.RequireInt("contract_id")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agreement, err := ct.searcher.GetContract(ctx, int64(contractID))

	if err != nil {
		return failure("get_contract", err), nil
	}

	return jsonResult(agreement)
}

func (ct *ContractTools) HandleGetContracts(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("organization_name")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agreements, err := ct.searcher.GetContracts(ctx, name)

	if err != nil {
		return failure("get_contracts", err), nil
	}

	return jsonResult(agreements)
}

func (ct *ContractTools) HandleGetContractsWithoutClause(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	clauseType, err := clauseTypeOf(req)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agreements, err := ct.searcher.GetContractsWithoutClause(ctx, clauseType)

	if err != nil {
		return failure("get_contracts_without_clause", err), nil
	}

	return jsonResult(agreements)
}

func (ct *ContractTools) HandleGetContractsWithClauseType(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	clauseType, err := clauseTypeOf(req)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agreements, err := ct.searcher.GetContractsWithClauseType(ctx, clauseType)

	if err != nil {
		return failure("get_contracts_with_clause_type", err), nil
	}

	return jsonResult(agreements)
}

func (ct *ContractTools) HandleGetContractsSimilarText(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("clause_text")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var agreements []contract.Agreement

	if topK := req.GetInt("top_k", 0); topK != 0 {
		agreements, err = ct.searcher.SearchSimilarExcerpts(ctx, text, topK)
	} else {
		agreements, err = ct.searcher.GetContractsSimilarText(ctx, text)
	}

	if err != nil {
		return failure("get_contracts_similar_text", err), nil
	}

	return jsonResult(agreements)
}

func (ct *ContractTools) HandleAnswerAggregationQuestion(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("user_question")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := ct.searcher.AnswerAggregationQuestion(ctx, question)

	if err != nil {
		return failure("answer_aggregation_question", err), nil
	}

	return mcp.NewToolResultText(answer), nil
}

func (ct *ContractTools) HandleGetContractClauses(
	ctx context.Context, req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	contractID, err := req.RequireInt("contract_id")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	clauses, err := ct.searcher.GetContractClauses(ctx, int64(contractID))

	if err != nil {
		return failure("get_contract_clauses", err), nil
	}

	return jsonResult(clauses)
}

func (ct *ContractTools) HandleListClauseTypes(
	context.Context, mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	return jsonResult(contract.ClauseTypeLabels())
}

func clauseTypeOf(req mcp.CallToolRequest) (contract.ClauseType, error) {
	raw, err := req.RequireString("clause_type")

	if err != nil {
		return "", err
	}

	return contract.ParseClauseType(raw)
}

func failure(tool string, err error) *mcp.CallToolResult {
	log.Error("tool call failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool, err))
}

func jsonResult(value any) (*mcp.CallToolResult, error) {
	buf, err := json.Marshal(value)

	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(string(buf)), nil
}
