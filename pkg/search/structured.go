package search

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cohesivestack/valgo"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/utils"
)

/*
GetContract returns the long projection of one agreement with all of its
clauses and parties. Zero matching rows, or more than one, yield a nil
agreement and a nil error: an id lookup never guesses.
*/
func (service *Service) GetContract(
	ctx context.Context, contractID int64,
) (agreement *contract.Agreement, err error) {
	started := time.Now()

	defer func() {
		found := 0
		if agreement != nil {
			found = 1
		}
		service.metrics.Observe("get_contract", started, found, err)
	}()

	if err = validate(valgo.Is(valgo.Int64(contractID, "contract_id").GreaterThan(0))); err != nil {
		return nil, err
	}

	if err = service.ready(); err != nil {
		return nil, err
	}

	result, err := service.exec.Read(ctx, queryContractByID, map[string]any{
		"contract_id": contractID,
	})

	if err != nil {
		return nil, fmt.Errorf("get contract %d: %w", contractID, err)
	}

	if len(result.Records) != 1 {
		log.Debug("contract not resolved", "contract_id", contractID, "rows", len(result.Records))
		return nil, nil
	}

	row, err := neo4j.Decode[contract.AgreementRow](result.Records[0])

	if err != nil {
		return nil, err
	}

	return contract.Assemble(row, contract.Long)
}

/*
GetContracts finds the organization whose name ranks highest in the
full-text index and returns every agreement it is party to. Equal scores
are broken by name, then by element id.
*/
func (service *Service) GetContracts(
	ctx context.Context, organizationName string,
) (agreements []contract.Agreement, err error) {
	started := time.Now()
	defer func() { service.metrics.Observe("get_contracts", started, len(agreements), err) }()

	if err = validate(valgo.Is(valgo.String(organizationName, "organization_name").Not().Blank())); err != nil {
		return nil, err
	}

	return service.agreements(ctx, queryContractsByParty, map[string]any{
		"index_name":        service.orgIndex,
		"organization_name": utils.EscapeLucene(organizationName),
	})
}

// GetContractsWithClauseType returns agreements having at least one clause of clauseType.
func (service *Service) GetContractsWithClauseType(
	ctx context.Context, clauseType contract.ClauseType,
) (agreements []contract.Agreement, err error) {
	started := time.Now()
	defer func() { service.metrics.Observe("get_contracts_with_clause_type", started, len(agreements), err) }()

	if err = validClauseType(clauseType); err != nil {
		return nil, err
	}

	return service.agreements(ctx, queryContractsWithClause, map[string]any{
		"clause_type": string(clauseType),
	})
}

/*
GetContractsWithoutClause returns agreements with no clause of clauseType,
computed as an anti-join over every agreement in the store.
*/
func (service *Service) GetContractsWithoutClause(
	ctx context.Context, clauseType contract.ClauseType,
) (agreements []contract.Agreement, err error) {
	started := time.Now()
	defer func() { service.metrics.Observe("get_contracts_without_clause", started, len(agreements), err) }()

	if err = validClauseType(clauseType); err != nil {
		return nil, err
	}

	return service.agreements(ctx, queryContractsWithoutClause, map[string]any{
		"clause_type": string(clauseType),
	})
}

/*
GetContractClauses returns each clause type present on an agreement with
the text of its excerpts. Clauses of the same type are merged.
*/
func (service *Service) GetContractClauses(
	ctx context.Context, contractID int64,
) (clauses []contract.ContractClause, err error) {
	started := time.Now()
	defer func() { service.metrics.Observe("get_contract_clauses", started, len(clauses), err) }()

	if err = validate(valgo.Is(valgo.Int64(contractID, "contract_id").GreaterThan(0))); err != nil {
		return nil, err
	}

	if err = service.ready(); err != nil {
		return nil, err
	}

	result, err := service.exec.Read(ctx, queryContractClauses, map[string]any{
		"contract_id": contractID,
	})

	if err != nil {
		return nil, fmt.Errorf("get clauses of contract %d: %w", contractID, err)
	}

	rows, err := neo4j.DecodeAll[contract.ClauseRow](result)

	if err != nil {
		return nil, err
	}

	clauses = make([]contract.ContractClause, 0, len(rows))

	for _, row := range rows {
		clauses = append(clauses, contract.ContractClause{
			ClauseType: contract.ClauseType(row.Type),
			Excerpts:   row.Excerpts,
		})
	}

	return clauses, nil
}

func (service *Service) agreements(
	ctx context.Context, cypher string, params map[string]any,
) ([]contract.Agreement, error) {
	if err := service.ready(); err != nil {
		return nil, err
	}

	result, err := service.exec.Read(ctx, cypher, params)

	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}

	rows, err := neo4j.DecodeAll[contract.AgreementRow](result)

	if err != nil {
		return nil, err
	}

	agreements := make([]contract.Agreement, 0, len(rows))

	for _, row := range rows {
		agreement, err := contract.Assemble(row, contract.Short)

		if err != nil {
			return nil, err
		}

		agreements = append(agreements, *agreement)
	}

	return agreements, nil
}
