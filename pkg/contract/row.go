package contract

import (
	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
AgreementNode carries the properties of an Agreement node as written by
the loader.
*/
type AgreementNode struct {
	ContractID                     int64  `mapstructure:"contract_id"`
	Name                           string `mapstructure:"name"`
	AgreementType                  string `mapstructure:"agreement_type"`
	AgreementDate                  string `mapstructure:"agreement_date"`
	EffectiveDate                  string `mapstructure:"effective_date"`
	ExpirationDate                 string `mapstructure:"expiration_date"`
	RenewalTerm                    string `mapstructure:"renewal_term"`
	NoticePeriodToTerminateRenewal string `mapstructure:"notice_period_to_terminate_renewal"`
}

type OrganizationNode struct {
	Name string `mapstructure:"name"`
}

type CountryNode struct {
	Name string `mapstructure:"name"`
}

// RoleRel is the IS_PARTY_TO relationship.
type RoleRel struct {
	Role string `mapstructure:"role"`
}

// StateRel is the INCORPORATED_IN relationship.
type StateRel struct {
	State string `mapstructure:"state"`
}

type ClauseNode struct {
	Type string `mapstructure:"type"`
}

/*
AgreementRow is one result row of the agreement queries. Parties, Roles,
Countries and States are parallel: position i of each describes the same
party, in the order the query collected them.
*/
type AgreementRow struct {
	Agreement AgreementNode      `mapstructure:"agreement"`
	Clauses   []ClauseNode       `mapstructure:"clauses"`
	Parties   []OrganizationNode `mapstructure:"parties"`
	Roles     []RoleRel          `mapstructure:"roles"`
	Countries []CountryNode      `mapstructure:"countries"`
	States    []StateRel         `mapstructure:"states"`
}

// ClauseRow is one row of the clause-excerpt query.
type ClauseRow struct {
	Type     string   `mapstructure:"contract_clause_type"`
	Excerpts []string `mapstructure:"excerpts"`
}

// ExcerptMatch is one hit of the vector search over excerpt embeddings.
type ExcerptMatch struct {
	AgreementName string  `mapstructure:"agreement_name"`
	ContractID    int64   `mapstructure:"contract_id"`
	ClauseType    string  `mapstructure:"clause_type"`
	Excerpt       string  `mapstructure:"excerpt"`
	Score         float64 `mapstructure:"score"`
}

/*
Agreement turns a match into the minimal record of the semantic path:
the owning agreement plus the single clause and excerpt that matched.
*/
func (match ExcerptMatch) Agreement() Agreement {
	return Agreement{
		ContractID:    match.ContractID,
		AgreementName: match.AgreementName,
		Score:         match.Score,
		Clauses: []ContractClause{{
			ClauseType: ClauseType(match.ClauseType),
			Excerpts:   []string{match.Excerpt},
		}},
	}
}

/*
Assemble rebuilds a nested Agreement from a flat row. The parallel party
collections are zipped by position and never reordered; if their lengths
differ the row is rejected with ErrMisalignedRow.
*/
func Assemble(row AgreementRow, projection Projection) (*Agreement, error) {
	parties, err := zipParties(row)

	if err != nil {
		return nil, err
	}

	node := row.Agreement

	agreement := &Agreement{
		ContractID:    node.ContractID,
		Name:          node.Name,
		AgreementType: node.AgreementType,
		Parties:       parties,
	}

	if projection != Long {
		return agreement, nil
	}

	agreement.AgreementDate = node.AgreementDate

	if agreement.AgreementDate == "" {
		agreement.AgreementDate = node.EffectiveDate
	}

	agreement.ExpirationDate = node.ExpirationDate
	agreement.RenewalTerm = node.RenewalTerm
	agreement.Clauses = make([]ContractClause, 0, len(row.Clauses))

	for _, clause := range row.Clauses {
		agreement.Clauses = append(agreement.Clauses, ContractClause{
			ClauseType: ClauseType(clause.Type),
		})
	}

	return agreement, nil
}

func zipParties(row AgreementRow) ([]Party, error) {
	n := len(row.Parties)

	if len(row.Roles) != n || len(row.Countries) != n || len(row.States) != n {
		return nil, errors.ErrMisalignedRow.WithMessagef(
			"agreement %d: parties=%d roles=%d countries=%d states=%d",
			row.Agreement.ContractID,
			n, len(row.Roles), len(row.Countries), len(row.States),
		)
	}

	parties := make([]Party, n)

	for i := range row.Parties {
		parties[i] = Party{
			Name:                 row.Parties[i].Name,
			Role:                 row.Roles[i].Role,
			IncorporationCountry: row.Countries[i].Name,
			IncorporationState:   row.States[i].State,
		}
	}

	return parties, nil
}
