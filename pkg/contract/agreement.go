package contract

import "encoding/json"

/*
Party is an organization seen from one agreement. Role lives on the
IS_PARTY_TO relationship, so the same organization can carry a different
role on another agreement.
*/
type Party struct {
	Name                 string `json:"name"`
	Role                 string `json:"role"`
	IncorporationCountry string `json:"incorporation_country"`
	IncorporationState   string `json:"incorporation_state"`
}

type ContractClause struct {
	ClauseType ClauseType `json:"clause_type"`
	Excerpts   []string   `json:"excerpts,omitempty"`
}

/*
Agreement is the normalized record returned to callers. Which fields are
populated depends on the projection it was assembled with; the semantic
path fills only AgreementName, ContractID, Score and a single clause.
*/
type Agreement struct {
	ContractID                     int64            `json:"contract_id"`
	Name                           string           `json:"name,omitempty"`
	AgreementName                  string           `json:"agreement_name,omitempty"`
	AgreementType                  string           `json:"agreement_type,omitempty"`
	AgreementDate                  string           `json:"agreement_date,omitempty"`
	EffectiveDate                  string           `json:"effective_date,omitempty"`
	ExpirationDate                 string           `json:"expiration_date,omitempty"`
	RenewalTerm                    string           `json:"renewal_term,omitempty"`
	NoticePeriodToTerminateRenewal string           `json:"notice_period_to_terminate_renewal,omitempty"`
	Score                          float64          `json:"score,omitempty"`
	Parties                        []Party          `json:"parties,omitempty"`
	Clauses                        []ContractClause `json:"clauses,omitempty"`
}

/*
MarshalJSON keeps the parties and clauses keys whenever the projection
filled them, so an assembled agreement with none reports empty lists.
Collections left nil by a projection are omitted.
*/
func (agreement Agreement) MarshalJSON() ([]byte, error) {
	type plain Agreement

	out := struct {
		plain
		Parties *[]Party          `json:"parties,omitempty"`
		Clauses *[]ContractClause `json:"clauses,omitempty"`
	}{plain: plain(agreement)}

	if agreement.Parties != nil {
		out.Parties = &agreement.Parties
	}

	if agreement.Clauses != nil {
		out.Clauses = &agreement.Clauses
	}

	return json.Marshal(out)
}

// Projection selects how much of an agreement the assembler fills in.
type Projection int

const (
	Short Projection = iota
	Long
)

func (p Projection) String() string {
	if p == Long {
		return "long"
	}

	return "short"
}
