package ingest

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/contract-search/pkg/contract"
)

/*
Document is one extracted agreement as produced by the extraction
pipeline. Field names follow that pipeline's JSON output.
*/
type Document struct {
	Agreement ExtractedAgreement `json:"agreement"`
}

type ExtractedAgreement struct {
	ContractID                     int64             `json:"contract_id,omitempty"`
	AgreementName                  string            `json:"agreement_name"`
	AgreementType                  string            `json:"agreement_type"`
	EffectiveDate                  string            `json:"effective_date"`
	ExpirationDate                 string            `json:"expiration_date"`
	RenewalTerm                    string            `json:"renewal_term"`
	NoticePeriodToTerminateRenewal string            `json:"notice_period_to_terminate_Renewal"`
	GoverningLaw                   GoverningLaw      `json:"governing_law"`
	Parties                        []ExtractedParty  `json:"parties"`
	Clauses                        []ExtractedClause `json:"clauses"`
}

type GoverningLaw struct {
	Country            string `json:"country"`
	State              string `json:"state"`
	MostFavoredCountry string `json:"most_favored_country"`
}

type ExtractedParty struct {
	Name                 string `json:"name"`
	Role                 string `json:"role"`
	IncorporationCountry string `json:"incorporation_country"`
	IncorporationState   string `json:"incorporation_state"`
}

type ExtractedClause struct {
	ClauseType string   `json:"clause_type"`
	Exists     bool     `json:"exists"`
	Excerpts   []string `json:"excerpts"`
}

// NamedDocument pairs a document with the file or object it came from.
type NamedDocument struct {
	Name     string
	Document Document
}

func Parse(name string, data []byte) (NamedDocument, error) {
	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return NamedDocument{}, err
	}

	return NamedDocument{Name: name, Document: doc}, nil
}

/*
legacyClauseLabels maps labels older extraction runs emitted onto the
canonical enumeration.
*/
var legacyClauseLabels = map[string]contract.ClauseType{
	"Non-Compete Clause": contract.NonCompete,
}

/*
params turns a document into statement parameters. Only clauses that
exist and have a recognized type are kept.
*/
func (doc Document) params(contractID int64) map[string]any {
	a := doc.Agreement

	parties := make([]any, 0, len(a.Parties))

	for _, p := range a.Parties {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}

		parties = append(parties, map[string]any{
			"name":                  p.Name,
			"role":                  p.Role,
			"incorporation_country": nullable(p.IncorporationCountry),
			"incorporation_state":   p.IncorporationState,
		})
	}

	clauses := make([]any, 0, len(a.Clauses))

	for _, c := range a.Clauses {
		if !c.Exists {
			continue
		}

		clauseType, err := contract.ParseClauseType(c.ClauseType)

		if err != nil {
			legacy, ok := legacyClauseLabels[strings.TrimSpace(c.ClauseType)]

			if !ok {
				log.Warn("skipping clause", "contract_id", contractID, "clause_type", c.ClauseType)
				continue
			}

			clauseType = legacy
		}

		excerpts := make([]any, 0, len(c.Excerpts))

		for _, e := range c.Excerpts {
			if strings.TrimSpace(e) != "" {
				excerpts = append(excerpts, e)
			}
		}

		clauses = append(clauses, map[string]any{
			"clause_type": string(clauseType),
			"excerpts":    excerpts,
		})
	}

	return map[string]any{
		"contract_id": contractID,
		"data": map[string]any{
			"agreement_name":                     a.AgreementName,
			"agreement_type":                     a.AgreementType,
			"effective_date":                     a.EffectiveDate,
			"expiration_date":                    a.ExpirationDate,
			"renewal_term":                       a.RenewalTerm,
			"notice_period_to_terminate_renewal": a.NoticePeriodToTerminateRenewal,
			"governing_law": map[string]any{
				"country":              nullable(a.GoverningLaw.Country),
				"state":                a.GoverningLaw.State,
				"most_favored_country": a.GoverningLaw.MostFavoredCountry,
			},
			"parties": parties,
			"clauses": clauses,
		},
	}
}

func nullable(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	return value
}
