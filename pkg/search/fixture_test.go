package search

import (
	"context"
	"sort"
	"strings"

	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/utils"
)

type fixtureParty struct {
	Org     string
	Role    string
	Country string
	State   string
}

type fixtureClause struct {
	Type     string
	Excerpts []string
}

type fixtureAgreement struct {
	ID        int64
	Name      string
	Type      string
	Effective string
	Parties   []fixtureParty
	Clauses   []fixtureClause
}

/*
graph answers the fixed retrieval queries from an in-memory corpus, the
way the real indexes and patterns would.
*/
type graph struct {
	agreements []fixtureAgreement
	embedder   *embedding.Mock
	generated  func(cypher string) (*neo4j.Result, error)
}

func scenarioGraph() *graph {
	return &graph{
		embedder: embedding.NewMock(64),
		agreements: []fixtureAgreement{
			{
				ID: 1, Name: "MSA-1", Type: "Services", Effective: "2023-01-01",
				Parties: []fixtureParty{
					{Org: "OrgA", Role: "Client", Country: "US", State: "DE"},
					{Org: "OrgB", Role: "Vendor", Country: "US", State: "CA"},
				},
				Clauses: []fixtureClause{
					{Type: "Non-Compete", Excerpts: []string{"Vendor shall not compete with Client in the territory."}},
				},
			},
		},
	}
}

func corpusGraph() *graph {
	g := scenarioGraph()

	g.agreements = append(g.agreements,
		fixtureAgreement{
			ID: 2, Name: "Distribution Agreement", Type: "Distribution", Effective: "2022-05-01",
			Parties: []fixtureParty{
				{Org: "Acme Corp", Role: "Distributor", Country: "US", State: "NY"},
				{Org: "OrgB", Role: "Supplier", Country: "US", State: "CA"},
			},
			Clauses: []fixtureClause{
				{Type: "Exclusivity", Excerpts: []string{"Distributor is the exclusive reseller in Europe."}},
				{Type: "Cap On Liability", Excerpts: []string{"Liability is capped at fees paid in twelve months."}},
				{Type: "Exclusivity", Excerpts: []string{"No other distributor may be appointed."}},
			},
		},
		fixtureAgreement{
			ID: 3, Name: "Hosting Agreement", Type: "Hosting", Effective: "2021-03-15",
			Parties: []fixtureParty{
				{Org: "Acme Hosting", Role: "Provider", Country: "UK", State: ""},
			},
			Clauses: []fixtureClause{
				{Type: "Insurance", Excerpts: []string{"Provider maintains general liability insurance."}},
				{Type: "Cap On Liability", Excerpts: []string{"Aggregate liability shall not exceed one million dollars."}},
			},
		},
	)

	return g
}

func (g *graph) handler(call neo4j.Call) (*neo4j.Result, error) {
	switch call.Cypher {
	case queryContractByID:
		var records []neo4j.Record

		for _, a := range g.agreements {
			if a.ID == call.Params["contract_id"].(int64) {
				records = append(records, a.record(true))
			}
		}

		return &neo4j.Result{Keys: []string{"agreement", "clauses", "parties", "countries", "roles", "states"}, Records: records}, nil
	case queryContractsByParty:
		org := g.topOrganization(call.Params["organization_name"].(string))

		return g.short(func(a fixtureAgreement) bool {
			for _, p := range a.Parties {
				if p.Org == org {
					return true
				}
			}
			return false
		}), nil
	case queryContractsWithClause:
		return g.short(func(a fixtureAgreement) bool {
			return a.hasClause(call.Params["clause_type"].(string))
		}), nil
	case queryContractsWithoutClause:
		return g.short(func(a fixtureAgreement) bool {
			return !a.hasClause(call.Params["clause_type"].(string))
		}), nil
	case queryContractClauses:
		return g.clauses(call.Params["contract_id"].(int64)), nil
	case querySimilarExcerpts:
		return g.similar(call.Params["embedding"].([]float64), call.Params["top_k"].(int))
	default:
		if g.generated != nil {
			return g.generated(call.Cypher)
		}

		return nil, errors.ErrStore.WithMessagef("Neo.ClientError.Statement.SyntaxError")
	}
}

func (g *graph) short(keep func(fixtureAgreement) bool) *neo4j.Result {
	result := &neo4j.Result{Keys: []string{"agreement", "parties", "roles", "countries", "states"}}

	for _, a := range g.agreements {
		if keep(a) {
			result.Records = append(result.Records, a.record(false))
		}
	}

	return result
}

// topOrganization scores names by shared words, breaking ties by name.
func (g *graph) topOrganization(query string) string {
	query = strings.ReplaceAll(query, `\`, "")
	words := strings.Fields(strings.ToLower(query))

	type scored struct {
		name  string
		score int
	}

	seen := map[string]bool{}
	var candidates []scored

	for _, a := range g.agreements {
		for _, p := range a.Parties {
			if seen[p.Org] {
				continue
			}
			seen[p.Org] = true

			score := 0
			for _, w := range words {
				for _, nw := range strings.Fields(strings.ToLower(p.Org)) {
					if w == nw {
						score++
					}
				}
			}

			if score > 0 {
				candidates = append(candidates, scored{p.Org, score})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) == 0 {
		return ""
	}

	return candidates[0].name
}

func (g *graph) clauses(id int64) *neo4j.Result {
	result := &neo4j.Result{Keys: []string{"contract_clause_type", "excerpts"}}

	for _, a := range g.agreements {
		if a.ID != id {
			continue
		}

		byType := map[string][]any{}
		var order []string

		for _, c := range a.Clauses {
			if _, ok := byType[c.Type]; !ok {
				order = append(order, c.Type)
			}
			for _, e := range c.Excerpts {
				byType[c.Type] = append(byType[c.Type], e)
			}
		}

		sort.Strings(order)

		for _, t := range order {
			result.Records = append(result.Records, neo4j.Record{
				"contract_clause_type": t,
				"excerpts":             byType[t],
			})
		}
	}

	return result
}

func (g *graph) similar(query []float64, topK int) (*neo4j.Result, error) {
	result := &neo4j.Result{Keys: []string{"agreement_name", "contract_id", "clause_type", "excerpt", "score"}}
	q := utils.ConvertToFloat32(query)

	for _, a := range g.agreements {
		for _, c := range a.Clauses {
			for _, e := range c.Excerpts {
				vector, err := g.embedder.Embed(context.Background(), e)

				if err != nil {
					return nil, err
				}

				result.Records = append(result.Records, neo4j.Record{
					"agreement_name": a.Name,
					"contract_id":    a.ID,
					"clause_type":    c.Type,
					"excerpt":        e,
					"score":          embedding.Cosine(q, vector),
				})
			}
		}
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i]["score"].(float64) > result.Records[j]["score"].(float64)
	})

	if len(result.Records) > topK {
		result.Records = result.Records[:topK]
	}

	return result, nil
}

func (a fixtureAgreement) hasClause(clauseType string) bool {
	for _, c := range a.Clauses {
		if c.Type == clauseType {
			return true
		}
	}

	return false
}

func (a fixtureAgreement) record(long bool) neo4j.Record {
	parties := append([]fixtureParty(nil), a.Parties...)
	sort.SliceStable(parties, func(i, j int) bool { return parties[i].Org < parties[j].Org })

	record := neo4j.Record{
		"agreement": map[string]any{
			"contract_id":    a.ID,
			"name":           a.Name,
			"agreement_type": a.Type,
			"effective_date": a.Effective,
		},
		"parties":   []any{},
		"roles":     []any{},
		"countries": []any{},
		"states":    []any{},
	}

	for _, p := range parties {
		record["parties"] = append(record["parties"].([]any), map[string]any{"name": p.Org})
		record["roles"] = append(record["roles"].([]any), map[string]any{"role": p.Role})
		record["countries"] = append(record["countries"].([]any), map[string]any{"name": p.Country})
		record["states"] = append(record["states"].([]any), map[string]any{"state": p.State})
	}

	if long {
		clauses := []any{}

		for _, c := range a.Clauses {
			clauses = append(clauses, map[string]any{"type": c.Type})
		}

		record["clauses"] = clauses
	}

	return record
}
