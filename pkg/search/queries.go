package search

/*
partyTail turns the agreements bound to `a` into short-projection rows.
All four collections are built in one aggregation over the same ordered
rows, which keeps them index-aligned.
*/
const partyTail = `
WITH DISTINCT a
OPTIONAL MATCH (country:Country)-[i:INCORPORATED_IN]-(p:Organization)-[r:IS_PARTY_TO]-(a)
WITH a, p, r, country, i
ORDER BY p.name, elementId(p)
RETURN a AS agreement,
       collect(p) AS parties,
       collect(r) AS roles,
       collect(country) AS countries,
       collect(i) AS states
ORDER BY agreement.contract_id`

const queryContractByID = `
MATCH (a:Agreement {contract_id: $contract_id})
OPTIONAL MATCH (a)-[:HAS_CLAUSE]->(clause:ContractClause)
WITH a, clause
ORDER BY clause.type
WITH a, collect(clause) AS clauses
OPTIONAL MATCH (country:Country)-[i:INCORPORATED_IN]-(p:Organization)-[r:IS_PARTY_TO]-(a)
WITH a, clauses, p, r, country, i
ORDER BY p.name, elementId(p)
WITH a, clauses,
     collect(p) AS parties,
     collect(country) AS countries,
     collect(r) AS roles,
     collect(i) AS states
RETURN a AS agreement, clauses, parties, countries, roles, states`

const queryContractsByParty = `
CALL db.index.fulltext.queryNodes($index_name, $organization_name)
YIELD node AS o, score
WITH o, score
ORDER BY score DESC, o.name ASC, elementId(o) ASC
LIMIT 1
MATCH (o)-[:IS_PARTY_TO]->(a:Agreement)` + partyTail

const queryContractsWithClause = `
MATCH (a:Agreement)-[:HAS_CLAUSE]->(:ContractClause {type: $clause_type})` + partyTail

const queryContractsWithoutClause = `
MATCH (a:Agreement)
OPTIONAL MATCH (a)-[:HAS_CLAUSE]->(cc:ContractClause {type: $clause_type})
WITH a, cc
WHERE cc IS NULL` + partyTail

const queryContractClauses = `
MATCH (a:Agreement {contract_id: $contract_id})-[:HAS_CLAUSE]->(cc:ContractClause)-[:HAS_EXCERPT]->(e:Excerpt)
RETURN cc.type AS contract_clause_type, collect(e.text) AS excerpts
ORDER BY contract_clause_type`

const querySimilarExcerpts = `
CALL db.index.vector.queryNodes($index_name, $top_k, $embedding)
YIELD node, score
MATCH (a:Agreement)-[:HAS_CLAUSE]->(cc:ContractClause)-[:HAS_EXCERPT]-(node)
RETURN a.name AS agreement_name,
       a.contract_id AS contract_id,
       cc.type AS clause_type,
       node.text AS excerpt,
       score
ORDER BY score DESC
LIMIT $top_k`
