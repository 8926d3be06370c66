package ingest

/*
createGraph merges one agreement with its parties, jurisdictions and
clauses. Clauses are merged per type, so loading the same document twice
leaves the graph unchanged.
*/
const createGraph = `
WITH $data AS a
MERGE (agreement:Agreement {contract_id: $contract_id})
ON CREATE SET
  agreement.name = a.agreement_name,
  agreement.effective_date = a.effective_date,
  agreement.expiration_date = a.expiration_date,
  agreement.agreement_type = a.agreement_type,
  agreement.renewal_term = a.renewal_term,
  agreement.notice_period_to_terminate_renewal = a.notice_period_to_terminate_renewal,
  agreement.most_favored_country = a.governing_law.most_favored_country

FOREACH (_ IN CASE WHEN a.governing_law.country IS NULL THEN [] ELSE [1] END |
  MERGE (gl_country:Country {name: a.governing_law.country})
  MERGE (agreement)-[gbl:GOVERNED_BY_LAW]->(gl_country)
  SET gbl.state = a.governing_law.state
)

FOREACH (party IN a.parties |
  MERGE (p:Organization {name: party.name})
  MERGE (p)-[ipt:IS_PARTY_TO]->(agreement)
  SET ipt.role = party.role
  MERGE (country_of_incorporation:Country {name: coalesce(party.incorporation_country, 'Unknown')})
  MERGE (p)-[incorporated:INCORPORATED_IN]->(country_of_incorporation)
  SET incorporated.state = party.incorporation_state
)

FOREACH (clause IN a.clauses |
  MERGE (agreement)-[clt:HAS_CLAUSE {type: clause.clause_type}]->(cl:ContractClause {type: clause.clause_type})
  FOREACH (excerpt IN clause.excerpts |
    MERGE (e:Excerpt {text: excerpt})
    MERGE (cl)-[:HAS_EXCERPT]->(e)
  )
  MERGE (clType:ClauseType {name: clause.clause_type})
  MERGE (cl)-[:HAS_TYPE]->(clType)
)`

const queryMissingEmbeddings = `
MATCH (e:Excerpt)
WHERE e.text IS NOT NULL AND e.embedding IS NULL
RETURN e.text AS text`

const setEmbedding = `
MATCH (e:Excerpt {text: $text})
SET e.embedding = $embedding`
