package text2cypher

import (
	"fmt"
	"strings"
)

type Property struct {
	Name string
	Type string
}

// Element is a node label or relationship type with its properties.
type Element struct {
	Name       string
	Properties []Property
}

// Pattern is one (:From)-[:Type]->(:To) relationship shape.
type Pattern struct {
	From string
	Type string
	To   string
}

/*
Schema is the graph description handed to a Translator. It is a plain
value: callers build or adjust one and pass it on every call.
*/
type Schema struct {
	Nodes         []Element
	Relationships []Element
	Patterns      []Pattern
}

/*
String renders the schema in the layout the translation prompt expects.
*/
func (schema Schema) String() string {
	builder := &strings.Builder{}

	builder.WriteString("Node properties:\n")
	writeElements(builder, schema.Nodes)

	builder.WriteString("\nRelationship properties:\n")
	writeElements(builder, schema.Relationships)

	builder.WriteString("\nThe relationships:\n")

	for _, pattern := range schema.Patterns {
		fmt.Fprintf(builder, "(:%s)-[:%s]->(:%s)\n", pattern.From, pattern.Type, pattern.To)
	}

	return builder.String()
}

func writeElements(builder *strings.Builder, elements []Element) {
	for _, element := range elements {
		props := make([]string, len(element.Properties))

		for i, prop := range element.Properties {
			props[i] = prop.Name + ": " + prop.Type
		}

		fmt.Fprintf(builder, "%s {%s}\n", element.Name, strings.Join(props, ", "))
	}
}

/*
ContractSchema describes the agreement graph written by the loader.
*/
func ContractSchema() Schema {
	str := func(name string) Property { return Property{Name: name, Type: "STRING"} }

	return Schema{
		Nodes: []Element{
			{Name: "Agreement", Properties: []Property{
				str("agreement_type"),
				{Name: "contract_id", Type: "INTEGER"},
				str("effective_date"),
				str("expiration_date"),
				str("renewal_term"),
				str("name"),
			}},
			{Name: "ContractClause", Properties: []Property{str("name"), str("type")}},
			{Name: "ClauseType", Properties: []Property{str("name")}},
			{Name: "Country", Properties: []Property{str("name")}},
			{Name: "Excerpt", Properties: []Property{str("text")}},
			{Name: "Organization", Properties: []Property{str("name")}},
		},
		Relationships: []Element{
			{Name: "IS_PARTY_TO", Properties: []Property{str("role")}},
			{Name: "GOVERNED_BY_LAW", Properties: []Property{str("state")}},
			{Name: "HAS_CLAUSE", Properties: []Property{str("type")}},
			{Name: "INCORPORATED_IN", Properties: []Property{str("state")}},
		},
		Patterns: []Pattern{
			{From: "Agreement", Type: "HAS_CLAUSE", To: "ContractClause"},
			{From: "ContractClause", Type: "HAS_EXCERPT", To: "Excerpt"},
			{From: "ContractClause", Type: "HAS_TYPE", To: "ClauseType"},
			{From: "Agreement", Type: "GOVERNED_BY_LAW", To: "Country"},
			{From: "Organization", Type: "IS_PARTY_TO", To: "Agreement"},
			{From: "Organization", Type: "INCORPORATED_IN", To: "Country"},
		},
	}
}
