package text2cypher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/theapemachine/contract-search/pkg/errors"
)

func TestContractSchema(t *testing.T) {
	Convey("Given the contract schema", t, func() {
		rendered := ContractSchema().String()

		Convey("Then it lists nodes, relationship properties and patterns", func() {
			So(rendered, ShouldStartWith, "Node properties:\n")
			So(rendered, ShouldContainSubstring, "Agreement {agreement_type: STRING, contract_id: INTEGER,")
			So(rendered, ShouldContainSubstring, "IS_PARTY_TO {role: STRING}\n")
			So(rendered, ShouldContainSubstring, "\nThe relationships:\n")
			So(rendered, ShouldContainSubstring, "(:Organization)-[:INCORPORATED_IN]->(:Country)\n")
		})

		Convey("Then every call returns an independent value", func() {
			schema := ContractSchema()
			schema.Nodes = schema.Nodes[:1]

			So(ContractSchema().Nodes, ShouldHaveLength, 6)
		})
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "MATCH (a:Agreement) RETURN count(a)", "MATCH (a:Agreement) RETURN count(a)"},
		{"fenced", "```cypher\nMATCH (a) RETURN a\n```", "MATCH (a) RETURN a"},
		{"bare fence", "```\nRETURN 1\n```\n", "RETURN 1"},
		{"whitespace", "  RETURN 1 \n", "RETURN 1"},
		{"untagged fence", "```MATCH (a:Agreement)\nRETURN count(a) AS n\n```", "MATCH (a:Agreement)\nRETURN count(a) AS n"},
		{"keyword on fence line", "```MATCH\n(a:Agreement) RETURN a\n```", "MATCH\n(a:Agreement) RETURN a"},
		{"upper case tag", "```Cypher\nRETURN 1\n```", "RETURN 1"},
		{"single line tagged", "```cypher RETURN 1```", "RETURN 1"},
		{"single line untagged", "```RETURN 1```", "RETURN 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestPrompt(t *testing.T) {
	prompt := Prompt("How many agreements expire in 2024?", ContractSchema(), "Q: count agreements\nMATCH (a:Agreement) RETURN count(a)")

	assert.Contains(t, prompt, "Schema:\nNode properties:")
	assert.Contains(t, prompt, "Examples:\nQ: count agreements")
	assert.Contains(t, prompt, "Input:\nHow many agreements expire in 2024?")
	assert.True(t, strings.HasSuffix(prompt, "Cypher query:"))
}

func TestOpenAITranslate(t *testing.T) {
	Convey("Given an OpenAI translator and a test server", t, func() {
		var body map[string]any

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"1","object":"chat.completion","created":0,"model":"gpt-4o",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant",
				"content":"`+"```cypher\\nMATCH (a:Agreement) RETURN count(a) AS total\\n```"+`"}}]}`)
		}))
		defer ts.Close()

		translator := NewOpenAI(Config{APIKey: "test", BaseURL: ts.URL + "/"})
		cypher, err := translator.Translate(context.Background(), "How many agreements?", ContractSchema())

		Convey("Then the fenced answer is returned as bare Cypher", func() {
			So(err, ShouldBeNil)
			So(cypher, ShouldEqual, "MATCH (a:Agreement) RETURN count(a) AS total")
		})

		Convey("Then the request is deterministic and carries the schema", func() {
			So(body["model"], ShouldEqual, DefaultOpenAIModel)
			So(body["temperature"], ShouldEqual, float64(0))

			raw, _ := json.Marshal(body["messages"])
			So(string(raw), ShouldContainSubstring, "HAS_CLAUSE")
		})
	})
}

func TestOllamaTranslate(t *testing.T) {
	Convey("Given an Ollama translator and a test server", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"model":"llama3.1","message":{"role":"assistant","content":"MATCH (o:Organization) RETURN count(o)"},"done":true}`)
		}))
		defer ts.Close()

		translator, err := NewOllama(Config{BaseURL: ts.URL})
		So(err, ShouldBeNil)

		cypher, err := translator.Translate(context.Background(), "How many organizations?", ContractSchema())

		Convey("Then the message content is the query", func() {
			So(err, ShouldBeNil)
			So(cypher, ShouldEqual, "MATCH (o:Organization) RETURN count(o)")
		})
	})

	Convey("Given a model that answers with nothing", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"model":"llama3.1","message":{"role":"assistant","content":"  "},"done":true}`)
		}))
		defer ts.Close()

		translator, _ := NewOllama(Config{BaseURL: ts.URL})
		_, err := translator.Translate(context.Background(), "?", ContractSchema())

		Convey("Then it is a translation error", func() {
			So(errors.Is(err, errors.ErrTranslation), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	_, err := New(Config{Provider: "deepseek"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	translator, err := New(Config{Provider: "anthropic", APIKey: "test"})
	assert.NoError(t, err)
	assert.IsType(t, &Anthropic{}, translator)
}
