package text2cypher

import (
	"context"
	"strings"
	"unicode"

	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Translator turns a natural-language question into a single Cypher
statement constrained to schema.
*/
type Translator interface {
	Translate(ctx context.Context, question string, schema Schema) (string, error)
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc func(ctx context.Context, question string, schema Schema) (string, error)

func (fn TranslatorFunc) Translate(ctx context.Context, question string, schema Schema) (string, error) {
	return fn(ctx, question, schema)
}

type Config struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
}

// New builds the Translator named by cfg.Provider: openai (default), anthropic or ollama.
func New(cfg Config) (Translator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(cfg), nil
	case "anthropic", "claude":
		return NewAnthropic(cfg), nil
	case "ollama":
		return NewOllama(cfg)
	default:
		return nil, errors.ErrValidation.WithMessagef("unknown translator provider %q", cfg.Provider)
	}
}

const systemPrompt = "You translate questions about legal agreements into Cypher for Neo4j. " +
	"Answer with exactly one read-only Cypher statement."

/*
Prompt renders the user message sent to the model.
*/
func Prompt(question string, schema Schema, examples ...string) string {
	builder := &strings.Builder{}

	builder.WriteString("Task: Generate a Cypher statement for querying a Neo4j graph database from a user input.\n\n")
	builder.WriteString("Schema:\n")
	builder.WriteString(schema.String())

	if len(examples) > 0 {
		builder.WriteString("\nExamples:\n")
		builder.WriteString(strings.Join(examples, "\n"))
		builder.WriteString("\n")
	}

	builder.WriteString("\nInput:\n")
	builder.WriteString(question)
	builder.WriteString("\n\nDo not use any properties or relationships not included in the schema.\n")
	builder.WriteString("Do not include triple backticks ``` or any additional text except the generated Cypher statement in your response.\n\n")
	builder.WriteString("Cypher query:")

	return builder.String()
}

/*
StripFences removes a surrounding markdown code fence, which models add
despite being told not to. Text on the opening fence line is dropped only
when it is a language tag.
*/
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimSuffix(strings.TrimRight(strings.TrimPrefix(text, "```"), " \t\r\n"), "```")

	if first, rest, found := strings.Cut(text, "\n"); found && isLanguageTag(first) {
		text = rest
	} else if !found {
		if tag, query, spaced := strings.Cut(text, " "); spaced && strings.EqualFold(tag, "cypher") {
			text = query
		}
	}

	return strings.TrimSpace(text)
}

// Clause keywords that can open a fenced query on the fence line itself.
var leadingKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "WITH": true, "RETURN": true, "CALL": true,
	"UNWIND": true, "CREATE": true, "MERGE": true, "USE": true, "SHOW": true,
}

func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)

	if line == "" {
		return true
	}

	if leadingKeywords[strings.ToUpper(line)] {
		return false
	}

	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '+' {
			return false
		}
	}

	return true
}

func finish(raw string) (string, error) {
	cypher := StripFences(raw)

	if cypher == "" {
		return "", errors.ErrTranslation.WithMessagef("model returned no query")
	}

	return cypher, nil
}
