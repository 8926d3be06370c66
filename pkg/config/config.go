package config

import (
	"strings"
	"time"

	"github.com/cohesivestack/valgo"
	"github.com/spf13/viper"
	"github.com/theapemachine/contract-search/pkg/embedding"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/logging"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
	"github.com/theapemachine/contract-search/pkg/stores/s3"
	"github.com/theapemachine/contract-search/pkg/text2cypher"
)

// Config is the whole runtime configuration, unmarshalled from viper.
type Config struct {
	Neo4j      neo4j.Config       `mapstructure:"neo4j"`
	Embedding  embedding.Config   `mapstructure:"embedding"`
	Translator text2cypher.Config `mapstructure:"translator"`
	Search     Search             `mapstructure:"search"`
	Server     Server             `mapstructure:"server"`
	MCP        MCP                `mapstructure:"mcp"`
	Ingest     Ingest             `mapstructure:"ingest"`
	Log        logging.Options    `mapstructure:"log"`
}

type Search struct {
	TopK              int    `mapstructure:"top_k"`
	OrganizationIndex string `mapstructure:"organization_index"`
	VectorIndex       string `mapstructure:"vector_index"`
	Similarity        string `mapstructure:"similarity"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Auth Auth   `mapstructure:"auth"`
}

/*
Auth enables bearer authentication on the REST API when Secret is set.
RateLimit requests are allowed per RateInterval across all callers.
*/
type Auth struct {
	Secret       string        `mapstructure:"secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	RateLimit    int64         `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
}

type MCP struct {
	Transport string `mapstructure:"transport"`
	Addr      string `mapstructure:"addr"`
}

/*
Ingest selects where the loader reads documents from. Source is "dir" or
"bucket".
*/
type Ingest struct {
	Source      string    `mapstructure:"source"`
	Dir         string    `mapstructure:"dir"`
	Bucket      string    `mapstructure:"bucket"`
	Prefix      string    `mapstructure:"prefix"`
	Concurrency int       `mapstructure:"concurrency"`
	S3          s3.Config `mapstructure:"s3"`
}

/*
SetDefaults registers a default for every key, so environment variables
override keys the config file leaves out.
*/
func SetDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"neo4j.uri":                 "neo4j://localhost:7687",
		"neo4j.transport":           "bolt",
		"neo4j.username":            "neo4j",
		"neo4j.password":            "",
		"neo4j.database":            "neo4j",
		"embedding.provider":        "openai",
		"embedding.model":           "text-embedding-3-small",
		"embedding.dimensions":      1536,
		"embedding.api_key":         "",
		"embedding.base_url":        "",
		"translator.provider":       "openai",
		"translator.model":          "gpt-4o",
		"translator.temperature":    0.0,
		"translator.api_key":        "",
		"translator.base_url":       "",
		"search.top_k":              3,
		"search.organization_index": "organizationNameTextIndex",
		"search.vector_index":       "excerpt_embedding",
		"search.similarity":         "cosine",
		"server.host":               "0.0.0.0",
		"server.port":               3210,
		"server.auth.secret":        "",
		"server.auth.token_ttl":     time.Hour,
		"server.auth.rate_limit":    100,
		"server.auth.rate_interval": time.Minute,
		"mcp.transport":             "stdio",
		"mcp.addr":                  "0.0.0.0:3211",
		"ingest.source":             "dir",
		"ingest.dir":                "./data/output",
		"ingest.bucket":             "",
		"ingest.prefix":             "",
		"ingest.concurrency":        4,
		"ingest.s3.endpoint":        "",
		"ingest.s3.access_key":      "",
		"ingest.s3.secret_key":      "",
		"ingest.s3.region":          "",
		"ingest.s3.use_ssl":         true,
		"log.level":                 "info",
		"log.format":                "text",
		"log.file":                  "",
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

/*
BindEnv makes every key overridable from the environment: neo4j.uri is
read from NEO4J_URI, ingest.s3.endpoint from INGEST_S3_ENDPOINT.
*/
func BindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config and checks the values the services depend on.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ErrValidation.WithMessagef("config: %v", err)
	}

	if cfg.Embedding.APIKey == "" && cfg.Embedding.Provider == "openai" {
		cfg.Embedding.APIKey = v.GetString("openai_api_key")
	}

	if cfg.Translator.APIKey == "" {
		switch cfg.Translator.Provider {
		case "openai":
			cfg.Translator.APIKey = v.GetString("openai_api_key")
		case "anthropic":
			cfg.Translator.APIKey = v.GetString("anthropic_api_key")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	val := valgo.
		Is(valgo.String(cfg.Neo4j.URI, "neo4j.uri").Not().Blank()).
		Is(valgo.String(cfg.Neo4j.Transport, "neo4j.transport").InSlice([]string{"", "bolt", "http"})).
		Is(valgo.Int(cfg.Search.TopK, "search.top_k").GreaterThan(0)).
		Is(valgo.Int(cfg.Embedding.Dimensions, "embedding.dimensions").GreaterThan(0)).
		Is(valgo.Int(cfg.Server.Port, "server.port").Between(1, 65535)).
		Is(valgo.String(cfg.Ingest.Source, "ingest.source").InSlice([]string{"dir", "bucket"})).
		Is(valgo.String(cfg.MCP.Transport, "mcp.transport").InSlice([]string{"stdio", "sse"}))

	if !val.Valid() {
		return errors.ErrValidation.Wrap(val.Error())
	}

	return nil
}
