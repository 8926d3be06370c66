package config

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/theapemachine/contract-search/pkg/errors"
)

const sample = `
neo4j:
  uri: http://graph:7474
  transport: http
search:
  top_k: 5
server:
  auth:
    secret: s3cret
    rate_interval: 30s
ingest:
  source: bucket
  bucket: contracts
`

func load(t *testing.T, yaml string) (*Config, error) {
	t.Helper()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatal(err)
	}

	return Load(v)
}

func TestLoad(t *testing.T) {
	Convey("Given a partial config file", t, func() {
		cfg, err := load(t, sample)

		Convey("Then file values win and defaults fill the rest", func() {
			So(err, ShouldBeNil)
			So(cfg.Neo4j.URI, ShouldEqual, "http://graph:7474")
			So(cfg.Neo4j.Transport, ShouldEqual, "http")
			So(cfg.Neo4j.Database, ShouldEqual, "neo4j")
			So(cfg.Search.TopK, ShouldEqual, 5)
			So(cfg.Embedding.Dimensions, ShouldEqual, 1536)
			So(cfg.Server.Auth.Secret, ShouldEqual, "s3cret")
			So(cfg.Server.Auth.RateInterval, ShouldEqual, 30*time.Second)
			So(cfg.Server.Auth.TokenTTL, ShouldEqual, time.Hour)
			So(cfg.Ingest.Bucket, ShouldEqual, "contracts")
			So(cfg.Ingest.Concurrency, ShouldEqual, 4)
		})
	})

	Convey("Given an environment override", t, func() {
		t.Setenv("NEO4J_PASSWORD", "from-env")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		v := viper.New()
		SetDefaults(v)
		BindEnv(v)

		cfg, err := Load(v)

		Convey("Then the environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Neo4j.Password, ShouldEqual, "from-env")
			So(cfg.Embedding.APIKey, ShouldEqual, "sk-test")
			So(cfg.Translator.APIKey, ShouldEqual, "sk-test")
		})
	})

	Convey("Given invalid values", t, func() {
		_, err := load(t, "search:\n  top_k: 0\nneo4j:\n  transport: grpc\n")

		Convey("Then loading fails validation", func() {
			So(errors.Is(err, errors.ErrValidation), ShouldBeTrue)
		})
	})
}
