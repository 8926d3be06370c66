package neo4j

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Executor runs parameterized Cypher against the graph store. Read is used
for every retrieval; Write only by the bootstrap and the loader. Node and
relationship values come back as their property maps, so rows look the
same whichever transport produced them.
*/
type Executor interface {
	Read(ctx context.Context, cypher string, params map[string]any) (*Result, error)
	Write(ctx context.Context, cypher string, params map[string]any) (*Result, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Record is one result row keyed by column name.
type Record map[string]any

type Result struct {
	Keys    []string
	Records []Record
}

/*
Config selects and configures a transport. Transport is "bolt" (the
default) or "http".
*/
type Config struct {
	URI       string `mapstructure:"uri"`
	Transport string `mapstructure:"transport"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
}

/*
Connect builds the Executor for cfg. It does not dial; call Ping to check
the store is reachable.
*/
func Connect(cfg Config) (Executor, error) {
	switch strings.ToLower(cfg.Transport) {
	case "", "bolt":
		return NewDriver(cfg)
	case "http":
		return New(cfg.URI, cfg.Username, cfg.Password, WithDatabase(cfg.Database)), nil
	default:
		return nil, errors.ErrValidation.WithMessagef("unknown neo4j transport %q", cfg.Transport)
	}
}

/*
Decode maps a record onto a typed row struct using its mapstructure tags.
Input is weakly typed, so JSON numbers and driver integers both land in
int64 fields.
*/
func Decode[T any](record Record) (T, error) {
	var out T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})

	if err != nil {
		return out, err
	}

	if err := decoder.Decode(map[string]any(record)); err != nil {
		return out, errors.ErrStore.WithMessagef("decode row: %v", err)
	}

	return out, nil
}

// DecodeAll decodes every record of result, preserving order.
func DecodeAll[T any](result *Result) ([]T, error) {
	if result == nil {
		return nil, nil
	}

	rows := make([]T, 0, len(result.Records))

	for i, record := range result.Records {
		row, err := Decode[T](record)

		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func classify(code, message string) error {
	if strings.HasPrefix(code, "Neo.TransientError") {
		return errors.ErrConnectivity.WithMessagef("%s: %s", code, message)
	}

	return errors.ErrStore.WithMessagef("%s: %s", code, message)
}
