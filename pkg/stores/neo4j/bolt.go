package neo4j

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Driver runs statements over Bolt with the official driver. Each statement
is an auto-commit transaction opened in the caller's access mode, so a
cluster routes reads to readers. Failures are returned as they happen;
the driver's managed-transaction retries are never engaged.
*/
type Driver struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewDriver(cfg Config) (*Driver, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)

	if err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	return &Driver{driver: driver, database: cfg.Database}, nil
}

func (d *Driver) Read(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return d.run(ctx, neo4j.AccessModeRead, cypher, params)
}

func (d *Driver) Write(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return d.run(ctx, neo4j.AccessModeWrite, cypher, params)
}

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.driver.VerifyConnectivity(ctx); err != nil {
		return errors.ErrConnectivity.Wrap(err)
	}

	return nil
}

func (d *Driver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

func (d *Driver) run(
	ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any,
) (*Result, error) {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: d.database,
	})
	defer session.Close(ctx)

	cursor, err := session.Run(ctx, cypher, params)

	if err != nil {
		return nil, driverError(err)
	}

	records, err := cursor.Collect(ctx)

	if err != nil {
		return nil, driverError(err)
	}

	keys, err := cursor.Keys()

	if err != nil {
		return nil, driverError(err)
	}

	result := &Result{Keys: keys, Records: make([]Record, 0, len(records))}

	for _, rec := range records {
		record := make(Record, len(rec.Keys))

		for i, key := range rec.Keys {
			record[key] = normalize(rec.Values[i])
		}

		result.Records = append(result.Records, record)
	}

	return result, nil
}

/*
normalize replaces nodes and relationships with their property maps,
recursing into lists and maps, so decoded rows match the HTTP transport.
*/
func normalize(value any) any {
	switch v := value.(type) {
	case neo4j.Node:
		return v.Props
	case neo4j.Relationship:
		return v.Props
	case []any:
		out := make([]any, len(v))

		for i, item := range v {
			out[i] = normalize(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))

		for key, item := range v {
			out[key] = normalize(item)
		}

		return out
	default:
		return v
	}
}

func driverError(err error) error {
	var netErr net.Error

	if neo4j.IsConnectivityError(err) ||
		stderrors.As(err, &netErr) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, context.Canceled) {
		return errors.ErrConnectivity.Wrap(err)
	}

	var neoErr *neo4j.Neo4jError

	if stderrors.As(err, &neoErr) {
		return classify(neoErr.Code, neoErr.Msg)
	}

	return errors.ErrStore.Wrap(err)
}
