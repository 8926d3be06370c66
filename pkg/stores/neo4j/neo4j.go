package neo4j

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Client talks to the Neo4j HTTP transactional endpoint. Each call is a
single auto-committed statement.
*/
type Client struct {
	Endpoint   string
	Username   string
	Password   string
	Database   string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithDatabase(database string) ClientOption {
	return func(client *Client) {
		if database != "" {
			client.Database = database
		}
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

func New(endpoint, user, pass string, opts ...ClientOption) *Client {
	client := &Client{
		Endpoint:   strings.TrimSuffix(endpoint, "/"),
		Username:   user,
		Password:   pass,
		Database:   "neo4j",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type statement struct {
	Statement  string         `json:"statement"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type txRequest struct {
	Statements []statement `json:"statements"`
}

type txResponse struct {
	Results []struct {
		Columns []string `json:"columns"`
		Data    []struct {
			Row []any `json:"row"`
		} `json:"data"`
	} `json:"results"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (client *Client) Read(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return client.ExecCypher(ctx, cypher, params, "READ")
}

func (client *Client) Write(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return client.ExecCypher(ctx, cypher, params, "WRITE")
}

func (client *Client) Ping(ctx context.Context) error {
	_, err := client.ExecCypher(ctx, "RETURN 1", nil, "READ")
	return err
}

// Close is a no-op; the HTTP transport holds no session.
func (client *Client) Close(context.Context) error {
	return nil
}

/*
ExecCypher sends a single Cypher statement and zips the returned columns
with each row. Transport failures and 5xx statuses are connectivity
errors. Other non-2xx statuses, such as rejected credentials, are store
errors, as are errors reported inside the response body unless Neo4j
classifies them as transient.
*/
func (client *Client) ExecCypher(
	ctx context.Context, cypher string, params map[string]any, accessMode string,
) (*Result, error) {
	b, err := json.Marshal(txRequest{
		Statements: []statement{{Statement: cypher, Parameters: params}},
	})

	if err != nil {
		return nil, errors.ErrStore.Wrap(err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		client.Endpoint+"/db/"+client.Database+"/tx/commit",
		bytes.NewReader(b),
	)

	if err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access-mode", accessMode)

	if client.Username != "" {
		req.SetBasicAuth(client.Username, client.Password)
	}

	resp, err := client.httpClient.Do(req)

	if err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, errors.ErrConnectivity.WithMessagef("neo4j: status %s", resp.Status)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, errors.ErrStore.WithMessagef("neo4j: status %s", resp.Status)
	}

	var out txResponse

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	if err := decoder.Decode(&out); err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	if len(out.Errors) > 0 {
		return nil, classify(out.Errors[0].Code, out.Errors[0].Message)
	}

	result := &Result{}

	if len(out.Results) == 0 {
		return result, nil
	}

	result.Keys = out.Results[0].Columns
	result.Records = make([]Record, 0, len(out.Results[0].Data))

	for _, data := range out.Results[0].Data {
		record := make(Record, len(result.Keys))

		for i, key := range result.Keys {
			if i < len(data.Row) {
				record[key] = data.Row[i]
			}
		}

		result.Records = append(result.Records, record)
	}

	return result, nil
}
