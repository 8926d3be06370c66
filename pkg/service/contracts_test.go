package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/contract-search/pkg/auth"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/metrics"
)

type stubSearcher struct {
	err        error
	clauseType contract.ClauseType
	topK       int
	question   string
}

func (stub *stubSearcher) GetContract(_ context.Context, contractID int64) (*contract.Agreement, error) {
	if stub.err != nil || contractID != 1 {
		return nil, stub.err
	}

	return &contract.Agreement{ContractID: 1, AgreementName: "MSA-1"}, nil
}

func (stub *stubSearcher) GetContracts(_ context.Context, name string) ([]contract.Agreement, error) {
	return []contract.Agreement{{ContractID: 1, Name: name}}, stub.err
}

func (stub *stubSearcher) GetContractsWithClauseType(_ context.Context, clauseType contract.ClauseType) ([]contract.Agreement, error) {
	stub.clauseType = clauseType
	return []contract.Agreement{{ContractID: 1}}, stub.err
}

func (stub *stubSearcher) GetContractsWithoutClause(_ context.Context, clauseType contract.ClauseType) ([]contract.Agreement, error) {
	stub.clauseType = clauseType
	return []contract.Agreement{{ContractID: 2}}, stub.err
}

func (stub *stubSearcher) GetContractsSimilarText(context.Context, string) ([]contract.Agreement, error) {
	stub.topK = 3
	return []contract.Agreement{{ContractID: 1}}, stub.err
}

func (stub *stubSearcher) SearchSimilarExcerpts(_ context.Context, _ string, topK int) ([]contract.Agreement, error) {
	stub.topK = topK
	return []contract.Agreement{{ContractID: 1}}, stub.err
}

func (stub *stubSearcher) GetContractClauses(context.Context, int64) ([]contract.ContractClause, error) {
	return []contract.ContractClause{{ClauseType: contract.NonCompete}}, stub.err
}

func (stub *stubSearcher) AnswerAggregationQuestion(_ context.Context, question string) (string, error) {
	stub.question = question
	return "count: 2\n\n", stub.err
}

func do(t *testing.T, srv *ContractServer, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := srv.App().Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestRoutes(t *testing.T) {
	stub := &stubSearcher{}
	srv := NewContractServer(stub)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantBody   string
	}{
		{"contract by id", httptest.NewRequest(http.MethodGet, "/contracts/1", nil), http.StatusOK, `"agreement_name":"MSA-1"`},
		{"missing contract", httptest.NewRequest(http.MethodGet, "/contracts/9", nil), http.StatusNotFound, "not found"},
		{"non-numeric id", httptest.NewRequest(http.MethodGet, "/contracts/abc", nil), http.StatusBadRequest, "not an integer"},
		{"clauses", httptest.NewRequest(http.MethodGet, "/contracts/1/clauses", nil), http.StatusOK, `"Non-Compete"`},
		{"by organization", httptest.NewRequest(http.MethodGet, "/contracts?organization=OrgA", nil), http.StatusOK, `"contract_id":1`},
		{"with clause", httptest.NewRequest(http.MethodGet, "/contracts?with_clause=Non-Compete", nil), http.StatusOK, `"contract_id":1`},
		{"without clause", httptest.NewRequest(http.MethodGet, "/contracts?without_clause=NON_COMPETE", nil), http.StatusOK, `"contract_id":2`},
		{"unknown clause", httptest.NewRequest(http.MethodGet, "/contracts?with_clause=Poetry", nil), http.StatusBadRequest, "error"},
		{"no filter", httptest.NewRequest(http.MethodGet, "/contracts", nil), http.StatusBadRequest, "exactly one"},
		{"two filters", httptest.NewRequest(http.MethodGet, "/contracts?organization=A&with_clause=Non-Compete", nil), http.StatusBadRequest, "exactly one"},
		{"clause types", httptest.NewRequest(http.MethodGet, "/clause-types", nil), http.StatusOK, `"Insurance"`},
		{"similar", jsonRequest(http.MethodPost, "/contracts/similar", `{"text":"shall not compete","top_k":5}`), http.StatusOK, `"contract_id":1`},
		{"question", jsonRequest(http.MethodPost, "/questions", `{"question":"How many?"}`), http.StatusOK, `"answer":"count: 2\n\n"`},
		{"liveness", httptest.NewRequest(http.MethodGet, "/livez", nil), http.StatusOK, ""},
		{"readiness", httptest.NewRequest(http.MethodGet, "/readyz", nil), http.StatusOK, "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode, body)
			assert.Contains(t, body, tt.wantBody)
			assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
		})
	}

	assert.Equal(t, 5, stub.topK)
	assert.Equal(t, "How many?", stub.question)
	assert.Equal(t, contract.NonCompete, stub.clauseType)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"connectivity", errors.ErrConnectivity.WithMessagef("down"), http.StatusServiceUnavailable},
		{"validation", errors.ErrValidation.WithMessagef("blank"), http.StatusBadRequest},
		{"misaligned", errors.ErrMisalignedRow, http.StatusInternalServerError},
		{"store", errors.ErrStore, http.StatusInternalServerError},
		{"missing embedder", errors.NewErrMissingEmbedder(), http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewContractServer(&stubSearcher{err: tt.err})
			resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/contracts?organization=OrgA", nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var out errorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.NotEmpty(t, out.Error)
			assert.Equal(t, resp.Header.Get(requestIDHeader), out.RequestID)
		})
	}
}

func TestReadinessFailure(t *testing.T) {
	srv := NewContractServer(&stubSearcher{}, WithReadiness(func(context.Context) error {
		return errors.ErrConnectivity
	}))

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestReadinessReceivesRequestContext(t *testing.T) {
	var seen context.Context

	srv := NewContractServer(&stubSearcher{}, WithReadiness(func(ctx context.Context) error {
		seen = ctx
		return ctx.Err()
	}))

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	require.NotNil(t, seen)
}

func TestLivenessIgnoresReadiness(t *testing.T) {
	srv := NewContractServer(&stubSearcher{}, WithReadiness(func(context.Context) error {
		return errors.ErrConnectivity
	}))

	resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthentication(t *testing.T) {
	svc := auth.NewService("secret", auth.WithRateLimit(100, time.Minute))
	srv := NewContractServer(&stubSearcher{}, WithAuth(svc), WithMetrics(metrics.New()))

	token, err := svc.IssueToken("analyst")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/contracts/1", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contracts/1", nil)
		req.Header.Set("Authorization", "Bearer "+token.Token)

		resp, _ := do(t, srv, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("operational routes stay open", func(t *testing.T) {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "go_goroutines")
	})
}

func TestRateLimit(t *testing.T) {
	svc := auth.NewService("secret", auth.WithRateLimit(1, time.Minute))
	srv := NewContractServer(&stubSearcher{}, WithAuth(svc))
	token, _ := svc.IssueToken("analyst")

	statuses := make([]int, 0, 2)

	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/clause-types", nil)
		req.Header.Set("Authorization", "Bearer "+token.Token)

		resp, _ := do(t, srv, req)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, statuses)
}
