package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	fiberadaptor "github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/theapemachine/contract-search/pkg/auth"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/metrics"
	"github.com/theapemachine/contract-search/pkg/search"
)

const requestIDHeader = "X-Request-ID"

/*
ContractServer exposes the retrieval facade over HTTP. Handlers are thin:
they parse the request, call the Searcher and map errors to statuses.
*/
type ContractServer struct {
	app      *fiber.App
	searcher search.Searcher
	auth     *auth.Service
	metrics  *metrics.Metrics
	ready    func(context.Context) error
}

type ServerOption func(*ContractServer)

// WithAuth requires a valid bearer token on every API route.
func WithAuth(svc *auth.Service) ServerOption {
	return func(srv *ContractServer) {
		srv.auth = svc
	}
}

// WithMetrics exposes the registry on /metrics.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(srv *ContractServer) {
		srv.metrics = m
	}
}

// WithReadiness sets the check behind /readyz, usually the store's Ping.
func WithReadiness(check func(context.Context) error) ServerOption {
	return func(srv *ContractServer) {
		srv.ready = check
	}
}

type similarRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

type questionRequest struct {
	Question string `json:"question"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func NewContractServer(searcher search.Searcher, options ...ServerOption) *ContractServer {
	srv := &ContractServer{
		app: fiber.New(fiber.Config{
			AppName:      "Contract Search",
			ServerHeader: "Contract-Search-Server",
		}),
		searcher: searcher,
	}

	for _, option := range options {
		option(srv)
	}

	srv.routes()

	return srv
}

// App returns the underlying fiber app, for tests and embedding.
func (srv *ContractServer) App() *fiber.App {
	return srv.app
}

func (srv *ContractServer) Listen(addr string) error {
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *ContractServer) Shutdown(ctx context.Context) error {
	return srv.app.ShutdownWithContext(ctx)
}

func (srv *ContractServer) routes() {
	srv.app.Use(srv.requestID, logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return isOperational(c.Path())
		},
	}))

	srv.app.Get("/livez", healthcheck.New())
	srv.app.Get("/readyz", srv.handleReady)

	if srv.metrics != nil {
		srv.app.Get("/metrics", fiberadaptor.HTTPHandler(
			promhttp.HandlerFor(srv.metrics.Registry, promhttp.HandlerOpts{}),
		))
	}

	if srv.auth != nil {
		srv.app.Use(srv.authenticate)
	}

	srv.app.Get("/clause-types", srv.handleClauseTypes)
	srv.app.Get("/contracts", srv.handleListContracts)
	srv.app.Get("/contracts/:id", srv.handleGetContract)
	srv.app.Get("/contracts/:id/clauses", srv.handleGetContractClauses)
	srv.app.Post("/contracts/similar", srv.handleSimilar)
	srv.app.Post("/questions", srv.handleQuestion)
}

func isOperational(path string) bool {
	return path == "/livez" || path == "/readyz" || path == "/metrics"
}

func (srv *ContractServer) requestID(c fiber.Ctx) error {
	id := c.Get(requestIDHeader)

	if id == "" {
		id = uuid.NewString()
	}

	c.Locals(requestIDHeader, id)
	c.Set(requestIDHeader, id)

	return c.Next()
}

func (srv *ContractServer) authenticate(c fiber.Ctx) error {
	if isOperational(c.Path()) {
		return c.Next()
	}

	subject, err := srv.auth.Authenticate(c.Get(fiber.HeaderAuthorization))

	if err != nil {
		return srv.fail(c, err)
	}

	c.Locals("subject", subject)

	return c.Next()
}

func (srv *ContractServer) handleReady(c fiber.Ctx) error {
	if srv.ready != nil {
		if err := srv.ready(c); err != nil {
			return srv.fail(c, err)
		}
	}

	return c.SendString("OK")
}

func (srv *ContractServer) handleClauseTypes(c fiber.Ctx) error {
	return c.JSON(contract.ClauseTypeLabels())
}

func (srv *ContractServer) handleGetContract(c fiber.Ctx) error {
	contractID, err := contractIDParam(c)

	if err != nil {
		return srv.fail(c, err)
	}

	agreement, err := srv.searcher.GetContract(c, contractID)

	if err != nil {
		return srv.fail(c, err)
	}

	if agreement == nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Error:     "contract " + strconv.FormatInt(contractID, 10) + " not found",
			RequestID: requestIDOf(c),
		})
	}

	return c.JSON(agreement)
}

func (srv *ContractServer) handleGetContractClauses(c fiber.Ctx) error {
	contractID, err := contractIDParam(c)

	if err != nil {
		return srv.fail(c, err)
	}

	clauses, err := srv.searcher.GetContractClauses(c, contractID)

	if err != nil {
		return srv.fail(c, err)
	}

	return c.JSON(clauses)
}

/*
handleListContracts serves the three list queries. Exactly one of
organization, with_clause and without_clause must be given.
*/
func (srv *ContractServer) handleListContracts(c fiber.Ctx) error {
	var (
		organization = c.Query("organization")
		with         = c.Query("with_clause")
		without      = c.Query("without_clause")
		given        = 0
	)

	for _, value := range []string{organization, with, without} {
		if value != "" {
			given++
		}
	}

	if given != 1 {
		return srv.fail(c, errors.ErrValidation.WithMessagef(
			"exactly one of organization, with_clause or without_clause is required",
		))
	}

	var (
		agreements []contract.Agreement
		err        error
	)

	switch {
	case organization != "":
		agreements, err = srv.searcher.GetContracts(c, organization)
	case with != "":
		agreements, err = srv.clauseQuery(c, with, srv.searcher.GetContractsWithClauseType)
	default:
		agreements, err = srv.clauseQuery(c, without, srv.searcher.GetContractsWithoutClause)
	}

	if err != nil {
		return srv.fail(c, err)
	}

	return c.JSON(agreements)
}

func (srv *ContractServer) clauseQuery(
	c fiber.Ctx,
	raw string,
	query func(context.Context, contract.ClauseType) ([]contract.Agreement, error),
) ([]contract.Agreement, error) {
	clauseType, err := contract.ParseClauseType(raw)

	if err != nil {
		return nil, err
	}

	return query(c, clauseType)
}

func (srv *ContractServer) handleSimilar(c fiber.Ctx) error {
	var req similarRequest

	if err := c.Bind().Body(&req); err != nil {
		return srv.fail(c, errors.ErrValidation.WithMessagef("invalid body: %v", err))
	}

	var (
		agreements []contract.Agreement
		err        error
	)

	if req.TopK != 0 {
		agreements, err = srv.searcher.SearchSimilarExcerpts(c, req.Text, req.TopK)
	} else {
		agreements, err = srv.searcher.GetContractsSimilarText(c, req.Text)
	}

	if err != nil {
		return srv.fail(c, err)
	}

	return c.JSON(agreements)
}

func (srv *ContractServer) handleQuestion(c fiber.Ctx) error {
	var req questionRequest

	if err := c.Bind().Body(&req); err != nil {
		return srv.fail(c, errors.ErrValidation.WithMessagef("invalid body: %v", err))
	}

	answer, err := srv.searcher.AnswerAggregationQuestion(c, req.Question)

	if err != nil {
		return srv.fail(c, err)
	}

	return c.JSON(answerResponse{Answer: answer})
}

func (srv *ContractServer) fail(c fiber.Ctx, err error) error {
	status := StatusOf(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "request_id", requestIDOf(c), "error", err)
	}

	return c.Status(status).JSON(errorResponse{
		Error:     err.Error(),
		RequestID: requestIDOf(c),
	})
}

// StatusOf maps an error from the search stack to an HTTP status.
func StatusOf(err error) int {
	var (
		missingEmbedder   *errors.ErrMissingEmbedder
		missingTranslator *errors.ErrMissingTranslator
	)

	switch {
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrConnectivity):
		return http.StatusServiceUnavailable
	case errors.As(err, &missingEmbedder), errors.As(err, &missingTranslator):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func contractIDParam(c fiber.Ctx) (int64, error) {
	raw := strings.TrimSpace(c.Params("id"))
	contractID, err := strconv.ParseInt(raw, 10, 64)

	if err != nil {
		return 0, errors.ErrValidation.WithMessagef("contract id %q is not an integer", raw)
	}

	return contractID, nil
}

func requestIDOf(c fiber.Ctx) string {
	id, _ := c.Locals(requestIDHeader).(string)
	return id
}
