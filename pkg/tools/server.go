package tools

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/contract-search/pkg/search"
)

/*
NewServer builds an MCP server carrying the contract tools. Each call is
logged with a request id so stdio and SSE sessions can be traced.
*/
func NewServer(searcher search.Searcher, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"contract-search",
		version,
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolCapabilities(true),
		server.WithToolHandlerMiddleware(traced),
	)

	NewContractTools(searcher).Register(srv)

	return srv
}

func traced(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.NewString()
		log.Info("tool call", "tool", req.Params.Name, "request_id", requestID)

		result, err := next(ctx, req)

		if result != nil && result.IsError {
			log.Warn("tool call returned an error", "tool", req.Params.Name, "request_id", requestID)
		}

		return result, err
	}
}

// Serve runs srv over stdio, or over SSE on addr when transport is "sse".
func Serve(ctx context.Context, srv *server.MCPServer, transport, addr string) error {
	switch transport {
	case "", "stdio":
		return server.ServeStdio(srv)
	case "sse":
		sse := server.NewSSEServer(srv)

		go func() {
			<-ctx.Done()
			_ = sse.Shutdown(context.Background())
		}()

		log.Info("serving MCP over SSE", "addr", addr)
		return sse.Start(addr)
	default:
		return fmt.Errorf("unknown MCP transport %q", transport)
	}
}
