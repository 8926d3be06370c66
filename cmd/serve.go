package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/auth"
	"github.com/theapemachine/contract-search/pkg/metrics"
	"github.com/theapemachine/contract-search/pkg/service"
	"github.com/theapemachine/contract-search/pkg/tools"
)

var (
	portFlag int
	hostFlag string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the retrieval operations over HTTP or MCP",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	httpCmd = &cobra.Command{
		Use:   "http",
		Short: "Serve the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			exec, err := connect(ctx)

			if err != nil {
				return err
			}

			defer exec.Close(context.Background())

			m := metrics.New()
			options := []service.ServerOption{
				service.WithMetrics(m),
				service.WithReadiness(exec.Ping),
			}

			if cfg.Server.Auth.Secret != "" {
				options = append(options, service.WithAuth(auth.NewService(
					cfg.Server.Auth.Secret,
					auth.WithTTL(cfg.Server.Auth.TokenTTL),
					auth.WithRateLimit(cfg.Server.Auth.RateLimit, cfg.Server.Auth.RateInterval),
				)))
			} else {
				log.Warn("REST API running without authentication")
			}

			srv := service.NewContractServer(newSearchService(ctx, exec, m), options...)

			go func() {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error("shutdown failed", "error", err)
				}
			}()

			addr := fmt.Sprintf("%s:%d", hostFlag, portFlag)
			log.Info("serving REST API", "addr", addr)

			return srv.Listen(addr)
		},
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the retrieval operations as MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			exec, err := connect(ctx)

			if err != nil {
				return err
			}

			defer exec.Close(context.Background())

			srv := tools.NewServer(newSearchService(ctx, exec, nil), rootCmd.Version)

			return tools.Serve(ctx, srv, cfg.MCP.Transport, cfg.MCP.Addr)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(httpCmd)
	serveCmd.AddCommand(mcpCmd)

	httpCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "port to serve on (default from server.port)")
	httpCmd.Flags().StringVarP(&hostFlag, "host", "H", "", "host address to bind to (default from server.host)")

	httpCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if portFlag == 0 {
			portFlag = cfg.Server.Port
		}

		if hostFlag == "" {
			hostFlag = cfg.Server.Host
		}
	}
}

var longServe = `
Serve the contract retrieval operations.

Examples:
  # Serve the REST API on port 8080
  contract-search serve http --port 8080

  # Serve MCP tools over stdio, for a desktop assistant
  contract-search serve mcp

  # Serve MCP tools over SSE
  MCP_TRANSPORT=sse contract-search serve mcp
`
