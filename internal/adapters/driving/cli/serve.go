package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/lexroster/internal/adapters/driving/mcp"
	"github.com/custodia-labs/lexroster/internal/logger"
)

var (
	serveAddr       string
	serveMCP        bool
	serveMCPComplex string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the document, search, judge and roster API over HTTP, with
/healthz and Prometheus /metrics. With --mcp the MCP server is mounted at /mcp.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP over streamable HTTP at /mcp")
	serveCmd.Flags().StringVar(&serveMCPComplex, "mcp-complex", "", "scope the mounted MCP server to one court complex")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	api, err := httpapi.NewServer(httpapi.Services{
		Ingest:    ingestService,
		Documents: documentService,
		Search:    searchService,
		Judges:    judgeService,
		Rosters:   rosterService,
		Store:     storePinger,
		Engine:    engineStatus,
		Metrics:   metricsHandler,
	}, httpapi.Config{
		MaxUploadBytes: appConfig.HTTP.MaxUploadBytes,
	})
	if err != nil {
		return err
	}

	var handler http.Handler = api
	if serveMCP {
		server, err := newMCPServer(serveMCPComplex)
		if err != nil {
			return err
		}
		handler = server.Mount(api)
		logger.Info("MCP mounted at %s", mcp.MountPath)
	}

	addr := serveAddr
	if addr == "" {
		addr = appConfig.HTTP.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: appConfig.HTTP.ReadTimeout.Duration,
		ReadTimeout:       appConfig.HTTP.ReadTimeout.Duration,
		WriteTimeout:      appConfig.HTTP.WriteTimeout.Duration,
		IdleTimeout:       appConfig.HTTP.IdleTimeout.Duration,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "lexroster API listening on %s\n", addr)
	logger.Info("HTTP API listening on %s", addr)
	return httpapi.ListenAndServe(cmd.Context(), srv)
}
