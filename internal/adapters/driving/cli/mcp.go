package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/lexroster/internal/adapters/driving/mcp"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

var (
	mcpAddr    string
	mcpComplex string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve roster search to AI assistants over MCP",
	Args:  cobra.NoArgs,
	Long: `Serves roster documents, judges and the structured roster to AI assistants
over the Model Context Protocol.

Tools: search_documents, filter_documents, search_judges, search_rosters and
summarize_documents. Resources: lexroster://topology, lexroster://summary and
lexroster://documents/{id}.

Without --addr one assistant is served over stdio. With --addr the server
listens for streamable HTTP at ` + mcp.MountPath + `. To serve it next to the
REST API instead, use "lexroster serve --mcp".

--complex limits a deployment to one court complex: queries default to it,
other complexes are rejected and their documents are hidden.`,
	Example: `  lexroster mcp
  lexroster mcp --complex rohini
  lexroster mcp --addr :8081`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "listen for streamable HTTP on this address instead of stdio")
	mcpCmd.Flags().StringVar(&mcpComplex, "complex", "", "serve only this court complex")
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer builds the MCP server over the configured services.
func newMCPServer(complex string) (*mcp.Server, error) {
	ports := &mcp.Ports{
		Search:   searchService,
		Judges:   judgeService,
		Document: documentService,
		Roster:   rosterService,
	}

	var opts []mcp.Option
	if complex != "" {
		opts = append(opts, mcp.WithComplex(domain.Complex(complex)))
	}
	return mcp.NewServer(ports, opts...)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return fmt.Errorf("mcp: %w", errNotConfigured)
	}

	server, err := newMCPServer(mcpComplex)
	if err != nil {
		return err
	}

	if mcpAddr == "" {
		return server.Run(cmd.Context())
	}

	srv := &http.Server{
		Addr:              mcpAddr,
		Handler:           server.Mount(nil),
		ReadHeaderTimeout: appConfig.HTTP.ReadTimeout.Duration,
		IdleTimeout:       appConfig.HTTP.IdleTimeout.Duration,
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP listening on %s%s\n", mcpAddr, mcp.MountPath)
	return httpapi.ListenAndServe(cmd.Context(), srv)
}
