package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

var (
	searchPlace hierarchyFlags
	searchLimit int
	searchJSON  bool

	filterPlace hierarchyFlags
	filterSkip  int
	filterLimit int
	filterJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search roster documents",
	Long: `Runs a free-text search over document titles and text, optionally
narrowed by complex, zone and category. The primary search engine answers
when it is healthy; otherwise the local document store does.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List documents by complex, zone or category",
	Long: `Lists documents filed under a complex, zone or category, newest first.
At least one of --complex, --zone or --category is required.`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	searchPlace.register(searchCmd, true)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)

	filterPlace.register(filterCmd, true)
	filterCmd.Flags().IntVar(&filterSkip, "skip", 0, "number of documents to skip")
	filterCmd.Flags().IntVarP(&filterLimit, "limit", "n", domain.DefaultListLimit, "maximum number of documents")
	filterCmd.Flags().BoolVar(&filterJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(filterCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return fmt.Errorf("search: %w", errNotConfigured)
	}

	f, err := searchPlace.parse()
	if err != nil {
		return err
	}

	resp, err := searchService.TextSearch(cmd.Context(), domain.TextQuery{
		Q:        args[0],
		Complex:  f.Complex,
		Zone:     f.Zone,
		Category: f.Category,
		Size:     searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, view.FromSearchResponse(resp))
	}
	return outputSearchTable(cmd, resp)
}

func runFilter(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return fmt.Errorf("filter: %w", errNotConfigured)
	}

	f, err := filterPlace.parse()
	if err != nil {
		return err
	}

	resp, err := searchService.FilterSearch(cmd.Context(), domain.FilterQuery{
		Complex:    f.Complex,
		Zone:       f.Zone,
		Category:   f.Category,
		Pagination: domain.Pagination{Skip: filterSkip, Limit: filterLimit},
	})
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	if filterJSON {
		return printJSON(cmd, view.FromSearchResponse(resp))
	}
	return outputSearchTable(cmd, resp)
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d, engine: %s):\n\n", len(resp.Hits), resp.Total, resp.Engine)
	for i := range resp.Hits {
		h := &resp.Hits[i]

		// Format: [N] Title (Score)
		title := h.Title
		if title == "" {
			title = h.DocumentID
		}
		if h.Score != nil {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, *h.Score)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, title)
		}

		cmd.Printf("      %s", placement(h.Complex, h.Zone, h.Category))
		if h.DocDate != nil {
			cmd.Printf(", %s", h.DocDate.Format("2006-01-02"))
		}
		cmd.Printf("  id=%s\n", h.DocumentID)
		if len(h.Highlights) > 0 {
			cmd.Printf("      %s\n", h.Highlights[0])
		}
		cmd.Println()
	}
	return nil
}
