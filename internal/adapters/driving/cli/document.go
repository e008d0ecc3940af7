package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/export"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view, summarise, or delete ingested roster documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentPagesCmd = &cobra.Command{
	Use:   "pages [doc-id]",
	Short: "Print the extracted text, page by page",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentPages,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes a document from the store and from the primary search engine.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count documents per complex, zone and category",
	Args:  cobra.NoArgs,
	RunE:  runDocumentSummary,
}

var (
	listPlace hierarchyFlags
	listDates dateRangeFlags
	listSkip  int
	listLimit int
	listJSON  bool

	summaryXLSX string
	summaryJSON bool
)

func init() {
	listPlace.register(documentListCmd, true)
	listDates.register(documentListCmd)
	documentListCmd.Flags().IntVar(&listSkip, "skip", 0, "number of documents to skip")
	documentListCmd.Flags().IntVarP(&listLimit, "limit", "n", domain.DefaultListLimit, "maximum number of documents")
	documentListCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")

	documentSummaryCmd.Flags().StringVar(&summaryXLSX, "xlsx", "", "also write the summary to this Excel file")
	documentSummaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentPagesCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentSummaryCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return fmt.Errorf("document: %w", errNotConfigured)
	}

	filter, err := listPlace.parse()
	if err != nil {
		return err
	}
	if err := listDates.apply(&filter); err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), filter, domain.Pagination{Skip: listSkip, Limit: listLimit})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		return printJSON(cmd, view.FromDocuments(docs))
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Filed: %s\n", placement(docs[i].Complex, docs[i].Zone, docs[i].Category))
		if docs[i].DocDate != nil {
			cmd.Printf("    Date:  %s\n", docs[i].DocDate.Format("2006-01-02"))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document: %w", errNotConfigured)
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Complex:  %s\n", doc.Complex)
	cmd.Printf("  Zone:     %s\n", doc.Zone)
	cmd.Printf("  Category: %s\n", doc.Category)
	if doc.DocDate != nil {
		cmd.Printf("  Date:     %s\n", doc.DocDate.Format("2006-01-02"))
	}
	cmd.Printf("  Pages:    %d\n", len(doc.Pages))
	if doc.SourceURL != "" {
		cmd.Printf("  Source:   %s\n", doc.SourceURL)
	}
	if doc.BlobURL != "" {
		cmd.Printf("  Blob:     %s\n", doc.BlobURL)
	}
	if doc.SearchEngineRef != nil {
		cmd.Printf("  Indexed:  %s/%s\n", doc.SearchEngineRef.IndexName, doc.SearchEngineRef.ExternalID)
	}
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentPages(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document: %w", errNotConfigured)
	}

	pages, err := documentService.Pages(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document pages: %w", err)
	}

	for _, p := range pages {
		cmd.Printf("--- page %d ---\n", p.PageNumber)
		cmd.Println(p.Text)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document: %w", errNotConfigured)
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentSummary(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return fmt.Errorf("document: %w", errNotConfigured)
	}

	groups, err := documentService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to summarise documents: %w", err)
	}

	if summaryXLSX != "" {
		buf, err := export.SummaryXLSX(groups)
		if err != nil {
			return err
		}
		if err := os.WriteFile(summaryXLSX, buf, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", summaryXLSX, err)
		}
	}

	if summaryJSON {
		return printJSON(cmd, view.FromGroups(groups))
	}

	if len(groups) == 0 {
		cmd.Println("No documents yet.")
		return nil
	}

	cmd.Printf("%-14s %-12s %-24s %5s  %s\n", "COMPLEX", "ZONE", "CATEGORY", "COUNT", "LATEST")
	for _, g := range groups {
		latest := "-"
		if g.LatestDocDate != nil {
			latest = g.LatestDocDate.Format("2006-01-02")
		}
		cmd.Printf("%-14s %-12s %-24s %5d  %s\n", g.Complex, g.Zone, g.Category, g.Count, latest)
	}
	if summaryXLSX != "" {
		cmd.Printf("\nWrote %s\n", summaryXLSX)
	}
	return nil
}
