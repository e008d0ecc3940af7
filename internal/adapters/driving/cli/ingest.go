package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/normalisers/pdf"
)

var (
	ingestPlace     hierarchyFlags
	ingestTitle     string
	ingestDate      string
	ingestSourceURL string
	ingestFetchURL  string
	ingestBlobURL   string
	ingestJSON      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a roster PDF",
	Long: `Extracts the text of a roster PDF and files it under a court complex,
zone and category. The zone must be one the complex services.

The PDF is read from a local file, downloaded with --url, or read back from
the blob store with --blob-url.

Examples:
  lexroster ingest bail-roster.pdf --complex ROHINI --zone NORTH --category BAIL_ROSTER
  lexroster ingest --url https://example.org/roster.pdf --complex SAKET --zone SOUTH --category JUDGES_LIST`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestPlace.register(ingestCmd, true)
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (default: derived from the file name)")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "document date (YYYY-MM-DD)")
	ingestCmd.Flags().StringVar(&ingestSourceURL, "source-url", "", "where the PDF was published, recorded as a reference")
	ingestCmd.Flags().StringVar(&ingestFetchURL, "url", "", "download the PDF from this URL")
	ingestCmd.Flags().StringVar(&ingestBlobURL, "blob-url", "", "read the PDF from this blob URL")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the document as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest: %w", errNotConfigured)
	}

	f, err := ingestPlace.parse()
	if err != nil {
		return err
	}
	date, err := view.ParseDate("date", ingestDate)
	if err != nil {
		return err
	}

	req := domain.IngestRequest{
		Complex:   f.Complex,
		Zone:      f.Zone,
		Category:  f.Category,
		Title:     ingestTitle,
		DocDate:   date,
		SourceURL: ingestSourceURL,
		BlobURL:   ingestBlobURL,
		FetchBlob: ingestBlobURL != "",
	}

	switch {
	case len(args) == 1:
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		req.File = buf
		req.FileName = filepath.Base(args[0])
		if req.Title == "" {
			req.Title = pdf.TitleFromFileName(args[0])
		}
	case ingestFetchURL != "":
		req.SourceURL = ingestFetchURL
		req.FetchSource = true
	case ingestBlobURL == "":
		return errors.New("give a file, --url or --blob-url")
	}

	doc, err := ingestService.Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, view.FromDocument(doc))
	}

	cmd.Printf("Ingested document %s\n\n", doc.ID)
	cmd.Printf("  Title:     %s\n", doc.Title)
	cmd.Printf("  Placement: %s\n", placement(doc.Complex, doc.Zone, doc.Category))
	if doc.DocDate != nil {
		cmd.Printf("  Date:      %s\n", doc.DocDate.Format("2006-01-02"))
	}
	cmd.Printf("  Pages:     %d\n", len(doc.Pages))
	if doc.BlobURL != "" {
		cmd.Printf("  Blob:      %s\n", doc.BlobURL)
	}
	if strings.TrimSpace(doc.FullText) == "" {
		cmd.Println("\n  Warning: no text was extracted; the PDF may be scanned.")
	}
	return nil
}
