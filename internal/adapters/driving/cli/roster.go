package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/rosterjson"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the structured judge roster",
	Long: `Structured roster records describe judges entered as fields rather than
recovered from PDFs. They are merged into judge searches.`,
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roster records by name",
	Args:  cobra.NoArgs,
	RunE:  runRosterList,
}

var rosterGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a roster record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterGet,
}

var rosterImportCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import roster records from JSON",
	Long: `Reads one roster record or an array of them and upserts each. Records
with the same name, court name, court room and VC link replace each other.
Use - to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runRosterImport,
}

var rosterDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a roster record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterDelete,
}

var rosterSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search roster records",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterSearch,
}

var (
	rosterSkip  int
	rosterLimit int
	rosterJSON  bool
)

func init() {
	rosterListCmd.Flags().IntVar(&rosterSkip, "skip", 0, "number of records to skip")
	rosterListCmd.Flags().IntVarP(&rosterLimit, "limit", "n", domain.DefaultListLimit, "maximum number of records")
	rosterCmd.PersistentFlags().BoolVar(&rosterJSON, "json", false, "output records as JSON")

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterGetCmd)
	rosterCmd.AddCommand(rosterImportCmd)
	rosterCmd.AddCommand(rosterDeleteCmd)
	rosterCmd.AddCommand(rosterSearchCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runRosterList(cmd *cobra.Command, _ []string) error {
	if rosterService == nil {
		return fmt.Errorf("roster: %w", errNotConfigured)
	}

	recs, err := rosterService.List(cmd.Context(), domain.Pagination{Skip: rosterSkip, Limit: rosterLimit})
	if err != nil {
		return fmt.Errorf("failed to list roster: %w", err)
	}
	return outputRosters(cmd, recs)
}

func runRosterGet(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return fmt.Errorf("roster: %w", errNotConfigured)
	}

	rec, err := rosterService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get roster record: %w", err)
	}
	if rosterJSON {
		return printJSON(cmd, rosterjson.FromDomain(rec))
	}
	printRoster(cmd, rec)
	return nil
}

func runRosterImport(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return fmt.Errorf("roster: %w", errNotConfigured)
	}

	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}

	recs, err := rosterjson.Decode(data)
	if err != nil {
		return err
	}

	stored := make([]domain.RosterRecord, 0, len(recs))
	for _, rec := range recs {
		out, err := rosterService.Upsert(cmd.Context(), rec)
		if err != nil {
			return fmt.Errorf("import %q: %w", rec.Name, err)
		}
		stored = append(stored, *out)
	}

	if rosterJSON {
		return printJSON(cmd, rosterjson.FromDomainList(stored))
	}
	cmd.Printf("Imported %d roster records\n", len(stored))
	return nil
}

func runRosterDelete(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return fmt.Errorf("roster: %w", errNotConfigured)
	}

	if err := rosterService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete roster record: %w", err)
	}
	cmd.Printf("Deleted roster record %s\n", args[0])
	return nil
}

func runRosterSearch(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return fmt.Errorf("roster: %w", errNotConfigured)
	}

	recs, err := rosterService.Search(cmd.Context(), args[0], domain.DefaultListLimit)
	if err != nil {
		return fmt.Errorf("roster search failed: %w", err)
	}
	return outputRosters(cmd, recs)
}

func outputRosters(cmd *cobra.Command, recs []domain.RosterRecord) error {
	if rosterJSON {
		return printJSON(cmd, rosterjson.FromDomainList(recs))
	}
	if len(recs) == 0 {
		cmd.Println("No roster records found.")
		return nil
	}
	for i := range recs {
		printRoster(cmd, &recs[i])
		cmd.Println()
	}
	cmd.Printf("Total: %d records\n", len(recs))
	return nil
}

func printRoster(cmd *cobra.Command, rec *domain.RosterRecord) {
	cmd.Printf("  %s  %s\n", rec.ID, rec.Name)
	fields := []struct{ label, value string }{
		{"Designation", rec.Designation},
		{"Court", rec.CourtName},
		{"Room", rec.CourtRoom},
		{"VC link", rec.VCLink},
		{"District", rec.District},
		{"Zone", rec.Zone},
	}
	for _, f := range fields {
		if f.value != "" {
			cmd.Printf("    %-12s %s\n", f.label+":", f.value)
		}
	}
}
