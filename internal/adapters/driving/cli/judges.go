package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/export"
)

var (
	judgesPlace hierarchyFlags
	judgesLimit int
	judgesJSON  bool
	judgesXLSX  string
)

var judgesCmd = &cobra.Command{
	Use:   "judges [query]",
	Short: "Find judges, courts and rooms",
	Long: `Searches roster documents and the structured roster for judges whose
name, court or room matches the query, and lists each with its courtroom and
video-conference details.`,
	Args: cobra.ExactArgs(1),
	RunE: runJudges,
}

func init() {
	judgesPlace.register(judgesCmd, false)
	judgesCmd.Flags().IntVarP(&judgesLimit, "limit", "n", domain.DefaultJudgeLimit, "maximum number of judges")
	judgesCmd.Flags().BoolVar(&judgesJSON, "json", false, "output results as JSON")
	judgesCmd.Flags().StringVar(&judgesXLSX, "xlsx", "", "also write the results to this Excel file")
	rootCmd.AddCommand(judgesCmd)
}

func runJudges(cmd *cobra.Command, args []string) error {
	if judgeService == nil {
		return fmt.Errorf("judges: %w", errNotConfigured)
	}

	f, err := judgesPlace.parse()
	if err != nil {
		return err
	}

	resp, err := judgeService.SearchJudges(cmd.Context(), domain.JudgeQuery{
		Q:       args[0],
		Complex: f.Complex,
		Zone:    f.Zone,
		Limit:   judgesLimit,
	})
	if err != nil {
		return fmt.Errorf("judge search failed: %w", err)
	}

	if judgesXLSX != "" {
		buf, err := export.JudgesXLSX(resp.Judges)
		if err != nil {
			return err
		}
		if err := os.WriteFile(judgesXLSX, buf, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", judgesXLSX, err)
		}
	}

	if judgesJSON {
		return printJSON(cmd, view.FromJudgeResponse(resp))
	}

	if len(resp.Judges) == 0 {
		cmd.Println("No judges found.")
		return nil
	}

	cmd.Printf("Judges (%d, engine: %s):\n\n", len(resp.Judges), resp.Engine)
	for i := range resp.Judges {
		j := &resp.Judges[i]
		cmd.Printf("  [%d] %s\n", i+1, j.Name)
		printOptional(cmd, "Designation", j.Designation)
		printOptional(cmd, "Court", j.CourtName)
		printOptional(cmd, "Room", j.CourtRoom)
		printOptional(cmd, "VC link", j.MeetingLink)
		printOptional(cmd, "VC ID", j.VCMeetingIDOrEmail)

		switch j.Provenance.Kind {
		case domain.ProvenanceDocument:
			cmd.Printf("      From:        %s (%s)\n", j.Provenance.Title, j.Provenance.DocumentID)
		case domain.ProvenanceRoster:
			cmd.Printf("      From:        roster record %s\n", j.Provenance.RosterID)
		}
		cmd.Println()
	}
	if judgesXLSX != "" {
		cmd.Printf("Wrote %s\n", judgesXLSX)
	}
	return nil
}

func printOptional(cmd *cobra.Command, label string, value *string) {
	if value == nil {
		return
	}
	cmd.Printf("      %-12s %s\n", label+":", *value)
}
