package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/watcher"
)

var (
	watchPlace hierarchyFlags
	watchScan  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest PDFs dropped into a directory",
	Long: `Watches a directory and ingests each PDF written to it.

Files under COMPLEX/ZONE/CATEGORY subdirectories are filed there, for example
  drop/ROHINI/NORTH/BAIL_ROSTER/roster-2025-03-14.pdf
Files placed directly in the directory use --complex, --zone and --category.
A YYYY-MM-DD date in the file name becomes the document date.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchPlace.register(watchCmd, true)
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "ingest PDFs already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return fmt.Errorf("watch: %w", errNotConfigured)
	}

	f, err := watchPlace.parse()
	if err != nil {
		return err
	}

	w, err := watcher.New(ingestService, watcher.Config{
		Dir:         args[0],
		Complex:     f.Complex,
		Zone:        f.Zone,
		Category:    f.Category,
		InitialScan: watchScan,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(cmd.Context())
}
