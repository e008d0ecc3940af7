package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
)

var topologyJSON bool

var topologyCmd = &cobra.Command{
	Use:         "topology",
	Short:       "List court complexes, their zones, and categories",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runTopology,
}

func init() {
	topologyCmd.Flags().BoolVar(&topologyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(topologyCmd)
}

func runTopology(cmd *cobra.Command, _ []string) error {
	t := view.CurrentTopology()
	if topologyJSON {
		return printJSON(cmd, t)
	}

	cmd.Println("Complexes:")
	for _, c := range t.Complexes {
		zones := make([]string, len(c.Zones))
		for i, z := range c.Zones {
			zones[i] = string(z)
		}
		cmd.Printf("  %-14s %s\n", c.Complex, strings.Join(zones, ", "))
	}

	cmd.Println("\nCategories:")
	for _, c := range t.Categories {
		cmd.Printf("  %s\n", c)
	}
	return nil
}
