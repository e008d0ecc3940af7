package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// hierarchyFlags holds the --complex, --zone and --category values of one
// command.
type hierarchyFlags struct {
	complex  string
	zone     string
	category string
}

func (h *hierarchyFlags) register(cmd *cobra.Command, withCategory bool) {
	cmd.Flags().StringVar(&h.complex, "complex", "", "court complex, e.g. ROHINI")
	cmd.Flags().StringVar(&h.zone, "zone", "", "zone, e.g. NORTH")
	if withCategory {
		cmd.Flags().StringVar(&h.category, "category", "", "category, e.g. BAIL_ROSTER")
	}
}

// parse normalises the flag values. Empty flags stay empty.
func (h *hierarchyFlags) parse() (domain.DocumentFilter, error) {
	var f domain.DocumentFilter
	var err error
	if strings.TrimSpace(h.complex) != "" {
		if f.Complex, err = domain.ParseComplex(h.complex); err != nil {
			return f, err
		}
	}
	if strings.TrimSpace(h.zone) != "" {
		if f.Zone, err = domain.ParseZone(h.zone); err != nil {
			return f, err
		}
	}
	if strings.TrimSpace(h.category) != "" {
		if f.Category, err = domain.ParseCategory(h.category); err != nil {
			return f, err
		}
	}
	return f, nil
}

// dateRangeFlags holds --from and --to.
type dateRangeFlags struct {
	from string
	to   string
}

func (d *dateRangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.from, "from", "", "earliest document date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.to, "to", "", "latest document date (YYYY-MM-DD)")
}

func (d *dateRangeFlags) apply(f *domain.DocumentFilter) error {
	var err error
	if f.DateFrom, err = view.ParseDate("from", d.from); err != nil {
		return err
	}
	if f.DateTo, err = view.ParseDate("to", d.to); err != nil {
		return err
	}
	return nil
}

func placement(complex domain.Complex, zone domain.Zone, category domain.Category) string {
	return string(complex) + " / " + string(zone) + " / " + string(category)
}
