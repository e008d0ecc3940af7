package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func TestTopologyCmd(t *testing.T) {
	clearServices()

	out, err := execute(t, "topology")

	require.NoError(t, err)
	assert.Regexp(t, `ROHINI\s+NORTH, NORTH_WEST`, out)
	assert.Contains(t, out, "DUTY_MAGISTRATE_ROSTER")
}

func TestTopologyCmd_JSON(t *testing.T) {
	clearServices()

	out, err := execute(t, "topology", "--json")

	require.NoError(t, err)
	var topo struct {
		Complexes  []json.RawMessage `json:"complexes"`
		Categories []string          `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &topo))
	assert.Len(t, topo.Complexes, 7)
	assert.Len(t, topo.Categories, 4)
}

func TestHierarchyFlags_Parse(t *testing.T) {
	h := hierarchyFlags{complex: "tis hazari", zone: "north-east", category: ""}
	f, err := h.parse()
	require.NoError(t, err)
	assert.Equal(t, "TIS_HAZARI", string(f.Complex))
	assert.Equal(t, "NORTH_EAST", string(f.Zone))
	assert.Empty(t, f.Category)

	_, err = (&hierarchyFlags{zone: "MARS"}).parse()
	assert.Error(t, err)
}

func TestDateRangeFlags_Apply(t *testing.T) {
	var f domain.DocumentFilter
	require.NoError(t, (&dateRangeFlags{from: "2025-03-01", to: "2025-03-31"}).apply(&f))
	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, 31, f.DateTo.Day())

	err := (&dateRangeFlags{to: "March"}).apply(&f)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)
}
