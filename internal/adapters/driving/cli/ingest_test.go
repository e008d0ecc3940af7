package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 roster"), 0o600))
	return path
}

func TestIngestCmd_File(t *testing.T) {
	env := setupTestServices(t)
	path := writePDF(t, "bail-roster.pdf")

	out, err := execute(t, "ingest", path,
		"--complex", "rohini", "--zone", "north", "--category", "bail roster", "--date", "2025-03-14")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested document")
	assert.Contains(t, out, "ROHINI / NORTH / BAIL_ROSTER")
	assert.Contains(t, out, "2025-03-14")
	assert.Contains(t, out, "Pages:     1")

	docs, err := env.docs.Find(t.Context(), domain.DocumentFilter{}, domain.Pagination{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bail roster", docs[0].Title)
}

func TestIngestCmd_JSON(t *testing.T) {
	setupTestServices(t)
	path := writePDF(t, "judges.pdf")

	out, err := execute(t, "ingest", path, "--complex", "SAKET", "--zone", "SOUTH",
		"--category", "JUDGES_LIST", "--title", "Judges Saket", "--json")

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Judges Saket", doc["title"])
	assert.Equal(t, "SAKET", doc["complex"])
}

func TestIngestCmd_ZoneNotServiced(t *testing.T) {
	setupTestServices(t)
	path := writePDF(t, "roster.pdf")

	_, err := execute(t, "ingest", path, "--complex", "SAKET", "--zone", "NORTH", "--category", "BAIL_ROSTER")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCmd_NeedsContent(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ingest", "--complex", "SAKET", "--zone", "SOUTH", "--category", "BAIL_ROSTER")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "give a file")
}

func TestIngestCmd_URLWithoutFetcher(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ingest", "--url", "https://example.org/roster.pdf",
		"--complex", "SAKET", "--zone", "SOUTH", "--category", "BAIL_ROSTER")

	require.Error(t, err)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ingest", filepath.Join(t.TempDir(), "nope.pdf"),
		"--complex", "SAKET", "--zone", "SOUTH", "--category", "BAIL_ROSTER")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read ")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	setupUnconfigured(t)

	_, err := execute(t, "ingest", "x.pdf")

	assert.ErrorIs(t, err, errNotConfigured)
}
