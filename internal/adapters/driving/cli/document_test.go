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

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "get", "pages", "delete", "summary"}, commandNames)
}

func TestDocumentGetCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "document", "get")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentListCmd(t *testing.T) {
	env := setupTestServices(t)
	rohini := env.seed(t, domain.ComplexRohini, domain.ZoneNorth, domain.CategoryBailRoster, "Bail roster Rohini")
	env.seed(t, domain.ComplexSaket, domain.ZoneSouth, domain.CategoryJudgesList, "Judges Saket")

	out, err := execute(t, "document", "list", "--complex", "rohini")
	require.NoError(t, err)
	assert.Contains(t, out, rohini.ID)
	assert.Contains(t, out, "ROHINI / NORTH / BAIL_ROSTER")
	assert.NotContains(t, out, "Judges Saket")
	assert.Contains(t, out, "Total: 1 documents")

	out, err = execute(t, "document", "list", "--json")
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 2)
}

func TestDocumentListCmd_EmptyList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDocumentListCmd_InvalidHierarchy(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "document", "list", "--complex", "GURGAON")
	require.Error(t, err)

	_, err = execute(t, "document", "list", "--from", "14/03/2025")
	require.Error(t, err)
}

func TestDocumentGetAndPagesCmd(t *testing.T) {
	env := setupTestServices(t)
	doc := env.seed(t, domain.ComplexRohini, domain.ZoneNorth, domain.CategoryJudgesList, "Judges list March")

	out, err := execute(t, "document", "get", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Document: "+doc.ID)
	assert.Contains(t, out, "Judges list March")
	assert.Contains(t, out, "2025-03-14")
	assert.Contains(t, out, "Pages:    1")

	out, err = execute(t, "document", "pages", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "--- page 1 ---")
	assert.Contains(t, out, "Ramesh Kumar")
}

func TestDocumentGetCmd_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "document", "get", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentDeleteCmd(t *testing.T) {
	env := setupTestServices(t)
	doc := env.seed(t, domain.ComplexRohini, domain.ZoneNorth, domain.CategoryJudgesList, "Judges list")

	out, err := execute(t, "document", "delete", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted document "+doc.ID)

	_, err = execute(t, "document", "get", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentSummaryCmd(t *testing.T) {
	env := setupTestServices(t)
	env.seed(t, domain.ComplexRohini, domain.ZoneNorth, domain.CategoryBailRoster, "one")
	env.seed(t, domain.ComplexRohini, domain.ZoneNorth, domain.CategoryBailRoster, "two")

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	out, err := execute(t, "document", "summary", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "COMPLEX")
	assert.Regexp(t, `ROHINI\s+NORTH\s+BAIL_ROSTER\s+2\s+2025-03-14`, out)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), data[:2])
}

func TestDocumentSummaryCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "document", "summary")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents yet.")
}

func TestDocumentCmds_ServiceNotConfigured(t *testing.T) {
	setupUnconfigured(t)

	for _, args := range [][]string{
		{"document", "list"},
		{"document", "get", "x"},
		{"document", "pages", "x"},
		{"document", "delete", "x"},
		{"document", "summary"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, errNotConfigured, args)
	}
}
