package pdf

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	calls []mockCall
}

type mockCall struct {
	stdin []byte
	name  string
	args  []string
}

func (m *mockRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{stdin: stdin, name: name, args: args})
	return m.output, m.err
}

var fakePDF = []byte("%PDF-1.4 fake pdf content")

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, execRunner{}, extractor.runner)
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{}
	extractor := NewWithRunner(runner)
	require.NotNil(t, extractor)
	assert.Equal(t, runner, extractor.runner)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestExtract_EmptyBuffer(t *testing.T) {
	runner := &mockRunner{}
	extractor := NewWithRunner(runner)

	for _, buf := range [][]byte{nil, {}, []byte("  \n ")} {
		result, err := extractor.Extract(context.Background(), buf)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "", result.FullText)
		assert.Empty(t, result.Pages)
		assert.True(t, result.Empty())
	}
	assert.Empty(t, runner.calls, "pdftotext must not run for empty input")
}

func TestExtract_NotAPDF(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{})

	result, err := extractor.Extract(context.Background(), []byte("GIF89a not a pdf"))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "%PDF-")
}

func TestExtract_Pages(t *testing.T) {
	runner := &mockRunner{
		output: []byte("ROSTER OF JUDICIAL OFFICERS\nTis Hazari\f\f  Sh. Ramesh Kumar\nRoom 201\n\f"),
	}
	extractor := NewWithRunner(runner)

	result, err := extractor.Extract(context.Background(), fakePDF)
	require.NoError(t, err)
	require.Len(t, result.Pages, 2)

	assert.Equal(t, 1, result.Pages[0].PageNumber)
	assert.Equal(t, "ROSTER OF JUDICIAL OFFICERS\nTis Hazari", result.Pages[0].Text)

	// The blank second page is omitted but numbering is kept.
	assert.Equal(t, 3, result.Pages[1].PageNumber)
	assert.Equal(t, "  Sh. Ramesh Kumar\nRoom 201", result.Pages[1].Text)

	assert.Equal(t, "ROSTER OF JUDICIAL OFFICERS\nTis Hazari\n\n  Sh. Ramesh Kumar\nRoom 201", result.FullText)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "pdftotext", call.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-"}, call.args)
	assert.Equal(t, fakePDF, call.stdin)
}

func TestExtract_ImageOnly(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{output: []byte("\f\f  \n\f")})

	result, err := extractor.Extract(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Equal(t, "", result.FullText)
	assert.Empty(t, result.Pages)
}

func TestExtract_PageCap(t *testing.T) {
	long := strings.Repeat("é", domain.MaxPageTextLength+500)
	extractor := NewWithRunner(&mockRunner{output: []byte(long + "\f")})

	result, err := extractor.Extract(context.Background(), fakePDF)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	assert.Equal(t, domain.MaxPageTextLength, len([]rune(result.Pages[0].Text)))
	// The full text keeps the untruncated page.
	assert.Equal(t, domain.MaxPageTextLength+500, len([]rune(result.FullText)))
}

func TestExtract_FullTextCap(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{output: []byte("abcdef\fghijkl")})
	extractor.maxFullText = 10

	result, err := extractor.Extract(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Equal(t, "abcdef\n\ngh", result.FullText)
	assert.Len(t, result.Pages, 2)
}

func TestExtract_RunnerError(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{err: errors.New("Syntax Error: Couldn't find trailer dictionary")})

	result, err := extractor.Extract(context.Background(), fakePDF)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtract_ToolMissing(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{err: &exec.Error{Name: "pdftotext", Err: exec.ErrNotFound}})

	_, err := extractor.Extract(context.Background(), fakePDF)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	extractor := NewWithRunner(&mockRunner{err: errors.New("signal: killed")})

	_, err := extractor.Extract(ctx, fakePDF)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasPDFHeader(t *testing.T) {
	assert.True(t, hasPDFHeader([]byte("%PDF-1.7\n")))
	assert.True(t, hasPDFHeader([]byte("\xef\xbb\xbf%PDF-1.4")))
	assert.False(t, hasPDFHeader([]byte("PK\x03\x04")))
	assert.False(t, hasPDFHeader(append([]byte(strings.Repeat(" ", 2000)), fakePDF...)))
}

func TestTitleFromFileName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"/path/to/my_document.pdf", "my document"},
		{"judges-list-2024.pdf", "judges list 2024"},
		{"Roster.PDF", "Roster"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TitleFromFileName(tc.name))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

// Integration test - only runs if pdftotext is available.
func TestExtract_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}

	_, err := New().Extract(context.Background(), []byte("%PDF-1.4 truncated"))
	assert.ErrorIs(t, err, domain.ErrParse)
}
