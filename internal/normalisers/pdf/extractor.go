package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const toolName = "pdftotext"

// pdfMagic opens every PDF file.
var pdfMagic = []byte("%PDF-")

// CommandRunner executes an external command with stdin and returns stdout.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// execRunner runs commands through os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor extracts text from PDF buffers.
type Extractor struct {
	runner CommandRunner

	maxPageText int
	maxFullText int
}

// New creates an Extractor that runs the installed pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an Extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		runner:      runner,
		maxPageText: domain.MaxPageTextLength,
		maxFullText: domain.MaxFullTextLength,
	}
}

// Extract converts buf into full text and per-page text.
//
// An empty buffer, or a PDF whose pages carry no text layer, yields an
// empty result. Input that is not a PDF, or that pdftotext rejects, yields
// a *domain.ParseError.
func (e *Extractor) Extract(ctx context.Context, buf []byte) (*domain.ExtractedText, error) {
	if len(bytes.TrimSpace(buf)) == 0 {
		return &domain.ExtractedText{Pages: []domain.Page{}}, nil
	}
	if !hasPDFHeader(buf) {
		return nil, &domain.ParseError{Reason: "missing %PDF- header"}
	}

	out, err := e.runner.Run(ctx, buf, toolName, "-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrPDFToolNotFound
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ParseError{Reason: "pdftotext failed", Err: err}
	}

	return e.split(string(out)), nil
}

// split breaks pdftotext output into pages on form feeds.
func (e *Extractor) split(out string) *domain.ExtractedText {
	raw := strings.Split(out, "\f")

	// pdftotext terminates the last page with a form feed too.
	for len(raw) > 0 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	pages := make([]domain.Page, 0, len(raw))
	texts := make([]string, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimRight(text, " \t\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
		pages = append(pages, domain.Page{
			PageNumber: i + 1,
			Text:       domain.TruncateRunes(text, e.maxPageText),
		})
	}

	if len(pages) == 0 {
		return &domain.ExtractedText{Pages: []domain.Page{}}
	}

	return &domain.ExtractedText{
		FullText: domain.TruncateRunes(strings.Join(texts, "\n\n"), e.maxFullText),
		Pages:    pages,
	}
}

// hasPDFHeader checks the magic bytes. The PDF reference allows junk
// before the header, so the first kilobyte is searched.
func hasPDFHeader(buf []byte) bool {
	head := buf
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfMagic)
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific install hints.
func InstallInstructions() string {
	return `pdftotext is required to extract text from roster PDFs.

Install poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// TitleFromFileName derives a readable title from a file name:
// the extension is dropped and separators become spaces.
func TitleFromFileName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
