package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetRadius is the context kept on each side of a match.
const DefaultSnippetRadius = 120

const ellipsis = "…"

// Snippet returns a window of text around the first occurrence of any term
// in query, with radius characters on each side. Runs of spaces within a
// line are collapsed; line breaks are kept, and consecutive blank lines
// become one, so entry boundaries survive into the window. When no term
// occurs, the window starts at the beginning of text.
func Snippet(text, query string, radius int) string {
	if text == "" {
		return ""
	}
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}

	start, end := 0, 0
	if re := termPattern(query); re != nil {
		if loc := re.FindStringIndex(text); loc != nil {
			start, end = loc[0], loc[1]
		}
	}

	from := backRunes(text, start, radius)
	to := forwardRunes(text, end, radius)
	if end == 0 {
		to = forwardRunes(text, 0, 2*radius)
	}

	window := collapseSpaces(text[from:to])
	if from > 0 {
		window = ellipsis + window
	}
	if to < len(text) {
		window += ellipsis
	}
	return window
}

// collapseSpaces squeezes horizontal whitespace on each line and keeps at
// most one blank line between non-blank ones.
func collapseSpaces(s string) string {
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n\n").Replace(s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// termPattern matches any whitespace-separated term of query,
// case-insensitively.
func termPattern(query string) *regexp.Regexp {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.Trim(t, `"'*()`)
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

// backRunes steps n runes back from byte offset i.
func backRunes(s string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// forwardRunes steps n runes forward from byte offset i.
func forwardRunes(s string, i, n int) int {
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
