package extraction

import (
	"regexp"
	"strings"
)

var (
	blankLine = regexp.MustCompile(`\n[ \t]*\n`)

	// entryStart matches a line opening a new roster entry: a numbered
	// item, or an honorific followed by a capitalised name.
	entryStart = regexp.MustCompile(`^[ \t]*(?:\(?\d{1,3}[.)][ \t]+|` + honorifics + `[ \t]+[A-Z])`)
)

// SplitSections splits text on blank lines. Sections are trimmed and empty
// sections dropped.
func SplitSections(text string) []string {
	text = normaliseNewlines(text)
	parts := blankLine.Split(text, -1)

	sections := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sections = append(sections, p)
		}
	}
	return sections
}

// SplitEntries splits a whole document into roster entries. A blank line
// ends an entry, and so does any line that starts a new one.
func SplitEntries(text string) []string {
	text = normaliseNewlines(text)

	var (
		entries []string
		current []string
	)
	flush := func() {
		if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
			entries = append(entries, s)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case entryStart.MatchString(line):
			flush()
			current = append(current, line)
		default:
			current = append(current, line)
		}
	}
	flush()

	return entries
}

func normaliseNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n\n").Replace(s)
}
