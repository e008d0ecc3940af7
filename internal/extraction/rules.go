package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// Field names a judge record attribute recovered by rules.
type Field string

const (
	FieldName        Field = "name"
	FieldDesignation Field = "designation"
	FieldCourtName   Field = "courtName"
	FieldCourtRoom   Field = "courtRoom"
	FieldMeetingLink Field = "meetingLink"
	FieldMeetingID   Field = "vcMeetingIdOrEmail"
)

// Rule recovers one field from a section.
//
// The value is the submatch named "value" when the pattern has one, else
// the first submatch, else the whole match. Rules run in ascending
// Priority; ties keep their declaration order.
type Rule struct {
	Field    Field
	Pattern  *regexp.Regexp
	Priority int

	// Normalise optionally rewrites the matched value. An empty result
	// rejects the match and lets the next rule for the field try.
	Normalise func(string) string
}

// match applies the rule to section.
func (r Rule) match(section string) (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	m := r.Pattern.FindStringSubmatch(section)
	if m == nil {
		return "", false
	}

	value := m[0]
	if idx := r.Pattern.SubexpIndex("value"); idx > 0 {
		value = m[idx]
	} else if len(m) > 1 && m[1] != "" {
		value = m[1]
	}

	value = tidy(value)
	if r.Normalise != nil {
		value = r.Normalise(value)
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// tidy collapses whitespace and trims separator punctuation.
func tidy(s string) string {
	return strings.Trim(strings.Join(strings.Fields(s), " "), " ,;:-|")
}

// honorifics precede a judicial officer's name. Longer forms come first so
// "Hon'ble Mr. Justice" is consumed whole.
const honorifics = `(?i:hon'?ble[ \t]+(?:mr|ms|mrs)\.?[ \t]+justice|hon'?ble[ \t]+justice|` +
	`(?:mr|ms|mrs)\.?[ \t]+justice|justice|shri|smt|sh|kumari|km|mrs|mr|ms|dr)\.?`

// nameWord is a capitalised word or an initial.
const nameWord = `(?:[A-Z][A-Za-z'’-]*\.?)`

// designationPhrases lists known judicial roles. DesignationRule orders
// them longest first.
var designationPhrases = []string{
	"Principal District and Sessions Judge",
	"District and Sessions Judge",
	"Additional District and Sessions Judge",
	"Additional Sessions Judge",
	"Addl. Sessions Judge",
	"ASJ",
	"Sessions Judge",
	"District Judge",
	"Special Judge",
	"Chief Metropolitan Magistrate",
	"Additional Chief Metropolitan Magistrate",
	"Addl. Chief Metropolitan Magistrate",
	"Metropolitan Magistrate",
	"Chief Judicial Magistrate",
	"Additional Chief Judicial Magistrate",
	"Judicial Magistrate First Class",
	"Judicial Magistrate",
	"Duty Magistrate",
	"Link Magistrate",
	"Senior Civil Judge",
	"Civil Judge",
	"Principal Judge, Family Court",
	"Judge, Family Court",
	"Principal Judge",
	"Presiding Officer",
	"Rent Controller",
	"Judge, MACT",
	"Judge, Small Causes Court",
}

// nameStopWords end a name; they start the designation or address that
// follows a name in roster layouts.
var nameStopWords = map[string]bool{
	"district": true, "additional": true, "addl": true, "chief": true,
	"metropolitan": true, "judicial": true, "civil": true, "senior": true,
	"junior": true, "principal": true, "special": true, "sessions": true,
	"judge": true, "magistrate": true, "court": true, "room": true,
	"presiding": true, "officer": true, "duty": true, "link": true,
	"family": true, "on": true, "leave": true, "vc": true, "meeting": true,
	"and": true, "asj": true, "mm": true, "cmm": true, "acmm": true,
}

// CleanName cuts a candidate name at the first designation or address word.
func CleanName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		key := strings.ToLower(strings.Trim(w, ".,;:"))
		if nameStopWords[key] {
			words = words[:i]
			break
		}
	}
	return strings.TrimRight(strings.Join(words, " "), ",;:")
}

// headingWords never occur in a bare name line; they mark document headings.
var headingWords = map[string]bool{
	"of": true, "the": true, "for": true, "list": true, "roster": true,
	"notice": true, "order": true, "dated": true, "date": true, "page": true,
	"courts": true, "delhi": true, "new": true, "office": true, "officers": true,
}

// cleanBareName accepts a bare first-line name of two or more words.
func cleanBareName(s string) string {
	name := CleanName(s)
	words := strings.Fields(name)
	if len(words) < 2 {
		return ""
	}
	for _, w := range words {
		if headingWords[strings.ToLower(strings.Trim(w, ".,"))] {
			return ""
		}
	}
	return name
}

func trimLinkPunctuation(s string) string {
	return strings.TrimRight(s, ".)]")
}

// DesignationRule builds one case-insensitive rule matching any phrase.
// Longer phrases are tried first at every position.
func DesignationRule(priority int, phrases ...string) Rule {
	sorted := make([]string, len(phrases))
	copy(sorted, phrases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	alts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		words := strings.Fields(p)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}

	return Rule{
		Field:    FieldDesignation,
		Pattern:  regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
		Priority: priority,
	}
}

// DefaultRules returns the baseline rule set.
func DefaultRules() []Rule {
	return []Rule{
		// Name: honorific then capitalised words, else a bare name on the
		// first line.
		{
			Field:     FieldName,
			Pattern:   regexp.MustCompile(`\b` + honorifics + `[ \t]+(?P<value>` + nameWord + `(?:[ \t]+` + nameWord + `){0,5})`),
			Priority:  10,
			Normalise: CleanName,
		},
		{
			Field: FieldName,
			Pattern: regexp.MustCompile(`\A[ \t]*(?:\(?\d{1,3}[.)][ \t]*)?` +
				`(?P<value>(?:[A-Z][a-z'’-]+|[A-Z]\.)(?:[ \t]+(?:[A-Z][a-z'’-]+|[A-Z]\.)){1,5})` +
				`[ \t]*(?:,|[ \t]{2,}|\n|\z)`),
			Priority:  20,
			Normalise: cleanBareName,
		},

		DesignationRule(10, designationPhrases...),

		// Court name: explicit label, else inline "Court No. X".
		{
			Field:    FieldCourtName,
			Pattern:  regexp.MustCompile(`(?i)\bcourt(?:[ \t]*name)?[ \t]*:[ \t]*(?P<value>[^,;\n]+)`),
			Priority: 10,
		},
		{
			Field:    FieldCourtName,
			Pattern:  regexp.MustCompile(`(?i)\b(?P<value>court[ \t]*(?:no\.?|number)[ \t]*[:#-]?[ \t]*\d+[A-Za-z]?)\b`),
			Priority: 20,
		},

		// Court room: "Room: 12", "Room No. 12", "Courtroom 12", else the
		// court number.
		{
			Field:    FieldCourtRoom,
			Pattern:  regexp.MustCompile(`(?i)\b(?:court[ \t]*)?room[ \t]*(?:no\.?|number|#)?[ \t]*[:-]?[ \t]*(?P<value>[A-Za-z]?\d+[A-Za-z]?)\b`),
			Priority: 10,
		},
		{
			Field:    FieldCourtRoom,
			Pattern:  regexp.MustCompile(`(?i)\bcourt[ \t]*(?:no\.?|number)[ \t]*[:#-]?[ \t]*(?P<value>\d+[A-Za-z]?)\b`),
			Priority: 20,
		},

		// Meeting link: scheme URL, then www host, then host.tld/path.
		{
			Field:     FieldMeetingLink,
			Pattern:   regexp.MustCompile(`(?i)\bhttps?://[^\s,;<>"']+`),
			Priority:  10,
			Normalise: trimLinkPunctuation,
		},
		{
			Field:     FieldMeetingLink,
			Pattern:   regexp.MustCompile(`(?i)\bwww\.[^\s,;<>"']+`),
			Priority:  20,
			Normalise: trimLinkPunctuation,
		},
		{
			Field:     FieldMeetingLink,
			Pattern:   regexp.MustCompile(`(?i)(?:^|[^@\w.])(?P<value>(?:[a-z0-9-]+\.)+[a-z]{2,}/[^\s,;<>"']*)`),
			Priority:  30,
			Normalise: trimLinkPunctuation,
		},

		// Meeting ID: an email, else a labelled id.
		{
			Field:    FieldMeetingID,
			Pattern:  regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
			Priority: 10,
		},
		{
			Field: FieldMeetingID,
			Pattern: regexp.MustCompile(`(?i)\b(?:meeting|vc|conference)[ \t]*(?:id|no\.?|number)[ \t]*[:#-]?[ \t]*` +
				`(?P<value>\d[\d -]{3,}\d|[A-Za-z0-9_-]{4,})`),
			Priority: 20,
		},
	}
}

// sortRules orders rules by priority, keeping declaration order on ties.
func sortRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
