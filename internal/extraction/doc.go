// Package extraction recovers judge records from free-form roster text.
//
// Extraction is heuristic. Text is first segmented into sections, then each
// field of a record is recovered independently by an ordered list of rules
// where the first match per field wins. A section without a name is not a
// record. Rules are plain data: new phrasings are supported by adding rules
// with Engine.WithRules, never by changing the reducer.
//
// The engine performs no I/O and never returns an error: text without a
// recognisable record simply yields nothing.
package extraction
