// Package domain defines the core business entities for lexroster.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested roster PDF with paged text
//   - RosterRecord: Roster data entered directly as fields
//   - ExtractedJudgeRecord: A judge recovered from text, never stored
//   - SearchHit: A normalised match from either search engine
//
// It also owns the court topology (complex to zone mapping) and the
// error taxonomy shared by every layer.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
