// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document persistence and the fallback text index
//   - RosterStore: Structured roster persistence
//   - TextExtractor: PDF to paged text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PrimaryEngine: External full-text search. Without it, every search
//     is answered by the DocumentStore.
//   - BlobStore: Original artifact storage. Without it, raw uploads are
//     indexed but not archived, and blob URLs cannot be fetched.
//   - Fetcher: Remote download of source and blob URLs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
