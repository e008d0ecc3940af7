// Package memory provides in-memory document and roster stores. They back
// tests and the --store memory mode, where nothing outlives the process.
package memory
