// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on ports, the domain, the extraction engine and
// the logger. Storage, search engines and blob stores are injected.
package services
