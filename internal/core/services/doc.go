// Package services implements the driving port interfaces: document
// ingestion, chunk retrieval and the interview state machine. Services
// contain the core business logic and orchestrate calls to driven
// ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
