// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// The two external capabilities the core issues beyond storage I/O are
// EmbeddingService (text in, vector out) and LLMService (prompt in, text
// out). Both are opaque: the core never inspects provider behaviour beyond
// their input/output contract.
//
// Import rules: this package may import domain only, never an adapter.
package driven
