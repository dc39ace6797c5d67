// Package orchestrator wires the drafting pipeline behind a single call:
// validate the free-text request, pick the document type, complete and clean
// the field values, generate the canonical text and optionally export it.
package orchestrator
