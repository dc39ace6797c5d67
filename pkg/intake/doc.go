// Package intake validates and classifies free-text requests before they reach
// the template layer: sanitising, length limits, domain and document type
// detection, entity extraction and advisory warnings.
package intake
