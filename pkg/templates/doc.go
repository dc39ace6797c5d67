// Package templates holds the legal document schema model: descriptors with
// required/optional fields and section maps, one variant per document type,
// and an immutable registry keyed by document type (aliases included).
//
// Document bodies are pongo2 templates and descriptors live in a YAML catalog,
// both embedded in the binary. Generation never fails on missing input: every
// absent field is rendered as a visible bracketed placeholder such as
// "[RENT AMOUNT]" so a partial request still yields a reviewable draft.
package templates
