// Package legaldocs is the convenience entry point for drafting documents:
// it re-exports the orchestrator request and result types and wraps the most
// common calls.
package legaldocs

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/numwords"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Draft aliases orchestrator.Draft.
type Draft = orchestrator.Draft

// Format aliases export.Format.
type Format = export.Format

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate drafts the document named by key with the supplied fields and
// returns its canonical text. Missing required fields become placeholders.
func Generate(ctx context.Context, key string, fields map[string]string, options ...orchestrator.Option) (string, error) {
	draft, err := orchestrator.New(options...).Draft(ctx, orchestrator.Request{
		DocumentType: key,
		Fields:       fields,
	})
	if err != nil {
		return "", err
	}
	return draft.Text, nil
}

// DraftFromRequest validates a free-text request, detects the document type
// and generates it.
func DraftFromRequest(ctx context.Context, text string, fields map[string]string, options ...orchestrator.Option) (*Draft, error) {
	return orchestrator.New(options...).Draft(ctx, orchestrator.Request{
		Text:   text,
		Fields: fields,
	})
}

// AmountInWords spells an amount the way legal instruments write it, e.g.
// "Rupees Twenty Five Thousand Only".
func AmountInWords(n int64) (string, error) {
	return numwords.Rupees(n)
}

// EmbeddedCatalog exposes the built-in document catalog so callers can extend
// it and pass the result through templates.WithCatalog.
func EmbeddedCatalog() fs.FS {
	return templates.CatalogFS()
}

// EmbeddedBodies exposes the built-in document bodies.
func EmbeddedBodies() fs.FS {
	return templates.BodiesFS()
}
