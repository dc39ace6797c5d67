package export

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

// Encoder turns a Source into the bytes of one format.
type Encoder interface {
	Format() Format
	// Extension is the file extension without the dot.
	Extension() string
	Encode(ctx context.Context, src *Source) ([]byte, error)
}

// Source is the document being exported. The layout is rendered at most once
// and shared by every encoder that asks for it.
type Source struct {
	Text  string
	Title string

	options layout.Options
	render  func() (*layout.Document, error)
}

// NewSource prepares text for encoding with the given layout options.
func NewSource(text, title string, opts layout.Options) *Source {
	src := &Source{Text: text, Title: title, options: opts}
	src.render = sync.OnceValues(func() (*layout.Document, error) {
		return layout.Render(src.Text, src.Title, src.options)
	})
	return src
}

// Layout returns the rendered document, rendering it on first use.
func (s *Source) Layout() (*layout.Document, error) {
	return s.render()
}

// LayoutOptions returns the options the layout is rendered with.
func (s *Source) LayoutOptions() layout.Options {
	return s.options
}

// DetectTitle returns the first line that is neither blank nor a row of
// '=' characters, or layout.DefaultTitle.
func DetectTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "=") {
			continue
		}
		return trimmed
	}
	return layout.DefaultTitle
}

// PlainEncoder writes the canonical text unchanged as UTF-8.
type PlainEncoder struct{}

func (PlainEncoder) Format() Format    { return FormatPlain }
func (PlainEncoder) Extension() string { return "txt" }

func (PlainEncoder) Encode(_ context.Context, src *Source) ([]byte, error) {
	return []byte(src.Text), nil
}
