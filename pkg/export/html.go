package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

func htmlPolicy() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("article", "section", "header", "footer", "h1", "h2", "p", "hr", "span")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z][a-z -]*$`)).Globally()
		p.AllowAttrs("data-page").Matching(bluemonday.Integer).OnElements("section")
		previewPolicy = p
	})
	return previewPolicy
}

// HTMLEncoder renders a self-contained HTML preview of the paginated layout.
// The theme tokens are exposed as CSS custom properties and the body is passed
// through a bluemonday allow-list.
type HTMLEncoder struct{}

func (HTMLEncoder) Format() Format    { return FormatHTML }
func (HTMLEncoder) Extension() string { return "html" }

func (HTMLEncoder) Encode(ctx context.Context, src *Source) ([]byte, error) {
	doc, err := src.Layout()
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	body.WriteString(`<article class="legal-document">`)
	err = doc.Emit(func(page layout.Page, deco *layout.Decoration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(&body, `<section class="page" data-page="%d">`, page.Number)
		if deco != nil {
			fmt.Fprintf(&body, `<header><span class="doc-title">%s</span> <span class="doc-date">%s</span></header>`,
				layout.Escape(deco.Title), layout.Escape(deco.Date))
		}
		for _, placement := range page.Placements {
			writePlacement(&body, doc.Blocks[placement.Block], placement)
		}
		if deco != nil {
			fmt.Fprintf(&body, `<footer><span class="page-label">%s</span> <span class="note">%s</span></footer>`,
				layout.Escape(deco.PageLabel), layout.Escape(deco.Note))
		}
		body.WriteString(`</section>`)
		return nil
	})
	if err != nil {
		return nil, err
	}
	body.WriteString(`</article>`)

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n<style>\n:root {\n", html.EscapeString(doc.Title))
	vars := doc.Theme.CSSVars
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&out, "  %s: %s;\n", name, cssValue(name, vars[name]))
	}
	out.WriteString("}\n")
	out.WriteString(previewCSS)
	out.WriteString("</style>\n</head>\n<body>\n")
	out.Write(htmlPolicy().SanitizeBytes(body.Bytes()))
	out.WriteString("\n</body>\n</html>\n")
	return out.Bytes(), nil
}

func writePlacement(w *bytes.Buffer, block layout.Block, placement layout.Placement) {
	switch block.Kind {
	case layout.BlockSpacer:
		return
	case layout.BlockRule:
		w.WriteString(`<hr>`)
		return
	}
	// fragments of a split block repeat the class so they join visually
	text := layout.Escape(joinLines(placement.Lines))
	switch block.Kind {
	case layout.BlockTitle:
		fmt.Fprintf(w, `<h1 class="title">%s</h1>`, text)
	case layout.BlockHeading:
		fmt.Fprintf(w, `<h2 class="heading">%s</h2>`, text)
	default:
		fmt.Fprintf(w, `<p class="%s">%s</p>`, block.Kind, text)
	}
}

func joinLines(lines []string) string {
	var b bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}
	return b.String()
}

var numericToken = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// cssValue turns bare point sizes into pt lengths.
func cssValue(name, value string) string {
	if numericToken.MatchString(value) && !isUnitless(name) {
		return value + "pt"
	}
	return value
}

func isUnitless(name string) bool {
	switch name {
	case "--glyph-regular", "--glyph-bold":
		return true
	}
	return false
}

const previewCSS = `body { background: #f7fafc; font-family: var(--font-family), sans-serif; color: var(--body-color); }
.page { background: #fff; max-width: 48em; margin: 1.5em auto; padding: 2em 3em; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
.page header, .page footer { display: flex; justify-content: space-between; font-size: var(--footer-size); color: var(--footer-color); }
.page header { border-bottom: 1px solid var(--rule-color); margin-bottom: 1em; }
.page footer { border-top: 1px solid var(--rule-color); margin-top: 1em; }
.doc-title { font-weight: bold; color: var(--header-color); }
h1.title { text-align: center; font-size: var(--title-size); color: var(--title-color); }
h2.heading { font-size: var(--heading-size); color: var(--heading-color); }
p.body, p.clause, p.indented { font-size: var(--body-size); line-height: var(--body-leading); text-align: justify; margin: 0.3em 0; }
p.indented { margin-left: var(--indented-indent); }
p.disclaimer { font-size: var(--disclaimer-size); color: var(--disclaimer-color); font-style: italic; text-align: center; }
hr { border: 0; border-top: 1px solid var(--rule-color); }
`
