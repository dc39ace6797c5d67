package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	stencilxml "github.com/benjaminschreck/go-stencil/pkg/stencil/xml"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// paragraph style ids declared in styles.xml
const (
	styleNormal     = "Normal"
	styleTitle      = "Title"
	styleHeading    = "Heading1"
	styleClause     = "Clause"
	styleSubItem    = "SubItem"
	styleDisclaimer = "Disclaimer"
)

// DOCXEncoder builds a WordprocessingML package. Lines are classified like
// the paginated layout; section breaks are dropped and blank lines become
// empty paragraphs. Pagination is left to the word processor.
type DOCXEncoder struct{}

func (DOCXEncoder) Format() Format    { return FormatWordProcessor }
func (DOCXEncoder) Extension() string { return "docx" }

func (DOCXEncoder) Encode(ctx context.Context, src *Source) ([]byte, error) {
	opts := src.LayoutOptions()
	styles, _, err := layout.ResolveStyles(opts.Variant)
	if err != nil {
		return nil, err
	}
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = layout.A4
	}

	paragraphs := []stencilxml.Paragraph{
		wordParagraph(styleTitle, strings.ToUpper(titleOrDefault(src.Title))),
	}
	for _, line := range layout.ClassifyText(src.Text) {
		switch line.Role {
		case layout.RoleSectionBreak:
			continue
		case layout.RoleBlank:
			paragraphs = append(paragraphs, wordParagraph(styleNormal, ""))
		case layout.RoleHeading:
			paragraphs = append(paragraphs, wordParagraph(styleHeading, line.Text))
		case layout.RoleNumberedClause:
			paragraphs = append(paragraphs, wordParagraph(styleClause, line.Text))
		case layout.RoleSubItem:
			paragraphs = append(paragraphs, wordParagraph(styleSubItem, line.Text))
		default:
			paragraphs = append(paragraphs, wordParagraph(styleNormal, line.Text))
		}
	}
	paragraphs = append(paragraphs, wordParagraph(styleDisclaimer, layout.Disclaimer))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	document, err := documentXML(paragraphs, opts)
	if err != nil {
		return nil, err
	}

	var created time.Time
	if opts.Clock != nil {
		created = opts.Clock.Now()
	}
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"docProps/core.xml", coreXML(titleOrDefault(src.Title), created)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/document.xml", document},
		{"word/styles.xml", stylesXML(styles)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		header := &zip.FileHeader{Name: part.name, Method: zip.Deflate}
		if !created.IsZero() {
			header.Modified = created
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("export: docx part %s: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, fmt.Errorf("export: docx part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export: docx close: %w", err)
	}
	return buf.Bytes(), nil
}

func titleOrDefault(title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return layout.DefaultTitle
}

func wordParagraph(style, text string) stencilxml.Paragraph {
	p := stencilxml.Paragraph{
		Properties: &stencilxml.ParagraphProperties{Style: &stencilxml.Style{Val: style}},
	}
	if text != "" {
		p.Runs = []stencilxml.Run{{Text: &stencilxml.Text{Space: "preserve", Content: text}}}
	}
	return p
}

func documentXML(paragraphs []stencilxml.Paragraph, opts layout.Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<w:document xmlns:w=%q><w:body>`, wordNamespace)

	enc := xml.NewEncoder(&buf)
	for _, p := range paragraphs {
		if err := enc.EncodeElement(p, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return nil, fmt.Errorf("export: docx paragraph: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("export: docx body: %w", err)
	}

	m := opts.Margins
	fmt.Fprintf(&buf,
		`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		twips(opts.PageSize.Width), twips(opts.PageSize.Height),
		twips(m.Top), twips(m.Right), twips(m.Bottom), twips(m.Left))
	buf.WriteString(`</w:body></w:document>`)
	return buf.Bytes(), nil
}

// twips converts points to twentieths of a point.
func twips(points float64) int {
	return int(math.Round(points * 20))
}

// halfPoints converts points to the unit of w:sz.
func halfPoints(points float64) int {
	return int(math.Round(points * 2))
}

func stylesXML(styles layout.Styles) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<w:styles xmlns:w=%q>`, wordNamespace)
	fmt.Fprintf(&buf, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii=%q w:hAnsi=%q/><w:sz w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		styles.Body.Font, styles.Body.Font, halfPoints(styles.Body.Size))

	writeStyle(&buf, styleNormal, "Normal", "", styles.Body, "both", true)
	writeStyle(&buf, styleTitle, "Title", styleNormal, styles.Title, "center", false)
	writeStyle(&buf, styleHeading, "heading 1", styleNormal, styles.Heading, "left", false)
	writeStyle(&buf, styleClause, "Clause", styleNormal, styles.Clause, "both", false)
	writeStyle(&buf, styleSubItem, "Sub Item", styleNormal, styles.Indented, "both", false)
	writeStyle(&buf, styleDisclaimer, "Disclaimer", styleNormal, styles.Disclaimer, "center", false)

	buf.WriteString(`</w:styles>`)
	return buf.Bytes()
}

func writeStyle(w io.Writer, id, name, basedOn string, style layout.Style, align string, isDefault bool) {
	def := ""
	if isDefault {
		def = ` w:default="1"`
	}
	fmt.Fprintf(w, `<w:style w:type="paragraph"%s w:styleId=%q><w:name w:val=%q/>`, def, id, name)
	if basedOn != "" {
		fmt.Fprintf(w, `<w:basedOn w:val=%q/>`, basedOn)
	}
	fmt.Fprintf(w, `<w:pPr><w:jc w:val=%q/><w:spacing w:before="%d" w:after="%d"/>`, align, twips(style.SpaceBefore), twips(style.SpaceAfter))
	if style.Indent > 0 {
		fmt.Fprintf(w, `<w:ind w:left="%d"/>`, twips(style.Indent))
	}
	io.WriteString(w, `</w:pPr><w:rPr>`)
	if style.Bold {
		io.WriteString(w, `<w:b/>`)
	}
	if style.Italic {
		io.WriteString(w, `<w:i/>`)
	}
	if color := strings.TrimPrefix(style.Color, "#"); color != "" {
		fmt.Fprintf(w, `<w:color w:val=%q/>`, color)
	}
	fmt.Fprintf(w, `<w:sz w:val="%d"/></w:rPr></w:style>`, halfPoints(style.Size))
}

func coreXML(title string, created time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	buf.WriteString(`<dc:title>`)
	_ = xml.EscapeText(&buf, []byte(title))
	buf.WriteString(`</dc:title>`)
	if !created.IsZero() {
		fmt.Fprintf(&buf, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, created.UTC().Format(time.RFC3339))
	}
	buf.WriteString(`</cp:coreProperties>`)
	return buf.Bytes()
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`
