package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

// PDFEncoder draws the paginated layout with fpdf core fonts. Text outside
// cp1252 is transliterated by fpdf's translator.
type PDFEncoder struct {
	// Creator is written to the document info dictionary.
	Creator string
}

func (PDFEncoder) Format() Format    { return FormatPaginated }
func (PDFEncoder) Extension() string { return "pdf" }

func (e PDFEncoder) Encode(ctx context.Context, src *Source) ([]byte, error) {
	doc, err := src.Layout()
	if err != nil {
		return nil, err
	}

	size := doc.Options.PageSize
	margins := doc.Options.Margins
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(margins.Left, margins.Top, margins.Right)
	pdf.SetAutoPageBreak(false, margins.Bottom)
	pdf.SetTitle(doc.Title, true)
	creator := e.Creator
	if creator == "" {
		creator = "go-legaldocs"
	}
	pdf.SetCreator(creator, true)
	pdf.SetCreationDate(doc.Generated)
	pdf.SetModificationDate(doc.Generated)
	pdf.SetCatalogSort(true)

	w := &pdfWriter{pdf: pdf, doc: doc, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	err = doc.Emit(func(page layout.Page, deco *layout.Decoration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.page(page, deco)
		return pdf.Error()
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	doc *layout.Document
	tr  func(string) string
}

func (w *pdfWriter) page(page layout.Page, deco *layout.Decoration) {
	w.pdf.AddPage()
	if deco != nil {
		w.decorate(deco)
	}

	styles := w.doc.Styles
	top := w.doc.ContentTop()
	for _, placement := range page.Placements {
		block := w.doc.Blocks[placement.Block]
		y := top + placement.Top
		switch block.Kind {
		case layout.BlockSpacer:
			continue
		case layout.BlockRule:
			w.rule(y+placement.Height/2, styles.RuleColor)
			continue
		}

		style := block.Style
		if placement.First {
			y += style.SpaceBefore
		}
		w.font(style)
		for _, line := range placement.Lines {
			// baseline sits at roughly 80% of the leading
			w.text(line, style, y+style.Leading*0.8)
			y += style.Leading
		}
	}
}

func (w *pdfWriter) decorate(deco *layout.Decoration) {
	opts := w.doc.Options
	styles := w.doc.Styles
	left := opts.Margins.Left
	right := opts.PageSize.Width - opts.Margins.Right

	headerTop := opts.Margins.Top
	w.font(styles.Header)
	w.pdf.Text(left, headerTop+styles.Header.Size, w.tr(deco.Title))
	w.font(styles.HeaderDate)
	date := w.tr(deco.Date)
	w.pdf.Text(right-w.pdf.GetStringWidth(date), headerTop+styles.Header.Size, date)
	w.rule(headerTop+styles.HeaderBand-8, styles.RuleColor)

	footerTop := opts.PageSize.Height - opts.Margins.Bottom - styles.FooterBand
	w.rule(footerTop+4, styles.RuleColor)
	w.font(styles.Footer)
	w.centered(deco.PageLabel, footerTop+6+styles.Footer.Size)
	w.font(styles.FooterNote)
	w.centered(deco.Note, opts.PageSize.Height-opts.Margins.Bottom-2)
}

func (w *pdfWriter) text(line string, style layout.Style, baseline float64) {
	opts := w.doc.Options
	line = w.tr(line)
	x := opts.Margins.Left + style.Indent
	if style.Align == layout.AlignCenter {
		x = opts.Margins.Left + (w.doc.ContentWidth-w.pdf.GetStringWidth(line))/2
	}
	// justified blocks are set flush left
	w.pdf.Text(x, baseline, line)
}

func (w *pdfWriter) centered(text string, baseline float64) {
	text = w.tr(text)
	opts := w.doc.Options
	w.pdf.Text(opts.Margins.Left+(w.doc.ContentWidth-w.pdf.GetStringWidth(text))/2, baseline, text)
}

func (w *pdfWriter) rule(y float64, color string) {
	r, g, b := hexColor(color)
	opts := w.doc.Options
	w.pdf.SetDrawColor(r, g, b)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(opts.Margins.Left, y, opts.PageSize.Width-opts.Margins.Right, y)
}

func (w *pdfWriter) font(style layout.Style) {
	var variant string
	if style.Bold {
		variant += "B"
	}
	if style.Italic {
		variant += "I"
	}
	family := style.Font
	if family == "" {
		family = "Helvetica"
	}
	w.pdf.SetFont(family, variant, style.Size)
	r, g, b := hexColor(style.Color)
	w.pdf.SetTextColor(r, g, b)
}

// hexColor parses "#rrggbb"; anything else is black.
func hexColor(value string) (int, int, int) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) != 6 {
		return 0, 0, 0
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)
}
