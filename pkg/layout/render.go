package layout

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	theme "github.com/goliatone/go-theme"
)

// Disclaimer closes every rendered document.
const Disclaimer = "DISCLAIMER: This document is generated for informational purposes only. " +
	"Please consult a qualified legal professional before using this document " +
	"for any legal proceedings or official purposes."

// FooterNote is printed in the footer band of every page.
const FooterNote = "Generated by Legal Document Assistant - For Informational Purposes Only"

// DefaultTitle is used when no title is supplied.
const DefaultTitle = "Legal Document"

// HeaderDateLayout formats the generation date in the header band.
const HeaderDateLayout = "January 02, 2006"

// PageSize is a page in points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	A4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// PageSizeByName resolves "A4" or "Letter" case-insensitively.
func PageSizeByName(name string) (PageSize, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a4":
		return A4, true
	case "letter":
		return Letter, true
	default:
		return PageSize{}, false
	}
}

// Margins in points.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// DefaultMargins is one inch left and right, three quarters of an inch top
// and bottom.
func DefaultMargins() Margins {
	return Margins{Left: 72, Right: 72, Top: 54, Bottom: 54}
}

// Clock supplies the generation date printed in headers.
type Clock interface {
	Now() time.Time
}

// Options controls Render. A zero PageSize means A4 and a nil Clock reads the
// wall clock; margins are used as given.
type Options struct {
	PageSize     PageSize
	Margins      Margins
	HeaderFooter bool
	Clock        Clock
	Variant      string
	Logger       *slog.Logger
}

// DefaultOptions is A4 with default margins and header/footer enabled.
func DefaultOptions() Options {
	return Options{
		PageSize:     A4,
		Margins:      DefaultMargins(),
		HeaderFooter: true,
		Variant:      VariantDefault,
	}
}

// BlockKind selects the style of a block.
type BlockKind int

const (
	BlockBody BlockKind = iota
	BlockTitle
	BlockHeading
	BlockIndented
	BlockClause
	BlockDisclaimer
	BlockRule
	BlockSpacer
)

var blockNames = map[BlockKind]string{
	BlockBody:       "body",
	BlockTitle:      "title",
	BlockHeading:    "heading",
	BlockIndented:   "indented",
	BlockClause:     "clause",
	BlockDisclaimer: "disclaimer",
	BlockRule:       "rule",
	BlockSpacer:     "spacer",
}

func (k BlockKind) String() string {
	if name, ok := blockNames[k]; ok {
		return name
	}
	return "unknown"
}

// Block is one styled unit of the document body.
type Block struct {
	Kind BlockKind
	Role Role
	// Text is the plain text; Markup is the same text with &, < and >
	// escaped for markup-based backends.
	Text   string
	Markup string
	Style  Style
	// Lines is Text wrapped to the content width minus the style indent.
	Lines  []string
	Height float64
}

func (b Block) splittable() bool {
	switch b.Kind {
	case BlockBody, BlockIndented, BlockClause, BlockDisclaimer:
		return true
	default:
		return false
	}
}

// Placement puts all or part of a block on a page. Top is the offset from the
// top of the content area.
type Placement struct {
	Block  int
	Lines  []string
	First  bool
	Last   bool
	Top    float64
	Height float64
}

// Page is one page of flowed content.
type Page struct {
	Number     int
	Placements []Placement
	Used       float64
}

// Decoration is the header and footer text of one page.
type Decoration struct {
	Title     string
	Date      string
	PageLabel string
	Note      string
}

// PageDecorator receives every page in order together with its decoration
// (nil when header/footer is disabled).
type PageDecorator func(page Page, decoration *Decoration) error

// RenderFailure reports content that cannot be flowed into pages.
type RenderFailure struct {
	Block    int
	Kind     BlockKind
	Height   float64
	Capacity float64
	Reason   string
	Err      error
}

func (e *RenderFailure) Error() string {
	if e.Block < 0 {
		return "layout: render failed: " + e.Reason
	}
	return fmt.Sprintf("layout: render failed at block %d (%s, %.1fpt, page capacity %.1fpt): %s",
		e.Block, e.Kind, e.Height, e.Capacity, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *RenderFailure) Unwrap() error { return e.Err }

// Document is the rendered result.
type Document struct {
	Title        string
	Generated    time.Time
	Options      Options
	Styles       Styles
	Theme        *theme.RendererConfig
	Blocks       []Block
	Pages        []Page
	Capacity     float64
	ContentWidth float64
}

// Decoration returns the header/footer of a page, or nil when disabled.
func (d *Document) Decoration(page Page) *Decoration {
	if !d.Options.HeaderFooter {
		return nil
	}
	return &Decoration{
		Title:     d.Title,
		Date:      d.Generated.Format(HeaderDateLayout),
		PageLabel: fmt.Sprintf("Page %d of %d", page.Number, len(d.Pages)),
		Note:      FooterNote,
	}
}

// Emit hands every page to fn in order and stops at the first error.
func (d *Document) Emit(fn PageDecorator) error {
	for _, page := range d.Pages {
		if err := fn(page, d.Decoration(page)); err != nil {
			return err
		}
	}
	return nil
}

// ContentTop is the y offset (from the page top) where content starts.
func (d *Document) ContentTop() float64 {
	top := d.Options.Margins.Top
	if d.Options.HeaderFooter {
		top += d.Styles.HeaderBand
	}
	return top
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape replaces &, < and > with entities.
func Escape(text string) string {
	return markupEscaper.Replace(text)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Render classifies, styles and paginates text. It returns a *RenderFailure
// when the theme variant cannot be resolved or the page geometry leaves no
// room for a block.
func Render(text, title string, opts Options) (*Document, error) {
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = A4
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	styles, cfg, err := ResolveStyles(opts.Variant)
	if err != nil {
		return nil, &RenderFailure{Block: -1, Reason: err.Error(), Err: err}
	}

	doc := &Document{
		Title:        title,
		Generated:    opts.Clock.Now(),
		Options:      opts,
		Styles:       styles,
		Theme:        cfg,
		ContentWidth: opts.PageSize.Width - opts.Margins.Left - opts.Margins.Right,
		Capacity:     opts.PageSize.Height - opts.Margins.Top - opts.Margins.Bottom,
	}
	if opts.HeaderFooter {
		doc.Capacity -= styles.HeaderBand + styles.FooterBand
	}
	if doc.ContentWidth <= 0 || doc.Capacity <= 0 {
		return nil, &RenderFailure{
			Block:    -1,
			Capacity: doc.Capacity,
			Reason:   fmt.Sprintf("page %s leaves no content area (width %.1fpt, height %.1fpt)", opts.PageSize.Name, doc.ContentWidth, doc.Capacity),
		}
	}

	blocks, err := buildBlocks(text, title, styles, doc.ContentWidth)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks

	pages, err := paginate(blocks, doc.Capacity)
	if err != nil {
		return nil, err
	}
	doc.Pages = pages

	logger.Debug("layout: rendered document",
		"title", title,
		"blocks", len(blocks),
		"pages", len(pages),
		"variant", styles.Variant,
	)
	return doc, nil
}

func buildBlocks(text, title string, styles Styles, width float64) ([]Block, error) {
	var blocks []Block
	add := func(kind BlockKind, role Role, value string, style Style) error {
		block, err := textBlock(kind, role, value, style, styles, width)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
		return nil
	}
	spacer := func(height float64) {
		blocks = append(blocks, Block{Kind: BlockSpacer, Role: RoleBlank, Height: height})
	}
	rule := func() {
		blocks = append(blocks, Block{Kind: BlockRule, Role: RoleSectionBreak, Height: styles.RuleSpace * 2})
	}

	if err := add(BlockTitle, RoleTitle, strings.ToUpper(title), styles.Title); err != nil {
		return nil, err
	}
	spacer(styles.TitleSpace)

	for _, line := range ClassifyText(text) {
		var err error
		switch line.Role {
		case RoleBlank:
			if n := len(blocks); n > 0 && blocks[n-1].Kind == BlockSpacer {
				continue
			}
			spacer(styles.BlankSpace)
		case RoleSectionBreak:
			rule()
		case RoleHeading:
			err = add(BlockHeading, line.Role, line.Text, styles.Heading)
		case RoleNumberedClause:
			err = add(BlockClause, line.Role, line.Text, styles.Clause)
		case RoleSubItem:
			err = add(BlockIndented, line.Role, line.Text, styles.Indented)
		default:
			err = add(BlockBody, line.Role, line.Text, styles.Body)
		}
		if err != nil {
			return nil, err
		}
	}

	if n := len(blocks); n > 0 && blocks[n-1].Kind == BlockSpacer {
		blocks[n-1].Height = max(blocks[n-1].Height, styles.DisclaimerSpace)
	} else {
		spacer(styles.DisclaimerSpace)
	}
	rule()
	if err := add(BlockDisclaimer, RoleParagraph, Disclaimer, styles.Disclaimer); err != nil {
		return nil, err
	}

	return blocks, nil
}

func textBlock(kind BlockKind, role Role, text string, style Style, styles Styles, width float64) (Block, error) {
	glyph := styles.GlyphRegular
	if style.Bold {
		glyph = styles.GlyphBold
	}
	lines, ok := Wrap(text, width-style.Indent, style.Size, glyph)
	if !ok {
		return Block{}, &RenderFailure{
			Block:  -1,
			Kind:   kind,
			Reason: fmt.Sprintf("%s text does not fit a line of %.1fpt", kind, width-style.Indent),
		}
	}
	return Block{
		Kind:   kind,
		Role:   role,
		Text:   text,
		Markup: Escape(text),
		Style:  style,
		Lines:  lines,
		Height: style.SpaceBefore + float64(len(lines))*style.Leading + style.SpaceAfter,
	}, nil
}

// Wrap breaks text into lines no wider than width, estimating each glyph as
// size*glyph points. Words longer than a line are split. It reports false
// when not even one glyph fits.
func Wrap(text string, width, size, glyph float64) ([]string, bool) {
	if size <= 0 || glyph <= 0 {
		return []string{text}, true
	}
	maxChars := int(width / (size * glyph))
	if maxChars < 1 {
		return nil, false
	}

	var (
		lines   []string
		current strings.Builder
		length  int
	)
	flush := func() {
		if length > 0 {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
	}
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxChars {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}
		n := utf8.RuneCountInString(word)
		if length > 0 && length+1+n > maxChars {
			flush()
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	flush()
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines, true
}

func paginate(blocks []Block, capacity float64) ([]Page, error) {
	pages := []Page{{Number: 1}}
	current := func() *Page { return &pages[len(pages)-1] }
	newPage := func() { pages = append(pages, Page{Number: len(pages) + 1}) }
	place := func(p Placement) {
		page := current()
		p.Top = page.Used
		page.Placements = append(page.Placements, p)
		page.Used += p.Height
	}

	for idx, block := range blocks {
		switch block.Kind {
		case BlockSpacer:
			if current().Used == 0 {
				continue
			}
			if current().Used+block.Height > capacity {
				newPage()
				continue
			}
			place(Placement{Block: idx, First: true, Last: true, Height: block.Height})
			continue
		case BlockRule:
			if block.Height > capacity {
				return nil, failure(idx, block, capacity, "rule taller than a page")
			}
			if current().Used+block.Height > capacity {
				newPage()
			}
			place(Placement{Block: idx, First: true, Last: true, Height: block.Height})
			continue
		}

		if block.Height <= capacity-current().Used {
			place(Placement{Block: idx, Lines: block.Lines, First: true, Last: true, Height: block.Height})
			continue
		}
		if !block.splittable() {
			if block.Height > capacity {
				return nil, failure(idx, block, capacity, "block taller than a page and cannot be split")
			}
			newPage()
			place(Placement{Block: idx, Lines: block.Lines, First: true, Last: true, Height: block.Height})
			continue
		}

		remaining := block.Lines
		first := true
		for len(remaining) > 0 {
			avail := capacity - current().Used
			before := 0.0
			if first {
				before = block.Style.SpaceBefore
			}
			body := before + float64(len(remaining))*block.Style.Leading
			if body+block.Style.SpaceAfter <= avail {
				place(Placement{Block: idx, Lines: remaining, First: first, Last: true, Height: body + block.Style.SpaceAfter})
				break
			}
			if body <= avail {
				place(Placement{Block: idx, Lines: remaining, First: first, Last: true, Height: avail})
				break
			}
			n := int((avail - before) / block.Style.Leading)
			if n <= 0 {
				if current().Used == 0 {
					return nil, failure(idx, block, capacity, "a single line does not fit an empty page")
				}
				newPage()
				continue
			}
			place(Placement{Block: idx, Lines: remaining[:n], First: first, Height: before + float64(n)*block.Style.Leading})
			remaining = remaining[n:]
			first = false
			newPage()
		}
	}

	// a trailing page holding nothing is dropped
	if n := len(pages); n > 1 && len(pages[n-1].Placements) == 0 {
		pages = pages[:n-1]
	}
	return pages, nil
}

func failure(idx int, block Block, capacity float64, reason string) *RenderFailure {
	return &RenderFailure{Block: idx, Kind: block.Kind, Height: block.Height, Capacity: capacity, Reason: reason}
}
