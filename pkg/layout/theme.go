package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeName is the manifest that carries layout tokens.
const ThemeName = "legal"

// Variants shipped with the legal theme.
const (
	VariantDefault = "default"
	VariantCompact = "compact"
)

var baseTokens = map[string]string{
	"font.family": "Helvetica",

	"title.size":         "18",
	"title.color":        "#1a365d",
	"title.space_before": "10",
	"title.space_after":  "20",

	"heading.size":         "14",
	"heading.color":        "#1a365d",
	"heading.space_before": "15",
	"heading.space_after":  "8",

	"body.size":         "11",
	"body.leading":      "14",
	"body.color":        "#1a202c",
	"body.space_before": "6",
	"body.space_after":  "6",

	"indented.indent":       "20",
	"indented.space_before": "4",
	"indented.space_after":  "4",

	"clause.indent":       "0",
	"clause.space_before": "8",
	"clause.space_after":  "4",

	"disclaimer.size":         "9",
	"disclaimer.color":        "#718096",
	"disclaimer.space_before": "20",
	"disclaimer.space_after":  "10",

	"rule.color": "#e2e8f0",
	"rule.space": "10",

	"spacer.blank":      "6",
	"spacer.title":      "20",
	"spacer.disclaimer": "30",

	"header.size":      "10",
	"header.color":     "#1a365d",
	"header.date_size": "8",
	"footer.size":      "9",
	"footer.note_size": "7",
	"footer.color":     "#808080",
	"band.header":      "30",
	"band.footer":      "30",
	"glyph.regular":    "0.55",
	"glyph.bold":       "0.6",
}

var compactTokens = map[string]string{
	"title.size":           "16",
	"title.space_after":    "14",
	"heading.size":         "12",
	"heading.space_before": "10",
	"heading.space_after":  "5",
	"body.size":            "10",
	"body.leading":         "12.5",
	"body.space_before":    "4",
	"body.space_after":     "4",
	"clause.space_before":  "5",
	"spacer.blank":         "4",
	"spacer.title":         "14",
}

// Manifest returns a fresh copy of the legal theme manifest.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens:  copyTokens(baseTokens),
		Variants: map[string]theme.Variant{
			VariantDefault: {Tokens: map[string]string{}},
			VariantCompact: {Tokens: copyTokens(compactTokens)},
		},
	}
}

var (
	registerOnce sync.Once
	registerErr  error
	themes       *theme.MemoryRegistry
)

// Themes returns the go-theme registry holding the legal manifest. The
// manifest is validated and registered once.
func Themes() (theme.ThemeProvider, error) {
	registerOnce.Do(func() {
		themes = theme.NewRegistry()
		if err := themes.Register(Manifest()); err != nil {
			registerErr = fmt.Errorf("layout: register theme %q: %w", ThemeName, err)
		}
	})
	return themes, registerErr
}

// Selection resolves the variant through the go-theme selector and returns
// the renderer config with the merged tokens (variant tokens override the
// base set).
func Selection(variant string) (*theme.RendererConfig, error) {
	provider, err := Themes()
	if err != nil {
		return nil, err
	}
	selector := theme.Selector{
		Registry:       provider,
		DefaultTheme:   ThemeName,
		DefaultVariant: VariantDefault,
	}
	sel, err := selector.Select(ThemeName, strings.TrimSpace(variant))
	if err != nil {
		return nil, fmt.Errorf("layout: select theme %q: %w", ThemeName, err)
	}
	if _, ok := sel.Manifest.Variants[sel.Variant]; !ok {
		return nil, fmt.Errorf("layout: theme %q has no variant %q (known: %s)", ThemeName, sel.Variant, strings.Join(variantNames(sel.Manifest), ", "))
	}

	cfg := sel.RendererTheme(nil)
	// custom property names cannot carry dots
	cssVars := make(map[string]string, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		cssVars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}
	cfg.CSSVars = cssVars
	return &cfg, nil
}

// Align is the horizontal alignment of a block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignJustify
)

// Style is the resolved typography of one block kind. Sizes are points.
type Style struct {
	Font        string
	Bold        bool
	Italic      bool
	Size        float64
	Leading     float64
	Color       string
	Align       Align
	Indent      float64
	SpaceBefore float64
	SpaceAfter  float64
}

// Styles is every style and metric the renderer and backends need.
type Styles struct {
	Variant    string
	Title      Style
	Heading    Style
	Body       Style
	Indented   Style
	Clause     Style
	Disclaimer Style
	Header     Style
	HeaderDate Style
	Footer     Style
	FooterNote Style

	RuleColor       string
	RuleSpace       float64
	BlankSpace      float64
	TitleSpace      float64
	DisclaimerSpace float64
	HeaderBand      float64
	FooterBand      float64
	GlyphRegular    float64
	GlyphBold       float64
}

// ResolveStyles builds Styles for a variant of the legal theme.
func ResolveStyles(variant string) (Styles, *theme.RendererConfig, error) {
	cfg, err := Selection(variant)
	if err != nil {
		return Styles{}, nil, err
	}
	t := tokenReader{tokens: cfg.Tokens}
	font := cfg.Tokens["font.family"]

	bodySize := t.num("body.size")
	bodyLeading := t.num("body.leading")
	styles := Styles{
		Variant: cfg.Variant,
		Title: Style{
			Font: font, Bold: true, Size: t.num("title.size"), Leading: t.num("title.size") * 1.2,
			Color: t.str("title.color"), Align: AlignCenter,
			SpaceBefore: t.num("title.space_before"), SpaceAfter: t.num("title.space_after"),
		},
		Heading: Style{
			Font: font, Bold: true, Size: t.num("heading.size"), Leading: t.num("heading.size") * 1.2,
			Color: t.str("heading.color"), Align: AlignLeft,
			SpaceBefore: t.num("heading.space_before"), SpaceAfter: t.num("heading.space_after"),
		},
		Body: Style{
			Font: font, Size: bodySize, Leading: bodyLeading, Color: t.str("body.color"), Align: AlignJustify,
			SpaceBefore: t.num("body.space_before"), SpaceAfter: t.num("body.space_after"),
		},
		Indented: Style{
			Font: font, Size: bodySize, Leading: bodyLeading, Color: t.str("body.color"), Align: AlignJustify,
			Indent:      t.num("indented.indent"),
			SpaceBefore: t.num("indented.space_before"), SpaceAfter: t.num("indented.space_after"),
		},
		Clause: Style{
			Font: font, Size: bodySize, Leading: bodyLeading, Color: t.str("body.color"), Align: AlignJustify,
			Indent:      t.num("clause.indent"),
			SpaceBefore: t.num("clause.space_before"), SpaceAfter: t.num("clause.space_after"),
		},
		Disclaimer: Style{
			Font: font, Italic: true, Size: t.num("disclaimer.size"), Leading: t.num("disclaimer.size") * 1.25,
			Color: t.str("disclaimer.color"), Align: AlignCenter,
			SpaceBefore: t.num("disclaimer.space_before"), SpaceAfter: t.num("disclaimer.space_after"),
		},
		Header:     Style{Font: font, Bold: true, Size: t.num("header.size"), Color: t.str("header.color")},
		HeaderDate: Style{Font: font, Size: t.num("header.date_size"), Color: t.str("footer.color"), Align: AlignLeft},
		Footer:     Style{Font: font, Size: t.num("footer.size"), Color: t.str("footer.color"), Align: AlignCenter},
		FooterNote: Style{Font: font, Italic: true, Size: t.num("footer.note_size"), Color: t.str("footer.color"), Align: AlignCenter},

		RuleColor:       t.str("rule.color"),
		RuleSpace:       t.num("rule.space"),
		BlankSpace:      t.num("spacer.blank"),
		TitleSpace:      t.num("spacer.title"),
		DisclaimerSpace: t.num("spacer.disclaimer"),
		HeaderBand:      t.num("band.header"),
		FooterBand:      t.num("band.footer"),
		GlyphRegular:    t.num("glyph.regular"),
		GlyphBold:       t.num("glyph.bold"),
	}
	if t.err != nil {
		return Styles{}, nil, t.err
	}
	return styles, cfg, nil
}

// tokenReader parses tokens and keeps the first failure.
type tokenReader struct {
	tokens map[string]string
	err    error
}

func (t *tokenReader) str(key string) string {
	value, ok := t.tokens[key]
	if !ok && t.err == nil {
		t.err = fmt.Errorf("layout: theme token %q missing", key)
	}
	return value
}

func (t *tokenReader) num(key string) float64 {
	raw := t.str(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil && t.err == nil {
		t.err = fmt.Errorf("layout: theme token %q: %w", key, err)
	}
	return value
}

func variantNames(m *theme.Manifest) []string {
	names := make([]string, 0, len(m.Variants))
	for name := range m.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
