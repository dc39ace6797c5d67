package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-legaldocs/pkg/numwords"
)

// EngineOption configures the body engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	bodies    fs.FS
	extension string
	globals   map[string]any
}

// WithBodies loads document bodies from files instead of the embedded set.
func WithBodies(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		cfg.bodies = files
	}
}

// WithExtension overrides the body file extension (".tpl" by default).
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds values visible to every body.
func WithGlobals(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders document bodies with pongo2. Compiled bodies are cached and
// safe for concurrent execution.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	compiled  map[string]*pongo2.Template
	extension string
}

// NewEngine constructs an Engine over the embedded bodies unless WithBodies
// supplies another filesystem.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.bodies == nil {
		cfg.bodies = BodiesFS()
	}

	engine := &Engine{
		set:       pongo2.NewSet("legaldocs", pongo2.NewFSLoader(cfg.bodies)),
		compiled:  make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}
	registerDefaultFilters()

	if len(cfg.globals) > 0 {
		engine.set.Globals = make(pongo2.Context, len(cfg.globals))
		engine.set.Globals.Update(pongo2.Context(cfg.globals))
	}
	return engine, nil
}

// Compile parses the named body so syntax errors surface at startup.
func (e *Engine) Compile(name string) error {
	_, err := e.lookup(name)
	return err
}

// Render executes the named body with data.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("templates: engine is nil")
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		ctx[key] = value
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("templates: execute body %q: %w", name, err)
	}
	return buf.String(), nil
}

// RenderString executes an inline body. It is meant for tests and ad-hoc
// previews; document types always use named bodies.
func (e *Engine) RenderString(body string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("templates: engine is nil")
	}
	tmpl, err := e.set.FromString(body)
	if err != nil {
		return "", fmt.Errorf("templates: parse inline body: %w", err)
	}
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("templates: execute inline body: %w", err)
	}
	return out, nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	e.mu.RLock()
	if tmpl, ok := e.compiled[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.compiled[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: load body %q: %w", path, err)
	}
	e.compiled[path] = tmpl
	return tmpl, nil
}

// HasUnresolvedSyntax reports whether text still carries template markers.
func HasUnresolvedSyntax(text string) bool {
	for _, marker := range []string{"{{", "}}", "{%", "%}"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// pongo2 keeps filters in an unguarded global map.
var filtersOnce sync.Once

func registerDefaultFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("inwords") {
			_ = pongo2.RegisterFilter("inwords", filterInWords)
		}
		if !pongo2.FilterExists("numbered") {
			_ = pongo2.RegisterFilter("numbered", filterNumbered)
		}
	})
}

// filterInWords spells an amount as "Rupees ... Only". Values that are not
// plain amounts (including placeholders) are wrapped as-is.
func filterInWords(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := strings.TrimSpace(in.String())
	if n, ok := numwords.ParseAmount(raw); ok {
		if words, err := numwords.Rupees(n); err == nil {
			return pongo2.AsValue(words), nil
		}
	}
	return pongo2.AsValue("Rupees " + raw + " Only"), nil
}

// filterNumbered turns a newline separated list into "N. item" lines with the
// indent given as parameter (number of spaces).
func filterNumbered(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	indent := ""
	if param != nil && param.IsInteger() {
		indent = strings.Repeat(" ", param.Integer())
	}
	items := SplitList(in.String())
	lines := make([]string, 0, len(items))
	for idx, item := range items {
		lines = append(lines, fmt.Sprintf("%s%d. %s", indent, idx+1, item))
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}

// SplitList splits a list field on newlines (or semicolons when it is a single
// line) and drops blank entries and leading bullets.
func SplitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	sep := "\n"
	if !strings.Contains(raw, "\n") && strings.Contains(raw, ";") {
		sep = ";"
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		item := strings.TrimSpace(part)
		item = strings.TrimLeft(item, "-*• ")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
