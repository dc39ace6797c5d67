package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// ConfigurationError reports a registry that cannot be built: conflicting
// keys, unknown variants or bodies that fail to compile.
type ConfigurationError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("templates: invalid configuration for %q: %s", e.Key, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Builder collects registrations. Conflicts are recorded and reported once by
// Build so startup fails with the full list.
type Builder struct {
	entries map[string]Template
	errs    []error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Template)}
}

// Register maps key to tmpl. Registering a key again is allowed only when it
// resolves to the same template name (an alias re-declared); anything else is
// a ConfigurationError returned from Build.
func (b *Builder) Register(key string, tmpl Template) *Builder {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		b.errs = append(b.errs, &ConfigurationError{Key: key, Reason: "key is required"})
		return b
	case tmpl == nil:
		b.errs = append(b.errs, &ConfigurationError{Key: key, Reason: "template is required"})
		return b
	}
	if existing, ok := b.entries[key]; ok {
		if existing.Name() != tmpl.Name() {
			b.errs = append(b.errs, &ConfigurationError{
				Key:    key,
				Reason: fmt.Sprintf("already registered to %q, cannot register %q", existing.Name(), tmpl.Name()),
			})
		}
		return b
	}
	b.entries[key] = tmpl
	return b
}

// Build freezes the registrations. The builder may keep being used; the
// returned registry does not observe later changes.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) == 1 {
		return nil, b.errs[0]
	}
	if len(b.errs) > 1 {
		return nil, errors.Join(b.errs...)
	}

	entries := make(map[string]Template, len(b.entries))
	keys := make([]string, 0, len(b.entries))
	for key, tmpl := range b.entries {
		entries[key] = tmpl
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Registry{entries: entries, keys: keys}, nil
}

// Registry is an immutable lookup from document type key (aliases included)
// to template. It needs no locking.
type Registry struct {
	entries map[string]Template
	keys    []string
}

// Info summarises one registry key.
type Info struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Get binds fields to the template registered under key. Lookup is exact.
func (r *Registry) Get(key string, fields map[string]string) (*Instance, bool) {
	if r == nil {
		return nil, false
	}
	tmpl, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return NewInstance(tmpl, fields), true
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.entries[key]
	return ok
}

// Resolve returns the canonical template name for key.
func (r *Registry) Resolve(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	tmpl, ok := r.entries[key]
	if !ok {
		return "", false
	}
	return tmpl.Name(), true
}

// Keys lists every key, aliases included, sorted.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// List returns one descriptor copy per distinct template, sorted by name.
func (r *Registry) List() []Descriptor {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.entries))
	var out []Descriptor
	for _, key := range r.keys {
		tmpl := r.entries[key]
		if seen[tmpl.Name()] {
			continue
		}
		seen[tmpl.Name()] = true
		out = append(out, tmpl.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Info describes every key, aliases included, sorted by key.
func (r *Registry) Info() []Info {
	if r == nil {
		return nil
	}
	out := make([]Info, 0, len(r.keys))
	for _, key := range r.keys {
		desc := r.entries[key].Descriptor()
		out = append(out, Info{
			Key:         key,
			Name:        desc.Name,
			DisplayName: desc.DisplayName,
			Description: desc.Description,
			Category:    desc.Category,
		})
	}
	return out
}

// Option configures NewDefault.
type Option func(*defaultConfig)

type defaultConfig struct {
	logger  *slog.Logger
	catalog fs.FS
	engine  *Engine
}

// WithLogger sets the logger used while building the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *defaultConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(files fs.FS) Option {
	return func(cfg *defaultConfig) {
		cfg.catalog = files
	}
}

// WithEngine replaces the body engine.
func WithEngine(engine *Engine) Option {
	return func(cfg *defaultConfig) {
		cfg.engine = engine
	}
}

// NewDefault builds the registry of built-in document types from the catalog.
// Every body is compiled and rendered once with no fields so template errors
// surface here instead of at request time.
func NewDefault(options ...Option) (*Registry, error) {
	cfg := &defaultConfig{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.catalog == nil {
		cfg.catalog = CatalogFS()
	}
	if cfg.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		cfg.engine = engine
	}

	catalog, err := LoadCatalog(cfg.catalog)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder()
	sample := FixedClock(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
	for _, name := range catalog.Names() {
		def, _ := catalog.Definition(name)
		factory, ok := variants[name]
		if !ok {
			builder.errs = append(builder.errs, &ConfigurationError{Key: name, Reason: "no document variant for catalog entry"})
			continue
		}
		if err := cfg.engine.Compile(def.Body); err != nil {
			builder.errs = append(builder.errs, &ConfigurationError{Key: name, Reason: "body does not compile", Err: err})
			continue
		}
		tmpl := factory(base{def: def, engine: cfg.engine})
		if _, err := tmpl.Generate(nil, sample); err != nil {
			builder.errs = append(builder.errs, &ConfigurationError{Key: name, Reason: "body does not render", Err: err})
			continue
		}

		builder.Register(name, tmpl)
		for _, alias := range def.Aliases {
			builder.Register(alias, tmpl)
		}
		cfg.logger.Debug("templates: registered document type", "name", name, "aliases", def.Aliases)
	}
	return builder.Build()
}
