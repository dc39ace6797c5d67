package documents

import (
	"net/http"

	"github.com/goliatone/go-legaldocs/pkg/templates"
)

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchAll  EmptySearchMode = "all"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath       string
	SearchParam     string
	CategoryParam   string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	// IncludeAliases lists alias keys as separate options.
	IncludeAliases bool
	Guard          GuardFunc

	// Documents overrides the registry listing.
	Documents []templates.Info
	Registry  *templates.Registry
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/documents",
		SearchParam:     "q",
		CategoryParam:   "category",
		LimitParam:      "limit",
		DefaultLimit:    50,
		MaxLimit:        100,
		EmptySearchMode: EmptySearchAll,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchAll
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/documents"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.CategoryParam == "" {
		opts.CategoryParam = "category"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.Documents != nil {
		opts.Documents = append([]templates.Info{}, opts.Documents...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		o.EmptySearchMode = mode
	}
}

func WithAliases(include bool) OptionFn {
	return func(o *Options) {
		o.IncludeAliases = include
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

// WithRegistry lists the types of registry instead of the default registry.
func WithRegistry(registry *templates.Registry) OptionFn {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithDocuments serves a fixed listing; it wins over any registry.
func WithDocuments(infos []templates.Info) OptionFn {
	return func(o *Options) {
		if infos == nil {
			o.Documents = nil
			return
		}
		o.Documents = append([]templates.Info{}, infos...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
