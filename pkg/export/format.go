package export

import (
	"errors"
	"sort"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatPlain         Format = "plain"
	FormatPaginated     Format = "paginated"
	FormatWordProcessor Format = "wordprocessor"
	FormatHTML          Format = "html"
	// FormatAll expands to AllFormats.
	FormatAll Format = "all"
)

// AllFormats is the expansion of FormatAll, in execution order.
var AllFormats = []Format{FormatPlain, FormatPaginated, FormatWordProcessor, FormatHTML}

var formatAliases = map[string]Format{
	"plain":         FormatPlain,
	"txt":           FormatPlain,
	"text":          FormatPlain,
	"paginated":     FormatPaginated,
	"pdf":           FormatPaginated,
	"wordprocessor": FormatWordProcessor,
	"docx":          FormatWordProcessor,
	"word":          FormatWordProcessor,
	"html":          FormatHTML,
	"htm":           FormatHTML,
	"all":           FormatAll,
}

// ParseFormat resolves a format name or alias case-insensitively.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// FormatNames lists every accepted name, aliases included.
func FormatNames() []string {
	names := make([]string, 0, len(formatAliases))
	for name := range formatAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status is the outcome of one format.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorKind classifies a failed entry.
type ErrorKind string

const (
	KindNone ErrorKind = ""
	// KindUnavailable means no encoder is registered for the format.
	KindUnavailable   ErrorKind = "export_format_unavailable"
	KindUnknownFormat ErrorKind = "unknown_format"
	KindRender        ErrorKind = "render_failure"
	KindEncode        ErrorKind = "encode_failure"
	KindWrite         ErrorKind = "write_failure"
	KindCanceled      ErrorKind = "canceled"
)

var (
	// ErrFormatUnavailable is wrapped by entries of kind KindUnavailable.
	ErrFormatUnavailable = errors.New("export: format unavailable")
	// ErrUnknownFormat is wrapped by entries of kind KindUnknownFormat.
	ErrUnknownFormat = errors.New("export: unknown format")
)

// Artifact is an encoded document. Path is empty for Bytes calls.
type Artifact struct {
	Filename string
	Path     string
	Size     int64
	MIME     string
	Data     []byte
}

// Entry is the result of one format.
type Entry struct {
	Format   Format
	Status   Status
	Artifact *Artifact
	Message  string
	Kind     ErrorKind
	Err      error
}

// OK reports a successful entry.
func (e Entry) OK() bool { return e.Status == StatusSuccess }

// Result maps each requested format to its entry.
type Result struct {
	Directory string
	Entries   map[Format]Entry
}

// Entry returns the entry of a format.
func (r Result) Entry(f Format) (Entry, bool) {
	entry, ok := r.Entries[f]
	return entry, ok
}

// Formats lists the formats present in the result, sorted.
func (r Result) Formats() []Format {
	out := make([]Format, 0, len(r.Entries))
	for f := range r.Entries {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Failed lists the formats whose entry is not a success, sorted.
func (r Result) Failed() []Format {
	var out []Format
	for _, f := range r.Formats() {
		if !r.Entries[f].OK() {
			out = append(out, f)
		}
	}
	return out
}

// OK reports whether every entry succeeded. An empty result is not OK.
func (r Result) OK() bool {
	return len(r.Entries) > 0 && len(r.Failed()) == 0
}
