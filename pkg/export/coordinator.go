package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

// DefaultDirectory is used when no directory is configured.
const DefaultDirectory = "exports"

// FilenamePrefix starts every generated filename.
const FilenamePrefix = "legal_document"

// Request describes one export call. Formats accepts names and aliases;
// an empty list means plain text. An empty Title is detected from Text.
type Request struct {
	Text     string
	Formats  []string
	Filename string
	Title    string
}

// Coordinator runs encoders and writes their artifacts.
type Coordinator struct {
	fs       billy.Filesystem
	dir      string
	encoders map[Format]Encoder
	layout   layout.Options
	logger   *slog.Logger
	newID    func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFilesystem sets the filesystem artifacts are written to. The directory
// is resolved inside it.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(c *Coordinator) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithDirectory sets the export directory.
func WithDirectory(dir string) Option {
	return func(c *Coordinator) {
		if dir = strings.TrimSpace(dir); dir != "" {
			c.dir = dir
		}
	}
}

// WithEncoders replaces the registered encoders. Formats without an encoder
// produce KindUnavailable entries.
func WithEncoders(encoders ...Encoder) Option {
	return func(c *Coordinator) {
		c.encoders = make(map[Format]Encoder, len(encoders))
		for _, enc := range encoders {
			if enc != nil {
				c.encoders[enc.Format()] = enc
			}
		}
	}
}

// WithLayout sets the page geometry, theme variant and clock.
func WithLayout(opts layout.Options) Option {
	return func(c *Coordinator) {
		c.layout = opts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid suffix of generated filenames.
func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// DefaultEncoders returns every built-in encoder.
func DefaultEncoders() []Encoder {
	return []Encoder{PlainEncoder{}, PDFEncoder{}, DOCXEncoder{}, HTMLEncoder{}}
}

// New builds a Coordinator. Without WithFilesystem artifacts go to the local
// disk.
func New(options ...Option) *Coordinator {
	c := &Coordinator{
		dir:    DefaultDirectory,
		layout: layout.DefaultOptions(),
		logger: slog.Default(),
		newID:  func() string { return uuid.NewString()[:8] },
	}
	WithEncoders(DefaultEncoders()...)(c)
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.fs == nil {
		dir := c.dir
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		c.fs = osfs.New(filepath.Dir(dir))
		c.dir = filepath.Base(dir)
	}
	return c
}

// Directory is the export directory as seen from the filesystem root.
func (c *Coordinator) Directory() string {
	return c.fs.Join(c.fs.Root(), c.dir)
}

// Formats lists the formats that have an encoder.
func (c *Coordinator) Formats() []Format {
	var out []Format
	for _, f := range AllFormats {
		if _, ok := c.encoders[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Export encodes req.Text in every requested format and writes each artifact.
// It never fails as a whole: every problem is reported in its format entry.
func (c *Coordinator) Export(ctx context.Context, req Request) Result {
	now := c.now()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DetectTitle(req.Text)
	}
	base := SanitizeFilename(req.Filename)
	if base == "" {
		base = fmt.Sprintf("%s_%s_%s", FilenamePrefix, now.Format("20060102_150405"), c.newID())
	}

	formats, unknown := expandFormats(req.Formats)
	result := Result{Directory: c.Directory(), Entries: make(map[Format]Entry, len(formats)+len(unknown))}
	for _, name := range unknown {
		result.Entries[Format(name)] = Entry{
			Format:  Format(name),
			Status:  StatusError,
			Kind:    KindUnknownFormat,
			Message: fmt.Sprintf("unknown export format %q", name),
			Err:     fmt.Errorf("%w: %q", ErrUnknownFormat, name),
		}
	}

	src := NewSource(req.Text, title, c.layoutOptions())
	entries := make([]Entry, len(formats))
	var (
		wg     sync.WaitGroup
		mkdir  sync.Once
		dirErr error
	)
	ensureDir := func() error {
		mkdir.Do(func() {
			if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
				dirErr = fmt.Errorf("export: create directory %s: %w", c.dir, err)
			}
		})
		return dirErr
	}

	for i, format := range formats {
		enc, ok := c.encoders[format]
		if !ok {
			entries[i] = unavailable(format)
			continue
		}
		wg.Add(1)
		go func(slot *Entry, enc Encoder) {
			defer wg.Done()
			*slot = c.run(ctx, enc, src, base, ensureDir)
		}(&entries[i], enc)
	}
	wg.Wait()

	for _, entry := range entries {
		result.Entries[entry.Format] = entry
		if entry.OK() {
			c.logger.Debug("export: wrote artifact", "format", entry.Format, "path", entry.Artifact.Path, "size", entry.Artifact.Size)
		} else {
			c.logger.Warn("export: format failed", "format", entry.Format, "kind", entry.Kind, "error", entry.Err)
		}
	}
	return result
}

// Bytes encodes text in a single format without writing anything. Aliases are
// accepted; "all" is not.
func (c *Coordinator) Bytes(ctx context.Context, format, text, title string) (*Artifact, error) {
	f, ok := ParseFormat(format)
	if !ok || f == FormatAll {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	enc, ok := c.encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormatUnavailable, f)
	}
	if strings.TrimSpace(title) == "" {
		title = DetectTitle(text)
	}
	data, err := c.encode(ctx, enc, NewSource(text, title, c.layoutOptions()))
	if err != nil {
		return nil, err
	}
	name := SanitizeFilename(title)
	if name == "" {
		name = FilenamePrefix
	}
	return &Artifact{
		Filename: name + "." + enc.Extension(),
		Size:     int64(len(data)),
		MIME:     mimetype.Detect(data).String(),
		Data:     data,
	}, nil
}

func (c *Coordinator) run(ctx context.Context, enc Encoder, src *Source, base string, ensureDir func() error) Entry {
	format := enc.Format()
	if err := ctx.Err(); err != nil {
		return failed(format, KindCanceled, err)
	}

	data, err := c.encode(ctx, enc, src)
	if err != nil {
		var rf *layout.RenderFailure
		switch {
		case errors.As(err, &rf):
			return failed(format, KindRender, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return failed(format, KindCanceled, err)
		default:
			return failed(format, KindEncode, err)
		}
	}

	if err := ensureDir(); err != nil {
		return failed(format, KindWrite, err)
	}
	name := base + "." + enc.Extension()
	path := c.fs.Join(c.dir, name)
	if err := util.WriteFile(c.fs, path, data, 0o644); err != nil {
		return failed(format, KindWrite, fmt.Errorf("export: write %s: %w", path, err))
	}

	full := c.fs.Join(c.fs.Root(), path)
	return Entry{
		Format: format,
		Status: StatusSuccess,
		Artifact: &Artifact{
			Filename: name,
			Path:     full,
			Size:     int64(len(data)),
			MIME:     mimetype.Detect(data).String(),
			Data:     data,
		},
		Message: fmt.Sprintf("%s file saved: %s", enc.Extension(), full),
	}
}

// encode calls the encoder and turns a panic into an error.
func (c *Coordinator) encode(ctx context.Context, enc Encoder, src *Source) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export: %s encoder panicked: %v", enc.Format(), r)
		}
	}()
	return enc.Encode(ctx, src)
}

func (c *Coordinator) layoutOptions() layout.Options {
	opts := c.layout
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	return opts
}

func (c *Coordinator) now() time.Time {
	if c.layout.Clock != nil {
		return c.layout.Clock.Now()
	}
	return time.Now()
}

func unavailable(format Format) Entry {
	return Entry{
		Format:  format,
		Status:  StatusError,
		Kind:    KindUnavailable,
		Message: fmt.Sprintf("%s export is not available: no encoder registered", format),
		Err:     fmt.Errorf("%w: %s", ErrFormatUnavailable, format),
	}
}

func failed(format Format, kind ErrorKind, err error) Entry {
	return Entry{Format: format, Status: StatusError, Kind: kind, Message: err.Error(), Err: err}
}

// expandFormats resolves names, expands "all" and drops duplicates. Unknown
// names are returned separately in request order. Nothing requested means
// plain text.
func expandFormats(names []string) ([]Format, []string) {
	var (
		out     []Format
		unknown []string
		seen    = make(map[Format]bool)
	)
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, ok := ParseFormat(name)
		switch {
		case !ok:
			unknown = append(unknown, name)
		case f == FormatAll:
			for _, each := range AllFormats {
				add(each)
			}
		default:
			add(f)
		}
	}
	if len(out) == 0 && len(unknown) == 0 {
		out = []Format{FormatPlain}
	}
	return out, unknown
}

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\s\x00-\x1f]+`)

// SanitizeFilename replaces path-unsafe characters with '_' and trims
// leading and trailing dots. It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.TrimLeft(name, ".")
	name = strings.TrimRight(name, ".")
	if strings.Trim(name, "_") == "" {
		return ""
	}
	return name
}
