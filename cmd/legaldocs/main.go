package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/components/documents"
	"github.com/goliatone/go-legaldocs/internal/config"
	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/intake"
	"github.com/goliatone/go-legaldocs/pkg/interview"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	config      string
	docType     string
	request     string
	query       string
	fields      string
	formats     string
	filename    string
	title       string
	out         string
	interactive bool
	list        bool
	outline     bool
	serve       string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("legaldocs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags]\n\nDraft legal documents from a request or an explicit type.\n\n", fs.Name())
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.config, "config", "", "YAML configuration file")
	fs.StringVar(&opts.docType, "type", "", "document type key (see -list)")
	fs.StringVar(&opts.request, "request", "", "free-text document request")
	fs.StringVar(&opts.query, "query", "", "validate a legal query and print what was detected")
	fs.StringVar(&opts.fields, "fields", "", "YAML file with field values")
	fs.StringVar(&opts.formats, "formats", "", "comma separated export formats (plain, paginated, wordprocessor, html, all)")
	fs.StringVar(&opts.filename, "filename", "", "export file name without extension")
	fs.StringVar(&opts.title, "title", "", "export title (defaults to the document name)")
	fs.StringVar(&opts.out, "out", "", "export directory (overrides config)")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for the document type and missing fields")
	fs.BoolVar(&opts.list, "list", false, "list document types and exit")
	fs.BoolVar(&opts.outline, "outline", false, "print the section outline of -type and exit")
	fs.StringVar(&opts.serve, "serve", "", "serve the document type picker API on this address")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}
	if opts.out != "" {
		cfg.Export.Directory = opts.out
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	registry, err := templates.NewDefault(templates.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}

	switch {
	case opts.list:
		return listDocuments(stdout, registry)
	case opts.outline:
		return printOutline(stdout, stderr, registry, opts.docType)
	case opts.serve != "":
		return serveDocuments(ctx, stderr, logger, registry, opts.serve)
	}

	validator := intake.New(intake.WithLimits(cfg.Intake), intake.WithLogger(logger))
	if opts.query != "" {
		return checkQuery(stdout, stderr, validator, opts.query)
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithValidator(validator),
		orchestrator.WithExporter(export.New(
			export.WithDirectory(cfg.Export.Directory),
			export.WithLayout(cfg.LayoutOptions()),
			export.WithLogger(logger),
		)),
		orchestrator.WithLogger(logger),
	}
	if cfg.Presets != "" {
		presets, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(cfg.Presets)), filepath.Base(cfg.Presets))
		if err != nil {
			fmt.Fprintf(stderr, "legaldocs: %v\n", err)
			return 1
		}
		orchOpts = append(orchOpts, orchestrator.WithTransformers(presets))
	}
	if opts.interactive {
		orchOpts = append(orchOpts, orchestrator.WithInterviewer(interview.New(
			interview.WithOptionalFields(cfg.Interview.AskOptional),
			interview.WithLogger(logger),
		)))
	}

	fields, err := loadFields(opts.fields)
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}

	draft, err := orchestrator.New(orchOpts...).Draft(ctx, orchestrator.Request{
		Text:         opts.request,
		DocumentType: opts.docType,
		Fields:       fields,
		Interactive:  opts.interactive,
		Formats:      splitFormats(opts.formats),
		Filename:     opts.filename,
		Title:        opts.title,
	})
	if draft != nil {
		for _, warning := range draft.Warnings() {
			fmt.Fprintf(stderr, "warning: %s\n", warning)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}

	if len(draft.Missing) > 0 {
		fmt.Fprintf(stderr, "missing fields rendered as placeholders: %s\n", strings.Join(draft.Missing, ", "))
	}
	if draft.ExportDeclined {
		fmt.Fprintln(stderr, "export skipped")
	}
	if draft.Export == nil {
		fmt.Fprint(stdout, draft.Text)
		return 0
	}
	return reportExport(stdout, stderr, draft.Export)
}

func listDocuments(w io.Writer, registry *templates.Registry) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tDOCUMENT\tCATEGORY\tDESCRIPTION")
	for _, info := range registry.Info() {
		name := info.DisplayName
		if info.Key != info.Name {
			name += " (alias of " + info.Name + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Key, name, info.Category, info.Description)
	}
	if err := tw.Flush(); err != nil {
		return 1
	}
	return 0
}

func serveDocuments(ctx context.Context, stderr io.Writer, logger *slog.Logger, registry *templates.Registry, addr string) int {
	mux := http.NewServeMux()
	pattern, err := documents.New(documents.WithRegistry(registry), documents.WithAliases(true)).RegisterRoutes(mux, "/")
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving document types", "addr", addr, "path", pattern)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}
	return 0
}

func printOutline(stdout, stderr io.Writer, registry *templates.Registry, key string) int {
	instance, ok := registry.Get(key, nil)
	if !ok {
		fmt.Fprintf(stderr, "legaldocs: unknown document type %q\n", key)
		return 1
	}
	fmt.Fprint(stdout, instance.Outline())
	return 0
}

func checkQuery(stdout, stderr io.Writer, validator *intake.Validator, query string) int {
	result := validator.Validate(intake.KindQuery, query)
	if !result.Valid() {
		fmt.Fprintf(stderr, "legaldocs: %s\n", result.Message())
		return 1
	}
	report := result.Info().Map()
	if warnings := result.Warnings(); len(warnings) > 0 {
		report["warnings"] = warnings
	}
	out, err := yaml.Marshal(report)
	if err != nil {
		fmt.Fprintf(stderr, "legaldocs: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, string(out))
	return 0
}

func reportExport(stdout, stderr io.Writer, result *export.Result) int {
	code := 0
	for _, format := range result.Formats() {
		entry, _ := result.Entry(format)
		if entry.OK() {
			fmt.Fprintf(stdout, "%s\t%s\t%d bytes\n", format, entry.Artifact.Path, entry.Artifact.Size)
			continue
		}
		code = 1
		fmt.Fprintf(stderr, "%s\t%s: %s\n", format, entry.Kind, entry.Message)
	}
	return code
}

// loadFields reads a YAML mapping of field values. Sequences become one item
// per line, the shape list fields expect.
func loadFields(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fields %s: %w", path, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]string, len(raw))
	for _, key := range keys {
		switch value := raw[key].(type) {
		case nil:
		case []any:
			items := make([]string, 0, len(value))
			for _, item := range value {
				items = append(items, fmt.Sprint(item))
			}
			fields[key] = strings.Join(items, "\n")
		case map[string]any:
			return nil, fmt.Errorf("parse fields %s: %s must be a scalar or a list", path, key)
		default:
			fields[key] = fmt.Sprint(value)
		}
	}
	return fields, nil
}

func splitFormats(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
