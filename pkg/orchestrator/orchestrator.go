package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/intake"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

var (
	// ErrTemplateNotFound is returned when no registered document matches the
	// requested or detected type.
	ErrTemplateNotFound = errors.New("orchestrator: template not found")
	// ErrRequestRejected is wrapped by RejectedError.
	ErrRequestRejected = errors.New("orchestrator: request rejected")
)

// RejectedError reports a request that failed intake validation. Message is
// the user-facing validation message.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "orchestrator: request rejected: " + e.Message
}

// Unwrap exposes ErrRequestRejected.
func (e *RejectedError) Unwrap() error { return ErrRequestRejected }

// Interviewer completes field values interactively. *interview.Interviewer
// implements it.
type Interviewer interface {
	ChooseDocument(ctx context.Context, infos []templates.Info) (string, error)
	Collect(ctx context.Context, desc templates.Descriptor, fields map[string]string) (map[string]string, error)
	ConfirmExport(ctx context.Context, desc templates.Descriptor, missing, formats []string) (bool, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a template registry.
func WithRegistry(registry *templates.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithValidator injects the intake validator.
func WithValidator(validator *intake.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = validator
	}
}

// WithExporter injects the export coordinator used when a request names
// formats.
func WithExporter(exporter *export.Coordinator) Option {
	return func(o *Orchestrator) {
		o.exporter = exporter
	}
}

// WithInterviewer enables interactive completion for requests that ask for it.
func WithInterviewer(interviewer Interviewer) Option {
	return func(o *Orchestrator) {
		o.interviewer = interviewer
	}
}

// WithTransformers registers transformers that run, in order, on the field
// values before generation.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithClock sets the clock passed to template generation.
func WithClock(clock templates.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithLogger sets the logger shared with the default collaborators.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs the drafting pipeline. Missing collaborators are built
// with their defaults; a failure to build the default registry is reported by
// every Draft call.
type Orchestrator struct {
	registry      *templates.Registry
	validator     *intake.Validator
	exporter      *export.Coordinator
	interviewer   Interviewer
	transformers  []Transformer
	clock         templates.Clock
	logger        *slog.Logger
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one drafting call.
type Request struct {
	// Text is the free-text request. Optional when DocumentType is set.
	Text string
	// DocumentType is a registry key or alias. When empty it is detected from
	// Text.
	DocumentType string
	// Fields are the known field values; missing fields become placeholders.
	Fields map[string]string
	// Interactive asks the configured Interviewer for a document type and for
	// missing required fields.
	Interactive bool

	// Formats, when not empty, exports the generated text.
	Formats  []string
	Filename string
	// Title defaults to the document's display name.
	Title string
}

// Draft is the outcome of a drafting call.
type Draft struct {
	// Validation is set when the request carried text.
	Validation *intake.Result
	// Key is the registry key used; Descriptor.Name is the canonical name.
	Key        string
	Descriptor templates.Descriptor
	Fields     map[string]string
	// Missing lists required fields rendered as placeholders.
	Missing []string
	Text    string
	Export  *export.Result
	// ExportDeclined is set when an interactive export was not confirmed.
	ExportDeclined bool
}

// Warnings returns the advisory intake warnings, if any.
func (d *Draft) Warnings() []string {
	if d == nil || d.Validation == nil {
		return nil
	}
	return d.Validation.Warnings()
}

// Registry returns the template registry in use.
func (o *Orchestrator) Registry() *templates.Registry {
	return o.registry
}

// Documents lists the registered keys with their descriptions.
func (o *Orchestrator) Documents() []templates.Info {
	if o.registry == nil {
		return nil
	}
	return o.registry.Info()
}

// Draft executes validate → resolve → complete → generate → export. A rejected
// request returns the partial draft (with its validation result) and a
// *RejectedError.
func (o *Orchestrator) Draft(ctx context.Context, req Request) (*Draft, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	draft := &Draft{}
	key := strings.TrimSpace(req.DocumentType)

	if strings.TrimSpace(req.Text) != "" {
		result := o.validator.Validate(intake.KindDocumentRequest, req.Text)
		draft.Validation = &result
		if !result.Valid() {
			return draft, &RejectedError{Message: result.Message()}
		}
		if key == "" {
			key = DocumentKey(result.Info().DocumentType)
		}
	} else if key == "" && !req.Interactive {
		return nil, errors.New("orchestrator: request text or document type is required")
	}

	if !o.registry.Has(key) && req.Interactive && o.interviewer != nil {
		chosen, err := o.interviewer.ChooseDocument(ctx, o.registry.Info())
		if err != nil {
			return draft, fmt.Errorf("orchestrator: choose document: %w", err)
		}
		key = chosen
	}
	if !o.registry.Has(key) {
		return draft, fmt.Errorf("%w: %q", ErrTemplateNotFound, key)
	}
	draft.Key = key

	fields := make(map[string]string, len(req.Fields))
	for k, v := range req.Fields {
		fields[k] = v
	}
	blank, _ := o.registry.Get(key, nil)
	desc := blank.Descriptor()
	if err := o.applyTransformers(ctx, desc, fields); err != nil {
		return draft, err
	}
	if req.Interactive && o.interviewer != nil {
		collected, err := o.interviewer.Collect(ctx, desc, fields)
		if err != nil {
			return draft, fmt.Errorf("orchestrator: collect fields: %w", err)
		}
		fields = collected
	}
	fields = intake.CleanFields(fields)

	instance, _ := o.registry.Get(key, fields)
	text, err := instance.Generate(o.clock)
	if err != nil {
		return draft, fmt.Errorf("orchestrator: generate %s: %w", key, err)
	}
	draft.Descriptor = instance.Descriptor()
	draft.Fields = instance.Fields()
	draft.Missing = instance.Missing()
	draft.Text = text

	o.logger.Debug("orchestrator: drafted document",
		"key", key,
		"template", draft.Descriptor.Name,
		"missing", len(draft.Missing),
	)

	if len(req.Formats) > 0 && req.Interactive && o.interviewer != nil {
		ok, err := o.interviewer.ConfirmExport(ctx, draft.Descriptor, draft.Missing, req.Formats)
		if err != nil {
			return draft, fmt.Errorf("orchestrator: confirm export: %w", err)
		}
		if !ok {
			draft.ExportDeclined = true
			o.logger.Info("orchestrator: export declined", "key", key)
			return draft, nil
		}
	}

	if len(req.Formats) > 0 {
		if o.exporter == nil {
			return draft, errors.New("orchestrator: exporter is nil")
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = draft.Descriptor.DisplayName
		}
		result := o.exporter.Export(ctx, export.Request{
			Text:     text,
			Formats:  req.Formats,
			Filename: req.Filename,
			Title:    title,
		})
		draft.Export = &result
	}
	return draft, nil
}

// documentKeys maps intake document types whose name differs from the
// registry key.
var documentKeys = map[string]string{
	intake.DocumentMOU: "mou",
	intake.DocumentNDA: "nda",
}

// DocumentKey converts a detected intake document type to a registry key.
// The general type maps to "".
func DocumentKey(documentType string) string {
	if documentType == intake.DocumentGeneral {
		return ""
	}
	if key, ok := documentKeys[documentType]; ok {
		return key
	}
	return documentType
}

func (o *Orchestrator) applyTransformers(ctx context.Context, desc templates.Descriptor, fields map[string]string) error {
	for _, t := range o.transformers {
		if t == nil {
			continue
		}
		if err := t.Transform(ctx, desc, fields); err != nil {
			return fmt.Errorf("orchestrator: transform fields: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		registry, err := templates.NewDefault(templates.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
		}
		o.registry = registry
	}
	if o.validator == nil {
		o.validator = intake.New(intake.WithLogger(o.logger))
	}
	if o.exporter == nil {
		o.exporter = export.New(export.WithLogger(o.logger))
	}
	if o.clock == nil {
		o.clock = templates.SystemClock
	}
}
