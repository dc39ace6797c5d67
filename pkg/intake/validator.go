package intake

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Kind selects the validation profile.
type Kind int

const (
	// KindQuery is a legal question.
	KindQuery Kind = iota
	// KindDocumentRequest describes a document to draft.
	KindDocumentRequest
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindDocumentRequest:
		return "document_request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Limits are the length thresholds (in characters) and the entity cap.
type Limits struct {
	QueryMin    int `yaml:"query_min"`
	QueryMax    int `yaml:"query_max"`
	DocumentMin int `yaml:"document_min"`
	DocumentMax int `yaml:"document_max"`
	EntityCap   int `yaml:"entity_cap"`
}

// DefaultLimits returns 20/10000 for queries, 30/15000 for document requests
// and an entity cap of 5.
func DefaultLimits() Limits {
	return Limits{
		QueryMin:    20,
		QueryMax:    10000,
		DocumentMin: 30,
		DocumentMax: 15000,
		EntityCap:   DefaultEntityCap,
	}
}

const briefQueryWords = 10

// Option configures a Validator.
type Option func(*Validator)

// WithLimits overrides the thresholds. Zero values keep the defaults.
func WithLimits(limits Limits) Option {
	return func(v *Validator) {
		if limits.QueryMin > 0 {
			v.limits.QueryMin = limits.QueryMin
		}
		if limits.QueryMax > 0 {
			v.limits.QueryMax = limits.QueryMax
		}
		if limits.DocumentMin > 0 {
			v.limits.DocumentMin = limits.DocumentMin
		}
		if limits.DocumentMax > 0 {
			v.limits.DocumentMax = limits.DocumentMax
		}
		if limits.EntityCap > 0 {
			v.limits.EntityCap = limits.EntityCap
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator runs the intake pipeline. It holds configuration only and is safe
// for concurrent use.
type Validator struct {
	limits Limits
	logger *slog.Logger
}

// New creates a Validator with DefaultLimits.
func New(options ...Option) *Validator {
	v := &Validator{limits: DefaultLimits(), logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Limits returns the effective thresholds.
func (v *Validator) Limits() Limits { return v.limits }

var defaultValidator = New()

// Validate runs text through a Validator with default limits.
func Validate(kind Kind, text string) Result {
	return defaultValidator.Validate(kind, text)
}

// Validate applies, in order: the empty check, sanitising, the length limits,
// the harmful content re-check, classification, entity extraction and the
// advisory checks. Only the first four can invalidate the input.
func (v *Validator) Validate(kind Kind, text string) Result {
	rules, ok := v.profile(kind)
	if !ok {
		return Result{message: fmt.Sprintf("Unsupported input kind %s.", kind)}
	}

	if strings.TrimSpace(text) == "" {
		return Result{message: rules.empty}
	}

	sanitized := Sanitize(text)

	var warnings []string
	length := utf8.RuneCountInString(sanitized)
	if length < rules.min {
		return Result{
			message:      rules.short(rules.min),
			sanitized:    sanitized,
			hasSanitized: true,
		}
	}
	if length > rules.max {
		warnings = append(warnings, rules.long(rules.max))
		sanitized = truncateRunes(sanitized, rules.max)
	}

	if ContainsHarmful(sanitized) {
		v.logger.Debug("intake: rejected harmful content", "kind", kind.String())
		return Result{message: rules.harmful}
	}

	info := Info{Entities: ExtractEntities(sanitized, v.limits.EntityCap)}
	switch kind {
	case KindQuery:
		info.Domain = Classify(QueryDomains, sanitized, DomainGeneral)
		if len(strings.Fields(sanitized)) < briefQueryWords {
			warnings = append(warnings, "Your query seems brief. Providing more details will help generate better results.")
		}
	case KindDocumentRequest:
		info.DocumentType = Classify(DocumentTypes, sanitized, DocumentGeneral)
		for _, hint := range MissingInfo(sanitized, info.DocumentType) {
			warnings = append(warnings, "Consider providing: "+hint)
		}
	}

	v.logger.Debug("intake: validated input",
		"kind", kind.String(),
		"domain", info.Domain,
		"document_type", info.DocumentType,
		"warnings", len(warnings),
	)

	return Result{
		valid:        true,
		message:      rules.success,
		warnings:     warnings,
		sanitized:    sanitized,
		hasSanitized: true,
		info:         info,
	}
}

type profile struct {
	min, max int
	empty    string
	short    func(limit int) string
	long     func(limit int) string
	harmful  string
	success  string
}

func (v *Validator) profile(kind Kind) (profile, bool) {
	switch kind {
	case KindQuery:
		return profile{
			min:   v.limits.QueryMin,
			max:   v.limits.QueryMax,
			empty: "Query cannot be empty. Please describe your legal issue.",
			short: func(limit int) string {
				return fmt.Sprintf("Query is too short. Please provide at least %d characters describing your legal issue.", limit)
			},
			long: func(limit int) string {
				return fmt.Sprintf("Query exceeds %d characters and will be truncated.", limit)
			},
			harmful: "Query contains potentially harmful content. Please remove any scripts or code.",
			success: "Query validated successfully.",
		}, true
	case KindDocumentRequest:
		return profile{
			min:   v.limits.DocumentMin,
			max:   v.limits.DocumentMax,
			empty: "Document request cannot be empty. Please describe what document you need.",
			short: func(limit int) string {
				return fmt.Sprintf("Please provide more details (at least %d characters) about the document you need.", limit)
			},
			long: func(int) string {
				return "Request is very long. Key details at the beginning will be prioritized."
			},
			harmful: "Document request contains potentially harmful content. Please remove any scripts or code.",
			success: "Document request validated successfully.",
		}, true
	default:
		return profile{}, false
	}
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for idx := range text {
		if count == limit {
			return text[:idx]
		}
		count++
	}
	return text
}
