package templates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the long date format used inside generated documents.
const DateLayout = "January 02, 2006"

// ErrClockRequired is returned by Generate when no clock is supplied.
var ErrClockRequired = errors.New("templates: clock is required")

// Template is one document type. Implementations are immutable and safe for
// concurrent use; the field values travel with each call.
type Template interface {
	Name() string
	Descriptor() Descriptor
	Structure() []Section
	Generate(fields map[string]string, clock Clock) (string, error)
}

// base carries what every variant shares: its catalog definition and the
// engine that renders its body.
type base struct {
	def    Definition
	engine *Engine
}

func (b base) Name() string { return b.def.Descriptor.Name }

func (b base) Descriptor() Descriptor { return b.def.Descriptor.Clone() }

func (b base) Structure() []Section {
	return append([]Section(nil), b.def.Descriptor.Sections...)
}

func (b base) Generate(fields map[string]string, clock Clock) (string, error) {
	return b.render(fields, clock, nil)
}

// render resolves every declared field (supplied value, catalog default, then
// placeholder), lets the variant adjust the context, and executes the body.
// Fields the descriptor does not declare are ignored.
func (b base) render(fields map[string]string, clock Clock, hook func(ctx map[string]any, now time.Time)) (string, error) {
	if clock == nil {
		return "", ErrClockRequired
	}
	now := clock.Now()
	desc := b.def.Descriptor

	ctx := make(map[string]any, len(desc.RequiredFields)+len(desc.OptionalFields)+8)
	supplied := make(map[string]bool, len(fields))
	for _, name := range desc.RequiredFields {
		ctx[name] = b.value(fields, name, supplied)
	}
	for _, name := range desc.OptionalFields {
		ctx[name] = b.value(fields, name, supplied)
	}

	ctx["has"] = supplied
	ctx["rule"] = strings.Repeat("=", 70)
	ctx["today"] = now.Format(DateLayout)
	ctx["day"] = now.Format("02")
	ctx["month"] = now.Format("January")
	ctx["year"] = now.Format("2006")
	ctx["title"] = strings.ToUpper(desc.DisplayName)

	if hook != nil {
		hook(ctx, now)
	}

	out, err := b.engine.Render(b.def.Body, ctx)
	if err != nil {
		return "", fmt.Errorf("templates: generate %s: %w", desc.Name, err)
	}
	return out, nil
}

func (b base) value(fields map[string]string, name string, supplied map[string]bool) string {
	if value := strings.TrimSpace(fields[name]); value != "" {
		supplied[name] = true
		return value
	}
	if value, ok := b.def.Defaults[name]; ok {
		return value
	}
	return Placeholder(name)
}

// setIfMissing replaces a field that was not supplied.
func setIfMissing(ctx map[string]any, name, value string) {
	if supplied, _ := ctx["has"].(map[string]bool); supplied[name] {
		return
	}
	ctx[name] = value
}

type rentalAgreement struct{ base }

func (t rentalAgreement) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, now time.Time) {
		setIfMissing(ctx, "start_date", now.Format(DateLayout))
		setIfMissing(ctx, "witnesses", "1. ____________________\n2. ____________________")
	})
}

type affidavit struct{ base }

func (t affidavit) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, _ time.Time) {
		setIfMissing(ctx, "statements", "[STATEMENT 1]\n[STATEMENT 2]")
	})
}

type legalNotice struct{ base }

type powerOfAttorney struct{ base }

func (t powerOfAttorney) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, _ time.Time) {
		kind, _ := ctx["poa_type"].(string)
		ctx["title"] = strings.ToUpper(strings.TrimSpace(kind)) + " POWER OF ATTORNEY"
	})
}

type contract struct{ base }

type nonDisclosure struct{ base }

type employmentAgreement struct{ base }

func (t employmentAgreement) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, now time.Time) {
		setIfMissing(ctx, "joining_date", now.Format(DateLayout))
	})
}

type will struct{ base }

func (t will) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, _ time.Time) {
		setIfMissing(ctx, "beneficiaries", "[BENEFICIARY NAME] - [RELATIONSHIP] - [SHARE]")
		setIfMissing(ctx, "assets", "[DESCRIPTION OF MOVABLE AND IMMOVABLE ASSETS]")
	})
}

type partnershipDeed struct{ base }

func (t partnershipDeed) Generate(fields map[string]string, clock Clock) (string, error) {
	return t.render(fields, clock, func(ctx map[string]any, _ time.Time) {
		partners, _ := ctx["partners"].(string)
		ctx["partner_count"] = len(SplitList(partners))
	})
}

type saleDeed struct{ base }

type memorandum struct{ base }

// variants maps canonical catalog names to their Go variant.
var variants = map[string]func(base) Template{
	"rental_agreement":     func(b base) Template { return rentalAgreement{b} },
	"affidavit":            func(b base) Template { return affidavit{b} },
	"legal_notice":         func(b base) Template { return legalNotice{b} },
	"power_of_attorney":    func(b base) Template { return powerOfAttorney{b} },
	"contract":             func(b base) Template { return contract{b} },
	"nda":                  func(b base) Template { return nonDisclosure{b} },
	"employment_agreement": func(b base) Template { return employmentAgreement{b} },
	"will":                 func(b base) Template { return will{b} },
	"partnership_deed":     func(b base) Template { return partnershipDeed{b} },
	"sale_deed":            func(b base) Template { return saleDeed{b} },
	"mou":                  func(b base) Template { return memorandum{b} },
}

// Instance binds a template to a set of field values.
type Instance struct {
	template Template
	fields   map[string]string
}

// NewInstance copies fields and binds them to tmpl.
func NewInstance(tmpl Template, fields map[string]string) *Instance {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Instance{template: tmpl, fields: copied}
}

// Name returns the canonical template name.
func (i *Instance) Name() string { return i.template.Name() }

// Descriptor returns a copy of the template descriptor.
func (i *Instance) Descriptor() Descriptor { return i.template.Descriptor() }

// Fields returns a copy of the bound values.
func (i *Instance) Fields() map[string]string {
	out := make(map[string]string, len(i.fields))
	for k, v := range i.fields {
		out[k] = v
	}
	return out
}

// Missing lists required fields without a non-blank value, in declared order.
func (i *Instance) Missing() []string {
	var missing []string
	for _, name := range i.template.Descriptor().RequiredFields {
		if strings.TrimSpace(i.fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Generate renders the document text. Missing fields become placeholders,
// never errors; the output depends only on the fields and the clock.
func (i *Instance) Generate(clock Clock) (string, error) {
	return i.template.Generate(i.fields, clock)
}

// Structure returns the section map regardless of field values.
func (i *Instance) Structure() []Section {
	return i.template.Structure()
}

// Outline renders the numbered section list.
func (i *Instance) Outline() string {
	var b strings.Builder
	for _, section := range Outline(i.Structure()) {
		b.WriteString(section.Text())
	}
	return b.String()
}
