package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/numwords"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// ListFields are collected with a multi-line prompt, one item per line.
var ListFields = map[string]bool{
	"statements":    true,
	"beneficiaries": true,
	"partners":      true,
	"assets":        true,
}

// AmountFields must parse as a rupee amount when a value is given.
var AmountFields = map[string]bool{
	"rent_amount":      true,
	"security_deposit": true,
	"salary":           true,
	"sale_price":       true,
}

// Interviewer asks for the field values a document still needs.
type Interviewer struct {
	driver   PromptDriver
	optional bool
	logger   *slog.Logger
}

// Option configures an Interviewer.
type Option func(*Interviewer)

// WithDriver replaces the survey driver.
func WithDriver(driver PromptDriver) Option {
	return func(i *Interviewer) {
		if driver != nil {
			i.driver = driver
		}
	}
}

// WithOptionalFields also asks for unset optional fields. Blank answers keep
// the catalog default.
func WithOptionalFields(enabled bool) Option {
	return func(i *Interviewer) {
		i.optional = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interviewer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New builds an Interviewer using survey on the terminal by default.
func New(options ...Option) *Interviewer {
	i := &Interviewer{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	if i.driver == nil {
		i.driver = NewSurveyDriver(nil)
	}
	return i
}

// ChooseDocument asks the user to pick one of the listed document types and
// returns its key.
func (i *Interviewer) ChooseDocument(ctx context.Context, infos []templates.Info) (string, error) {
	if len(infos) == 0 {
		return "", ErrNoDocuments
	}
	options := make([]string, len(infos))
	for idx, info := range infos {
		options[idx] = fmt.Sprintf("%s - %s", info.DisplayName, info.Description)
	}
	choice, err := i.driver.Select(ctx, SelectConfig{
		Message:  "Which document do you need?",
		Options:  options,
		PageSize: 12,
	})
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(infos) {
		return "", fmt.Errorf("interview: invalid choice %d", choice)
	}
	return infos[choice].Key, nil
}

// Collect returns fields completed with answers for every required field that
// has no value. Supplied values are never asked for again.
func (i *Interviewer) Collect(ctx context.Context, desc templates.Descriptor, fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	var pending []string
	for _, name := range desc.RequiredFields {
		if strings.TrimSpace(out[name]) == "" {
			pending = append(pending, name)
		}
	}
	required := len(pending)
	if i.optional {
		for _, name := range desc.OptionalFields {
			if strings.TrimSpace(out[name]) == "" {
				pending = append(pending, name)
			}
		}
	}
	if len(pending) == 0 {
		return out, nil
	}

	intro := fmt.Sprintf("%s needs %d more detail(s). Leave a field empty to keep its placeholder.", desc.DisplayName, required)
	if err := i.driver.Info(ctx, intro); err != nil {
		return nil, err
	}

	for idx, name := range pending {
		answer, err := i.ask(ctx, name, idx < required)
		if err != nil {
			return nil, fmt.Errorf("interview: field %s: %w", name, err)
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			out[name] = answer
		}
	}
	i.logger.Debug("interview: collected fields", "document", desc.Name, "asked", len(pending))
	return out, nil
}

// ConfirmExport asks before writing the draft in the given formats. Missing
// required fields are named so the user can stop and fill them first.
func (i *Interviewer) ConfirmExport(ctx context.Context, desc templates.Descriptor, missing, formats []string) (bool, error) {
	if len(formats) == 0 {
		return false, nil
	}
	msg := fmt.Sprintf("Export %s as %s?", desc.DisplayName, strings.Join(formats, ", "))
	cfg := ConfirmConfig{Message: msg, Default: true}
	if len(missing) > 0 {
		labels := make([]string, len(missing))
		for idx, name := range missing {
			labels[idx] = Label(name)
		}
		cfg.Help = "Still shown as placeholders: " + strings.Join(labels, ", ")
		cfg.Message = fmt.Sprintf("Export %s as %s with %d placeholder(s)?", desc.DisplayName, strings.Join(formats, ", "), len(missing))
	}
	ok, err := i.driver.Confirm(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("interview: confirm export: %w", err)
	}
	i.logger.Debug("interview: export confirmation", "document", desc.Name, "confirmed", ok)
	return ok, nil
}

func (i *Interviewer) ask(ctx context.Context, name string, required bool) (string, error) {
	label := Label(name)
	if !required {
		label += " (optional)"
	}
	help := "Shown as " + templates.Placeholder(name) + " when left empty."

	if ListFields[name] {
		return i.driver.TextArea(ctx, TextAreaConfig{
			Message: label + " (one per line)",
			Help:    help,
		})
	}

	cfg := InputConfig{Message: label, Help: help}
	if AmountFields[name] {
		cfg.Validator = validateAmount
	}
	return i.driver.Input(ctx, cfg)
}

// Label turns a field name into a prompt label: "rent_amount" → "Rent amount".
func Label(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	if len(words) == 0 {
		return name
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

var errAmount = errors.New("enter an amount such as 25000 or Rs. 25,000/-")

func validateAmount(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, ok := numwords.ParseAmount(value); !ok {
		return errAmount
	}
	return nil
}
