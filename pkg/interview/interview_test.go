package interview_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/interview"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

type fakeDriver struct {
	answers   map[string]string
	choice    int
	asked     []string
	textAreas []string
	info      []string
	failOn    string
	confirms  []interview.ConfirmConfig
	decline   bool
}

func (d *fakeDriver) Input(_ context.Context, cfg interview.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if d.failOn == cfg.Message {
		return "", interview.ErrAborted
	}
	answer := d.answers[cfg.Message]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (d *fakeDriver) Confirm(_ context.Context, cfg interview.ConfirmConfig) (bool, error) {
	d.confirms = append(d.confirms, cfg)
	if d.failOn == cfg.Message {
		return false, interview.ErrAborted
	}
	return !d.decline, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg interview.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.choice, nil
}

func (d *fakeDriver) TextArea(_ context.Context, cfg interview.TextAreaConfig) (string, error) {
	d.textAreas = append(d.textAreas, cfg.Message)
	return d.answers[cfg.Message], nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.info = append(d.info, msg)
	return nil
}

func affidavit() templates.Descriptor {
	return templates.Descriptor{
		Name:           "affidavit",
		DisplayName:    "Affidavit",
		RequiredFields: []string{"deponent_name", "deponent_address", "purpose"},
		OptionalFields: []string{"deponent_age", "statements"},
	}
}

func TestCollect_AsksOnlyMissingRequiredFields(t *testing.T) {
	driver := &fakeDriver{answers: map[string]string{
		"Deponent address": "  12 MG Road  ",
		"Purpose":          "",
	}}
	iv := interview.New(interview.WithDriver(driver))

	got, err := iv.Collect(context.Background(), affidavit(), map[string]string{"deponent_name": "Asha Rao"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := map[string]string{"deponent_name": "Asha Rao", "deponent_address": "12 MG Road"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Deponent address", "Purpose"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if len(driver.info) != 1 || !strings.Contains(driver.info[0], "2 more detail") {
		t.Fatalf("unexpected intro %v", driver.info)
	}
}

func TestCollect_OptionalFieldsUseTextAreaForLists(t *testing.T) {
	driver := &fakeDriver{answers: map[string]string{
		"Statements (optional) (one per line)": "I am the owner.\nThe facts are true.",
	}}
	iv := interview.New(interview.WithDriver(driver), interview.WithOptionalFields(true))

	fields := map[string]string{"deponent_name": "A", "deponent_address": "B", "purpose": "C"}
	got, err := iv.Collect(context.Background(), affidavit(), fields)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got["statements"] != "I am the owner.\nThe facts are true." {
		t.Fatalf("statements not collected: %q", got["statements"])
	}
	if _, ok := got["deponent_age"]; ok {
		t.Fatalf("blank optional answer must not be stored")
	}
	if len(fields) != 3 {
		t.Fatalf("input map mutated: %v", fields)
	}
}

func TestCollect_NothingMissing(t *testing.T) {
	driver := &fakeDriver{}
	iv := interview.New(interview.WithDriver(driver))
	fields := map[string]string{"deponent_name": "A", "deponent_address": "B", "purpose": "C"}
	if _, err := iv.Collect(context.Background(), affidavit(), fields); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(driver.asked) != 0 || len(driver.info) != 0 {
		t.Fatalf("nothing should be asked, got %v %v", driver.asked, driver.info)
	}
}

func TestCollect_AbortAndAmountValidation(t *testing.T) {
	driver := &fakeDriver{failOn: "Purpose"}
	iv := interview.New(interview.WithDriver(driver))
	_, err := iv.Collect(context.Background(), affidavit(), nil)
	if !errors.Is(err, interview.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	rent := templates.Descriptor{Name: "rental_agreement", DisplayName: "Rental Agreement", RequiredFields: []string{"rent_amount"}}
	driver = &fakeDriver{answers: map[string]string{"Rent amount": "about ten thousand"}}
	iv = interview.New(interview.WithDriver(driver))
	if _, err := iv.Collect(context.Background(), rent, nil); err == nil {
		t.Fatalf("expected amount validation error")
	}

	driver = &fakeDriver{answers: map[string]string{"Rent amount": "Rs. 25,000/-"}}
	iv = interview.New(interview.WithDriver(driver))
	got, err := iv.Collect(context.Background(), rent, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got["rent_amount"] != "Rs. 25,000/-" {
		t.Fatalf("unexpected rent %q", got["rent_amount"])
	}
}

func TestChooseDocument(t *testing.T) {
	infos := []templates.Info{
		{Key: "affidavit", DisplayName: "Affidavit", Description: "Sworn statement"},
		{Key: "nda", DisplayName: "Non-Disclosure Agreement", Description: "Confidentiality"},
	}
	driver := &fakeDriver{choice: 1}
	iv := interview.New(interview.WithDriver(driver))

	key, err := iv.ChooseDocument(context.Background(), infos)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if key != "nda" {
		t.Fatalf("expected nda, got %q", key)
	}

	if _, err := iv.ChooseDocument(context.Background(), nil); !errors.Is(err, interview.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"rent_amount":   "Rent amount",
		"poa_type":      "Poa type",
		"landlord_name": "Landlord name",
		"x":             "X",
	}
	for in, want := range cases {
		if got := interview.Label(in); got != want {
			t.Fatalf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfirmExport(t *testing.T) {
	driver := &fakeDriver{}
	iv := interview.New(interview.WithDriver(driver))

	ok, err := iv.ConfirmExport(context.Background(), affidavit(), nil, []string{"pdf", "docx"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !ok {
		t.Fatalf("expected confirmation")
	}
	if len(driver.confirms) != 1 {
		t.Fatalf("expected one confirm prompt, got %d", len(driver.confirms))
	}
	got := driver.confirms[0]
	if got.Message != "Export Affidavit as pdf, docx?" || !got.Default || got.Help != "" {
		t.Fatalf("unexpected prompt: %+v", got)
	}
}

func TestConfirmExport_NamesPlaceholders(t *testing.T) {
	driver := &fakeDriver{decline: true}
	iv := interview.New(interview.WithDriver(driver))

	ok, err := iv.ConfirmExport(context.Background(), affidavit(), []string{"deponent_address", "purpose"}, []string{"txt"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ok {
		t.Fatalf("expected decline to be reported")
	}
	got := driver.confirms[0]
	if got.Message != "Export Affidavit as txt with 2 placeholder(s)?" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.Help != "Still shown as placeholders: Deponent address, Purpose" {
		t.Fatalf("unexpected help %q", got.Help)
	}
}

func TestConfirmExport_Errors(t *testing.T) {
	driver := &fakeDriver{failOn: "Export Affidavit as pdf?"}
	iv := interview.New(interview.WithDriver(driver))

	if _, err := iv.ConfirmExport(context.Background(), affidavit(), nil, []string{"pdf"}); !errors.Is(err, interview.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	ok, err := iv.ConfirmExport(context.Background(), affidavit(), nil, nil)
	if err != nil || ok {
		t.Fatalf("expected no prompt without formats, got %v %v", ok, err)
	}
	if len(driver.confirms) != 1 {
		t.Fatalf("prompted without formats")
	}
}
