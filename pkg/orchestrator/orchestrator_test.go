package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/interview"
	"github.com/goliatone/go-legaldocs/pkg/intake"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/templates"
	"github.com/goliatone/go-legaldocs/pkg/testsupport"
)

var _ orchestrator.Interviewer = (*interview.Interviewer)(nil)

type fakeInterviewer struct {
	choice    string
	chooseErr error
	answers   map[string]string
	collected []string
	offered   int
	decline   bool
	confirmed [][]string
}

func (f *fakeInterviewer) ChooseDocument(_ context.Context, infos []templates.Info) (string, error) {
	f.offered = len(infos)
	if f.chooseErr != nil {
		return "", f.chooseErr
	}
	return f.choice, nil
}

func (f *fakeInterviewer) Collect(_ context.Context, desc templates.Descriptor, fields map[string]string) (map[string]string, error) {
	f.collected = append(f.collected, desc.Name)
	out := make(map[string]string, len(fields)+len(f.answers))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range f.answers {
		if out[k] == "" {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeInterviewer) ConfirmExport(_ context.Context, _ templates.Descriptor, missing, _ []string) (bool, error) {
	f.confirmed = append(f.confirmed, missing)
	return !f.decline, nil
}

func newOrchestrator(t *testing.T, opts ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	exporter, _ := testsupport.Exporter(t)
	base := []orchestrator.Option{
		orchestrator.WithRegistry(testsupport.Registry(t)),
		orchestrator.WithExporter(exporter),
		orchestrator.WithClock(testsupport.Clock()),
		orchestrator.WithLogger(testsupport.DiscardLogger()),
	}
	return orchestrator.New(append(base, opts...)...)
}

func TestDraft_DetectsTypeFromRequest(t *testing.T) {
	orch := newOrchestrator(t)

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{
		Text: "I need a rental agreement for my flat in Pune please",
		Fields: map[string]string{
			"landlord_name": "Asha Rao",
			"tenant_name":   "Vikram <b>Shah</b>",
			"rent_amount":   "25000",
		},
	})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.Key != "rental_agreement" || draft.Descriptor.Name != "rental_agreement" {
		t.Fatalf("unexpected key %q / %q", draft.Key, draft.Descriptor.Name)
	}
	if draft.Validation == nil || !draft.Validation.Valid() {
		t.Fatalf("expected a valid validation result")
	}
	if draft.Fields["tenant_name"] != "Vikram Shah" {
		t.Fatalf("fields not cleaned: %q", draft.Fields["tenant_name"])
	}
	want := []string{"property_address", "security_deposit", "agreement_duration"}
	if diff := cmp.Diff(want, draft.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	for _, fragment := range []string{"Asha Rao", "Vikram Shah", "[PROPERTY ADDRESS]"} {
		if !strings.Contains(draft.Text, fragment) {
			t.Fatalf("expected %q in text:\n%s", fragment, draft.Text)
		}
	}
	if draft.Export != nil {
		t.Fatalf("no formats requested, export must be nil")
	}
}

func TestDraft_ExplicitTypeWithoutText(t *testing.T) {
	orch := newOrchestrator(t)

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{DocumentType: "poa"})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.Validation != nil {
		t.Fatalf("no text, validation must be skipped")
	}
	if draft.Descriptor.Name != "power_of_attorney" {
		t.Fatalf("alias not resolved: %q", draft.Descriptor.Name)
	}
	if len(draft.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", draft.Warnings())
	}
}

func TestDraft_RequiresTextOrType(t *testing.T) {
	orch := newOrchestrator(t)
	if _, err := orch.Draft(testsupport.Context(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error for empty request")
	}
}

func TestDraft_RejectedRequest(t *testing.T) {
	orch := newOrchestrator(t)

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{Text: "need a will"})
	if !errors.Is(err, orchestrator.ErrRequestRejected) {
		t.Fatalf("expected ErrRequestRejected, got %v", err)
	}
	var rejected *orchestrator.RejectedError
	if !errors.As(err, &rejected) || rejected.Message == "" {
		t.Fatalf("expected RejectedError with a message, got %v", err)
	}
	if draft == nil || draft.Validation == nil || draft.Validation.Valid() {
		t.Fatalf("expected the failing validation on the draft")
	}
	if draft.Text != "" {
		t.Fatalf("rejected request must not generate text")
	}
}

func TestDraft_GeneralRequestNeedsChoice(t *testing.T) {
	text := "Help me with some paperwork for my bicycle club registration"

	orch := newOrchestrator(t)
	_, err := orch.Draft(testsupport.Context(), orchestrator.Request{Text: text})
	if !errors.Is(err, orchestrator.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	interviewer := &fakeInterviewer{choice: "mou"}
	orch = newOrchestrator(t, orchestrator.WithInterviewer(interviewer))
	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{Text: text, Interactive: true})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.Descriptor.Name != "mou" {
		t.Fatalf("expected chosen mou, got %q", draft.Descriptor.Name)
	}
	if interviewer.offered == 0 {
		t.Fatalf("interviewer was not offered any documents")
	}
}

func TestDraft_ChooseDocumentError(t *testing.T) {
	interviewer := &fakeInterviewer{chooseErr: interview.ErrAborted}
	orch := newOrchestrator(t, orchestrator.WithInterviewer(interviewer))

	_, err := orch.Draft(testsupport.Context(), orchestrator.Request{Interactive: true})
	if !errors.Is(err, interview.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestDraft_InteractiveCollectsFields(t *testing.T) {
	interviewer := &fakeInterviewer{answers: map[string]string{
		"deponent_name":    "Meera Iyer",
		"deponent_address": "4 Lake View, Chennai",
		"purpose":          "change of name",
	}}
	orch := newOrchestrator(t, orchestrator.WithInterviewer(interviewer))

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{
		DocumentType: "affidavit",
		Interactive:  true,
	})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if diff := cmp.Diff([]string{"affidavit"}, interviewer.collected); diff != "" {
		t.Fatalf("collect calls mismatch (-want +got):\n%s", diff)
	}
	if len(draft.Missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", draft.Missing)
	}
	if !strings.Contains(draft.Text, "Meera Iyer") {
		t.Fatalf("collected value not rendered:\n%s", draft.Text)
	}
}

func TestDraft_NonInteractiveSkipsInterviewer(t *testing.T) {
	interviewer := &fakeInterviewer{}
	orch := newOrchestrator(t, orchestrator.WithInterviewer(interviewer))

	if _, err := orch.Draft(testsupport.Context(), orchestrator.Request{DocumentType: "will"}); err != nil {
		t.Fatalf("draft: %v", err)
	}
	if len(interviewer.collected) != 0 || interviewer.offered != 0 {
		t.Fatalf("interviewer must not run for non-interactive requests")
	}
}

func TestDraft_Exports(t *testing.T) {
	exporter, fs := testsupport.Exporter(t)
	orch := newOrchestrator(t, orchestrator.WithExporter(exporter))

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{
		Text:     "Prepare an NDA so our product roadmap stays confidential",
		Formats:  []string{"txt", "html"},
		Filename: "roadmap nda",
	})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.Descriptor.Name != "nda" {
		t.Fatalf("expected nda, got %q", draft.Descriptor.Name)
	}
	if draft.Export == nil || !draft.Export.OK() {
		t.Fatalf("expected successful export, got %+v", draft.Export)
	}
	plain, ok := draft.Export.Entry(export.FormatPlain)
	if !ok || plain.Artifact == nil {
		t.Fatalf("plain entry missing")
	}
	if plain.Artifact.Filename != "roadmap_nda.txt" {
		t.Fatalf("unexpected filename %q", plain.Artifact.Filename)
	}
	if _, err := fs.Stat(fs.Join(export.DefaultDirectory, "roadmap_nda.html")); err != nil {
		t.Fatalf("html artifact not written: %v", err)
	}
	html, _ := draft.Export.Entry(export.FormatHTML)
	if !strings.Contains(string(html.Artifact.Data), draft.Descriptor.DisplayName) {
		t.Fatalf("title should default to the display name")
	}
}

func TestDraft_InteractiveExportNeedsConfirmation(t *testing.T) {
	exporter, fs := testsupport.Exporter(t)
	interviewer := &fakeInterviewer{decline: true}
	orch := newOrchestrator(t,
		orchestrator.WithExporter(exporter),
		orchestrator.WithInterviewer(interviewer),
	)

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{
		DocumentType: "affidavit",
		Interactive:  true,
		Formats:      []string{"txt"},
		Filename:     "affidavit",
	})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !draft.ExportDeclined || draft.Export != nil {
		t.Fatalf("declined export must not run, got %+v", draft.Export)
	}
	if diff := cmp.Diff([][]string{draft.Missing}, interviewer.confirmed); diff != "" {
		t.Fatalf("confirm calls mismatch (-want +got):\n%s", diff)
	}
	if _, err := fs.Stat(fs.Join(export.DefaultDirectory, "affidavit.txt")); err == nil {
		t.Fatalf("artifact written after decline")
	}

	interviewer.decline = false
	draft, err = orch.Draft(testsupport.Context(), orchestrator.Request{
		DocumentType: "affidavit",
		Interactive:  true,
		Formats:      []string{"txt"},
		Filename:     "affidavit",
	})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if draft.ExportDeclined || draft.Export == nil || !draft.Export.OK() {
		t.Fatalf("confirmed export should run, got %+v", draft.Export)
	}
}

func TestDraft_TransformersRunBeforeGeneration(t *testing.T) {
	var seen string
	upper := orchestrator.TransformerFunc(func(_ context.Context, desc templates.Descriptor, fields map[string]string) error {
		seen = desc.Name
		fields["purpose"] = "address proof"
		return nil
	})
	orch := newOrchestrator(t, orchestrator.WithTransformers(upper))

	draft, err := orch.Draft(testsupport.Context(), orchestrator.Request{DocumentType: "affidavit"})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if seen != "affidavit" {
		t.Fatalf("transformer saw %q", seen)
	}
	if draft.Fields["purpose"] != "address proof" {
		t.Fatalf("transformer value lost: %v", draft.Fields)
	}
}

func TestDraft_TransformerError(t *testing.T) {
	boom := errors.New("boom")
	failing := orchestrator.TransformerFunc(func(context.Context, templates.Descriptor, map[string]string) error {
		return boom
	})
	orch := newOrchestrator(t, orchestrator.WithTransformers(failing))

	if _, err := orch.Draft(testsupport.Context(), orchestrator.Request{DocumentType: "will"}); !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestDraft_Canceled(t *testing.T) {
	orch := newOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Draft(ctx, orchestrator.Request{DocumentType: "will"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDocumentKey(t *testing.T) {
	cases := map[string]string{
		intake.DocumentMOU:             "mou",
		intake.DocumentNDA:             "nda",
		intake.DocumentGeneral:         "",
		intake.DocumentRentalAgreement: "rental_agreement",
	}
	for in, want := range cases {
		if got := orchestrator.DocumentKey(in); got != want {
			t.Fatalf("DocumentKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDocumentKey_CoversRegistry(t *testing.T) {
	registry := testsupport.Registry(t)
	for _, rule := range intake.DocumentTypes {
		key := orchestrator.DocumentKey(rule.Label)
		if !registry.Has(key) {
			t.Fatalf("detected type %q maps to unregistered key %q", rule.Label, key)
		}
	}
}

func TestDocuments(t *testing.T) {
	orch := newOrchestrator(t)
	infos := orch.Documents()
	if len(infos) != len(orch.Registry().Keys()) {
		t.Fatalf("expected one info per key")
	}
}
