package intake_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/intake"
)

func TestValidate_Empty(t *testing.T) {
	for _, kind := range []intake.Kind{intake.KindQuery, intake.KindDocumentRequest} {
		result := intake.Validate(kind, "  \n\t ")
		if result.Valid() {
			t.Fatalf("%s: expected invalid result", kind)
		}
		if !strings.Contains(result.Message(), "empty") {
			t.Fatalf("%s: message should mention emptiness, got %q", kind, result.Message())
		}
		if _, ok := result.SanitizedInput(); ok {
			t.Fatalf("%s: empty input should not carry sanitized text", kind)
		}
	}
}

func TestValidate_TooShort(t *testing.T) {
	result := intake.Validate(intake.KindDocumentRequest, "  need a   will ")
	if result.Valid() {
		t.Fatalf("expected short request to be invalid")
	}
	if !strings.Contains(result.Message(), "at least 30 characters") {
		t.Fatalf("message should state the minimum, got %q", result.Message())
	}
	sanitized, ok := result.SanitizedInput()
	if !ok || sanitized != "need a will" {
		t.Fatalf("expected sanitized text for inspection, got %q (ok=%v)", sanitized, ok)
	}

	query := intake.Validate(intake.KindQuery, "bail please")
	if query.Valid() || !strings.Contains(query.Message(), "at least 20 characters") {
		t.Fatalf("unexpected query result: %q", query.Message())
	}
}

func TestValidate_QueryDomains(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{query: "My neighbour committed theft of my bicycle and the police refused to register it", want: intake.DomainCriminal},
		{query: "I want to file for divorce and seek custody of my two children in Mumbai", want: intake.DomainFamily},
		{query: "How do I claim a refund for a defective washing machine from the seller", want: intake.DomainConsumer},
		{query: "My landlord refuses to return my security deposit after I vacated", want: intake.DomainProperty},
		{query: "What are the general steps to approach a lawyer for advice", want: intake.DomainGeneral},
	}
	for _, tc := range cases {
		result := intake.Validate(intake.KindQuery, tc.query)
		if !result.Valid() {
			t.Fatalf("%q: expected valid, got %q", tc.query, result.Message())
		}
		if got := result.Info().Domain; got != tc.want {
			t.Fatalf("%q: domain = %q, want %q", tc.query, got, tc.want)
		}
		if result.Info().DocumentType != "" {
			t.Fatalf("queries should not report a document type")
		}
	}
}

func TestValidate_DocumentTypes(t *testing.T) {
	cases := []struct {
		request string
		want    string
	}{
		{request: "Draft a lease agreement with confidentiality terms", want: intake.DocumentRentalAgreement},
		{request: "Prepare an NDA so our product roadmap stays confidential", want: intake.DocumentNDA},
		{request: "Create an employment offer for a software engineer with salary details", want: intake.DocumentEmploymentAgreement},
		{request: "Help me with some paperwork for my bicycle club registration", want: intake.DocumentGeneral},
	}
	for _, tc := range cases {
		result := intake.Validate(intake.KindDocumentRequest, tc.request)
		if !result.Valid() {
			t.Fatalf("%q: expected valid, got %q", tc.request, result.Message())
		}
		if got := result.Info().DocumentType; got != tc.want {
			t.Fatalf("%q: document type = %q, want %q", tc.request, got, tc.want)
		}
	}
}

func TestValidate_StripsScriptsSilently(t *testing.T) {
	result := intake.Validate(intake.KindQuery,
		"<script>alert(1)</script>My landlord refuses to return my security deposit after I vacated")
	if !result.Valid() {
		t.Fatalf("expected valid result, got %q", result.Message())
	}
	sanitized, _ := result.SanitizedInput()
	if strings.Contains(sanitized, "<script") || strings.Contains(sanitized, "alert") {
		t.Fatalf("script survived sanitising: %q", sanitized)
	}
	if len(result.Warnings()) != 0 {
		t.Fatalf("removal must not be reported as a warning: %v", result.Warnings())
	}
}

func TestValidate_HarmfulAfterSanitising(t *testing.T) {
	result := intake.Validate(intake.KindDocumentRequest,
		"javascjavascript:ript: draft a detailed rental agreement for my flat")
	if result.Valid() {
		t.Fatalf("expected nested pattern to be rejected")
	}
	if !strings.Contains(result.Message(), "harmful") {
		t.Fatalf("expected content-safety message, got %q", result.Message())
	}
}

func TestValidate_Truncates(t *testing.T) {
	validator := intake.New(intake.WithLimits(intake.Limits{QueryMax: 60}))
	text := strings.Repeat("₹ bail hearing ", 10)

	result := validator.Validate(intake.KindQuery, text)
	if !result.Valid() {
		t.Fatalf("long input must stay valid, got %q", result.Message())
	}
	sanitized, _ := result.SanitizedInput()
	if got := utf8.RuneCountInString(sanitized); got != 60 {
		t.Fatalf("expected 60 runes after truncation, got %d", got)
	}
	if !utf8.ValidString(sanitized) {
		t.Fatalf("truncation split a rune: %q", sanitized)
	}
	if diff := cmp.Diff([]string{"Query exceeds 60 characters and will be truncated."}, result.Warnings()); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_BriefQueryWarning(t *testing.T) {
	result := intake.Validate(intake.KindQuery, "Is anticipatory bail possible here?")
	if !result.Valid() {
		t.Fatalf("expected valid, got %q", result.Message())
	}
	want := []string{"Your query seems brief. Providing more details will help generate better results."}
	if diff := cmp.Diff(want, result.Warnings()); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_MissingInfoWarnings(t *testing.T) {
	result := intake.Validate(intake.KindDocumentRequest, "I need a rental agreement for my flat in Pune please")
	if !result.Valid() {
		t.Fatalf("warnings must never invalidate, got %q", result.Message())
	}
	want := []string{
		"Consider providing: names of parties involved",
		"Consider providing: relevant dates or time periods",
		"Consider providing: property address",
	}
	if diff := cmp.Diff(want, result.Warnings()); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	complete := intake.Validate(intake.KindDocumentRequest,
		"Rental agreement between Ramesh and Suresh for the premises at MG Road, rent Rs. 25,000 for a duration of 11 months")
	if len(complete.Warnings()) != 0 {
		t.Fatalf("expected no warnings, got %v", complete.Warnings())
	}
	if diff := cmp.Diff([]string{"Rs. 25,000"}, complete.Info().Entities.Amounts); diff != "" {
		t.Fatalf("amounts mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	result := intake.Validate(intake.Kind(42), "some perfectly reasonable text here")
	if result.Valid() {
		t.Fatalf("unknown kind must be invalid")
	}
}

func TestResult_Immutable(t *testing.T) {
	result := intake.Validate(intake.KindQuery, "Bail hearing on 12/03/2024 for theft of Rs. 5,000 worth of goods")
	warnings := result.Warnings()
	if len(warnings) > 0 {
		warnings[0] = "changed"
	}
	info := result.Info()
	info.Entities.Dates[0] = "changed"

	if result.Info().Entities.Dates[0] != "12/03/2024" {
		t.Fatalf("entities mutated through a copy")
	}

	want := map[string]any{
		"detectedDomain": "criminal",
		"entities": map[string][]string{
			"dates":   {"12/03/2024"},
			"amounts": {"Rs. 5,000"},
		},
	}
	if diff := cmp.Diff(want, result.Info().Map()); diff != "" {
		t.Fatalf("info map mismatch (-want +got):\n%s", diff)
	}
}
