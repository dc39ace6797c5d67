package intake_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/intake"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"<script>x</script>hello":              "hello",
		"a\x00b   c\n\td":                       "ab c d",
		`<iframe src="x">text`:                  "text",
		`click javascript:alert(1) here`:        "click alert(1) here",
		`<a onclick="steal()">link</a>`:         `<a "steal()">link</a>`,
		"<SCRIPT type=x>\nbad()\n</SCRIPT>fine": "fine",
		"Cafe\u0301": "Caf\u00e9",
		"I need <script src=//evil.example/x.js> a lease": "I need a lease",
		"rent due </script> monthly":                       "rent due monthly",
	}
	for in, want := range cases {
		got := intake.Sanitize(in)
		if got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
		if strings.Contains(strings.ToLower(got), "<script") {
			t.Fatalf("Sanitize(%q) kept a script tag", in)
		}
	}
}

func TestContainsHarmful(t *testing.T) {
	if !intake.ContainsHarmful(`<object data="x">`) {
		t.Fatalf("expected object tag to be flagged")
	}
	if !intake.ContainsHarmful(`lease <script src="//evil.example/x.js">`) {
		t.Fatalf("expected unclosed script tag to be flagged")
	}
	if intake.ContainsHarmful("The tenant shall pay on time") {
		t.Fatalf("plain text flagged as harmful")
	}
}

func TestCleanField(t *testing.T) {
	cases := map[string]string{
		"<b>Ramesh</b> &amp; <script>alert(1)</script>Sons": "Ramesh & Sons",
		"Asha\n  Vikram   Shah \n":                          "Asha\nVikram Shah",
		"O'Brien <i>Traders</i>":                            "O'Brien Traders",
		"   ":                                               "",
		"Ramesh &lt;script&gt;alert(1)&lt;/script&gt; Kumar": "Ramesh Kumar",
		"&amp;lt;b&amp;gt;Asha&amp;lt;/b&amp;gt;":           "Asha",
	}
	for in, want := range cases {
		got := intake.CleanField(in)
		if got != want {
			t.Fatalf("CleanField(%q) = %q, want %q", in, got, want)
		}
		if strings.Contains(strings.ToLower(got), "<script") {
			t.Fatalf("CleanField(%q) revived a script tag", in)
		}
	}
}

func TestCleanFields(t *testing.T) {
	got := intake.CleanFields(map[string]string{
		"tenant_name": " <em>Suresh</em> ",
		"notes":       "<script>x</script>",
		" ":           "ignored",
	})
	want := map[string]string{"tenant_name": "Suresh"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	rules := []intake.KeywordRule{
		{Label: "first", Keywords: []string{"agreement"}},
		{Label: "second", Keywords: []string{"agreement", "deed"}},
	}
	if got := intake.Classify(rules, "A DEED and an Agreement", "none"); got != "first" {
		t.Fatalf("expected declared order to win, got %q", got)
	}
	if got := intake.Classify(rules, "nothing relevant", "none"); got != "none" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestMissingInfo(t *testing.T) {
	got := intake.MissingInfo("sale deed for the buyer", intake.DocumentSaleDeed)
	want := []string{
		"names of parties involved",
		"relevant dates or time periods",
		"sale price/consideration",
		"property details",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("missing info mismatch (-want +got):\n%s", diff)
	}
}
