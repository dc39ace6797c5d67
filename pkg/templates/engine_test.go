package templates_test

import (
	"fmt"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/templates"
)

func TestEngine_Filters(t *testing.T) {
	engine, err := templates.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	cases := []struct {
		body string
		data map[string]any
		want string
	}{
		{body: "{{ v|inwords }}", data: map[string]any{"v": "1,50,000"}, want: "Rupees One Lakh Fifty Thousand Only"},
		{body: "{{ v|inwords }}", data: map[string]any{"v": "[SALARY]"}, want: "Rupees [SALARY] Only"},
		{body: "{{ v|numbered:2 }}", data: map[string]any{"v": "- first\n\n* second"}, want: "  1. first\n  2. second"},
		{body: "{% autoescape off %}{{ v }}{% endautoescape %}", data: map[string]any{"v": "A & B <Ltd>"}, want: "A & B <Ltd>"},
	}
	for _, tc := range cases {
		got, err := engine.RenderString(tc.body, tc.data)
		if err != nil {
			t.Fatalf("render %q: %v", tc.body, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("render %q mismatch (-want +got):\n%s", tc.body, diff)
		}
	}
}

func TestNewEngine_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine, err := templates.NewEngine()
			if err != nil {
				errs <- err
				return
			}
			got, err := engine.RenderString("{{ v|inwords }}", map[string]any{"v": "100"})
			if err == nil && got != "Rupees One Hundred Only" {
				err = fmt.Errorf("unexpected render %q", got)
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent engine: %v", err)
	}
}

func TestEngine_CustomBodies(t *testing.T) {
	engine, err := templates.NewEngine(
		templates.WithBodies(fstest.MapFS{"greeting.txt": {Data: []byte("Hello {{ name }} from {{ city }}")}}),
		templates.WithExtension("txt"),
		templates.WithGlobals(map[string]any{"city": "Pune"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.Render("greeting", map[string]any{"name": "Asha"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Asha from Pune" {
		t.Fatalf("unexpected output %q", got)
	}
	if err := engine.Compile("missing"); err == nil {
		t.Fatalf("expected error compiling a missing body")
	}
}

func TestSplitList(t *testing.T) {
	cases := map[string][]string{
		"":                   nil,
		"one":                {"one"},
		"a; b ;c":            {"a", "b", "c"},
		"• a\n\n- b; still b": {"a", "b; still b"},
	}
	for in, want := range cases {
		if diff := cmp.Diff(want, templates.SplitList(in)); diff != "" {
			t.Fatalf("SplitList(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestHasUnresolvedSyntax(t *testing.T) {
	if !templates.HasUnresolvedSyntax("Dear {{ name }}") {
		t.Fatalf("expected variable markers to be detected")
	}
	if !templates.HasUnresolvedSyntax("{% if x %}") {
		t.Fatalf("expected tag markers to be detected")
	}
	if templates.HasUnresolvedSyntax("[RENT AMOUNT] {curly}") {
		t.Fatalf("plain braces are not template syntax")
	}
}
