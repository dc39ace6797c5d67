package layout_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/layout"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		line string
		want layout.Role
	}{
		{line: strings.Repeat("=", 20), want: layout.RoleSectionBreak},
		{line: "  -----  ", want: layout.RoleSectionBreak},
		{line: "1. Hello", want: layout.RoleNumberedClause},
		{line: "12) Hello", want: layout.RoleNumberedClause},
		{line: "IV. Powers of the attorney", want: layout.RoleNumberedClause},
		{line: "ii. second clause", want: layout.RoleNumberedClause},
		{line: "a) Hello", want: layout.RoleSubItem},
		{line: "   b. indented item", want: layout.RoleSubItem},
		{line: "(c) bracketed item", want: layout.RoleSubItem},
		{line: "• bullet", want: layout.RoleSubItem},
		{line: "-- dash bullet", want: layout.RoleSubItem},
		{line: "SECTION ONE", want: layout.RoleHeading},
		{line: "1. PROPERTY DETAILS", want: layout.RoleHeading},
		{line: "NON-DISCLOSURE AGREEMENT", want: layout.RoleHeading},
		{line: "", want: layout.RoleBlank},
		{line: " \t ", want: layout.RoleBlank},
		{line: "ABC", want: layout.RoleParagraph},
		{line: "5 lakh paid in advance", want: layout.RoleParagraph},
		{line: "12/03/2024 is the start date", want: layout.RoleParagraph},
		{line: "=====-", want: layout.RoleParagraph},
		{line: "WHEREAS the parties agree", want: layout.RoleParagraph},
	}
	for _, tc := range cases {
		if got := layout.Classify(tc.line); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.line, got, tc.want)
		}
	}
}

func TestRules_Order(t *testing.T) {
	var names []string
	for _, rule := range layout.Rules {
		names = append(names, rule.Name)
	}
	want := []string{"blank", "section_break", "heading", "numbered_clause", "sub_item"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyText(t *testing.T) {
	got := layout.ClassifyText("TITLE HERE\r\n\n  1. First clause  \na) sub")
	want := []layout.Line{
		{Role: layout.RoleHeading, Text: "TITLE HERE"},
		{Role: layout.RoleBlank, Text: ""},
		{Role: layout.RoleNumberedClause, Text: "1. First clause"},
		{Role: layout.RoleSubItem, Text: "a) sub"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}
