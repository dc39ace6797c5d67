package layout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role is the layout category of one line of canonical text.
type Role int

const (
	RoleParagraph Role = iota
	RoleTitle
	RoleSectionBreak
	RoleHeading
	RoleNumberedClause
	RoleSubItem
	RoleBlank
)

var roleNames = map[Role]string{
	RoleParagraph:      "paragraph",
	RoleTitle:          "title",
	RoleSectionBreak:   "section_break",
	RoleHeading:        "heading",
	RoleNumberedClause: "numbered_clause",
	RoleSubItem:        "sub_item",
	RoleBlank:          "blank",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Rule assigns Role to lines accepted by Match. Match receives the line with
// surrounding whitespace removed.
type Rule struct {
	Name  string
	Match func(trimmed string) bool
	Role  Role
}

var (
	numberedPattern = regexp.MustCompile(`^(?:\d+|[IVX]+|[ivx]+)[.)]`)
	subItemPattern  = regexp.MustCompile(`^(?:[a-z][.)]|\([a-z]\)|[•\-*])`)
)

// Rules is evaluated top to bottom and the first match wins. Paragraph is the
// fallback, so classification is total.
//
// The heading rule looks only at letter case: an upper-case sentence or a
// numbered upper-case line ("1. PROPERTY DETAILS") is a heading, and a line
// starting with a number ("5 lakh paid") is a paragraph unless the number is
// followed by "." or ")". Documents rely on this, so it is kept as is.
var Rules = []Rule{
	{Name: "blank", Role: RoleBlank, Match: func(s string) bool { return s == "" }},
	{Name: "section_break", Role: RoleSectionBreak, Match: isSectionBreak},
	{Name: "heading", Role: RoleHeading, Match: isHeading},
	{Name: "numbered_clause", Role: RoleNumberedClause, Match: numberedPattern.MatchString},
	{Name: "sub_item", Role: RoleSubItem, Match: subItemPattern.MatchString},
}

// Classify returns the role of a single line.
func Classify(line string) Role {
	trimmed := strings.TrimSpace(line)
	for _, rule := range Rules {
		if rule.Match(trimmed) {
			return rule.Role
		}
	}
	return RoleParagraph
}

// Line is a classified line of canonical text.
type Line struct {
	Role Role
	Text string
}

// ClassifyText splits text on newlines and classifies each line. Text is
// stored trimmed.
func ClassifyText(text string) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, Line{Role: Classify(line), Text: strings.TrimSpace(line)})
	}
	return lines
}

func isSectionBreak(s string) bool {
	if utf8.RuneCountInString(s) < 5 {
		return false
	}
	first := s[0]
	if first != '=' && first != '-' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

// isHeading reports whether s has more than three characters, at least one
// letter and no lower-case letters.
func isHeading(s string) bool {
	if utf8.RuneCountInString(s) <= 3 {
		return false
	}
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
