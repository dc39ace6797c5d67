package templates

import (
	"fmt"
	"strings"
)

// Section is one entry of a document's section map.
type Section struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
}

// Descriptor describes a document type. Values returned by this package are
// copies; mutating them never affects a registered template.
type Descriptor struct {
	Name           string    `json:"name"`
	DisplayName    string    `json:"displayName"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	RequiredFields []string  `json:"requiredFields"`
	OptionalFields []string  `json:"optionalFields"`
	Sections       []Section `json:"sections"`
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	d.RequiredFields = append([]string(nil), d.RequiredFields...)
	d.OptionalFields = append([]string(nil), d.OptionalFields...)
	d.Sections = append([]Section(nil), d.Sections...)
	return d
}

// HasField reports whether name is declared as required or optional.
func (d Descriptor) HasField(name string) bool {
	for _, field := range d.RequiredFields {
		if field == name {
			return true
		}
	}
	for _, field := range d.OptionalFields {
		if field == name {
			return true
		}
	}
	return false
}

// Placeholder returns the visible marker used when a field has no value:
// the field name upper-cased with underscores as spaces, in brackets.
func Placeholder(field string) string {
	name := strings.TrimSpace(field)
	name = strings.ReplaceAll(name, "_", " ")
	return "[" + strings.ToUpper(name) + "]"
}

// DocumentSection is a numbered block of text with optional subsections. It
// renders outlines and summaries of a document's structure.
type DocumentSection struct {
	Number      string
	Title       string
	Content     string
	Subsections []DocumentSection
}

// Text renders the section, its content indented by three spaces, followed by
// each subsection.
func (s DocumentSection) Text() string {
	var b strings.Builder
	heading := s.Title
	if s.Number != "" {
		heading = fmt.Sprintf("%s. %s", s.Number, s.Title)
	}
	b.WriteString(heading)
	b.WriteString("\n")
	if content := strings.TrimSpace(s.Content); content != "" {
		for _, line := range strings.Split(content, "\n") {
			b.WriteString("   ")
			b.WriteString(strings.TrimSpace(line))
			b.WriteString("\n")
		}
	}
	for _, sub := range s.Subsections {
		b.WriteString("\n")
		b.WriteString(sub.Text())
	}
	return b.String()
}

// Outline numbers the sections of a structure as DocumentSections.
func Outline(sections []Section) []DocumentSection {
	out := make([]DocumentSection, 0, len(sections))
	for idx, section := range sections {
		out = append(out, DocumentSection{
			Number: fmt.Sprintf("%d", idx+1),
			Title:  section.Title,
		})
	}
	return out
}
