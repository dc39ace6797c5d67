package intake

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Sanitize strips NUL bytes, normalises to NFC, collapses whitespace runs to
// single spaces and removes script/iframe/object tags, javascript: URLs and
// inline event handlers. Removal is silent.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = norm.NFC.String(text)
	text = stripHarmful(text)
	return strings.Join(strings.Fields(text), " ")
}

func stripHarmful(text string) string {
	for _, pattern := range harmfulPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}

// ContainsHarmful reports whether any disallowed markup pattern is present.
func ContainsHarmful(text string) bool {
	for _, pattern := range harmfulPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

const maxCleanPasses = 4

var angleBrackets = strings.NewReplacer("<", "", ">", "")

var (
	fieldPolicyOnce sync.Once
	fieldPolicy     *bluemonday.Policy
)

// CleanField prepares a single field value for a template: every markup
// element is dropped, entities are decoded back to text and each line is
// trimmed. Line breaks survive so list fields keep their items.
func CleanField(value string) string {
	value = strings.ReplaceAll(value, "\x00", "")
	value = norm.NFC.String(value)
	if strings.TrimSpace(value) == "" {
		return ""
	}
	// entity-encoded markup decodes into live tags, so repeat until stable
	cleaned, stable := value, false
	for pass := 0; pass < maxCleanPasses && !stable; pass++ {
		next := html.UnescapeString(fieldSanitizer().Sanitize(cleaned))
		stable = next == cleaned
		cleaned = next
	}
	cleaned = stripHarmful(cleaned)
	if !stable {
		cleaned = angleBrackets.Replace(cleaned)
	}

	lines := strings.Split(cleaned, "\n")
	for idx, line := range lines {
		lines[idx] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CleanFields applies CleanField to every value and drops blank results.
func CleanFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if cleaned := CleanField(value); cleaned != "" {
			out[key] = cleaned
		}
	}
	return out
}

func fieldSanitizer() *bluemonday.Policy {
	fieldPolicyOnce.Do(func() {
		fieldPolicy = bluemonday.StrictPolicy()
	})
	return fieldPolicy
}
