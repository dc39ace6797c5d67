package intake

import "regexp"

// DefaultEntityCap bounds how many matches each entity category keeps.
const DefaultEntityCap = 5

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:` + monthNames + `)\s+\d{4}`),
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Rs\.?|₹|INR)\s*[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d{2})?\s*(?:rupees|lakhs?|crores?)`),
}

// Entities holds the dates and amounts found in a request.
type Entities struct {
	Dates   []string `json:"dates,omitempty"`
	Amounts []string `json:"amounts,omitempty"`
}

// Empty reports whether nothing was found.
func (e Entities) Empty() bool {
	return len(e.Dates) == 0 && len(e.Amounts) == 0
}

func (e Entities) clone() Entities {
	return Entities{
		Dates:   append([]string(nil), e.Dates...),
		Amounts: append([]string(nil), e.Amounts...),
	}
}

// ExtractEntities collects matches per category, pattern by pattern, keeping
// the first limit of each. A limit below one uses DefaultEntityCap.
func ExtractEntities(text string, limit int) Entities {
	if limit < 1 {
		limit = DefaultEntityCap
	}
	return Entities{
		Dates:   findCapped(datePatterns, text, limit),
		Amounts: findCapped(amountPatterns, text, limit),
	}
}

func findCapped(patterns []*regexp.Regexp, text string, limit int) []string {
	var out []string
	for _, pattern := range patterns {
		remaining := limit - len(out)
		if remaining <= 0 {
			break
		}
		out = append(out, pattern.FindAllString(text, remaining)...)
	}
	return out
}
