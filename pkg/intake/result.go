package intake

// Info is the structured data extracted from valid input.
type Info struct {
	Domain       string
	DocumentType string
	Entities     Entities
}

// Map renders Info with the external key names: detectedDomain,
// detectedDocumentType and entities. Empty values are omitted.
func (i Info) Map() map[string]any {
	out := make(map[string]any, 3)
	if i.Domain != "" {
		out["detectedDomain"] = i.Domain
	}
	if i.DocumentType != "" {
		out["detectedDocumentType"] = i.DocumentType
	}
	if !i.Entities.Empty() {
		entities := make(map[string][]string, 2)
		if len(i.Entities.Dates) > 0 {
			entities["dates"] = append([]string(nil), i.Entities.Dates...)
		}
		if len(i.Entities.Amounts) > 0 {
			entities["amounts"] = append([]string(nil), i.Entities.Amounts...)
		}
		out["entities"] = entities
	}
	return out
}

// Result is the outcome of Validate. It is immutable; accessors return
// copies.
type Result struct {
	valid        bool
	message      string
	warnings     []string
	sanitized    string
	hasSanitized bool
	info         Info
}

// Valid reports whether the input may proceed.
func (r Result) Valid() bool { return r.valid }

// Message is the user-facing summary.
func (r Result) Message() string { return r.message }

// Warnings are advisory notes that never affect validity.
func (r Result) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// SanitizedInput returns the cleaned text when the pipeline got far enough to
// produce it.
func (r Result) SanitizedInput() (string, bool) {
	return r.sanitized, r.hasSanitized
}

// Info returns a copy of the extracted data.
func (r Result) Info() Info {
	info := r.info
	info.Entities = r.info.Entities.clone()
	return info
}
