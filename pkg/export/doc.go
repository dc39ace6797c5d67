// Package export writes canonical document text to disk in one or more
// formats.
//
// A Coordinator owns a set of encoders keyed by Format. Export runs every
// requested encoder in its own goroutine and records the outcome in a per
// format Entry, so a failing or missing encoder never affects the others.
// Artifacts are written to a go-billy filesystem; tests use memfs.
//
//	coord := export.New(export.WithDirectory("exports"))
//	res := coord.Export(ctx, export.Request{Text: text, Formats: []string{"all"}})
//	for _, f := range res.Formats() {
//		entry := res.Entries[f]
//		fmt.Println(f, entry.Status, entry.Message)
//	}
package export
