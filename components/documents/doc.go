// Package documents provides a small net/http handler that returns the
// registered document types as JSON options for a document picker.
//
// The handler responds to GET and HEAD requests and supports query, category
// and limit parameters. An empty query lists every type unless the empty
// search mode is set to none.
package documents
