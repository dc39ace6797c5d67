package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// Transformer adjusts field values before a document is generated.
// Implementations receive the target descriptor and mutate fields in place.
type Transformer interface {
	Transform(ctx context.Context, desc templates.Descriptor, fields map[string]string) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, desc templates.Descriptor, fields map[string]string) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, desc templates.Descriptor, fields map[string]string) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, desc, fields)
}

// PresetTransformer fills unset fields from a YAML preset document. Common
// values apply to every document type that declares the field; per-document
// values win over common ones. Supplied values are never overwritten.
//
//	common:
//	  witnesses: "1. ____ 2. ____"
//	documents:
//	  rental_agreement:
//	    notice_period: 2 months
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Common    map[string]string            `yaml:"common"`
	Documents map[string]map[string]string `yaml:"documents"`
}

// NewPresetTransformer constructs a transformer from raw YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Documents lists the document names with a dedicated preset block.
func (t *PresetTransformer) Documents() []string {
	names := make([]string, 0, len(t.document.Documents))
	for name := range t.document.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transform fills every declared, unset field of desc from the preset.
// Fields the descriptor does not declare are ignored.
func (t *PresetTransformer) Transform(ctx context.Context, desc templates.Descriptor, fields map[string]string) error {
	if t == nil {
		return errors.New("preset transformer: transformer is nil")
	}
	if fields == nil {
		return errors.New("preset transformer: fields map is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	apply := func(values map[string]string) {
		for name, value := range values {
			if !desc.HasField(name) || strings.TrimSpace(value) == "" {
				continue
			}
			if strings.TrimSpace(fields[name]) != "" {
				continue
			}
			fields[name] = value
		}
	}
	// document values first so common ones only fill what remains
	apply(t.document.Documents[desc.Name])
	apply(t.document.Common)
	return nil
}
