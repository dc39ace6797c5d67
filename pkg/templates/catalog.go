package templates

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one catalog entry: the descriptor plus the data the variant
// needs to render it.
type Definition struct {
	Descriptor Descriptor
	Body       string
	Aliases    []string
	Defaults   map[string]string
}

// Catalog is the parsed set of definitions, keyed by canonical name.
type Catalog struct {
	definitions map[string]Definition
}

// LoadCatalog walks fsys and parses every YAML catalog file. Duplicate names,
// empty field names and fields declared both required and optional are
// rejected. A nil fsys yields an empty catalog.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{definitions: make(map[string]Definition)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", path, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("templates: catalog file %s is empty", path)
		}

		var doc catalogFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("templates: parse %s: %w", path, err)
		}

		for rawName, raw := range doc.Templates {
			name := strings.TrimSpace(rawName)
			if name == "" {
				return fmt.Errorf("templates: file %s defines an empty template name", path)
			}
			if _, exists := catalog.definitions[name]; exists {
				return fmt.Errorf("templates: duplicate template %q (file %s)", name, path)
			}
			def, err := normaliseDefinition(name, raw, path)
			if err != nil {
				return err
			}
			catalog.definitions[name] = def
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Definition returns the entry for name.
func (c *Catalog) Definition(name string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.definitions[name]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Names lists canonical names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.definitions)
}

type catalogFile struct {
	Templates map[string]definitionFile `yaml:"templates"`
}

type definitionFile struct {
	DisplayName string            `yaml:"displayName"`
	Description string            `yaml:"description"`
	Category    string            `yaml:"category"`
	Body        string            `yaml:"body"`
	Aliases     []string          `yaml:"aliases"`
	Required    []string          `yaml:"required"`
	Optional    []string          `yaml:"optional"`
	Defaults    map[string]string `yaml:"defaults"`
	Sections    []Section         `yaml:"sections"`
}

func normaliseDefinition(name string, raw definitionFile, source string) (Definition, error) {
	required, err := normaliseFields(raw.Required, name, source)
	if err != nil {
		return Definition{}, err
	}
	optional, err := normaliseFields(raw.Optional, name, source)
	if err != nil {
		return Definition{}, err
	}
	for _, field := range optional {
		if contains(required, field) {
			return Definition{}, fmt.Errorf("templates: template %q (file %s) declares %q both required and optional", name, source, field)
		}
	}

	defaults := make(map[string]string, len(raw.Defaults))
	for key, value := range raw.Defaults {
		key = strings.TrimSpace(key)
		if contains(required, key) {
			return Definition{}, fmt.Errorf("templates: template %q (file %s) sets a default for required field %q", name, source, key)
		}
		if !contains(optional, key) {
			return Definition{}, fmt.Errorf("templates: template %q (file %s) sets a default for undeclared field %q", name, source, key)
		}
		defaults[key] = value
	}

	sections := make([]Section, 0, len(raw.Sections))
	for idx, section := range raw.Sections {
		key := strings.TrimSpace(section.Key)
		if key == "" {
			return Definition{}, fmt.Errorf("templates: template %q (file %s) section %d has no key", name, source, idx)
		}
		sections = append(sections, Section{Key: key, Title: strings.TrimSpace(section.Title)})
	}

	body := strings.TrimSpace(raw.Body)
	if body == "" {
		body = name
	}

	var aliases []string
	for _, alias := range raw.Aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			aliases = append(aliases, alias)
		}
	}

	return Definition{
		Descriptor: Descriptor{
			Name:           name,
			DisplayName:    strings.TrimSpace(raw.DisplayName),
			Description:    strings.TrimSpace(raw.Description),
			Category:       strings.TrimSpace(raw.Category),
			RequiredFields: required,
			OptionalFields: optional,
			Sections:       sections,
		},
		Body:     body,
		Aliases:  aliases,
		Defaults: defaults,
	}, nil
}

func normaliseFields(fields []string, name, source string) ([]string, error) {
	out := make([]string, 0, len(fields))
	for idx, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("templates: template %q (file %s) has an empty field at index %d", name, source, idx)
		}
		if contains(out, field) {
			return nil, fmt.Errorf("templates: template %q (file %s) lists field %q twice", name, source, field)
		}
		out = append(out, field)
	}
	return out, nil
}

func (d Definition) clone() Definition {
	out := d
	out.Descriptor = d.Descriptor.Clone()
	out.Aliases = append([]string(nil), d.Aliases...)
	if len(d.Defaults) > 0 {
		out.Defaults = make(map[string]string, len(d.Defaults))
		for k, v := range d.Defaults {
			out.Defaults[k] = v
		}
	}
	return out
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
