package documents

import (
	"sort"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// Option is one picker entry. AliasOf names the canonical type when Value is
// an alias key.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	AliasOf     string `json:"aliasOf,omitempty"`
}

// Search filters infos by a case-insensitive query over key, display name and
// description, and by exact category. Matches on the key or display name
// prefix rank first; ties sort by key.
func Search(infos []templates.Info, query, category string, limit int, opts Options) []templates.Info {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	category = strings.ToLower(strings.TrimSpace(category))
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && opts.EmptySearchMode != EmptySearchAll {
		return nil
	}

	matches := make([]matchedDocument, 0, len(infos))
	for _, info := range infos {
		if !opts.IncludeAliases && info.Key != info.Name {
			continue
		}
		if category != "" && strings.ToLower(info.Category) != category {
			continue
		}
		key := strings.ToLower(info.Key)
		label := strings.ToLower(info.DisplayName)
		if query != "" && !strings.Contains(key, query) && !strings.Contains(label, query) &&
			!strings.Contains(strings.ToLower(info.Description), query) {
			continue
		}
		matches = append(matches, matchedDocument{
			info:     info,
			isPrefix: query != "" && (strings.HasPrefix(key, query) || strings.HasPrefix(label, query)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].info.Key < matches[j].info.Key
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]templates.Info, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.info)
	}
	return out
}

func SearchOptions(infos []templates.Info, query, category string, limit int, opts Options) []Option {
	results := Search(infos, query, category, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, info := range results {
		option := Option{
			Value:       info.Key,
			Label:       info.DisplayName,
			Description: info.Description,
			Category:    info.Category,
		}
		if info.Key != info.Name {
			option.AliasOf = info.Name
		}
		out = append(out, option)
	}
	return out
}

type matchedDocument struct {
	info     templates.Info
	isPrefix bool
}
