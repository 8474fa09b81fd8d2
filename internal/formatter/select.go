package formatter

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/tordrt/merlindb/internal/schema"
)

// SelectTables resolves glob patterns and exact names against the available
// tables. Globs (*, ?, [...]) match case-sensitively; plain names match
// case-insensitively. The result is sorted and never empty.
func SelectTables(available, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		if len(available) == 0 {
			return nil, &schema.NoTablesMatchedError{Patterns: []string{"*"}, Available: available}
		}
		return sortedCopy(available), nil
	}

	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if isGlob(pattern) {
			matched, err := MatchPattern(available, pattern)
			if err != nil {
				return nil, err
			}
			for _, name := range matched {
				seen[name] = true
			}
			continue
		}
		for _, name := range available {
			if strings.EqualFold(name, pattern) {
				seen[name] = true
			}
		}
	}

	if len(seen) == 0 {
		return nil, &schema.NoTablesMatchedError{Patterns: patterns, Available: available}
	}

	selected := make([]string, 0, len(seen))
	for name := range seen {
		selected = append(selected, name)
	}
	sort.Strings(selected)
	return selected, nil
}

// MatchPattern filters names with one glob pattern, keeping their order.
func MatchPattern(names []string, pattern string) ([]string, error) {
	glob := strings.ReplaceAll(pattern, "[!", "[^")
	var out []string
	for _, name := range names {
		ok, err := path.Match(glob, name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, name)
		}
	}
	return out, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
