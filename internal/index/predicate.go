package index

import (
	"sort"
	"strings"
)

// compilePredicate turns a filter into one parameterized boolean expression
// evaluated row by row inside an annotation table scan:
//
//	(key_id = (SELECT id FROM annotation_key WHERE name = ?) AND value = ?) OR ...
//
// The OR is deliberate. Conjunction over the whole entity is achieved one
// level up by grouping matching rows per entity and comparing the match
// count to the filter size, so one scan answers an AND of any width.
//
// An empty filter compiles to "1=1" and matches every row.
func compilePredicate(filter Filter) (condition string, args []any) {
	if len(filter) == 0 {
		return "1=1", nil
	}

	// Deterministic ordering keeps query text and args stable.
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args = make([]any, 0, 2*len(keys))
	for _, key := range keys {
		parts = append(parts,
			"(key_id = (SELECT id FROM annotation_key WHERE name = ?) AND value = ?)")
		args = append(args, key, filter[key])
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// filterKeys returns the filter's key names, sorted.
func filterKeys(filter Filter) []string {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
