// Package diff computes which top-level fields of an editable object changed
// between its last-saved snapshot and the current draft. Editors use the
// result to gate "discard unsaved changes?" prompts.
package diff

import (
	"encoding/json"
	"sort"
)

// Label pairs a field key with its human-readable display label. The slice
// order is the display order of the resulting change list.
type Label struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Changed returns the display labels of every top-level key whose value
// differs between initial and current. Equality is structural: values compare
// equal when their JSON serializations match. A nil initial snapshot means
// nothing has been saved yet, so nothing counts as changed.
//
// Keys present in either snapshot but absent from labels are still reported,
// labeled by their key, after all labeled keys.
func Changed(initial, current map[string]any, labels []Label) []string {
	if initial == nil {
		return nil
	}

	var changed []string
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[l.Key] = true
		if differs(initial[l.Key], current[l.Key]) {
			name := l.Label
			if name == "" {
				name = l.Key
			}
			changed = append(changed, name)
		}
	}

	// Unlabeled keys from either snapshot, in deterministic order.
	rest := make([]string, 0)
	for k := range initial {
		if !seen[k] {
			seen[k] = true
			rest = append(rest, k)
		}
	}
	for k := range current {
		if !seen[k] {
			seen[k] = true
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if differs(initial[k], current[k]) {
			changed = append(changed, k)
		}
	}
	return changed
}

// differs reports whether two values serialize differently.
func differs(a, b any) bool {
	if a == nil && b == nil {
		return false
	}
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		// Unserializable values cannot be compared structurally; treat a
		// serialization failure on either side as a difference.
		return true
	}
	return string(ab) != string(bb)
}
