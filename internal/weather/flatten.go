package weather

import (
	"maps"
	"slices"
)

type flattenNode struct {
	prefix string
	m      map[string]any
}

// Flatten walks raw breadth-first without recursion and returns its leaves
// keyed by dot-joined paths. Nested maps never appear as values.
//
// Keys of each map are visited in sorted order, so the traversal is
// deterministic: if two leaves resolve to the same path (possible when keys
// contain dots), the one visited later wins.
func Flatten(raw map[string]any) map[string]any {
	out := make(map[string]any)
	queue := []flattenNode{{m: raw}}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, k := range slices.Sorted(maps.Keys(node.m)) {
			path := k
			if node.prefix != "" {
				path = node.prefix + "." + k
			}
			if child, ok := node.m[k].(map[string]any); ok {
				queue = append(queue, flattenNode{prefix: path, m: child})
				continue
			}
			out[path] = node.m[k]
		}
	}
	return out
}
