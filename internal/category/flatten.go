// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"slices"
	"strings"
)

// Flatten walks the tree depth-first in pre-order and returns one Path per
// node, in display order. Nodes below MaxDepth are not visited.
func Flatten(tree []Node) []Path {
	var result []Path
	flattenLevel(tree, nil, nil, &result)
	return result
}

func flattenLevel(nodes []Node, ids, names []string, result *[]Path) {
	for _, n := range nodes {
		pathIDs := append(append(make([]string, 0, len(ids)+1), ids...), n.ID)
		pathNames := append(append(make([]string, 0, len(names)+1), names...), n.Name)

		*result = append(*result, Path{
			ID:        n.ID,
			Depth:     len(pathIDs),
			PathIDs:   pathIDs,
			PathNames: pathNames,
			Value:     JoinPath(pathNames),
		})
		if len(pathIDs) < MaxDepth {
			flattenLevel(n.Children, pathIDs, pathNames, result)
		}
	}
}

// Find returns the flattened path of nodeID.
func Find(tree []Node, nodeID string) (Path, bool) {
	for _, p := range Flatten(tree) {
		if p.ID == nodeID {
			return p, true
		}
	}
	return Path{}, false
}

// FindNode returns the node with the given id.
func FindNode(tree []Node, nodeID string) (Node, bool) {
	path, ok := Find(tree, nodeID)
	if !ok {
		return Node{}, false
	}
	nodes := tree
	var node Node
	for _, id := range path.PathIDs {
		node = nodes[indexOf(nodes, id)]
		nodes = node.Children
	}
	return node, true
}

// PathIDsByValue resolves a stored category value to the id chain of the
// node it names. It tries, in order: an exact match on the path string, a
// segment-wise match after splitting value (tolerating inconsistent
// spacing around the delimiter), and finally a match on the last segment
// alone. It returns nil when nothing matches.
func PathIDsByValue(tree []Node, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	paths := Flatten(tree)

	for _, p := range paths {
		if p.Value == value {
			return slices.Clone(p.PathIDs)
		}
	}

	// Strict segments first so names containing '>' still match, then the
	// loose split for values with irregular spacing.
	candidates := [][]string{SplitPath(value), looseSegments(value)}
	for _, segments := range candidates {
		if len(segments) == 0 {
			continue
		}
		for _, p := range paths {
			if slices.Equal(p.PathNames, segments) {
				return slices.Clone(p.PathIDs)
			}
		}
	}

	for _, segments := range candidates {
		if len(segments) == 0 {
			continue
		}
		last := segments[len(segments)-1]
		for _, p := range paths {
			if p.PathNames[len(p.PathNames)-1] == last {
				return slices.Clone(p.PathIDs)
			}
		}
	}
	return nil
}

// PathNamesByIDs maps an id chain back to names, one level at a time from
// the root. It stops at the first id not found at its level and returns
// the names collected so far.
func PathNamesByIDs(tree []Node, pathIDs []string) []string {
	names := make([]string, 0, len(pathIDs))
	nodes := tree
	for _, id := range pathIDs {
		i := indexOf(nodes, id)
		if i < 0 {
			break
		}
		names = append(names, nodes[i].Name)
		nodes = nodes[i].Children
	}
	return names
}
