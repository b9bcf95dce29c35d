// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category implements the product category tree: a bounded-depth,
// ordered hierarchy of named nodes, the textual path format stored on
// products, and the derived views (flattened paths, usage counts) that the
// admin screens render.
package category

import "strings"

// Delimiter separates segments of a category path string. Product records
// store paths in this exact format, so it must never change.
const Delimiter = " > "

// MaxDepth is the deepest selectable level of the tree (1-based).
const MaxDepth = 4

// JoinPath joins names into a single path string. An empty slice yields "".
func JoinPath(names []string) string {
	return strings.Join(names, Delimiter)
}

// SplitPath splits a path string on Delimiter into trimmed, non-empty
// segments. It is the inverse of JoinPath for names that do not themselves
// contain Delimiter.
func SplitPath(path string) []string {
	return splitTrimmed(path, Delimiter)
}

// looseSegments splits on a bare '>' regardless of surrounding whitespace,
// so "가>나" and "가 > 나" split the same way. Only used for lookups that
// tolerate hand-edited values.
func looseSegments(path string) []string {
	return splitTrimmed(path, strings.TrimSpace(Delimiter))
}

func splitTrimmed(path, sep string) []string {
	parts := strings.Split(path, sep)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
