// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import "github.com/google/uuid"

// seedNamespace scopes the deterministic ids of seed nodes.
var seedNamespace = uuid.MustParse("6f1c2a4e-7d1b-4c59-9a53-3e0b8f0d2c71")

// DefaultNames are the top-level categories a fresh store starts with.
var DefaultNames = []string{"차량용품", "생활용품", "주방용품", "전자기기", "뷰티"}

// DefaultTree returns the seed tree. Seed ids are derived from the names,
// so the tree is identical on every run.
func DefaultTree() []Node {
	return SeedTree(DefaultNames)
}

// SeedTree builds a top-level tree from names with deterministic ids.
// Blank and duplicate names are dropped as Normalize would.
func SeedTree(names []string) []Node {
	raw := make([]RawNode, 0, len(names))
	for _, name := range names {
		name = cleanName(name)
		raw = append(raw, RawNode{ID: SeedID(name), Name: name})
	}
	return Normalize(raw, MaxDepth)
}

// SeedID returns the deterministic id for a seed node name.
func SeedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}
