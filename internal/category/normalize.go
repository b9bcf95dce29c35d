// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"encoding/json"
	"strings"
)

// Kind classifies the outcome of decoding persisted tree data.
type Kind int

const (
	// KindUnrecognized means the data was malformed or of an unknown shape.
	KindUnrecognized Kind = iota
	// KindValid means the data was in the canonical node-array format.
	KindValid
	// KindMigrated means the data was a legacy flat string array.
	KindMigrated
)

// String returns the kind name used in log output.
func (k Kind) String() string {
	switch k {
	case KindValid:
		return "valid"
	case KindMigrated:
		return "migrated"
	default:
		return "unrecognized"
	}
}

// Decoded is the result of Decode. Nodes is always normalized and is nil
// when Kind is KindUnrecognized.
type Decoded struct {
	Kind  Kind
	Nodes []Node
}

// Normalize filters raw input into a valid tree. Entries whose trimmed
// name is empty are dropped, later siblings with a duplicate name are
// dropped, missing or repeated ids are replaced with fresh ones, and
// anything deeper than maxDepth is discarded. A maxDepth of zero or less
// means MaxDepth. Normalize is idempotent.
func Normalize(raw []RawNode, maxDepth int) []Node {
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	seen := make(map[string]bool)
	return normalizeLevel(raw, 1, maxDepth, seen)
}

func normalizeLevel(raw []RawNode, depth, maxDepth int, seenIDs map[string]bool) []Node {
	nodes := make([]Node, 0, len(raw))
	names := make(map[string]bool, len(raw))

	for _, r := range raw {
		name := cleanName(r.Name)
		if name == "" || names[name] {
			continue
		}
		names[name] = true

		id := strings.TrimSpace(r.ID)
		if id == "" || seenIDs[id] {
			id = newID()
		}
		seenIDs[id] = true

		children := []Node{}
		if depth < maxDepth {
			children = normalizeLevel(r.Children, depth+1, maxDepth, seenIDs)
		}
		nodes = append(nodes, Node{ID: id, Name: name, Children: children})
	}
	return nodes
}

// NormalizeTree re-validates an already typed tree.
func NormalizeTree(tree []Node) []Node {
	return Normalize(Raw(tree), MaxDepth)
}

// MigrateLegacy converts the legacy format, a flat JSON array of strings,
// into depth-1 nodes. It reports false when data is not in that format so
// the caller can fall through to standard decoding.
func MigrateLegacy(data []byte) ([]Node, bool) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil || names == nil {
		return nil, false
	}
	raw := make([]RawNode, 0, len(names))
	for _, n := range names {
		raw = append(raw, RawNode{Name: n})
	}
	return Normalize(raw, MaxDepth), true
}

// Decode classifies and normalizes persisted tree data.
func Decode(data []byte) Decoded {
	if nodes, ok := MigrateLegacy(data); ok {
		return Decoded{Kind: KindMigrated, Nodes: nodes}
	}

	var raw []RawNode
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Decoded{Kind: KindUnrecognized}
	}
	return Decoded{Kind: KindValid, Nodes: Normalize(raw, MaxDepth)}
}
