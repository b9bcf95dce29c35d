// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Node is a single named category. Children are kept in display order.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Children []Node `json:"children"`
}

// Path is one flattened node: its position in the tree and the textual
// value products store to reference it.
type Path struct {
	ID        string   `json:"id"`
	Depth     int      `json:"depth"`
	PathIDs   []string `json:"pathIds"`
	PathNames []string `json:"pathNames"`
	Value     string   `json:"value"`
}

// RawNode is the unvalidated shape of a node as read from storage or an
// API request. Every field is optional; Normalize decides what survives.
type RawNode struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string    `json:"name" yaml:"name"`
	Children []RawNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// UnmarshalJSON accepts both node objects and bare strings (the shape of
// legacy entries). Values of any other JSON type decode as an empty node,
// which Normalize then drops.
func (r *RawNode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = RawNode{Name: name}
		return nil
	}

	var obj struct {
		ID       json.RawMessage `json:"id"`
		Name     json.RawMessage `json:"name"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*r = RawNode{}
		return nil
	}

	out := RawNode{ID: jsonString(obj.ID), Name: jsonString(obj.Name)}
	var children []RawNode
	if len(obj.Children) > 0 && json.Unmarshal(obj.Children, &children) == nil {
		out.Children = children
	}
	*r = out
	return nil
}

// jsonString returns the string value of a JSON scalar, or "" if it is not
// a string.
func jsonString(data json.RawMessage) string {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil {
		return ""
	}
	return s
}

// Raw converts a normalized tree back into its raw form.
func Raw(tree []Node) []RawNode {
	out := make([]RawNode, 0, len(tree))
	for _, n := range tree {
		out = append(out, RawNode{ID: n.ID, Name: n.Name, Children: Raw(n.Children)})
	}
	return out
}

// Clone returns a deep copy of the tree.
func Clone(tree []Node) []Node {
	out := make([]Node, 0, len(tree))
	for _, n := range tree {
		out = append(out, Node{ID: n.ID, Name: n.Name, Children: Clone(n.Children)})
	}
	return out
}

// newID returns a fresh node id.
func newID() string {
	return uuid.NewString()
}

// cleanName trims surrounding whitespace from a node name.
func cleanName(name string) string {
	return strings.TrimSpace(name)
}
