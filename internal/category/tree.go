// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"errors"
	"fmt"
	"strings"
)

// Validation and policy errors. Their messages are shown to admins as-is.
var (
	ErrEmptyName     = errors.New("category name is required")
	ErrDuplicateName = errors.New("a category with this name already exists at this level")
	ErrDepthExceeded = fmt.Errorf("categories can be nested at most %d levels deep", MaxDepth)
	ErrNotFound      = errors.New("category not found")
	ErrHasChildren   = errors.New("cannot delete: category has subcategories")
	ErrInUse         = errors.New("cannot delete: category is used by products")
)

// RenameResult describes an applied rename. OldValue and NewValue are the
// node's full path strings before and after, used to cascade the rename
// into product records.
type RenameResult struct {
	Tree     []Node
	Node     Node
	OldValue string
	NewValue string
}

// Changed reports whether the rename altered the node's path.
func (r RenameResult) Changed() bool {
	return r.OldValue != r.NewValue
}

// updateSiblings follows parentIDs from the root and replaces the sibling
// list found there with the result of fn. Lists along the path are copied;
// the input tree is never modified.
func updateSiblings(tree []Node, parentIDs []string, fn func([]Node) ([]Node, error)) ([]Node, error) {
	if len(parentIDs) == 0 {
		return fn(tree)
	}

	i := indexOf(tree, parentIDs[0])
	if i < 0 {
		return nil, ErrNotFound
	}

	children, err := updateSiblings(tree[i].Children, parentIDs[1:], fn)
	if err != nil {
		return nil, err
	}

	out := append([]Node(nil), tree...)
	out[i].Children = children
	return out, nil
}

func indexOf(nodes []Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func hasName(nodes []Node, name, exceptID string) bool {
	for _, n := range nodes {
		if n.Name == name && n.ID != exceptID {
			return true
		}
	}
	return false
}

// Insert appends a new node named name under the node reached by
// parentPathIDs, or at the top level when parentPathIDs is empty.
func Insert(tree []Node, parentPathIDs []string, name string) ([]Node, Node, error) {
	name = cleanName(name)
	if name == "" {
		return tree, Node{}, ErrEmptyName
	}
	if len(parentPathIDs) >= MaxDepth {
		return tree, Node{}, ErrDepthExceeded
	}

	node := Node{ID: newID(), Name: name, Children: []Node{}}
	out, err := updateSiblings(tree, parentPathIDs, func(siblings []Node) ([]Node, error) {
		if hasName(siblings, name, "") {
			return nil, ErrDuplicateName
		}
		next := make([]Node, 0, len(siblings)+1)
		next = append(next, siblings...)
		return append(next, node), nil
	})
	if err != nil {
		return tree, Node{}, err
	}
	return out, node, nil
}

// Rename changes the name of nodeID, leaving its id and children intact.
// Renaming a node to its current name succeeds without changes.
func Rename(tree []Node, nodeID, newName string) (RenameResult, error) {
	newName = cleanName(newName)
	if newName == "" {
		return RenameResult{Tree: tree}, ErrEmptyName
	}

	path, ok := Find(tree, nodeID)
	if !ok {
		return RenameResult{Tree: tree}, ErrNotFound
	}

	var renamed Node
	out, err := updateSiblings(tree, path.PathIDs[:len(path.PathIDs)-1], func(siblings []Node) ([]Node, error) {
		if hasName(siblings, newName, nodeID) {
			return nil, ErrDuplicateName
		}
		next := append([]Node(nil), siblings...)
		i := indexOf(next, nodeID)
		next[i].Name = newName
		renamed = next[i]
		return next, nil
	})
	if err != nil {
		return RenameResult{Tree: tree}, err
	}

	names := append(append([]string(nil), path.PathNames[:len(path.PathNames)-1]...), newName)
	return RenameResult{
		Tree:     out,
		Node:     renamed,
		OldValue: path.Value,
		NewValue: JoinPath(names),
	}, nil
}

// Delete removes nodeID and its subtree. It performs no policy checks;
// callers use CheckDelete first. An unknown id leaves the tree unchanged.
func Delete(tree []Node, nodeID string) []Node {
	path, ok := Find(tree, nodeID)
	if !ok {
		return tree
	}

	out, err := updateSiblings(tree, path.PathIDs[:len(path.PathIDs)-1], func(siblings []Node) ([]Node, error) {
		next := make([]Node, 0, len(siblings))
		for _, n := range siblings {
			if n.ID != nodeID {
				next = append(next, n)
			}
		}
		return next, nil
	})
	if err != nil {
		return tree
	}
	return out
}

// CheckDelete reports why nodeID may not be deleted, or nil if it may.
// A node is deletable only when it has no children and no product uses it.
func CheckDelete(tree []Node, nodeID string, counts map[string]int) error {
	node, ok := FindNode(tree, nodeID)
	if !ok {
		return ErrNotFound
	}
	if len(node.Children) > 0 {
		return ErrHasChildren
	}
	if counts[nodeID] > 0 {
		return ErrInUse
	}
	return nil
}

// CascadeRename rewrites a product category value after a node's path
// changed from oldValue to newValue. It reports whether value referenced
// the renamed node or one of its descendants.
func CascadeRename(value, oldValue, newValue string) (string, bool) {
	if oldValue == "" {
		return value, false
	}
	if value == oldValue {
		return newValue, true
	}
	if strings.HasPrefix(value, oldValue+Delimiter) {
		return newValue + value[len(oldValue):], true
	}
	return value, false
}
