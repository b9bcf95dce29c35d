// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

// PickerOption is one selectable node in a picker column.
type PickerOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PickerColumn is one level of the cascading category picker.
type PickerColumn struct {
	Depth    int            `json:"depth"`
	Options  []PickerOption `json:"options"`
	Selected string         `json:"selected,omitempty"`
}

// PickerState drives the product form's cascading picker: one column per
// level, each listing the children of the selection in the column before.
type PickerState struct {
	Columns   []PickerColumn `json:"columns"`
	PathIDs   []string       `json:"pathIds"`
	PathNames []string       `json:"pathNames"`
	Value     string         `json:"value"`
}

// Picker builds the picker state for a stored category value. Unknown or
// empty values produce a picker with nothing selected.
func Picker(tree []Node, value string) PickerState {
	return PickerForIDs(tree, PathIDsByValue(tree, value))
}

// PickerForIDs builds the picker state for an explicit id chain, as when
// the admin clicks through the columns. Stale ids truncate the selection.
func PickerForIDs(tree []Node, pathIDs []string) PickerState {
	state := PickerState{
		Columns:   make([]PickerColumn, 0, MaxDepth),
		PathIDs:   []string{},
		PathNames: []string{},
	}

	nodes := tree
	for depth := 1; depth <= MaxDepth; depth++ {
		col := PickerColumn{Depth: depth, Options: make([]PickerOption, 0, len(nodes))}
		for _, n := range nodes {
			col.Options = append(col.Options, PickerOption{ID: n.ID, Name: n.Name})
		}

		var next []Node
		if depth <= len(pathIDs) {
			if i := indexOf(nodes, pathIDs[depth-1]); i >= 0 {
				col.Selected = nodes[i].ID
				state.PathIDs = append(state.PathIDs, nodes[i].ID)
				state.PathNames = append(state.PathNames, nodes[i].Name)
				next = nodes[i].Children
			} else {
				pathIDs = pathIDs[:depth-1]
			}
		}
		state.Columns = append(state.Columns, col)
		nodes = next
	}

	state.Value = JoinPath(state.PathNames)
	return state
}
