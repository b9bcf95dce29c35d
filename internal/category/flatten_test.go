// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_PreOrder(t *testing.T) {
	paths := Flatten(sampleTree())

	var values []string
	for _, p := range paths {
		values = append(values, p.Value)
	}
	assert.Equal(t, []string{
		"차량용품",
		"차량용품 > 방향제",
		"차량용품 > 세차",
		"차량용품 > 세차 > 왁스",
		"차량용품 > 세차 > 왁스 > 고체",
		"생활용품",
		"주방용품",
	}, values)
}

func TestFlatten_PathShape(t *testing.T) {
	for _, p := range Flatten(sampleTree()) {
		assert.Equal(t, p.Depth, len(p.PathIDs))
		assert.Equal(t, p.Depth, len(p.PathNames))
		assert.Equal(t, JoinPath(p.PathNames), p.Value)
		assert.Equal(t, p.ID, p.PathIDs[len(p.PathIDs)-1])
	}

	solid, ok := Find(sampleTree(), "solid")
	require.True(t, ok)
	assert.Equal(t, 4, solid.Depth)
	assert.Equal(t, []string{"car", "wash", "wax", "solid"}, solid.PathIDs)
}

func TestFlatten_IgnoresNodesBelowMaxDepth(t *testing.T) {
	tree := sampleTree()
	tree[0].Children[1].Children[0].Children[0].Children = []Node{{ID: "deep", Name: "too deep"}}

	_, ok := Find(tree, "deep")
	assert.False(t, ok)
	assert.Len(t, Flatten(tree), 7)
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
}

func TestFindNode(t *testing.T) {
	node, ok := FindNode(sampleTree(), "wax")
	require.True(t, ok)
	assert.Equal(t, "왁스", node.Name)
	require.Len(t, node.Children, 1)

	_, ok = FindNode(sampleTree(), "missing")
	assert.False(t, ok)
}

func TestPathIDsByValue(t *testing.T) {
	tree := []Node{
		{ID: "ga", Name: "가", Children: []Node{
			{ID: "na", Name: "나", Children: []Node{}},
		}},
		{ID: "da", Name: "다", Children: []Node{}},
	}

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "exact", value: "가 > 나", want: []string{"ga", "na"}},
		{name: "exact top level", value: "다", want: []string{"da"}},
		{name: "no spaces", value: "가>나", want: []string{"ga", "na"}},
		{name: "irregular spaces", value: " 가  >나 ", want: []string{"ga", "na"}},
		{name: "last segment only", value: "나", want: []string{"ga", "na"}},
		{name: "stale prefix, known leaf", value: "옛날 > 나", want: []string{"ga", "na"}},
		{name: "unknown", value: "라", want: nil},
		{name: "empty", value: "", want: nil},
		{name: "delimiters only", value: " > ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathIDsByValue(tree, tt.value))
		})
	}
}

func TestPathIDsByValue_NameWithAngleBracket(t *testing.T) {
	tree := []Node{
		{ID: "size", Name: "A>B", Children: []Node{
			{ID: "c", Name: "C", Children: []Node{}},
		}},
	}

	assert.Equal(t, []string{"size", "c"}, PathIDsByValue(tree, JoinPath([]string{"A>B", "C"})))
	assert.Equal(t, []string{"size", "c"}, PathIDsByValue(tree, "A>B  >  C"))
	assert.Equal(t, []string{"size"}, PathIDsByValue(tree, "old > A>B"))
}

func TestPathIDsByValue_ReturnsCopy(t *testing.T) {
	tree := sampleTree()
	ids := PathIDsByValue(tree, "차량용품 > 방향제")
	require.Len(t, ids, 2)
	ids[0] = "mutated"
	assert.Equal(t, []string{"car", "fragrance"}, PathIDsByValue(tree, "차량용품 > 방향제"))
}

func TestPathNamesByIDs(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"차량용품", "세차", "왁스"}, PathNamesByIDs(tree, []string{"car", "wash", "wax"}))
	assert.Equal(t, []string{"차량용품", "세차"}, PathNamesByIDs(tree, []string{"car", "wash", "gone", "solid"}))
	assert.Equal(t, []string{}, PathNamesByIDs(tree, []string{"fragrance"}), "ids are resolved from the root")
	assert.Equal(t, []string{}, PathNamesByIDs(tree, nil))
}
