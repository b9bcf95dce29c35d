// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cheonwon/internal/category"
)

// maxSeedFileSize bounds the seed file read into memory.
const maxSeedFileSize = 1 << 20

// seedFile is the YAML layout of a category seed file:
//
//	categories:
//	  - name: 차량용품
//	    children:
//	      - name: 방향제
//	  - 생활용품
type seedFile struct {
	Categories []seedEntry `yaml:"categories"`
}

// seedEntry accepts either a plain name or a node mapping.
type seedEntry struct {
	category.RawNode
}

// UnmarshalYAML decodes a scalar as a bare name and a mapping as a node.
func (e *seedEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.RawNode = category.RawNode{Name: value.Value}
		return nil
	}

	var raw struct {
		ID       string      `yaml:"id"`
		Name     string      `yaml:"name"`
		Children []seedEntry `yaml:"children"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	e.RawNode = category.RawNode{ID: raw.ID, Name: raw.Name, Children: rawNodes(raw.Children)}
	return nil
}

func rawNodes(entries []seedEntry) []category.RawNode {
	out := make([]category.RawNode, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RawNode)
	}
	return out
}

// LoadSeedTree reads a category seed file. Nodes without an explicit id
// get one derived from their path, so the seed is identical on every run.
// An empty path returns the built-in default tree.
func LoadSeedTree(path string) ([]category.Node, error) {
	if path == "" {
		return category.DefaultTree(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat seed file: %w", err)
	}
	if info.Size() > maxSeedFileSize {
		return nil, fmt.Errorf("seed file %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	tree := category.Normalize(withSeedIDs(rawNodes(f.Categories), nil), category.MaxDepth)
	if len(tree) == 0 {
		return nil, fmt.Errorf("seed file %s defines no categories", path)
	}
	return tree, nil
}

// withSeedIDs fills missing ids with ids derived from each node's path.
func withSeedIDs(nodes []category.RawNode, parents []string) []category.RawNode {
	out := make([]category.RawNode, 0, len(nodes))
	for _, n := range nodes {
		names := append(append([]string(nil), parents...), strings.TrimSpace(n.Name))
		if n.ID == "" {
			n.ID = category.SeedID(category.JoinPath(names))
		}
		n.Children = withSeedIDs(n.Children, names)
		out = append(out, n)
	}
	return out
}
