// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcf loads and validates metadata content model documents.
// A document may name a parent with a top-level base: key; the parent is
// loaded first and the child is merged over it.
package mcf

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ogc-records/pkg/types"
)

// baseKey names the parent document of an MCF.
const baseKey = "base"

// bboxPath is the validated location of the first bounding box.
const bboxPath = "identification.extents.spatial[0].bbox"

// ErrBaseCycle is returned when base: references loop back on themselves.
var ErrBaseCycle = errors.New("mcf: base cycle")

// MissingFieldError reports a required MCF path that is absent or empty.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("mcf: missing required field %s", e.Path)
}

// MalformedExtentError reports a bounding box that is not a 4-tuple of
// finite numbers. Index is the position of the first NaN or infinite value,
// or -1 when the arity is wrong.
type MalformedExtentError struct {
	Path  string
	Len   int
	Index int
}

func (e *MalformedExtentError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("mcf: %s[%d] must be a finite number", e.Path, e.Index)
	}
	return fmt.Sprintf("mcf: %s must have 4 values (minx, miny, maxx, maxy), got %d", e.Path, e.Len)
}

// Load reads the MCF at path, resolving base: relative to its directory.
func Load(path string) (*types.MCF, error) {
	root, err := loadTree(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return decode(root)
}

// Parse decodes an MCF document. A base: reference is resolved relative to
// dir; an empty dir means the working directory.
func Parse(data []byte, dir string) (*types.MCF, error) {
	root, err := parseTree(data, dir, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return decode(root)
}

func loadTree(path string, seen map[string]bool) (*yaml.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("%w at %s", ErrBaseCycle, path)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading MCF %s: %w", path, err)
	}
	root, err := parseTree(data, filepath.Dir(abs), seen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// parseTree returns the top-level mapping node of data with its base chain
// merged in. Nodes keep their source text, so scalars such as 1.0 or
// 2020-01-01 reach the typed decoder unchanged.
func parseTree(data []byte, dir string, seen map[string]bool) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing MCF: %w", err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing MCF: line %d: document must be a mapping", root.Line)
	}

	base := lookup(root, baseKey)
	if base == nil || base.Kind != yaml.ScalarNode || base.Value == "" {
		return root, nil
	}
	path := base.Value
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	parent, err := loadTree(path, seen)
	if err != nil {
		return nil, err
	}
	return merge(parent, root), nil
}

// lookup returns the value node for key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// merge overlays child on parent. Mappings merge recursively; any other
// child value, sequences included, replaces the parent's.
func merge(parent, child *yaml.Node) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	out.Content = append(out.Content, parent.Content...)

	for i := 0; i+1 < len(child.Content); i += 2 {
		key, value := child.Content[i], child.Content[i+1]
		replaced := false
		for j := 0; j+1 < len(out.Content); j += 2 {
			if out.Content[j].Value != key.Value {
				continue
			}
			prev := out.Content[j+1]
			if prev.Kind == yaml.MappingNode && value.Kind == yaml.MappingNode {
				value = merge(prev, value)
			}
			out.Content[j+1] = value
			replaced = true
			break
		}
		if !replaced {
			out.Content = append(out.Content, key, value)
		}
	}
	return out
}

func decode(root *yaml.Node) (*types.MCF, error) {
	var m types.MCF
	if err := root.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding MCF: %w", err)
	}
	return &m, nil
}

// Validate checks that every field the record builder reads is present.
// It returns *MissingFieldError or *MalformedExtentError.
func Validate(m *types.MCF) error {
	if m == nil {
		return &MissingFieldError{Path: "."}
	}

	if len(m.Identification.Extents.Spatial) == 0 {
		return &MissingFieldError{Path: "identification.extents.spatial"}
	}
	bbox := m.Identification.Extents.Spatial[0].BBox
	if bbox == nil {
		return &MissingFieldError{Path: bboxPath}
	}
	if len(bbox) != 4 {
		return &MalformedExtentError{Path: bboxPath, Len: len(bbox), Index: -1}
	}
	for i, v := range bbox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedExtentError{Path: bboxPath, Len: len(bbox), Index: i}
		}
	}

	if m.Identification.Title.IsZero() {
		return &MissingFieldError{Path: "identification.title"}
	}
	if m.Metadata.Language == "" {
		return &MissingFieldError{Path: "metadata.language"}
	}

	required := []struct {
		path  string
		value string
	}{
		{"cat_id", m.CatID},
		{"cat_description", m.CatDescription},
		{"cat_begin", string(m.CatBegin)},
		{"cat_end", string(m.CatEnd)},
		{"cat_file", m.CatFile},
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Path: f.path}
		}
	}
	return nil
}
