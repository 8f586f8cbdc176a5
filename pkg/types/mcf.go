// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for ogc-records.
// Implements: the metadata content model (MCF) consumed by the loader and the
// record builder, the OGC API Records feature record they produce, and the
// CLI configuration.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// MCF is the metadata content model describing one geospatial dataset.
// Only the sections read by the record builder are modelled; unknown keys
// are ignored on decode.
type MCF struct {
	// MCF carries the content model version block (e.g. "1.0").
	MCF MCFVersion `json:"mcf" yaml:"mcf"`

	// Base is the parent MCF this document inherits from. The loader
	// resolves and merges it before decoding, so it is informational here.
	Base string `json:"base,omitempty" yaml:"base,omitempty"`

	Metadata       Metadata       `json:"metadata" yaml:"metadata"`
	Identification Identification `json:"identification" yaml:"identification"`

	// CatID is the catalogue identifier copied to the record id.
	CatID string `json:"cat_id" yaml:"cat_id"`

	// CatDescription populates both title and description of the record.
	CatDescription string `json:"cat_description" yaml:"cat_description"`

	// CatBegin and CatEnd bound the temporal extent. They are kept as the
	// literal text found in the document.
	CatBegin Literal `json:"cat_begin" yaml:"cat_begin"`
	CatEnd   Literal `json:"cat_end" yaml:"cat_end"`

	// CatFile is the location of the record document, used as the root link.
	CatFile string `json:"cat_file" yaml:"cat_file"`
}

// MCFVersion holds the mcf: block.
type MCFVersion struct {
	Version string `json:"version" yaml:"version"`
}

// Metadata holds the metadata: block.
type Metadata struct {
	Identifier        string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Language          string `json:"language" yaml:"language"`
	LanguageAlternate string `json:"language_alternate,omitempty" yaml:"language_alternate,omitempty"`
}

// Identification holds the identification: block.
type Identification struct {
	Title    LocalizedString `json:"title" yaml:"title"`
	Abstract LocalizedString `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Extents  Extents         `json:"extents" yaml:"extents"`
}

// Localizable is implemented by MCF sections that carry language-dependent
// fields looked up by name.
type Localizable interface {
	LocalizedField(name string) (LocalizedString, bool)
}

// LocalizedField returns the named language-dependent field.
func (i Identification) LocalizedField(name string) (LocalizedString, bool) {
	switch name {
	case "title":
		return i.Title, !i.Title.IsZero()
	case "abstract":
		return i.Abstract, !i.Abstract.IsZero()
	}
	return LocalizedString{}, false
}

// Extents lists the dataset extents. Spatial is a sequence so that
// multi-extent documents decode; the record builder reads the first entry.
type Extents struct {
	Spatial []SpatialExtent `json:"spatial" yaml:"spatial"`
}

// SpatialExtent is one bounding box entry. BBox is ordered
// minx, miny, maxx, maxy.
type SpatialExtent struct {
	BBox []float64 `json:"bbox" yaml:"bbox"`
	CRS  int       `json:"crs,omitempty" yaml:"crs,omitempty"`
}

// LocalizedString is either a single string or a mapping from language
// code to string.
type LocalizedString struct {
	// Value is set when the document holds a plain string.
	Value string

	// Localized is set when the document holds a language-keyed mapping.
	Localized map[string]string
}

// IsZero reports whether neither form carries a value.
func (s LocalizedString) IsZero() bool {
	return s.Value == "" && len(s.Localized) == 0
}

// UnmarshalYAML accepts a scalar or a mapping of scalars.
func (s *LocalizedString) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*s = LocalizedString{}
			return nil
		}
		*s = LocalizedString{Value: node.Value}
		return nil
	case yaml.MappingNode:
		m := make(map[string]string, len(node.Content)/2)
		if err := node.Decode(&m); err != nil {
			return err
		}
		*s = LocalizedString{Localized: m}
		return nil
	}
	return fmt.Errorf("line %d: localized string must be a string or a mapping", node.Line)
}

// MarshalYAML writes back whichever form was decoded.
func (s LocalizedString) MarshalYAML() (any, error) {
	if len(s.Localized) > 0 {
		return s.Localized, nil
	}
	return s.Value, nil
}

// MarshalJSON mirrors MarshalYAML.
func (s LocalizedString) MarshalJSON() ([]byte, error) {
	if len(s.Localized) > 0 {
		return json.Marshal(s.Localized)
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a string, an object of strings or null.
func (s *LocalizedString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = LocalizedString{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LocalizedString{Value: v}
		return nil
	case len(data) > 0 && data[0] == '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*s = LocalizedString{Localized: m}
		return nil
	}
	return fmt.Errorf("localized string must be a string or an object, got %s", data)
}

// Literal is a scalar kept as its source text. YAML would otherwise resolve
// values such as 2020-01-01 to timestamps.
type Literal string

// UnmarshalYAML stores the raw scalar text; null becomes empty.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*l = ""
		return nil
	}
	*l = Literal(node.Value)
	return nil
}
