// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record builds OGC API Records feature records from MCF documents.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pdiddy/ogc-records/internal/i18n"
	"github.com/pdiddy/ogc-records/internal/mcf"
	"github.com/pdiddy/ogc-records/pkg/types"
)

// indent is the per-level indentation of rendered records.
const indent = "    "

// Resolver looks up a language-dependent field of an MCF section.
type Resolver interface {
	Resolve(field string, section types.Localizable, lang, alternate string) (i18n.CharString, error)
}

// Builder turns MCF documents into records. A Builder holds no mutable
// state and may be shared between goroutines.
type Builder struct {
	now      func() time.Time
	resolver Resolver
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the time source for record-created and record-updated.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithResolver sets the localized-string resolver.
func WithResolver(r Resolver) Option {
	return func(b *Builder) { b.resolver = r }
}

// NewBuilder returns a Builder using the system clock and i18n.Resolver
// unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:      time.Now,
		resolver: i18n.Resolver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates m and returns the record it describes. The input is not
// modified. Validation errors are *mcf.MissingFieldError or
// *mcf.MalformedExtentError; resolver errors are returned as is.
func (b *Builder) Build(m *types.MCF) (*types.Record, error) {
	if err := mcf.Validate(m); err != nil {
		return nil, err
	}

	bbox := m.Identification.Extents.Spatial[0].BBox
	bound := orb.Bound{
		Min: orb.Point{bbox[0], bbox[1]},
		Max: orb.Point{bbox[2], bbox[3]},
	}

	// The resolved title is not part of the record: title and description
	// both carry cat_description.
	if _, err := b.resolver.Resolve("title", m.Identification,
		m.Metadata.Language, m.Metadata.LanguageAlternate); err != nil {
		return nil, err
	}

	today := types.NewDate(b.now())

	return &types.Record{
		ID:       m.CatID,
		Type:     types.RecordType,
		Geometry: geojson.NewGeometry(footprint(bound)),
		Properties: types.RecordProperties{
			RecordCreated: today,
			RecordUpdated: today,
			Type:          types.PropertyType,
			Title:         m.CatDescription,
			Description:   m.CatDescription,
			Extents: types.RecordExtents{
				Spatial: types.SpatialBounds{
					BBox: []float64{bound.Left(), bound.Bottom(), bound.Right(), bound.Top()},
					CRS:  types.CRS84,
				},
				Temporal: types.TemporalBounds{
					Interval: []string{string(m.CatBegin), string(m.CatEnd)},
					TRS:      types.Gregorian,
				},
			},
		},
		Links: []types.Link{{
			Rel:   types.RelRoot,
			Type:  types.MediaTypeJSON,
			Title: types.RootLinkTitle,
			Href:  m.CatFile,
		}},
	}, nil
}

// Render builds the record for m and returns its canonical JSON text.
func (b *Builder) Render(m *types.MCF) ([]byte, error) {
	rec, err := b.Build(m)
	if err != nil {
		return nil, err
	}
	return Marshal(rec)
}

// Marshal returns the canonical JSON text of rec: four-space indentation,
// no HTML escaping, no trailing newline.
func Marshal(rec *types.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encoding record %s: %w", rec.ID, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// footprint returns the closed ring bottom-left, top-left, top-right,
// bottom-right, bottom-left. The bound is not normalised.
func footprint(b orb.Bound) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{b.Left(), b.Bottom()},
		{b.Left(), b.Top()},
		{b.Right(), b.Top()},
		{b.Right(), b.Bottom()},
		{b.Left(), b.Bottom()},
	}}
}
