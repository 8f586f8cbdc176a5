// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Fixed values embedded in every generated record.
const (
	RecordType   = "Feature"
	PropertyType = "feature"

	CRS84     = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"
	Gregorian = "http://www.opengis.net/def/uom/ISO-8601/0/Gregorian"

	RelRoot       = "root"
	MediaTypeJSON = "application/json"
	RootLinkTitle = "This document is an OGC Record"
)

// Record is an OGC API Records Part 1 feature record. Field order follows
// the published examples and is kept stable for reproducible output.
type Record struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties RecordProperties  `json:"properties"`
	Links      []Link            `json:"links"`
}

// RecordProperties holds the record's properties member.
type RecordProperties struct {
	RecordCreated Date          `json:"record-created"`
	RecordUpdated Date          `json:"record-updated"`
	Type          string        `json:"type"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Extents       RecordExtents `json:"extents"`
}

// RecordExtents holds the spatial and temporal extents of a record.
type RecordExtents struct {
	Spatial  SpatialBounds  `json:"spatial"`
	Temporal TemporalBounds `json:"temporal"`
}

// SpatialBounds is a bbox ordered minx, miny, maxx, maxy with its CRS URI.
type SpatialBounds struct {
	BBox []float64 `json:"bbox"`
	CRS  string    `json:"crs"`
}

// TemporalBounds is a [begin, end] interval with its TRS URI.
type TemporalBounds struct {
	Interval []string `json:"interval"`
	TRS      string   `json:"trs"`
}

// Link is a record hyperlink.
type Link struct {
	Rel   string `json:"rel" yaml:"rel"`
	Type  string `json:"type" yaml:"type"`
	Title string `json:"title" yaml:"title"`
	Href  string `json:"href" yaml:"href"`
}

// dateLayout is the calendar-date form used for record timestamps.
const dateLayout = "2006-01-02"

// Date is a UTC calendar date without a time component. It encodes as
// "YYYY-MM-DD" in JSON and YAML.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// MarshalYAML encodes the date as a plain string.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}
