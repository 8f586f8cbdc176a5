// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcf

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ogc-records/pkg/types"
)

const sampleDoc = `mcf:
    version: 1.0

metadata:
    identifier: 3f342f64-9348-11df-ba6a-0014c2c00eab
    language: en
    language_alternate: fr

identification:
    title:
        en: title in English
        fr: titre en français
    abstract: abstract text
    extents:
        spatial:
            - bbox: [-141, 42, -52, 84]
              crs: 4326

cat_id: abc-123
cat_description: Test dataset
cat_begin: 2020-01-01
cat_end: 2020-12-31
cat_file: http://example.org/abc-123.json
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleDoc), "")
	require.NoError(t, err)

	assert.Equal(t, "1.0", m.MCF.Version)
	assert.Equal(t, "en", m.Metadata.Language)
	assert.Equal(t, "fr", m.Metadata.LanguageAlternate)
	assert.Equal(t, map[string]string{"en": "title in English", "fr": "titre en français"},
		m.Identification.Title.Localized)
	assert.Equal(t, "abstract text", m.Identification.Abstract.Value)
	require.Len(t, m.Identification.Extents.Spatial, 1)
	assert.Equal(t, []float64{-141, 42, -52, 84}, m.Identification.Extents.Spatial[0].BBox)
	assert.Equal(t, 4326, m.Identification.Extents.Spatial[0].CRS)
	assert.Equal(t, "abc-123", m.CatID)
	assert.Equal(t, types.Literal("2020-01-01"), m.CatBegin, "dates keep their literal text")
	assert.Equal(t, types.Literal("2020-12-31"), m.CatEnd)
	assert.Equal(t, "http://example.org/abc-123.json", m.CatFile)

	assert.NoError(t, Validate(m))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("identification: [unclosed"), "")
	assert.ErrorContains(t, err, "parsing MCF")
}

func TestParse_EmptyDocumentFailsValidation(t *testing.T) {
	m, err := Parse([]byte(""), "")
	require.NoError(t, err)

	var mf *MissingFieldError
	require.ErrorAs(t, Validate(m), &mf)
	assert.Equal(t, "identification.extents.spatial", mf.Path)
}

func TestLoad_BaseInheritance(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yml", sampleDoc)
	child := writeFile(t, dir, "child.yml", `base: base.yml
identification:
    extents:
        spatial:
            - bbox: [1, 2, 3, 4]
cat_id: child-1
`)

	m, err := Load(child)
	require.NoError(t, err)

	assert.Equal(t, "child-1", m.CatID, "child overrides scalars")
	assert.Equal(t, []float64{1, 2, 3, 4}, m.Identification.Extents.Spatial[0].BBox, "child replaces sequences")
	assert.Equal(t, "title in English", m.Identification.Title.Localized["en"], "mappings merge recursively")
	assert.Equal(t, "Test dataset", m.CatDescription, "parent values are inherited")
	assert.Equal(t, types.Literal("2020-01-01"), m.CatBegin)
	assert.NoError(t, Validate(m))
}

func TestLoad_BaseCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "base: b.yml\ncat_id: a\n")
	b := writeFile(t, dir, "b.yml", "base: a.yml\ncat_id: b\n")

	_, err := Load(b)
	assert.ErrorIs(t, err, ErrBaseCycle)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(m *types.MCF)
		wantPath  string
		wantLen   int
		wantIndex int
		malformed bool
	}{
		{name: "valid", edit: func(m *types.MCF) {}},
		{
			name:     "nil bbox",
			edit:     func(m *types.MCF) { m.Identification.Extents.Spatial[0].BBox = nil },
			wantPath: "identification.extents.spatial[0].bbox",
		},
		{
			name:      "five value bbox",
			edit:      func(m *types.MCF) { m.Identification.Extents.Spatial[0].BBox = []float64{1, 2, 3, 4, 5} },
			wantPath:  "identification.extents.spatial[0].bbox",
			wantLen:   5,
			wantIndex: -1,
			malformed: true,
		},
		{
			name:      "NaN in bbox",
			edit:      func(m *types.MCF) { m.Identification.Extents.Spatial[0].BBox[1] = math.NaN() },
			wantPath:  "identification.extents.spatial[0].bbox",
			wantLen:   4,
			wantIndex: 1,
			malformed: true,
		},
		{
			name:      "infinite bbox",
			edit:      func(m *types.MCF) { m.Identification.Extents.Spatial[0].BBox[2] = math.Inf(-1) },
			wantPath:  "identification.extents.spatial[0].bbox",
			wantLen:   4,
			wantIndex: 2,
			malformed: true,
		},
		{
			name:     "missing language",
			edit:     func(m *types.MCF) { m.Metadata.Language = "" },
			wantPath: "metadata.language",
		},
		{
			name: "alternate language is optional",
			edit: func(m *types.MCF) { m.Metadata.LanguageAlternate = "" },
		},
		{
			name:     "missing cat_id",
			edit:     func(m *types.MCF) { m.CatID = "" },
			wantPath: "cat_id",
		},
		{
			name:     "missing cat_description",
			edit:     func(m *types.MCF) { m.CatDescription = "" },
			wantPath: "cat_description",
		},
		{
			name:     "missing cat_begin",
			edit:     func(m *types.MCF) { m.CatBegin = "" },
			wantPath: "cat_begin",
		},
		{
			name:     "missing cat_end",
			edit:     func(m *types.MCF) { m.CatEnd = "" },
			wantPath: "cat_end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(sampleDoc), "")
			require.NoError(t, err)
			tt.edit(m)

			err = Validate(m)
			switch {
			case tt.wantPath == "":
				assert.NoError(t, err)
			case tt.malformed:
				var me *MalformedExtentError
				require.ErrorAs(t, err, &me)
				assert.Equal(t, tt.wantPath, me.Path)
				assert.Equal(t, tt.wantLen, me.Len)
				assert.Equal(t, tt.wantIndex, me.Index)
			default:
				var mf *MissingFieldError
				require.ErrorAs(t, err, &mf)
				assert.Equal(t, tt.wantPath, mf.Path)
				assert.Contains(t, err.Error(), tt.wantPath)
			}
		})
	}
}

func TestValidate_NonFiniteYAML(t *testing.T) {
	doc := strings.Replace(sampleDoc, "bbox: [-141, 42, -52, 84]", "bbox: [.nan, 1, .inf, 2]", 1)
	m, err := Parse([]byte(doc), "")
	require.NoError(t, err)

	var me *MalformedExtentError
	require.ErrorAs(t, Validate(m), &me)
	assert.Equal(t, 0, me.Index)
	assert.Contains(t, me.Error(), "finite")
}

func TestValidate_Nil(t *testing.T) {
	var mf *MissingFieldError
	assert.ErrorAs(t, Validate(nil), &mf)
}
