// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package i18n resolves language-dependent MCF fields.
package i18n

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/language"

	"github.com/pdiddy/ogc-records/pkg/types"
)

// ErrUnknownField is returned when the section has no such field.
var ErrUnknownField = errors.New("i18n: unknown field")

// CharString is the value of a field in the primary and alternate language.
type CharString struct {
	Primary   string
	Alternate string
}

// Best returns the primary value, falling back to the alternate one.
func (c CharString) Best() string {
	if c.Primary != "" {
		return c.Primary
	}
	return c.Alternate
}

// Resolver looks up localized fields. The zero value is ready to use.
type Resolver struct{}

// Resolve returns field from section in the given languages.
//
// A plain string field is returned as Primary whatever the languages. For a
// language-keyed field, Primary holds the value for language and Alternate
// the value for alternate; a language without a value yields "". Keys are
// matched exactly first, then by BCP 47 matching (so "en" finds "en-CA").
func (Resolver) Resolve(field string, section types.Localizable, lang, alternate string) (CharString, error) {
	value, ok := section.LocalizedField(field)
	if !ok {
		return CharString{}, fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	if len(value.Localized) == 0 {
		return CharString{Primary: value.Value}, nil
	}

	primary, err := lookup(value.Localized, lang)
	if err != nil {
		return CharString{}, fmt.Errorf("resolving %s: %w", field, err)
	}
	alt, err := lookup(value.Localized, alternate)
	if err != nil {
		return CharString{}, fmt.Errorf("resolving %s: %w", field, err)
	}
	return CharString{Primary: primary, Alternate: alt}, nil
}

func lookup(values map[string]string, lang string) (string, error) {
	if lang == "" {
		return "", nil
	}
	if v, ok := values[lang]; ok {
		return v, nil
	}

	want, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("parsing language %q: %w", lang, err)
	}

	// Candidate keys that are not language tags are skipped. Sorting keeps
	// ties between equally good matches deterministic.
	keys := make([]string, 0, len(values))
	tags := make([]language.Tag, 0, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		t, err := language.Parse(k)
		if err != nil {
			continue
		}
		keys = append(keys, k)
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		return "", nil
	}

	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf < language.High {
		return "", nil
	}
	return values[keys[idx]], nil
}
