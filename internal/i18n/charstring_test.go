// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ogc-records/pkg/types"
)

func TestResolve(t *testing.T) {
	localized := types.Identification{
		Title: types.LocalizedString{Localized: map[string]string{
			"en-CA": "Canadian title",
			"fr":    "Titre",
		}},
	}
	plain := types.Identification{
		Title: types.LocalizedString{Value: "Only title"},
	}

	tests := []struct {
		name      string
		section   types.Identification
		lang      string
		alternate string
		want      CharString
	}{
		{
			name:      "plain string ignores languages",
			section:   plain,
			lang:      "de",
			alternate: "fr",
			want:      CharString{Primary: "Only title"},
		},
		{
			name:      "exact keys",
			section:   localized,
			lang:      "en-CA",
			alternate: "fr",
			want:      CharString{Primary: "Canadian title", Alternate: "Titre"},
		},
		{
			name:      "base language matches regional key",
			section:   localized,
			lang:      "en",
			alternate: "fr",
			want:      CharString{Primary: "Canadian title", Alternate: "Titre"},
		},
		{
			name:      "no alternate language",
			section:   localized,
			lang:      "fr",
			alternate: "",
			want:      CharString{Primary: "Titre"},
		},
		{
			name:      "unmatched language is empty",
			section:   localized,
			lang:      "ja",
			alternate: "fr",
			want:      CharString{Alternate: "Titre"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolver{}.Resolve("title", tt.section, tt.lang, tt.alternate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownField(t *testing.T) {
	_, err := Resolver{}.Resolve("keywords", types.Identification{}, "en", "")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestResolve_BadLanguageCode(t *testing.T) {
	section := types.Identification{
		Title: types.LocalizedString{Localized: map[string]string{"en": "Title"}},
	}
	_, err := Resolver{}.Resolve("title", section, "not a tag!", "")
	assert.ErrorContains(t, err, "parsing language")
}

func TestCharString_Best(t *testing.T) {
	assert.Equal(t, "p", CharString{Primary: "p", Alternate: "a"}.Best())
	assert.Equal(t, "a", CharString{Alternate: "a"}.Best())
	assert.Equal(t, "", CharString{}.Best())
}
