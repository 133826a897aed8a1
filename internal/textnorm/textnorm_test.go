package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coldplay", "coldplay"},
		{"  Beyoncé  ", "beyonce"},
		{"Đorđe   Balašević", "dorde balasevic"},
		{"Sigur Rós", "sigur ros"},
		{"Mötley Crüe", "motley crue"},
		{"Røyksopp", "royksopp"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "ac dc", NormalizeQuery("AC/DC"))
	assert.Equal(t, "guns n roses", NormalizeQuery("Guns N' Roses"))
	assert.Equal(t, "beyonce", NormalizeQuery("  Beyoncé!! "))
	assert.Equal(t, "", NormalizeQuery("?!"))
}

func TestPrefixes(t *testing.T) {
	got := Prefixes("coldplay", 2, 120)
	assert.Equal(t, []string{"co", "col", "cold", "coldp", "coldpl", "coldpla", "coldplay"}, got)

	assert.Empty(t, Prefixes("a", 2, 120))
	assert.Empty(t, Prefixes("", 2, 120))
	assert.Equal(t, []string{"ab"}, Prefixes("ab", 2, 120))
}

func TestPrefixes_Capped(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := Prefixes(long, 2, 120)
	assert.Len(t, got, 119)
	assert.Len(t, got[len(got)-1], 120)
}

func TestPrefixes_Runes(t *testing.T) {
	got := Prefixes("ćao", 2, 120)
	assert.Equal(t, []string{"ća", "ćao"}, got)
}

func TestHasToken(t *testing.T) {
	assert.True(t, HasToken("Various Artists Profile", "profile"))
	assert.True(t, HasToken("Podcast • 12 episodes", "podcast"))
	assert.False(t, HasToken("Showtek", "show"))
	assert.False(t, HasToken("", "show"))
}

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Daft Punk feat. Pharrell Williams", []string{"Daft Punk", "Pharrell Williams"}},
		{"Daft Punk FT. Pharrell Williams", []string{"Daft Punk", "Pharrell Williams"}},
		{"Simon & Garfunkel", []string{"Simon", "Garfunkel"}},
		{"A / B · C • D", []string{"A", "B", "C", "D"}},
		{"Tyler, The Creator", []string{"Tyler, The Creator"}},
		{"Song Artist (feat. Guest)", []string{"Song Artist", "Guest"}},
		{"Adele & adele", []string{"Adele"}},
		{"  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitArtists(tt.in))
		})
	}
}

