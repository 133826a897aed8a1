// Package textnorm normalizes names for identity, comparison and prefix indexing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that carry no combining mark and survive NFD untouched
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"đ", "d", "Đ", "d",
	"ł", "l", "Ł", "l",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
)

// StripDiacritics removes combining marks after canonical decomposition.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return foldReplacer.Replace(out)
}

// Normalize lowercases, strips diacritics and collapses whitespace.
func Normalize(s string) string {
	s = StripDiacritics(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeQuery is Normalize with every run of non-alphanumerics collapsed to one space.
func NormalizeQuery(s string) string {
	s = Normalize(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Prefixes returns every rune prefix of name with length in [min, min(len, max)].
func Prefixes(name string, min, max int) []string {
	rs := []rune(name)
	end := len(rs)
	if end > max {
		end = max
	}
	if min < 1 {
		min = 1
	}
	if end < min {
		return nil
	}
	out := make([]string, 0, end-min+1)
	for n := min; n <= end; n++ {
		out = append(out, string(rs[:n]))
	}
	return out
}

// Tokens splits lowercased text on anything that is not a letter or digit.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// HasToken reports whether any token of s equals one of words.
func HasToken(s string, words ...string) bool {
	for _, tok := range Tokens(s) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}
