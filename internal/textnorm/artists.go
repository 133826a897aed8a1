package textnorm

import (
	"regexp"
	"strings"
)

// Separators between collaborating artists. Commas are not separators:
// names such as "Tyler, The Creator" contain them.
var artistSeparator = regexp.MustCompile(`(?i)\s+[(\[]?(?:feat\.|ft\.)\s*|\s*(?:&|/|·|•)\s*`)

// SplitArtists splits free artist text into distinct names, first-seen order.
func SplitArtists(text string) []string {
	parts := artistSeparator.Split(text, -1)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, " \t()[]")
		if p == "" {
			continue
		}
		key := Normalize(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
