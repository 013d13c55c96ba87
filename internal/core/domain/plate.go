package domain

import (
	"strings"
	"unicode"
)

// NormalizePlate canonicalizes a vehicle registration mark: every whitespace
// character is removed and the result is lower-cased. All lookups and all
// stored plates use the normalized form.
func NormalizePlate(vrm string) string {
	var b strings.Builder
	b.Grow(len(vrm))
	for _, r := range vrm {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DisplayPlate is the upper-cased rendering used in customer-facing lists.
func DisplayPlate(plate string) string {
	return strings.ToUpper(plate)
}
