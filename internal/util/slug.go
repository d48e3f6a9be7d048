package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Match sequences of non-alphanumeric characters
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Match leading/trailing hyphens
	trimHyphens = regexp.MustCompile(`^-+|-+$`)
)

// Slugify converts a title to a lowercase, accent-free, hyphen-separated key.
// "In progress" and "in-progress" both become "in-progress".
func Slugify(s string) string {
	return strings.Join(SlugWords(s), "-")
}

// SlugWords converts a string to normalized slug words.
//   - Converts to lowercase
//   - Normalizes unicode (removes accents)
//   - Replaces spaces and special characters with hyphens
//   - Splits on hyphens into individual words
func SlugWords(s string) []string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = trimHyphens.ReplaceAllString(s, "")

	if s == "" {
		return nil
	}

	return strings.Split(s, "-")
}

// SameTitle reports whether two titles name the same thing once case, accents
// and punctuation are ignored. Titles that slug to nothing never match.
func SameTitle(a, b string) bool {
	sa := Slugify(a)
	return sa != "" && sa == Slugify(b)
}

// removeAccents removes diacritical marks from unicode characters.
func removeAccents(s string) string {
	result := norm.NFD.String(s)

	var b strings.Builder
	for _, r := range result {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing
			b.WriteRune(r)
		}
	}

	return b.String()
}
