package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Parenthesised annotations such as "(study)" or "(large)".
	parenthesized = regexp.MustCompile(`\([^)]*\)`)

	// Anything that is not a letter, digit, underscore, whitespace or hyphen.
	// Letters and digits are matched by Unicode class so non-ASCII titles survive.
	disallowed = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Zs}-]`)

	separators = regexp.MustCompile(`[\s\p{Zs}_]+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// Slugify converts free text to a lower-case, hyphen-separated token that is
// safe in filenames and URL paths.
//
// The following transformations are applied, in order:
//   - Lower-case the input
//   - Remove parenthesised substrings
//   - Remove characters that are not letters, digits, whitespace or hyphens
//   - Collapse whitespace and underscores into a single hyphen
//   - Collapse repeated hyphens
//   - Trim leading and trailing hyphens
//
// Non-ASCII letters are kept (lower-cased); titles that differ only by
// diacritics produce different slugs. An empty result means no identity can
// be generated from the text.
//
// Example:
//
//	Slugify("The Bathers (large)") // Returns "the-bathers"
//	Slugify("Nick's Pool")         // Returns "nicks-pool"
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = parenthesized.ReplaceAllString(text, "")
	text = disallowed.ReplaceAllString(text, "")
	text = separators.ReplaceAllString(text, "-")
	text = hyphens.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// FoldedSlugify is Slugify with diacritics removed first, so "Cézanne"
// becomes "cezanne". WikiArt addresses artists by ASCII slugs; use this only
// for candidate URLs, never for asset filenames.
func FoldedSlugify(text string) string {
	return Slugify(fold(text))
}

func fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}
