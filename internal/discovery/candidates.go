package discovery

import (
	"context"
	"strings"

	"github.com/bmikle/paintings-ios/internal/identity"
	"github.com/bmikle/paintings-ios/internal/model"
)

// Candidate pattern names.
const (
	PatternTitle        = "title"
	PatternTitleYear    = "title-year"
	PatternTheTitle     = "the-title"
	PatternTheTitleYear = "the-title-year"

	foldedSuffix = "+folded"
)

// Candidates generates WikiArt page URLs for a painting.
type Candidates struct {
	// BaseURL is the WikiArt language root, e.g. "https://www.wikiart.org/en".
	BaseURL string
}

// Generate returns candidate URLs in the order they are tried:
//
//	{base}/{artist}/{title}
//	{base}/{artist}/{title}-{year}
//	{base}/{artist}/the-{title}
//	{base}/{artist}/the-{title}-{year}
//
// followed by the same patterns built from diacritic-folded slugs when they
// differ. Year patterns are skipped when the year slug is empty. Returns nil
// if the artist or title slug is empty.
func (c Candidates) Generate(artist, title string, year model.Year) []model.CandidateURL {
	var out []model.CandidateURL
	seen := make(map[string]bool)
	add := func(u model.CandidateURL) {
		if !seen[u.URL] {
			seen[u.URL] = true
			out = append(out, u)
		}
	}

	for _, u := range c.patterns(identity.Slugify, artist, title, year, "") {
		add(u)
	}
	for _, u := range c.patterns(identity.FoldedSlugify, artist, title, year, foldedSuffix) {
		add(u)
	}
	return out
}

func (c Candidates) patterns(slug func(string) string, artist, title string, year model.Year, suffix string) []model.CandidateURL {
	a, t := slug(artist), slug(title)
	if a == "" || t == "" {
		return nil
	}
	y := slug(string(year))
	base := strings.TrimRight(c.BaseURL, "/") + "/" + a + "/"

	out := []model.CandidateURL{{URL: base + t, Pattern: PatternTitle + suffix}}
	if y != "" {
		out = append(out, model.CandidateURL{URL: base + t + "-" + y, Pattern: PatternTitleYear + suffix})
	}
	if !strings.HasPrefix(t, "the-") {
		out = append(out, model.CandidateURL{URL: base + "the-" + t, Pattern: PatternTheTitle + suffix})
		if y != "" {
			out = append(out, model.CandidateURL{URL: base + "the-" + t + "-" + y, Pattern: PatternTheTitleYear + suffix})
		}
	}
	return out
}

// Generated returns the plain and year-suffixed URLs written to a fresh
// workspace for manual verification.
func (c Candidates) Generated(artist, title string, year model.Year) (plain, withYear string) {
	a, t := identity.Slugify(artist), identity.Slugify(title)
	if a == "" || t == "" {
		return "", ""
	}
	plain = strings.TrimRight(c.BaseURL, "/") + "/" + a + "/" + t
	if y := identity.Slugify(string(year)); y != "" {
		withYear = plain + "-" + y
	}
	return plain, withYear
}

// URLChecker checks whether a URL exists.
type URLChecker interface {
	Exists(ctx context.Context, url string) bool
}

// FindFirst checks candidates in order and returns the first that exists.
func FindFirst(ctx context.Context, p URLChecker, candidates []model.CandidateURL) (model.CandidateURL, bool) {
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		if p.Exists(ctx, c.URL) {
			return c, true
		}
	}
	return model.CandidateURL{}, false
}
