package discovery

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotFound is returned when no strategy finds an image URL.
var ErrNotFound = errors.New("no image URL found")

// DefaultUploadPattern matches full-size images on the WikiArt upload hosts.
var DefaultUploadPattern = regexp.MustCompile(`https://uploads\d+\.wikiart\.org/images/[^"'\s]+\.jpg`)

// Strategy finds an image URL in a parsed page.
type Strategy interface {
	Name() string
	Find(doc *goquery.Document) (string, bool)
}

// ItempropImage reads the content attribute of an itemprop="image" element.
type ItempropImage struct{}

func (ItempropImage) Name() string { return "itemprop" }

func (ItempropImage) Find(doc *goquery.Document) (string, bool) {
	return firstAttr(doc.Find(`[itemprop="image"][content]`), "content", nil)
}

// OpenGraphImage reads the og:image social preview tag.
type OpenGraphImage struct{}

func (OpenGraphImage) Name() string { return "og:image" }

func (OpenGraphImage) Find(doc *goquery.Document) (string, bool) {
	return firstAttr(doc.Find(`meta[property="og:image"][content]`), "content", nil)
}

// UploadImage returns the first <img> whose src matches Pattern.
type UploadImage struct {
	Pattern *regexp.Regexp
}

func (UploadImage) Name() string { return "upload-img" }

func (s UploadImage) Find(doc *goquery.Document) (string, bool) {
	pattern := s.Pattern
	if pattern == nil {
		pattern = DefaultUploadPattern
	}
	return firstAttr(doc.Find("img[src]"), "src", pattern)
}

func firstAttr(sel *goquery.Selection, attr string, pattern *regexp.Regexp) (string, bool) {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v := strings.TrimSpace(s.AttrOr(attr, ""))
		if v == "" || (pattern != nil && !pattern.MatchString(v)) {
			return true
		}
		found = v
		return false
	})
	return found, found != ""
}

// DefaultStrategies returns the strategies in priority order: structured
// image metadata, then the social preview tag, then upload-host images.
func DefaultStrategies(uploadPattern *regexp.Regexp) []Strategy {
	return []Strategy{
		ItempropImage{},
		OpenGraphImage{},
		UploadImage{Pattern: uploadPattern},
	}
}

// Extractor finds the main image URL of an HTML page.
//
// Strategies are tried in order and the first match wins; there is no
// ranking between matches.
//
// Example:
//
//	ex := NewExtractor(DefaultStrategies(nil)...)
//	imageURL, err := ex.ExtractImageURL(html)
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an Extractor. With no strategies the defaults are used.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies(nil)
	}
	return &Extractor{strategies: strategies}
}

// ExtractImageURL returns the first image URL found and the name of the
// strategy that found it. Protocol-relative URLs are given https.
func (e *Extractor) ExtractImageURL(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}
	for _, s := range e.strategies {
		if u, ok := s.Find(doc); ok {
			if strings.HasPrefix(u, "//") {
				u = "https:" + u
			}
			return u, s.Name(), nil
		}
	}
	return "", "", ErrNotFound
}
