// Package discovery locates remote image sources for paintings.
//
// The package handles three use cases:
//
//  1. Generating and probing WikiArt page URLs from slugs
//  2. Extracting the main image URL from a WikiArt page
//  3. Searching Wikidata and Wikipedia for images of paintings WikiArt lacks
//
// # Candidate URLs
//
//	c := discovery.Candidates{BaseURL: "https://www.wikiart.org/en"}
//	urls := c.Generate("Paul Cézanne", "The Bathers (large)", "1906")
//	hit, ok := discovery.FindFirst(ctx, client, urls)
//
// # Page Extraction
//
// Extraction is a list of Strategy values tried in order, so a change in the
// page format only needs a new strategy:
//
//	ex := discovery.NewExtractor(discovery.DefaultStrategies(nil)...)
//	imageURL, strategy, err := ex.ExtractImageURL(html)
//
// # Catalogue Search
//
// Wikidata and Wikipedia implement ImageFinder. Both return ErrNotFound when
// no similar hit carries an image.
package discovery
