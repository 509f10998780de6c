package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Wikipedia finds images through the lead image of a matching article.
type Wikipedia struct {
	Client JSONGetter
	APIURL string
	Limit  int

	// Threshold is the minimum Jaro-Winkler similarity between the article
	// title and the painting title.
	Threshold float64

	// ThumbSize is the requested lead image width. Zero means 1000.
	ThumbSize int
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type pageImagesResponse struct {
	Query struct {
		Pages map[string]struct {
			Thumbnail *struct {
				Source string `json:"source"`
			} `json:"thumbnail"`
			Images []struct {
				Title string `json:"title"`
			} `json:"images"`
		} `json:"pages"`
	} `json:"query"`
}

// FindImage looks up the first similar article for "title artist" and
// returns its lead image, falling back to the first image on the page.
func (w *Wikipedia) FindImage(ctx context.Context, title, artist string) (string, error) {
	page, err := w.search(ctx, title, artist)
	if err != nil {
		return "", err
	}

	thumb := w.ThumbSize
	if thumb <= 0 {
		thumb = 1000
	}
	var resp pageImagesResponse
	err = w.Client.GetJSON(ctx, w.APIURL, map[string]string{
		"action":      "query",
		"titles":      page,
		"prop":        "pageimages|images",
		"pithumbsize": strconv.Itoa(thumb),
		"format":      "json",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("wikipedia page %q: %w", page, err)
	}

	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := resp.Query.Pages[id]
		if p.Thumbnail != nil && p.Thumbnail.Source != "" {
			return p.Thumbnail.Source, nil
		}
		if len(p.Images) > 0 {
			return imageInfoURL(ctx, w.Client, w.APIURL, p.Images[0].Title)
		}
	}
	return "", ErrNotFound
}

// search returns the first opensearch article title similar to title.
func (w *Wikipedia) search(ctx context.Context, title, artist string) (string, error) {
	// opensearch answers [query, [titles], [descriptions], [urls]]
	var resp []json.RawMessage
	err := w.Client.GetJSON(ctx, w.APIURL, map[string]string{
		"action": "opensearch",
		"search": title + " " + artist,
		"limit":  strconv.Itoa(w.Limit),
		"format": "json",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("wikipedia search: %w", err)
	}
	if len(resp) < 2 {
		return "", ErrNotFound
	}

	var titles []string
	if err := json.Unmarshal(resp[1], &titles); err != nil {
		return "", fmt.Errorf("wikipedia search: %w", err)
	}
	for _, t := range titles {
		if similar(t, title, w.Threshold) {
			return t, nil
		}
	}
	return "", ErrNotFound
}
