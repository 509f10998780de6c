package discovery

import (
	"context"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// JSONGetter performs a GET with query parameters and decodes the JSON body.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, params map[string]string, out any) error
}

// ImageFinder searches a catalogue for a painting's image URL.
// It returns ErrNotFound when the catalogue has no usable image.
type ImageFinder interface {
	Name() string
	FindImage(ctx context.Context, title, artist string) (string, error)
}

type imageInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			ImageInfo []struct {
				URL string `json:"url"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// imageInfoURL resolves a "File:..." title to its original upload URL.
func imageInfoURL(ctx context.Context, client JSONGetter, apiURL, fileTitle string) (string, error) {
	if !strings.HasPrefix(fileTitle, "File:") {
		fileTitle = "File:" + fileTitle
	}

	var resp imageInfoResponse
	err := client.GetJSON(ctx, apiURL, map[string]string{
		"action": "query",
		"titles": fileTitle,
		"prop":   "imageinfo",
		"iiprop": "url",
		"format": "json",
	}, &resp)
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if info := resp.Query.Pages[id].ImageInfo; len(info) > 0 && info[0].URL != "" {
			return info[0].URL, nil
		}
	}
	return "", ErrNotFound
}

// similar reports whether a search hit label plausibly names the painting.
// A threshold of zero accepts every hit.
func similar(label, title string, threshold float64) bool {
	if threshold <= 0 {
		return true
	}
	return matchr.JaroWinkler(strings.ToLower(label), strings.ToLower(title), false) >= threshold
}
