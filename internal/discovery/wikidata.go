package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Wikidata finds images through the P18 (image) claim of Wikidata entities.
type Wikidata struct {
	Client        JSONGetter
	APIURL        string
	CommonsAPIURL string

	// Limit bounds the number of search hits inspected.
	Limit int

	// Threshold is the minimum Jaro-Winkler similarity between a hit label
	// and the painting title.
	Threshold float64
}

func (w *Wikidata) Name() string { return "wikidata" }

type searchEntitiesResponse struct {
	Search []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"search"`
}

type entitiesResponse struct {
	Entities map[string]struct {
		Claims map[string][]struct {
			Mainsnak struct {
				Datavalue struct {
					Value json.RawMessage `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
}

// FindImage searches entities for "title artist" and returns the Commons
// URL of the first similar hit carrying an image.
func (w *Wikidata) FindImage(ctx context.Context, title, artist string) (string, error) {
	var search searchEntitiesResponse
	err := w.Client.GetJSON(ctx, w.APIURL, map[string]string{
		"action":   "wbsearchentities",
		"search":   title + " " + artist,
		"language": "en",
		"limit":    strconv.Itoa(w.Limit),
		"format":   "json",
	}, &search)
	if err != nil {
		return "", fmt.Errorf("wikidata search: %w", err)
	}

	for _, hit := range search.Search {
		if !similar(hit.Label, title, w.Threshold) {
			continue
		}
		file, err := w.imageFile(ctx, hit.ID)
		if err != nil {
			return "", err
		}
		if file == "" {
			continue
		}
		url, err := imageInfoURL(ctx, w.Client, w.CommonsAPIURL, file)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("commons imageinfo: %w", err)
		}
		return url, nil
	}
	return "", ErrNotFound
}

// imageFile returns the Commons file name of the entity's first P18 claim,
// or "" when it has none.
func (w *Wikidata) imageFile(ctx context.Context, id string) (string, error) {
	var resp entitiesResponse
	err := w.Client.GetJSON(ctx, w.APIURL, map[string]string{
		"action": "wbgetentities",
		"ids":    id,
		"props":  "claims",
		"format": "json",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("wikidata entity %s: %w", id, err)
	}

	claims := resp.Entities[id].Claims["P18"]
	if len(claims) == 0 {
		return "", nil
	}
	var file string
	if err := json.Unmarshal(claims[0].Mainsnak.Datavalue.Value, &file); err != nil {
		return "", nil
	}
	return file, nil
}
