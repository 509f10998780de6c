// Package http provides the HTTP client used to check, scrape and download
// painting images.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Separate timeouts for existence checks, pages and downloads
//   - Static pacing between consecutive requests
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{
//	    UserAgent:       "Mozilla/5.0",
//	    CheckTimeout:    2 * time.Second,
//	    PageTimeout:     10 * time.Second,
//	    DownloadTimeout: 30 * time.Second,
//	    Delay:           500 * time.Millisecond,
//	})
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://www.wikiart.org/en/paul-cezanne/the-bathers")
//
//	// Query a MediaWiki API
//	var out searchResponse
//	err = client.GetJSON(ctx, apiURL, map[string]string{"action": "query"}, &out)
//
// There is no retry or backoff. A failed request is reported to the caller,
// which leaves the record for a later run.
package http
