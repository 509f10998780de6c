package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmikle/paintings-ios/internal/discovery"
	"github.com/bmikle/paintings-ios/internal/model"
)

// GenerateCandidates fills the WikiArt URL columns of every row with the
// plain and year-suffixed candidate URLs, for manual verification.
// Confirmed-absent rows are left untouched.
func (r *Reconciler) GenerateCandidates(ctx context.Context, c discovery.Candidates) (Summary, error) {
	var s Summary
	if r.workspace == nil {
		return s, ErrNoWorkspace
	}
	r.workspace.EnsureColumn(model.ColumnWikiArtURL)
	r.workspace.EnsureColumn(model.ColumnWikiArtURLWithYear)

	for _, row := range r.workspace.Rows {
		s.Processed++
		if row.IsAbsent() {
			s.Absent++
			continue
		}
		plain, withYear := c.Generated(row.Artist, row.Title, row.Year)
		if plain == "" {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Cannot generate URL for %s by %s", row.Title, row.Artist), Level: LevelWarning, ID: row.ID})
			s.Skipped++
			continue
		}
		row.Set(model.ColumnWikiArtURL, plain)
		row.Set(model.ColumnWikiArtURLWithYear, withYear)
		s.Found++
	}

	return s, r.workspace.Save(ctx)
}

// FindWikiArtURLs checks the candidate patterns of every unresolved row and
// writes the first URL that exists, or an empty string, to the wikiart_url
// column. Cached and confirmed-absent rows are skipped.
func (r *Reconciler) FindWikiArtURLs(ctx context.Context, c discovery.Candidates, p discovery.URLChecker) (Summary, error) {
	var s Summary
	if r.workspace == nil {
		return s, ErrNoWorkspace
	}
	r.workspace.EnsureColumn(model.ColumnWikiArtURL)

	rows := r.workspace.Rows
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		s.Processed++
		switch r.State(row) {
		case model.StateConfirmedAbsent:
			s.Absent++
			continue
		case model.StateAssetCached:
			s.Cached++
			continue
		}

		hit, ok := discovery.FindFirst(ctx, p, c.Generate(row.Artist, row.Title, row.Year))
		if ctx.Err() != nil {
			// An interrupted check is not evidence that the page is missing.
			s.Processed--
			break
		}
		if ok {
			row.Set(model.ColumnWikiArtURL, hit.URL)
			s.Found++
			r.progress(ProgressEvent{Message: fmt.Sprintf("Found %s (%s)", hit.URL, hit.Pattern), Level: LevelSuccess, ID: row.ID})
		} else {
			row.Set(model.ColumnWikiArtURL, "")
			s.NotFound++
			r.progress(ProgressEvent{Message: fmt.Sprintf("No WikiArt page for %s by %s", row.Title, row.Artist), Level: LevelVerbose, ID: row.ID})
		}
		r.checkpoint(s, len(rows))
	}

	if err := r.workspace.Save(context.WithoutCancel(ctx)); err != nil {
		return s, err
	}
	return s, ctx.Err()
}

// FindImageURLs asks finder for an image of every row that has neither a
// WikiArt page nor a direct image URL yet, and writes hits to the
// wikipedia_url column. A lookup error leaves the row unresolved.
func (r *Reconciler) FindImageURLs(ctx context.Context, finder discovery.ImageFinder) (Summary, error) {
	var s Summary
	if r.workspace == nil {
		return s, ErrNoWorkspace
	}
	r.workspace.EnsureColumn(model.ColumnWikipediaURL)

	rows := r.workspace.Rows
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		s.Processed++
		switch r.State(row) {
		case model.StateConfirmedAbsent:
			s.Absent++
			continue
		case model.StateAssetCached:
			s.Cached++
			continue
		}
		if url, _ := row.SourceURL(); url != "" {
			s.Skipped++
			continue
		}

		imageURL, err := finder.FindImage(ctx, row.Title, row.Artist)
		switch {
		case errors.Is(err, discovery.ErrNotFound):
			s.NotFound++
			r.progress(ProgressEvent{Message: fmt.Sprintf("No %s image for %s by %s", finder.Name(), row.Title, row.Artist), Level: LevelVerbose, ID: row.ID})
		case err != nil:
			s.Failed++
			r.progress(ProgressEvent{Message: fmt.Sprintf("%s lookup for %s failed: %v", finder.Name(), row.Title, err), Level: LevelError, ID: row.ID})
		default:
			row.Set(model.ColumnWikipediaURL, imageURL)
			s.Found++
			r.progress(ProgressEvent{Message: fmt.Sprintf("Found %s", imageURL), Level: LevelSuccess, ID: row.ID})
		}
		r.checkpoint(s, len(rows))
	}

	if err := r.workspace.Save(context.WithoutCancel(ctx)); err != nil {
		return s, err
	}
	return s, ctx.Err()
}
