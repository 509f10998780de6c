package reconcile

import (
	"context"
	"fmt"

	"github.com/bmikle/paintings-ios/internal/identity"
	ioutils "github.com/bmikle/paintings-ios/internal/io"
	"github.com/bmikle/paintings-ios/internal/model"
)

// CollisionResult reports the remediation of one collision group.
type CollisionResult struct {
	identity.Collision

	// Done counts members cached under their disambiguated filename or
	// confirmed-absent.
	Done int

	// Removed is true when the shared base file was deleted.
	Removed bool
}

// Complete reports whether every member is done.
func (c CollisionResult) Complete() bool {
	return !c.Unresolved && c.Done == len(c.Members)
}

// FixCollisions re-keys every painting whose base filename is shared with
// another painting.
//
// Each member of a resolvable group is fetched under its year-suffixed
// filename. The shared base file is deleted only once every member is
// cached or confirmed-absent; a partially fixed group keeps it so no
// record loses its image. Unresolved groups are reported and left alone.
func (r *Reconciler) FixCollisions(ctx context.Context) ([]CollisionResult, Summary, error) {
	var s Summary
	if r.workspace == nil {
		return nil, s, ErrNoWorkspace
	}
	if err := ioutils.EnsureDir(r.imagesDir); err != nil {
		return nil, s, fmt.Errorf("create images dir: %w", err)
	}

	collisions := identity.FindCollisions(r.store.Unique())
	r.progress(ProgressEvent{Message: fmt.Sprintf("Found %d filename collisions", len(collisions)), Level: LevelInfo})

	var results []CollisionResult
	for _, c := range collisions {
		if ctx.Err() != nil {
			break
		}
		res := CollisionResult{Collision: c}

		if c.Unresolved {
			for _, m := range c.Members {
				if m.Err != nil {
					r.progress(ProgressEvent{
						Message: fmt.Sprintf("Cannot disambiguate %s (%s): %v", m.Painting.Title, m.Painting.Year, m.Err),
						Level:   LevelWarning,
						ID:      m.Painting.ID,
					})
				}
			}
			s.Processed += len(c.Members)
			s.Skipped += len(c.Members)
			results = append(results, res)
			continue
		}

		r.progress(ProgressEvent{Message: fmt.Sprintf("Fixing collision: %s (%d paintings)", c.Filename, len(c.Members)), Level: LevelInfo})
		for _, m := range c.Members {
			s.Processed++
			if r.fixMember(ctx, m, &s) {
				res.Done++
			}
		}

		if res.Complete() {
			removed, err := ioutils.RemoveIfExists(r.assetPath(c.Filename))
			if err != nil {
				r.progress(ProgressEvent{Message: fmt.Sprintf("Remove %s: %v", c.Filename, err), Level: LevelError})
			} else if removed {
				res.Removed = true
				s.Removed++
				r.progress(ProgressEvent{Message: fmt.Sprintf("Removed old file: %s", c.Filename), Level: LevelSuccess})
			}
		} else {
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("Keeping %s: %d of %d paintings fixed", c.Filename, res.Done, len(c.Members)),
				Level:   LevelWarning,
			})
		}
		results = append(results, res)
	}

	if err := r.save(ctx); err != nil {
		return results, s, err
	}
	return results, s, ctx.Err()
}

// fixMember caches one member under its disambiguated filename and reports
// whether it is done.
func (r *Reconciler) fixMember(ctx context.Context, m identity.Member, s *Summary) bool {
	row, ok := r.workspace.Row(m.Painting.ID)
	if !ok {
		row = model.NewWorkspaceRow(m.Painting)
	}
	if row.IsAbsent() {
		if _, err := r.store.SetImageName(row.ID, ""); err != nil {
			r.progress(ProgressEvent{Message: err.Error(), Level: LevelError, ID: row.ID})
			s.Failed++
			return false
		}
		s.Absent++
		return true
	}

	if r.assetExists(m.Filename) {
		if err := r.setImageName(row, m.Filename); err != nil {
			r.progress(ProgressEvent{Message: err.Error(), Level: LevelError, ID: row.ID})
			s.Failed++
			return false
		}
		s.Cached++
		return true
	}

	url, provider := row.SourceURL()
	if url == "" {
		r.progress(ProgressEvent{Message: fmt.Sprintf("No source URL for %s", m.Filename), Level: LevelWarning, ID: row.ID})
		s.Skipped++
		return false
	}

	r.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s", m.Filename), Level: LevelInfo, ID: row.ID})
	if err := r.fetchAsset(ctx, url, provider, m.Filename); err != nil {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", m.Filename, err), Level: LevelError, ID: row.ID})
		s.Failed++
		return false
	}
	if err := r.setImageName(row, m.Filename); err != nil {
		r.progress(ProgressEvent{Message: err.Error(), Level: LevelError, ID: row.ID})
		s.Failed++
		return false
	}
	r.progress(ProgressEvent{Message: fmt.Sprintf("Saved: %s", m.Filename), Level: LevelSuccess, ID: row.ID})
	s.Downloaded++
	return true
}
