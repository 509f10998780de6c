package reconcile

import (
	"context"
	"fmt"
	"sort"

	ioutils "github.com/bmikle/paintings-ios/internal/io"
	"github.com/bmikle/paintings-ios/internal/model"
	"github.com/bmikle/paintings-ios/internal/store"
)

// ImageExts are the file extensions treated as assets by Cleanup and
// FindPlaceholders.
var ImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// MarkAbsent moves the given paintings to the confirmed-absent state.
//
// Every id is checked before anything is changed; an unknown id aborts the
// pass with store.ErrUnknownID. For each painting the imageName is cleared
// in every partition, the workspace row is marked and its source URLs
// cleared, and the asset file is deleted once no other record references it.
func (r *Reconciler) MarkAbsent(ctx context.Context, ids []string) (Summary, error) {
	var s Summary
	if r.workspace == nil {
		return s, ErrNoWorkspace
	}
	for _, id := range ids {
		if _, ok := r.store.Get(id); !ok {
			return s, fmt.Errorf("%s: %w", id, store.ErrUnknownID)
		}
	}

	r.workspace.EnsureColumn(model.ColumnAssetStatus)
	candidates := make(map[string]bool)
	for _, id := range ids {
		s.Processed++
		p, _ := r.store.Get(id)
		if p.HasImage() {
			candidates[p.ImageName] = true
		}
		if _, err := r.store.SetImageName(id, ""); err != nil {
			return s, err
		}

		row, ok := r.workspace.Row(id)
		if !ok {
			row = model.NewWorkspaceRow(p)
			r.workspace.Rows = append(r.workspace.Rows, row)
		}
		row.MarkAbsent()
		s.Absent++
		r.progress(ProgressEvent{Message: fmt.Sprintf("Marked absent: %s by %s", p.Title, p.Artist), Level: LevelSuccess, ID: id})
	}

	refs := r.store.ReferencedImages()
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if refs[name] > 0 {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Keeping %s: still referenced by %d records", name, refs[name]), Level: LevelWarning})
			continue
		}
		removed, err := ioutils.RemoveIfExists(r.assetPath(name))
		if err != nil {
			return s, fmt.Errorf("remove %s: %w", name, err)
		}
		if removed {
			s.Removed++
			r.progress(ProgressEvent{Message: fmt.Sprintf("Removed: %s", name), Level: LevelVerbose})
		}
	}

	return s, r.save(ctx)
}

// Cleanup deletes asset files that no record references and returns their
// names. With dryRun set nothing is deleted.
func (r *Reconciler) Cleanup(ctx context.Context, dryRun bool) ([]string, Summary, error) {
	var s Summary
	files, err := ioutils.ListFiles(r.imagesDir, ImageExts...)
	if err != nil {
		return nil, s, fmt.Errorf("list %s: %w", r.imagesDir, err)
	}

	refs := r.store.ReferencedImages()
	var orphans []string
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return orphans, s, err
		}
		s.Processed++
		if refs[name] > 0 {
			s.Cached++
			continue
		}
		orphans = append(orphans, name)
		if dryRun {
			s.Skipped++
			r.progress(ProgressEvent{Message: fmt.Sprintf("Would remove: %s", name), Level: LevelInfo})
			continue
		}
		if _, err := ioutils.RemoveIfExists(r.assetPath(name)); err != nil {
			return orphans, s, fmt.Errorf("remove %s: %w", name, err)
		}
		s.Removed++
		r.progress(ProgressEvent{Message: fmt.Sprintf("Removed: %s", name), Level: LevelSuccess})
	}
	return orphans, s, nil
}

// PlaceholderGroup is a set of paintings whose cached images have identical
// content. Distinct paintings rarely share an image, so such groups usually
// hold a provider's "image not available" picture.
type PlaceholderGroup struct {
	Hash      string
	Files     []string
	Paintings []*model.Painting
}

// FindPlaceholders hashes every referenced asset and returns the groups of
// two or more paintings sharing identical content, ordered by first file.
func (r *Reconciler) FindPlaceholders(ctx context.Context) ([]PlaceholderGroup, error) {
	hashes := make(map[string]string)
	groups := make(map[string]*PlaceholderGroup)
	for _, p := range r.store.Unique() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.HasImage() || !r.assetExists(p.ImageName) {
			continue
		}

		hash, ok := hashes[p.ImageName]
		if !ok {
			var err error
			hash, err = ioutils.HashFile(r.assetPath(p.ImageName))
			if err != nil {
				return nil, fmt.Errorf("hash %s: %w", p.ImageName, err)
			}
			hashes[p.ImageName] = hash
		}

		g, ok := groups[hash]
		if !ok {
			g = &PlaceholderGroup{Hash: hash}
			groups[hash] = g
		}
		if !contains(g.Files, p.ImageName) {
			g.Files = append(g.Files, p.ImageName)
		}
		g.Paintings = append(g.Paintings, p)
	}

	var out []PlaceholderGroup
	for _, g := range groups {
		if len(g.Paintings) < 2 {
			continue
		}
		sort.Strings(g.Files)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Files[0] < out[j].Files[0]
	})
	return out, nil
}

// PeriodStatus counts cached and missing assets of one period.
type PeriodStatus struct {
	Period  string
	Total   int
	Cached  int
	Missing int
}

// Report returns per-period asset totals sorted by period.
func (r *Reconciler) Report() []PeriodStatus {
	byPeriod := make(map[string]*PeriodStatus)
	for _, p := range r.store.Unique() {
		st, ok := byPeriod[p.Period]
		if !ok {
			st = &PeriodStatus{Period: p.Period}
			byPeriod[p.Period] = st
		}
		st.Total++
		if p.HasImage() && r.assetExists(p.ImageName) {
			st.Cached++
		} else {
			st.Missing++
		}
	}

	out := make([]PeriodStatus, 0, len(byPeriod))
	for _, st := range byPeriod {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period < out[j].Period
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
