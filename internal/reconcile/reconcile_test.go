package reconcile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bmikle/paintings-ios/internal/discovery"
	ioutils "github.com/bmikle/paintings-ios/internal/io"
	"github.com/bmikle/paintings-ios/internal/model"
	"github.com/bmikle/paintings-ios/internal/reconcile"
	"github.com/bmikle/paintings-ios/internal/store"
	"github.com/bmikle/paintings-ios/internal/testsupport"
)

var errMissing = errors.New("HTTP 404")

type fakeFetcher struct {
	pages  map[string]string
	images map[string]string
	errs   map[string]error
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:  make(map[string]string),
		images: make(map[string]string),
		errs:   make(map[string]error),
	}
}

func (f *fakeFetcher) GetString(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", errMissing
	}
	return page, nil
}

func (f *fakeFetcher) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	data, ok := f.images[url]
	if !ok {
		return nil, errMissing
	}
	return []byte(data), nil
}

// wikiArtPage registers a page whose og:image points at an image with content.
func (f *fakeFetcher) wikiArtPage(pageURL, imageURL, content string) {
	f.pages[pageURL] = `<html><head><meta property="og:image" content="` + imageURL + `"></head></html>`
	f.images[imageURL] = content
}

type run struct {
	store     *store.Store
	workspace *store.Workspace
	rec       *reconcile.Reconciler
	events    []reconcile.ProgressEvent
}

// newRun opens the dataset, loads the workspace (creating it on first use)
// and builds a reconciler around fetcher.
func newRun(t *testing.T, ds *testsupport.Dataset, fetcher reconcile.Fetcher) *run {
	t.Helper()

	st := ds.Open(t)
	ws, err := store.ReadWorkspace(store.OSFileSystem{}, ds.Workspace)
	if errors.Is(err, store.ErrNoData) {
		ws = store.NewWorkspace(store.OSFileSystem{}, ds.Workspace, st.Unique())
	} else {
		require.NoError(t, err)
	}

	r := &run{store: st, workspace: ws}
	r.rec = reconcile.NewReconciler(st, ws, fetcher, reconcile.Options{
		ImagesDir: ds.ImagesDir,
		Images:    ioutils.ImageOptions{ConvertToJPG: true},
	}, func(e reconcile.ProgressEvent) {
		r.events = append(r.events, e)
	})
	return r
}

func (r *run) setSource(t *testing.T, id, column, url string) {
	t.Helper()
	row, ok := r.workspace.Row(id)
	require.True(t, ok, "row %s", id)
	row.Set(column, url)
}

func imageNames(t *testing.T, ds *testsupport.Dataset) map[string]string {
	t.Helper()
	names := make(map[string]string)
	for _, p := range ds.Open(t).Records() {
		names[p.ID] = p.ImageName
	}
	return names
}

func readImage(t *testing.T, ds *testsupport.Dataset, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ds.ImagesDir, name))
	require.NoError(t, err)
	return string(data)
}

func TestDownload(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study (draft)", "1990", "Modern")
	night := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	unknown := testsupport.NewPainting("Cy Doe", "Field", "2001", "Modern")
	ds := testsupport.NewDataset(t, study, night, unknown)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study", "https://img.test/study.jpg", "STUDY")
	f.images["https://upload.test/night.jpg"] = "NIGHT"

	r := newRun(t, ds, f)
	r.setSource(t, study.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")
	r.workspace.EnsureColumn(model.ColumnWikipediaURL)
	r.setSource(t, night.ID, model.ColumnWikipediaURL, "https://upload.test/night.jpg")

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, s.Processed)
	require.Equal(t, 2, s.Downloaded)
	require.Equal(t, 1, s.Skipped)

	want := map[string]string{
		study.ID:   "ann-lee-study.jpg",
		night.ID:   "bob-roe-night.jpg",
		unknown.ID: "",
	}
	if diff := cmp.Diff(want, imageNames(t, ds)); diff != "" {
		t.Errorf("imageName mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "STUDY", readImage(t, ds, "ann-lee-study.jpg"))
	require.Equal(t, "NIGHT", readImage(t, ds, "bob-roe-night.jpg"))

	ws, err := store.ReadWorkspace(store.OSFileSystem{}, ds.Workspace)
	require.NoError(t, err)
	row, ok := ws.Row(night.ID)
	require.True(t, ok)
	require.Equal(t, "bob-roe-night.jpg", row.ImageName)
	require.Equal(t, "https://upload.test/night.jpg", row.Get(model.ColumnWikipediaURL))
}

func TestDownloadIsIdempotent(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	night := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	ds := testsupport.NewDataset(t, study, night)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study", "https://img.test/study.jpg", "STUDY")
	f.wikiArtPage("https://wikiart.test/bob-roe/night", "https://img.test/night.jpg", "NIGHT")

	r := newRun(t, ds, f)
	r.setSource(t, study.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")
	r.setSource(t, night.ID, model.ColumnWikiArtURL, "https://wikiart.test/bob-roe/night")
	_, err := r.rec.Download(context.Background())
	require.NoError(t, err)

	before := ds.ModTimes(t)
	calls := len(f.calls)

	again := newRun(t, ds, f)
	s, err := again.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, s.Cached)
	require.Zero(t, s.Downloaded)
	require.Len(t, f.calls, calls, "second run fetched again")
	if diff := cmp.Diff(before, ds.ModTimes(t)); diff != "" {
		t.Errorf("second run rewrote files (-before +after):\n%s", diff)
	}
}

func TestDownloadFailureLeavesRecordUnresolved(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	night := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	ds := testsupport.NewDataset(t, study, night)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study", "https://img.test/study.jpg", "STUDY")
	f.errs["https://img.test/study.jpg"] = context.DeadlineExceeded
	f.wikiArtPage("https://wikiart.test/bob-roe/night", "https://img.test/night.jpg", "NIGHT")

	r := newRun(t, ds, f)
	r.setSource(t, study.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")
	r.setSource(t, night.ID, model.ColumnWikiArtURL, "https://wikiart.test/bob-roe/night")

	modern := filepath.Join(ds.PeriodsDir, "modern.json")
	before := ds.ModTimes(t)

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Downloaded)

	names := imageNames(t, ds)
	require.Empty(t, names[study.ID])
	require.Equal(t, "bob-roe-night.jpg", names[night.ID])
	require.False(t, ds.ImageExists("ann-lee-study.jpg"))
	require.Equal(t, before[modern], ds.ModTimes(t)[modern], "partition without changes was rewritten")

	var sawError bool
	for _, e := range r.events {
		if e.Level == reconcile.LevelError && e.ID == study.ID {
			sawError = true
		}
	}
	require.True(t, sawError, "no error event for the failed record")
}

func TestDownloadUsesExistingFile(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	ds := testsupport.NewDataset(t, study)
	ds.WriteImage(t, "ann-lee-study.jpg", "OLD")

	f := newFakeFetcher()
	r := newRun(t, ds, f)
	r.setSource(t, study.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.Cached)
	require.Empty(t, f.calls)
	require.Equal(t, "ann-lee-study.jpg", imageNames(t, ds)[study.ID])
}

func TestDownloadSkipsUnresolvedCollision(t *testing.T) {
	a := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	b := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	ds := testsupport.NewDataset(t, a, b)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study", "https://img.test/study.jpg", "STUDY")
	r := newRun(t, ds, f)
	r.setSource(t, a.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")
	r.setSource(t, b.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, s.Skipped)
	require.Empty(t, f.calls)
}

func TestDownloadUsesDisambiguatedNames(t *testing.T) {
	a := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	b := testsupport.NewPainting("Ann Lee", "Study", "1991", "Modern")
	ds := testsupport.NewDataset(t, a, b)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1990", "https://img.test/a.jpg", "A")
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1991", "https://img.test/b.jpg", "B")
	r := newRun(t, ds, f)
	r.setSource(t, a.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1990")
	r.setSource(t, b.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1991")

	_, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A", readImage(t, ds, "ann-lee-study-1990.jpg"))
	require.Equal(t, "B", readImage(t, ds, "ann-lee-study-1991.jpg"))
	require.False(t, ds.ImageExists("ann-lee-study.jpg"))
}

func TestDownloadNeverSharesYearSuffixedName(t *testing.T) {
	a := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	b := testsupport.NewPainting("Ann Lee", "Study", "1991", "Modern")
	c := testsupport.NewPainting("Ann Lee", "Study 1990", "2005", "Modern")
	ds := testsupport.NewDataset(t, a, b, c)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1990", "https://img.test/a.jpg", "A")
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1991", "https://img.test/b.jpg", "B")
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1990-2005", "https://img.test/c.jpg", "C")
	r := newRun(t, ds, f)
	r.setSource(t, a.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1990")
	r.setSource(t, b.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1991")
	r.setSource(t, c.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1990-2005")

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.Downloaded)
	require.Equal(t, 2, s.Skipped)

	want := map[string]string{
		a.ID: "",
		b.ID: "",
		c.ID: "ann-lee-study-1990.jpg",
	}
	if diff := cmp.Diff(want, imageNames(t, ds)); diff != "" {
		t.Errorf("imageName mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "C", readImage(t, ds, "ann-lee-study-1990.jpg"))
	require.False(t, ds.ImageExists("ann-lee-study-1991.jpg"))

	results, _, err := r.rec.FixCollisions(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Unresolved)
	require.Equal(t, "C", readImage(t, ds, "ann-lee-study-1990.jpg"))
	if diff := cmp.Diff(want, imageNames(t, ds)); diff != "" {
		t.Errorf("FixCollisions changed imageName (-want +got):\n%s", diff)
	}
}

func TestDownloadCancelledSavesProgress(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	ds := testsupport.NewDataset(t, study)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRun(t, ds, newFakeFetcher())
	s, err := r.rec.Download(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, s.Processed)
	_, err = os.Stat(ds.Workspace)
	require.NoError(t, err, "workspace not saved after cancellation")
}

func TestDownloadWithoutWorkspace(t *testing.T) {
	ds := testsupport.NewDataset(t, testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern"))
	rec := reconcile.NewReconciler(ds.Open(t), nil, newFakeFetcher(), reconcile.Options{ImagesDir: ds.ImagesDir}, nil)

	_, err := rec.Download(context.Background())
	require.ErrorIs(t, err, reconcile.ErrNoWorkspace)
}

func collidingDataset(t *testing.T) (*testsupport.Dataset, *model.Painting, *model.Painting) {
	t.Helper()
	a := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	b := testsupport.NewPainting("Ann Lee", "Study", "1991", "Modern")
	a.ImageName = "ann-lee-study.jpg"
	b.ImageName = "ann-lee-study.jpg"
	ds := testsupport.NewDataset(t, a, b)
	ds.WriteImage(t, "ann-lee-study.jpg", "SHARED")
	return ds, a, b
}

func TestFixCollisionsPartialKeepsOriginal(t *testing.T) {
	ds, a, b := collidingDataset(t)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1990", "https://img.test/a.jpg", "A")
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1991", "https://img.test/b.jpg", "B")
	f.errs["https://img.test/b.jpg"] = context.DeadlineExceeded

	r := newRun(t, ds, f)
	r.setSource(t, a.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1990")
	r.setSource(t, b.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1991")

	results, s, err := r.rec.FixCollisions(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].Done)
	require.False(t, results[0].Removed)
	require.Equal(t, 1, s.Failed)

	require.True(t, ds.ImageExists("ann-lee-study.jpg"), "original removed before every member was fixed")
	names := imageNames(t, ds)
	require.Equal(t, "ann-lee-study-1990.jpg", names[a.ID])
	require.Equal(t, "ann-lee-study.jpg", names[b.ID])

	delete(f.errs, "https://img.test/b.jpg")
	again := newRun(t, ds, f)
	results, _, err = again.rec.FixCollisions(context.Background())
	require.NoError(t, err)
	require.True(t, results[0].Complete())
	require.True(t, results[0].Removed)
	require.False(t, ds.ImageExists("ann-lee-study.jpg"))
	require.Equal(t, "B", readImage(t, ds, "ann-lee-study-1991.jpg"))
	require.Equal(t, "ann-lee-study-1991.jpg", imageNames(t, ds)[b.ID])
}

func TestFixCollisionsAbsentMemberCountsAsDone(t *testing.T) {
	ds, a, b := collidingDataset(t)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study-1990", "https://img.test/a.jpg", "A")

	r := newRun(t, ds, f)
	r.setSource(t, a.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study-1990")
	row, _ := r.workspace.Row(b.ID)
	row.MarkAbsent()

	results, s, err := r.rec.FixCollisions(context.Background())
	require.NoError(t, err)
	require.True(t, results[0].Complete())
	require.Equal(t, 1, s.Absent)
	require.False(t, ds.ImageExists("ann-lee-study.jpg"))
	require.Empty(t, imageNames(t, ds)[b.ID])
}

func TestFixCollisionsSkipsUnresolvedGroups(t *testing.T) {
	a := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	b := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	a.ImageName = "ann-lee-study.jpg"
	ds := testsupport.NewDataset(t, a, b)
	ds.WriteImage(t, "ann-lee-study.jpg", "SHARED")

	f := newFakeFetcher()
	r := newRun(t, ds, f)
	results, s, err := r.rec.FixCollisions(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Unresolved)
	require.Equal(t, 2, s.Skipped)
	require.Empty(t, f.calls)
	require.True(t, ds.ImageExists("ann-lee-study.jpg"))
}

func TestMarkAbsent(t *testing.T) {
	splash := testsupport.NewPainting("David Hockney", "A Bigger Splash", "1967", "Pop Art")
	pool := testsupport.NewPainting("David Hockney", "Peter Getting Out of Nick's Pool", "1966", "Pop Art")
	splash.ImageName = "david-hockney-a-bigger-splash.jpg"
	pool.ImageName = "david-hockney-a-bigger-splash.jpg"
	ds := testsupport.NewDataset(t, splash, pool)
	ds.WriteImage(t, "david-hockney-a-bigger-splash.jpg", "PLACEHOLDER")

	r := newRun(t, ds, newFakeFetcher())
	r.setSource(t, pool.ID, model.ColumnWikiArtURL, "https://wikiart.test/david-hockney/peter")

	s, err := r.rec.MarkAbsent(context.Background(), []string{pool.ID})
	require.NoError(t, err)
	require.Equal(t, 1, s.Absent)
	require.Zero(t, s.Removed)
	require.True(t, ds.ImageExists("david-hockney-a-bigger-splash.jpg"), "file still referenced by another record")

	ws, err := store.ReadWorkspace(store.OSFileSystem{}, ds.Workspace)
	require.NoError(t, err)
	row, _ := ws.Row(pool.ID)
	require.True(t, row.IsAbsent())
	require.Empty(t, row.Get(model.ColumnWikiArtURL))
	require.Empty(t, row.ImageName)

	again := newRun(t, ds, newFakeFetcher())
	s, err = again.rec.MarkAbsent(context.Background(), []string{splash.ID})
	require.NoError(t, err)
	require.Equal(t, 1, s.Removed)
	require.False(t, ds.ImageExists("david-hockney-a-bigger-splash.jpg"))

	want := map[string]string{splash.ID: "", pool.ID: ""}
	if diff := cmp.Diff(want, imageNames(t, ds)); diff != "" {
		t.Errorf("imageName mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkAbsentUnknownIDChangesNothing(t *testing.T) {
	splash := testsupport.NewPainting("David Hockney", "A Bigger Splash", "1967", "Pop Art")
	splash.ImageName = "david-hockney-a-bigger-splash.jpg"
	ds := testsupport.NewDataset(t, splash)
	ds.WriteImage(t, "david-hockney-a-bigger-splash.jpg", "IMG")

	r := newRun(t, ds, newFakeFetcher())
	_, err := r.rec.MarkAbsent(context.Background(), []string{splash.ID, "missing"})
	require.ErrorIs(t, err, store.ErrUnknownID)
	require.True(t, ds.ImageExists("david-hockney-a-bigger-splash.jpg"))
	require.Equal(t, "david-hockney-a-bigger-splash.jpg", imageNames(t, ds)[splash.ID])
}

func TestDownloadSkipsAbsentRows(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	ds := testsupport.NewDataset(t, study)

	f := newFakeFetcher()
	f.wikiArtPage("https://wikiart.test/ann-lee/study", "https://img.test/study.jpg", "PLACEHOLDER")
	r := newRun(t, ds, f)
	_, err := r.rec.MarkAbsent(context.Background(), []string{study.ID})
	require.NoError(t, err)
	r.setSource(t, study.ID, model.ColumnWikiArtURL, "https://wikiart.test/ann-lee/study")

	s, err := r.rec.Download(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.Absent)
	require.Empty(t, f.calls)
}

func TestCleanup(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	study.ImageName = "ann-lee-study.jpg"
	ds := testsupport.NewDataset(t, study)
	ds.WriteImage(t, "ann-lee-study.jpg", "KEEP")
	ds.WriteImage(t, "old-name.jpg", "ORPHAN")
	ds.WriteImage(t, "notes.txt", "not an image")

	r := newRun(t, ds, newFakeFetcher())

	orphans, s, err := r.rec.Cleanup(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, []string{"old-name.jpg"}, orphans)
	require.Zero(t, s.Removed)
	require.True(t, ds.ImageExists("old-name.jpg"))

	orphans, s, err = r.rec.Cleanup(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"old-name.jpg"}, orphans)
	require.Equal(t, 1, s.Removed)
	require.False(t, ds.ImageExists("old-name.jpg"))
	require.True(t, ds.ImageExists("ann-lee-study.jpg"))
	require.True(t, ds.ImageExists("notes.txt"))
}

func TestFindPlaceholders(t *testing.T) {
	splash := testsupport.NewPainting("David Hockney", "A Bigger Splash", "1967", "Pop Art")
	pool := testsupport.NewPainting("David Hockney", "Nick's Pool", "1966", "Pop Art")
	soup := testsupport.NewPainting("Andy Warhol", "Soup Cans", "1962", "Pop Art")
	splash.ImageName = "splash.jpg"
	pool.ImageName = "pool.jpg"
	soup.ImageName = "soup.jpg"
	ds := testsupport.NewDataset(t, splash, pool, soup)
	ds.WriteImage(t, "splash.jpg", "NOT AVAILABLE")
	ds.WriteImage(t, "pool.jpg", "NOT AVAILABLE")
	ds.WriteImage(t, "soup.jpg", "SOUP")

	r := newRun(t, ds, newFakeFetcher())
	groups, err := r.rec.FindPlaceholders(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, []string{"pool.jpg", "splash.jpg"}, groups[0].Files)

	var ids []string
	for _, p := range groups[0].Paintings {
		ids = append(ids, p.ID)
	}
	require.ElementsMatch(t, []string{splash.ID, pool.ID}, ids)
}

func TestReportAndState(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	night := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	field := testsupport.NewPainting("Cy Doe", "Field", "2001", "Modern")
	study.ImageName = "ann-lee-study.jpg"
	night.ImageName = "bob-roe-night.jpg" // file missing
	ds := testsupport.NewDataset(t, study, night, field)
	ds.WriteImage(t, "ann-lee-study.jpg", "IMG")

	r := newRun(t, ds, newFakeFetcher())
	r.setSource(t, field.ID, model.ColumnWikiArtURL, "https://wikiart.test/cy-doe/field")

	want := []reconcile.PeriodStatus{
		{Period: "Baroque", Total: 1, Missing: 1},
		{Period: "Modern", Total: 2, Cached: 1, Missing: 1},
	}
	if diff := cmp.Diff(want, r.rec.Report()); diff != "" {
		t.Errorf("Report() mismatch (-want +got):\n%s", diff)
	}

	states := map[string]model.AssetState{}
	for _, row := range r.workspace.Rows {
		states[row.ID] = r.rec.State(row)
	}
	require.Equal(t, model.StateAssetCached, states[study.ID])
	require.Equal(t, model.StateUnresolved, states[night.ID])
	require.Equal(t, model.StateURLFound, states[field.ID])

	row, _ := r.workspace.Row(study.ID)
	ref := r.rec.Reference(row)
	require.Equal(t, "ann-lee-study.jpg", ref.Filename)
	require.True(t, ref.Exists)

	row, _ = r.workspace.Row(field.ID)
	ref = r.rec.Reference(row)
	require.Equal(t, "cy-doe-field.jpg", ref.Filename)
	require.False(t, ref.Exists)
	require.Equal(t, model.ProviderWikiArt, ref.Provider)
}

type fakeChecker map[string]bool

func (p fakeChecker) Exists(_ context.Context, url string) bool { return p[url] }

func TestFindWikiArtURLs(t *testing.T) {
	bathers := testsupport.NewPainting("Paul Cézanne", "The Bathers", "1906", "Post-Impressionism")
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	cached := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	cached.ImageName = "bob-roe-night.jpg"
	ds := testsupport.NewDataset(t, bathers, study, cached)
	ds.WriteImage(t, "bob-roe-night.jpg", "IMG")

	checker := fakeChecker{"https://www.wikiart.org/en/paul-cezanne/the-bathers-1906": true}
	r := newRun(t, ds, newFakeFetcher())
	s, err := r.rec.FindWikiArtURLs(context.Background(), discovery.Candidates{BaseURL: "https://www.wikiart.org/en"}, checker)
	require.NoError(t, err)
	require.Equal(t, 1, s.Found)
	require.Equal(t, 1, s.NotFound)
	require.Equal(t, 1, s.Cached)

	ws, err := store.ReadWorkspace(store.OSFileSystem{}, ds.Workspace)
	require.NoError(t, err)
	row, _ := ws.Row(bathers.ID)
	require.Equal(t, "https://www.wikiart.org/en/paul-cezanne/the-bathers-1906", row.Get(model.ColumnWikiArtURL))
	row, _ = ws.Row(study.ID)
	require.Empty(t, row.Get(model.ColumnWikiArtURL))
}

type fakeFinder map[string]string

func (f fakeFinder) Name() string { return "fake" }

func (f fakeFinder) FindImage(_ context.Context, title, _ string) (string, error) {
	if title == "Broken" {
		return "", errMissing
	}
	if url, ok := f[title]; ok {
		return url, nil
	}
	return "", discovery.ErrNotFound
}

func TestFindImageURLs(t *testing.T) {
	study := testsupport.NewPainting("Ann Lee", "Study", "1990", "Modern")
	field := testsupport.NewPainting("Cy Doe", "Field", "2001", "Modern")
	broken := testsupport.NewPainting("Dee Fox", "Broken", "1999", "Modern")
	paged := testsupport.NewPainting("Bob Roe", "Night", "1920", "Baroque")
	ds := testsupport.NewDataset(t, study, field, broken, paged)

	r := newRun(t, ds, newFakeFetcher())
	r.setSource(t, paged.ID, model.ColumnWikiArtURL, "https://wikiart.test/bob-roe/night")

	finder := fakeFinder{"Study": "https://upload.test/study.jpg", "Night": "https://upload.test/night.jpg"}
	s, err := r.rec.FindImageURLs(context.Background(), finder)
	require.NoError(t, err)
	require.Equal(t, 1, s.Found)
	require.Equal(t, 1, s.NotFound)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)

	ws, err := store.ReadWorkspace(store.OSFileSystem{}, ds.Workspace)
	require.NoError(t, err)
	require.True(t, ws.HasColumn(model.ColumnWikipediaURL))
	row, _ := ws.Row(study.ID)
	require.Equal(t, "https://upload.test/study.jpg", row.Get(model.ColumnWikipediaURL))
	row, _ = ws.Row(paged.ID)
	require.Empty(t, row.Get(model.ColumnWikipediaURL))
}

func TestGenerateCandidates(t *testing.T) {
	bathers := testsupport.NewPainting("Paul Cézanne", "The Bathers (large)", "1906", "Post-Impressionism")
	ds := testsupport.NewDataset(t, bathers)

	r := newRun(t, ds, newFakeFetcher())
	s, err := r.rec.GenerateCandidates(context.Background(), discovery.Candidates{BaseURL: "https://www.wikiart.org/en"})
	require.NoError(t, err)
	require.Equal(t, 1, s.Found)

	row, _ := r.workspace.Row(bathers.ID)
	require.Equal(t, "https://www.wikiart.org/en/paul-cézanne/the-bathers", row.Get(model.ColumnWikiArtURL))
	require.Equal(t, "https://www.wikiart.org/en/paul-cézanne/the-bathers-1906", row.Get(model.ColumnWikiArtURLWithYear))
}
