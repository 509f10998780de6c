package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/bmikle/paintings-ios/internal/config"
	"github.com/bmikle/paintings-ios/internal/model"
	"github.com/bmikle/paintings-ios/internal/store"
)

// NewPainting returns a painting with a random id.
func NewPainting(artist, title string, year model.Year, period string) *model.Painting {
	return &model.Painting{
		ID:       uuid.NewString(),
		Title:    title,
		Artist:   artist,
		Year:     year,
		Period:   period,
		Museum:   "Museum of Testing",
		Location: "Nowhere",
	}
}

// Dataset is an on-disk dataset rooted in a temporary directory.
type Dataset struct {
	Settings   *config.Settings
	PeriodsDir string
	ImagesDir  string
	Workspace  string
}

// NewDataset writes paintings as period partition files under a fresh temp
// directory and returns settings pointing at it. Delays are zeroed and
// timeouts shortened.
func NewDataset(t testing.TB, paintings ...*model.Painting) *Dataset {
	t.Helper()

	base := t.TempDir()
	s := config.DefaultSettings()
	s.Paths.DataDir = base
	s.Paths.PeriodsDir = filepath.Join(base, "periods")
	s.Paths.FlatFile = filepath.Join(base, "paintings.json")
	s.Paths.WorkspaceCSV = filepath.Join(base, "workspace.csv")
	s.Paths.ImagesDir = filepath.Join(base, "images")
	s.HTTP.CheckDelay = 0
	s.HTTP.SearchDelay = 0
	s.HTTP.DownloadDelay = 0
	s.HTTP.CheckTimeout = 0.5
	s.HTTP.PageTimeout = 0.5
	s.HTTP.DownloadTimeout = 0.5

	if err := os.MkdirAll(s.Paths.ImagesDir, 0o755); err != nil {
		t.Fatalf("create images dir: %v", err)
	}
	if len(paintings) > 0 {
		if _, err := store.WritePartitions(context.Background(), store.OSFileSystem{}, s.Paths.PeriodsDir, paintings); err != nil {
			t.Fatalf("write partitions: %v", err)
		}
	}

	return &Dataset{
		Settings:   s,
		PeriodsDir: s.Paths.PeriodsDir,
		ImagesDir:  s.Paths.ImagesDir,
		Workspace:  s.Paths.WorkspaceCSV,
	}
}

// WriteConfig saves the dataset settings as a TOML file inside the dataset
// directory and returns its path.
func (d *Dataset) WriteConfig(t testing.TB) string {
	t.Helper()
	path := filepath.Join(d.Settings.Paths.DataDir, config.ProjectFileName)
	if err := d.Settings.Save(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// WriteImage creates an asset file with content.
func (d *Dataset) WriteImage(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(d.ImagesDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write image %s: %v", name, err)
	}
	return path
}

// ImageExists reports whether the asset file exists.
func (d *Dataset) ImageExists(name string) bool {
	_, err := os.Stat(filepath.Join(d.ImagesDir, name))
	return err == nil
}

// Open loads the partitioned store.
func (d *Dataset) Open(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.OpenPartitioned(store.OSFileSystem{}, d.PeriodsDir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

// ModTimes snapshots the modification time of the workspace CSV and every
// partition and asset file.
func (d *Dataset) ModTimes(t testing.TB) map[string]int64 {
	t.Helper()
	times := make(map[string]int64)
	if info, err := os.Stat(d.Workspace); err == nil {
		times[d.Workspace] = info.ModTime().UnixNano()
	}
	for _, dir := range []string{d.PeriodsDir, d.ImagesDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				t.Fatalf("stat %s: %v", e.Name(), err)
			}
			times[filepath.Join(dir, e.Name())] = info.ModTime().UnixNano()
		}
	}
	return times
}
