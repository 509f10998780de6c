package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bmikle/paintings-ios/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "absent.toml")

	settings, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported absent")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if settings.HTTP.UserAgent != "Mozilla/5.0" {
		t.Fatalf("unexpected user agent: %q", settings.HTTP.UserAgent)
	}
	if got := settings.HTTP.CheckTimeoutDuration(); got != 2*time.Second {
		t.Fatalf("check timeout = %v, want 2s", got)
	}
	if got := settings.HTTP.DownloadDelayDuration(); got != 500*time.Millisecond {
		t.Fatalf("download delay = %v, want 500ms", got)
	}
	if !filepath.IsAbs(settings.Paths.PeriodsDir) {
		t.Fatalf("periods dir should be absolute: %q", settings.Paths.PeriodsDir)
	}
}

func TestLoadResolvesRelativePathsAgainstDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curator.toml")
	content := `
[paths]
data_dir = "` + filepath.ToSlash(dir) + `"
images_dir = "assets"
flat_file = "/tmp/flat.json"

[http]
check_delay = 0.25

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if want := filepath.Join(dir, "assets"); settings.Paths.ImagesDir != want {
		t.Fatalf("images dir = %q, want %q", settings.Paths.ImagesDir, want)
	}
	if settings.Paths.FlatFile != "/tmp/flat.json" {
		t.Fatalf("flat file = %q", settings.Paths.FlatFile)
	}
	if want := filepath.Join(dir, "paintings_wikiart_urls.csv"); settings.Paths.WorkspaceCSV != want {
		t.Fatalf("workspace = %q, want %q", settings.Paths.WorkspaceCSV, want)
	}
	if got := settings.HTTP.CheckDelayDuration(); got != 250*time.Millisecond {
		t.Fatalf("check delay = %v", got)
	}
	if settings.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", settings.Logging.Level)
	}
	if settings.HTTP.PageTimeout != config.DefaultSettings().HTTP.PageTimeout {
		t.Fatalf("unset page timeout should keep default, got %v", settings.HTTP.PageTimeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero timeout", "[http]\ncheck_timeout = 0\n"},
		{"negative delay", "[http]\ndownload_delay = -1\n"},
		{"threshold out of range", "[discovery]\nmatch_threshold = 1.5\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad pattern", "[discovery]\nupload_host_pattern = \"(\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "curator.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curator.toml")
	if err := os.WriteFile(path, []byte("[http\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "curator.toml")
	settings := config.DefaultSettings()
	settings.Discovery.SearchLimit = 9
	settings.Images.MaxDimension = 2048

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Discovery.SearchLimit != 9 {
		t.Fatalf("search limit = %d, want 9", loaded.Discovery.SearchLimit)
	}
	if loaded.Images.MaxDimension != 2048 {
		t.Fatalf("max dimension = %d, want 2048", loaded.Images.MaxDimension)
	}
}
