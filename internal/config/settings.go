package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Paths locates the dataset, the CSV workspace and the asset directory.
// Relative paths are resolved against DataDir.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	PeriodsDir   string `toml:"periods_dir"`
	FlatFile     string `toml:"flat_file"`
	WorkspaceCSV string `toml:"workspace_csv"`
	ImagesDir    string `toml:"images_dir"`
}

// HTTP holds request identity, timeouts and pacing. Durations are seconds.
type HTTP struct {
	UserAgent       string  `toml:"user_agent"`
	CheckTimeout    float64 `toml:"check_timeout"`
	PageTimeout     float64 `toml:"page_timeout"`
	DownloadTimeout float64 `toml:"download_timeout"`
	CheckDelay      float64 `toml:"check_delay"`
	SearchDelay     float64 `toml:"search_delay"`
	DownloadDelay   float64 `toml:"download_delay"`
}

// Discovery configures the remote catalogues searched for image sources.
type Discovery struct {
	WikiArtBaseURL    string  `toml:"wikiart_base_url"`
	WikidataAPIURL    string  `toml:"wikidata_api_url"`
	WikipediaAPIURL   string  `toml:"wikipedia_api_url"`
	CommonsAPIURL     string  `toml:"commons_api_url"`
	SearchLimit       int     `toml:"search_limit"`
	MatchThreshold    float64 `toml:"match_threshold"`
	UploadHostPattern string  `toml:"upload_host_pattern"`
}

// Images controls how fetched assets are normalised before caching.
type Images struct {
	ConvertToJPG bool `toml:"convert_to_jpg"`
	MaxDimension int  `toml:"max_dimension"` // 0 keeps the original size
	JPEGQuality  int  `toml:"jpeg_quality"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console, json
}

// Report controls batch progress output.
type Report struct {
	ProgressEvery int `toml:"progress_every"`
}

// Settings holds all configuration options.
type Settings struct {
	Paths     Paths     `toml:"paths"`
	HTTP      HTTP      `toml:"http"`
	Discovery Discovery `toml:"discovery"`
	Images    Images    `toml:"images"`
	Logging   Logging   `toml:"logging"`
	Report    Report    `toml:"report"`
}

// Default file names inside the data directory.
const (
	defaultPeriodsDir   = "paintings_ios/Resources/Data/Periods"
	defaultFlatFile     = "paintings_ios/Resources/Data/paintings.json"
	defaultWorkspaceCSV = "paintings_wikiart_urls.csv"
	defaultImagesDir    = "paintings_ios/Resources/Images"

	// ProjectFileName is looked up in the working directory.
	ProjectFileName = "curator.toml"
)

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Paths: Paths{
			DataDir:      ".",
			PeriodsDir:   defaultPeriodsDir,
			FlatFile:     defaultFlatFile,
			WorkspaceCSV: defaultWorkspaceCSV,
			ImagesDir:    defaultImagesDir,
		},
		HTTP: HTTP{
			UserAgent:       "Mozilla/5.0",
			CheckTimeout:    2,
			PageTimeout:     10,
			DownloadTimeout: 30,
			CheckDelay:      0.1,
			SearchDelay:     0.3,
			DownloadDelay:   0.5,
		},
		Discovery: Discovery{
			WikiArtBaseURL:    "https://www.wikiart.org/en",
			WikidataAPIURL:    "https://www.wikidata.org/w/api.php",
			WikipediaAPIURL:   "https://en.wikipedia.org/w/api.php",
			CommonsAPIURL:     "https://commons.wikimedia.org/w/api.php",
			SearchLimit:       5,
			MatchThreshold:    0.7,
			UploadHostPattern: `https://uploads\d+\.wikiart\.org/images/[^"'\s]+\.jpg`,
		},
		Images: Images{
			ConvertToJPG: true,
			MaxDimension: 0,
			JPEGQuality:  90,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Report: Report{
			ProgressEvery: 25,
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/paintings-curator/config.toml")
}

// Load resolves, parses, normalises and validates a configuration file.
//
// An explicit path is used as given. Otherwise ./curator.toml is preferred
// over the per-user file. A missing file yields the defaults. The resolved
// path and whether it existed are returned alongside the settings.
func Load(path string) (*Settings, string, bool, error) {
	settings := DefaultSettings()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := settings.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := settings.Validate(); err != nil {
		return nil, "", false, err
	}
	return settings, resolved, exists, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectFileName)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// CheckTimeoutDuration is the HEAD request timeout.
func (h HTTP) CheckTimeoutDuration() time.Duration { return seconds(h.CheckTimeout) }

// PageTimeoutDuration is the HTML page and API request timeout.
func (h HTTP) PageTimeoutDuration() time.Duration { return seconds(h.PageTimeout) }

// DownloadTimeoutDuration is the asset download timeout.
func (h HTTP) DownloadTimeoutDuration() time.Duration { return seconds(h.DownloadTimeout) }

// CheckDelayDuration is the pause between URL existence checks.
func (h HTTP) CheckDelayDuration() time.Duration { return seconds(h.CheckDelay) }

// SearchDelayDuration is the pause between catalogue searches.
func (h HTTP) SearchDelayDuration() time.Duration { return seconds(h.SearchDelay) }

// DownloadDelayDuration is the pause between asset downloads.
func (h HTTP) DownloadDelayDuration() time.Duration { return seconds(h.DownloadDelay) }

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// ExpandPath applies the configuration path rules: "~" expands to the home
// directory and the result is absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else if len(path) > 1 && (path[1] == '/' || path[1] == '\\') {
			path = filepath.Join(home, path[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return absolute, nil
}
