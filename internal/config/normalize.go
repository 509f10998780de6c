package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (s *Settings) normalize() error {
	if err := s.normalizePaths(); err != nil {
		return err
	}
	s.normalizeDiscovery()
	s.normalizeLogging()
	return nil
}

func (s *Settings) normalizePaths() error {
	var err error
	if strings.TrimSpace(s.Paths.DataDir) == "" {
		s.Paths.DataDir = "."
	}
	if s.Paths.DataDir, err = expandPath(s.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{"paths.periods_dir", &s.Paths.PeriodsDir, defaultPeriodsDir},
		{"paths.flat_file", &s.Paths.FlatFile, defaultFlatFile},
		{"paths.workspace_csv", &s.Paths.WorkspaceCSV, defaultWorkspaceCSV},
		{"paths.images_dir", &s.Paths.ImagesDir, defaultImagesDir},
	}
	for _, f := range fields {
		v := strings.TrimSpace(*f.value)
		if v == "" {
			v = f.def
		}
		if !strings.HasPrefix(v, "~") && !filepath.IsAbs(v) {
			v = filepath.Join(s.Paths.DataDir, v)
		}
		if *f.value, err = expandPath(v); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func (s *Settings) normalizeDiscovery() {
	s.Discovery.WikiArtBaseURL = strings.TrimRight(strings.TrimSpace(s.Discovery.WikiArtBaseURL), "/")
	s.Discovery.WikidataAPIURL = strings.TrimSpace(s.Discovery.WikidataAPIURL)
	s.Discovery.WikipediaAPIURL = strings.TrimSpace(s.Discovery.WikipediaAPIURL)
	s.Discovery.CommonsAPIURL = strings.TrimSpace(s.Discovery.CommonsAPIURL)
}

func (s *Settings) normalizeLogging() {
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = "console"
	}
}
