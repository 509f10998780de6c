package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate ensures the configuration is usable.
func (s *Settings) Validate() error {
	if err := s.validateHTTP(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.validateDiscovery(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.validateImages(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.validateLogging(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.Report.ProgressEvery < 0 {
		return fmt.Errorf("%w: report.progress_every must not be negative", ErrInvalid)
	}
	return nil
}

func (s *Settings) validateHTTP() error {
	if s.HTTP.UserAgent == "" {
		return errors.New("http.user_agent must be set")
	}
	timeouts := map[string]float64{
		"http.check_timeout":    s.HTTP.CheckTimeout,
		"http.page_timeout":     s.HTTP.PageTimeout,
		"http.download_timeout": s.HTTP.DownloadTimeout,
	}
	for name, v := range timeouts {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	delays := map[string]float64{
		"http.check_delay":    s.HTTP.CheckDelay,
		"http.search_delay":   s.HTTP.SearchDelay,
		"http.download_delay": s.HTTP.DownloadDelay,
	}
	for name, v := range delays {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (s *Settings) validateDiscovery() error {
	if s.Discovery.WikiArtBaseURL == "" {
		return errors.New("discovery.wikiart_base_url must be set")
	}
	if s.Discovery.SearchLimit <= 0 {
		return errors.New("discovery.search_limit must be positive")
	}
	if s.Discovery.MatchThreshold < 0 || s.Discovery.MatchThreshold > 1 {
		return errors.New("discovery.match_threshold must be between 0 and 1")
	}
	if _, err := regexp.Compile(s.Discovery.UploadHostPattern); err != nil {
		return fmt.Errorf("discovery.upload_host_pattern: %w", err)
	}
	return nil
}

func (s *Settings) validateImages() error {
	if s.Images.MaxDimension < 0 {
		return errors.New("images.max_dimension must not be negative")
	}
	if s.Images.JPEGQuality < 1 || s.Images.JPEGQuality > 100 {
		return errors.New("images.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (s *Settings) validateLogging() error {
	switch s.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s.Logging.Level)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", s.Logging.Format)
	}
	return nil
}
