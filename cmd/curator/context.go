package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/bmikle/paintings-ios/internal/config"
	"github.com/bmikle/paintings-ios/internal/discovery"
	curatorhttp "github.com/bmikle/paintings-ios/internal/http"
	ioutils "github.com/bmikle/paintings-ios/internal/io"
	"github.com/bmikle/paintings-ios/internal/logging"
	"github.com/bmikle/paintings-ios/internal/reconcile"
	"github.com/bmikle/paintings-ios/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool

	settingsOnce sync.Once
	settings     *config.Settings
	logger       *slog.Logger
	settingsErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		settings, _, _, err := config.Load(path)
		if err != nil {
			c.settingsErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			settings.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		logger, err := logging.NewFromSettings(settings)
		if err != nil {
			c.settingsErr = err
			return
		}
		c.settings = settings
		c.logger = logger
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

type workspaceMode int

const (
	withoutWorkspace workspaceMode = iota
	requireWorkspace
	createWorkspace
)

// session holds everything one command needs while the data directory lock
// is held.
type session struct {
	settings  *config.Settings
	logger    *slog.Logger
	store     *store.Store
	workspace *store.Workspace

	lock *flock.Flock
}

func (s *session) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// openSession locks the data directory and loads the partitioned dataset and,
// depending on mode, the workspace CSV.
func (c *commandContext) openSession(mode workspaceMode) (*session, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}

	lock, err := store.Lock(settings.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	s := &session{settings: settings, logger: c.logger, lock: lock}

	fsys := store.OSFileSystem{}
	s.store, err = store.OpenPartitioned(fsys, settings.Paths.PeriodsDir)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	switch mode {
	case requireWorkspace, createWorkspace:
		s.workspace, err = store.ReadWorkspace(fsys, settings.Paths.WorkspaceCSV)
		if errors.Is(err, store.ErrNoData) && mode == createWorkspace {
			s.workspace = store.NewWorkspace(fsys, settings.Paths.WorkspaceCSV, s.store.Unique())
			err = nil
		}
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("load workspace: %w", err)
		}
	}
	return s, nil
}

// withSession runs fn inside an open session and releases the lock after.
func (c *commandContext) withSession(mode workspaceMode, fn func(*session) error) error {
	s, err := c.openSession(mode)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// withLock runs fn while holding the data directory lock without loading
// the dataset.
func (c *commandContext) withLock(fn func(*config.Settings) error) error {
	settings, err := c.ensureSettings()
	if err != nil {
		return err
	}
	lock, err := store.Lock(settings.Paths.DataDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()
	return fn(settings)
}

// client builds an HTTP client paced by delay.
func (s *session) client(delay time.Duration) *curatorhttp.Client {
	h := s.settings.HTTP
	return curatorhttp.NewClient(curatorhttp.Options{
		UserAgent:       h.UserAgent,
		CheckTimeout:    h.CheckTimeoutDuration(),
		PageTimeout:     h.PageTimeoutDuration(),
		DownloadTimeout: h.DownloadTimeoutDuration(),
		Delay:           delay,
	})
}

func (s *session) reconciler(fetcher reconcile.Fetcher, out io.Writer, verbose bool) (*reconcile.Reconciler, error) {
	var pattern *regexp.Regexp
	if p := s.settings.Discovery.UploadHostPattern; p != "" {
		var err error
		if pattern, err = regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("discovery.upload_host_pattern: %w", err)
		}
	}

	opts := reconcile.Options{
		ImagesDir:     s.settings.Paths.ImagesDir,
		ProgressEvery: s.settings.Report.ProgressEvery,
		Images: ioutils.ImageOptions{
			ConvertToJPG: s.settings.Images.ConvertToJPG,
			MaxDimension: s.settings.Images.MaxDimension,
			Quality:      s.settings.Images.JPEGQuality,
		},
		Strategies: discovery.DefaultStrategies(pattern),
		Logger:     s.logger,
	}
	return reconcile.NewReconciler(s.store, s.workspace, fetcher, opts, newReporter(out, verbose).report), nil
}

// finish prints the pass summary and passes through the pass error.
func finish(out io.Writer, title string, summary reconcile.Summary, err error) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(title, summary))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", strings.ToLower(title), err)
	}
	return err
}
