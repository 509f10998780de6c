package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bmikle/paintings-ios/internal/discovery"
	"github.com/bmikle/paintings-ios/internal/identity"
	ioutils "github.com/bmikle/paintings-ios/internal/io"
	"github.com/bmikle/paintings-ios/internal/logging"
	"github.com/bmikle/paintings-ios/internal/model"
	"github.com/bmikle/paintings-ios/internal/store"
)

// ErrNoWorkspace is returned by passes that need the CSV workspace when none
// was given.
var ErrNoWorkspace = errors.New("no workspace loaded")

// Fetcher retrieves remote pages and image bytes.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Reconciler.
type Options struct {
	// ImagesDir is the flat asset directory.
	ImagesDir string

	// ProgressEvery is the number of records between counter lines.
	// Zero disables them.
	ProgressEvery int

	Images ioutils.ImageOptions

	// Strategies overrides the page extraction strategies.
	Strategies []discovery.Strategy

	Logger *slog.Logger
}

// Reconciler brings the asset directory and the dataset's imageName fields
// in line with the source URLs in the workspace.
type Reconciler struct {
	store     *store.Store
	workspace *store.Workspace
	fetcher   Fetcher
	extractor *discovery.Extractor
	images    *ioutils.ImageService
	imagesDir string

	reporter
}

// NewReconciler creates a Reconciler. ws may be nil for passes that only
// touch the dataset and the asset directory.
func NewReconciler(st *store.Store, ws *store.Workspace, fetcher Fetcher, opts Options, onProgress func(ProgressEvent)) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = discovery.DefaultStrategies(nil)
	}

	return &Reconciler{
		store:     st,
		workspace: ws,
		fetcher:   fetcher,
		extractor: discovery.NewExtractor(strategies...),
		images:    ioutils.NewImageService(opts.Images),
		imagesDir: opts.ImagesDir,
		reporter: reporter{
			logger:     logger,
			onProgress: onProgress,
			every:      opts.ProgressEvery,
		},
	}
}

// State returns the reconciliation state of a workspace row.
func (r *Reconciler) State(row *model.WorkspaceRow) model.AssetState {
	if row.IsAbsent() {
		return model.StateConfirmedAbsent
	}
	imageName := row.ImageName
	if p, ok := r.store.Get(row.ID); ok {
		imageName = p.ImageName
	}
	if imageName != "" && r.assetExists(imageName) {
		return model.StateAssetCached
	}
	if url, _ := row.SourceURL(); url != "" {
		return model.StateURLFound
	}
	return model.StateUnresolved
}

// Reference describes the asset of a row.
func (r *Reconciler) Reference(row *model.WorkspaceRow) model.AssetReference {
	ref := model.AssetReference{PaintingID: row.ID}
	if p, ok := r.store.Get(row.ID); ok && p.HasImage() {
		ref.Filename = p.ImageName
	} else if name, err := identity.BaseFilename(&row.Painting); err == nil {
		ref.Filename = name
	}
	ref.Exists = ref.Filename != "" && r.assetExists(ref.Filename)
	ref.SourceURL, ref.Provider = row.SourceURL()
	return ref
}

// Download fetches the asset of every workspace row with a source URL and
// records the filename on every matching dataset record.
//
// Rows that are confirmed-absent, already cached, or in an unresolved
// collision group are skipped. A fetch failure leaves the record unresolved
// and the pass continues. Modified partition files and the workspace are
// saved at the end, including after cancellation.
func (r *Reconciler) Download(ctx context.Context) (Summary, error) {
	var s Summary
	if r.workspace == nil {
		return s, ErrNoWorkspace
	}
	if err := ioutils.EnsureDir(r.imagesDir); err != nil {
		return s, fmt.Errorf("create images dir: %w", err)
	}

	assignment := identity.Assignment(r.store.Unique())
	rows := r.workspace.Rows
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		s.Processed++
		r.downloadRow(ctx, row, assignment, &s)
		r.checkpoint(s, len(rows))
	}

	if err := r.save(ctx); err != nil {
		return s, err
	}
	return s, ctx.Err()
}

func (r *Reconciler) downloadRow(ctx context.Context, row *model.WorkspaceRow, assignment map[string]string, s *Summary) {
	label := fmt.Sprintf("%s by %s", row.Title, row.Artist)

	if row.IsAbsent() {
		s.Absent++
		return
	}
	p, ok := r.store.Get(row.ID)
	if !ok {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Not in dataset: %s", label), Level: LevelError, ID: row.ID})
		s.Failed++
		return
	}
	if p.HasImage() && r.assetExists(p.ImageName) {
		row.ImageName = p.ImageName
		s.Cached++
		return
	}

	filename, ok := assignment[row.ID]
	if !ok {
		r.progress(ProgressEvent{Message: fmt.Sprintf("No unique filename for %s", label), Level: LevelWarning, ID: row.ID})
		s.Skipped++
		return
	}
	if r.assetExists(filename) {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Already exists: %s", filename), Level: LevelVerbose, ID: row.ID})
		if err := r.setImageName(row, filename); err != nil {
			r.progress(ProgressEvent{Message: err.Error(), Level: LevelError, ID: row.ID})
			s.Failed++
			return
		}
		s.Cached++
		return
	}

	url, provider := row.SourceURL()
	if url == "" {
		s.Skipped++
		return
	}

	r.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s from %s", label, url), Level: LevelInfo, ID: row.ID})
	if err := r.fetchAsset(ctx, url, provider, filename); err != nil {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", label, err), Level: LevelError, ID: row.ID})
		s.Failed++
		return
	}
	if err := r.setImageName(row, filename); err != nil {
		r.progress(ProgressEvent{Message: err.Error(), Level: LevelError, ID: row.ID})
		s.Failed++
		return
	}
	r.progress(ProgressEvent{Message: fmt.Sprintf("Saved: %s", filename), Level: LevelSuccess, ID: row.ID})
	s.Downloaded++
}

// fetchAsset resolves url to image bytes and writes them as filename.
func (r *Reconciler) fetchAsset(ctx context.Context, url string, provider model.Provider, filename string) error {
	imageURL := url
	if provider.IsPage() {
		html, err := r.fetcher.GetString(ctx, url)
		if err != nil {
			return fmt.Errorf("fetch page: %w", err)
		}
		var strategy string
		imageURL, strategy, err = r.extractor.ExtractImageURL(html)
		if err != nil {
			return fmt.Errorf("extract image: %w", err)
		}
		r.progress(ProgressEvent{Message: fmt.Sprintf("Image URL via %s: %s", strategy, imageURL), Level: LevelVerbose})
	}

	data, err := r.fetcher.DownloadBytes(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	normalized, err := r.images.Normalize(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.progress(ProgressEvent{Message: fmt.Sprintf("Keeping original bytes for %s: %v", filename, err), Level: LevelVerbose})
		normalized = data
	}

	if err := ioutils.WriteFile(ctx, r.assetPath(filename), normalized); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// setImageName updates the dataset and the workspace row.
func (r *Reconciler) setImageName(row *model.WorkspaceRow, name string) error {
	if _, err := r.store.SetImageName(row.ID, name); err != nil {
		return err
	}
	row.ImageName = name
	return nil
}

func (r *Reconciler) save(ctx context.Context) error {
	// Saving must not be cut short by the cancellation that ended the pass.
	ctx = context.WithoutCancel(ctx)

	saved, err := r.store.Save(ctx)
	if err != nil {
		return err
	}
	for _, name := range saved {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Updated: %s", filepath.Base(name)), Level: LevelVerbose})
	}
	if r.workspace != nil {
		if err := r.workspace.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) assetPath(name string) string {
	return filepath.Join(r.imagesDir, name)
}

func (r *Reconciler) assetExists(name string) bool {
	return ioutils.FileExists(r.assetPath(name))
}
