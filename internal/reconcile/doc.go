// Package reconcile provides the maintenance passes that keep the asset
// directory, the dataset and the CSV workspace consistent.
//
// # Reconciler
//
// The Reconciler drives each painting through the asset states:
//
//  1. unresolved: no source known
//  2. url-found: a WikiArt page or a direct image URL is in the workspace
//  3. asset-cached: the image is stored and imageName points at it
//  4. confirmed-absent: set by an operator, never left automatically
//
// # Basic Usage
//
//	rec := reconcile.NewReconciler(st, ws, client, reconcile.Options{
//	    ImagesDir:     settings.Paths.ImagesDir,
//	    ProgressEvery: settings.Report.ProgressEvery,
//	}, func(event reconcile.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := rec.Download(ctx)
//
// # Failure Handling
//
// Records are processed one at a time. A failed fetch is reported through
// the progress callback and leaves the record unresolved; it never stops the
// pass. There are no automatic retries: re-running a pass skips every record
// whose asset is already cached.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent
// and mirrored to the slog logger. Every Options.ProgressEvery records an
// aggregate counter line is emitted.
package reconcile
