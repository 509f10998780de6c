// Package store loads, mutates and saves the painting dataset.
//
// The dataset is either one JSON file per period or a single flat file,
// each holding {"paintings": [...]}. A Store loads every file up front;
// updates by id reach every file the id appears in, and Save rewrites only
// the files that changed:
//
//	s, err := store.OpenPartitioned(store.OSFileSystem{}, periodsDir)
//	s.SetImageName(id, "ann-lee-study-1990.jpg")
//	saved, err := s.Save(ctx)
//
// The Workspace type reads and writes the CSV mirror used by the discovery
// passes. Lock guards the data directory against concurrent runs.
package store
