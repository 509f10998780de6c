// Package model defines the core data structures used throughout
// the paintings curator.
//
// # Painting
//
// Painting is one record of the dataset consumed by the app:
//
//	p := &model.Painting{ID: id, Title: "The Bathers (large)", Artist: "Paul Cézanne", Year: "1906"}
//	p.HasImage() // false until an asset is reconciled
//
// Paintings round-trip through JSON without losing fields the curator does
// not model, and Year keeps numeric years as JSON numbers.
//
// # Workspace rows
//
// WorkspaceRow extends a painting with the CSV-only discovery columns
// (wikiart_url, wikipedia_url, asset_status):
//
//	row := model.NewWorkspaceRow(p)
//	row.Set(model.ColumnWikiArtURL, "https://www.wikiart.org/en/paul-cezanne/the-bathers")
//	url, provider := row.SourceURL()
//
// # Asset state
//
// AssetState names the reconciliation states of a record:
// unresolved, url-found, asset-cached and confirmed-absent.
package model
