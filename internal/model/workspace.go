package model

import "strings"

// Workspace column names beyond the painting fields.
const (
	// ColumnWikiArtURL holds a confirmed (or generated) WikiArt page URL.
	ColumnWikiArtURL = "wikiart_url"

	// ColumnWikiArtURLWithYear holds the generated year-suffixed WikiArt URL.
	ColumnWikiArtURLWithYear = "wikiart_url_with_year"

	// ColumnWikipediaURL holds a direct image URL found on Wikidata or Wikipedia.
	ColumnWikipediaURL = "wikipedia_url"

	// ColumnAssetStatus records operator decisions; see AssetStatusAbsent.
	ColumnAssetStatus = "asset_status"
)

// AssetStatusAbsent is the ColumnAssetStatus value of a confirmed-absent row.
const AssetStatusAbsent = "confirmed-absent"

// WorkspaceRow is one row of the CSV workspace: a painting plus the
// discovery columns. Unpopulated columns hold the empty string, never a
// missing value.
type WorkspaceRow struct {
	Painting

	// Columns holds every non-painting column by name.
	Columns map[string]string
}

// NewWorkspaceRow creates a row for the painting with no discovery data.
func NewWorkspaceRow(p *Painting) *WorkspaceRow {
	return &WorkspaceRow{
		Painting: *p.Clone(),
		Columns:  make(map[string]string),
	}
}

// Get returns a column value, or "" if the column is unset.
func (r *WorkspaceRow) Get(column string) string {
	if v, err := r.Painting.Value(column); err == nil {
		return v
	}
	return r.Columns[column]
}

// Set assigns a column value.
func (r *WorkspaceRow) Set(column, value string) {
	if err := r.Painting.SetValue(column, value); err == nil {
		return
	}
	if r.Columns == nil {
		r.Columns = make(map[string]string)
	}
	r.Columns[column] = value
}

// SourceURL returns the URL the asset should be fetched from.
// A WikiArt page takes precedence over a direct Wikimedia image.
func (r *WorkspaceRow) SourceURL() (string, Provider) {
	if u := strings.TrimSpace(r.Columns[ColumnWikiArtURL]); u != "" {
		return u, ProviderWikiArt
	}
	if u := strings.TrimSpace(r.Columns[ColumnWikipediaURL]); u != "" {
		return u, ProviderWikimedia
	}
	return "", ProviderNone
}

// IsAbsent reports whether an operator marked the row confirmed-absent.
func (r *WorkspaceRow) IsAbsent() bool {
	return r.Columns[ColumnAssetStatus] == AssetStatusAbsent
}

// MarkAbsent records the confirmed-absent decision and clears every source URL
// so later discovery passes do not resurrect the placeholder.
func (r *WorkspaceRow) MarkAbsent() {
	r.ImageName = ""
	for _, col := range []string{ColumnWikiArtURL, ColumnWikiArtURLWithYear, ColumnWikipediaURL} {
		if _, ok := r.Columns[col]; ok {
			r.Columns[col] = ""
		}
	}
	r.Set(ColumnAssetStatus, AssetStatusAbsent)
}
