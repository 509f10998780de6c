package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bmikle/paintings-ios/internal/model"
)

// WorkspaceColumns is the column order of a freshly generated workspace.
var WorkspaceColumns = []string{
	model.FieldID,
	model.FieldTitle,
	model.FieldArtist,
	model.FieldYear,
	model.FieldPeriod,
	model.FieldMuseum,
	model.FieldLocation,
	model.FieldImageName,
	model.ColumnWikiArtURL,
	model.ColumnWikiArtURLWithYear,
}

// Workspace is the CSV mirror of the dataset used between discovery passes.
// Empty cells mean "not yet populated".
type Workspace struct {
	Header []string
	Rows   []*model.WorkspaceRow

	fs   FileSystem
	path string

	// saved is the file content as last read or written; nil for a new
	// workspace.
	saved []byte
}

// NewWorkspace creates a workspace for records with the default columns.
func NewWorkspace(fsys FileSystem, path string, records []*model.Painting) *Workspace {
	w := &Workspace{
		Header: append([]string(nil), WorkspaceColumns...),
		fs:     fsys,
		path:   path,
	}
	for _, p := range records {
		w.Rows = append(w.Rows, model.NewWorkspaceRow(p))
	}
	return w
}

// ReadWorkspace loads a workspace CSV. Short rows are padded with empty cells.
func ReadWorkspace(fsys FileSystem, path string) (*Workspace, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoData)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty workspace: %w", path, ErrNoData)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	w := &Workspace{Header: header, fs: fsys, path: path, saved: data}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		row := &model.WorkspaceRow{Columns: make(map[string]string)}
		for i, col := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row.Set(col, value)
		}
		w.Rows = append(w.Rows, row)
	}
	return w, nil
}

// Path returns the file the workspace is saved to.
func (w *Workspace) Path() string {
	return w.path
}

// HasColumn reports whether the header contains name.
func (w *Workspace) HasColumn(name string) bool {
	for _, col := range w.Header {
		if col == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends name to the header if it is missing.
func (w *Workspace) EnsureColumn(name string) {
	if !w.HasColumn(name) {
		w.Header = append(w.Header, name)
	}
}

// Row returns the first row with id.
func (w *Workspace) Row(id string) (*model.WorkspaceRow, bool) {
	for _, row := range w.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return nil, false
}

// Paintings returns the painting part of every row.
func (w *Workspace) Paintings() []*model.Painting {
	out := make([]*model.Painting, len(w.Rows))
	for i, row := range w.Rows {
		out[i] = &row.Painting
	}
	return out
}

// Dirty reports whether saving would change the file.
func (w *Workspace) Dirty() bool {
	data, err := w.encode()
	return err != nil || w.saved == nil || !bytes.Equal(data, w.saved)
}

// Save writes the workspace back to its file. Columns set on rows but
// missing from the header are not written. The file is left untouched when
// its content would not change.
func (w *Workspace) Save(ctx context.Context) error {
	data, err := w.encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", w.path, err)
	}
	if w.saved != nil && bytes.Equal(data, w.saved) {
		return nil
	}

	if err := w.fs.WriteFile(ctx, w.path, data); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.saved = data
	return nil
}

func (w *Workspace) encode() ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(w.Header); err != nil {
		return nil, err
	}
	record := make([]string, len(w.Header))
	for _, row := range w.Rows {
		for i, col := range w.Header {
			record[i] = row.Get(col)
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
