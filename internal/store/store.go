package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmikle/paintings-ios/internal/model"
)

var (
	// ErrNoData is returned when the dataset location holds no files.
	ErrNoData = errors.New("no dataset files found")

	// ErrUnknownID is returned when no file contains the requested id.
	ErrUnknownID = errors.New("unknown painting id")
)

// Layout is the on-disk shape of the dataset.
type Layout int

const (
	// LayoutPartitioned stores one JSON file per period.
	LayoutPartitioned Layout = iota

	// LayoutFlat stores every painting in a single JSON file.
	LayoutFlat
)

func (l Layout) String() string {
	if l == LayoutFlat {
		return "flat"
	}
	return "partitioned"
}

// collection is the JSON shape of a dataset file.
type collection struct {
	Paintings []*model.Painting `json:"paintings"`
}

type document struct {
	name      string
	paintings []*model.Painting
	dirty     bool
}

// Store owns every painting record of a run.
//
// Records are loaded once, mutated in memory and written back by Save. Only
// files holding a modified record are rewritten.
type Store struct {
	fs     FileSystem
	layout Layout
	docs   []*document
}

// OpenPartitioned loads every *.json file in dir, in name order.
func OpenPartitioned(fsys FileSystem, dir string) (*Store, error) {
	names, err := fsys.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoData)
	}

	s := &Store{fs: fsys, layout: LayoutPartitioned}
	for _, name := range names {
		doc, err := readDocument(fsys, name)
		if err != nil {
			return nil, err
		}
		s.docs = append(s.docs, doc)
	}
	return s, nil
}

// OpenFlat loads a single dataset file.
func OpenFlat(fsys FileSystem, path string) (*Store, error) {
	doc, err := readDocument(fsys, path)
	if err != nil {
		return nil, err
	}
	return &Store{fs: fsys, layout: LayoutFlat, docs: []*document{doc}}, nil
}

func readDocument(fsys FileSystem, name string) (*document, error) {
	data, err := fsys.ReadFile(name)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNoData)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &document{name: name, paintings: c.Paintings}, nil
}

// Layout reports how the store was opened.
func (s *Store) Layout() Layout {
	return s.layout
}

// Files returns the dataset file names in load order.
func (s *Store) Files() []string {
	names := make([]string, len(s.docs))
	for i, d := range s.docs {
		names[i] = d.name
	}
	return names
}

// Records returns every painting across all files, in file then record order.
// The returned pointers alias the store; use Update to change them.
func (s *Store) Records() []*model.Painting {
	var all []*model.Painting
	for _, d := range s.docs {
		all = append(all, d.paintings...)
	}
	return all
}

// Index maps ids to records. When an id appears in more than one file the
// first occurrence wins.
func (s *Store) Index() map[string]*model.Painting {
	idx := make(map[string]*model.Painting)
	for _, d := range s.docs {
		for _, p := range d.paintings {
			if _, ok := idx[p.ID]; !ok {
				idx[p.ID] = p
			}
		}
	}
	return idx
}

// Unique returns the first occurrence of every id, in load order.
func (s *Store) Unique() []*model.Painting {
	seen := make(map[string]bool)
	var out []*model.Painting
	for _, p := range s.Records() {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// Get returns the first record with id.
func (s *Store) Get(id string) (*model.Painting, bool) {
	for _, d := range s.docs {
		for _, p := range d.paintings {
			if p.ID == id {
				return p, true
			}
		}
	}
	return nil, false
}

// Update applies fn to every record with id in every file. fn reports
// whether it changed the record; files with a changed record are marked for
// saving. Returns the number of records changed, or ErrUnknownID if no file
// contains id.
func (s *Store) Update(id string, fn func(p *model.Painting) bool) (int, error) {
	found := false
	changed := 0
	for _, d := range s.docs {
		for _, p := range d.paintings {
			if p.ID != id {
				continue
			}
			found = true
			if fn(p) {
				d.dirty = true
				changed++
			}
		}
	}
	if !found {
		return 0, fmt.Errorf("%s: %w", id, ErrUnknownID)
	}
	return changed, nil
}

// SetImageName sets imageName on every record with id, wherever it lives.
func (s *Store) SetImageName(id, name string) (int, error) {
	return s.Update(id, func(p *model.Painting) bool {
		if p.ImageName == name {
			return false
		}
		p.ImageName = name
		return true
	})
}

// ReferencedImages counts records per non-empty imageName.
func (s *Store) ReferencedImages() map[string]int {
	refs := make(map[string]int)
	for _, p := range s.Records() {
		if p.HasImage() {
			refs[p.ImageName]++
		}
	}
	return refs
}

// Simplify drops unmodelled fields from every record.
// Returns the number of records changed.
func (s *Store) Simplify() int {
	changed := 0
	for _, d := range s.docs {
		for _, p := range d.paintings {
			if p.Simplify() {
				d.dirty = true
				changed++
			}
		}
	}
	return changed
}

// Dirty reports whether any file has unsaved changes.
func (s *Store) Dirty() bool {
	for _, d := range s.docs {
		if d.dirty {
			return true
		}
	}
	return false
}

// Save rewrites every file holding a modified record and returns their
// names. Unmodified files are not touched.
func (s *Store) Save(ctx context.Context) ([]string, error) {
	var saved []string
	for _, d := range s.docs {
		if !d.dirty {
			continue
		}
		data, err := Encode(d.paintings)
		if err != nil {
			return saved, fmt.Errorf("encode %s: %w", d.name, err)
		}
		if err := s.fs.WriteFile(ctx, d.name, data); err != nil {
			return saved, fmt.Errorf("write %s: %w", d.name, err)
		}
		d.dirty = false
		saved = append(saved, d.name)
	}
	return saved, nil
}

// Encode renders paintings as a dataset file: a "paintings" array, two-space
// indentation, non-ASCII and HTML characters written as-is.
func Encode(paintings []*model.Painting) ([]byte, error) {
	if paintings == nil {
		paintings = []*model.Painting{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection{Paintings: paintings}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
