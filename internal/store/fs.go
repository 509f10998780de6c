package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	ioutils "github.com/bmikle/paintings-ios/internal/io"
)

// FileSystem is the file access the store needs. OSFileSystem is used by the
// commands; MemFileSystem stands in for the dataset in tests.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
	Glob(pattern string) ([]string, error)
	MkdirAll(dir string) error
}

// OSFileSystem reads and writes the real file system. Writes are atomic.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	return ioutils.WriteFile(ctx, name, data)
}

func (OSFileSystem) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func (OSFileSystem) MkdirAll(dir string) error {
	return ioutils.EnsureDir(dir)
}

// MemFileSystem is an in-memory FileSystem. It records how many times each
// file was written.
type MemFileSystem struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes map[string]int
}

// NewMemFileSystem creates a MemFileSystem holding files.
func NewMemFileSystem(files map[string]string) *MemFileSystem {
	m := &MemFileSystem{
		files:  make(map[string][]byte),
		writes: make(map[string]int),
	}
	for name, content := range files {
		m.files[name] = []byte(content)
	}
	return m
}

func (m *MemFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	m.writes[name]++
	return nil
}

func (m *MemFileSystem) Glob(pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []string
	for name := range m.files {
		if ok, _ := path.Match(pattern, name); ok {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (m *MemFileSystem) MkdirAll(string) error {
	return nil
}

// Content returns the current content of name.
func (m *MemFileSystem) Content(name string) (string, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Writes returns how many times name was written.
func (m *MemFileSystem) Writes(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[name]
}

// TotalWrites returns the number of writes across all files.
func (m *MemFileSystem) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.writes {
		total += n
	}
	return total
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
