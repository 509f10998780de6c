package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmikle/paintings-ios/internal/model"
)

// Partition is the group of records sharing a normalised field value.
type Partition struct {
	// Key is the normalised value, used as the file name stem.
	Key string

	// Value is the first raw field value seen for Key.
	Value string

	Paintings []*model.Painting
}

// Filename returns the partition's JSON file name.
func (p Partition) Filename() string {
	return p.Key + ".json"
}

// PartitionKey normalises a field value into a file name stem:
// lower-cased, with " / ", "/" and spaces replaced by underscores.
//
// Example:
//
//	PartitionKey("Abstract Expressionism") // "abstract_expressionism"
//	PartitionKey("Baroque / Rococo")       // "baroque_rococo"
func PartitionKey(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, " / ", "_")
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, " ", "_")
	return key
}

// PartitionByField groups records by the normalised value of field.
// Partitions are sorted by key; records keep their input order.
func PartitionByField(records []*model.Painting, field string) ([]Partition, error) {
	byKey := make(map[string]*Partition)
	for _, p := range records {
		value, err := p.Value(field)
		if err != nil {
			return nil, err
		}
		key := PartitionKey(value)
		if key == "" {
			return nil, fmt.Errorf("record %s: empty %s", p.ID, field)
		}
		part, ok := byKey[key]
		if !ok {
			part = &Partition{Key: key, Value: value}
			byKey[key] = part
		}
		part.Paintings = append(part.Paintings, p)
	}

	parts := make([]Partition, 0, len(byKey))
	for _, part := range byKey {
		parts = append(parts, *part)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Key < parts[j].Key })
	return parts, nil
}

// Flatten concatenates partitions in order.
func Flatten(parts []Partition) []*model.Painting {
	var all []*model.Painting
	for _, part := range parts {
		all = append(all, part.Paintings...)
	}
	return all
}

// WritePartitions splits records by period and writes one file per partition
// into dir. Returns the written file names.
func WritePartitions(ctx context.Context, fsys FileSystem, dir string, records []*model.Painting) ([]string, error) {
	parts, err := PartitionByField(records, model.FieldPeriod)
	if err != nil {
		return nil, err
	}
	if err := fsys.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for _, part := range parts {
		name := filepath.Join(dir, part.Filename())
		data, err := Encode(part.Paintings)
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", name, err)
		}
		if err := fsys.WriteFile(ctx, name, data); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
