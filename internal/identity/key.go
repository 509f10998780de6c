package identity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bmikle/paintings-ios/internal/model"
)

// AssetExt is the extension of every cached asset.
const AssetExt = ".jpg"

// ErrEmptySlug is returned when a component slugifies to nothing, which
// means the record cannot be given an identity.
var ErrEmptySlug = errors.New("empty slug")

// ErrStillColliding marks a collision member whose year-suffixed filename is
// shared with another member.
var ErrStillColliding = errors.New("still collides after appending the year")

// BuildKey composes the identity key of a painting.
//
// With an empty year the base key "artist-title" is returned; otherwise the
// disambiguated key "artist-title-year". Identical inputs always produce the
// same key, so asset lookups can be recomputed on every run.
//
// Returns ErrEmptySlug if the artist, the title or a non-empty year
// slugifies to an empty string.
//
// Example:
//
//	BuildKey("Ann Lee", "Study", "")     // "ann-lee-study"
//	BuildKey("Ann Lee", "Study", "1990") // "ann-lee-study-1990"
func BuildKey(artist, title, year string) (string, error) {
	a := Slugify(artist)
	if a == "" {
		return "", fmt.Errorf("artist %q: %w", artist, ErrEmptySlug)
	}
	t := Slugify(title)
	if t == "" {
		return "", fmt.Errorf("title %q: %w", title, ErrEmptySlug)
	}
	key := a + "-" + t
	if year == "" {
		return key, nil
	}
	y := Slugify(year)
	if y == "" {
		return "", fmt.Errorf("year %q: %w", year, ErrEmptySlug)
	}
	return key + "-" + y, nil
}

// BuildFilename returns the key from BuildKey with ext appended.
func BuildFilename(artist, title, year, ext string) (string, error) {
	key, err := BuildKey(artist, title, year)
	if err != nil {
		return "", err
	}
	return key + ext, nil
}

// BaseFilename is the un-disambiguated asset filename of a painting.
func BaseFilename(p *model.Painting) (string, error) {
	return BuildFilename(p.Artist, p.Title, "", AssetExt)
}

// DisambiguatedFilename is the year-suffixed asset filename of a painting.
// A painting without a year cannot be disambiguated.
func DisambiguatedFilename(p *model.Painting) (string, error) {
	if p.Year == "" {
		return "", fmt.Errorf("year: %w", ErrEmptySlug)
	}
	return BuildFilename(p.Artist, p.Title, string(p.Year), AssetExt)
}

// Member is one painting of a collision group with its disambiguated filename.
type Member struct {
	Painting *model.Painting

	// Filename is the year-suffixed filename, empty if Err is set.
	Filename string

	// Err explains why the member could not be disambiguated.
	Err error
}

// Collision is a group of paintings sharing one base filename.
type Collision struct {
	// Filename is the shared base filename.
	Filename string

	Members []Member

	// Unresolved is true when appending the year does not make every
	// member's filename unique. Such groups must not be re-keyed.
	Unresolved bool
}

// FindCollisions groups paintings by base filename and returns every group
// with more than one member, sorted by filename. Paintings whose base key
// cannot be generated are skipped; they never share a filename with anyone.
//
// Members keep the input order. A group is Unresolved when a member has no
// usable year, or when its year-suffixed filename is still taken: by another
// member of any group, or by the base filename of any painting.
func FindCollisions(paintings []*model.Painting) []Collision {
	groups := make(map[string][]*model.Painting)
	var order []string
	for _, p := range paintings {
		name, err := BaseFilename(p)
		if err != nil {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], p)
	}

	var collisions []Collision
	taken := make(map[string]int)
	for _, name := range order {
		members := groups[name]
		if len(members) < 2 {
			continue
		}
		c := newCollision(name, members)
		for _, m := range c.Members {
			if m.Err == nil {
				taken[m.Filename]++
			}
		}
		collisions = append(collisions, c)
	}

	for i := range collisions {
		c := &collisions[i]
		for j := range c.Members {
			m := &c.Members[j]
			if m.Err != nil {
				continue
			}
			if _, isBase := groups[m.Filename]; isBase || taken[m.Filename] > 1 {
				m.Err = fmt.Errorf("%s: %w", m.Filename, ErrStillColliding)
			}
		}
		c.settle()
	}

	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Filename < collisions[j].Filename
	})
	return collisions
}

func newCollision(name string, paintings []*model.Painting) Collision {
	c := Collision{Filename: name}
	counts := make(map[string]int)
	for _, p := range paintings {
		m := Member{Painting: p}
		m.Filename, m.Err = DisambiguatedFilename(p)
		if m.Err == nil {
			counts[m.Filename]++
		}
		c.Members = append(c.Members, m)
	}

	for i := range c.Members {
		m := &c.Members[i]
		if m.Err == nil && counts[m.Filename] > 1 {
			m.Err = fmt.Errorf("%s: %w", m.Filename, ErrStillColliding)
		}
	}
	return c
}

// settle clears the filenames of failed members and flags the group.
func (c *Collision) settle() {
	for i := range c.Members {
		m := &c.Members[i]
		if m.Err != nil {
			m.Filename = ""
			c.Unresolved = true
		}
	}
}

// Assignment maps painting IDs to the filename each should use so that no
// two paintings in the input share one. Paintings in unresolved collision
// groups, or without an identity, are absent from the map.
func Assignment(paintings []*model.Painting) map[string]string {
	assigned := make(map[string]string, len(paintings))
	colliding := make(map[string]bool)
	for _, c := range FindCollisions(paintings) {
		colliding[c.Filename] = true
		if c.Unresolved {
			continue
		}
		for _, m := range c.Members {
			assigned[m.Painting.ID] = m.Filename
		}
	}
	for _, p := range paintings {
		name, err := BaseFilename(p)
		if err != nil || colliding[name] {
			continue
		}
		assigned[p.ID] = name
	}
	return assigned
}
