package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Painting is one artwork record of the dataset.
//
// Painting mirrors the objects stored under the "paintings" key of the
// dataset JSON files:
//   - ID is the stable identifier shared by every file the record appears in
//   - Title, Artist and Year feed the slug-based asset filename
//   - Period is the partition key used to split the dataset into files
//   - ImageName is the cached asset filename, empty when no asset is available
//
// Fields the curator does not know about are kept in Unknown so a load/save
// cycle never drops data written by other tools.
//
// Example:
//
//	p := &Painting{ID: "db3c8c4e", Title: "Woman I", Artist: "Willem de Kooning", Year: "1950"}
//	p.HasImage() // false until an asset is reconciled
type Painting struct {
	// ID is the stable opaque identifier. It is never reassigned.
	ID string

	// Title is the artwork title.
	Title string

	// Artist is the artist name as displayed in the app.
	Artist string

	// Year is the creation year label. It may be approximate.
	Year Year

	// Period is the art period the painting is grouped under.
	Period string

	// ImageName is the filename of the cached asset.
	// Empty string means no asset is available.
	ImageName string

	// Museum is the holding institution.
	Museum string

	// Location is the museum location, may be empty.
	Location string

	// Unknown holds fields not modelled above, in their original order.
	Unknown []RawField
}

// RawField is a JSON object member preserved verbatim.
type RawField struct {
	Key   string
	Value json.RawMessage
}

// Field names used in the dataset JSON and the CSV workspace.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldArtist    = "artist"
	FieldYear      = "year"
	FieldPeriod    = "period"
	FieldImageName = "imageName"
	FieldMuseum    = "museum"
	FieldLocation  = "location"
)

// Fields lists the modelled fields in the order they are written.
var Fields = []string{
	FieldID,
	FieldTitle,
	FieldArtist,
	FieldYear,
	FieldPeriod,
	FieldImageName,
	FieldMuseum,
	FieldLocation,
}

// HasImage reports whether the record references a cached asset.
func (p *Painting) HasImage() bool {
	return p.ImageName != ""
}

// Value returns the string value of a modelled field.
func (p *Painting) Value(field string) (string, error) {
	switch field {
	case FieldID:
		return p.ID, nil
	case FieldTitle:
		return p.Title, nil
	case FieldArtist:
		return p.Artist, nil
	case FieldYear:
		return string(p.Year), nil
	case FieldPeriod:
		return p.Period, nil
	case FieldImageName:
		return p.ImageName, nil
	case FieldMuseum:
		return p.Museum, nil
	case FieldLocation:
		return p.Location, nil
	}
	return "", fmt.Errorf("unknown painting field %q", field)
}

// SetValue assigns a modelled field from its string form.
func (p *Painting) SetValue(field, value string) error {
	switch field {
	case FieldID:
		p.ID = value
	case FieldTitle:
		p.Title = value
	case FieldArtist:
		p.Artist = value
	case FieldYear:
		p.Year = Year(value)
	case FieldPeriod:
		p.Period = value
	case FieldImageName:
		p.ImageName = value
	case FieldMuseum:
		p.Museum = value
	case FieldLocation:
		p.Location = value
	default:
		return fmt.Errorf("unknown painting field %q", field)
	}
	return nil
}

// Clone returns a deep copy of the record.
func (p *Painting) Clone() *Painting {
	c := *p
	if p.Unknown != nil {
		c.Unknown = make([]RawField, len(p.Unknown))
		for i, f := range p.Unknown {
			c.Unknown[i] = RawField{Key: f.Key, Value: append(json.RawMessage(nil), f.Value...)}
		}
	}
	return &c
}

// Simplify drops every field that is not modelled.
// Returns true if anything was removed.
func (p *Painting) Simplify() bool {
	if len(p.Unknown) == 0 {
		return false
	}
	p.Unknown = nil
	return true
}

// MarshalJSON writes the modelled fields in canonical order followed by the
// preserved unknown fields.
func (p Painting) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := encodeJSON(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		switch v := value.(type) {
		case json.RawMessage:
			buf.Write(v)
		default:
			b, err := encodeJSON(v)
			if err != nil {
				return err
			}
			buf.Write(b)
		}
		return nil
	}

	for _, field := range Fields {
		var err error
		if field == FieldYear {
			err = write(field, p.Year)
		} else {
			value, _ := p.Value(field)
			err = write(field, value)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, f := range p.Unknown {
		if err := write(f.Key, f.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the modelled fields and keeps every other member.
// A missing imageName decodes as the empty string.
func (p *Painting) UnmarshalJSON(data []byte) error {
	var known struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Artist    string `json:"artist"`
		Year      Year   `json:"year"`
		Period    string `json:"period"`
		ImageName string `json:"imageName"`
		Museum    string `json:"museum"`
		Location  string `json:"location"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	var unknown []RawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected painting key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if !isModelled(key) {
			unknown = append(unknown, RawField{Key: key, Value: raw})
		}
	}

	*p = Painting{
		ID:        known.ID,
		Title:     known.Title,
		Artist:    known.Artist,
		Year:      known.Year,
		Period:    known.Period,
		ImageName: known.ImageName,
		Museum:    known.Museum,
		Location:  known.Location,
		Unknown:   unknown,
	}
	return nil
}

func isModelled(key string) bool {
	for _, f := range Fields {
		if f == key {
			return true
		}
	}
	return false
}

// Year is a year label. The dataset stores most years as JSON numbers but
// approximate labels ("c. 1503") as strings; Year keeps whichever form it
// can write back unchanged.
type Year string

// MarshalJSON writes plain integers as JSON numbers and anything else as a string.
func (y Year) MarshalJSON() ([]byte, error) {
	s := string(y)
	if isInteger(s) {
		return []byte(s), nil
	}
	return encodeJSON(s)
}

// UnmarshalJSON accepts a JSON number, string or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*y = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	*y = Year(n.String())
	return nil
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// encodeJSON marshals v without HTML escaping. json.Marshal re-escapes the
// result, so writers must use an Encoder with SetEscapeHTML(false).
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
