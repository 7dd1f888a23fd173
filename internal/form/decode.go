package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel_inquiry/internal/domain"
)

var ErrValueShape = errors.New("value does not match field kind")

// DecodeValue converts a client JSON value into the variant declared for the field.
// JSON null decodes to nil (absent).
func (c *Catalog) DecodeValue(name string, raw json.RawMessage) (domain.FieldValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	fs := c.Spec(name)
	switch fs.Kind {
	case domain.KindText, domain.KindDate, domain.KindSelect, domain.KindDisplay:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return domain.Text(s), nil
		}
		// numbers are accepted for scalar fields such as "No of pax"
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&n); err == nil {
			return domain.Text(n.String()), nil
		}
		return nil, fmt.Errorf("%s: %w (want string)", name, ErrValueShape)
	case domain.KindMultiSelect:
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return domain.StringList(list), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return domain.StringList{s}, nil
		}
		return nil, fmt.Errorf("%s: %w (want list of strings)", name, ErrValueShape)
	case domain.KindRoomSelector:
		var rooms []domain.RoomSelection
		if err := json.Unmarshal(raw, &rooms); err != nil {
			return nil, fmt.Errorf("%s: %w (want list of rooms)", name, ErrValueShape)
		}
		return domain.RoomSelections(rooms), nil
	default:
		return nil, fmt.Errorf("%s: %w (kind %q)", name, ErrValueShape, fs.Kind)
	}
}

// CheckShape verifies that v is the variant the catalog declares for name.
func (c *Catalog) CheckShape(name string, v domain.FieldValue) error {
	if v == nil {
		return nil
	}
	kind := c.Spec(name).Kind
	ok := false
	switch v.(type) {
	case domain.Text:
		ok = kind == domain.KindText || kind == domain.KindDate || kind == domain.KindSelect || kind == domain.KindDisplay
	case domain.StringList:
		ok = kind == domain.KindMultiSelect
	case domain.RoomSelections:
		ok = kind == domain.KindRoomSelector
	}
	if !ok {
		return fmt.Errorf("%s: %w (got %T for %s)", name, ErrValueShape, v, kind)
	}
	return nil
}

// DocumentPayload is the body of the PDF / email endpoints.
type DocumentPayload struct {
	FormData map[string]json.RawMessage `json:"formData"`
	Dates    map[string]*string         `json:"dates"`
}

// DecodeDocument builds a domain.Document from a client payload. Dates come from the
// "dates" map when present and fall back to the YYYY-MM-DD text of the date field.
func (c *Catalog) DecodeDocument(p DocumentPayload, loc *time.Location) (domain.Document, error) {
	doc := domain.Document{
		Values: make(map[string]domain.FieldValue, len(p.FormData)),
		Dates:  map[string]time.Time{},
	}
	for name, raw := range p.FormData {
		v, err := c.DecodeValue(name, raw)
		if err != nil {
			return domain.Document{}, err
		}
		if v != nil {
			doc.Values[name] = v
		}
	}
	for name, s := range p.Dates {
		if s == nil || strings.TrimSpace(*s) == "" {
			continue
		}
		t, err := ParseInstant(*s, loc)
		if err != nil {
			return domain.Document{}, fmt.Errorf("dates[%s]: %w", name, err)
		}
		doc.Dates[name] = t
	}
	for _, fs := range c.Fields() {
		if fs.Kind != domain.KindDate {
			continue
		}
		if _, ok := doc.Dates[fs.Name]; ok {
			continue
		}
		if t, err := ParseDate(doc.Text(fs.Name), loc); err == nil {
			doc.Dates[fs.Name] = t
		}
	}
	return doc, nil
}

// DocumentFromState snapshots the state's values for rendering.
func (c *Catalog) DocumentFromState(st *domain.FormState, loc *time.Location) domain.Document {
	snap := st.Clone()
	doc := domain.Document{Values: snap.Values, Dates: map[string]time.Time{}}
	for _, fs := range c.Fields() {
		if fs.Kind != domain.KindDate {
			continue
		}
		if t, err := ParseDate(snap.TextValue(fs.Name), loc); err == nil {
			doc.Dates[fs.Name] = t
		}
	}
	return doc
}

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
}

// ParseInstant accepts RFC 3339 timestamps (what browsers send) or bare dates.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := ParseDate(s, loc); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
