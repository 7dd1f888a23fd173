package domain

import (
	"fmt"
	"strings"
)

// FieldValue is the value held by one form field. The set of implementations is
// closed: Text, StringList and RoomSelections. An absent value is a missing map
// entry (or a nil FieldValue), never a zero Text.
type FieldValue interface {
	fieldValue()
}

type Text string

type StringList []string

type RoomSelections []RoomSelection

func (Text) fieldValue()           {}
func (StringList) fieldValue()     {}
func (RoomSelections) fieldValue() {}

// IsEmpty reports whether v counts as "not filled in": absent, blank text or an empty list.
func IsEmpty(v FieldValue) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Text:
		return strings.TrimSpace(string(t)) == ""
	case StringList:
		return len(t) == 0
	case RoomSelections:
		return len(t) == 0
	default:
		panic(fmt.Sprintf("domain: unhandled field value %T", v))
	}
}

// AsText flattens v for scalar rules; lists are joined with ", ".
func AsText(v FieldValue) string {
	switch t := v.(type) {
	case nil:
		return ""
	case Text:
		return string(t)
	case StringList:
		return strings.Join(t, ", ")
	case RoomSelections:
		parts := make([]string, 0, len(t))
		for _, r := range t {
			parts = append(parts, r.String())
		}
		return strings.Join(parts, ", ")
	default:
		panic(fmt.Sprintf("domain: unhandled field value %T", v))
	}
}

// CloneValue returns a copy that shares no backing array with v.
func CloneValue(v FieldValue) FieldValue {
	switch t := v.(type) {
	case StringList:
		return append(StringList(nil), t...)
	case RoomSelections:
		return append(RoomSelections(nil), t...)
	default:
		return v
	}
}

// ---- wire form (session storage) ----

// taggedValue keeps the variant on the wire so stored state decodes without the catalog.
type taggedValue struct {
	Type  string          `json:"t"`
	Text  string          `json:"text,omitempty"`
	List  []string        `json:"list,omitempty"`
	Rooms []RoomSelection `json:"rooms,omitempty"`
}

func encodeValue(v FieldValue) (taggedValue, error) {
	switch t := v.(type) {
	case Text:
		return taggedValue{Type: "text", Text: string(t)}, nil
	case StringList:
		return taggedValue{Type: "list", List: []string(t)}, nil
	case RoomSelections:
		return taggedValue{Type: "rooms", Rooms: []RoomSelection(t)}, nil
	default:
		return taggedValue{}, fmt.Errorf("domain: cannot encode field value %T", v)
	}
}

func (tv taggedValue) decode() (FieldValue, error) {
	switch tv.Type {
	case "text":
		return Text(tv.Text), nil
	case "list":
		return StringList(tv.List), nil
	case "rooms":
		return RoomSelections(tv.Rooms), nil
	default:
		return nil, fmt.Errorf("domain: unknown field value tag %q", tv.Type)
	}
}
