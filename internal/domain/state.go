package domain

import (
	"encoding/json"
	"time"
)

// FormState is one session's wizard state. It is owned by the wizard controller;
// everything else reads it.
type FormState struct {
	Values        map[string]FieldValue
	Errors        map[string]string
	ActiveSection int
	UpdatedAt     time.Time
}

func NewFormState() *FormState {
	return &FormState{
		Values: map[string]FieldValue{},
		Errors: map[string]string{},
	}
}

// Value returns the value for name, or nil when absent.
func (s *FormState) Value(name string) FieldValue {
	if s == nil || s.Values == nil {
		return nil
	}
	return s.Values[name]
}

// TextValue returns the text of a scalar field ("" when absent or not scalar).
func (s *FormState) TextValue(name string) string {
	if t, ok := s.Value(name).(Text); ok {
		return string(t)
	}
	return ""
}

// Clone deep-copies the state so a snapshot survives later mutation.
func (s *FormState) Clone() *FormState {
	out := &FormState{
		Values:        make(map[string]FieldValue, len(s.Values)),
		Errors:        make(map[string]string, len(s.Errors)),
		ActiveSection: s.ActiveSection,
		UpdatedAt:     s.UpdatedAt,
	}
	for k, v := range s.Values {
		out.Values[k] = CloneValue(v)
	}
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	return out
}

type formStateWire struct {
	Values        map[string]taggedValue `json:"values"`
	Errors        map[string]string      `json:"errors"`
	ActiveSection int                    `json:"active_section"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func (s FormState) MarshalJSON() ([]byte, error) {
	w := formStateWire{
		Values:        make(map[string]taggedValue, len(s.Values)),
		Errors:        s.Errors,
		ActiveSection: s.ActiveSection,
		UpdatedAt:     s.UpdatedAt,
	}
	for k, v := range s.Values {
		tv, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		w.Values[k] = tv
	}
	return json.Marshal(w)
}

func (s *FormState) UnmarshalJSON(b []byte) error {
	var w formStateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Values = make(map[string]FieldValue, len(w.Values))
	for k, tv := range w.Values {
		v, err := tv.decode()
		if err != nil {
			return err
		}
		s.Values[k] = v
	}
	s.Errors = w.Errors
	if s.Errors == nil {
		s.Errors = map[string]string{}
	}
	s.ActiveSection = w.ActiveSection
	s.UpdatedAt = w.UpdatedAt
	return nil
}
