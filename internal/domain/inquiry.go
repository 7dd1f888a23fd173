package domain

import (
	"encoding/json"
	"time"
)

// InquiryRecord is the flat row stored in client_inquiry.
type InquiryRecord struct {
	ID                      int64      `json:"id,omitempty"`
	FullName                string     `json:"full_name"`
	EmailAddress            string     `json:"email_address"`
	ContactNumber           string     `json:"contact_number"`
	Nationality             string     `json:"nationality"`
	Country                 string     `json:"country"`
	ArrivalDate             *time.Time `json:"arrival_date"`
	DepartureDate           *time.Time `json:"departure_date"`
	NoOfNights              *int       `json:"no_of_nights"`
	HotelCategory           string     `json:"hotel_category"`
	RoomType                string     `json:"room_type"` // JSON-encoded []RoomSelection
	Basis                   string     `json:"basis"`
	NoOfPax                 *int       `json:"no_of_pax"`
	Children                string     `json:"children"`
	TourType                string     `json:"tour_type"`
	Transport               string     `json:"transport"`
	SiteInterests           []string   `json:"site_interests"`
	OtherService            []string   `json:"other_service"`
	SpecialArrangements     string     `json:"special_arrangements"`
	SpecialArrangementsDate *time.Time `json:"special_arrangements_date"`
	ArrivalFlight           string     `json:"arrival_flight"`
	DepartureFlight         string     `json:"departure_flight"`
	CreatedAt               time.Time  `json:"created_at,omitzero"`
}

// Document is what the PDF and email collaborators consume: the form values plus
// the calendar dates as instants.
type Document struct {
	Values    map[string]FieldValue
	Dates     map[string]time.Time
	Reference string
}

// Text returns a scalar value ("" when absent or not scalar).
func (d Document) Text(name string) string {
	if t, ok := d.Values[name].(Text); ok {
		return string(t)
	}
	return ""
}

func (d Document) List(name string) []string {
	if l, ok := d.Values[name].(StringList); ok {
		return l
	}
	return nil
}

func (d Document) Rooms() []RoomSelection {
	if r, ok := d.Values[FieldRoomSelection].(RoomSelections); ok {
		return r
	}
	return nil
}

// Date returns the instant for a date field, if known.
func (d Document) Date(name string) (time.Time, bool) {
	t, ok := d.Dates[name]
	return t, ok && !t.IsZero()
}

// MarshalJSON uses the client payload shape: {"formData": {...}, "dates": {...}}.
func (d Document) MarshalJSON() ([]byte, error) {
	values := make(map[string]any, len(d.Values))
	for k, v := range d.Values {
		values[k] = v
	}
	dates := make(map[string]*time.Time, len(d.Dates))
	for k, v := range d.Dates {
		t := v
		dates[k] = &t
	}
	return json.Marshal(struct {
		FormData  map[string]any        `json:"formData"`
		Dates     map[string]*time.Time `json:"dates"`
		Reference string                `json:"reference,omitempty"`
	}{values, dates, d.Reference})
}
