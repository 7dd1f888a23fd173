// Package render turns an inquiry Document into the presentation model shared by
// both PDF strategies and the notification emails.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel_inquiry/internal/domain"
)

const (
	NotProvided  = "Not provided"
	NotSpecified = "Not specified"

	dateFormat      = "January 2, 2006"
	generatedFormat = "January 2, 2006, 03:04 PM"
)

// Row is one labelled line. Missing marks a fallback value so templates can style it.
type Row struct {
	Label   string
	Value   string
	Missing bool
	Items   []string // set for list rows such as the room selection
}

type Block struct {
	Title string
	Rows  []Row
}

// Summary is the logical content of an inquiry document.
type Summary struct {
	Reference   string
	InquiryDate string
	GeneratedAt string

	CustomerName  string
	CustomerEmail string
	ArrivalDate   string
	DepartureDate string
	Nights        string
	Pax           string
	TourType      string

	Blocks []Block
}

// Reference formats the public id of a persisted inquiry.
func Reference(id int64) string { return fmt.Sprintf("INQ-%06d", id) }

// NewSummary maps doc onto the document sections. Missing values get the same
// fallback text whichever renderer consumes the result.
func NewSummary(doc domain.Document, now time.Time) Summary {
	ref := doc.Reference
	if ref == "" {
		ms := strconv.FormatInt(now.UnixMilli(), 10)
		ref = "INQ-" + ms[max(0, len(ms)-6):]
	}

	s := Summary{
		Reference:     ref,
		InquiryDate:   now.Format("2006-01-02"),
		GeneratedAt:   now.Format(generatedFormat),
		CustomerName:  or(doc.Text(domain.FieldCustomerName), NotProvided),
		CustomerEmail: or(doc.Text(domain.FieldCustomerEmail), NotProvided),
		ArrivalDate:   formatDate(doc, domain.FieldArrivalDate),
		DepartureDate: formatDate(doc, domain.FieldDepartureDate),
		Nights:        or(doc.Text(domain.FieldNights), NotSpecified),
		Pax:           or(doc.Text(domain.FieldPax), NotSpecified),
		TourType:      or(doc.Text(domain.FieldTourType), NotSpecified),
	}

	s.Blocks = []Block{
		{Title: "Customer Information", Rows: []Row{
			text(doc, "Name", domain.FieldCustomerName, NotProvided),
			text(doc, "Email", domain.FieldCustomerEmail, NotProvided),
			text(doc, "Contact", domain.FieldCustomerContact, NotProvided),
			text(doc, "Nationality", domain.FieldCustomerNationality, NotProvided),
			text(doc, "Country", domain.FieldCustomerCountry, NotProvided),
		}},
		{Title: "Flight Information", Rows: []Row{
			text(doc, "Arrival Flight", domain.FieldArrivalFlight, NotSpecified),
			text(doc, "Departure Flight", domain.FieldDepartureFlight, NotSpecified),
		}},
		{Title: "Travel Details", Rows: []Row{
			dateRow(doc, "Arrival Date", domain.FieldArrivalDate),
			dateRow(doc, "Departure Date", domain.FieldDepartureDate),
			text(doc, "Number of Nights", domain.FieldNights, NotSpecified),
		}},
		{Title: "Accommodation Preferences", Rows: []Row{
			hotelCategory(doc),
			rooms(doc),
			text(doc, "Basis", domain.FieldBasis, NotSpecified),
		}},
		{Title: "Group Information", Rows: []Row{
			text(doc, "Number of Travelers", domain.FieldPax, NotSpecified),
			text(doc, "Children", domain.FieldChildren, NotSpecified),
		}},
		{Title: "Tour Preferences", Rows: []Row{
			text(doc, "Tour Type", domain.FieldTourType, NotSpecified),
			text(doc, "Transport", domain.FieldTransport, NotSpecified),
			list(doc, "Interests", domain.FieldSiteInterests),
			list(doc, "Additional Services", domain.FieldOtherService),
		}},
		specialArrangements(doc),
	}
	return s
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func text(doc domain.Document, label, field, fallback string) Row {
	v := strings.TrimSpace(doc.Text(field))
	if v == "" {
		return Row{Label: label, Value: fallback, Missing: true}
	}
	return Row{Label: label, Value: v}
}

func list(doc domain.Document, label, field string) Row {
	items := doc.List(field)
	if len(items) == 0 {
		return Row{Label: label, Value: NotSpecified, Missing: true}
	}
	return Row{Label: label, Value: strings.Join(items, ", ")}
}

func formatDate(doc domain.Document, field string) string {
	t, ok := doc.Date(field)
	if !ok {
		return NotSpecified
	}
	return t.Format(dateFormat)
}

func dateRow(doc domain.Document, label, field string) Row {
	v := formatDate(doc, field)
	return Row{Label: label, Value: v, Missing: v == NotSpecified}
}

func hotelCategory(doc domain.Document) Row {
	cat := strings.TrimSpace(doc.Text(domain.FieldHotelCategory))
	switch {
	case cat == "":
		return Row{Label: "Hotel Category", Value: NotSpecified, Missing: true}
	case cat == domain.OptionOther:
		other := strings.TrimSpace(doc.Text(domain.FieldOtherHotelCategory))
		if other == "" {
			return Row{Label: "Hotel Category", Value: "Other (not specified)", Missing: true}
		}
		return Row{Label: "Hotel Category", Value: "Other: " + other}
	default:
		return Row{Label: "Hotel Category", Value: cat}
	}
}

// RoomLine is the one-line description of a room used by every renderer.
func RoomLine(i int, r domain.RoomSelection) string {
	cat, typ := string(r.Category), string(r.Type)
	return fmt.Sprintf("%d. %s - %s (Quantity: %d)", i+1, or(cat, "N/A"), or(typ, "N/A"), r.Quantity)
}

func rooms(doc domain.Document) Row {
	rs := doc.Rooms()
	if len(rs) == 0 {
		return Row{Label: "Room Selection", Value: NotSpecified, Missing: true}
	}
	items := make([]string, 0, len(rs))
	for i, r := range rs {
		items = append(items, RoomLine(i, r))
	}
	return Row{Label: "Room Selection", Items: items}
}

func specialArrangements(doc domain.Document) Block {
	b := Block{Title: "Special Arrangements"}
	sa := strings.TrimSpace(doc.Text(domain.FieldSpecialArrangements))
	if sa == "" {
		b.Rows = append(b.Rows, Row{Label: "Special Arrangements", Value: domain.OptionNone, Missing: true})
		return b
	}
	b.Rows = append(b.Rows, Row{Label: "Special Arrangements", Value: sa})
	if sa != domain.OptionNone {
		b.Rows = append(b.Rows, dateRow(doc, "Date", domain.FieldSpecialArrangementDt))
	}
	return b
}
