package app

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"travel_inquiry/internal/domain"
)

// ToRecord maps a document onto the client_inquiry columns. It is pure: the same
// document always yields the same record.
func ToRecord(doc domain.Document) domain.InquiryRecord {
	rooms := doc.Rooms()
	if rooms == nil {
		rooms = []domain.RoomSelection{}
	}
	roomJSON, _ := json.Marshal(rooms) // plain struct slice, cannot fail

	return domain.InquiryRecord{
		FullName:                doc.Text(domain.FieldCustomerName),
		EmailAddress:            doc.Text(domain.FieldCustomerEmail),
		ContactNumber:           doc.Text(domain.FieldCustomerContact),
		Nationality:             doc.Text(domain.FieldCustomerNationality),
		Country:                 doc.Text(domain.FieldCustomerCountry),
		ArrivalDate:             instant(doc, domain.FieldArrivalDate),
		DepartureDate:           instant(doc, domain.FieldDepartureDate),
		NoOfNights:              count(doc.Text(domain.FieldNights)),
		HotelCategory:           hotelCategory(doc),
		RoomType:                string(roomJSON),
		Basis:                   doc.Text(domain.FieldBasis),
		NoOfPax:                 count(doc.Text(domain.FieldPax)),
		Children:                doc.Text(domain.FieldChildren),
		TourType:                doc.Text(domain.FieldTourType),
		Transport:               doc.Text(domain.FieldTransport),
		SiteInterests:           siteInterests(doc),
		OtherService:            otherService(doc),
		SpecialArrangements:     doc.Text(domain.FieldSpecialArrangements),
		SpecialArrangementsDate: instant(doc, domain.FieldSpecialArrangementDt),
		ArrivalFlight:           doc.Text(domain.FieldArrivalFlight),
		DepartureFlight:         doc.Text(domain.FieldDepartureFlight),
	}
}

func instant(doc domain.Document, field string) *time.Time {
	t, ok := doc.Date(field)
	if !ok {
		return nil
	}
	return &t
}

// count parses a whole number; unparsable text becomes 0, absent text nil.
func count(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		n = int(f)
	}
	return &n
}

func hotelCategory(doc domain.Document) string {
	cat := doc.Text(domain.FieldHotelCategory)
	if cat == domain.OptionOther {
		return "Other: " + doc.Text(domain.FieldOtherHotelCategory)
	}
	return cat
}

func siteInterests(doc domain.Document) []string {
	l := doc.List(domain.FieldSiteInterests)
	if len(l) == 0 {
		return nil
	}
	return slices.Clone(l)
}

// otherService collapses any selection containing "None" to just ["None"].
func otherService(doc domain.Document) []string {
	l := doc.List(domain.FieldOtherService)
	if len(l) == 0 || slices.Contains(l, domain.OptionNone) {
		return []string{domain.OptionNone}
	}
	return slices.Clone(l)
}

// requiredColumns is the datastore's own NOT NULL subset, keyed back to the form field.
var requiredColumns = []struct {
	field, label string
	empty        func(domain.InquiryRecord) bool
}{
	{domain.FieldCustomerName, "Full Name", func(r domain.InquiryRecord) bool { return strings.TrimSpace(r.FullName) == "" }},
	{domain.FieldCustomerEmail, "Email Address", func(r domain.InquiryRecord) bool { return strings.TrimSpace(r.EmailAddress) == "" }},
	{domain.FieldCustomerContact, "Contact Number", func(r domain.InquiryRecord) bool { return strings.TrimSpace(r.ContactNumber) == "" }},
	{domain.FieldArrivalDate, "Arrival Date", func(r domain.InquiryRecord) bool { return r.ArrivalDate == nil }},
	{domain.FieldDepartureDate, "Departure Date", func(r domain.InquiryRecord) bool { return r.DepartureDate == nil }},
}

// CheckRecord is the last guard before the datastore call.
func CheckRecord(r domain.InquiryRecord) error {
	missing := map[string]string{}
	for _, c := range requiredColumns {
		if c.empty(r) {
			missing[c.field] = c.label + " is required"
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

// DocumentFromRecord rebuilds the renderable document of a persisted inquiry.
// Stored instants are shown as calendar dates in loc.
func DocumentFromRecord(r domain.InquiryRecord, loc *time.Location) domain.Document {
	if loc == nil {
		loc = time.UTC
	}
	values := map[string]domain.FieldValue{}
	setText := func(field, v string) {
		if strings.TrimSpace(v) != "" {
			values[field] = domain.Text(v)
		}
	}
	setText(domain.FieldCustomerName, r.FullName)
	setText(domain.FieldCustomerEmail, r.EmailAddress)
	setText(domain.FieldCustomerContact, r.ContactNumber)
	setText(domain.FieldCustomerNationality, r.Nationality)
	setText(domain.FieldCustomerCountry, r.Country)
	setText(domain.FieldBasis, r.Basis)
	setText(domain.FieldChildren, r.Children)
	setText(domain.FieldTourType, r.TourType)
	setText(domain.FieldTransport, r.Transport)
	setText(domain.FieldSpecialArrangements, r.SpecialArrangements)
	setText(domain.FieldArrivalFlight, r.ArrivalFlight)
	setText(domain.FieldDepartureFlight, r.DepartureFlight)

	if other, ok := strings.CutPrefix(r.HotelCategory, "Other: "); ok {
		values[domain.FieldHotelCategory] = domain.Text(domain.OptionOther)
		setText(domain.FieldOtherHotelCategory, other)
	} else {
		setText(domain.FieldHotelCategory, r.HotelCategory)
	}
	if r.NoOfNights != nil {
		values[domain.FieldNights] = domain.Text(strconv.Itoa(*r.NoOfNights))
	}
	if r.NoOfPax != nil {
		values[domain.FieldPax] = domain.Text(strconv.Itoa(*r.NoOfPax))
	}
	if len(r.SiteInterests) > 0 {
		values[domain.FieldSiteInterests] = domain.StringList(slices.Clone(r.SiteInterests))
	}
	if len(r.OtherService) > 0 {
		values[domain.FieldOtherService] = domain.StringList(slices.Clone(r.OtherService))
	}
	var rooms []domain.RoomSelection
	if err := json.Unmarshal([]byte(r.RoomType), &rooms); err == nil && len(rooms) > 0 {
		values[domain.FieldRoomSelection] = domain.RoomSelections(rooms)
	}

	dates := map[string]time.Time{}
	for field, t := range map[string]*time.Time{
		domain.FieldArrivalDate:          r.ArrivalDate,
		domain.FieldDepartureDate:        r.DepartureDate,
		domain.FieldSpecialArrangementDt: r.SpecialArrangementsDate,
	} {
		if t != nil {
			lt := t.In(loc)
			dates[field] = lt
			values[field] = domain.Text(lt.Format("2006-01-02"))
		}
	}
	return domain.Document{Values: values, Dates: dates}
}
