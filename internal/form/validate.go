package form

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"travel_inquiry/internal/domain"
)

var (
	emailRe   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	contactRe = regexp.MustCompile(`^[\d\s+\-()]{7,}$`)
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const (
	msgEmail            = "Please enter a valid email address"
	msgContact          = "Please enter a valid contact number"
	msgDate             = "Please select a valid date"
	msgPax              = "Please enter a valid number of travelers"
	msgDepartureOrder   = "Departure date must be after arrival date"
	msgNoRooms          = "Please add at least one room"
	msgIncompleteRooms  = "Please fill all room details"
	msgUnknownRoom      = "Please choose a valid room category and type"
	duplicateRoomFormat = "Duplicate room combination: %s %s. Increase quantity instead of adding the same room type multiple times."
)

// Validator applies field rules in precedence order: required, conditional
// requirement, format, then the composite room rule.
type Validator struct {
	cat *Catalog
}

func NewValidator(c *Catalog) *Validator { return &Validator{cat: c} }

// ValidateField returns "" when value is acceptable for name given the rest of st.
func (v *Validator) ValidateField(name string, value domain.FieldValue, st *domain.FormState) string {
	fs := v.cat.Spec(name)
	if fs.Kind == domain.KindRoomSelector {
		rooms, _ := value.(domain.RoomSelections)
		return v.validateRooms(fs, rooms)
	}

	empty := domain.IsEmpty(value)
	if empty {
		if v.cat.IsRequired(name) {
			return name + " is required"
		}
		if c := fs.RequiredWhen; c != nil && conditionHolds(c, st) {
			return c.Message
		}
		return ""
	}

	raw := domain.AsText(value)
	switch name {
	case domain.FieldCustomerEmail:
		if !emailRe.MatchString(raw) {
			return msgEmail
		}
	case domain.FieldCustomerContact:
		if !contactRe.MatchString(raw) {
			return msgContact
		}
	case domain.FieldPax:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return msgPax
		}
	case domain.FieldArrivalFlight, domain.FieldDepartureFlight:
		if len([]rune(strings.TrimSpace(raw))) < 3 {
			return "Please enter a valid " + strings.ToLower(name)
		}
	}

	switch fs.Kind {
	case domain.KindDate:
		if !validDate(raw) {
			return msgDate
		}
		if name == domain.FieldDepartureDate && departsBeforeArrival(st.TextValue(domain.FieldArrivalDate), raw) {
			return msgDepartureOrder
		}
	case domain.KindSelect:
		if len(fs.Options) > 0 && !slices.Contains(fs.Options, raw) {
			return fmt.Sprintf("%q is not a valid option for %s", raw, name)
		}
	case domain.KindMultiSelect:
		if !fs.AllowCustom && len(fs.Options) > 0 {
			list, _ := value.(domain.StringList)
			for _, item := range list {
				if !slices.Contains(fs.Options, item) {
					return fmt.Sprintf("%q is not a valid option for %s", item, name)
				}
			}
		}
	}
	return ""
}

func (v *Validator) validateRooms(fs domain.FieldSpec, rooms domain.RoomSelections) string {
	if len(rooms) == 0 {
		return msgNoRooms
	}
	for _, r := range rooms {
		if !r.Complete() {
			return msgIncompleteRooms
		}
	}
	for _, r := range rooms {
		if len(fs.RoomCategories) > 0 && !slices.Contains(fs.RoomCategories, r.Category) {
			return msgUnknownRoom
		}
		if len(fs.RoomTypes) > 0 && !slices.Contains(fs.RoomTypes, r.Type) {
			return msgUnknownRoom
		}
	}
	seen := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		if _, dup := seen[r.Key()]; dup {
			return fmt.Sprintf(duplicateRoomFormat, r.Category, r.Type)
		}
		seen[r.Key()] = struct{}{}
	}
	return ""
}

// Problems lists every issue that blocks submission: required fields (in all
// sections), conditional requirements, and any outstanding error in st.Errors.
func (v *Validator) Problems(st *domain.FormState) map[string]string {
	out := map[string]string{}
	for _, name := range v.cat.RequiredFields() {
		if msg := v.ValidateField(name, st.Value(name), st); msg != "" {
			out[name] = msg
		}
	}
	for _, fs := range v.cat.Conditionals() {
		if msg := v.ValidateField(fs.Name, st.Value(fs.Name), st); msg != "" {
			out[fs.Name] = msg
		}
	}
	for name, msg := range st.Errors {
		if msg == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = msg
		}
	}
	return out
}

// Valid is the overall form validity used to gate submission.
func (v *Validator) Valid(st *domain.FormState) bool { return len(v.Problems(st)) == 0 }

func conditionHolds(c *domain.Condition, st *domain.FormState) bool {
	parent := st.Value(c.Field)
	if c.Equals != "" {
		return strings.TrimSpace(domain.AsText(parent)) == c.Equals
	}
	if domain.IsEmpty(parent) {
		return false
	}
	return !slices.Contains(c.NotIn, strings.TrimSpace(domain.AsText(parent)))
}

func validDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := ParseDate(s, nil)
	return err == nil
}

func departsBeforeArrival(arrival, departure string) bool {
	a, errA := ParseDate(arrival, nil)
	d, errD := ParseDate(departure, nil)
	return errA == nil && errD == nil && d.Before(a)
}
