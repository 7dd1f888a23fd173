package form

import (
	"testing"

	"github.com/stretchr/testify/require"

	"travel_inquiry/internal/domain"
)

// filledState returns a state in which every required field holds a valid value.
func filledState(t *testing.T, w *Wizard) *domain.FormState {
	t.Helper()
	st := w.NewState()
	set := func(name string, v domain.FieldValue) {
		require.NoError(t, w.ChangeField(st, name, v), name)
	}
	set(domain.FieldCustomerName, domain.Text("Ana Perera"))
	set(domain.FieldCustomerEmail, domain.Text("ana@example.com"))
	set(domain.FieldCustomerContact, domain.Text("+94 77 123 4567"))
	set(domain.FieldCustomerNationality, domain.Text("Sri Lankan"))
	set(domain.FieldCustomerCountry, domain.Text("Sri Lanka"))
	set(domain.FieldArrivalDate, domain.Text("2025-01-01"))
	set(domain.FieldDepartureDate, domain.Text("2025-01-05"))
	set(domain.FieldHotelCategory, domain.Text("5 Star"))
	set(domain.FieldRoomSelection, domain.RoomSelections{{Category: domain.RoomStandard, Type: domain.RoomDBL, Quantity: 2}})
	set(domain.FieldBasis, domain.Text("BB"))
	set(domain.FieldPax, domain.Text("4"))
	set(domain.FieldChildren, domain.Text("None"))
	set(domain.FieldTourType, domain.Text("Round trip"))
	set(domain.FieldTransport, domain.Text("Van"))
	set(domain.FieldSiteInterests, domain.StringList{"Culture", "Nature"})
	set(domain.FieldOtherService, domain.StringList{"None"})
	set(domain.FieldSpecialArrangements, domain.Text("None"))
	return st
}
