package form

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_inquiry/internal/domain"
)

func newTestWizard() *Wizard {
	w := NewWizard(DefaultCatalog())
	w.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }
	return w
}

func TestNavigation(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	w.GoPrevious(st)
	assert.Equal(t, 0, st.ActiveSection)

	for range 10 {
		w.GoNext(st)
	}
	assert.Equal(t, 4, st.ActiveSection)

	w.GoPrevious(st)
	assert.Equal(t, 3, st.ActiveSection)

	require.NoError(t, w.JumpTo(st, 1))
	assert.Equal(t, 1, st.ActiveSection)

	err := w.JumpTo(st, 5)
	assert.True(t, errors.Is(err, ErrSectionOutOfRange))
	assert.Equal(t, 1, st.ActiveSection)
	assert.Error(t, w.JumpTo(st, -1))
}

func TestNavigation_IgnoresValidity(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()
	require.NoError(t, w.ChangeField(st, domain.FieldCustomerEmail, domain.Text("nope")))

	w.GoNext(st)
	assert.Equal(t, 1, st.ActiveSection)
	assert.Equal(t, msgEmail, st.Errors[domain.FieldCustomerEmail])
}

func TestChangeField_Nights(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, domain.Text("2025-01-01")))
	assert.Nil(t, st.Value(domain.FieldNights))

	require.NoError(t, w.ChangeField(st, domain.FieldDepartureDate, domain.Text("2025-01-05")))
	assert.Equal(t, domain.Text("4"), st.Value(domain.FieldNights))
	assert.NotContains(t, st.Errors, domain.FieldDepartureDate)

	require.NoError(t, w.ChangeField(st, domain.FieldDepartureDate, domain.Text("2025-01-01")))
	assert.Equal(t, domain.Text("0"), st.Value(domain.FieldNights))
}

func TestChangeField_DepartureBeforeArrival(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, domain.Text("2025-01-05")))
	require.NoError(t, w.ChangeField(st, domain.FieldDepartureDate, domain.Text("2025-01-01")))
	assert.Nil(t, st.Value(domain.FieldNights))
	assert.Equal(t, msgDepartureOrder, st.Errors[domain.FieldDepartureDate])

	// moving arrival earlier repairs the pair
	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, domain.Text("2024-12-31")))
	assert.Equal(t, domain.Text("1"), st.Value(domain.FieldNights))
	assert.NotContains(t, st.Errors, domain.FieldDepartureDate)

	// clearing a date drops the count
	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, nil))
	assert.Nil(t, st.Value(domain.FieldNights))
	assert.Equal(t, "Arrival Date is required", st.Errors[domain.FieldArrivalDate])
}

func TestChangeField_NoneClearsSpecialArrangementDate(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldSpecialArrangements, domain.Text("B'Day")))
	require.NoError(t, w.ChangeField(st, domain.FieldSpecialArrangementDt, domain.Text("not a date")))
	require.Equal(t, msgDate, st.Errors[domain.FieldSpecialArrangementDt])

	require.NoError(t, w.ChangeField(st, domain.FieldSpecialArrangements, domain.Text(domain.OptionNone)))
	assert.NotContains(t, st.Values, domain.FieldSpecialArrangementDt)
	assert.NotContains(t, st.Errors, domain.FieldSpecialArrangementDt)
}

func TestChangeField_OtherHotelCategoryRequired(t *testing.T) {
	w := newTestWizard()
	st := filledState(t, w)

	require.NoError(t, w.ChangeField(st, domain.FieldHotelCategory, domain.Text(domain.OptionOther)))
	require.NoError(t, w.ChangeField(st, domain.FieldOtherHotelCategory, domain.Text("")))

	assert.Equal(t, "Please specify the Hotel Category type", st.Errors[domain.FieldOtherHotelCategory])
	assert.False(t, w.Valid(st))

	require.NoError(t, w.ChangeField(st, domain.FieldOtherHotelCategory, domain.Text("Treehouse")))
	assert.True(t, w.Valid(st))
}

func TestChangeField_ParentChangeRevalidatesDependent(t *testing.T) {
	w := newTestWizard()
	st := filledState(t, w)

	require.NoError(t, w.ChangeField(st, domain.FieldHotelCategory, domain.Text(domain.OptionOther)))
	require.NoError(t, w.ChangeField(st, domain.FieldOtherHotelCategory, domain.Text("")))
	require.Contains(t, st.Errors, domain.FieldOtherHotelCategory)

	require.NoError(t, w.ChangeField(st, domain.FieldHotelCategory, domain.Text("5 Star")))
	assert.NotContains(t, st.Errors, domain.FieldOtherHotelCategory)
	assert.Empty(t, w.Validator().Problems(st))
	assert.True(t, w.Valid(st))

	// switching back raises it again because the field was already visited
	require.NoError(t, w.ChangeField(st, domain.FieldHotelCategory, domain.Text(domain.OptionOther)))
	assert.Equal(t, "Please specify the Hotel Category type", st.Errors[domain.FieldOtherHotelCategory])
}

func TestChangeField_ParentChangeLeavesUntouchedDependent(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldSpecialArrangements, domain.Text("Wedding")))
	assert.NotContains(t, st.Errors, domain.FieldSpecialArrangementDt)
}

func TestChangeField_MalformedDepartureWritesNoNights(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, domain.Text("2025-01-01")))
	require.NoError(t, w.ChangeField(st, domain.FieldDepartureDate, domain.Text(" 2025-01-05")))

	assert.Equal(t, msgDate, st.Errors[domain.FieldDepartureDate])
	assert.Nil(t, st.Value(domain.FieldNights))
	assert.False(t, w.Valid(st))
}

func TestChangeField_RemovingArrivalClearsOrderError(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, domain.Text("2025-01-05")))
	require.NoError(t, w.ChangeField(st, domain.FieldDepartureDate, domain.Text("2025-01-01")))
	require.Equal(t, msgDepartureOrder, st.Errors[domain.FieldDepartureDate])

	require.NoError(t, w.ChangeField(st, domain.FieldArrivalDate, nil))
	assert.NotContains(t, st.Errors, domain.FieldDepartureDate)
	assert.Nil(t, st.Value(domain.FieldNights))
	assert.Equal(t, domain.Text("2025-01-01"), st.Value(domain.FieldDepartureDate))
}

func TestChangeField_Rejects(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()

	err := w.ChangeField(st, "Favourite Colour", domain.Text("blue"))
	assert.ErrorIs(t, err, ErrUnknownField)

	err = w.ChangeField(st, domain.FieldNights, domain.Text("3"))
	assert.ErrorIs(t, err, ErrReadOnlyField)

	err = w.ChangeField(st, domain.FieldRoomSelection, domain.Text("two doubles"))
	assert.ErrorIs(t, err, ErrValueShape)

	assert.Empty(t, st.Values)
}

func TestClearSection(t *testing.T) {
	w := newTestWizard()
	st := filledState(t, w)
	require.NoError(t, w.ChangeField(st, domain.FieldHotelCategory, domain.Text(domain.OptionOther)))
	require.NoError(t, w.ChangeField(st, domain.FieldOtherHotelCategory, domain.Text("Glamping")))
	before := st.Clone()

	require.NoError(t, w.JumpTo(st, 2))
	w.ClearSection(st)

	cleared := []string{domain.FieldHotelCategory, domain.FieldOtherHotelCategory, domain.FieldRoomSelection, domain.FieldBasis}
	for _, name := range cleared {
		assert.NotContains(t, st.Values, name)
		assert.NotContains(t, st.Errors, name)
	}
	for name, v := range before.Values {
		if !slices.Contains(cleared, name) {
			assert.Equal(t, v, st.Values[name], name)
		}
	}
	assert.Equal(t, 2, st.ActiveSection)
}

func TestClearSection_TravelDatesDropsNights(t *testing.T) {
	w := newTestWizard()
	st := filledState(t, w)
	require.Equal(t, domain.Text("4"), st.Value(domain.FieldNights))

	require.NoError(t, w.JumpTo(st, 1))
	w.ClearSection(st)

	assert.Nil(t, st.Value(domain.FieldArrivalDate))
	assert.Nil(t, st.Value(domain.FieldDepartureDate))
	assert.Nil(t, st.Value(domain.FieldNights))
	assert.Equal(t, domain.Text("Ana Perera"), st.Value(domain.FieldCustomerName))
}

func TestReset(t *testing.T) {
	w := newTestWizard()
	st := filledState(t, w)
	w.GoNext(st)
	st.Errors["x"] = "y"

	w.Reset(st)

	assert.Empty(t, st.Values)
	assert.Empty(t, st.Errors)
	assert.Equal(t, 0, st.ActiveSection)
}

func TestProgressAndView(t *testing.T) {
	w := newTestWizard()
	st := w.NewState()
	assert.Zero(t, w.Progress(st))

	st = filledState(t, w)
	// 17 answered fields plus the derived night count
	assert.InDelta(t, 18.0/22.0, w.Progress(st), 1e-9)

	v := w.View(st)
	assert.True(t, v.Valid)
	assert.Equal(t, 5, v.SectionCount)
	assert.Equal(t, "Customer", v.Section.Title)
	assert.True(t, v.CanNext)
	assert.False(t, v.CanPrevious)
	assert.Equal(t, w.now(), v.UpdatedAt)

	require.NoError(t, w.JumpTo(st, 4))
	v = w.View(st)
	assert.False(t, v.CanNext)
	assert.True(t, v.CanPrevious)
}

func TestNightsBetween(t *testing.T) {
	colombo := time.FixedZone("IST", 5*3600+1800)
	a := time.Date(2025, 3, 29, 23, 30, 0, 0, colombo)
	d := time.Date(2025, 4, 2, 0, 15, 0, 0, colombo)
	assert.Equal(t, 4, NightsBetween(a, d))
	assert.Equal(t, -4, NightsBetween(d, a))
}
