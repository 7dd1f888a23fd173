package form

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"travel_inquiry/internal/domain"
)

var (
	ErrSectionOutOfRange = errors.New("section index out of range")
	ErrReadOnlyField     = errors.New("field is read-only")
	ErrUnknownField      = errors.New("unknown field")
)

// Wizard is the controller for a session's FormState. It holds no session data
// itself; every command takes the state it mutates.
type Wizard struct {
	cat *Catalog
	val *Validator
	now func() time.Time
}

func NewWizard(c *Catalog) *Wizard {
	return &Wizard{cat: c, val: NewValidator(c), now: time.Now}
}

func (w *Wizard) Catalog() *Catalog     { return w.cat }
func (w *Wizard) Validator() *Validator { return w.val }

func (w *Wizard) NewState() *domain.FormState {
	st := domain.NewFormState()
	st.UpdatedAt = w.now()
	return st
}

// GoNext advances one section; it does nothing on the last one. Navigation never
// checks validity.
func (w *Wizard) GoNext(st *domain.FormState) {
	if st.ActiveSection < w.cat.SectionCount()-1 {
		st.ActiveSection++
		w.touch(st)
	}
}

func (w *Wizard) GoPrevious(st *domain.FormState) {
	if st.ActiveSection > 0 {
		st.ActiveSection--
		w.touch(st)
	}
}

func (w *Wizard) JumpTo(st *domain.FormState, i int) error {
	if i < 0 || i >= w.cat.SectionCount() {
		return fmt.Errorf("%w: %d (have %d sections)", ErrSectionOutOfRange, i, w.cat.SectionCount())
	}
	st.ActiveSection = i
	w.touch(st)
	return nil
}

// ClearSection drops the active section's fields, and the fields that depend on
// them, from both values and errors. Other sections are untouched.
func (w *Wizard) ClearSection(st *domain.FormState) {
	if st.ActiveSection < 0 || st.ActiveSection >= w.cat.SectionCount() {
		return
	}
	sec := w.cat.Sections()[st.ActiveSection]
	for _, name := range sec.Fields {
		w.remove(st, name)
		for _, dep := range w.cat.Dependents(name) {
			w.remove(st, dep)
		}
	}
	w.touch(st)
}

// Reset returns st to an empty form on the first section.
func (w *Wizard) Reset(st *domain.FormState) {
	st.Values = map[string]domain.FieldValue{}
	st.Errors = map[string]string{}
	st.ActiveSection = 0
	w.touch(st)
}

// ChangeField writes value (nil removes it), applies the dependent-field cascade,
// re-validates the field and any visited dependents, and refreshes derived values.
func (w *Wizard) ChangeField(st *domain.FormState, name string, value domain.FieldValue) error {
	if !w.cat.Known(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if w.cat.Spec(name).Kind == domain.KindDisplay {
		return fmt.Errorf("%w: %q", ErrReadOnlyField, name)
	}
	if err := w.cat.CheckShape(name, value); err != nil {
		return err
	}
	if st.Values == nil {
		st.Values = map[string]domain.FieldValue{}
	}
	if st.Errors == nil {
		st.Errors = map[string]string{}
	}

	if value == nil {
		delete(st.Values, name)
	} else {
		st.Values[name] = value
	}

	// a sentinel such as "None" switches off a dependent field: drop its value and error
	for _, dep := range w.cat.Dependents(name) {
		c := w.cat.Spec(dep).RequiredWhen
		if c != nil && c.Field == name && len(c.NotIn) > 0 &&
			slices.Contains(c.NotIn, strings.TrimSpace(domain.AsText(value))) {
			w.remove(st, dep)
		}
	}

	w.setError(st, name, w.val.ValidateField(name, value, st))

	// the parent's new value may switch a condition on or off
	for _, dep := range w.cat.Dependents(name) {
		if w.touched(st, dep) {
			w.setError(st, dep, w.val.ValidateField(dep, st.Value(dep), st))
		}
	}

	if name == domain.FieldArrivalDate || name == domain.FieldDepartureDate {
		w.recomputeNights(st)
	}
	w.touch(st)
	return nil
}

// recomputeNights keeps "No. of Nights" in step with the two travel dates and
// re-checks Departure Date, whose validity depends on Arrival Date. No count
// is written unless both dates are valid and in order.
func (w *Wizard) recomputeNights(st *domain.FormState) {
	delete(st.Values, domain.FieldNights)
	if w.touched(st, domain.FieldDepartureDate) {
		w.setError(st, domain.FieldDepartureDate,
			w.val.ValidateField(domain.FieldDepartureDate, st.Value(domain.FieldDepartureDate), st))
	}

	arrival, departure := st.TextValue(domain.FieldArrivalDate), st.TextValue(domain.FieldDepartureDate)
	if !validDate(arrival) || !validDate(departure) {
		return
	}
	arr, errA := ParseDate(arrival, nil)
	dep, errD := ParseDate(departure, nil)
	if errA != nil || errD != nil {
		return
	}
	if n := NightsBetween(arr, dep); n >= 0 {
		st.Values[domain.FieldNights] = domain.Text(strconv.Itoa(n))
	}
}

// NightsBetween is the calendar-day difference departure - arrival.
func NightsBetween(arrival, departure time.Time) int {
	a := time.Date(arrival.Year(), arrival.Month(), arrival.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(a) / (24 * time.Hour))
}

// Progress is the share of catalog fields holding a non-empty value, in [0,1].
func (w *Wizard) Progress(st *domain.FormState) float64 {
	total := w.cat.FieldCount()
	if total == 0 {
		return 0
	}
	done := 0
	for name, v := range st.Values {
		if w.cat.Known(name) && !domain.IsEmpty(v) {
			done++
		}
	}
	return float64(done) / float64(total)
}

func (w *Wizard) Valid(st *domain.FormState) bool { return w.val.Valid(st) }

// touched reports whether the user has entered name or been shown an error for it.
func (w *Wizard) touched(st *domain.FormState, name string) bool {
	_, hasValue := st.Values[name]
	_, hasError := st.Errors[name]
	return hasValue || hasError
}

func (w *Wizard) remove(st *domain.FormState, name string) {
	delete(st.Values, name)
	delete(st.Errors, name)
}

func (w *Wizard) setError(st *domain.FormState, name, msg string) {
	if msg == "" {
		delete(st.Errors, name)
		return
	}
	st.Errors[name] = msg
}

func (w *Wizard) touch(st *domain.FormState) { st.UpdatedAt = w.now() }

// View is the derived, read-only picture of a session sent to clients.
type View struct {
	Values        map[string]domain.FieldValue `json:"values"`
	Errors        map[string]string            `json:"errors"`
	ActiveSection int                          `json:"activeSection"`
	Section       domain.Section               `json:"section"`
	SectionCount  int                          `json:"sectionCount"`
	Progress      float64                      `json:"progress"`
	Valid         bool                         `json:"valid"`
	CanNext       bool                         `json:"canNext"`
	CanPrevious   bool                         `json:"canPrevious"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

func (w *Wizard) View(st *domain.FormState) View {
	n := w.cat.SectionCount()
	idx := min(max(st.ActiveSection, 0), n-1)
	return View{
		Values:        st.Values,
		Errors:        st.Errors,
		ActiveSection: idx,
		Section:       w.cat.Sections()[idx],
		SectionCount:  n,
		Progress:      w.Progress(st),
		Valid:         w.Valid(st),
		CanNext:       idx < n-1,
		CanPrevious:   idx > 0,
		UpdatedAt:     st.UpdatedAt,
	}
}
