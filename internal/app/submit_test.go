package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_inquiry/internal/app"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

func newSubmit(repo domain.InquiryRepository) (*app.SubmitService, *form.Wizard) {
	w := form.NewWizard(form.DefaultCatalog())
	return app.NewSubmitService(w, repo, time.UTC), w
}

func TestSubmit_InvalidFormNeverReachesRepo(t *testing.T) {
	repo := &fakeRepo{nextID: 1}
	svc, w := newSubmit(repo)
	st := w.NewState()
	require.NoError(t, w.ChangeField(st, domain.FieldCustomerName, domain.Text("Ana")))

	_, err := svc.Submit(context.Background(), st)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, repo.inserted)
	assert.Contains(t, ve.Fields, domain.FieldCustomerEmail)
	assert.Equal(t, ve.Fields[domain.FieldCustomerEmail], st.Errors[domain.FieldCustomerEmail], "problems are shown inline")
	assert.Equal(t, domain.Text("Ana"), st.Values[domain.FieldCustomerName])
}

func TestSubmit_PersistenceFailureKeepsState(t *testing.T) {
	repo := &fakeRepo{err: errBoom}
	svc, w := newSubmit(repo)
	st := filled(t, w)
	require.NoError(t, w.JumpTo(st, 4))
	before := st.Clone()

	_, err := svc.Submit(context.Background(), st)

	require.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before.Values, st.Values)
	assert.Equal(t, 4, st.ActiveSection)
}

func TestSubmit_PersistenceErrorPassesThrough(t *testing.T) {
	pe := &domain.PersistenceError{Message: "duplicate", Status: 409, StatusText: "Conflict"}
	svc, w := newSubmit(&fakeRepo{err: pe})

	_, err := svc.Submit(context.Background(), filled(t, w))

	var got *domain.PersistenceError
	require.ErrorAs(t, err, &got)
	assert.Same(t, pe, got)
}

func TestSubmit_NoRowIsUnknownResponse(t *testing.T) {
	svc, w := newSubmit(&fakeRepo{}) // id 0
	st := filled(t, w)

	_, err := svc.Submit(context.Background(), st)

	require.ErrorIs(t, err, domain.ErrUnknownResponse)
	assert.NotEmpty(t, st.Values, "state is kept when the outcome is unknown")
}

func TestSubmit_SuccessResetsForm(t *testing.T) {
	repo := &fakeRepo{nextID: 7}
	svc, w := newSubmit(repo)
	st := filled(t, w)
	require.NoError(t, w.JumpTo(st, 3))

	sub, err := svc.Submit(context.Background(), st)
	require.NoError(t, err)

	assert.EqualValues(t, 7, sub.ID)
	assert.Equal(t, "INQ-000007", sub.Document.Reference)
	assert.Equal(t, "Ana Perera", sub.Document.Text(domain.FieldCustomerName), "document survives the reset")
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Other: Eco lodge", repo.inserted[0].HotelCategory)

	assert.Empty(t, st.Values)
	assert.Empty(t, st.Errors)
	assert.Equal(t, 0, st.ActiveSection)
}
