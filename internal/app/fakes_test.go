package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	inserted []domain.InquiryRecord
	rows     map[int64]domain.InquiryRecord
	gets     int
	nextID   int64
	err      error
}

func (f *fakeRepo) Insert(ctx context.Context, rec domain.InquiryRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, rec)
	if f.nextID == 0 {
		return 0, nil
	}
	id := f.nextID
	f.nextID++
	if f.rows == nil {
		f.rows = map[int64]domain.InquiryRecord{}
	}
	rec.ID = id
	f.rows[id] = rec
	return id, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (domain.InquiryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	rec, ok := f.rows[id]
	if !ok {
		return domain.InquiryRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// fakeStore round-trips through JSON like the real store does.
type fakeStore struct {
	data map[string][]byte
}

func (s *fakeStore) Load(ctx context.Context, id string) (*domain.FormState, error) {
	b, ok := s.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	st := domain.NewFormState()
	return st, json.Unmarshal(b, st)
}

func (s *fakeStore) Save(ctx context.Context, id string, st *domain.FormState) error {
	if s.data == nil {
		s.data = map[string][]byte{}
	}
	b, err := json.Marshal(st)
	s.data[id] = b
	return err
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	delete(s.data, id)
	return nil
}

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) Render(ctx context.Context, doc domain.Document) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.7 " + doc.Text(domain.FieldCustomerName)), nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []domain.Mail
	failTo map[string]error
}

func (m *fakeMailer) Send(ctx context.Context, msg domain.Mail) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTo[msg.To]; err != nil {
		return "", err
	}
	m.sent = append(m.sent, msg)
	return "<" + strings.ReplaceAll(msg.To, "@", ".") + "@test>", nil
}

func (m *fakeMailer) to(addr string) (domain.Mail, bool) {
	for _, s := range m.sent {
		if s.To == addr {
			return s, true
		}
	}
	return domain.Mail{}, false
}

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	return err
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("boom")

// ---- fixtures ----

func filled(t *testing.T, w *form.Wizard) *domain.FormState {
	t.Helper()
	st := w.NewState()
	for _, f := range []struct {
		name string
		v    domain.FieldValue
	}{
		{domain.FieldCustomerName, domain.Text("Ana Perera")},
		{domain.FieldCustomerEmail, domain.Text("ana@example.com")},
		{domain.FieldCustomerContact, domain.Text("+94 77 123 4567")},
		{domain.FieldCustomerNationality, domain.Text("Sri Lankan")},
		{domain.FieldCustomerCountry, domain.Text("Sri Lanka")},
		{domain.FieldArrivalDate, domain.Text("2025-01-01")},
		{domain.FieldDepartureDate, domain.Text("2025-01-05")},
		{domain.FieldHotelCategory, domain.Text("Other")},
		{domain.FieldOtherHotelCategory, domain.Text("Eco lodge")},
		{domain.FieldRoomSelection, domain.RoomSelections{{Category: domain.RoomStandard, Type: domain.RoomDBL, Quantity: 2}}},
		{domain.FieldBasis, domain.Text("BB")},
		{domain.FieldPax, domain.Text("4")},
		{domain.FieldChildren, domain.Text("None")},
		{domain.FieldTourType, domain.Text("Round trip")},
		{domain.FieldTransport, domain.Text("Van")},
		{domain.FieldSiteInterests, domain.StringList{"Culture", "Nature"}},
		{domain.FieldOtherService, domain.StringList{"Jeep 4x4", "None"}},
		{domain.FieldSpecialArrangements, domain.Text("Anniversary")},
		{domain.FieldSpecialArrangementDt, domain.Text("2025-01-03")},
		{domain.FieldArrivalFlight, domain.Text("UL 504")},
	} {
		if err := w.ChangeField(st, f.name, f.v); err != nil {
			t.Fatalf("set %s: %v", f.name, err)
		}
	}
	if !w.Valid(st) {
		t.Fatalf("fixture not valid: %v", w.Validator().Problems(st))
	}
	return st
}
