package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

// SessionService runs wizard commands against stored per-session state:
// load, apply one command, save.
type SessionService struct {
	store  domain.SessionStore
	wiz    *form.Wizard
	submit *SubmitService
}

func NewSessionService(store domain.SessionStore, w *form.Wizard, submit *SubmitService) *SessionService {
	return &SessionService{store: store, wiz: w, submit: submit}
}

func (s *SessionService) Create(ctx context.Context) (string, form.View, error) {
	id := uuid.NewString()
	st := s.wiz.NewState()
	if err := s.store.Save(ctx, id, st); err != nil {
		return "", form.View{}, err
	}
	return id, s.wiz.View(st), nil
}

func (s *SessionService) View(ctx context.Context, id string) (form.View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return form.View{}, err
	}
	return s.wiz.View(st), nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}

// ChangeField decodes raw for the named field and applies it.
func (s *SessionService) ChangeField(ctx context.Context, id, name string, raw json.RawMessage) (form.View, error) {
	v, err := s.wiz.Catalog().DecodeValue(name, raw)
	if err != nil {
		return form.View{}, err
	}
	return s.mutate(ctx, id, func(st *domain.FormState) error {
		return s.wiz.ChangeField(st, name, v)
	})
}

func (s *SessionService) Next(ctx context.Context, id string) (form.View, error) {
	return s.mutate(ctx, id, func(st *domain.FormState) error { s.wiz.GoNext(st); return nil })
}

func (s *SessionService) Previous(ctx context.Context, id string) (form.View, error) {
	return s.mutate(ctx, id, func(st *domain.FormState) error { s.wiz.GoPrevious(st); return nil })
}

func (s *SessionService) Jump(ctx context.Context, id string, section int) (form.View, error) {
	return s.mutate(ctx, id, func(st *domain.FormState) error { return s.wiz.JumpTo(st, section) })
}

func (s *SessionService) ClearSection(ctx context.Context, id string) (form.View, error) {
	return s.mutate(ctx, id, func(st *domain.FormState) error { s.wiz.ClearSection(st); return nil })
}

func (s *SessionService) Reset(ctx context.Context, id string) (form.View, error) {
	return s.mutate(ctx, id, func(st *domain.FormState) error { s.wiz.Reset(st); return nil })
}

// Submit persists the session's form. Validation problems are saved into the
// session so the client can show them inline; the view is returned either way.
func (s *SessionService) Submit(ctx context.Context, id string) (Submission, form.View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return Submission{}, form.View{}, err
	}
	sub, serr := s.submit.Submit(ctx, st)
	var ve *domain.ValidationError
	if serr == nil || errors.As(serr, &ve) {
		if err := s.store.Save(ctx, id, st); err != nil {
			return sub, s.wiz.View(st), err
		}
	}
	return sub, s.wiz.View(st), serr
}

func (s *SessionService) load(ctx context.Context, id string) (*domain.FormState, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	return s.store.Load(ctx, id)
}

func (s *SessionService) mutate(ctx context.Context, id string, fn func(*domain.FormState) error) (form.View, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return form.View{}, err
	}
	if err := fn(st); err != nil {
		return s.wiz.View(st), err
	}
	if err := s.store.Save(ctx, id, st); err != nil {
		return form.View{}, err
	}
	return s.wiz.View(st), nil
}
