package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
	"travel_inquiry/internal/render"
)

type SubmitService struct {
	wiz  *form.Wizard
	repo domain.InquiryRepository
	loc  *time.Location
}

func NewSubmitService(w *form.Wizard, r domain.InquiryRepository, loc *time.Location) *SubmitService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmitService{wiz: w, repo: r, loc: loc}
}

// Submission is a persisted inquiry plus the document it was built from, kept so
// the caller can still render or mail it after the form has been reset.
type Submission struct {
	ID       int64
	Document domain.Document
}

// Submit validates st, writes it to the datastore and resets st on success.
// Validation failures are written into st.Errors and never reach the datastore;
// a datastore failure leaves st untouched.
func (s *SubmitService) Submit(ctx context.Context, st *domain.FormState) (Submission, error) {
	if problems := s.wiz.Validator().Problems(st); len(problems) > 0 {
		markErrors(st, problems)
		return Submission{}, &domain.ValidationError{Fields: problems}
	}

	doc := s.wiz.Catalog().DocumentFromState(st, s.loc)
	rec := ToRecord(doc)
	if err := CheckRecord(rec); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			markErrors(st, ve.Fields)
		}
		return Submission{}, err
	}

	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		var pe *domain.PersistenceError
		if !errors.As(err, &pe) {
			err = &domain.PersistenceError{Message: err.Error(), Err: err}
		}
		log.Error().Err(err).Str("email", rec.EmailAddress).Msg("inquiry insert failed")
		return Submission{}, err
	}
	if id <= 0 {
		log.Error().Int64("id", id).Msg("inquiry insert returned no row")
		return Submission{}, fmt.Errorf("%w: datastore returned no inserted row", domain.ErrUnknownResponse)
	}

	doc.Reference = render.Reference(id)
	s.wiz.Reset(st)
	log.Info().Int64("id", id).Str("reference", doc.Reference).Msg("inquiry stored")
	return Submission{ID: id, Document: doc}, nil
}

func markErrors(st *domain.FormState, problems map[string]string) {
	if st.Errors == nil {
		st.Errors = map[string]string{}
	}
	for k, v := range problems {
		st.Errors[k] = v
	}
}
