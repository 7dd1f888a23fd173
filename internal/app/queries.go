package app

import (
	"context"
	"fmt"
	"time"

	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/render"
)

// QueryService reads persisted inquiries. Rows never change after insert, so a
// cached copy is served until it expires.
type QueryService struct {
	repo     domain.InquiryRepository
	cache    domain.Cache
	cacheTTL time.Duration
	loc      *time.Location
}

func NewQueryService(r domain.InquiryRepository, c domain.Cache, ttl time.Duration, loc *time.Location) *QueryService {
	if loc == nil {
		loc = time.UTC
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, loc: loc}
}

func (s *QueryService) GetInquiry(ctx context.Context, id int64) (domain.InquiryRecord, error) {
	key := fmt.Sprintf("inquiry:%d", id)
	var rec domain.InquiryRecord
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rec); ok {
			return rec, nil
		}
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.InquiryRecord{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds()))
	}
	return rec, nil
}

// Document rebuilds the renderable document of inquiry id, reference included.
func (s *QueryService) Document(ctx context.Context, id int64) (domain.Document, error) {
	rec, err := s.GetInquiry(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	doc := DocumentFromRecord(rec, s.loc)
	doc.Reference = render.Reference(id)
	return doc, nil
}
