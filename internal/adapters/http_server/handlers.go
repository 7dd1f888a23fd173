package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"travel_inquiry/internal/app"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

type Handlers struct {
	Catalog  *form.Catalog
	Sessions *app.SessionService
	Notify   *app.NotifyService
	Queries  *app.QueryService
	Loc      *time.Location // calendar dates in client payloads
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/catalog", h.getCatalog)

	s.mux.Post("/v1/sessions", h.createSession)
	s.mux.Get("/v1/sessions/{id}", h.getSession)
	s.mux.Delete("/v1/sessions/{id}", h.deleteSession)
	s.mux.Put("/v1/sessions/{id}/fields", h.changeField)
	s.mux.Post("/v1/sessions/{id}/next", h.nextSection)
	s.mux.Post("/v1/sessions/{id}/previous", h.previousSection)
	s.mux.Post("/v1/sessions/{id}/jump/{section}", h.jumpSection)
	s.mux.Post("/v1/sessions/{id}/clear", h.clearSection)
	s.mux.Post("/v1/sessions/{id}/reset", h.resetSession)
	s.mux.Post("/v1/sessions/{id}/submit", h.submitSession)

	s.mux.Get("/v1/inquiries/{id}", h.getInquiry)
	s.mux.Get("/v1/inquiries/{id}/pdf", h.inquiryPDF)
	s.mux.Post("/v1/inquiries/{id}/send", h.sendStoredInquiry)

	s.mux.Post("/download-pdf", h.downloadPDF)
	s.mux.Post("/send-inquiry", h.sendInquiry)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *domain.ValidationError
		pe *domain.PersistenceError
		ne *domain.NotificationError
	)
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{
			Type:   "about:blank",
			Title:  "Validation Failed",
			Status: http.StatusUnprocessableEntity,
			Detail: "please correct the highlighted fields",
			Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, form.ErrValueShape),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrReadOnlyField),
		errors.Is(err, form.ErrSectionOutOfRange):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.As(err, &pe):
		writeProblem(w, http.StatusBadGateway, "Persistence Failed", pe.Error())
	case errors.Is(err, domain.ErrUnknownResponse):
		writeProblem(w, http.StatusBadGateway, "Unknown Response", err.Error())
	case errors.As(err, &ne):
		writeProblem(w, http.StatusBadGateway, "Notification Failed", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeJSON reads a size-capped JSON body into dst. An empty body leaves dst as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", err.Error())
		return false
	}
	writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
	return false
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves v with a weak ETag and answers 304 when the client has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

type catalogResponse struct {
	Fields   []domain.FieldSpec `json:"fields"`
	Sections []domain.Section   `json:"sections"`
}

func (h *Handlers) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, catalogResponse{Fields: h.Catalog.Fields(), Sections: h.Catalog.Sections()})
}
