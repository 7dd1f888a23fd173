package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

type sessionResponse struct {
	ID   string    `json:"id"`
	View form.View `json:"view"`
}

type submitResponse struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Document  domain.Document `json:"document"`
	View      form.View       `json:"view"`
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	id, v, err := h.Sessions.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: v})
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.View(r.Context(), id)
	h.respondView(w, id, v, err)
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldChange struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func (h *Handlers) changeField(w http.ResponseWriter, r *http.Request) {
	var body fieldChange
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "name is required")
		return
	}
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.ChangeField(r.Context(), id, body.Name, body.Value)
	h.respondView(w, id, v, err)
}

func (h *Handlers) nextSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.Next(r.Context(), id)
	h.respondView(w, id, v, err)
}

func (h *Handlers) previousSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.Previous(r.Context(), id)
	h.respondView(w, id, v, err)
}

func (h *Handlers) jumpSection(w http.ResponseWriter, r *http.Request) {
	section, err := strconv.Atoi(chi.URLParam(r, "section"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid section", "section must be an integer")
		return
	}
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.Jump(r.Context(), id, section)
	h.respondView(w, id, v, err)
}

func (h *Handlers) clearSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.ClearSection(r.Context(), id)
	h.respondView(w, id, v, err)
}

func (h *Handlers) resetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := h.Sessions.Reset(r.Context(), id)
	h.respondView(w, id, v, err)
}

// submitSession answers 201 with the stored document so the client can still
// download or mail it after the form has been reset.
func (h *Handlers) submitSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, v, err := h.Sessions.Submit(r.Context(), id)
	observability.ObserveSubmission(submissionResult(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		ID:        sub.ID,
		Reference: sub.Document.Reference,
		Document:  sub.Document,
		View:      v,
	})
}

func submissionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, domain.ErrPersistenceFailed):
		return "persistence_failed"
	case errors.Is(err, domain.ErrUnknownResponse):
		return "unknown_response"
	default:
		return "error"
	}
}

func (h *Handlers) respondView(w http.ResponseWriter, id string, v form.View, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: v})
}
