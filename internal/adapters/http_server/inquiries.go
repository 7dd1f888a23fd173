package httpserver

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/app"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/form"
)

// legacyResult is the body of /download-pdf failures and /send-inquiry.
type legacyResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Details *sendDetails `json:"details,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type sendDetails struct {
	AgencyMessageID   string `json:"agencyMessageId,omitempty"`
	CustomerMessageID string `json:"customerMessageId,omitempty"`
}

type sendRequest struct {
	form.DocumentPayload
	CustomerEmail string `json:"customerEmail"`
	AgencyEmail   string `json:"agencyEmail"`
}

func (h *Handlers) downloadPDF(w http.ResponseWriter, r *http.Request) {
	var p form.DocumentPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	doc, err := h.Catalog.DecodeDocument(p, h.Loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, legacyResult{Message: "PDF generation failed", Error: err.Error()})
		return
	}
	name, b, err := h.Notify.PDF(r.Context(), doc)
	if err != nil {
		log.Error().Err(err).Msg("pdf generation failed")
		writeJSON(w, http.StatusInternalServerError, legacyResult{Message: "PDF generation failed", Error: err.Error()})
		return
	}
	writePDF(w, name, b)
}

// sendInquiry reports success only when both mails went out. Either message id
// that was obtained is still returned on partial failure.
func (h *Handlers) sendInquiry(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	doc, err := h.Catalog.DecodeDocument(req.DocumentPayload, h.Loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, legacyResult{Message: "Failed to send inquiry", Error: err.Error()})
		return
	}
	rc, err := h.send(r.Context(), doc, req.CustomerEmail, req.AgencyEmail)
	details := &sendDetails{AgencyMessageID: rc.AgencyMessageID, CustomerMessageID: rc.CustomerMessageID}
	if err != nil {
		if details.AgencyMessageID == "" && details.CustomerMessageID == "" {
			details = nil
		}
		writeJSON(w, http.StatusInternalServerError, legacyResult{
			Message: "Failed to send inquiry",
			Details: details,
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, legacyResult{Success: true, Message: "Inquiry sent successfully", Details: details})
}

func (h *Handlers) send(ctx context.Context, doc domain.Document, customer, agency string) (app.Receipt, error) {
	rc, err := h.Notify.Send(ctx, doc, customer, agency)
	observability.ObserveNotification(app.ChannelAgency, rc.AgencyErr)
	observability.ObserveNotification(app.ChannelCustomer, rc.CustomerErr)
	return rc, err
}

func (h *Handlers) storedID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func (h *Handlers) getInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.storedID(w, r)
	if !ok {
		return
	}
	rec, err := h.Queries.GetInquiry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, rec)
}

func (h *Handlers) inquiryPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.storedID(w, r)
	if !ok {
		return
	}
	doc, err := h.Queries.Document(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	name, b, err := h.Notify.PDF(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writePDF(w, name, b)
}

type receiptResponse struct {
	AgencyMessageID   string `json:"agencyMessageId,omitempty"`
	CustomerMessageID string `json:"customerMessageId,omitempty"`
	AgencyError       string `json:"agencyError,omitempty"`
	CustomerError     string `json:"customerError,omitempty"`
}

type resendRequest struct {
	CustomerEmail string `json:"customerEmail"`
	AgencyEmail   string `json:"agencyEmail"`
}

// sendStoredInquiry re-sends the notifications of a persisted inquiry. A
// partial failure answers 207 with the per-channel outcome.
func (h *Handlers) sendStoredInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.storedID(w, r)
	if !ok {
		return
	}
	var req resendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	doc, err := h.Queries.Document(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rc, err := h.send(r.Context(), doc, req.CustomerEmail, req.AgencyEmail)
	resp := receiptResponse{AgencyMessageID: rc.AgencyMessageID, CustomerMessageID: rc.CustomerMessageID}
	if rc.AgencyErr != nil {
		resp.AgencyError = rc.AgencyErr.Error()
	}
	if rc.CustomerErr != nil {
		resp.CustomerError = rc.CustomerErr.Error()
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case rc.AgencyMessageID != "" || rc.CustomerMessageID != "":
		writeJSON(w, http.StatusMultiStatus, resp)
	default:
		writeError(w, err)
	}
}

func writePDF(w http.ResponseWriter, filename string, b []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("failed to write pdf body")
	}
}
