package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

// ResultHandler serves the store-and-forward result protocol: external
// workers POST outcomes by request id, clients GET them back. A terminal
// outcome is cleared as part of the read that delivers it.
type ResultHandler struct {
	results  interfaces.ResultStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewResultHandler creates a new ResultHandler
func NewResultHandler(results interfaces.ResultStorage, logger arbor.ILogger) *ResultHandler {
	return &ResultHandler{
		results:  results,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle routes GET and POST on /api/result.
func (h *ResultHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getResult(w, r)
	case http.MethodPost:
		h.storeResult(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getResult handles GET /api/result?requestId=<id>. An absent outcome is
// reported as pending rather than 404: the worker may simply not have
// posted back yet, and the poller cannot tell the difference.
func (h *ResultHandler) getResult(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		WriteError(w, http.StatusBadRequest, interfaces.ErrMissingIdentifier.Error())
		return
	}

	outcome, err := h.results.TakeIfTerminal(r.Context(), requestID)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("Result lookup failed")
		WriteError(w, http.StatusInternalServerError, "result lookup failed")
		return
	}

	// Absent and not-yet-terminal look the same to the poller.
	if outcome == nil || !outcome.IsTerminal() {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "pending"})
		return
	}

	WriteJSON(w, http.StatusOK, outcome)
}

// storeResult handles POST /api/result, recording an outcome posted back
// by an external worker.
func (h *ResultHandler) storeResult(w http.ResponseWriter, r *http.Request) {
	var req models.StoreResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RequestID == "" {
		WriteError(w, http.StatusBadRequest, interfaces.ErrMissingIdentifier.Error())
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := &models.Outcome{
		RequestID: req.RequestID,
		Status:    req.Status,
		Result:    req.Result,
		Error:     req.Error,
		Timestamp: time.Now(),
	}

	if err := h.results.Put(r.Context(), outcome); err != nil {
		h.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("Failed to store outcome")
		WriteError(w, http.StatusInternalServerError, "failed to store outcome")
		return
	}

	h.logger.Debug().Str("request_id", req.RequestID).Str("status", string(req.Status)).Msg("Outcome stored")
	WriteJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}
