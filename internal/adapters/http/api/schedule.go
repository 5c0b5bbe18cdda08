// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/slotwise/slotwise/internal/domain/types"
)

// maxRequestBody caps the accepted request size; scheduling utterances are
// short.
const maxRequestBody = 64 << 10

// scheduleRequest mirrors the schema for POST /schedule.
type scheduleRequest struct {
	Text string `json:"text"`
}

func (r scheduleRequest) validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// scheduleResponse is the wire shape of a resolved scheduling request.
type scheduleResponse struct {
	RequestID          string           `json:"request_id"`
	Message            string           `json:"message"`
	NeedsClarification bool             `json:"needs_clarification"`
	Slots              []types.SlotView `json:"slots"`
}

// ScheduleHandler handles scheduling requests.
type ScheduleHandler struct {
	deps Dependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps Dependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

// HandleSchedule handles POST /schedule requests.
func (h *ScheduleHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.schedule"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp := h.deps.Schedule(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, scheduleResponse{
		RequestID:          resp.RequestID,
		Message:            resp.Message,
		NeedsClarification: resp.NeedsClarification,
		Slots:              types.FromSlots(resp.Slots),
	})
}
