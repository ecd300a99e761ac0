package api

import (
	"encoding/json"
	"net/http"

	"consultorio/internal/entities"
	"consultorio/internal/service"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// ListAvailability returns every weekly slot.
// GET /api/availability
func (h *AvailabilityHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.ListSlots(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// UpsertAvailability creates or updates one weekly slot.
// POST /api/availability
func (h *AvailabilityHandler) UpsertAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateSlotRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slot, err := h.Service.UpsertSlot(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// BulkUpsertAvailability applies a batch of slot specs. Every entry is
// validated before any write, so a bad entry aborts the whole batch.
// PUT /api/availability/bulk
func (h *AvailabilityHandler) BulkUpsertAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.BulkSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for _, slot := range req.Availabilities {
		if err := validateSlotRequest(slot); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	slots, err := h.Service.BulkUpsertSlots(r.Context(), req.Availabilities)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
