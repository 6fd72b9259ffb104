package rest

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/usecase"
	"resident-request-service/pkg/logger"
)

// VehicleHandler serves the resident's vehicle list
type VehicleHandler struct {
	vehicles *usecase.VehicleService
	logger   logger.Logger
}

// NewVehicleHandler creates the vehicle handler
func NewVehicleHandler(vehicles *usecase.VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, logger: logger}
}

// List returns the current vehicle list, refetched from storage
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	vehicles, err := h.vehicles.List(r.Context(), claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
}

// Add appends a vehicle and persists the whole list
func (h *VehicleHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var vehicle entity.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		writeError(w, h.logger, err)
		return
	}

	index, err := h.vehicles.Add(r.Context(), claims, vehicle)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"index": index})
}

// Update replaces the vehicle at a position
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	index, err := vehicleIndex(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var vehicle entity.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.vehicles.Update(r.Context(), claims, index, vehicle); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Autosave records an in-progress edit; it is flushed after the debounce
// window and only once the vehicle is complete
func (h *VehicleHandler) Autosave(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	index, err := vehicleIndex(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var vehicle entity.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.vehicles.Autosave(r.Context(), claims, index, vehicle); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Delete removes the vehicle at a position
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	index, err := vehicleIndex(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.vehicles.Delete(r.Context(), claims, index); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func vehicleIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		return 0, &entity.DomainError{
			Kind:    entity.KindValidation,
			Message: "vehicle index must be a non-negative integer",
		}
	}
	return index, nil
}
