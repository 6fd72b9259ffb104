package rest

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"resident-request-service/internal/usecase"
	"resident-request-service/pkg/logger"
)

// DraftHandler serves the service-request draft lifecycle: open, edit,
// address search, submit, teardown
type DraftHandler struct {
	drafts       *usecase.DraftService
	vehicles     *usecase.VehicleService
	orchestrator *usecase.SubmissionOrchestrator
	catalog      *usecase.CatalogService
	logger       logger.Logger
}

// NewDraftHandler creates the draft handler
func NewDraftHandler(
	drafts *usecase.DraftService,
	vehicles *usecase.VehicleService,
	orchestrator *usecase.SubmissionOrchestrator,
	catalog *usecase.CatalogService,
	logger logger.Logger,
) *DraftHandler {
	return &DraftHandler{
		drafts:       drafts,
		vehicles:     vehicles,
		orchestrator: orchestrator,
		catalog:      catalog,
		logger:       logger,
	}
}

type draftResponse struct {
	Draft          interface{} `json:"draft"`
	IsSubmittable  bool        `json:"isSubmittable"`
	MissingFields  []string    `json:"missingFields,omitempty"`
	ProfileMissing bool        `json:"profileMissing,omitempty"`
}

// Open creates a draft seeded from the resident's profile
func (h *DraftHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	draft, profileMissing, err := h.drafts.Open(r.Context(), claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, draftResponse{
		Draft:          draft,
		IsSubmittable:  draft.IsSubmittable(),
		MissingFields:  draft.MissingFields(),
		ProfileMissing: profileMissing,
	})
}

// Get returns the current draft state
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(mux.Vars(r)["draftId"], claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Draft:         draft,
		IsSubmittable: draft.IsSubmittable(),
		MissingFields: draft.MissingFields(),
	})
}

// Patch applies a partial update to the draft
func (h *DraftHandler) Patch(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var update usecase.DraftUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, h.logger, err)
		return
	}

	draft, err := h.drafts.Apply(mux.Vars(r)["draftId"], claims.UserID, update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Draft:         draft,
		IsSubmittable: draft.IsSubmittable(),
		MissingFields: draft.MissingFields(),
	})
}

// Close tears the draft down
func (h *DraftHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	if err := h.drafts.Close(mux.Vars(r)["draftId"], claims.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suggest runs a debounced address search. A query superseded by newer
// input answers 204 so the client simply waits for the newer response.
func (h *DraftHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	suggestions, err := h.drafts.Suggest(r.Context(), mux.Vars(r)["draftId"], claims.UserID, query)
	if err != nil {
		if errors.Is(err, usecase.ErrQuerySuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// ResolveAddress fills the draft location from a selected suggestion
func (h *DraftHandler) ResolveAddress(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var body struct {
		SuggestionID string `json:"suggestionId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	draft, err := h.drafts.ResolveAddress(r.Context(), mux.Vars(r)["draftId"], claims.UserID, body.SuggestionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Draft:         draft,
		IsSubmittable: draft.IsSubmittable(),
		MissingFields: draft.MissingFields(),
	})
}

// Submit validates the draft and forwards it to the field-service vendor.
// On success the draft is reset to defaults for the next request.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	draftID := mux.Vars(r)["draftId"]
	draft, err := h.drafts.Get(draftID, claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	vehicles, err := h.vehicles.List(r.Context(), claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.orchestrator.Submit(r.Context(), claims, draft, vehicles, func() {
		if err := h.drafts.SavePhone(r.Context(), draftID, claims.UserID); err != nil {
			h.logger.Warn("Failed to persist contact phone", "draftId", draftID, "error", err)
		}
		if err := h.drafts.Reset(draftID, claims.UserID); err != nil {
			h.logger.Warn("Failed to reset draft after submit", "draftId", draftID, "error", err)
		}
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ServiceTypes returns the resident-facing service catalog
func (h *DraftHandler) ServiceTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r); !ok {
		return
	}

	types, err := h.catalog.Public(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"serviceTypes": types})
}
