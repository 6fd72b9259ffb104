package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resident-request-service/internal/infrastructure/auth"
	"resident-request-service/pkg/logger"
)

// NewRouter wires the API surface. /health and /metrics are public;
// everything under /api/v1 requires a session token.
func NewRouter(
	verifier *auth.Verifier,
	drafts *DraftHandler,
	vehicles *VehicleHandler,
	notifications *NotificationHandler,
	log logger.Logger,
) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(SessionMiddleware(verifier, log))

	// Service-request drafts
	api.HandleFunc("/drafts", drafts.Open).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{draftId}", drafts.Get).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{draftId}", drafts.Patch).Methods(http.MethodPatch)
	api.HandleFunc("/drafts/{draftId}", drafts.Close).Methods(http.MethodDelete)
	api.HandleFunc("/drafts/{draftId}/submit", drafts.Submit).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{draftId}/address-suggestions", drafts.Suggest).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{draftId}/address", drafts.ResolveAddress).Methods(http.MethodPost)

	// Service catalog
	api.HandleFunc("/service-types", drafts.ServiceTypes).Methods(http.MethodGet)

	// Vehicles
	api.HandleFunc("/vehicles", vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", vehicles.Add).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{index}", vehicles.Update).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{index}", vehicles.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{index}/autosave", vehicles.Autosave).Methods(http.MethodPut)

	// Notifications
	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notifications.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/clear", notifications.ClearAll).Methods(http.MethodPost)
	api.HandleFunc("/notifications/stream", notifications.Stream).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notifications.MarkRead).Methods(http.MethodPatch)

	// Session lifecycle
	api.HandleFunc("/session/logout", notifications.Logout).Methods(http.MethodPost)

	return r
}
