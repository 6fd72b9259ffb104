package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/usecase"
	"resident-request-service/pkg/logger"
)

// NotificationHandler serves the live notification feed
type NotificationHandler struct {
	hub      *usecase.NotificationHub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewNotificationHandler creates the notification handler
func NewNotificationHandler(hub *usecase.NotificationHub, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The session token already gates access
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

type feedResponse struct {
	Notifications []*entity.NotificationRecord `json:"notifications"`
	UnreadCount   int                          `json:"unreadCount"`
}

// List returns the current snapshot and the derived unread count
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	agg, err := h.hub.StartSession(claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	records, unread := agg.Snapshot()
	writeJSON(w, http.StatusOK, feedResponse{Notifications: records, UnreadCount: unread})
}

// MarkRead flips one read flag, fire-and-forget. The unread count catches
// up when the next change event lands.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	agg, err := h.hub.StartSession(claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	agg.MarkOneAsRead(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusAccepted)
}

// MarkAllRead flips every unread flag, fire-and-forget
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	agg, err := h.hub.StartSession(claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	agg.MarkAllAsRead()
	w.WriteHeader(http.StatusAccepted)
}

// ClearAll deletes the feed; requires an explicit confirmation flag
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	agg, err := h.hub.StartSession(claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := agg.ClearAll(r.Context(), body.Confirm); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout tears down the user's live subscription
func (h *NotificationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	h.hub.StopSession(claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

type streamMessage struct {
	Type          string                       `json:"type"`
	Notifications []*entity.NotificationRecord `json:"notifications,omitempty"`
	UnreadCount   int                          `json:"unreadCount"`
	Event         *entity.NotificationEvent    `json:"event,omitempty"`
}

// Stream pushes the snapshot and every subsequent feed change over a
// websocket until the client disconnects
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	agg, err := h.hub.StartSession(claims)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := agg.Subscribe()
	defer unsubscribe()

	records, unread := agg.Snapshot()
	if err := conn.WriteJSON(streamMessage{
		Type:          "SNAPSHOT",
		Notifications: records,
		UnreadCount:   unread,
	}); err != nil {
		return
	}

	// Reader only detects disconnect; clients never send payloads
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, open := <-events:
			if !open {
				return
			}
			_, unread := agg.Snapshot()
			if err := conn.WriteJSON(streamMessage{
				Type:        "EVENT",
				UnreadCount: unread,
				Event:       &event,
			}); err != nil {
				return
			}
		}
	}
}
