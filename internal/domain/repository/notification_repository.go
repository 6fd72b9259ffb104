package repository

import (
	"context"

	"resident-request-service/internal/domain/entity"
)

// NotificationRepository defines the interface for the per-user
// notification feed
type NotificationRepository interface {
	// FindByUser returns the most recent notifications, newest first
	FindByUser(ctx context.Context, userID string, limit int) ([]*entity.NotificationRecord, error)

	// MarkRead flips the read flag of one notification
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead flips the read flag of every unread notification
	MarkAllRead(ctx context.Context, userID string) error

	// ClearAll deletes the user's notifications; destructive and
	// irreversible at the data layer
	ClearAll(ctx context.Context, userID string) error

	// Watch emits a live event for every create/update/delete on the
	// user's feed until ctx is cancelled
	Watch(ctx context.Context, userID string) (<-chan entity.NotificationEvent, error)
}
