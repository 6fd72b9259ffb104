package entity

import "time"

// Notification event types emitted by the live feed
const (
	NotificationCreated = "CREATED"
	NotificationUpdated = "UPDATED"
	NotificationDeleted = "DELETED"
)

// NotificationRecord is a server-authored per-user notification. The client
// side only ever toggles the read flag and bulk-clears; everything else is
// written by backend processes.
type NotificationRecord struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	UserID       string    `json:"-" bson:"userId"`
	Title        string    `json:"title" bson:"title"`
	Body         string    `json:"body" bson:"body"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	Read         bool      `json:"read" bson:"read"`
	LinkTo       string    `json:"linkTo,omitempty" bson:"linkTo,omitempty"`
	ViolationID  string    `json:"violationId,omitempty" bson:"violationId,omitempty"`
	VehiclePlate string    `json:"vehiclePlate,omitempty" bson:"vehiclePlate,omitempty"`
}

// NotificationEvent is one change observed on the live feed
type NotificationEvent struct {
	Type   string              `json:"type"`
	Record *NotificationRecord `json:"record,omitempty"`
	ID     string              `json:"id,omitempty"`
}
