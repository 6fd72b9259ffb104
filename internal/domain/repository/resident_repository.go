package repository

import (
	"context"

	"resident-request-service/internal/domain/entity"
)

// ResidentRepository defines the interface for resident profile storage
type ResidentRepository interface {
	// FindProfile loads the profile document for a resident; a missing
	// document yields a NotFound domain error (soft: callers render
	// empty defaults)
	FindProfile(ctx context.Context, orgID, propertyID, userID string) (*entity.ResidentProfile, error)

	// SaveVehicles overwrites the whole vehicle array of the profile in a
	// single write. Last writer wins at array granularity; this matches
	// the layout of existing stored documents.
	SaveVehicles(ctx context.Context, orgID, propertyID, userID string, vehicles []entity.Vehicle) error

	// SavePhone persists the resident's preferred contact phone
	SavePhone(ctx context.Context, orgID, propertyID, userID, phone string) error
}
