package repository

import (
	"context"

	"resident-request-service/internal/domain/entity"
)

// PlacesRepository defines the interface for the autocomplete provider.
// The session token correlates a bounded sequence of autocomplete calls
// plus one details call for billing purposes.
type PlacesRepository interface {
	// Autocomplete returns ranked suggestions for partial address text.
	// An empty result is not an error.
	Autocomplete(ctx context.Context, query, sessionToken string) ([]entity.AddressSuggestion, error)

	// PlaceDetails exchanges a suggestion id for a normalized address
	// with geocoordinates
	PlaceDetails(ctx context.Context, suggestionID, sessionToken string) (*entity.Address, error)
}
