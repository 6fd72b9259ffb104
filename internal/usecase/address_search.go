package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/debounce"
	"resident-request-service/pkg/logger"
)

// Suggestions are only fetched once the input is this long
const MinSuggestQueryLength = 3

// ErrQuerySuperseded marks a suggest call that was overtaken by newer
// input within the debounce window; no provider call was made for it
var ErrQuerySuperseded = errors.New("query superseded by newer input")

// AddressSearch is one open-to-close search interaction against the places
// provider. It debounces keystroke bursts so that only the last query in a
// quiescence window reaches the metered provider, and it scopes the burst
// under a single session token: minted on first use, consumed by the first
// successful resolve, then reminted for the next interaction.
type AddressSearch struct {
	places repository.PlacesRepository
	deb    *debounce.Debouncer
	logger logger.Logger

	mu    sync.Mutex
	token string
}

// NewAddressSearch creates a search session with the given quiescence window
func NewAddressSearch(places repository.PlacesRepository, window time.Duration, logger logger.Logger) *AddressSearch {
	return &AddressSearch{
		places: places,
		deb:    debounce.New(window),
		logger: logger,
	}
}

// Suggest returns ranked candidates for partial address text. Calls made
// while newer input keeps arriving return ErrQuerySuperseded instead of
// hitting the provider; short input returns an empty result without a call.
func (s *AddressSearch) Suggest(ctx context.Context, text string) ([]entity.AddressSuggestion, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinSuggestQueryLength {
		return []entity.AddressSuggestion{}, nil
	}

	seq := s.deb.Bump()

	timer := time.NewTimer(s.deb.Delay())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if s.deb.Latest() != seq {
		return nil, ErrQuerySuperseded
	}

	return s.places.Autocomplete(ctx, text, s.sessionToken())
}

// Resolve exchanges a suggestion for a normalized address. A successful
// resolve consumes the session token.
func (s *AddressSearch) Resolve(ctx context.Context, suggestionID string) (*entity.Address, error) {
	address, err := s.places.PlaceDetails(ctx, suggestionID, s.sessionToken())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	return address, nil
}

// Close cancels any pending debounced work
func (s *AddressSearch) Close() {
	s.deb.Stop()
}

// SessionToken exposes the current token for tests and diagnostics
func (s *AddressSearch) SessionToken() string {
	return s.sessionToken()
}

func (s *AddressSearch) sessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		s.token = uuid.NewString()
		s.logger.Debug("Minted places session token")
	}
	return s.token
}
