package usecase

import (
	"context"
	"sync"
	"time"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
)

// DraftService owns the live service-request drafts. Each draft belongs to
// exactly one resident session, carries its own address search session,
// and is destroyed on close, successful submit, or idle expiry.
type DraftService struct {
	residents       repository.ResidentRepository
	places          repository.PlacesRepository
	suggestDebounce time.Duration
	idleTTL         time.Duration
	logger          logger.Logger

	mu       sync.Mutex
	sessions map[string]*draftSession
}

// draftSession guards its draft with mu; the draft pointer never leaves
// the session, callers get clones
type draftSession struct {
	claims entity.SessionClaims
	search *AddressSearch

	mu    sync.Mutex
	draft *entity.ServiceRequestDraft
}

// DraftUpdate is a partial update applied to a draft; nil fields are left
// untouched
type DraftUpdate struct {
	Phone             *string         `json:"phone,omitempty"`
	Journey           *string         `json:"journey,omitempty"`
	ArrivalTime       *time.Time      `json:"arrivalTime,omitempty"`
	ArrivalDate       *time.Time      `json:"arrivalDate,omitempty"`
	ArrivalClock      *string         `json:"arrivalClock,omitempty"` // "HH:MM"
	ServiceTypeIDs    *[]int          `json:"serviceTypeIds,omitempty"`
	ToggleServiceType *int            `json:"toggleServiceType,omitempty"`
	SelectVehicle     *int            `json:"selectVehicle,omitempty"`
	ClearVehicle      *bool           `json:"clearVehicle,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	SMSConsent        *bool           `json:"smsConsent,omitempty"`
	ManualAddress     *entity.Address `json:"manualAddress,omitempty"`
}

// NewDraftService creates the draft registry
func NewDraftService(
	residents repository.ResidentRepository,
	places repository.PlacesRepository,
	suggestDebounce time.Duration,
	idleTTL time.Duration,
	logger logger.Logger,
) *DraftService {
	return &DraftService{
		residents:       residents,
		places:          places,
		suggestDebounce: suggestDebounce,
		idleTTL:         idleTTL,
		logger:          logger,
		sessions:        make(map[string]*draftSession),
	}
}

// Open creates a draft seeded from the resident profile. A missing profile
// is a soft condition: the draft opens with empty defaults and the second
// return value reports it so the caller can render an inline notice.
func (s *DraftService) Open(ctx context.Context, claims entity.SessionClaims) (*entity.ServiceRequestDraft, bool, error) {
	if err := claims.Validate(); err != nil {
		return nil, false, err
	}

	profile, err := s.residents.FindProfile(ctx, claims.OrgID, claims.PropertyID, claims.UserID)
	if err != nil && entity.KindOf(err) != entity.KindNotFound {
		return nil, false, err
	}
	profileMissing := profile == nil

	draft := entity.NewServiceRequestDraft(profile, time.Now())

	s.mu.Lock()
	s.sessions[draft.ID] = &draftSession{
		claims: claims,
		draft:  draft,
		search: NewAddressSearch(s.places, s.suggestDebounce, s.logger),
	}
	s.mu.Unlock()

	s.logger.Info("Draft opened",
		"draftId", draft.ID,
		"userId", claims.UserID,
		"profileMissing", profileMissing)

	return draft.Clone(), profileMissing, nil
}

// Get returns a copy of a draft owned by the given user
func (s *DraftService) Get(draftID, userID string) (*entity.ServiceRequestDraft, error) {
	session, err := s.session(draftID, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.draft.Clone(), nil
}

// Claims returns the session claims a draft was opened under
func (s *DraftService) Claims(draftID, userID string) (entity.SessionClaims, error) {
	session, err := s.session(draftID, userID)
	if err != nil {
		return entity.SessionClaims{}, err
	}
	return session.claims, nil
}

// Apply performs a partial update on a draft
func (s *DraftService) Apply(draftID, userID string, update DraftUpdate) (*entity.ServiceRequestDraft, error) {
	session, err := s.session(draftID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	draft := session.draft

	if update.Phone != nil {
		draft.SetPhone(*update.Phone)
	}
	if update.Journey != nil {
		journey := entity.Journey(*update.Journey)
		switch journey {
		case entity.JourneyOnPremise, entity.JourneyOffPremise, entity.JourneyUnset:
			draft.SetJourney(journey)
		default:
			return nil, &entity.DomainError{
				Kind:    entity.KindValidation,
				Message: "unknown journey: " + *update.Journey,
			}
		}
	}
	if update.ArrivalTime != nil {
		draft.SetArrivalAt(*update.ArrivalTime)
	}
	if update.ArrivalDate != nil {
		draft.SetArrivalDate(*update.ArrivalDate)
	}
	if update.ArrivalClock != nil {
		clock, err := time.Parse("15:04", *update.ArrivalClock)
		if err != nil {
			return nil, &entity.DomainError{
				Kind:    entity.KindValidation,
				Message: "arrivalClock must be HH:MM",
			}
		}
		draft.SetArrivalClock(clock.Hour(), clock.Minute())
	}
	if update.ServiceTypeIDs != nil {
		draft.SetServiceTypeIDs(*update.ServiceTypeIDs)
	}
	if update.ToggleServiceType != nil {
		draft.ToggleServiceType(*update.ToggleServiceType)
	}
	if update.ClearVehicle != nil && *update.ClearVehicle {
		draft.SelectVehicle(nil)
	} else if update.SelectVehicle != nil {
		draft.SelectVehicle(update.SelectVehicle)
	}
	if update.Notes != nil {
		draft.SetNotes(*update.Notes)
	}
	if update.SMSConsent != nil {
		draft.SetSMSConsent(*update.SMSConsent)
	}
	if update.ManualAddress != nil {
		draft.SetManualAddress(*update.ManualAddress)
	}

	draft.Touch(time.Now())
	return draft.Clone(), nil
}

// Suggest runs a debounced address search scoped to the draft
func (s *DraftService) Suggest(ctx context.Context, draftID, userID, query string) ([]entity.AddressSuggestion, error) {
	session, err := s.session(draftID, userID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.draft.Touch(time.Now())
	session.mu.Unlock()
	return session.search.Suggest(ctx, query)
}

// ResolveAddress exchanges a suggestion for a full address and applies it
// to the draft's location. A failed resolve leaves the draft unchanged.
func (s *DraftService) ResolveAddress(ctx context.Context, draftID, userID, suggestionID string) (*entity.ServiceRequestDraft, error) {
	session, err := s.session(draftID, userID)
	if err != nil {
		return nil, err
	}

	address, err := session.search.Resolve(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	session.draft.ApplyResolvedAddress(*address)
	session.draft.Touch(time.Now())
	clone := session.draft.Clone()
	session.mu.Unlock()
	return clone, nil
}

// SavePhone writes the draft's contact phone back to the stored profile so
// the resident's next draft opens with it
func (s *DraftService) SavePhone(ctx context.Context, draftID, userID string) error {
	session, err := s.session(draftID, userID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	phone := session.draft.Contact.Phone
	session.mu.Unlock()
	if phone == "" {
		return nil
	}
	return s.residents.SavePhone(ctx,
		session.claims.OrgID, session.claims.PropertyID, session.claims.UserID, phone)
}

// Reset returns a draft to its defaults after a successful submit and
// rotates its submission key
func (s *DraftService) Reset(draftID, userID string) error {
	session, err := s.session(draftID, userID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.draft.Reset(time.Now())
	session.mu.Unlock()
	return nil
}

// Close destroys a draft and its search session
func (s *DraftService) Close(draftID, userID string) error {
	session, err := s.session(draftID, userID)
	if err != nil {
		return err
	}

	session.search.Close()
	s.mu.Lock()
	delete(s.sessions, draftID)
	s.mu.Unlock()

	s.logger.Info("Draft closed", "draftId", draftID, "userId", userID)
	return nil
}

// StartSweeper evicts idle drafts until ctx is cancelled
func (s *DraftService) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *DraftService) sweep() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.draft.UpdatedAt.Before(cutoff)
		session.mu.Unlock()
		if idle {
			session.search.Close()
			delete(s.sessions, id)
			s.logger.Info("Draft expired", "draftId", id, "userId", session.claims.UserID)
		}
	}
}

func (s *DraftService) session(draftID, userID string) (*draftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[draftID]
	if !ok || session.claims.UserID != userID {
		return nil, entity.NewNotFoundError("draft not found")
	}
	return session, nil
}
