package usecase

import (
	"context"
	"sync"
	"time"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/debounce"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

// VehicleService is the per-resident vehicle profile store. Mutations are
// optimistic: local state updates first and stays even when the persist
// fails, so local and remote can diverge until the next successful save.
// Every persist overwrites the entire vehicle array in one write.
type VehicleService struct {
	residents repository.ResidentRepository
	window    time.Duration
	limit     int
	logger    logger.Logger
	metrics   *metrics.Metrics

	mu     sync.Mutex
	stores map[string]*vehicleStore
}

type vehicleStore struct {
	orgID      string
	propertyID string
	userID     string

	mu       sync.Mutex
	vehicles []entity.Vehicle
	loaded   bool
	seq      uint64

	deb     *debounce.Debouncer
	pending *pendingEdit

	// flushMu orders writes so an older in-flight save can never land
	// after a newer one; each flush snapshots the latest local state
	// under this lock
	flushMu      sync.Mutex
	persistedSeq uint64
}

type pendingEdit struct {
	index   int
	vehicle entity.Vehicle
}

// NewVehicleService creates the vehicle store
func NewVehicleService(
	residents repository.ResidentRepository,
	window time.Duration,
	limit int,
	logger logger.Logger,
	m *metrics.Metrics,
) *VehicleService {
	return &VehicleService{
		residents: residents,
		window:    window,
		limit:     limit,
		logger:    logger,
		metrics:   m,
		stores:    make(map[string]*vehicleStore),
	}
}

// List returns the resident's vehicles, refetching the stored profile so
// a fresh screen always sees current remote state
func (s *VehicleService) List(ctx context.Context, claims entity.SessionClaims) ([]entity.Vehicle, error) {
	if err := claims.Validate(); err != nil {
		return nil, err
	}
	store := s.store(claims)

	profile, err := s.residents.FindProfile(ctx, claims.OrgID, claims.PropertyID, claims.UserID)
	if err != nil && entity.KindOf(err) != entity.KindNotFound {
		return nil, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if profile != nil {
		store.vehicles = append([]entity.Vehicle(nil), profile.Vehicles...)
	} else if !store.loaded {
		store.vehicles = []entity.Vehicle{}
	}
	store.loaded = true
	return append([]entity.Vehicle(nil), store.vehicles...), nil
}

// Add appends a vehicle and persists the whole list, returning its index.
// The local mutation is kept even when the persist fails.
func (s *VehicleService) Add(ctx context.Context, claims entity.SessionClaims, v entity.Vehicle) (int, error) {
	if err := claims.Validate(); err != nil {
		return 0, err
	}
	store := s.store(claims)
	if err := s.ensureLoaded(ctx, claims, store); err != nil {
		return 0, err
	}

	store.mu.Lock()
	if len(store.vehicles) >= s.limit {
		store.mu.Unlock()
		return 0, &entity.DomainError{
			Kind:    entity.KindValidation,
			Message: "vehicle limit reached",
		}
	}
	store.vehicles = append(store.vehicles, v.Normalized())
	store.seq++
	index := len(store.vehicles) - 1
	store.mu.Unlock()

	return index, s.persist(ctx, store)
}

// Update replaces the vehicle at index and persists the whole list
func (s *VehicleService) Update(ctx context.Context, claims entity.SessionClaims, index int, v entity.Vehicle) error {
	if err := claims.Validate(); err != nil {
		return err
	}
	store := s.store(claims)
	if err := s.ensureLoaded(ctx, claims, store); err != nil {
		return err
	}

	store.mu.Lock()
	if index < 0 || index >= len(store.vehicles) {
		store.mu.Unlock()
		return entity.NewNotFoundError("no vehicle at that position")
	}
	store.vehicles[index] = v.Normalized()
	store.seq++
	store.mu.Unlock()

	return s.persist(ctx, store)
}

// Delete removes the vehicle at index and persists the whole list
func (s *VehicleService) Delete(ctx context.Context, claims entity.SessionClaims, index int) error {
	if err := claims.Validate(); err != nil {
		return err
	}
	store := s.store(claims)
	if err := s.ensureLoaded(ctx, claims, store); err != nil {
		return err
	}

	store.mu.Lock()
	if index < 0 || index >= len(store.vehicles) {
		store.mu.Unlock()
		return entity.NewNotFoundError("no vehicle at that position")
	}
	store.vehicles = append(store.vehicles[:index], store.vehicles[index+1:]...)
	store.seq++
	store.mu.Unlock()

	return s.persist(ctx, store)
}

// Autosave records an in-progress edit and flushes it after the quiescence
// window. Only the last edit of a burst is considered, and nothing is
// persisted until all five fields are populated.
func (s *VehicleService) Autosave(ctx context.Context, claims entity.SessionClaims, index int, v entity.Vehicle) error {
	if err := claims.Validate(); err != nil {
		return err
	}
	store := s.store(claims)
	if err := s.ensureLoaded(ctx, claims, store); err != nil {
		return err
	}

	store.mu.Lock()
	store.pending = &pendingEdit{index: index, vehicle: v}
	store.mu.Unlock()

	store.deb.Do(func() {
		s.flushPending(store)
	})
	return nil
}

func (s *VehicleService) flushPending(store *vehicleStore) {
	store.mu.Lock()
	edit := store.pending
	store.pending = nil
	if edit == nil {
		store.mu.Unlock()
		return
	}

	vehicle := edit.vehicle.Normalized()
	if !vehicle.IsComplete() {
		store.mu.Unlock()
		s.logger.Debug("Autosave skipped, vehicle incomplete", "userId", store.userID)
		return
	}

	switch {
	case edit.index >= 0 && edit.index < len(store.vehicles):
		store.vehicles[edit.index] = vehicle
	case edit.index == len(store.vehicles) && len(store.vehicles) < s.limit:
		store.vehicles = append(store.vehicles, vehicle)
	default:
		store.mu.Unlock()
		s.logger.Warn("Autosave dropped, index out of range",
			"userId", store.userID, "index", edit.index)
		return
	}
	store.seq++
	store.mu.Unlock()

	// The originating request is long gone by the time the window fires
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.persist(ctx, store); err != nil {
		s.logger.Error("Autosave persist failed", "userId", store.userID, "error", err)
	}
}

// persist writes the whole vehicle array. Writes are serialized per store
// and snapshot the latest local state, so a slow older save can never
// clobber a newer one; redundant flushes are skipped by sequence.
func (s *VehicleService) persist(ctx context.Context, store *vehicleStore) error {
	store.flushMu.Lock()
	defer store.flushMu.Unlock()

	store.mu.Lock()
	seq := store.seq
	if seq == store.persistedSeq {
		store.mu.Unlock()
		return nil
	}
	snapshot := append([]entity.Vehicle(nil), store.vehicles...)
	store.mu.Unlock()

	err := s.residents.SaveVehicles(ctx, store.orgID, store.propertyID, store.userID, snapshot)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("vehicle_save").Inc()
		return err
	}

	s.metrics.VehicleSavesTotal.Inc()
	store.mu.Lock()
	if store.persistedSeq < seq {
		store.persistedSeq = seq
	}
	store.mu.Unlock()
	return nil
}

// Flush forces any pending autosave through immediately; used on teardown
func (s *VehicleService) Flush(claims entity.SessionClaims) {
	s.mu.Lock()
	store, ok := s.stores[storeKey(claims)]
	s.mu.Unlock()
	if !ok {
		return
	}
	store.deb.Stop()
	s.flushPending(store)
}

// FlushAll flushes every store's pending autosave; used on shutdown
func (s *VehicleService) FlushAll() {
	s.mu.Lock()
	stores := make([]*vehicleStore, 0, len(s.stores))
	for _, store := range s.stores {
		stores = append(stores, store)
	}
	s.mu.Unlock()

	for _, store := range stores {
		store.deb.Stop()
		s.flushPending(store)
	}
}

func (s *VehicleService) ensureLoaded(ctx context.Context, claims entity.SessionClaims, store *vehicleStore) error {
	store.mu.Lock()
	loaded := store.loaded
	store.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := s.List(ctx, claims)
	return err
}

// Stores are keyed by the full scope so the same user under a different
// org or property never shares state
func storeKey(claims entity.SessionClaims) string {
	return claims.OrgID + "/" + claims.PropertyID + "/" + claims.UserID
}

func (s *VehicleService) store(claims entity.SessionClaims) *vehicleStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(claims)
	store, ok := s.stores[key]
	if !ok {
		store = &vehicleStore{
			orgID:      claims.OrgID,
			propertyID: claims.PropertyID,
			userID:     claims.UserID,
			deb:        debounce.New(s.window),
		}
		s.stores[key] = store
	}
	return store
}
