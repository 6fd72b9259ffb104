package usecase

import (
	"context"
	"sync"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

// One registry per test binary; promauto panics on duplicate registration
var testMetrics = metrics.NewMetrics("usecase_test")

var nopLog = logger.NewNopLogger()

func testClaims() entity.SessionClaims {
	return entity.SessionClaims{
		UserID:     "u-1",
		OrgID:      "org-1",
		PropertyID: "prop-1",
		Name:       "Jordan Reyes",
		Email:      "jordan@example.com",
	}
}

type fakeResidentRepo struct {
	mu         sync.Mutex
	profile    *entity.ResidentProfile
	saves      [][]entity.Vehicle
	saveScopes []string
	saveErr    error
	phone      string
	phoneErr   error
}

func (f *fakeResidentRepo) FindProfile(ctx context.Context, orgID, propertyID, userID string) (*entity.ResidentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, entity.NewNotFoundError("resident profile not found")
	}
	p := *f.profile
	p.Vehicles = append([]entity.Vehicle(nil), f.profile.Vehicles...)
	return &p, nil
}

func (f *fakeResidentRepo) SaveVehicles(ctx context.Context, orgID, propertyID, userID string, vehicles []entity.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, append([]entity.Vehicle(nil), vehicles...))
	f.saveScopes = append(f.saveScopes, orgID+"/"+propertyID+"/"+userID)
	if f.profile != nil {
		f.profile.Vehicles = append([]entity.Vehicle(nil), vehicles...)
	}
	return nil
}

func (f *fakeResidentRepo) SavePhone(ctx context.Context, orgID, propertyID, userID, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phoneErr != nil {
		return f.phoneErr
	}
	f.phone = phone
	return nil
}

func (f *fakeResidentRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeResidentRepo) lastSave() []entity.Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

type autocompleteCall struct {
	query string
	token string
}

type fakePlacesRepo struct {
	mu            sync.Mutex
	autocompletes []autocompleteCall
	suggestions   []entity.AddressSuggestion
	suggestErr    error

	detailsCalls []autocompleteCall // query holds the suggestion id
	address      *entity.Address
	detailsErr   error
}

func (f *fakePlacesRepo) Autocomplete(ctx context.Context, query, sessionToken string) ([]entity.AddressSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autocompletes = append(f.autocompletes, autocompleteCall{query: query, token: sessionToken})
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func (f *fakePlacesRepo) PlaceDetails(ctx context.Context, suggestionID, sessionToken string) (*entity.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls = append(f.detailsCalls, autocompleteCall{query: suggestionID, token: sessionToken})
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.address, nil
}

func (f *fakePlacesRepo) autocompleteCalls() []autocompleteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]autocompleteCall(nil), f.autocompletes...)
}

type fakeFieldServiceRepo struct {
	mu          sync.Mutex
	creates     []*entity.ServiceRequestPayload
	result      *entity.ServiceRequestResult
	createErr   error
	catalog     []entity.ServiceType
	catalogErr  error
	fetchCount  int
	createDelay chan struct{} // when set, CreateServiceRequest blocks until closed
}

func (f *fakeFieldServiceRepo) CreateServiceRequest(ctx context.Context, payload *entity.ServiceRequestPayload) (*entity.ServiceRequestResult, error) {
	f.mu.Lock()
	f.creates = append(f.creates, payload)
	delay := f.createDelay
	err := f.createErr
	result := f.result
	f.mu.Unlock()

	if delay != nil {
		<-delay
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &entity.ServiceRequestResult{JobID: "job-1", Status: "scheduled"}
	}
	return result, nil
}

func (f *fakeFieldServiceRepo) FetchServiceCatalog(ctx context.Context) ([]entity.ServiceType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCount++
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeFieldServiceRepo) createCalls() []*entity.ServiceRequestPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.ServiceRequestPayload(nil), f.creates...)
}

func (f *fakeFieldServiceRepo) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount
}

type fakeNotificationRepo struct {
	mu          sync.Mutex
	records     []*entity.NotificationRecord
	findErr     error
	markedRead  []string
	markedAll   int
	cleared     int
	clearErr    error
	watchEvents chan entity.NotificationEvent
	watchErr    error
}

func newFakeNotificationRepo(records ...*entity.NotificationRecord) *fakeNotificationRepo {
	return &fakeNotificationRepo{
		records:     records,
		watchEvents: make(chan entity.NotificationEvent, 16),
	}
}

func (f *fakeNotificationRepo) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.NotificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return append([]*entity.NotificationRecord(nil), f.records...), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedRead = append(f.markedRead, id)
	for _, r := range f.records {
		if r.ID == id {
			r.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedAll++
	for _, r := range f.records {
		r.Read = true
	}
	return nil
}

func (f *fakeNotificationRepo) ClearAll(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	f.records = nil
	return nil
}

func (f *fakeNotificationRepo) Watch(ctx context.Context, userID string) (<-chan entity.NotificationEvent, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	out := make(chan entity.NotificationEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-f.watchEvents:
				if !ok {
					return
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeNotificationRepo) setRecords(records ...*entity.NotificationRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
}
