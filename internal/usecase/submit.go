package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

// ErrSubmissionInFlight marks a submit attempt that raced an identical one
// already on the wire; the caller should wait for the first to settle
var ErrSubmissionInFlight = errors.New("submission already in flight")

// SubmissionOrchestrator validates a draft, maps it to the vendor payload
// shape and forwards it to the field-service job system. Validation is
// re-checked here even though the draft reports submittability upstream.
type SubmissionOrchestrator struct {
	fieldService repository.FieldServiceRepository
	catalog      *CatalogService
	logger       logger.Logger
	metrics      *metrics.Metrics

	mu       sync.Mutex
	inflight map[string]bool
}

// NewSubmissionOrchestrator creates a new orchestrator
func NewSubmissionOrchestrator(
	fieldService repository.FieldServiceRepository,
	catalog *CatalogService,
	logger logger.Logger,
	m *metrics.Metrics,
) *SubmissionOrchestrator {
	return &SubmissionOrchestrator{
		fieldService: fieldService,
		catalog:      catalog,
		logger:       logger,
		metrics:      m,
		inflight:     make(map[string]bool),
	}
}

// Submit validates and forwards a draft. vehicles is the resident's
// current vehicle list used to flatten the selected entry. onSuccess runs
// after the vendor accepted the job and is expected to reset the draft.
//
// No automatic retry happens on failure; the draft keeps its submission
// key so a manual retry of the unchanged draft deduplicates server-side.
func (o *SubmissionOrchestrator) Submit(
	ctx context.Context,
	claims entity.SessionClaims,
	draft *entity.ServiceRequestDraft,
	vehicles []entity.Vehicle,
	onSuccess func(),
) (*entity.ServiceRequestResult, error) {
	if err := claims.Validate(); err != nil {
		o.metrics.SubmissionsTotal.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	// The vehicle count captured at draft open goes stale when vehicles are
	// added mid-draft; the requirement is re-derived from the current list
	draft.VehiclesOnFile = len(vehicles)

	if missing := draft.MissingFields(); len(missing) > 0 {
		o.metrics.SubmissionsTotal.WithLabelValues("validation_failed").Inc()
		return nil, entity.NewValidationError(missing...)
	}

	if !o.acquire(draft.SubmissionKey) {
		return nil, ErrSubmissionInFlight
	}
	defer o.release(draft.SubmissionKey)

	payload := o.buildPayload(ctx, claims, draft, vehicles)

	start := time.Now()
	result, err := o.fieldService.CreateServiceRequest(ctx, payload)
	o.metrics.SubmissionTime.Observe(time.Since(start).Seconds())

	if err != nil {
		o.metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		o.metrics.ErrorsCount.WithLabelValues("submit").Inc()
		o.logger.Error("Submission failed",
			"draftId", draft.ID,
			"userId", claims.UserID,
			"error", err)
		return nil, err
	}

	o.metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	o.logger.Info("Submission accepted",
		"draftId", draft.ID,
		"userId", claims.UserID,
		"jobId", result.JobID)

	if onSuccess != nil {
		onSuccess()
	}
	return result, nil
}

func (o *SubmissionOrchestrator) buildPayload(
	ctx context.Context,
	claims entity.SessionClaims,
	draft *entity.ServiceRequestDraft,
	vehicles []entity.Vehicle,
) *entity.ServiceRequestPayload {
	payload := &entity.ServiceRequestPayload{
		IdempotencyKey: draft.SubmissionKey,
		OrgID:          claims.OrgID,
		PropertyID:     claims.PropertyID,
		UserID:         claims.UserID,
		ContactName:    strings.TrimSpace(draft.Contact.Name),
		ContactEmail:   strings.TrimSpace(draft.Contact.Email),
		ContactPhone:   draft.Contact.Phone,
		ArrivalTime:    draft.ArrivalTime.UTC().Format(time.RFC3339),
		Journey:        string(draft.Journey),
		Location:       draft.Location,
		ServiceTypes:   o.catalog.PairsFor(ctx, draft.SelectedServiceTypeIDs),
		Notes:          strings.TrimSpace(draft.Notes),
		SMSConsent:     draft.SMSConsent,
	}

	if draft.SelectedVehicle != nil {
		idx := *draft.SelectedVehicle
		if idx >= 0 && idx < len(vehicles) {
			v := vehicles[idx]
			payload.VehicleYear = v.Year
			payload.VehicleMake = v.Make
			payload.VehicleModel = v.Model
			payload.VehicleColor = v.Color
			payload.VehiclePlate = v.Plate
		} else {
			o.logger.Warn("Selected vehicle out of range, submitting without vehicle",
				"draftId", draft.ID, "index", idx)
		}
	}

	return payload
}

func (o *SubmissionOrchestrator) acquire(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[key] {
		return false
	}
	o.inflight[key] = true
	return true
}

func (o *SubmissionOrchestrator) release(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, key)
}
