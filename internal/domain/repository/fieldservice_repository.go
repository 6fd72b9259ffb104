package repository

import (
	"context"

	"resident-request-service/internal/domain/entity"
)

// FieldServiceRepository defines the interface to the field-service vendor
type FieldServiceRepository interface {
	// CreateServiceRequest submits a job to the vendor. The payload's
	// idempotency key lets the vendor collapse duplicate attempts.
	CreateServiceRequest(ctx context.Context, payload *entity.ServiceRequestPayload) (*entity.ServiceRequestResult, error)

	// FetchServiceCatalog returns the vendor's service type catalog
	FetchServiceCatalog(ctx context.Context) ([]entity.ServiceType, error)
}
