// internal/interface/repository/fieldservice_repo.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
)

// HTTPFieldServiceRepository implements the FieldServiceRepository
// interface over the vendor's REST API
type HTTPFieldServiceRepository struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewHTTPFieldServiceRepository creates a new field-service client. The
// http client is expected to carry vendor credentials (see
// infrastructure/oauth).
func NewHTTPFieldServiceRepository(baseURL string, client *http.Client, logger logger.Logger) repository.FieldServiceRepository {
	return &HTTPFieldServiceRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// CreateServiceRequest submits a job to the vendor and returns its id.
// The idempotency key travels both in the payload and as a header so the
// vendor collapses duplicate attempts to one job.
func (r *HTTPFieldServiceRepository) CreateServiceRequest(ctx context.Context, payload *entity.ServiceRequestPayload) (*entity.ServiceRequestResult, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/service-requests", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, entity.NewNetworkError("", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", payload.IdempotencyKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, entity.NewNetworkError("", err)
	}
	defer resp.Body.Close()

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			JobID  string `json:"jobId"`
			Status string `json:"status"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	// Error bodies share the envelope; a decode failure on an error
	// status still maps to a typed error below
	json.NewDecoder(resp.Body).Decode(&response)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, entity.NewUnauthorizedError(response.Error.Message)
	case resp.StatusCode == http.StatusNotFound:
		return nil, entity.NewNotFoundError(response.Error.Message)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return nil, entity.NewNetworkError(response.Error.Message,
			fmt.Errorf("field service returned status %d", resp.StatusCode))
	case !response.Success:
		return nil, entity.NewNetworkError(response.Error.Message,
			fmt.Errorf("field service rejected request (code: %s)", response.Error.Code))
	}

	r.logger.Info("Service request created",
		"jobId", response.Data.JobID,
		"status", response.Data.Status,
		"idempotencyKey", payload.IdempotencyKey)

	return &entity.ServiceRequestResult{
		JobID:  response.Data.JobID,
		Status: response.Data.Status,
	}, nil
}

// FetchServiceCatalog returns the vendor's service type catalog
func (r *HTTPFieldServiceRepository) FetchServiceCatalog(ctx context.Context) ([]entity.ServiceType, error) {
	url := fmt.Sprintf("%s/api/v1/service-types", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, entity.NewNetworkError("", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, entity.NewNetworkError("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, entity.NewNetworkError("",
			fmt.Errorf("field service returned status %d", resp.StatusCode))
	}

	var response struct {
		Success bool                 `json:"success"`
		Data    []entity.ServiceType `json:"data"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, entity.NewNetworkError("", fmt.Errorf("failed to decode catalog: %w", err))
	}
	if !response.Success {
		return nil, entity.NewNetworkError(response.Error.Message,
			fmt.Errorf("field service rejected catalog fetch"))
	}

	return response.Data, nil
}
