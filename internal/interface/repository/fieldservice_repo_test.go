package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resident-request-service/internal/domain/entity"
)

func newFieldServiceRepo(t *testing.T, handler http.HandlerFunc) *HTTPFieldServiceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPFieldServiceRepository(server.URL, server.Client(), testLog).(*HTTPFieldServiceRepository)
}

func testPayload() *entity.ServiceRequestPayload {
	return &entity.ServiceRequestPayload{
		IdempotencyKey: "key-123",
		OrgID:          "org-1",
		PropertyID:     "prop-1",
		UserID:         "u-1",
		ContactName:    "Jordan Reyes",
		ContactPhone:   "512-555-1234",
		ArrivalTime:    "2026-03-10T09:30:00Z",
		Journey:        "on_premise",
		ServiceTypes:   []entity.ServiceTypePair{{ID: 1, Name: "Trash Pickup"}},
	}
}

func TestCreateServiceRequestSendsIdempotencyKey(t *testing.T) {
	var gotHeader string
	var gotBody entity.ServiceRequestPayload

	repo := newFieldServiceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/service-requests", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotHeader = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success": true, "data": {"jobId": "job-42", "status": "scheduled"}}`))
	})

	result, err := repo.CreateServiceRequest(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "job-42", result.JobID)
	assert.Equal(t, "scheduled", result.Status)
	assert.Equal(t, "key-123", gotHeader, "the key travels as a header")
	assert.Equal(t, "key-123", gotBody.IdempotencyKey, "and in the payload")
	assert.Equal(t, "2026-03-10T09:30:00Z", gotBody.ArrivalTime)
}

func TestCreateServiceRequestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   entity.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success": false, "error": {"message": "bad token"}}`, entity.KindUnauthorized},
		{"forbidden", http.StatusForbidden, `{"success": false}`, entity.KindUnauthorized},
		{"not found", http.StatusNotFound, `{"success": false, "error": {"message": "unknown property"}}`, entity.KindNotFound},
		{"server error", http.StatusInternalServerError, `{"success": false}`, entity.KindNetwork},
		{"rejected with 200", http.StatusOK, `{"success": false, "error": {"message": "duplicate job", "code": "DUP"}}`, entity.KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFieldServiceRepo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := repo.CreateServiceRequest(context.Background(), testPayload())
			require.Error(t, err)
			assert.Equal(t, tt.kind, entity.KindOf(err))
		})
	}
}

func TestCreateServiceRequestSurfacesVendorMessage(t *testing.T) {
	repo := newFieldServiceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "error": {"message": "arrival time in the past"}}`))
	})

	_, err := repo.CreateServiceRequest(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arrival time in the past")
}

func TestFetchServiceCatalog(t *testing.T) {
	repo := newFieldServiceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/service-types", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "name": "Trash Pickup", "isInternal": false},
				{"id": 3, "name": "Inspection", "isInternal": true}
			]
		}`))
	})

	types, err := repo.FetchServiceCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, 1, types[0].ID)
	assert.Equal(t, "Trash Pickup", types[0].Name)
	assert.True(t, types[1].IsInternal)
}

func TestFetchServiceCatalogRejected(t *testing.T) {
	repo := newFieldServiceRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"message": "org suspended"}}`))
	})

	_, err := repo.FetchServiceCatalog(context.Background())
	require.Error(t, err)
	assert.Equal(t, entity.KindNetwork, entity.KindOf(err))
	assert.Contains(t, err.Error(), "org suspended")
}
