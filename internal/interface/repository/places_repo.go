// internal/interface/repository/places_repo.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

// GooglePlacesRepository implements the PlacesRepository interface against
// a Google-style places API. Calls are rate limited because the provider
// is metered; the session token scopes a suggest burst plus one details
// call into a single billing unit.
type GooglePlacesRepository struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewGooglePlacesRepository creates a new places provider client
func NewGooglePlacesRepository(baseURL, apiKey string, rps float64, burst int, logger logger.Logger, m *metrics.Metrics) repository.PlacesRepository {
	return &GooglePlacesRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
		metrics: m,
	}
}

// Autocomplete returns ranked suggestions for partial address text
func (r *GooglePlacesRepository) Autocomplete(ctx context.Context, query, sessionToken string) ([]entity.AddressSuggestion, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, entity.NewNetworkError("", err)
	}
	r.metrics.PlacesCallsTotal.WithLabelValues("autocomplete").Inc()

	params := url.Values{}
	params.Set("input", query)
	params.Set("types", "address")
	params.Set("key", r.apiKey)
	params.Set("sessiontoken", sessionToken)

	var response struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Predictions  []struct {
			PlaceID     string `json:"place_id"`
			Description string `json:"description"`
		} `json:"predictions"`
	}

	if err := r.get(ctx, "/autocomplete/json", params, &response); err != nil {
		return nil, err
	}

	if response.Status != "OK" && response.Status != "ZERO_RESULTS" {
		r.logger.Error("Places autocomplete failed",
			"status", response.Status,
			"message", response.ErrorMessage)
		return nil, entity.NewNetworkError(response.ErrorMessage,
			fmt.Errorf("places autocomplete status %s", response.Status))
	}

	suggestions := make([]entity.AddressSuggestion, 0, len(response.Predictions))
	for _, p := range response.Predictions {
		suggestions = append(suggestions, entity.AddressSuggestion{
			ID:          p.PlaceID,
			DisplayText: p.Description,
		})
	}

	return suggestions, nil
}

// PlaceDetails exchanges a suggestion id for a normalized address
func (r *GooglePlacesRepository) PlaceDetails(ctx context.Context, suggestionID, sessionToken string) (*entity.Address, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, entity.NewNetworkError("", err)
	}
	r.metrics.PlacesCallsTotal.WithLabelValues("details").Inc()

	params := url.Values{}
	params.Set("place_id", suggestionID)
	params.Set("fields", "address_component,geometry,formatted_address")
	params.Set("key", r.apiKey)
	params.Set("sessiontoken", sessionToken)

	var response struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Result       struct {
			FormattedAddress  string `json:"formatted_address"`
			AddressComponents []struct {
				LongName  string   `json:"long_name"`
				ShortName string   `json:"short_name"`
				Types     []string `json:"types"`
			} `json:"address_components"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"result"`
	}

	if err := r.get(ctx, "/details/json", params, &response); err != nil {
		return nil, err
	}

	if response.Status == "NOT_FOUND" {
		return nil, entity.NewNotFoundError("place not found")
	}
	if response.Status != "OK" {
		r.logger.Error("Place details failed",
			"status", response.Status,
			"message", response.ErrorMessage)
		return nil, entity.NewNetworkError(response.ErrorMessage,
			fmt.Errorf("place details status %s", response.Status))
	}

	// Scan typed components into the normalized record. Components the
	// provider omits stay empty; that alone is never an error.
	var streetNumber, route string
	address := &entity.Address{FullText: response.Result.FormattedAddress}
	for _, c := range response.Result.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "street_number":
				streetNumber = c.LongName
			case "route":
				route = c.LongName
			case "subpremise":
				address.Unit = c.LongName
			case "locality":
				address.City = c.LongName
			case "administrative_area_level_1":
				address.State = c.ShortName
			case "postal_code":
				address.PostalCode = c.LongName
			case "country":
				address.Country = c.ShortName
			}
		}
	}
	address.Line1 = strings.TrimSpace(streetNumber + " " + route)

	lat := response.Result.Geometry.Location.Lat
	lng := response.Result.Geometry.Location.Lng
	address.Latitude = &lat
	address.Longitude = &lng

	return address, nil
}

func (r *GooglePlacesRepository) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", r.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entity.NewNetworkError("", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return entity.NewNetworkError("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.NewNetworkError("",
			fmt.Errorf("places provider returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return entity.NewNetworkError("", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
