package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/usecase"
	"resident-request-service/pkg/logger"
)

type errorBody struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps typed domain errors onto HTTP statuses. The provider's
// error text is surfaced when available; everything else falls back to a
// generic message.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	if errors.Is(err, usecase.ErrSubmissionInFlight) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error: "a submission for this request is already in progress",
			Kind:  string(entity.KindValidation),
		})
		return
	}

	kind := entity.KindOf(err)
	status := http.StatusInternalServerError
	message := "something went wrong"

	var de *entity.DomainError
	if errors.As(err, &de) {
		message = de.Message
		switch de.Kind {
		case entity.KindValidation:
			status = http.StatusBadRequest
		case entity.KindUnauthorized:
			status = http.StatusUnauthorized
		case entity.KindNotFound:
			status = http.StatusNotFound
		case entity.KindNetwork:
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}

	body := errorBody{Error: message, Kind: string(kind)}
	if de != nil {
		body.Fields = de.Fields
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &entity.DomainError{
			Kind:    entity.KindValidation,
			Message: "invalid request body",
			Err:     err,
		}
	}
	return nil
}
