package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// statusFor maps domain errors to HTTP status codes. Ownership failures are
// always 404 so foreign resources look exactly like missing ones.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, common.ErrUnauthenticated.Error()
	case errors.Is(err, common.ErrNotFoundOrForbidden), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrDuplicateIdentifier):
		return http.StatusBadRequest, common.ErrDuplicateIdentifier.Error()
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest, common.ErrAlreadyExists.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", "error", err, "request_id", requestIDFrom(r.Context()))
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	writeJSON(w, status, errorBody{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
