package company

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"company_profiler/pkg/apperrors"
	"company_profiler/pkg/core/balancesheet"
	"company_profiler/pkg/core/registry"
)

// errorBody is the JSON error payload. Detail is safe to show to users.
type errorBody struct {
	Detail string `json:"detail"`
}

type resultBody struct {
	Result any `json:"result"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, resultBody{Result: v})
}

// writeError maps err to a status code. Register failures are the caller's
// problem (bad number, unknown company) and pass the register's message on.
// Unclassified errors are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var parseErr *balancesheet.ParseError
	switch {
	case errors.Is(err, registry.ErrUpstreamUnavailable):
		msg, ok := registry.UpstreamMessage(err)
		if !ok || msg == "" {
			msg = "company register unavailable"
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: msg})
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: parseErr.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}

func parsePage(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}
