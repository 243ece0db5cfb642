package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"crawler-server/internal/domain"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
)

// CodeInvalidID - путь содержит некорректный идентификатор игрока
const CodeInvalidID = "INVALID_ID"

var errInvalidID = errors.New("invalid player id")

// httpStatus переводит ошибку ядра в HTTP-статус.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	code := domain.Code(err)
	if errors.Is(err, errInvalidID) {
		code = CodeInvalidID
	}
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).WithField("component", "http").Error("Request failed")
	}
	writeJSONStatus(w, status, api.ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Если data == nil (например, нет сессий), возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("failed to write response")
	}
}
