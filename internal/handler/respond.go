package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Bankydog/auth-service/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeUsecaseError maps the engine's sentinel errors onto HTTP statuses.
// Unmapped errors are logged and returned as an opaque 500.
func writeUsecaseError(logger *zerolog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrMissingRequiredFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrAccountNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrAccountAlreadyVerified):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrVerificationCodeExpired):
		writeError(w, http.StatusGone, usecase.ErrVerificationCodeExpired.Error())
	case errors.Is(err, usecase.ErrInvalidVerificationCode):
		writeError(w, http.StatusBadRequest, usecase.ErrInvalidVerificationCode.Error())
	case errors.Is(err, usecase.ErrNotificationFailed):
		logger.Error().Err(err).Msg("verification message dispatch failed")
		writeError(w, http.StatusBadGateway, usecase.ErrNotificationFailed.Error())
	default:
		logger.Error().Err(err).Msg("unexpected usecase error")
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
