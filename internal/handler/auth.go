package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Bankydog/auth-service/internal/usecase"
	"github.com/Bankydog/auth-service/shared/auth"
)

// AuthHandler exposes the credential lifecycle over HTTP. Token issuance
// happens here, layered on top of the engine: Authenticate returns the
// account and the handler mints the bearer token.
type AuthHandler struct {
	logger      *zerolog.Logger
	authUsecase usecase.AuthUsecase
	codec       *auth.TokenCodec
	validator   *requestValidator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *zerolog.Logger, authUsecase usecase.AuthUsecase, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authUsecase: authUsecase,
		codec:       codec,
		validator:   newRequestValidator(),
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeUsecaseError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.authUsecase.Authenticate(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeUsecaseError(h.logger, w, err)
		return
	}

	token, err := h.codec.Issue(user.Email, map[string]any{"username": user.Username})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue token")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.codec.TTL().Seconds()),
	})
}

func (h *AuthHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.authUsecase.VerifyAccount(r.Context(), usecase.VerifyAccountParams{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		writeUsecaseError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "account verified"})
}

func (h *AuthHandler) ResendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req ResendCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.authUsecase.ResendVerificationCode(r.Context(), req.Email); err != nil {
		writeUsecaseError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "verification code sent"})
}

// decode unmarshals and validates a request body, replying 400 on failure.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.check(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
