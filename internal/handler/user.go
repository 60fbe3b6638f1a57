package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Bankydog/auth-service/internal/repository"
	"github.com/Bankydog/auth-service/internal/usecase"
)

// UserHandler exposes the account queries: the current principal and the
// administrative listing.
type UserHandler struct {
	logger      *zerolog.Logger
	userUsecase usecase.UserUsecase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger *zerolog.Logger, userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userUsecase: userUsecase,
	}
}

// Me returns the account behind the validated token's subject.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no user is authenticated")
		return
	}

	user, err := h.userUsecase.GetUserByEmail(r.Context(), subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Token subject no longer maps to an account.
			writeError(w, http.StatusUnauthorized, "no user is authenticated")
			return
		}

		h.logger.Error().Err(err).Msg("failed to load authenticated user")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// All returns every account.
func (h *UserHandler) All(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, users)
}
