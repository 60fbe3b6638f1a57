package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Bankydog/auth-service/internal/handler"
	"github.com/Bankydog/auth-service/shared/auth"
)

// NewRouter assembles the HTTP surface: the public credential lifecycle
// endpoints and the token-protected user endpoints.
func NewRouter(
	logger *zerolog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	codec *auth.TokenCodec,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.VerifyAccount)
		r.Post("/resend", authHandler.ResendVerificationCode)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(handler.RequireAuth(codec))
		r.Get("/me", userHandler.Me)
		r.Get("/all", userHandler.All)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
