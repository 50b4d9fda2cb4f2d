package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"

	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/usecase"
)

// Handler wires the HTTP surface to the usecase layer.
type Handler struct {
	logger     *zerolog.Logger
	cfg        *config.Config
	validate   *validator.Validate
	translator ut.Translator

	accounts usecase.AccountUsecase
	tokens   usecase.TokenUsecase
	videos   usecase.VideoUsecase
	payments usecase.PaymentUsecase
}

// New creates a new Handler with a translated validator.
func New(
	logger *zerolog.Logger,
	cfg *config.Config,
	accounts usecase.AccountUsecase,
	tokens usecase.TokenUsecase,
	videos usecase.VideoUsecase,
	payments usecase.PaymentUsecase,
) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")

	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validator translations")
	}

	return &Handler{
		logger:     logger,
		cfg:        cfg,
		validate:   validate,
		translator: translator,
		accounts:   accounts,
		tokens:     tokens,
		videos:     videos,
		payments:   payments,
	}
}

// Routes builds the HTTP router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HealthCheck)

	r.Post("/register", h.Register)
	r.Post("/verify", h.VerifyAccount)
	r.Post("/token", h.Login)
	r.Post("/refresh_token", h.RefreshToken)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Put("/reset-password", h.ResetPassword)

	r.Post("/create-payment-intent", h.CreatePaymentIntent)
	r.Post("/validate-credit-card", h.ValidateCreditCard)
	r.Post("/webhook", h.Webhook)
	r.Get("/config", h.PaymentConfig)

	r.Get("/download_video", h.DownloadVideo)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireActiveUser)

			r.Post("/generate_video", h.GenerateVideo)
			r.Get("/user_videos", h.ListUserVideos)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return r
}

// HealthCheck reports that the service is up.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Msg("request")
	})
}
