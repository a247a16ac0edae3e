package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/appointment"
	"github.com/medease/appointment-backend/internal/identity"
	"github.com/medease/appointment-backend/internal/profile"
	"github.com/medease/appointment-backend/internal/session"
)

type RouterConfig struct {
	Sessions    *session.Controller
	Profiles    *profile.Service
	ProfileDocs *profile.PgDocumentStore
	Engine      *appointment.Engine
	Identity    *identity.PgProvider
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Log         zerolog.Logger
	JWTSecret   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	auth := &authHandlers{
		sessions:   cfg.Sessions,
		profiles:   cfg.Profiles,
		docs:       cfg.ProfileDocs,
		idp:        cfg.Identity,
		secret:     cfg.JWTSecret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		log:        cfg.Log,
	}
	profiles := &profileHandlers{profiles: cfg.Profiles}
	appts := &appointmentHandlers{engine: cfg.Engine}

	r.Post("/auth/signup", auth.signUp)
	r.Post("/auth/signin", auth.signIn)
	r.Post("/auth/refresh", auth.refresh)
	r.Get("/session/destination", auth.destination)

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		r.Post("/auth/logout", auth.logout)

		r.Get("/profiles/patients/{id}", profiles.getPatient)
		r.Get("/profiles/hospitals/{id}", profiles.getHospital)

		r.Post("/appointments", appts.schedule)
		r.Get("/appointments", appts.list)
		r.Get("/appointments/{id}", appts.get)
		r.Post("/appointments/{id}/reschedule", appts.reschedule)
		r.Post("/appointments/{id}/complete", appts.complete)

		r.Put("/appointments/{id}/draft", appts.stageDraft)
		r.Get("/appointments/{id}/draft", appts.getDraft)
		r.Delete("/appointments/{id}/draft", appts.clearDraft)
		r.Delete("/appointments/{id}/results/rescheduled", appts.clearRescheduled)
		r.Delete("/appointments/{id}/results/completed", appts.clearCompleted)
	})

	return r
}
