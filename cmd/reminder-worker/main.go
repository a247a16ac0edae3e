package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medease/appointment-backend/internal/appointment"
	"github.com/medease/appointment-backend/internal/config"
	"github.com/medease/appointment-backend/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config load error")
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "reminder-worker").Logger()
	log.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Dur("window", cfg.ReminderWindow).
		Msg("reminder-worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	repo := appointment.NewPgRepository(pgPool)

	// Run once at startup
	runOnce(rootCtx, repo, cfg.ReminderWindow, log)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, repo, cfg.ReminderWindow, log)
		}
	}
}

func runOnce(ctx context.Context, repo appointment.Repository, window time.Duration, log zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	now := time.Now()

	upcoming, err := repo.ListStartingBetween(runCtx, now, now.Add(window))
	if err != nil {
		log.Error().Err(err).Msg("reminder run error")
		return
	}

	for _, appt := range upcoming {
		log.Info().
			Str("appointment_id", appt.ID.String()).
			Str("patient_id", appt.PatientID.String()).
			Str("date", appt.Date.Format("2006-01-02")).
			Str("slot", appt.Slot).
			Msg("appointment reminder due")

		payload, _ := json.Marshal(map[string]any{
			"date": appt.Date,
			"slot": appt.Slot,
		})
		id := appt.ID
		ev := appointment.EventLog{
			EventType:     appointment.EventAppointmentReminder,
			AppointmentID: &id,
			Payload:       payload,
			CreatedAt:     time.Now(),
		}
		if err := repo.InsertEvent(runCtx, ev); err != nil {
			log.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("failed to record reminder event")
		}
	}

	log.Info().Int("count", len(upcoming)).Dur("took", time.Since(start)).Msg("reminder run complete")
}
