package worker

// vencimiento_cron.go
// Background goroutine that fires once a day at the configured hour, builds
// the semáforo de vencimientos and enqueues the alert email when there is
// anything vencida or por vencer.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertaCronConfig holds all dependencies for the daily alert goroutine.
type AlertaCronConfig struct {
	Vencimientos service.VencimientoService
	Dispatcher   *Dispatcher
	RDB          *redis.Client
	AlertaEmail  string
	AlertaHora   int // local hour 0-23
}

// StartAlertaCron launches a goroutine that sleeps until the next scheduled
// hour, sends the alert, and repeats. It respects the context for graceful
// shutdown.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	if cfg.AlertaEmail == "" {
		log.Info().Msg("alerta_cron: no recipient configured, not starting")
		return
	}

	go func() {
		log.Info().Int("hora", cfg.AlertaHora).Msg("alerta_cron: started")
		for {
			next := nextFire(time.Now(), cfg.AlertaHora)
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-timer.C:
				enviarAlerta(ctx, cfg)
			}
		}
	}()
}

// nextFire returns the next occurrence of the given local hour after now.
func nextFire(now time.Time, hora int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hora, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func enviarAlerta(ctx context.Context, cfg AlertaCronConfig) {
	hoy := time.Now()

	// One alert per calendar day even when several instances run the cron.
	if cfg.RDB != nil {
		key := "alerta:enviada:" + hoy.Format("2006-01-02")
		ok, err := cfg.RDB.SetNX(ctx, key, 1, 48*time.Hour).Result()
		if err == nil && !ok {
			log.Debug().Msg("alerta_cron: already sent today, skipping")
			return
		}
	}

	items, err := cfg.Vencimientos.PorNotificar(ctx, hoy)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to build vencimientos")
		return
	}
	if len(items) == 0 {
		log.Info().Msg("alerta_cron: nothing vencida or por vencer today")
		return
	}

	payload := EmailJobPayload{
		ToEmail: cfg.AlertaEmail,
		Subject: fmt.Sprintf("Cartas fianza: %d por vencer o vencidas al %s", len(items), hoy.Format("02/01/2006")),
		Body:    cuerpoAlerta(items, hoy),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to enqueue email")
		return
	}
	log.Info().Int("items", len(items)).Msg("alerta_cron: alert enqueued")
}

func cuerpoAlerta(items []dto.VencimientoItem, hoy time.Time) string {
	hoyStr := hoy.Format("2006-01-02")
	var b strings.Builder
	b.WriteString("Cartas fianza que requieren atención:\n\n")
	for _, it := range items {
		numero := "(sin carta)"
		if it.NumeroCarta != nil {
			numero = *it.NumeroCarta
		}
		estado := "por vencer"
		if it.Dias != nil {
			switch {
			case it.FechaFin < hoyStr:
				estado = fmt.Sprintf("vencida hace %d días", *it.Dias)
			case *it.Dias == 0:
				estado = "vence hoy"
			default:
				estado = fmt.Sprintf("vence en %d días", *it.Dias)
			}
		}
		fmt.Fprintf(&b, "- %s | %s | %s | fin %s (%s)\n",
			numero, it.Objeto, it.Contratista, it.FechaFin, estado)
	}
	return b.String()
}
