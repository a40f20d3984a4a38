package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	linex "github.com/tanpawarit/Chative-Schedule-Assistant/pkg/line"
)

const maxRequestBodySize = 1 << 20 // 1MB

const (
	OutcomeHandled     = "handled"
	OutcomeSkipped     = "skipped"
	OutcomeFailed      = "failed"
	OutcomeReplyFailed = "reply_failed"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, ownerID string, text string) (string, error)
}

type Replier interface {
	Reply(ctx context.Context, replyToken string, texts ...string) error
}

type EventRecorder interface {
	IncWebhookEvent(outcome string)
}

type Deps struct {
	Messages      MessageHandler
	Replier       Replier
	ChannelSecret string

	// Optional.
	Events   EventRecorder
	Gatherer prometheus.Gatherer
}

// NewRouter serves the LINE webhook, a health check and, when a gatherer is
// given, Prometheus metrics.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Post("/webhook", handleWebhook(deps))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWebhook answers 200 for every signed, well-formed request. Per-event
// failures are logged and counted only.
func handleWebhook(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			httpError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if !linex.VerifySignature(deps.ChannelSecret, body, r.Header.Get(linex.SignatureHeader)) {
			httpError(w, http.StatusUnauthorized, "invalid signature")
			return
		}

		var payload linex.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			httpError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		logger := log.With().Str("batch_id", uuid.NewString()).Logger()
		logger.Debug().Int("events", len(payload.Events)).Msg("webhook received")

		for _, ev := range payload.Events {
			outcome := processEvent(r.Context(), deps, logger, ev)
			if deps.Events != nil {
				deps.Events.IncWebhookEvent(outcome)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func processEvent(ctx context.Context, deps Deps, logger zerolog.Logger, ev linex.Event) string {
	text, ok := ev.TextMessage()
	if !ok {
		logger.Debug().Str("type", ev.Type).Msg("skipping non-text event")
		return OutcomeSkipped
	}
	ownerID := ev.Source.SenderID()
	if ownerID == "" {
		logger.Warn().Str("source_type", ev.Source.Type).Msg("skipping event without sender")
		return OutcomeSkipped
	}

	reply, err := deps.Messages.HandleMessage(ctx, ownerID, text)
	if err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("handle message failed")
		return OutcomeFailed
	}
	if reply == "" {
		return OutcomeHandled
	}

	if err := deps.Replier.Reply(ctx, ev.ReplyToken, reply); err != nil {
		logger.Error().Err(err).Str("owner_id", ownerID).Msg("send reply failed")
		return OutcomeReplyFailed
	}
	return OutcomeHandled
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
