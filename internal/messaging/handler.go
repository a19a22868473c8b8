package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pranay0217/travelmate/internal/conversation"
	"github.com/pranay0217/travelmate/internal/intent"
	"github.com/pranay0217/travelmate/internal/observability/metrics"
	"github.com/pranay0217/travelmate/internal/session"
	"github.com/pranay0217/travelmate/pkg/logging"
)

var webhookTracer = otel.Tracer("travelmate.internal.messaging.webhook")

// ackBody acknowledges the webhook transport. It is not a delivery
// confirmation to the end user.
const ackBody = "OK"

// HandlerConfig wires the webhook handler's collaborators.
type HandlerConfig struct {
	Classifier *intent.Classifier
	Sessions   session.Store
	Generator  *conversation.Generator
	Policy     *DispatchPolicy
	Messenger  Messenger

	WelcomeMessage string
	ContentSID     string
	FromNumber     string
	SendTimeout    time.Duration

	Logger  *logging.Logger
	Metrics *metrics.RelayMetrics
}

// Handler processes inbound WhatsApp webhook events. Each event is handled
// independently; there is no state carried across requests beyond the
// session store.
type Handler struct {
	classifier *intent.Classifier
	sessions   session.Store
	generator  *conversation.Generator
	policy     *DispatchPolicy
	messenger  Messenger

	welcome     string
	contentSID  string
	from        string
	sendTimeout time.Duration

	logger  *logging.Logger
	metrics *metrics.RelayMetrics
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Classifier == nil {
		panic("messaging: classifier cannot be nil")
	}
	if cfg.Sessions == nil {
		panic("messaging: session store cannot be nil")
	}
	if cfg.Generator == nil {
		panic("messaging: generator cannot be nil")
	}
	if cfg.Messenger == nil {
		panic("messaging: messenger cannot be nil")
	}
	if cfg.Policy == nil {
		cfg.Policy = NewDispatchPolicy("", nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Handler{
		classifier:  cfg.Classifier,
		sessions:    cfg.Sessions,
		generator:   cfg.Generator,
		policy:      cfg.Policy,
		messenger:   cfg.Messenger,
		welcome:     cfg.WelcomeMessage,
		contentSID:  cfg.ContentSID,
		from:        cfg.FromNumber,
		sendTimeout: cfg.SendTimeout,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// WhatsAppWebhook handles POST /whatsapp requests from Twilio.
//
// Collaborator failures past field validation are logged and degraded: the
// webhook is always acknowledged 200 OK so the provider does not retry and
// duplicate side effects.
func (h *Handler) WhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "messaging.whatsapp.webhook")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		h.logger.Error("failed to parse webhook form", "error", err)
		h.metrics.ObserveInbound("rejected")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}

	body := r.FormValue("Body")
	from := r.FormValue("From")
	if strings.TrimSpace(body) == "" || strings.TrimSpace(from) == "" {
		h.logger.Error("missing required webhook fields", "has_body", body != "", "has_from", from != "")
		h.metrics.ObserveInbound("rejected")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("travelmate.from", from))
	h.logger.Info("inbound message", "from", from)

	decision := h.decide(ctx, from, body)
	h.dispatch(ctx, from, decision)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ackBody))
}

// decide runs the classify -> fetch/generate -> append pipeline and returns
// the typed dispatch decision for this request.
func (h *Handler) decide(ctx context.Context, from, body string) Decision {
	if h.classifier.IsGreeting(body) {
		h.metrics.ObserveInbound("greeting")
		return Decision{Kind: DecisionGreeting}
	}

	history, err := h.sessions.History(ctx, from)
	if err != nil {
		// Degrade to an empty context rather than dropping the message.
		h.logger.Error("failed to load session history", "error", err, "from", from)
		history = nil
	}

	reply, generated := h.generator.Reply(ctx, from, history, body)
	if generated {
		if err := h.sessions.Append(ctx, from,
			session.Turn{Role: session.RoleUser, Text: body},
			session.Turn{Role: session.RoleAssistant, Text: reply},
		); err != nil {
			h.logger.Error("failed to append session turns", "error", err, "from", from)
		}
	}

	h.metrics.ObserveInbound("replied")
	return h.policy.Decide(reply, history)
}

// dispatch performs the single outbound send for the decision. Send failures
// are logged for operator visibility; the user gets nothing for this turn.
func (h *Handler) dispatch(ctx context.Context, to string, decision Decision) {
	ctx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	switch decision.Kind {
	case DecisionGreeting:
		if _, err := h.messenger.SendText(ctx, TextMessage{To: to, From: h.from, Body: h.welcome}); err != nil {
			h.logger.Error("failed to send welcome message", "error", err, "to", to)
			h.metrics.ObserveOutbound("welcome", "error")
			return
		}
		h.metrics.ObserveOutbound("welcome", "ok")
	case DecisionTemplate:
		msg := TemplateMessage{
			To:         to,
			From:       h.from,
			ContentSID: h.contentSID,
			Variables:  decision.Variables,
		}
		if _, err := h.messenger.SendTemplate(ctx, msg); err != nil {
			h.logger.Error("failed to send template message", "error", err, "to", to)
			h.metrics.ObserveOutbound("template", "error")
			return
		}
		h.metrics.ObserveOutbound("template", "ok")
	default:
		if _, err := h.messenger.SendText(ctx, TextMessage{To: to, From: h.from, Body: decision.Body}); err != nil {
			h.logger.Error("failed to send reply message", "error", err, "to", to)
			h.metrics.ObserveOutbound("text", "error")
			return
		}
		h.metrics.ObserveOutbound("text", "ok")
	}
}

// HealthCheck returns a simple health check response.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
