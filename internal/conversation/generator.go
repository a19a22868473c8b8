package conversation

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/pranay0217/travelmate/internal/observability/metrics"
	"github.com/pranay0217/travelmate/internal/session"
	"github.com/pranay0217/travelmate/pkg/logging"
)

// systemPrompt fixes the assistant persona and keeps replies short.
const systemPrompt = "You are a helpful travel assistant. Answer concisely."

// FallbackReply is sent when the completion backend fails or times out.
const FallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

const replyTemperature = 0.7

var generatorTracer = otel.Tracer("travelmate.internal.conversation")

// Generator produces one assistant reply per inbound message from the
// user's accumulated history and the new message.
type Generator struct {
	llm     LLMClient
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.RelayMetrics
}

// NewGenerator builds a reply generator. A timeout of zero disables the
// per-completion deadline.
func NewGenerator(llm LLMClient, timeout time.Duration, logger *logging.Logger, m *metrics.RelayMetrics) *Generator {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Reply makes exactly one completion call for the given history and message
// and returns the completion text verbatim. On failure it logs, records the
// error, and returns FallbackReply; generated reports whether the text came
// from the model.
func (g *Generator) Reply(ctx context.Context, userID string, history []session.Turn, message string) (reply string, generated bool) {
	ctx, span := generatorTracer.Start(ctx, "conversation.reply")
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := LLMRequest{
		System:      []string{systemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: RenderPrompt(history, message)}},
		Temperature: replyTemperature,
	}

	start := time.Now()
	resp, err := g.llm.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		g.metrics.ObserveCompletion("error", time.Since(start).Seconds())
		g.logger.Error("completion failed, using fallback reply",
			"error", err,
			"user_id", userID,
		)
		return FallbackReply, false
	}
	g.metrics.ObserveCompletion("ok", time.Since(start).Seconds())
	return resp.Text, true
}

// RenderPrompt joins the existing history as alternating Human:/AI: lines in
// chronological order, followed by the new message and an open AI: line.
func RenderPrompt(history []session.Turn, message string) string {
	var b strings.Builder
	for _, turn := range history {
		switch turn.Role {
		case session.RoleUser:
			b.WriteString("Human: ")
		case session.RoleAssistant:
			b.WriteString("AI: ")
		default:
			continue
		}
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("Human: ")
	b.WriteString(message)
	b.WriteString("\nAI:")
	return b.String()
}
