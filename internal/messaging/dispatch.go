package messaging

import (
	"strings"

	"github.com/pranay0217/travelmate/internal/session"
)

// DecisionKind names the outbound path selected for one request.
type DecisionKind string

const (
	// DecisionGreeting short-circuits to the fixed welcome message.
	DecisionGreeting DecisionKind = "greeting"
	// DecisionText sends the generated reply as plain text.
	DecisionText DecisionKind = "text"
	// DecisionTemplate sends a structured content-template notification.
	DecisionTemplate DecisionKind = "template"
)

// Decision is the transient per-request dispatch outcome. It is produced
// once per inbound message and consumed immediately by the send step.
type Decision struct {
	Kind      DecisionKind
	Body      string
	Variables map[string]string
}

// ParamExtractor derives content-template variables from the generated reply
// and the conversation history. The upstream extraction rule is unspecified,
// so the default extractor ignores its inputs and returns fixed values.
type ParamExtractor func(reply string, history []session.Turn) map[string]string

// FixedParams returns an extractor that always yields the given date and
// time as the two positional template variables.
func FixedParams(date, timeOfDay string) ParamExtractor {
	return func(string, []session.Turn) map[string]string {
		return map[string]string{"1": date, "2": timeOfDay}
	}
}

// DispatchPolicy selects between a template send and a plain-text send by
// searching the generated reply for a trigger word.
type DispatchPolicy struct {
	trigger string
	extract ParamExtractor
}

// NewDispatchPolicy builds a policy for the given trigger word. A nil
// extractor falls back to FixedParams defaults.
func NewDispatchPolicy(trigger string, extract ParamExtractor) *DispatchPolicy {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if trigger == "" {
		trigger = "appointment"
	}
	if extract == nil {
		extract = FixedParams("12/1", "3pm")
	}
	return &DispatchPolicy{trigger: trigger, extract: extract}
}

// Decide is a one-shot, case-insensitive substring check on the reply.
func (p *DispatchPolicy) Decide(reply string, history []session.Turn) Decision {
	if strings.Contains(strings.ToLower(reply), p.trigger) {
		return Decision{
			Kind:      DecisionTemplate,
			Body:      reply,
			Variables: p.extract(reply, history),
		}
	}
	return Decision{Kind: DecisionText, Body: reply}
}
