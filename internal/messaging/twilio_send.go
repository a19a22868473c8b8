package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pranay0217/travelmate/pkg/logging"
)

var twilioSendTracer = otel.Tracer("travelmate.internal.messaging.twilio_send")

// TextMessage is a plain-text outbound WhatsApp message.
type TextMessage struct {
	To   string
	From string
	Body string
}

// TemplateMessage is a structured outbound message rendered from a Twilio
// content template, with positional variables keyed "1", "2", ...
type TemplateMessage struct {
	To         string
	From       string
	ContentSID string
	Variables  map[string]string
}

// Messenger delivers replies back to the end user. Sends are single-attempt;
// failures are reported to the caller and never retried here.
type Messenger interface {
	SendText(ctx context.Context, msg TextMessage) (string, error)
	SendTemplate(ctx context.Context, msg TemplateMessage) (string, error)
}

// TwilioSender posts messages using Twilio's REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioSender builds a sender with sane defaults.
func NewTwilioSender(accountSID, authToken, defaultFrom string, logger *logging.Logger) *TwilioSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       defaultFrom,
		baseURL:    "https://api.twilio.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

var _ Messenger = (*TwilioSender)(nil)

// SendText dispatches a single plain-text message and returns the message SID.
func (s *TwilioSender) SendText(ctx context.Context, msg TextMessage) (string, error) {
	if strings.TrimSpace(msg.Body) == "" {
		return "", errors.New("messaging: body required")
	}
	payload, err := s.basePayload(msg.To, msg.From)
	if err != nil {
		return "", err
	}
	payload.Set("Body", msg.Body)

	ctx, span := twilioSendTracer.Start(ctx, "messaging.twilio.send_text")
	defer span.End()
	span.SetAttributes(attribute.String("travelmate.to", msg.To))

	sid, err := s.post(ctx, payload)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	s.logger.Info("twilio text sent", "to", msg.To, "message_sid", sid)
	return sid, nil
}

// SendTemplate dispatches a single content-template message and returns the
// message SID.
func (s *TwilioSender) SendTemplate(ctx context.Context, msg TemplateMessage) (string, error) {
	if strings.TrimSpace(msg.ContentSID) == "" {
		return "", errors.New("messaging: content sid required")
	}
	payload, err := s.basePayload(msg.To, msg.From)
	if err != nil {
		return "", err
	}
	payload.Set("ContentSid", msg.ContentSID)
	if len(msg.Variables) > 0 {
		variables, err := json.Marshal(msg.Variables)
		if err != nil {
			return "", fmt.Errorf("messaging: failed to encode content variables: %w", err)
		}
		payload.Set("ContentVariables", string(variables))
	}

	ctx, span := twilioSendTracer.Start(ctx, "messaging.twilio.send_template")
	defer span.End()
	span.SetAttributes(
		attribute.String("travelmate.to", msg.To),
		attribute.String("travelmate.content_sid", msg.ContentSID),
	)

	sid, err := s.post(ctx, payload)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	s.logger.Info("twilio template sent", "to", msg.To, "message_sid", sid)
	return sid, nil
}

func (s *TwilioSender) basePayload(to, from string) (url.Values, error) {
	if s.accountSID == "" || s.authToken == "" {
		return nil, errors.New("messaging: twilio credentials missing")
	}
	if to == "" {
		return nil, errors.New("messaging: to required")
	}
	if from == "" {
		from = s.from
	}
	if from == "" {
		return nil, errors.New("messaging: from required")
	}
	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", from)
	return payload, nil
}

func (s *TwilioSender) post(ctx context.Context, payload url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio send failed: %s", formatTwilioError(resp.StatusCode, body))
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// A 2xx with an unparseable body still counts as delivered.
		return "", nil
	}
	return parsed.SID, nil
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	// Fallback: return raw body (truncated by ReadAll limit).
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
