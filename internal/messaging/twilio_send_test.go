package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pranay0217/travelmate/pkg/logging"
)

func newTestSender(t *testing.T, handler http.HandlerFunc) (*TwilioSender, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sender := NewTwilioSender("AC123", "token", "whatsapp:+14155238886", logging.Default())
	sender.baseURL = srv.URL
	return sender, srv
}

func TestSendTextPostsForm(t *testing.T) {
	var form url.Values
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "AC123" || pass != "token" {
			t.Error("missing or wrong basic auth")
		}
		_ = r.ParseForm()
		form = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	})

	sid, err := sender.SendText(context.Background(), TextMessage{
		To:   "whatsapp:+15550001111",
		Body: "Enjoy Lisbon!",
	})
	if err != nil {
		t.Fatalf("SendText returned error: %v", err)
	}
	if sid != "SM123" {
		t.Fatalf("expected SM123, got %q", sid)
	}
	if form.Get("To") != "whatsapp:+15550001111" {
		t.Fatalf("unexpected To: %q", form.Get("To"))
	}
	if form.Get("From") != "whatsapp:+14155238886" {
		t.Fatalf("default From not applied: %q", form.Get("From"))
	}
	if form.Get("Body") != "Enjoy Lisbon!" {
		t.Fatalf("unexpected Body: %q", form.Get("Body"))
	}
}

func TestSendTemplatePostsContentVariables(t *testing.T) {
	var form url.Values
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM456"}`))
	})

	sid, err := sender.SendTemplate(context.Background(), TemplateMessage{
		To:         "whatsapp:+15550001111",
		ContentSID: "HXb5b62575e6e4ff6129ad7c8efe1f983e",
		Variables:  map[string]string{"1": "12/1", "2": "3pm"},
	})
	if err != nil {
		t.Fatalf("SendTemplate returned error: %v", err)
	}
	if sid != "SM456" {
		t.Fatalf("expected SM456, got %q", sid)
	}
	if form.Get("ContentSid") != "HXb5b62575e6e4ff6129ad7c8efe1f983e" {
		t.Fatalf("unexpected ContentSid: %q", form.Get("ContentSid"))
	}
	vars := form.Get("ContentVariables")
	if !strings.Contains(vars, `"1":"12/1"`) || !strings.Contains(vars, `"2":"3pm"`) {
		t.Fatalf("unexpected ContentVariables: %q", vars)
	}
	if form.Get("Body") != "" {
		t.Fatalf("template send must not carry a Body, got %q", form.Get("Body"))
	}
}

func TestSendTextSingleAttemptOnFailure(t *testing.T) {
	attempts := 0
	sender, _ := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003,"message":"Authenticate","status":401}`))
	})

	_, err := sender.SendText(context.Background(), TextMessage{To: "whatsapp:+15550001111", Body: "hi"})
	if err == nil {
		t.Fatal("expected send error")
	}
	if !strings.Contains(err.Error(), "20003") {
		t.Fatalf("expected twilio error code in message, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("sends must be single-attempt, got %d attempts", attempts)
	}
}

func TestSendValidation(t *testing.T) {
	sender := NewTwilioSender("AC123", "token", "", logging.Default())
	if _, err := sender.SendText(context.Background(), TextMessage{To: "x", Body: "y"}); err == nil {
		t.Fatal("expected error when no from number is available")
	}
	if _, err := sender.SendText(context.Background(), TextMessage{To: "x", From: "y"}); err == nil {
		t.Fatal("expected error for empty body")
	}
	if _, err := sender.SendTemplate(context.Background(), TemplateMessage{To: "x", From: "y"}); err == nil {
		t.Fatal("expected error for missing content sid")
	}
	empty := NewTwilioSender("", "", "f", logging.Default())
	if _, err := empty.SendText(context.Background(), TextMessage{To: "x", Body: "y"}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
