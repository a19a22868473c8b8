package templates

import (
	"strings"
	"testing"
)

func TestRenderWelcome(t *testing.T) {
	msg, err := Renderer{}.Welcome("TravelMate AI")
	if err != nil {
		t.Fatalf("Welcome returned error: %v", err)
	}
	if !strings.Contains(msg, "*TravelMate AI*") {
		t.Fatalf("welcome message missing assistant name: %q", msg)
	}
	if !strings.Contains(msg, "How can I assist you today?") {
		t.Fatalf("welcome message missing closing line: %q", msg)
	}
}

func TestRenderMissingKeyFails(t *testing.T) {
	_, err := Renderer{}.Render("bad", "hello {{.Missing}}", struct{}{})
	if err == nil {
		t.Fatal("expected missing-key error")
	}
}

func TestRenderEmptyTemplateFails(t *testing.T) {
	_, err := Renderer{}.Render("empty", "", nil)
	if err == nil {
		t.Fatal("expected error for empty template")
	}
}
