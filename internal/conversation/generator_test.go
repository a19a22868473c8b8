package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pranay0217/travelmate/internal/session"
	"github.com/pranay0217/travelmate/pkg/logging"
)

type stubLLMClient struct {
	calls    int
	lastReq  LLMRequest
	response LLMResponse
	err      error
}

func (s *stubLLMClient) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return s.response, nil
}

func TestGeneratorReplyReturnsCompletionVerbatim(t *testing.T) {
	stub := &stubLLMClient{response: LLMResponse{Text: "Paris is lovely in May.  "}}
	gen := NewGenerator(stub, time.Second, logging.Default(), nil)

	reply, generated := gen.Reply(context.Background(), "u1", nil, "When should I visit Paris?")
	if !generated {
		t.Fatal("expected a generated reply")
	}
	if reply != "Paris is lovely in May.  " {
		t.Fatalf("reply must be returned verbatim, got %q", reply)
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", stub.calls)
	}
}

func TestGeneratorReplyRequestShape(t *testing.T) {
	stub := &stubLLMClient{response: LLMResponse{Text: "ok"}}
	gen := NewGenerator(stub, 0, logging.Default(), nil)
	history := []session.Turn{
		{Role: session.RoleUser, Text: "hi from earlier"},
		{Role: session.RoleAssistant, Text: "hello!"},
	}

	gen.Reply(context.Background(), "u1", history, "book me a hotel")

	req := stub.lastReq
	if req.Temperature != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", req.Temperature)
	}
	if len(req.System) != 1 || !strings.Contains(req.System[0], "travel assistant") {
		t.Fatalf("unexpected system prompt: %#v", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != ChatRoleUser {
		t.Fatalf("expected a single user message, got %#v", req.Messages)
	}
	want := "Human: hi from earlier\nAI: hello!\nHuman: book me a hotel\nAI:"
	if req.Messages[0].Content != want {
		t.Fatalf("prompt mismatch:\n got %q\nwant %q", req.Messages[0].Content, want)
	}
}

func TestGeneratorReplyFallsBackOnError(t *testing.T) {
	stub := &stubLLMClient{err: errors.New("deadline exceeded")}
	gen := NewGenerator(stub, time.Second, logging.Default(), nil)

	reply, generated := gen.Reply(context.Background(), "u1", nil, "anything")
	if generated {
		t.Fatal("failed completion must not be reported as generated")
	}
	if reply != FallbackReply {
		t.Fatalf("expected fallback apology, got %q", reply)
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", stub.calls)
	}
}

func TestRenderPromptEmptyHistory(t *testing.T) {
	got := RenderPrompt(nil, "first message")
	if got != "Human: first message\nAI:" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}
