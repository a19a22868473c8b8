package session

import "context"

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation, in arrival order.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Store keeps per-user conversation history. The user identifier is an
// opaque, untrusted string (typically a whatsapp:+E164 address).
//
// History is get-or-create: a never-appended user has an empty history.
// Append adds turns to the end of the history in order; turns are never
// reordered, merged, or truncated. Appends for the same user are serialized
// so concurrent webhook deliveries cannot interleave or lose turns;
// unrelated users proceed concurrently.
type Store interface {
	History(ctx context.Context, userID string) ([]Turn, error)
	Append(ctx context.Context, userID string, turns ...Turn) error
}
