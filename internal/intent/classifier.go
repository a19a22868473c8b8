package intent

import "strings"

// defaultGreetings is the fixed greeting vocabulary, including the common
// misspellings seen in real traffic.
var defaultGreetings = []string{"hi", "hello", "hey", "hii", "heyy"}

// Classifier detects greeting messages by exact match against a fixed
// vocabulary. Matching is case-insensitive on the trimmed message; there is
// deliberately no fuzzy or substring matching.
type Classifier struct {
	greetings map[string]struct{}
}

// NewClassifier returns a classifier over the default greeting vocabulary
// plus any extra tokens (normalized the same way inbound text is).
func NewClassifier(extra ...string) *Classifier {
	c := &Classifier{greetings: make(map[string]struct{}, len(defaultGreetings)+len(extra))}
	for _, g := range defaultGreetings {
		c.greetings[g] = struct{}{}
	}
	for _, g := range extra {
		if normalized := Normalize(g); normalized != "" {
			c.greetings[normalized] = struct{}{}
		}
	}
	return c
}

// IsGreeting reports whether the raw inbound text is a greeting.
func (c *Classifier) IsGreeting(text string) bool {
	if c == nil {
		return false
	}
	_, ok := c.greetings[Normalize(text)]
	return ok
}

// Normalize trims surrounding whitespace and lowercases inbound text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
