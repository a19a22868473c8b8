package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// welcomeTemplate greets first-time users reaching out with a bare "hi".
const welcomeTemplate = "Hi, I am *{{.Name}}* – your smart travel assistant! 🌍✈️\n" +
	"I can help you:\n" +
	"• Plan your trip 🧳\n" +
	"• Find flights and hotels 🏨\n" +
	"• Suggest places to visit 📍\n" +
	"• And answer all your travel questions!\n\n" +
	"How can I assist you today?"

// Renderer renders small text templates for outbound messaging.
type Renderer struct{}

// Render compiles the provided template text with strict missing-key semantics.
func (Renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("templates: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("templates: parse: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: execute: %w", err)
	}
	return buf.String(), nil
}

// Welcome renders the fixed welcome message for the given assistant name.
func (r Renderer) Welcome(assistantName string) (string, error) {
	return r.Render("welcome", welcomeTemplate, struct{ Name string }{Name: assistantName})
}
