package messaging

import (
	"testing"

	"github.com/pranay0217/travelmate/internal/session"
)

func TestDispatchPolicyTriggerSelectsTemplate(t *testing.T) {
	policy := NewDispatchPolicy("appointment", FixedParams("12/1", "3pm"))
	cases := []struct {
		reply string
		want  DecisionKind
	}{
		{"You can book an appointment tomorrow.", DecisionTemplate},
		{"An APPOINTMENT works best.", DecisionTemplate},
		{"Your Appointment: confirmed", DecisionTemplate},
		{"Paris is lovely in spring.", DecisionText},
		{"", DecisionText},
	}
	for _, tc := range cases {
		got := policy.Decide(tc.reply, nil)
		if got.Kind != tc.want {
			t.Fatalf("Decide(%q).Kind=%s want %s", tc.reply, got.Kind, tc.want)
		}
	}
}

func TestDispatchPolicyTextCarriesReplyUnmodified(t *testing.T) {
	policy := NewDispatchPolicy("appointment", nil)
	reply := "  Take the night train to Vienna.\nIt saves a hotel night.  "
	decision := policy.Decide(reply, nil)
	if decision.Kind != DecisionText {
		t.Fatalf("expected text decision, got %s", decision.Kind)
	}
	if decision.Body != reply {
		t.Fatalf("reply must be carried unmodified, got %q", decision.Body)
	}
}

func TestDispatchPolicyDefaultParams(t *testing.T) {
	policy := NewDispatchPolicy("", nil)
	decision := policy.Decide("let's set up an appointment", nil)
	if decision.Kind != DecisionTemplate {
		t.Fatalf("expected template decision, got %s", decision.Kind)
	}
	if decision.Variables["1"] != "12/1" || decision.Variables["2"] != "3pm" {
		t.Fatalf("unexpected default variables: %#v", decision.Variables)
	}
}

func TestDispatchPolicyCustomExtractor(t *testing.T) {
	extract := func(reply string, history []session.Turn) map[string]string {
		return map[string]string{"1": "1/15", "2": "noon"}
	}
	policy := NewDispatchPolicy("appointment", extract)
	decision := policy.Decide("appointment it is", []session.Turn{{Role: session.RoleUser, Text: "jan 15 at noon"}})
	if decision.Variables["1"] != "1/15" || decision.Variables["2"] != "noon" {
		t.Fatalf("extractor output not used: %#v", decision.Variables)
	}
}
