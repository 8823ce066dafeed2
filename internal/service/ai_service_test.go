package service

import (
	"strings"
	"testing"
)

func TestGenerateBreakdown_KeywordTemplates(t *testing.T) {
	cases := []struct {
		title     string
		firstStep string
	}{
		{"Buy groceries", `Make a list of items needed for "Buy groceries"`},
		{"shop for shoes", `Make a list of items needed for "shop for shoes"`},
		{"Team MEETING with QA", `Prepare agenda for "Team MEETING with QA"`},
		{"Call the bank", `Prepare agenda for "Call the bank"`},
		{"Clean the garage", "Gather cleaning supplies"},
		{"wash the car", "Gather cleaning supplies"},
		{"Study for exam", `Gather study materials for "Study for exam"`},
		{"learn Go generics", `Gather study materials for "learn Go generics"`},
	}

	for _, tc := range cases {
		steps := GenerateBreakdown(tc.title)
		if len(steps) != 4 {
			t.Fatalf("%q: expected 4 steps, got %d", tc.title, len(steps))
		}
		if steps[0] != tc.firstStep {
			t.Fatalf("%q: first step %q; want %q", tc.title, steps[0], tc.firstStep)
		}
	}
}

func TestGenerateBreakdown_GenericFallback(t *testing.T) {
	steps := GenerateBreakdown("Paint the fence")
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if !strings.Contains(steps[0], "Paint the fence") {
		t.Fatalf("generic plan does not mention the task: %q", steps[0])
	}
	if steps[1] != "Break down into smaller actions" {
		t.Fatalf("unexpected generic plan: %v", steps)
	}
}
