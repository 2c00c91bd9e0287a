package view

import (
	"math"
	"strings"
	"testing"
)

func TestRisk(t *testing.T) {
	tests := []struct {
		level string
		want  RiskCategory
	}{
		{"HIGH", RiskHigh},
		{"MEDIUM", RiskMedium},
		{"LOW", RiskLow},
		{"high", RiskUnknown},
		{"CRITICAL", RiskUnknown},
		{"", RiskUnknown},
	}

	for _, tt := range tests {
		if got := Risk(tt.level); got != tt.want {
			t.Errorf("Risk(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestAction(t *testing.T) {
	tests := []struct {
		action string
		want   ActionCategory
	}{
		{"BLOCK_CLICK", ActionBlock},
		{"SAFE_TO_CLICK_AFTER_CHECKS", ActionSafe},
		{"MONITOR", ActionNeutral},
		{"VERIFY_VIA_KNOWN_CHANNEL", ActionNeutral},
		{"QUARANTINE_EMAIL", ActionNeutral},
		{"block_click", ActionNeutral},
		{"", ActionNeutral},
	}

	for _, tt := range tests {
		if got := Action(tt.action); got != tt.want {
			t.Errorf("Action(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestActionLabel(t *testing.T) {
	if got := ActionLabel("SAFE_TO_CLICK_AFTER_CHECKS"); got != "SAFE TO CLICK AFTER CHECKS" {
		t.Errorf("Unexpected label %q", got)
	}
}

func TestScoreWidth(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{-5, 0},
		{0, 0},
		{42.4, 42},
		{42.6, 43},
		{100, 100},
		{250, 100},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := ScoreWidth(tt.score); got != tt.want {
			t.Errorf("ScoreWidth(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(87); got != "87" {
		t.Errorf("FormatNumber(87) = %q", got)
	}
	if got := FormatNumber(87.5); got != "87.5" {
		t.Errorf("FormatNumber(87.5) = %q", got)
	}
}

func TestDisplayURL(t *testing.T) {
	str := func(s string) *string { return &s }

	if got := DisplayURL(nil); got != "" {
		t.Errorf("DisplayURL(nil) = %q, want empty", got)
	}
	if got := DisplayURL(str("  ")); got != "" {
		t.Errorf("DisplayURL(blank) = %q, want empty", got)
	}
	if got := DisplayURL(str("https://bit.ly/3abcXYZ")); got != "https://bit.ly/3abcXYZ" {
		t.Errorf("Plain URL should be unchanged, got %q", got)
	}

	got := DisplayURL(str("https://xn--bcher-kva.example/login"))
	want := "https://xn--bcher-kva.example/login (displays as bücher.example)"
	if got != want {
		t.Errorf("DisplayURL() = %q, want %q", got, want)
	}

	bare := DisplayURL(str("xn--bcher-kva.example/path"))
	if !strings.Contains(bare, "bücher.example") {
		t.Errorf("Expected bücher.example in %q", bare)
	}
}
