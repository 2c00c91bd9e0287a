package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleVerdict = `{
  "risk_level": "HIGH",
  "final_score": 87,
  "heuristic_score": 70,
  "llm_score": 90,
  "attack_type": "Phishing",
  "confidence_pct": 92,
  "action": "BLOCK_CLICK",
  "top_reasons": [
    {"reason": "Shortened URL", "evidence": "bit.ly", "source": "heuristic", "weight": 5}
  ],
  "url_resolution": {"final_url": "https://example.test/login",  "hops": 2},
  "attacker_intent_explanation": "Harvest credentials",
  "suggested_action_text": "Do NOT click this link.",
  "education_tip": "Verify through official channels.",
  "unknown_field": [1, 2, 3]
}`

func TestDecodeResult(t *testing.T) {
	result, issues, err := DecodeResult([]byte(sampleVerdict))
	if err != nil {
		t.Fatalf("DecodeResult() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}

	if result.RiskLevel != RiskHigh {
		t.Errorf("Expected risk level HIGH, got %q", result.RiskLevel)
	}
	if result.FinalScore != 87 || result.HeuristicScore != 70 || result.LLMScore != 90 {
		t.Errorf("Unexpected scores: %v %v %v", result.FinalScore, result.HeuristicScore, result.LLMScore)
	}
	if result.Action != ActionBlockClick {
		t.Errorf("Expected action BLOCK_CLICK, got %q", result.Action)
	}
	if len(result.TopReasons) != 1 {
		t.Fatalf("Expected 1 reason, got %d", len(result.TopReasons))
	}
	if w := result.TopReasons[0].Weight; w == nil || *w != 5 {
		t.Errorf("Expected reason weight 5, got %v", w)
	}
	if result.ExtractedURL != nil {
		t.Errorf("Expected no extracted url, got %q", *result.ExtractedURL)
	}
	if result.Note != nil {
		t.Errorf("Expected no note, got %q", *result.Note)
	}
}

func TestDecodeResult_Degrades(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantIssues int
		validate   func(*testing.T, *AnalysisResult)
	}{
		{
			name:       "missing top_reasons",
			body:       `{"risk_level":"LOW"}`,
			wantIssues: 0,
			validate: func(t *testing.T, r *AnalysisResult) {
				if r.TopReasons == nil || len(r.TopReasons) != 0 {
					t.Errorf("Expected empty, non-nil reasons, got %#v", r.TopReasons)
				}
			},
		},
		{
			name:       "null top_reasons",
			body:       `{"top_reasons":null}`,
			wantIssues: 0,
			validate: func(t *testing.T, r *AnalysisResult) {
				if r.TopReasons == nil {
					t.Error("Expected non-nil reasons")
				}
			},
		},
		{
			name:       "wrong type score",
			body:       `{"final_score":"eighty","risk_level":"HIGH"}`,
			wantIssues: 1,
			validate: func(t *testing.T, r *AnalysisResult) {
				if r.FinalScore != 0 {
					t.Errorf("Expected zero score, got %v", r.FinalScore)
				}
				if r.RiskLevel != RiskHigh {
					t.Errorf("Expected other fields to survive, got %q", r.RiskLevel)
				}
			},
		},
		{
			name:       "one malformed reason",
			body:       `{"top_reasons":[{"reason":"a"},{"reason":42},{"reason":"c"}]}`,
			wantIssues: 1,
			validate: func(t *testing.T, r *AnalysisResult) {
				if len(r.TopReasons) != 2 || r.TopReasons[0].Reason != "a" || r.TopReasons[1].Reason != "c" {
					t.Errorf("Expected reasons a,c in order, got %#v", r.TopReasons)
				}
			},
		},
		{
			name:       "reasons not a list",
			body:       `{"top_reasons":"none"}`,
			wantIssues: 1,
			validate: func(t *testing.T, r *AnalysisResult) {
				if len(r.TopReasons) != 0 {
					t.Errorf("Expected no reasons, got %#v", r.TopReasons)
				}
			},
		},
		{
			name:       "malformed automation advice",
			body:       `{"automation_advice":{"can_automate":"yes"}}`,
			wantIssues: 1,
			validate: func(t *testing.T, r *AnalysisResult) {
				if r.AutomationAdvice != nil {
					t.Errorf("Expected automation advice to stay nil, got %#v", r.AutomationAdvice)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, issues, err := DecodeResult([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeResult() error = %v", err)
			}
			if len(issues) != tt.wantIssues {
				t.Errorf("Expected %d issues, got %v", tt.wantIssues, issues)
			}
			tt.validate(t, result)
		})
	}
}

func TestDecodeResult_NotObject(t *testing.T) {
	for _, body := range []string{``, `null`, `[1,2]`, `"text"`, `{"a":`} {
		t.Run(body, func(t *testing.T) {
			_, _, err := DecodeResult([]byte(body))
			if !errors.Is(err, ErrNotObject) {
				t.Errorf("Expected ErrNotObject, got %v", err)
			}
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	original, _, err := DecodeResult([]byte(sampleVerdict))
	if err != nil {
		t.Fatalf("DecodeResult() error = %v", err)
	}

	copied, err := original.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if !strings.Contains(string(copied), "\n  \"risk_level\": \"HIGH\"") {
		t.Errorf("Expected two-space indented output, got:\n%s", copied)
	}
	if !strings.Contains(string(copied), "unknown_field") {
		t.Error("Expected fields unknown to the client to be preserved")
	}

	again, _, err := DecodeResult(copied)
	if err != nil {
		t.Fatalf("DecodeResult(copied) error = %v", err)
	}
	if !reflect.DeepEqual(original, again) {
		t.Errorf("Round trip mismatch:\n%#v\n%#v", original, again)
	}
}

func TestCanonicalWithoutRaw(t *testing.T) {
	note := "built locally"
	result := &AnalysisResult{RiskLevel: RiskLow, TopReasons: []Reason{}, Note: &note}

	data, err := result.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Canonical output is not JSON: %v", err)
	}
	if decoded["note"] != note {
		t.Errorf("Expected note %q, got %v", note, decoded["note"])
	}
}
