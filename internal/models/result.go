package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Risk levels and actions the client knows how to style. Anything else the
// service sends is displayed as-is without styling.
const (
	RiskHigh   = "HIGH"
	RiskMedium = "MEDIUM"
	RiskLow    = "LOW"

	ActionBlockClick     = "BLOCK_CLICK"
	ActionSafeAfterCheck = "SAFE_TO_CLICK_AFTER_CHECKS"
)

// AnalysisResult is the verdict returned by /api/analyze. It comes from the
// server and is always accessed defensively: zero values mean "absent".
type AnalysisResult struct {
	RiskLevel                 string            `json:"risk_level"`
	FinalScore                float64           `json:"final_score"`
	HeuristicScore            float64           `json:"heuristic_score"`
	LLMScore                  float64           `json:"llm_score"`
	AIScore                   *float64          `json:"ai_score,omitempty"`
	AttackType                string            `json:"attack_type"`
	ConfidencePct             float64           `json:"confidence_pct"`
	Action                    string            `json:"action"`
	ExtractedURL              *string           `json:"extracted_url,omitempty"`
	MultipleURLs              bool              `json:"multiple_urls,omitempty"`
	TopReasons                []Reason          `json:"top_reasons"`
	Provenance                []Provenance      `json:"provenance,omitempty"`
	AttackerIntentExplanation string            `json:"attacker_intent_explanation"`
	AIReasoning               string            `json:"ai_reasoning,omitempty"`
	IsAIPowered               bool              `json:"is_ai_powered,omitempty"`
	URLResolution             json.RawMessage   `json:"url_resolution,omitempty"`
	MarketingAnalysis         json.RawMessage   `json:"marketing_analysis,omitempty"`
	SuggestedActionText       string            `json:"suggested_action_text"`
	MarketingNotice           *string           `json:"marketing_notice,omitempty"`
	AutomationAdvice          *AutomationAdvice `json:"automation_advice,omitempty"`
	EducationTip              string            `json:"education_tip"`
	Note                      *string           `json:"note,omitempty"`

	// Raw is the compacted response body exactly as the server sent it.
	Raw json.RawMessage `json:"-"`
}

// Reason is one ranked risk indicator. Order in TopReasons is significant.
type Reason struct {
	Reason   string   `json:"reason"`
	Evidence string   `json:"evidence"`
	Source   string   `json:"source"`
	Weight   *float64 `json:"weight,omitempty"`
}

// Provenance points at the enrichment signal a verdict relied on.
type Provenance struct {
	Signal         string  `json:"signal"`
	Value          *string `json:"value,omitempty"`
	MaliciousCount *int    `json:"malicious_count,omitempty"`
	DetailURL      *string `json:"detail_url,omitempty"`
	ScreenshotURL  *string `json:"screenshot_url,omitempty"`
}

type AutomationAdvice struct {
	CanAutomate        bool                `json:"can_automate"`
	RecommendedActions []AutomationCommand `json:"recommended_actions"`
}

type AutomationCommand struct {
	Action                string  `json:"action"`
	RequiredConsent       string  `json:"required_consent"`
	ConfidenceRequiredPct float64 `json:"confidence_required_pct"`
}

// Canonical returns the pretty-printed JSON used for the clipboard and exports.
// When the raw server body is known it is reproduced field for field.
func (r *AnalysisResult) Canonical() ([]byte, error) {
	if len(r.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to indent result: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	Service   string `json:"service"`
	Status    string `json:"status"`
	AIEnabled bool   `json:"ai_enabled"`
	AIService string `json:"ai_service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// EducationResponse is returned by /api/education/{attack_type}.
type EducationResponse struct {
	AttackType string          `json:"attack_type"`
	Education  json.RawMessage `json:"education"`
	Timestamp  string          `json:"timestamp"`
}

// EducationContent is the guidance carried in EducationResponse.Education.
type EducationContent struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	PreventionTips []string `json:"prevention_tips" yaml:"prevention_tips"`
}

// Outcome records one analyzed sample for batch runs and exports.
type Outcome struct {
	Sample    string          `json:"sample"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CheckedAt time.Time       `json:"checked_at"`
	Duration  time.Duration   `json:"duration"`
}

// Succeeded reports whether the outcome carries a verdict.
func (o *Outcome) Succeeded() bool {
	return o.Result != nil
}
