package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ErrNotObject is returned when a response body is not a JSON object.
var ErrNotObject = errors.New("response body is not a JSON object")

// DecodeResult parses a verdict body field by field. A field with an
// unexpected type is left at its zero value and reported in issues instead of
// failing the whole result. Only a body that is not a JSON object is an error.
func DecodeResult(data []byte) (result *AnalysisResult, issues []string, err error) {
	// Decoding from the compacted form keeps nested raw fields stable across
	// a Canonical round trip.
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, nil, ErrNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(compact.Bytes(), &fields); err != nil || fields == nil {
		return nil, nil, ErrNotObject
	}

	r := &AnalysisResult{Raw: compact.Bytes()}

	targets := []struct {
		key    string
		target any
	}{
		{"risk_level", &r.RiskLevel},
		{"final_score", &r.FinalScore},
		{"heuristic_score", &r.HeuristicScore},
		{"llm_score", &r.LLMScore},
		{"ai_score", &r.AIScore},
		{"attack_type", &r.AttackType},
		{"confidence_pct", &r.ConfidencePct},
		{"action", &r.Action},
		{"extracted_url", &r.ExtractedURL},
		{"multiple_urls", &r.MultipleURLs},
		{"provenance", &r.Provenance},
		{"attacker_intent_explanation", &r.AttackerIntentExplanation},
		{"ai_reasoning", &r.AIReasoning},
		{"is_ai_powered", &r.IsAIPowered},
		{"url_resolution", &r.URLResolution},
		{"marketing_analysis", &r.MarketingAnalysis},
		{"suggested_action_text", &r.SuggestedActionText},
		{"marketing_notice", &r.MarketingNotice},
		{"automation_advice", &r.AutomationAdvice},
		{"education_tip", &r.EducationTip},
		{"note", &r.Note},
	}

	for _, t := range targets {
		raw, ok := fields[t.key]
		if !ok || isNull(raw) {
			continue
		}
		if err := decodeInto(raw, t.target); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", t.key, err))
		}
	}

	r.TopReasons, issues = decodeReasons(fields["top_reasons"], issues)

	return r, issues, nil
}

// decodeReasons keeps every well-formed reason in server order and skips the
// rest. The result is never nil so renderers can range over it.
func decodeReasons(raw json.RawMessage, issues []string) ([]Reason, []string) {
	reasons := []Reason{}
	if len(raw) == 0 || isNull(raw) {
		return reasons, issues
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return reasons, append(issues, fmt.Sprintf("top_reasons: %v", err))
	}

	for i, item := range items {
		var reason Reason
		if err := json.Unmarshal(item, &reason); err != nil {
			issues = append(issues, fmt.Sprintf("top_reasons[%d]: %v", i, err))
			continue
		}
		reasons = append(reasons, reason)
	}
	return reasons, issues
}

// decodeInto unmarshals into a fresh value and only assigns it on success, so a
// failed decode never leaves a half-filled field behind.
func decodeInto(raw json.RawMessage, target any) error {
	dst := reflect.ValueOf(target).Elem()
	tmp := reflect.New(dst.Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		return err
	}
	dst.Set(tmp.Elem())
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
