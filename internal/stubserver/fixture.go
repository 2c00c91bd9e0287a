package stubserver

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sla0ui/phishguard/internal/models"
)

// Fixture is the canned data served by the stub. JSON fixture files are
// accepted too since they parse as YAML.
type Fixture struct {
	Version   string                             `yaml:"version"`
	Delay     time.Duration                      `yaml:"delay"`
	Verdict   map[string]any                     `yaml:"verdict"`
	Education map[string]models.EducationContent `yaml:"education"`
}

var generalEducation = models.EducationContent{
	Title:       "General Security Awareness",
	Description: "Stay vigilant against social engineering attacks",
	PreventionTips: []string{
		"Verify requests through official channels",
		"Be suspicious of urgent or threatening messages",
		"Don't click suspicious links or download attachments",
		"Keep software and security tools updated",
	},
}

// DefaultFixture returns a high risk phishing verdict and the built in
// education entries.
func DefaultFixture() *Fixture {
	return &Fixture{
		Version: "stub",
		Verdict: map[string]any{
			"risk_level":      "HIGH",
			"final_score":     87,
			"heuristic_score": 70,
			"llm_score":       90,
			"ai_score":        90,
			"attack_type":     "PHISHING_LINK",
			"confidence_pct":  92,
			"action":          "BLOCK_CLICK",
			"extracted_url":   nil,
			"multiple_urls":   false,
			"top_reasons": []any{
				map[string]any{"reason": "Shortened URL", "evidence": "bit.ly", "source": "heuristic", "weight": 5},
				map[string]any{"reason": "Urgent language", "evidence": "within 24 hours", "source": "raw_input", "weight": 15},
			},
			"provenance":                  []any{},
			"attacker_intent_explanation": "The link hides its destination and pressures the reader to act before checking it.",
			"ai_reasoning":                "Stub verdict, no model was consulted.",
			"is_ai_powered":               false,
			"suggested_action_text":       "Do NOT click this link. Block access immediately.",
			"marketing_notice":            nil,
			"automation_advice": map[string]any{
				"can_automate": true,
				"recommended_actions": []any{
					map[string]any{"action": "block_url", "required_consent": "admin", "confidence_required_pct": 85},
				},
			},
			"education_tip": "Always verify suspicious requests through official channels. This tool is educational and is not a replacement for official incident response.",
			"note":          "Served by the local stub server",
		},
		Education: map[string]models.EducationContent{
			"PHISHING_LINK": {
				Title:       "Phishing Link Detection",
				Description: "Malicious links designed to steal credentials or install malware",
				PreventionTips: []string{
					"Hover over links to see the actual destination",
					"Check for misspelled domains",
					"Verify requests through official channels",
					"Look for HTTPS and valid certificates",
				},
			},
			"OTP_SCAM": {
				Title:       "OTP/SMS Scam",
				Description: "Attempts to steal one-time passwords or verification codes",
				PreventionTips: []string{
					"Never share OTP codes with anyone",
					"Legitimate services won't ask for OTPs via phone/email",
					"Be suspicious of urgent requests for verification codes",
					"Use authenticator apps when possible",
				},
			},
			"LOTTERY_SCAM": {
				Title:       "Lottery/Prize Scam",
				Description: "Fraudulent claims of winning prizes to extract money or information",
				PreventionTips: []string{
					"You can't win contests you didn't enter",
					"Legitimate prizes don't require upfront payments",
					"Be skeptical of 'limited time' offers",
					"Verify lottery results through official channels",
				},
			},
			"JOB_SCAM": {
				Title:       "Employment Scam",
				Description: "Fake job offers used for identity theft or advance fee fraud",
				PreventionTips: []string{
					"Research the company thoroughly",
					"Be wary of jobs requiring upfront payments",
					"Legitimate employers don't ask for personal financial info upfront",
					"Meet potential employers in person when possible",
				},
			},
		},
	}
}

// LoadFixture reads a fixture file. An empty path returns DefaultFixture.
// Education entries missing from the file fall back to the defaults.
func LoadFixture(path string) (*Fixture, error) {
	def := DefaultFixture()
	if strings.TrimSpace(path) == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if len(f.Verdict) == 0 {
		return nil, fmt.Errorf("fixture %s has no verdict", path)
	}
	if f.Version == "" {
		f.Version = def.Version
	}
	if f.Education == nil {
		f.Education = map[string]models.EducationContent{}
	}
	for k, v := range def.Education {
		if _, ok := f.Education[k]; !ok {
			f.Education[k] = v
		}
	}
	return &f, nil
}

func (f *Fixture) education(attackType string) models.EducationContent {
	if e, ok := f.Education[strings.ToUpper(attackType)]; ok {
		return e
	}
	return generalEducation
}
