package builder

import (
	"encoding/json"
	"testing"

	"github.com/Sla0ui/phishguard/internal/models"
)

// expectedNulls lists every enrichment slot that must be present and null.
var expectedNulls = map[string][]string{
	"":              {"extracted_url", "domain_reputation_score", "blacklist_matches", "prior_scans_for_domain"},
	"safe_browsing": {"verdict", "score", "detail_url"},
	"virustotal":    {"malicious_count", "suspicious_count", "score", "detail_url"},
	"urlscan":       {"verdict", "screenshot_url", "detail_url"},
	"whois":         {"created_date", "age_days", "registrar", "abuse_contact"},
	"tls":           {"valid", "certificate_subject", "issuer", "not_after"},
	"ct_logs":       {"matching_entries", "latest_entry"},
	"dns":           {"resolved_ips", "a_records_count", "rbl_hits"},
	"ip_reputation": {"is_malicious", "source"},
	"sandbox":       {"behavior_summary", "network_calls", "screenshot_url"},
}

func TestBuild(t *testing.T) {
	inputs := []string{
		"https://bit.ly/3abcXYZ",
		"  padded text with spaces  ",
		"multi\nline\nmessage",
		"ünïcödé ✓",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			req := Build(input)

			if req.RawInput != input {
				t.Errorf("Expected raw_input %q, got %q", input, req.RawInput)
			}
			if req.PlatformHint != models.PlatformOther {
				t.Errorf("Expected platform hint %q, got %q", models.PlatformOther, req.PlatformHint)
			}

			data, err := json.Marshal(req)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var envelope map[string]any
			if err := json.Unmarshal(data, &envelope); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			enrichment, ok := envelope["enrichment"].(map[string]any)
			if !ok {
				t.Fatalf("Expected enrichment object, got %T", envelope["enrichment"])
			}

			for group, keys := range expectedNulls {
				obj := enrichment
				if group != "" {
					obj, ok = enrichment[group].(map[string]any)
					if !ok {
						t.Fatalf("Expected enrichment.%s object, got %T", group, enrichment[group])
					}
				}
				for _, key := range keys {
					value, present := obj[key]
					if !present {
						t.Errorf("Missing enrichment field %s.%s", group, key)
						continue
					}
					if value != nil {
						t.Errorf("Expected %s.%s to be null, got %v", group, key, value)
					}
				}
			}

			sandbox := enrichment["sandbox"].(map[string]any)
			for _, key := range []string{"performed", "downloads_detected"} {
				if sandbox[key] != false {
					t.Errorf("Expected sandbox.%s=false, got %v", key, sandbox[key])
				}
			}
		})
	}
}

func TestBuildWithHint(t *testing.T) {
	tests := []struct {
		hint string
		want string
	}{
		{"email", models.PlatformEmail},
		{"SMS", models.PlatformSMS},
		{" WhatsApp ", models.PlatformWhatsApp},
		{"social", models.PlatformSocial},
		{"", models.PlatformOther},
		{"carrier-pigeon", models.PlatformOther},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			req := BuildWithHint("hello", tt.hint)
			if req.PlatformHint != tt.want {
				t.Errorf("BuildWithHint(%q) hint = %q, want %q", tt.hint, req.PlatformHint, tt.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\n\t ", true},
		{"a", false},
		{"  x  ", false},
	}

	for _, tt := range tests {
		if got := IsBlank(tt.text); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSampleInputs(t *testing.T) {
	if len(SampleInputs) == 0 {
		t.Fatal("Expected sample inputs")
	}
	for i, sample := range SampleInputs {
		if IsBlank(sample) {
			t.Errorf("Sample %d is blank", i)
		}
	}
}
