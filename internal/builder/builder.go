// Package builder turns raw user text into the request envelope sent to the
// analysis service.
package builder

import (
	"strings"

	"github.com/Sla0ui/phishguard/internal/models"
)

// SampleInputs are the example messages offered to users who want to try the
// tool without pasting their own sample.
var SampleInputs = []string{
	"https://bit.ly/3abcXYZ",
	"Your bank account will be locked within 24 hours. Click https://bit.ly/3abcXYZ to verify.",
	"Win Rs 1,00,000! Claim at http://example-prize.xyz/claim?id=12345",
	"Hi, share your OTP to continue.",
	"Work from home opportunity! Apply now and earn $5000/month.",
}

var knownPlatforms = map[string]bool{
	models.PlatformEmail:    true,
	models.PlatformSMS:      true,
	models.PlatformWhatsApp: true,
	models.PlatformSocial:   true,
	models.PlatformOther:    true,
}

// IsBlank reports whether text has nothing but whitespace. Callers must not
// build or send a request for blank text.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Build returns the request envelope for rawText with the generic platform
// hint. rawText is carried verbatim; filtering blank input is the caller's job.
func Build(rawText string) *models.AnalysisRequest {
	return BuildWithHint(rawText, models.PlatformOther)
}

// BuildWithHint is Build with a caller supplied platform hint. Unknown hints
// fall back to the generic one.
func BuildWithHint(rawText, hint string) *models.AnalysisRequest {
	return &models.AnalysisRequest{
		RawInput:     rawText,
		PlatformHint: NormalizePlatform(hint),
		Enrichment:   EmptyEnrichment(),
	}
}

// NormalizePlatform lowercases hint and maps anything unrecognized to "other".
func NormalizePlatform(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if knownPlatforms[h] {
		return h
	}
	return models.PlatformOther
}

// EmptyEnrichment returns the enrichment record with every slot unknown.
func EmptyEnrichment() models.Enrichment {
	return models.Enrichment{
		Sandbox: models.Sandbox{
			Performed:         false,
			DownloadsDetected: false,
		},
	}
}
