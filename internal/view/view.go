// Package view holds the presentation mappings derived from a verdict. All
// functions are pure; nothing here is stored on the session.
package view

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/Sla0ui/phishguard/internal/models"
)

// RiskCategory is the display bucket of a risk level.
type RiskCategory string

const (
	RiskHigh    RiskCategory = "HIGH"
	RiskMedium  RiskCategory = "MEDIUM"
	RiskLow     RiskCategory = "LOW"
	RiskUnknown RiskCategory = ""
)

// ActionCategory is the display bucket of a recommended action.
type ActionCategory string

const (
	ActionBlock   ActionCategory = "block"
	ActionSafe    ActionCategory = "safe"
	ActionNeutral ActionCategory = "neutral"
)

// Risk maps a server risk level to its display category. Unrecognized values
// get RiskUnknown, which renderers show without styling.
func Risk(level string) RiskCategory {
	switch level {
	case models.RiskHigh:
		return RiskHigh
	case models.RiskMedium:
		return RiskMedium
	case models.RiskLow:
		return RiskLow
	default:
		return RiskUnknown
	}
}

// Action maps a recommended action to its display category by exact match.
func Action(action string) ActionCategory {
	switch action {
	case models.ActionBlockClick:
		return ActionBlock
	case models.ActionSafeAfterCheck:
		return ActionSafe
	default:
		return ActionNeutral
	}
}

// ActionLabel turns BLOCK_CLICK into "BLOCK CLICK".
func ActionLabel(action string) string {
	return strings.ReplaceAll(action, "_", " ")
}

// ScoreWidth converts a sub-score into a bar fill percentage in [0, 100].
func ScoreWidth(score float64) int {
	if math.IsNaN(score) || score <= 0 {
		return 0
	}
	if score >= 100 {
		return 100
	}
	return int(math.Round(score))
}

// FormatNumber prints whole scores without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DisplayURL returns the extracted URL with any punycode host shown in its
// unicode form alongside, so homograph domains are visible to the reader.
// It returns "" when no URL was extracted.
func DisplayURL(extracted *string) string {
	if extracted == nil {
		return ""
	}
	raw := strings.TrimSpace(*extracted)
	if raw == "" {
		return ""
	}

	parseable := raw
	if !strings.Contains(raw, "://") {
		parseable = "http://" + raw
	}
	u, err := url.Parse(parseable)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	host := u.Hostname()
	if !strings.Contains(strings.ToLower(host), "xn--") {
		return raw
	}
	unicodeHost, err := idna.Display.ToUnicode(host)
	if err != nil || unicodeHost == host {
		return raw
	}
	return raw + " (displays as " + unicodeHost + ")"
}
