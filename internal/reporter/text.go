package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/view"
)

const barCells = 20

var (
	red     = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	green   = color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	heading = color.New(color.FgBlue, color.Bold).SprintFunc()
)

func riskColor(level string) func(a ...interface{}) string {
	switch view.Risk(level) {
	case view.RiskHigh:
		return red
	case view.RiskMedium:
		return yellow
	case view.RiskLow:
		return green
	default:
		return fmt.Sprint
	}
}

func actionColor(action string) func(a ...interface{}) string {
	switch view.Action(action) {
	case view.ActionBlock:
		return red
	case view.ActionSafe:
		return green
	default:
		return yellow
	}
}

// ScoreBar draws a fixed width bar for a 0-100 sub-score.
func ScoreBar(score float64) string {
	filled := view.ScoreWidth(score) * barCells / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barCells-filled) + "]"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// RenderText writes a verdict for the terminal. Missing fields are shown as
// "-" or skipped; a nil result renders nothing.
func RenderText(w io.Writer, r *models.AnalysisResult) {
	if r == nil {
		return
	}

	level := orDash(r.RiskLevel)
	fmt.Fprintln(w, "\n--------------------------------")
	fmt.Fprintf(w, "Threat Level: %s   Final Score: %s\n", riskColor(r.RiskLevel)(level), bold(view.FormatNumber(r.FinalScore)))
	fmt.Fprintln(w, "--------------------------------")

	fmt.Fprintf(w, "Heuristic   %s %s\n", ScoreBar(r.HeuristicScore), view.FormatNumber(r.HeuristicScore))
	fmt.Fprintf(w, "AI Analysis %s %s\n", ScoreBar(r.LLMScore), view.FormatNumber(r.LLMScore))

	fmt.Fprintf(w, "\n%s\n", heading("Analysis Overview"))
	fmt.Fprintf(w, "Attack Type: %s\n", cyan(orDash(r.AttackType)))
	fmt.Fprintf(w, "Confidence: %s%%\n", view.FormatNumber(r.ConfidencePct))
	fmt.Fprintf(w, "Recommended Action: %s\n", actionColor(r.Action)(orDash(view.ActionLabel(r.Action))))
	if u := view.DisplayURL(r.ExtractedURL); u != "" {
		fmt.Fprintf(w, "Extracted URL: %s\n", u)
	}
	if r.MultipleURLs {
		fmt.Fprintln(w, faint("Multiple URLs were found; the first one was analyzed."))
	}

	if len(r.TopReasons) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Risk Indicators"))
		for i, reason := range r.TopReasons {
			fmt.Fprintf(w, "  %d. %s\n", i+1, bold(orDash(reason.Reason)))
			details := fmt.Sprintf("Evidence: %q  Source: %s", reason.Evidence, orDash(reason.Source))
			if reason.Weight != nil {
				details += "  Weight: " + view.FormatNumber(*reason.Weight)
			}
			fmt.Fprintf(w, "     %s\n", faint(details))
		}
	}

	if r.AttackerIntentExplanation != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", heading("Threat Analysis"), r.AttackerIntentExplanation)
	}

	if r.SuggestedActionText != "" || r.EducationTip != "" {
		fmt.Fprintf(w, "\n%s\n", heading("Security Recommendations"))
		if r.SuggestedActionText != "" {
			fmt.Fprintf(w, "Immediate Action: %s\n", r.SuggestedActionText)
		}
		if r.EducationTip != "" {
			fmt.Fprintf(w, "Security Tip: %s\n", r.EducationTip)
		}
	}

	if r.MarketingNotice != nil && *r.MarketingNotice != "" {
		fmt.Fprintf(w, "\n%s %s\n", yellow("Notice:"), *r.MarketingNotice)
	}

	if r.Note != nil && *r.Note != "" {
		fmt.Fprintf(w, "\n%s %s\n", faint("Note:"), *r.Note)
	}
}

// RenderOutcome writes one batch outcome as a single summary line.
func RenderOutcome(w io.Writer, o *models.Outcome) {
	if o.Result == nil {
		fmt.Fprintf(w, "%s %s  %s\n", red("FAILED"), oneLine(o.Sample), faint(o.Error))
		return
	}
	r := o.Result
	fmt.Fprintf(w, "%s %s  %s  %s\n",
		riskColor(r.RiskLevel)(orDash(r.RiskLevel)),
		view.FormatNumber(r.FinalScore),
		actionColor(r.Action)(orDash(view.ActionLabel(r.Action))),
		oneLine(o.Sample))
}
