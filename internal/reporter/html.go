package reporter

import (
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sla0ui/phishguard/internal/view"
)

var riskBadgeClass = map[view.RiskCategory]string{
	view.RiskHigh:   "badge-high",
	view.RiskMedium: "badge-medium",
	view.RiskLow:    "badge-low",
}

var actionPillClass = map[view.ActionCategory]string{
	view.ActionBlock:   "pill-block",
	view.ActionSafe:    "pill-safe",
	view.ActionNeutral: "pill-neutral",
}

// GenerateHTML creates an HTML report
func (r *Reporter) GenerateHTML(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	stats := r.GetStats()
	esc := html.EscapeString

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PhishGuard Threat Analysis Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1, h2, h3 { color: #2c3e50; }
        .container { max-width: 1200px; margin: 0 auto; }
        .summary { background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .stats { display: flex; gap: 20px; margin: 20px 0; }
        .stat-box { flex: 1; padding: 15px; border-radius: 5px; text-align: center; }
        .high { background-color: #f8d7da; color: #721c24; }
        .medium { background-color: #fff3cd; color: #856404; }
        .low { background-color: #d4edda; color: #155724; }
        .total { background-color: #e2e3e5; color: #383d41; }
        .verdict { border: 1px solid #ddd; border-radius: 5px; padding: 15px; margin-bottom: 20px; page-break-inside: avoid; }
        .sample { font-family: monospace; background-color: #f2f2f2; padding: 8px; white-space: pre-wrap; word-break: break-all; }
        .badge, .pill { display: inline-block; padding: 3px 7px; border-radius: 3px; font-size: 12px; margin-right: 5px; }
        .badge-high, .pill-block { background-color: #f8d7da; color: #721c24; }
        .badge-medium, .pill-neutral { background-color: #fff3cd; color: #856404; }
        .badge-low, .pill-safe { background-color: #d4edda; color: #155724; }
        .bar { background-color: #e9ecef; height: 8px; border-radius: 4px; width: 200px; display: inline-block; vertical-align: middle; }
        .bar-fill { background-color: #2c3e50; height: 8px; border-radius: 4px; }
        .error { color: #721c24; }
        .evidence { color: #555; font-size: 13px; }
        .note { font-size: 13px; color: #555; }
    </style>
</head>
<body>
    <div class="container">
        <h1>PhishGuard Threat Analysis Report</h1>
        <div class="summary">
            <p>Report generated on: ` + time.Now().Format("January 2, 2006 15:04:05") + `</p>
            <p>Total samples analyzed: ` + strconv.Itoa(stats.Total) + ` (` + strconv.Itoa(stats.Failed) + ` failed)</p>
        </div>

        <div class="stats">
            <div class="stat-box high"><h3>High Risk</h3><p>` + strconv.Itoa(stats.High) + `</p></div>
            <div class="stat-box medium"><h3>Medium Risk</h3><p>` + strconv.Itoa(stats.Medium) + `</p></div>
            <div class="stat-box low"><h3>Low Risk</h3><p>` + strconv.Itoa(stats.Low) + `</p></div>
            <div class="stat-box total"><h3>Total</h3><p>` + strconv.Itoa(stats.Total) + `</p></div>
        </div>
`)

	for i, outcome := range r.outcomes {
		b.WriteString(`
        <div class="verdict">
            <h2>Sample ` + strconv.Itoa(i+1) + `</h2>
            <div class="sample">` + esc(outcome.Sample) + `</div>`)

		res := outcome.Result
		if res == nil {
			b.WriteString(`
            <p class="error">` + esc(outcome.Error) + `</p>
        </div>`)
			continue
		}

		b.WriteString(`
            <p>Threat Level: <span class="badge ` + riskBadgeClass[view.Risk(res.RiskLevel)] + `">` + esc(res.RiskLevel) + `</span>
               Final Score: <strong>` + view.FormatNumber(res.FinalScore) + `</strong></p>
            <p>Heuristic <span class="bar"><span class="bar-fill" style="display:block;width:` + strconv.Itoa(view.ScoreWidth(res.HeuristicScore)) + `%"></span></span> ` + view.FormatNumber(res.HeuristicScore) + `</p>
            <p>AI Analysis <span class="bar"><span class="bar-fill" style="display:block;width:` + strconv.Itoa(view.ScoreWidth(res.LLMScore)) + `%"></span></span> ` + view.FormatNumber(res.LLMScore) + `</p>
            <p>Attack Type: ` + esc(res.AttackType) + ` &middot; Confidence: ` + view.FormatNumber(res.ConfidencePct) + `%</p>
            <p>Recommended Action: <span class="pill ` + actionPillClass[view.Action(res.Action)] + `">` + esc(view.ActionLabel(res.Action)) + `</span></p>`)

		if u := view.DisplayURL(res.ExtractedURL); u != "" {
			b.WriteString(`
            <p>Extracted URL: <code>` + esc(u) + `</code></p>`)
		}

		if len(res.TopReasons) > 0 {
			b.WriteString(`
            <h3>Risk Indicators</h3>
            <ol>`)
			for _, reason := range res.TopReasons {
				weight := ""
				if reason.Weight != nil {
					weight = ` &middot; Weight: ` + view.FormatNumber(*reason.Weight)
				}
				b.WriteString(`
                <li><strong>` + esc(reason.Reason) + `</strong>
                    <div class="evidence">Evidence: &quot;` + esc(reason.Evidence) + `&quot; &middot; Source: ` + esc(reason.Source) + weight + `</div></li>`)
			}
			b.WriteString(`
            </ol>`)
		}

		b.WriteString(`
            <h3>Threat Analysis</h3>
            <p>` + esc(res.AttackerIntentExplanation) + `</p>
            <h3>Security Recommendations</h3>
            <p><strong>Immediate Action:</strong> ` + esc(res.SuggestedActionText) + `</p>
            <p><strong>Security Tip:</strong> ` + esc(res.EducationTip) + `</p>`)

		if res.Note != nil && *res.Note != "" {
			b.WriteString(`
            <p class="note"><strong>Note:</strong> ` + esc(*res.Note) + `</p>`)
		}

		b.WriteString(`
        </div>`)
	}

	b.WriteString(`
    </div>
</body>
</html>`)

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
