package reporter

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sla0ui/phishguard/internal/view"
)

// GenerateMarkdown creates a Markdown report
func (r *Reporter) GenerateMarkdown(outputPath string) error {
	stats := r.GetStats()

	var b strings.Builder
	b.WriteString("# PhishGuard Threat Analysis Report\n\n")
	b.WriteString("Report generated on: " + time.Now().Format("January 2, 2006 15:04:05") + "\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("- Total samples analyzed: " + strconv.Itoa(stats.Total) + "\n")
	b.WriteString("- High risk: " + strconv.Itoa(stats.High) + "\n")
	b.WriteString("- Medium risk: " + strconv.Itoa(stats.Medium) + "\n")
	b.WriteString("- Low risk: " + strconv.Itoa(stats.Low) + "\n")
	b.WriteString("- Failed: " + strconv.Itoa(stats.Failed) + "\n\n")

	b.WriteString("## Verdicts\n\n")
	b.WriteString("| Sample | Risk | Score | Attack Type | Action |\n")
	b.WriteString("|--------|------|-------|-------------|--------|\n")

	for _, outcome := range r.outcomes {
		sample := mdCell(outcome.Sample)
		if res := outcome.Result; res != nil {
			b.WriteString("| " + sample + " | " + mdCell(res.RiskLevel) + " | " + view.FormatNumber(res.FinalScore) + " | " + mdCell(res.AttackType) + " | " + mdCell(view.ActionLabel(res.Action)) + " |\n")
		} else {
			b.WriteString("| " + sample + " | - | - | - | " + mdCell(outcome.Error) + " |\n")
		}
	}

	for i, outcome := range r.outcomes {
		res := outcome.Result
		if res == nil || len(res.TopReasons) == 0 {
			continue
		}
		b.WriteString("\n### Sample " + strconv.Itoa(i+1) + " risk indicators\n\n")
		for n, reason := range res.TopReasons {
			b.WriteString(strconv.Itoa(n+1) + ". **" + reason.Reason + "**: \"" + reason.Evidence + "\" (source: " + reason.Source + ")\n")
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString("This tool is educational and is not a replacement for official incident response.\n")

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return nil
}

func mdCell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", "\\|")
}
