package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Sla0ui/phishguard/internal/view"
)

// GenerateCSV creates a CSV report
func (r *Reporter) GenerateCSV(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Write([]string{"Sample", "Status", "RiskLevel", "FinalScore", "HeuristicScore", "LLMScore", "AttackType", "Confidence", "Action", "ExtractedURL", "TopReason", "Duration", "Error"})

	for _, outcome := range r.outcomes {
		row := []string{oneLine(outcome.Sample), "failed", "", "", "", "", "", "", "", "", "", strconv.FormatInt(outcome.Duration.Milliseconds(), 10) + "ms", outcome.Error}

		if res := outcome.Result; res != nil {
			topReason := ""
			if len(res.TopReasons) > 0 {
				topReason = res.TopReasons[0].Reason
			}
			extracted := ""
			if res.ExtractedURL != nil {
				extracted = *res.ExtractedURL
			}
			row[1] = "analyzed"
			row[2] = res.RiskLevel
			row[3] = view.FormatNumber(res.FinalScore)
			row[4] = view.FormatNumber(res.HeuristicScore)
			row[5] = view.FormatNumber(res.LLMScore)
			row[6] = res.AttackType
			row[7] = view.FormatNumber(res.ConfidencePct)
			row[8] = res.Action
			row[9] = extracted
			row[10] = topReason
		}

		w.Write(row)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
