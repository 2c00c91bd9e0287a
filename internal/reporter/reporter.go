package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/view"
)

// Reporter handles generating analysis reports in various formats
type Reporter struct {
	outcomes  []*models.Outcome
	outputDir string
}

// New creates a new Reporter instance
func New(outcomes []*models.Outcome, outputDir string) *Reporter {
	return &Reporter{
		outcomes:  outcomes,
		outputDir: outputDir,
	}
}

// Stats summarizes a set of outcomes.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	High      int
	Medium    int
	Low       int
	Unknown   int
}

// WriteResultsToFiles writes the standard output files into the output directory
func (r *Reporter) WriteResultsToFiles() error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonFile := filepath.Join(r.outputDir, "verdicts.json")
	logFile := filepath.Join(r.outputDir, "analysis_log.csv")
	blockFile := filepath.Join(r.outputDir, "blocked_samples.txt")
	failedFile := filepath.Join(r.outputDir, "failed_samples.txt")

	if err := r.GenerateCSV(logFile); err != nil {
		return err
	}
	if err := r.GenerateJSON(jsonFile); err != nil {
		return err
	}

	for _, outcome := range r.outcomes {
		line := oneLine(outcome.Sample) + "\n"
		switch {
		case !outcome.Succeeded():
			if err := appendToFile(failedFile, line); err != nil {
				return err
			}
		case view.Action(outcome.Result.Action) == view.ActionBlock:
			if err := appendToFile(blockFile, line); err != nil {
				return err
			}
		}
	}

	return nil
}

// GenerateReport creates a report in each of the comma separated formats.
// PDF output is printed from the HTML report, which is written alongside.
func (r *Reporter) GenerateReport(ctx context.Context, outputPath, format string, pdf PDFOptions) error {
	formats := strings.Split(format, ",")
	outputBase := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	if dir := filepath.Dir(outputBase); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "json":
			if err := r.GenerateJSON(outputBase + ".json"); err != nil {
				return err
			}
		case "csv":
			if err := r.GenerateCSV(outputBase + ".csv"); err != nil {
				return err
			}
		case "html":
			if err := r.GenerateHTML(outputBase + ".html"); err != nil {
				return err
			}
		case "markdown", "md":
			if err := r.GenerateMarkdown(outputBase + ".md"); err != nil {
				return err
			}
		case "pdf":
			if err := r.GenerateHTML(outputBase + ".html"); err != nil {
				return err
			}
			if err := GeneratePDF(ctx, outputBase+".html", outputBase+".pdf", pdf); err != nil {
				return err
			}
		case "":
		default:
			return fmt.Errorf("unsupported report format %q", f)
		}
	}

	return nil
}

// GetStats counts outcomes by success and risk category
func (r *Reporter) GetStats() Stats {
	stats := Stats{Total: len(r.outcomes)}
	for _, outcome := range r.outcomes {
		if !outcome.Succeeded() {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		switch view.Risk(outcome.Result.RiskLevel) {
		case view.RiskHigh:
			stats.High++
		case view.RiskMedium:
			stats.Medium++
		case view.RiskLow:
			stats.Low++
		default:
			stats.Unknown++
		}
	}
	return stats
}

// LoadOutcomes reads a JSON export written by GenerateJSON. A file holding a
// single verdict object is accepted too.
func LoadOutcomes(path string) ([]*models.Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	if outcomes, err := decodeExport(data); err == nil {
		return outcomes, nil
	}

	result, _, err := models.DecodeResult(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return []*models.Outcome{{Result: result}}, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func appendToFile(filename, text string) error {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening file for append: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}
