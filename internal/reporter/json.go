package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Sla0ui/phishguard/internal/models"
)

// exportRecord is one outcome as stored in a JSON export. The verdict is the
// server body itself, so fields this client does not model survive a
// LoadOutcomes round trip.
type exportRecord struct {
	Sample    string          `json:"sample"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CheckedAt time.Time       `json:"checked_at"`
	Duration  time.Duration   `json:"duration"`
}

// GenerateJSON writes the outcomes as an indented JSON array
func (r *Reporter) GenerateJSON(outputPath string) error {
	records := make([]exportRecord, 0, len(r.outcomes))
	for _, outcome := range r.outcomes {
		rec := exportRecord{
			Sample:    outcome.Sample,
			Error:     outcome.Error,
			CheckedAt: outcome.CheckedAt,
			Duration:  outcome.Duration,
		}
		if outcome.Result != nil {
			verdict, err := outcome.Result.Canonical()
			if err != nil {
				return fmt.Errorf("failed to encode verdict for %q: %w", oneLine(outcome.Sample), err)
			}
			rec.Result = verdict
		}
		records = append(records, rec)
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

func decodeExport(data []byte) ([]*models.Outcome, error) {
	var records []exportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	outcomes := make([]*models.Outcome, 0, len(records))
	for i, rec := range records {
		outcome := &models.Outcome{
			Sample:    rec.Sample,
			Error:     rec.Error,
			CheckedAt: rec.CheckedAt,
			Duration:  rec.Duration,
		}
		if len(rec.Result) > 0 && !bytes.Equal(bytes.TrimSpace(rec.Result), []byte("null")) {
			result, _, err := models.DecodeResult(rec.Result)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			outcome.Result = result
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
