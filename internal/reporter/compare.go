package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/view"
)

// Comparison describes how a verdict changed between two runs of the same sample.
type Comparison struct {
	RiskBefore   string
	RiskAfter    string
	ScoreDelta   float64
	ActionBefore string
	ActionAfter  string
	Diffs        []diffmatchpatch.Diff
}

// Changed reports whether the canonical documents differ at all.
func (c *Comparison) Changed() bool {
	for _, d := range c.Diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return true
		}
	}
	return false
}

// Compare diffs the canonical JSON of two verdicts line by line.
func Compare(previous, current *models.AnalysisResult) (*Comparison, error) {
	if previous == nil || current == nil {
		return nil, fmt.Errorf("both verdicts are required for comparison")
	}

	before, err := previous.Canonical()
	if err != nil {
		return nil, err
	}
	after, err := current.Canonical()
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before)+"\n", string(after)+"\n")
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	return &Comparison{
		RiskBefore:   previous.RiskLevel,
		RiskAfter:    current.RiskLevel,
		ScoreDelta:   current.FinalScore - previous.FinalScore,
		ActionBefore: previous.Action,
		ActionAfter:  current.Action,
		Diffs:        diffs,
	}, nil
}

// RenderComparison writes a summary line followed by a unified style diff.
func RenderComparison(w io.Writer, c *Comparison) {
	delta := view.FormatNumber(c.ScoreDelta)
	if c.ScoreDelta > 0 {
		delta = "+" + delta
	}
	fmt.Fprintf(w, "Risk: %s -> %s   Score change: %s   Action: %s -> %s\n",
		riskColor(c.RiskBefore)(orDash(c.RiskBefore)),
		riskColor(c.RiskAfter)(orDash(c.RiskAfter)),
		delta,
		orDash(view.ActionLabel(c.ActionBefore)),
		orDash(view.ActionLabel(c.ActionAfter)))

	if !c.Changed() {
		fmt.Fprintln(w, green("Verdicts are identical."))
		return
	}

	for _, d := range c.Diffs {
		prefix, paint := "  ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+ ", green
		case diffmatchpatch.DiffDelete:
			prefix, paint = "- ", red
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintln(w, paint(prefix+line))
		}
	}
}
