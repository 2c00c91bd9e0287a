package session

import "github.com/Sla0ui/phishguard/internal/models"

// PhaseKind enumerates the lifecycle states of one analysis attempt.
type PhaseKind int

const (
	Idle PhaseKind = iota
	Submitting
	Succeeded
	Failed
)

func (k PhaseKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Phase is the session state together with the data that only exists in that
// state: the verdict for Succeeded and the advisory message for Failed. The
// fields are unexported so a Phase can only be built through the constructors
// below, one state at a time.
type Phase struct {
	kind    PhaseKind
	result  *models.AnalysisResult
	message string
}

func idlePhase() Phase       { return Phase{kind: Idle} }
func submittingPhase() Phase { return Phase{kind: Submitting} }

func succeededPhase(result *models.AnalysisResult) Phase {
	return Phase{kind: Succeeded, result: result}
}

func failedPhase(message string) Phase {
	return Phase{kind: Failed, message: message}
}

// Kind returns the state tag.
func (p Phase) Kind() PhaseKind { return p.kind }

// Result returns the verdict when the phase is Succeeded.
func (p Phase) Result() (*models.AnalysisResult, bool) {
	return p.result, p.kind == Succeeded
}

// Message returns the user-facing failure message when the phase is Failed.
func (p Phase) Message() (string, bool) {
	return p.message, p.kind == Failed
}

func (p Phase) String() string { return p.kind.String() }
