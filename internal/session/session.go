// Package session owns the lifecycle of analysis attempts for one user: it
// guards against duplicate submissions, records the verdict or a generic
// failure, and drives the copy-to-clipboard feedback.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Sla0ui/phishguard/internal/builder"
	"github.com/Sla0ui/phishguard/internal/logging"
	"github.com/Sla0ui/phishguard/internal/models"
)

// GenericFailureMessage is the only failure text ever shown to the user. The
// underlying cause goes to the diagnostic log.
const GenericFailureMessage = "Analysis failed. Please check your connection and try again."

// DefaultCopyFeedback is how long the "copied" indicator stays on.
const DefaultCopyFeedback = 2 * time.Second

// Analyzer sends one request envelope to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	PlatformHint string
	CopyFeedback time.Duration
	Clipboard    Clipboard
	Logger       *logging.Logger
	// OnChange is called with a fresh snapshot after every state change,
	// possibly from the feedback timer goroutine.
	OnChange func(Snapshot)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Input              string
	CharCount          int
	Phase              Phase
	LastResult         *models.AnalysisResult
	CopyFeedbackActive bool
	Seq                uint64
}

// CanSubmit reports whether a submit with the current input would be issued.
func (s Snapshot) CanSubmit() bool {
	return s.Phase.Kind() != Submitting && !builder.IsBlank(s.Input)
}

// CanClear reports whether Clear would do anything visible.
func (s Snapshot) CanClear() bool {
	return s.Phase.Kind() != Submitting && s.Input != ""
}

// Session is the state machine for one user. It is safe for concurrent use,
// but only one submission is ever in flight.
type Session struct {
	analyzer       Analyzer
	clipboard      Clipboard
	logger         *logging.Logger
	platformHint   string
	feedbackWindow time.Duration
	onChange       func(Snapshot)

	mu             sync.Mutex
	input          string
	phase          Phase
	lastResult     *models.AnalysisResult
	copyFeedback   bool
	feedbackTimer  *time.Timer
	feedbackGen    uint64
	seq            uint64
	cancelInflight context.CancelFunc
}

// New creates an idle session bound to analyzer.
func New(analyzer Analyzer, opts Options) *Session {
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = DefaultCopyFeedback
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Session{
		analyzer:       analyzer,
		clipboard:      opts.Clipboard,
		logger:         opts.Logger.With(logging.F("component", "session")),
		platformHint:   builder.NormalizePlatform(opts.PlatformHint),
		feedbackWindow: opts.CopyFeedback,
		onChange:       opts.OnChange,
		phase:          idlePhase(),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Input:              s.input,
		CharCount:          utf8.RuneCountInString(s.input),
		Phase:              s.phase,
		LastResult:         s.lastResult,
		CopyFeedbackActive: s.copyFeedback,
		Seq:                s.seq,
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastResult returns the verdict of the latest submission, or nil while it is
// running or after it failed.
func (s *Session) LastResult() *models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// Input returns the editable input text.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetInput replaces the input text. Edits are rejected while submitting.
func (s *Session) SetInput(text string) bool {
	s.mu.Lock()
	if s.phase.Kind() == Submitting {
		s.mu.Unlock()
		return false
	}
	s.input = text
	s.mu.Unlock()
	s.notify()
	return true
}

// LoadSample puts the i-th built-in sample into the input.
func (s *Session) LoadSample(i int) error {
	if i < 0 || i >= len(builder.SampleInputs) {
		return fmt.Errorf("sample index %d out of range (0-%d)", i, len(builder.SampleInputs)-1)
	}
	if !s.SetInput(builder.SampleInputs[i]) {
		return fmt.Errorf("cannot load a sample while an analysis is running")
	}
	return nil
}

// Submit analyzes rawText and blocks until the service answers or fails. It
// returns false without doing anything when rawText is blank or another
// submission is already in flight.
func (s *Session) Submit(ctx context.Context, rawText string) bool {
	if builder.IsBlank(rawText) {
		return false
	}

	s.mu.Lock()
	if s.phase.Kind() == Submitting {
		s.mu.Unlock()
		s.logger.Debug("submit ignored, analysis already in flight")
		return false
	}
	s.seq++
	seq := s.seq
	s.phase = submittingPhase()
	s.lastResult = nil
	s.stopFeedbackLocked()
	ctx, cancel := context.WithCancel(ctx)
	s.cancelInflight = cancel
	hint := s.platformHint
	s.mu.Unlock()
	defer cancel()
	s.notify()

	req := builder.BuildWithHint(rawText, hint)
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req)
	if err == nil && result == nil {
		err = fmt.Errorf("analyzer returned no verdict")
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding response for superseded submission", logging.F("seq", seq))
		return true
	}
	s.cancelInflight = nil
	if err != nil {
		s.phase = failedPhase(GenericFailureMessage)
		s.mu.Unlock()
		s.logger.Error("analysis failed", logging.F("seq", seq), logging.F("cause", err))
		s.notify()
		return true
	}
	if result.TopReasons == nil {
		result.TopReasons = []models.Reason{}
	}
	s.phase = succeededPhase(result)
	s.lastResult = result
	s.mu.Unlock()

	s.logger.Debug("analysis complete",
		logging.F("seq", seq),
		logging.F("risk_level", result.RiskLevel),
		logging.F("elapsed", time.Since(start).Round(time.Millisecond)))
	s.notify()
	return true
}

// Clear empties the input and returns a finished attempt to Idle. The last
// verdict stays copyable until the next submission. Clear is rejected while
// submitting.
func (s *Session) Clear() bool {
	s.mu.Lock()
	if s.phase.Kind() == Submitting {
		s.mu.Unlock()
		return false
	}
	s.input = ""
	s.phase = idlePhase()
	s.mu.Unlock()
	s.notify()
	return true
}

// Reset abandons any in-flight submission and returns to Idle. A response
// that arrives for the abandoned submission is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	s.seq++
	if s.cancelInflight != nil {
		s.cancelInflight()
		s.cancelInflight = nil
	}
	s.phase = idlePhase()
	s.mu.Unlock()
	s.notify()
}

// CopyResult writes the last verdict to the clipboard and turns the copy
// feedback on for the configured window. Without a verdict it does nothing.
// Clipboard failures are logged and reported as false, never as a session
// error.
func (s *Session) CopyResult() bool {
	result := s.LastResult()
	if result == nil {
		return false
	}

	text, err := result.Canonical()
	if err != nil {
		s.logger.Error("copy failed", logging.F("cause", err))
		return false
	}
	if err := s.clipboard.WriteAll(string(text)); err != nil {
		s.logger.Error("copy failed", logging.F("cause", err))
		return false
	}

	s.mu.Lock()
	s.stopFeedbackLocked()
	s.copyFeedback = true
	gen := s.feedbackGen
	s.feedbackTimer = time.AfterFunc(s.feedbackWindow, func() {
		s.expireFeedback(gen)
	})
	s.mu.Unlock()
	s.notify()
	return true
}

// Close stops the feedback timer.
func (s *Session) Close() {
	s.mu.Lock()
	s.stopFeedbackLocked()
	s.mu.Unlock()
}

func (s *Session) expireFeedback(gen uint64) {
	s.mu.Lock()
	if gen != s.feedbackGen {
		s.mu.Unlock()
		return
	}
	s.copyFeedback = false
	s.feedbackTimer = nil
	s.mu.Unlock()
	s.notify()
}

// stopFeedbackLocked cancels a pending reset. Bumping the generation covers a
// timer that already fired and is waiting on the lock.
func (s *Session) stopFeedbackLocked() {
	if s.feedbackTimer != nil {
		s.feedbackTimer.Stop()
		s.feedbackTimer = nil
	}
	s.feedbackGen++
	s.copyFeedback = false
}

func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}
