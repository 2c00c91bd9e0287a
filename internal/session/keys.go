package session

import "context"

// Key names understood by HandleKey.
const (
	KeyEnter = "Enter"
)

// KeyEvent is a keyboard chord delivered by a front end.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool
}

// IsSubmitChord reports whether ev is Ctrl+Enter or Meta+Enter.
func (ev KeyEvent) IsSubmitChord() bool {
	return ev.Key == KeyEnter && (ev.Ctrl || ev.Meta)
}

// HandleKey submits the current input when ev is the submit chord. It goes
// through Submit, so the same blank-input and in-flight guards apply.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) bool {
	if !ev.IsSubmitChord() {
		return false
	}
	return s.Submit(ctx, s.Input())
}
