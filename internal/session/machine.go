// Package session owns the single upload/analysis/display cycle. The Machine
// is the state; the Orchestrator wires it to the preview generator and the
// analysis client. Both expect to be driven from one event loop.
package session

import (
	"github.com/yildizm/designtutor/internal/preview"
	"github.com/yildizm/designtutor/internal/tutor"
)

// Phase of the session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseResult
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Token identifies one upload. Tokens only increase.
type Token uint64

// Session is a snapshot of the current cycle. ErrorMessage is set only in
// PhaseError and Result only in PhaseResult.
type Session struct {
	Phase        Phase
	Preview      *preview.Image
	ErrorMessage string
	Result       *tutor.TutorialResult

	// Token of the upload this session belongs to, zero when idle from start
	Token Token
}

// HasError reports whether an error message is present
func (s Session) HasError() bool {
	return s.Phase == PhaseError
}

// HasResult reports whether a result is present
func (s Session) HasResult() bool {
	return s.Phase == PhaseResult && s.Result != nil
}

// Machine holds the session and the latest issued token. Resolutions that
// carry any other token are discarded.
type Machine struct {
	current Session
	latest  Token
}

// NewMachine returns a machine in PhaseIdle
func NewMachine() *Machine {
	return &Machine{current: Session{Phase: PhaseIdle}}
}

// Session returns the current snapshot
func (m *Machine) Session() Session {
	return m.current
}

// Latest returns the most recently issued token
func (m *Machine) Latest() Token {
	return m.latest
}

// Upload starts a new cycle from any phase. The previous preview, error and
// result are dropped before the new token is returned.
func (m *Machine) Upload() Token {
	m.latest++
	m.current = Session{
		Phase: PhaseLoading,
		Token: m.latest,
	}
	return m.latest
}

// ApplyPreview stores img if tok is still the latest upload
func (m *Machine) ApplyPreview(tok Token, img *preview.Image) bool {
	if tok != m.latest || m.current.Phase == PhaseIdle || img == nil {
		return false
	}
	m.current.Preview = img
	return true
}

// Resolve finishes the loading phase of tok. A non-nil result moves to
// PhaseResult, otherwise message moves to PhaseError. It returns false and
// changes nothing when tok is stale or the session is not loading.
func (m *Machine) Resolve(tok Token, result *tutor.TutorialResult, message string) bool {
	if tok != m.latest || m.current.Phase != PhaseLoading {
		return false
	}

	if result != nil {
		m.current.Phase = PhaseResult
		m.current.Result = result.Normalize()
		m.current.ErrorMessage = ""
		return true
	}

	m.current.Phase = PhaseError
	m.current.ErrorMessage = message
	m.current.Result = nil
	return true
}

// Reset returns to PhaseIdle from any phase and invalidates the in-flight
// token, if any.
func (m *Machine) Reset() {
	m.latest++
	m.current = Session{Phase: PhaseIdle}
}
