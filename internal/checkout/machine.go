// Package checkout drives the simulated payment flow. No payment network is
// involved: stage transitions ride on fixed-delay timers owned by the
// machine and cancelled on any exit, so a closed checkout can never fire a
// stale transition.
package checkout

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Stage int

const (
	StageCollecting Stage = iota
	StageSubmitting
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageSubmitting:
		return "submitting"
	case StageConfirmed:
		return "confirmed"
	default:
		return "collecting"
	}
}

const (
	// DefaultSubmitDelay simulates the payment network round-trip.
	DefaultSubmitDelay = 2 * time.Second
	// DefaultConfirmHold keeps the confirmation visible before the flow
	// resets.
	DefaultConfirmHold = 2500 * time.Millisecond
)

var (
	ErrInvalidStage  = errors.New("checkout already in progress")
	ErrFieldRequired = errors.New("field is required")
)

// Form is the shipping/payment form. All fields are required; validation is
// structural only.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Card    string `json:"card"`
}

func (f Form) validate() error {
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"address", f.Address},
		{"card", f.Card},
	} {
		if strings.TrimSpace(field.value) == "" {
			return errors.Wrap(ErrFieldRequired, field.name)
		}
	}
	return nil
}

// Machine is the three-stage checkout flow. There is no failure path:
// SUBMITTING always reaches CONFIRMED unless the flow is cancelled.
type Machine struct {
	mu    sync.Mutex
	stage Stage
	form  Form

	// gen invalidates in-flight timers: every exit transition bumps it and
	// a firing timer compares its captured value before acting.
	gen uint64

	submitTimer  *time.Timer
	confirmTimer *time.Timer
	submitDelay  time.Duration
	confirmHold  time.Duration

	onComplete func()
}

// NewMachine builds a checkout flow. onComplete runs after the confirmation
// hold (clear cart, close views, success notification — owned by the
// caller). Non-positive delays fall back to the defaults.
func NewMachine(onComplete func(), submitDelay, confirmHold time.Duration) *Machine {
	if submitDelay <= 0 {
		submitDelay = DefaultSubmitDelay
	}
	if confirmHold <= 0 {
		confirmHold = DefaultConfirmHold
	}
	return &Machine{
		stage:       StageCollecting,
		submitDelay: submitDelay,
		confirmHold: confirmHold,
		onComplete:  onComplete,
	}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Form returns the in-progress form state.
func (m *Machine) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Submit validates the form and moves COLLECTING -> SUBMITTING, arming the
// simulated-latency timer. Validation failure leaves the stage untouched.
func (m *Machine) Submit(form Form) error {
	if err := form.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageCollecting {
		return ErrInvalidStage
	}
	m.form = form
	m.stage = StageSubmitting
	gen := m.gen
	m.submitTimer = time.AfterFunc(m.submitDelay, func() { m.confirm(gen) })
	return nil
}

// confirm moves SUBMITTING -> CONFIRMED when the latency timer fires.
func (m *Machine) confirm(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.stage != StageSubmitting {
		return
	}
	m.stage = StageConfirmed
	m.confirmTimer = time.AfterFunc(m.confirmHold, func() { m.complete(gen) })
}

// complete fires the terminal callback and resets for the next use.
func (m *Machine) complete(gen uint64) {
	m.mu.Lock()
	if m.gen != gen || m.stage != StageConfirmed {
		m.mu.Unlock()
		return
	}
	m.resetLocked()
	done := m.onComplete
	m.mu.Unlock()

	if done != nil {
		done()
	}
}

// Cancel aborts the flow at any point, discarding form state and stopping
// any in-flight timer without completing payment.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.gen++
	if m.submitTimer != nil {
		m.submitTimer.Stop()
		m.submitTimer = nil
	}
	if m.confirmTimer != nil {
		m.confirmTimer.Stop()
		m.confirmTimer = nil
	}
	m.stage = StageCollecting
	m.form = Form{}
}
