// Package states implements the phases of a run.
package states

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/logger"
)

// State is one phase of a run (playing, chase, grab).
type State interface {
	// Name identifies the state in logs.
	Name() string

	// Enter is called once before the first Update.
	Enter() error

	// Exit is called once when another state replaces this one.
	Exit() error

	// Update advances the state by dt seconds.
	Update(dt float32) error
}

// Transition records a state change and the run time it happened at.
type Transition struct {
	From string
	To   string
	At   float32
}

// Manager runs one state at a time. Changes are deferred to the next
// Update so a state can hand over from inside its own Update.
type Manager struct {
	current State
	next    State
	clock   float32
	history []Transition
	log     *zap.Logger
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{log: logger.Named("states")}
}

// Current returns the running state, nil before the first Update.
func (m *Manager) Current() State {
	return m.current
}

// Pending returns the state scheduled for the next Update, if any.
func (m *Manager) Pending() State {
	return m.next
}

// History returns every transition made so far, oldest first.
func (m *Manager) History() []Transition {
	return m.history
}

// Change schedules next to replace the current state. A second Change
// before Update wins.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update performs a pending change, then updates the current state.
func (m *Manager) Update(dt float32) error {
	if m.next != nil {
		if err := m.swap(); err != nil {
			return err
		}
	}
	if m.current == nil {
		return nil
	}
	m.clock += dt
	if err := m.current.Update(dt); err != nil {
		return fmt.Errorf("%s: %w", m.current.Name(), err)
	}
	return nil
}

func (m *Manager) swap() error {
	from := "none"
	if m.current != nil {
		from = m.current.Name()
		if err := m.current.Exit(); err != nil {
			return fmt.Errorf("exit %s: %w", from, err)
		}
	}
	m.current, m.next = m.next, nil
	if err := m.current.Enter(); err != nil {
		return fmt.Errorf("enter %s: %w", m.current.Name(), err)
	}

	t := Transition{From: from, To: m.current.Name(), At: m.clock}
	m.history = append(m.history, t)
	m.log.Debug("state changed",
		zap.String("from", t.From),
		zap.String("to", t.To),
		zap.Float32("at", t.At))
	return nil
}
