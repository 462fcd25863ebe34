package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// DefaultBlendDuration is the cross-fade length used by callers that have
// no preference, in seconds.
const DefaultBlendDuration float32 = 0.2

// Phase is the state machine's playback phase.
type Phase int

const (
	// PhaseIdle means no state has been requested yet.
	PhaseIdle Phase = iota
	// PhaseSteady plays a single clip.
	PhaseSteady
	// PhaseBlending cross-fades from the current clip to the next.
	PhaseBlending
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSteady:
		return "steady"
	case PhaseBlending:
		return "blending"
	default:
		return "unknown"
	}
}

// StateMachine drives a character's animation by named states, one clip
// per state, cross-fading between them over a requested duration.
//
// The blend lerps raw skinning matrices component-wise.
type StateMachine struct {
	anim *Animation

	current *Instance
	next    *Instance
	output  *Instance

	currentName string
	nextName    string
	currentLoop bool
	nextLoop    bool

	blending      bool
	blendTime     float32
	blendDuration float32
}

// NewStateMachine creates an idle state machine over anim.
func NewStateMachine(anim *Animation, coord math.Mat4) *StateMachine {
	return &StateMachine{
		anim:          anim,
		current:       NewInstance(anim, coord),
		next:          NewInstance(anim, coord),
		output:        NewInstance(anim, coord),
		currentLoop:   true,
		nextLoop:      true,
		blendDuration: DefaultBlendDuration,
	}
}

// ChangeState requests a transition to the clip called name, cross-fading
// over duration seconds. Unknown clips are logged and ignored, and the
// returned error wraps ErrClipNotFound. Requesting the state that is
// already steady only updates its loop flag. A request made while
// blending commits the in-flight target first, so the latest request
// always wins.
func (m *StateMachine) ChangeState(name string, duration float32, loop bool) error {
	if !m.anim.HasClip(name) {
		logger.Warn("animation state not found, keeping current state",
			zap.String("state", name),
			zap.String("current", m.State()))
		return fmt.Errorf("%w: %q", ErrClipNotFound, name)
	}

	if m.currentName == "" {
		m.currentName = name
		m.nextName = name
		m.currentLoop = loop
		m.nextLoop = loop
		if err := m.current.Update(name, 0); err != nil {
			return err
		}
		m.next.CopyFrom(m.current)
		m.output.CopyFrom(m.current)
		m.blending = false
		return nil
	}

	if name == m.currentName && !m.blending {
		m.currentLoop = loop
		return nil
	}

	if m.blending {
		m.current.CopyFrom(m.next)
		m.currentName = m.nextName
		m.currentLoop = m.nextLoop
	}

	m.nextName = name
	m.nextLoop = loop
	m.next.ResetTime()
	m.blending = true
	m.blendTime = 0
	m.blendDuration = max(duration, 0)
	return nil
}

// Update advances the active clips by dt, wraps looping clips, progresses
// the cross-fade and recomputes the output matrices.
func (m *StateMachine) Update(dt float32) {
	if m.currentName == "" {
		return
	}

	m.advance(m.current, m.currentName, m.currentLoop, dt)

	if m.blending {
		m.advance(m.next, m.nextName, m.nextLoop, dt)
		m.blendTime += dt
		if m.blendTime >= m.blendDuration {
			m.blending = false
			m.currentName = m.nextName
			m.currentLoop = m.nextLoop
			m.current.CopyFrom(m.next)
		}
	}

	if m.blending {
		m.output.blend(m.current, m.next, m.BlendWeight())
	} else {
		m.output.CopyFrom(m.current)
	}
}

func (m *StateMachine) advance(inst *Instance, clip string, loop bool, dt float32) {
	if err := inst.Update(clip, dt); err != nil {
		logger.Error("animation update failed", zap.String("clip", clip), zap.Error(err))
		return
	}
	if loop && inst.AnimationFinished() {
		inst.ResetTime()
	}
}

// Output returns the instance holding the matrices to render.
func (m *StateMachine) Output() *Instance {
	return m.output
}

// State returns the target state while blending, else the current one.
func (m *StateMachine) State() string {
	if m.blending {
		return m.nextName
	}
	return m.currentName
}

// Phase returns the playback phase.
func (m *StateMachine) Phase() Phase {
	switch {
	case m.currentName == "":
		return PhaseIdle
	case m.blending:
		return PhaseBlending
	default:
		return PhaseSteady
	}
}

// IsBlending reports whether a cross-fade is in progress.
func (m *StateMachine) IsBlending() bool {
	return m.blending
}

// BlendWeight returns the weight of the next clip in [0,1].
func (m *StateMachine) BlendWeight() float32 {
	if !m.blending {
		return 0
	}
	if m.blendDuration <= 0 {
		return 1
	}
	return math.Clamp(m.blendTime/m.blendDuration, 0, 1)
}

// Looping reports the loop flag of the state returned by State.
func (m *StateMachine) Looping() bool {
	if m.blending {
		return m.nextLoop
	}
	return m.currentLoop
}

// IsAnimationFinished reports whether the current clip has played past
// its end. Always false while blending.
func (m *StateMachine) IsAnimationFinished() bool {
	if m.blending || m.currentName == "" {
		return false
	}
	return m.current.AnimationFinished()
}
