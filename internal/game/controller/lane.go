// Package controller turns player input into runner movement.
package controller

import (
	"github.com/Faultbox/meadow-run/internal/engine/input"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/game/entity"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// LaneSteering slides a runner sideways toward the lane chosen by the
// held steer keys. Steering left targets the left lane at +Offset;
// with no key, or both, the runner returns to the road centre.
type LaneSteering struct {
	Offset float32
	// Speed is the lateral speed in units per second.
	Speed float32
}

// NewLaneSteering creates a steering controller.
func NewLaneSteering(offset, speed float32) *LaneSteering {
	return &LaneSteering{Offset: offset, Speed: speed}
}

// Target returns the lane requested by the controls.
func (s *LaneSteering) Target(controls input.Controls) terrain.Lane {
	left := controls.Held(input.ActionSteerLeft)
	right := controls.Held(input.ActionSteerRight)
	switch {
	case left && !right:
		return terrain.LaneLeft
	case right && !left:
		return terrain.LaneRight
	default:
		return terrain.LaneNone
	}
}

// LaneX returns the lateral position of a lane.
func (s *LaneSteering) LaneX(lane terrain.Lane) float32 {
	switch lane {
	case terrain.LaneLeft:
		return s.Offset
	case terrain.LaneRight:
		return -s.Offset
	default:
		return 0
	}
}

// Update moves r toward the requested lane without overshooting.
func (s *LaneSteering) Update(r *entity.Runner, controls input.Controls, dt float32) {
	r.Position.X = math.Approach(r.Position.X, s.LaneX(s.Target(controls)), s.Speed*dt)
}
