package animation

import (
	"errors"
	"testing"

	"github.com/Faultbox/meadow-run/pkg/math"
)

func TestStateMachineStartsIdle(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	if sm.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", sm.Phase())
	}
	if sm.State() != "" {
		t.Errorf("State() = %q, want empty", sm.State())
	}
	sm.Update(1) // no-op while idle
	if sm.IsAnimationFinished() {
		t.Error("idle machine reports finished")
	}
}

func TestChangeStateUnknownIsIgnored(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	if err := sm.ChangeState("missing", DefaultBlendDuration, true); !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("error = %v, want ErrClipNotFound", err)
	}
	if sm.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", sm.Phase())
	}

	_ = sm.ChangeState("slide", 0, true)
	sm.Update(0.5)
	if err := sm.ChangeState("missing", 0.2, false); err == nil {
		t.Fatal("expected error")
	}
	if sm.State() != "slide" || sm.Phase() != PhaseSteady {
		t.Errorf("state=%q phase=%v, want slide steady", sm.State(), sm.Phase())
	}
}

func TestChangeStateFromIdleSamplesImmediately(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	if err := sm.ChangeState("lift", 0.5, true); err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if sm.Phase() != PhaseSteady || sm.IsBlending() {
		t.Fatalf("phase = %v, want steady", sm.Phase())
	}
	if sm.State() != "lift" {
		t.Errorf("State() = %q, want lift", sm.State())
	}
	if y := sm.Output().Matrices()[0].Translation().Y; !near(y, 0) {
		t.Errorf("output y = %v, want frame 0", y)
	}
}

func TestChangeStateSameStateDoesNotRestart(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	_ = sm.ChangeState("slide", 0.2, true)
	sm.Update(0.75)

	before := append([]math.Mat4(nil), sm.Output().Matrices()...)
	elapsed := sm.Output().Elapsed()

	if err := sm.ChangeState("slide", 0.2, true); err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if sm.Phase() != PhaseSteady {
		t.Errorf("Phase() = %v, want steady", sm.Phase())
	}
	if sm.Output().Elapsed() != elapsed {
		t.Errorf("elapsed = %v, want %v", sm.Output().Elapsed(), elapsed)
	}
	if !matricesEqual(sm.Output().Matrices(), before) {
		t.Error("output pose changed")
	}

	// Only the loop flag changes.
	_ = sm.ChangeState("slide", 0.2, false)
	if sm.Looping() {
		t.Error("loop flag not updated")
	}
}

func TestBlendConvergesToTarget(t *testing.T) {
	anim := oneBoneAsset(t)
	sm := NewStateMachine(anim, math.Identity())
	_ = sm.ChangeState("slide", 0, true)
	sm.Update(0.5)

	if err := sm.ChangeState("lift", 0.25, true); err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if sm.Phase() != PhaseBlending || sm.State() != "lift" {
		t.Fatalf("phase=%v state=%q, want blending toward lift", sm.Phase(), sm.State())
	}

	// The target switches clips on its first update, starting from zero.
	ref := NewInstance(anim, math.Identity())

	sm.Update(0.125)
	_ = ref.Update("lift", 0.125)
	if !sm.IsBlending() {
		t.Fatal("blend committed early")
	}
	if w := sm.BlendWeight(); !near(w, 0.5) {
		t.Errorf("BlendWeight() = %v, want 0.5", w)
	}
	mid := sm.current.Matrices()[0].Lerp(sm.next.Matrices()[0], 0.5)
	if !sm.Output().Matrices()[0].ApproxEqual(mid, eps) {
		t.Errorf("mid-blend output = %v, want %v", sm.Output().Matrices()[0], mid)
	}

	sm.Update(0.125)
	_ = ref.Update("lift", 0.125)
	if sm.Phase() != PhaseSteady {
		t.Fatalf("phase = %v after full blend, want steady", sm.Phase())
	}
	if sm.State() != "lift" {
		t.Errorf("State() = %q, want lift", sm.State())
	}
	if !matricesEqual(sm.Output().Matrices(), ref.Matrices()) {
		t.Errorf("output = %v, want target pose %v", sm.Output().Matrices(), ref.Matrices())
	}
}

func TestChangeStateRetargetsMidBlend(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	_ = sm.ChangeState("slide", 0, true)
	_ = sm.ChangeState("lift", 1, true)
	sm.Update(0.25)
	sm.Update(0.25)

	if err := sm.ChangeState("short", 0.5, false); err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if sm.State() != "short" || sm.Phase() != PhaseBlending {
		t.Fatalf("state=%q phase=%v, want blending toward short", sm.State(), sm.Phase())
	}
	if sm.BlendWeight() != 0 {
		t.Errorf("BlendWeight() = %v, want restart at 0", sm.BlendWeight())
	}
	if sm.currentName != "lift" {
		t.Errorf("current = %q, want in-flight target lift", sm.currentName)
	}
	if sm.current.Elapsed() != 0.25 {
		t.Errorf("current elapsed = %v, want 0.25 carried over", sm.current.Elapsed())
	}
}

func TestIsAnimationFinishedChainsOneShot(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	_ = sm.ChangeState("slide", 0, true)
	_ = sm.ChangeState("short", 0.25, false)

	sm.Update(0.125)
	if sm.IsAnimationFinished() {
		t.Error("finished reported while blending")
	}
	sm.Update(0.125)
	if sm.Phase() != PhaseSteady {
		t.Fatalf("phase = %v, want steady", sm.Phase())
	}

	// "short" lasts 0.5s and does not loop.
	sm.Update(0.125)
	if sm.IsAnimationFinished() {
		t.Error("finished before end of clip")
	}
	sm.Update(0.375)
	if !sm.IsAnimationFinished() {
		t.Error("one-shot clip not finished")
	}
	sm.Update(1)
	if !sm.IsAnimationFinished() {
		t.Error("non-looping clip wrapped")
	}
	if x := sm.Output().Matrices()[0].Translation().X; !near(x, 1) {
		t.Errorf("held x = %v, want last frame 1", x)
	}
}

func TestLoopingStateWraps(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	_ = sm.ChangeState("short", 0, true)

	sm.Update(0.5)
	if sm.Output().Elapsed() != 0.5 {
		t.Fatalf("elapsed = %v, want 0.5", sm.Output().Elapsed())
	}
	sm.Update(0.125)
	if sm.Output().Elapsed() != 0 {
		t.Errorf("elapsed = %v, want wrap to 0", sm.Output().Elapsed())
	}
	if sm.IsAnimationFinished() {
		t.Error("looping clip reports finished after wrap")
	}
	sm.Update(0.125)
	if x := sm.Output().Matrices()[0].Translation().X; !near(x, 0.5) {
		t.Errorf("x after wrap = %v, want 0.5", x)
	}
}

func TestZeroDurationBlendCommitsOnNextUpdate(t *testing.T) {
	sm := NewStateMachine(oneBoneAsset(t), math.Identity())
	_ = sm.ChangeState("slide", 0, true)
	_ = sm.ChangeState("lift", 0, true)
	if sm.BlendWeight() != 1 {
		t.Errorf("BlendWeight() = %v, want 1", sm.BlendWeight())
	}
	sm.Update(0)
	if sm.Phase() != PhaseSteady || sm.State() != "lift" {
		t.Errorf("phase=%v state=%q, want steady lift", sm.Phase(), sm.State())
	}
}
