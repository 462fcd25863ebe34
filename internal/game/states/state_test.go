package states

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/meadow-run/internal/config"
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/input"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/game/world"
	"github.com/Faultbox/meadow-run/pkg/math"
)

type recordState struct {
	name      string
	log       *[]string
	updateErr error
}

func (s *recordState) Name() string { return s.name }
func (s *recordState) Enter() error { *s.log = append(*s.log, "enter "+s.name); return nil }
func (s *recordState) Exit() error  { *s.log = append(*s.log, "exit "+s.name); return nil }
func (s *recordState) Update(float32) error {
	*s.log = append(*s.log, "update "+s.name)
	return s.updateErr
}

func TestManagerTransitions(t *testing.T) {
	var log []string
	m := NewManager()

	if err := m.Update(0.1); err != nil {
		t.Fatalf("empty manager: %v", err)
	}

	a := &recordState{name: "a", log: &log}
	b := &recordState{name: "b", log: &log}

	m.Change(a)
	if m.Current() != nil || m.Pending() != a {
		t.Fatal("change should be deferred to Update")
	}
	m.Update(0.1)
	m.Change(b)
	m.Update(0.1)

	want := []string{"enter a", "update a", "exit a", "enter b", "update b"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if m.Current() != b {
		t.Error("current should be b")
	}

	h := m.History()
	if len(h) != 2 {
		t.Fatalf("history = %+v, want 2 transitions", h)
	}
	if h[0] != (Transition{From: "none", To: "a", At: 0}) {
		t.Errorf("first transition = %+v", h[0])
	}
	if h[1].From != "a" || h[1].To != "b" || h[1].At < 0.099 || h[1].At > 0.101 {
		t.Errorf("second transition = %+v", h[1])
	}
}

func TestManagerUpdateError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	m := NewManager()
	m.Change(&recordState{name: "a", log: &log, updateErr: boom})
	err := m.Update(0.1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), "a:") {
		t.Errorf("err %q should name the state", err)
	}
}

type countEvents struct {
	hits     []int
	gameOver int
	grabbed  int
}

func (e *countEvents) Hit(n int) { e.hits = append(e.hits, n) }
func (e *countEvents) GameOver() { e.gameOver++ }
func (e *countEvents) Grabbed()  { e.grabbed++ }

func newWorld(t *testing.T, lane terrain.Lane) *world.World {
	t.Helper()
	player, err := animation.DemoRig(world.PlayerClips...)
	if err != nil {
		t.Fatal(err)
	}
	chaser, err := animation.DemoRig(world.ChaserClips...)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Terrain.Seed = 5
	tc, err := cfg.Terrain.Manager([]terrain.TileConfig{{Lane: lane}})
	if err != nil {
		t.Fatal(err)
	}
	w, err := world.New(cfg.Gameplay, tc, world.Assets{Player: player, Chaser: chaser, Coord: math.Identity()}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestPlayingClearLanes(t *testing.T) {
	w := newWorld(t, terrain.LaneNone)
	m := NewManager()
	events := &countEvents{}
	m.Change(NewPlayingState(w, &input.Scripted{}, m, events))

	for i := 0; i < 300; i++ {
		if err := m.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if m.Current().Name() != "playing" {
		t.Errorf("state = %s, want playing", m.Current().Name())
	}
	if w.Collisions != 0 || len(events.hits) != 0 {
		t.Errorf("collisions = %d, hits = %v", w.Collisions, events.hits)
	}
	if w.Player.Position.Z > -40 {
		t.Errorf("player did not advance: z = %v", w.Player.Position.Z)
	}
}

func TestRunEndsInGrab(t *testing.T) {
	w := newWorld(t, terrain.LaneLeft)
	m := NewManager()
	events := &countEvents{}
	m.Change(NewPlayingState(w, &input.Scripted{}, m, events))

	recovered := false
	var grab *GrabState
	for i := 0; i < 60*30 && grab == nil; i++ {
		if err := m.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
		if len(events.hits) == 1 && events.gameOver == 0 && w.Player.State() == world.ClipRunForward {
			recovered = true
		}
		grab, _ = m.Current().(*GrabState)
	}
	if grab == nil {
		t.Fatalf("run did not reach grab, state = %s", m.Current().Name())
	}

	if len(events.hits) != 1 || events.hits[0] != 1 {
		t.Errorf("hit events = %v, want [1]", events.hits)
	}
	if events.gameOver != 1 || events.grabbed != 1 {
		t.Errorf("gameOver = %d, grabbed = %d", events.gameOver, events.grabbed)
	}
	if !recovered {
		t.Error("player never returned to the run clip after the first hit")
	}
	if w.Collisions != 2 {
		t.Errorf("collisions = %d, want 2", w.Collisions)
	}
	if w.Player.Speed != 0 || w.Chaser.Speed != 0 {
		t.Errorf("speeds = %v / %v, want 0", w.Player.Speed, w.Chaser.Speed)
	}
	if w.Player.State() != world.ClipDeath || w.Chaser.State() != world.ClipGrab {
		t.Errorf("states = %q / %q", w.Player.State(), w.Chaser.State())
	}
	if d := w.Chaser.DistanceXZ(w.ChaseTarget()); d > 0.1 {
		t.Errorf("chaser %v from its mark", d)
	}

	var path []string
	for _, tr := range m.History() {
		path = append(path, tr.To)
	}
	if got := strings.Join(path, ","); got != "playing,chase,grab" {
		t.Errorf("state path = %s", got)
	}

	stopped := w.Player.Position
	for i := 0; i < 600 && !grab.Finished(); i++ {
		if err := m.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if !grab.Finished() {
		t.Error("grab clip never finished")
	}
	if w.Player.Position != stopped {
		t.Error("player moved after the run ended")
	}
}
