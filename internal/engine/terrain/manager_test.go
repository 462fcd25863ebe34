package terrain

import (
	"errors"
	"testing"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/pkg/math"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.Grass = smallLayout()
	return cfg
}

func newTestManager(t *testing.T, cfg Config, dev Device) *Manager {
	t.Helper()
	m, err := NewManager(cfg, dev, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Init(math.Vec3{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m
}

// checkRing asserts the tile count and spacing invariants.
func checkRing(t *testing.T, m *Manager) {
	t.Helper()
	cfg := m.Config()
	tiles := m.Tiles()
	if len(tiles) != cfg.NumTiles {
		t.Fatalf("%d tiles, want %d", len(tiles), cfg.NumTiles)
	}
	for i := 1; i < len(tiles); i++ {
		gap := m.Progress(tiles[i].Position.Z) - m.Progress(tiles[i-1].Position.Z)
		if gap != cfg.TileLength {
			t.Fatalf("gap between tiles %d and %d = %v, want %v", i-1, i, gap, cfg.TileLength)
		}
	}
}

func TestManagerInitLayout(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)
	checkRing(t, m)

	tiles := m.Tiles()
	if tiles[2].Position.Z != 0 {
		t.Errorf("tile 2 z = %v, want player start 0", tiles[2].Position.Z)
	}
	if tiles[0].Position.Z != 70 {
		t.Errorf("tile 0 z = %v, want 70 behind a -Z runner", tiles[0].Position.Z)
	}
}

func TestManagerRecyclingKeepsRing(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)

	player := math.Vec3{}
	const dt = float32(1.0 / 60)
	for frame := 0; frame < 60*60; frame++ {
		player.Z -= 20 * dt
		if err := m.Update(player, dt); err != nil {
			t.Fatalf("Update: %v", err)
		}
		checkRing(t, m)

		tiles := m.Tiles()
		back := m.Progress(tiles[0].Position.Z)
		front := m.Progress(tiles[len(tiles)-1].Position.Z)
		p := m.Progress(player.Z)
		if p < back || p > front {
			t.Fatalf("frame %d: player progress %v outside tiles [%v, %v]", frame, p, back, front)
		}
		if p-back > m.Config().TileLength*RecycleDistance {
			t.Fatalf("frame %d: trailing tile left %v behind", frame, p-back)
		}
	}
	if m.Recycled() == 0 {
		t.Error("no tiles recycled")
	}
}

func TestManagerRecyclesAfterLongJump(t *testing.T) {
	m := newTestManager(t, testConfig(), nil)

	player := math.Vec3{Z: -3000}
	if err := m.Update(player, 0.016); err != nil {
		t.Fatalf("Update: %v", err)
	}
	checkRing(t, m)

	back := m.Progress(m.Tiles()[0].Position.Z)
	if m.Progress(player.Z)-back > 35*RecycleDistance {
		t.Errorf("trailing tile still %v behind after one update", m.Progress(player.Z)-back)
	}
}

func TestManagerPositiveDirection(t *testing.T) {
	cfg := testConfig()
	cfg.Direction = 1
	m := newTestManager(t, cfg, nil)

	if z := m.Tiles()[0].Position.Z; z != -70 {
		t.Errorf("tile 0 z = %v, want -70", z)
	}
	if err := m.Update(math.Vec3{Z: 500}, 0.016); err != nil {
		t.Fatalf("Update: %v", err)
	}
	checkRing(t, m)
}

func TestManagerCyclesLevelConfigs(t *testing.T) {
	cfg := testConfig()
	cfg.Levels = []TileConfig{{LaneLeft, 2}, {LaneNone, 0}}
	m := newTestManager(t, cfg, nil)

	for i, tile := range m.Tiles() {
		want := cfg.Levels[i%2]
		if tile.Config != want {
			t.Errorf("tile %d config = %+v, want %+v", i, tile.Config, want)
		}
		if got := len(tile.Obstacles); (want.Lane == LaneNone) != (got == 0) {
			t.Errorf("tile %d has %d obstacles for lane %v", i, got, want.Lane)
		}
		if len(tile.Decorations) != want.Decorations {
			t.Errorf("tile %d has %d decorations, want %d", i, len(tile.Decorations), want.Decorations)
		}
	}

	// Ten tiles consumed, so the next recycled tile starts the list again.
	if err := m.Update(math.Vec3{}, 0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	tiles := m.Tiles()
	if got := tiles[len(tiles)-1].Config; got != cfg.Levels[0] {
		t.Errorf("recycled tile config = %+v, want %+v", got, cfg.Levels[0])
	}
}

func TestManagerCollisions(t *testing.T) {
	cfg := testConfig()
	cfg.Levels = []TileConfig{{LaneLeft, 0}}
	m := newTestManager(t, cfg, nil)

	target := m.Tiles()[3].Obstacles[0].Position
	player := math.Vec3{X: target.X - 1, Z: target.Z}

	if hits := m.CheckCollisions(player, 1); hits != 1 {
		t.Fatalf("first check = %d hits, want 1", hits)
	}
	if hits := m.CheckCollisions(player, 1); hits != 0 {
		t.Errorf("second check = %d hits, want 0", hits)
	}
}

func TestManagerObstacleAnimation(t *testing.T) {
	anim, err := animation.DemoRig(ObstacleIdleClip)
	if err != nil {
		t.Fatalf("DemoRig: %v", err)
	}
	cfg := testConfig()
	cfg.Levels = []TileConfig{{LaneRight, 0}}

	m, err := NewManager(cfg, nil, anim)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Init(math.Vec3{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, tile := range m.Tiles() {
		if tile.Obstacles[0].StateMachine() == nil {
			t.Fatal("obstacle without animation")
		}
	}
}

func TestManagerReleaseFlushesFirst(t *testing.T) {
	dev := &fakeDevice{}
	m := newTestManager(t, testConfig(), dev)
	if dev.live != 10 {
		t.Fatalf("live buffers = %d, want one per tile", dev.live)
	}

	dev.events = nil
	m.Release()
	if dev.live != 0 {
		t.Errorf("live buffers after release = %d", dev.live)
	}
	if len(dev.events) == 0 || dev.events[0] != "flush" {
		t.Errorf("events = %v, want flush first", dev.events)
	}
	if len(m.Tiles()) != 0 {
		t.Errorf("%d tiles after release", len(m.Tiles()))
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"no tiles", func(c *Config) { c.NumTiles = 0 }, ErrInvalidConfig},
		{"zero length", func(c *Config) { c.TileLength = 0 }, ErrInvalidConfig},
		{"all behind", func(c *Config) { c.TilesBehind = c.NumTiles }, ErrInvalidConfig},
		{"sideways", func(c *Config) { c.Direction = 0 }, ErrInvalidConfig},
		{"bad grass", func(c *Config) { c.Grass.Types = 0 }, ErrInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := NewManager(cfg, nil, nil); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
