package terrain

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// RecycleDistance is how many tile lengths the player must be past the
// trailing tile before it is moved to the front.
const RecycleDistance = 1.5

// Config controls the tile ring.
type Config struct {
	NumTiles    int
	TileLength  float32
	TilesBehind int
	// Direction is the sign of travel along Z: -1 runs toward -Z.
	Direction float32
	Seed      uint64
	Grass     GrassLayout
	// Levels is the tile list to cycle through; empty means random tiles.
	Levels []TileConfig
	// ObstacleCoord is the coordinate correction for obstacle skinning.
	ObstacleCoord math.Mat4
}

// DefaultConfig returns ten 35-unit tiles, two behind the player,
// travelling toward -Z.
func DefaultConfig() Config {
	return Config{
		NumTiles:      10,
		TileLength:    35,
		TilesBehind:   2,
		Direction:     -1,
		Grass:         DefaultGrassLayout(),
		ObstacleCoord: math.Identity(),
	}
}

// Validate checks the ring settings and grass layout.
func (c Config) Validate() error {
	if c.NumTiles <= 0 {
		return fmt.Errorf("%w: num tiles must be positive, got %d", ErrInvalidConfig, c.NumTiles)
	}
	if c.TileLength <= 0 {
		return fmt.Errorf("%w: tile length must be positive, got %v", ErrInvalidConfig, c.TileLength)
	}
	if c.TilesBehind < 0 || c.TilesBehind >= c.NumTiles {
		return fmt.Errorf("%w: tiles behind %d out of range", ErrInvalidConfig, c.TilesBehind)
	}
	if c.Direction != 1 && c.Direction != -1 {
		return fmt.Errorf("%w: direction must be 1 or -1, got %v", ErrInvalidConfig, c.Direction)
	}
	return c.Grass.Validate()
}

// Manager keeps NumTiles tiles around the player, ordered along the
// direction of travel: index 0 is furthest behind.
type Manager struct {
	cfg          Config
	device       Device
	obstacleAnim *animation.Animation
	rng          *rand.Rand
	seq          *Sequencer
	tiles        []*Tile
	recycled     int
	log          *zap.Logger
}

// NewManager creates a manager. device and obstacleAnim may be nil.
func NewManager(cfg Config, device Device, obstacleAnim *animation.Animation) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	return &Manager{
		cfg:          cfg,
		device:       device,
		obstacleAnim: obstacleAnim,
		rng:          rng,
		seq:          NewSequencer(cfg.Levels, rng),
		log:          logger.Named("terrain"),
	}, nil
}

// Init lays out the tiles around the player's start position.
func (m *Manager) Init(start math.Vec3) error {
	m.Release()
	m.tiles = make([]*Tile, 0, m.cfg.NumTiles)

	for i := 0; i < m.cfg.NumTiles; i++ {
		t := NewTile(m.cfg.TileLength, m.cfg.Grass, m.device)
		t.Position = math.Vec3{
			X: start.X,
			Y: start.Y,
			Z: start.Z + m.cfg.Direction*float32(i-m.cfg.TilesBehind)*m.cfg.TileLength,
		}
		if err := t.Generate(m.rng, m.seq.Next(), m.obstacleAnim, m.cfg.ObstacleCoord); err != nil {
			return fmt.Errorf("generate tile %d: %w", i, err)
		}
		m.tiles = append(m.tiles, t)
	}

	m.log.Info("terrain initialized",
		zap.Int("tiles", m.cfg.NumTiles),
		zap.Float32("tile_length", m.cfg.TileLength),
		zap.Bool("random_levels", m.seq.Random()))
	return nil
}

// Progress returns how far along the direction of travel z lies.
func (m *Manager) Progress(z float32) float32 {
	return z * m.cfg.Direction
}

// Update advances obstacle animations, then recycles trailing tiles the
// player has left more than RecycleDistance tile lengths behind.
func (m *Manager) Update(player math.Vec3, dt float32) error {
	for _, t := range m.tiles {
		t.Update(dt)
	}
	if len(m.tiles) == 0 {
		return nil
	}

	limit := m.cfg.TileLength * RecycleDistance
	for m.Progress(player.Z)-m.Progress(m.tiles[0].Position.Z) > limit {
		if err := m.recycle(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) recycle() error {
	t := m.tiles[0]
	lead := m.tiles[len(m.tiles)-1]
	from := t.Position.Z

	copy(m.tiles, m.tiles[1:])
	m.tiles[len(m.tiles)-1] = t

	t.Position = math.Vec3{
		X: lead.Position.X,
		Y: lead.Position.Y,
		Z: lead.Position.Z + m.cfg.Direction*m.cfg.TileLength,
	}
	if err := t.Generate(m.rng, m.seq.Next(), m.obstacleAnim, m.cfg.ObstacleCoord); err != nil {
		return fmt.Errorf("regenerate tile: %w", err)
	}
	m.recycled++

	m.log.Debug("tile recycled",
		zap.Float32("from_z", from),
		zap.Float32("to_z", t.Position.Z),
		zap.String("lane", t.Config.Lane.String()),
		zap.Int("decorations", t.Config.Decorations))
	return nil
}

// CheckCollisions sums new hits across all tiles.
func (m *Manager) CheckCollisions(player math.Vec3, radius float32) int {
	hits := 0
	for _, t := range m.tiles {
		hits += t.CheckCollisions(player, radius)
	}
	return hits
}

// Tiles returns the tiles in travel order.
func (m *Manager) Tiles() []*Tile {
	return m.tiles
}

// Recycled returns how many tiles have been moved to the front.
func (m *Manager) Recycled() int {
	return m.recycled
}

// Sequencer returns the tile config source.
func (m *Manager) Sequencer() *Sequencer {
	return m.seq
}

// Config returns the manager's settings.
func (m *Manager) Config() Config {
	return m.cfg
}

// Release frees every tile's GPU buffers. The device is flushed first so
// no outstanding draw references them.
func (m *Manager) Release() {
	if len(m.tiles) == 0 {
		return
	}
	if m.device != nil {
		if err := m.device.Flush(); err != nil {
			m.log.Warn("flush before terrain release failed", zap.Error(err))
		}
	}
	for _, t := range m.tiles {
		t.Release()
	}
	m.tiles = nil
}
