package terrain

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
)

// TileConfig is the content of one generated tile.
type TileConfig struct {
	Lane        Lane
	Decorations int
}

// ParseLevelConfig reads one tile per line: "<NONE|LEFT|RIGHT> <decorations>".
// Blank lines and lines starting with '#' are skipped. Unknown lane tokens
// mean no obstacle; a missing or malformed count means no decorations.
func ParseLevelConfig(r io.Reader) ([]TileConfig, error) {
	var configs []TileConfig

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		cfg := TileConfig{Lane: ParseLane(fields[0])}
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				cfg.Decorations = n
			}
		}
		configs = append(configs, cfg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read level config: %w", err)
	}

	return configs, nil
}

// LoadLevelConfig parses a level file from disk.
func LoadLevelConfig(path string) ([]TileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level config: %w", err)
	}
	defer f.Close()

	return ParseLevelConfig(f)
}

// Sequencer hands out tile configs, cycling through a level list. With an
// empty list it draws random tiles instead.
type Sequencer struct {
	configs []TileConfig
	next    int
	rng     *rand.Rand
}

// NewSequencer creates a sequencer over configs.
func NewSequencer(configs []TileConfig, rng *rand.Rand) *Sequencer {
	return &Sequencer{configs: configs, rng: rng}
}

// Random reports whether tiles are drawn at random.
func (s *Sequencer) Random() bool {
	return len(s.configs) == 0
}

// Index returns the level list position the next call to Next will use.
func (s *Sequencer) Index() int {
	return s.next
}

// Next returns the config for the next generated tile.
func (s *Sequencer) Next() TileConfig {
	if len(s.configs) == 0 {
		return s.random()
	}
	cfg := s.configs[s.next]
	s.next = (s.next + 1) % len(s.configs)
	return cfg
}

// random gives an obstacle half the time, on either side with equal odds,
// and one or two decorations about 70% of the time.
func (s *Sequencer) random() TileConfig {
	var cfg TileConfig
	if s.rng.IntN(2) == 0 {
		cfg.Lane = LaneLeft + Lane(s.rng.IntN(2))
	}
	if s.rng.IntN(100) > 30 {
		cfg.Decorations = s.rng.IntN(2) + 1
	}
	return cfg
}
