// Package assets resolves and caches game files: animation rigs and sounds.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/logger"
)

// ErrNotFound is returned when no root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager looks files up across asset roots and caches what it parses.
// Animations are shared: every caller loading the same path gets the
// same handle.
type Manager struct {
	roots []string
	mu    sync.RWMutex

	files *Cache[[]byte]
	anims *Cache[*animation.Animation]
}

// NewManager creates an asset manager with the given search roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{
		files: NewCache[[]byte](),
		anims: NewCache[*animation.Animation](),
	}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a directory to search. Roots are searched in reverse
// order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Resolve returns the on-disk path for name. Absolute names are used
// as they are.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return name, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		p := filepath.Join(m.roots[i], name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if len(m.roots) == 0 {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load reads a file, serving repeats from the cache.
func (m *Manager) Load(name string) ([]byte, error) {
	if data, ok := m.files.Get(name); ok {
		return data, nil
	}

	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	m.files.Set(name, data)
	return data, nil
}

// Animation returns the shared animation stored at name. An empty name
// builds the procedural rig with demoClips instead, cached per clip set.
func (m *Manager) Animation(name string, demoClips ...string) (*animation.Animation, error) {
	key := name
	if key == "" {
		key = fmt.Sprintf("demo:%q", demoClips)
	}
	if anim, ok := m.anims.Get(key); ok {
		return anim, nil
	}

	var (
		anim *animation.Animation
		err  error
	)
	if name == "" {
		anim, err = animation.DemoRig(demoClips...)
	} else {
		var path string
		if path, err = m.Resolve(name); err == nil {
			anim, err = animation.LoadFile(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", key, err)
	}

	m.anims.Set(key, anim)
	logger.Debug("animation loaded",
		zap.String("asset", key),
		zap.Int("bones", anim.BoneCount()),
		zap.Strings("clips", anim.ClipNames()))
	return anim, nil
}

// Stats returns combined cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	fh, fm := m.files.Stats()
	ah, am := m.anims.Stats()
	return fh + ah, fm + am
}

// Close drops everything cached.
func (m *Manager) Close() {
	m.files.Clear()
	m.anims.Clear()
}

// Cache is a concurrency-safe map with hit counters.
type Cache[V any] struct {
	data map[string]V
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{data: make(map[string]V)}
}

// Get retrieves an item from cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Len returns the number of cached items.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear empties the cache and resets its counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]V)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
