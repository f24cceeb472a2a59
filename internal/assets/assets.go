// Package assets resolves model names against a models directory and caches
// the loaded meshes.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/engine/model"
	"github.com/Faultbox/roadloop/internal/logger"
)

// Model names used by the road scene.
const (
	Frame        = "frame"
	Wheel        = "wheel"
	Blinker      = "blinker"
	Light        = "light"
	Pine         = "pine"
	Streetlight  = "streetlight"
	Grass        = "grass"
	Street       = "street"
	StreetCorner = "streetcorner"
)

// SceneModels lists every model the road scene needs.
var SceneModels = []string{Frame, Wheel, Blinker, Light, Pine, Streetlight, Grass, Street, StreetCorner}

// Manager loads meshes from a models directory.
type Manager struct {
	dir   string
	cache *Cache
	log   *zap.Logger
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
}

// Dir returns the models directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the file path for a model name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name+".ply")
}

// Mesh returns the mesh for name, loading it on first use.
func (m *Manager) Mesh(name string) (*model.Mesh, error) {
	if mesh, ok := m.cache.Get(name); ok {
		return mesh, nil
	}

	path := m.Path(name)
	mesh, err := model.Load(path)
	if err != nil {
		m.log.Error("mesh load failed", zap.String("model", name), zap.Error(err))
		return nil, err
	}

	m.log.Debug("mesh loaded",
		zap.String("model", name),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()))
	m.cache.Set(name, mesh)
	return mesh, nil
}

// LoadAll loads every named mesh and stops at the first failure.
func (m *Manager) LoadAll(names []string) (map[string]*model.Mesh, error) {
	out := make(map[string]*model.Mesh, len(names))
	for _, name := range names {
		mesh, err := m.Mesh(name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		out[name] = mesh
	}
	return out, nil
}

// Available lists the model names present in the models directory.
func (m *Manager) Available() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".ply" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".ply")])
	}
	sort.Strings(names)
	return names, nil
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Clear drops every cached mesh.
func (m *Manager) Clear() {
	m.cache.Clear()
}

// Cache is a simple in-memory mesh cache.
type Cache struct {
	data map[string]*model.Mesh
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*model.Mesh),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*model.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mesh, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return mesh, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, mesh *model.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = mesh
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*model.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
