// Package states implements the scenes of the demo and switching between them.
package states

import (
	"fmt"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/engine/audio"
	"github.com/Faultbox/roadloop/internal/engine/camera"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/scene"
)

// State represents a scene (intro polygon, road loop).
type State interface {
	// Name is shown in the scene selector.
	Name() string

	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render is called every frame to draw the state.
	Render() error
}

// Pointer reports relative mouse motion for the current frame.
type Pointer interface {
	MouseDelta() (dx, dy float32)
}

// PointerFunc adapts a function to Pointer.
type PointerFunc func() (float32, float32)

// MouseDelta calls f.
func (f PointerFunc) MouseDelta() (float32, float32) {
	return f()
}

// Context holds what the states share. Scene and Assets may be nil in
// tests that never enter or render a state.
type Context struct {
	Scene    *scene.Scene
	Assets   *assets.Manager
	Camera   *camera.FlyCamera
	Controls *input.Controls
	Pointer  Pointer
	Audio    *audio.Manager

	// MouseLook is called when mouse look is toggled.
	MouseLook func(enabled bool)
}

// Manager manages scene transitions.
type Manager struct {
	current State
	next    State

	scenes []State
	index  int
}

// NewManager creates a new state manager cycling through scenes. The first
// scene becomes active on the first Update.
func NewManager(scenes ...State) *Manager {
	m := &Manager{scenes: scenes}
	if len(scenes) > 0 {
		m.next = scenes[0]
	}
	return m
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change.
func (m *Manager) Change(next State) {
	m.next = next
}

// Scenes returns the registered scenes in selector order.
func (m *Manager) Scenes() []State {
	return m.scenes
}

// Names returns the scene names in selector order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.scenes))
	for i, s := range m.scenes {
		names[i] = s.Name()
	}
	return names
}

// Index returns the selected scene.
func (m *Manager) Index() int {
	return m.index
}

// Select schedules the scene at index i.
func (m *Manager) Select(i int) error {
	if i < 0 || i >= len(m.scenes) {
		return fmt.Errorf("scene index %d out of range [0, %d)", i, len(m.scenes))
	}
	if i == m.index && m.current == m.scenes[i] {
		return nil
	}
	m.index = i
	m.Change(m.scenes[i])
	return nil
}

// Next schedules the following scene, wrapping to the first.
func (m *Manager) Next() {
	if len(m.scenes) == 0 {
		return
	}
	_ = m.Select((m.index + 1) % len(m.scenes))
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	// Handle state transition
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return fmt.Errorf("entering %s: %w", m.current.Name(), err)
		}
	}

	// Update current state
	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// Close exits the current state.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
