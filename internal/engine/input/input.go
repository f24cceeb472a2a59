// Package input tracks keyboard state and maps keys to actions. The SDL
// event pump here serves the keyboard-only client; the ImGui client polls
// key state through the ui package.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventFocusLost
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Input pumps SDL events into a Keys state.
type Input struct {
	Keys   Keys
	events []Event

	// Relative mouse motion accumulated during the last Update.
	MouseDX, MouseDY float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update latches last frame's keys, then polls SDL events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.MouseDX, i.MouseDY = 0, 0
	i.Keys.EndFrame()

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.Keys.Reset()
				i.events = append(i.events, Event{Type: EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key := KeyFromScancode(e.Keysym.Scancode)
			if key == KeyUnknown {
				continue
			}
			down := e.Type == sdl.KEYDOWN
			i.Keys.Set(key, down)
			typ := EventKeyUp
			if down {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{Type: typ, Key: key})

		case *sdl.MouseMotionEvent:
			i.MouseDX += float32(e.XRel)
			i.MouseDY += float32(e.YRel)
		}
	}

	return quit
}

// MouseDelta returns the relative mouse motion of the last Update.
func (i *Input) MouseDelta() (float32, float32) {
	return i.MouseDX, i.MouseDY
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

var scancodes = map[sdl.Scancode]Key{
	sdl.SCANCODE_W:      KeyW,
	sdl.SCANCODE_A:      KeyA,
	sdl.SCANCODE_S:      KeyS,
	sdl.SCANCODE_D:      KeyD,
	sdl.SCANCODE_Q:      KeyQ,
	sdl.SCANCODE_E:      KeyE,
	sdl.SCANCODE_UP:     KeyUp,
	sdl.SCANCODE_DOWN:   KeyDown,
	sdl.SCANCODE_LEFT:   KeyLeft,
	sdl.SCANCODE_RIGHT:  KeyRight,
	sdl.SCANCODE_SPACE:  KeySpace,
	sdl.SCANCODE_T:      KeyT,
	sdl.SCANCODE_H:      KeyH,
	sdl.SCANCODE_Z:      KeyZ,
	sdl.SCANCODE_X:      KeyX,
	sdl.SCANCODE_B:      KeyB,
	sdl.SCANCODE_P:      KeyP,
	sdl.SCANCODE_F12:    KeyF12,
	sdl.SCANCODE_ESCAPE: KeyEscape,
}

// KeyFromScancode maps an SDL scancode to a Key.
func KeyFromScancode(sc sdl.Scancode) Key {
	if k, ok := scancodes[sc]; ok {
		return k
	}
	return KeyUnknown
}
