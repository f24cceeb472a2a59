package input

// Key identifies a keyboard key independently of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyT
	KeyH
	KeyZ
	KeyX
	KeyB
	KeyP
	KeyF12
	KeyEscape
	keyCount
)

// AllKeys lists every tracked key, for backends that poll key state.
func AllKeys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyW; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Keys tracks which keys are held this frame and which were held last frame.
type Keys struct {
	down [keyCount]bool
	prev [keyCount]bool
}

// Set records a key transition from an event-driven backend.
func (k *Keys) Set(key Key, down bool) {
	if key <= KeyUnknown || key >= keyCount {
		return
	}
	k.down[key] = down
}

// Poll refreshes every key from a polling backend.
func (k *Keys) Poll(isDown func(Key) bool) {
	for key := KeyW; key < keyCount; key++ {
		k.down[key] = isDown(key)
	}
}

// Down reports whether key is held.
func (k *Keys) Down(key Key) bool {
	if key <= KeyUnknown || key >= keyCount {
		return false
	}
	return k.down[key]
}

// Pressed reports whether key went down since the last EndFrame.
func (k *Keys) Pressed(key Key) bool {
	return k.Down(key) && !k.prev[key]
}

// EndFrame latches the current state for edge detection.
func (k *Keys) EndFrame() {
	k.prev = k.down
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keys) Reset() {
	k.down = [keyCount]bool{}
	k.prev = [keyCount]bool{}
}
