package input

// Action is a named control.
type Action int

const (
	MoveForward Action = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveDown
	MoveUp
	LookUp
	LookDown
	LookLeft
	LookRight
	ToggleMouseLook
	NextScene
	Screenshot
	Quit

	// Car controls, bound by the keyboard-only client.
	SpeedUp
	SpeedDown
	SteerLeft
	SteerRight
	ToggleHeadlight
	ToggleLeftBlinker
	ToggleRightBlinker
	ToggleBrake
	ToggleAutopilot
)

// Bindings maps actions to keys.
type Bindings map[Action]Key

// DesktopBindings are the camera and scene keys of the ImGui client. Car
// controls live in the parameter panel there.
func DesktopBindings() Bindings {
	return Bindings{
		MoveForward:     KeyW,
		MoveBack:        KeyS,
		MoveLeft:        KeyA,
		MoveRight:       KeyD,
		MoveDown:        KeyQ,
		MoveUp:          KeyE,
		LookUp:          KeyUp,
		LookDown:        KeyDown,
		LookLeft:        KeyLeft,
		LookRight:       KeyRight,
		ToggleMouseLook: KeySpace,
		NextScene:       KeyT,
		Screenshot:      KeyF12,
		Quit:            KeyEscape,
	}
}

// LiteBindings drive the car from the keyboard; the arrows steer and
// accelerate instead of turning the camera.
func LiteBindings() Bindings {
	b := DesktopBindings()
	delete(b, LookUp)
	delete(b, LookDown)
	delete(b, LookLeft)
	delete(b, LookRight)
	b[SpeedUp] = KeyUp
	b[SpeedDown] = KeyDown
	b[SteerLeft] = KeyLeft
	b[SteerRight] = KeyRight
	b[ToggleHeadlight] = KeyH
	b[ToggleLeftBlinker] = KeyZ
	b[ToggleRightBlinker] = KeyX
	b[ToggleBrake] = KeyB
	b[ToggleAutopilot] = KeyP
	return b
}

// Controls answers action queries against a key state.
type Controls struct {
	Keys     *Keys
	Bindings Bindings
}

// NewControls creates controls over keys with the given bindings.
func NewControls(keys *Keys, bindings Bindings) *Controls {
	return &Controls{Keys: keys, Bindings: bindings}
}

// Down reports whether the action's key is held. Unbound actions are never down.
func (c *Controls) Down(a Action) bool {
	key, ok := c.Bindings[a]
	return ok && c.Keys.Down(key)
}

// Pressed reports whether the action's key went down this frame.
func (c *Controls) Pressed(a Action) bool {
	key, ok := c.Bindings[a]
	return ok && c.Keys.Pressed(key)
}

// Axis returns +1 when only pos is held, -1 when only neg is held, else 0.
func (c *Controls) Axis(pos, neg Action) float32 {
	var v float32
	if c.Down(pos) {
		v++
	}
	if c.Down(neg) {
		v--
	}
	return v
}
