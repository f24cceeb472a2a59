// Package ui draws the ImGui windows of the desktop client: the scene
// parameter panel and the stats overlay.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/roadloop/internal/engine/shape"
	"github.com/Faultbox/roadloop/internal/game/states"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Panel is the "Scene Parameters" window. Its setters enforce the limits
// the car itself does not.
type Panel struct {
	States *states.Manager
	Intro  *states.IntroState
	Road   *states.RoadState

	Overlay *Overlay

	// Save persists the session settings. Nil hides the button.
	Save       func() error
	saveStatus string
}

// NewPanel creates a panel over the two scenes.
func NewPanel(m *states.Manager, intro *states.IntroState, road *states.RoadState) *Panel {
	return &Panel{
		States:  m,
		Intro:   intro,
		Road:    road,
		Overlay: NewOverlay(),
	}
}

// SelectScene switches to the scene at index i.
func (p *Panel) SelectScene(i int) error {
	return p.States.Select(i)
}

// SetSides sets the polygon side count, clamped to the supported range.
func (p *Panel) SetSides(n int) {
	p.Intro.Sides = shape.ClampSides(n)
}

// SetSpeed sets the car speed in m/s, clamped to ±MaxSpeed.
func (p *Panel) SetSpeed(v float32) {
	p.Road.Car.Speed = max(-states.MaxSpeed, min(v, states.MaxSpeed))
}

// SetSteering sets the steering angle in degrees, clamped to the
// mechanical range.
func (p *Panel) SetSteering(deg float32) {
	p.Road.Car.SteeringAngle = states.ClampSteering(deg)
}

// ResetSteering centers the wheels.
func (p *Panel) ResetSteering() {
	p.Road.Car.SteeringAngle = 0
}

// SaveSettings runs Save and keeps a one-line result for the panel.
func (p *Panel) SaveSettings() error {
	if p.Save == nil {
		return nil
	}
	err := p.Save()
	if err != nil {
		p.saveStatus = "Save failed: " + err.Error()
	} else {
		p.saveStatus = "Settings saved"
	}
	return err
}

// SaveStatus returns the result of the last save.
func (p *Panel) SaveStatus() string { return p.saveStatus }

// Render draws the panel and, when enabled, the overlay.
func (p *Panel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	if imgui.BeginV("Scene Parameters", nil, imgui.WindowFlagsAlwaysAutoResize) {
		p.renderSceneSelector()
		imgui.Separator()

		switch p.States.Current() {
		case states.State(p.Intro):
			p.renderIntro()
		case states.State(p.Road):
			p.renderRoad()
		}

		imgui.Separator()
		imgui.Checkbox("Show stats", &p.Overlay.Enabled)
		if p.Save != nil {
			if imgui.Button("Save settings") {
				_ = p.SaveSettings()
			}
			if p.saveStatus != "" {
				imgui.SameLine()
				imgui.TextDisabled(p.saveStatus)
			}
		}
	}
	imgui.End()

	p.Overlay.Render()
}

func (p *Panel) renderSceneSelector() {
	names := p.States.Names()
	if len(names) == 0 {
		return
	}
	current := p.States.Index()

	if imgui.BeginCombo("Scene", names[current]) {
		for i, name := range names {
			selected := i == current
			if imgui.SelectableBoolV(name, selected, 0, imgui.NewVec2(0, 0)) && !selected {
				_ = p.SelectScene(i)
			}
			if selected {
				imgui.SetItemDefaultFocus()
			}
		}
		imgui.EndCombo()
	}
}

func (p *Panel) renderIntro() {
	sides := int32(p.Intro.Sides)
	if imgui.SliderIntV("Sides", &sides, shape.MinSides, shape.MaxSides, "%d", imgui.SliderFlagsNone) {
		p.SetSides(int(sides))
	}
}

func (p *Panel) renderRoad() {
	car := p.Road.Car

	speed := car.Speed
	if imgui.SliderFloatV("Speed", &speed, -states.MaxSpeed, states.MaxSpeed, "%.2f m/s", imgui.SliderFlagsNone) {
		p.SetSpeed(speed)
	}

	steering := car.SteeringAngle
	if imgui.SliderFloatV("Steering", &steering, -30, 30, "%.1f deg", imgui.SliderFlagsNone) {
		p.SetSteering(steering)
	}
	if imgui.Button("Reset steering") {
		p.ResetSteering()
	}

	imgui.Spacing()
	imgui.Checkbox("Headlight", &car.Headlight)
	imgui.Checkbox("Left Blinker", &car.LeftBlinker)
	imgui.SameLine()
	imgui.Checkbox("Right Blinker", &car.RightBlinker)
	imgui.Checkbox("Brake", &car.Braking)
	imgui.Checkbox("Auto drive", &p.Road.Autopilot)

	if imgui.Button("Reset car") {
		p.Road.Reset()
	}

	imgui.Spacing()
	if p.Road.MouseLook {
		imgui.TextDisabled("Mouse look on (Space to release)")
	} else {
		imgui.TextDisabled("WASD/QE move, arrows look, Space mouse look")
	}
	imgui.TextDisabled(fmt.Sprintf("Heading %.1f deg", math.Degrees(car.Heading)))
}
