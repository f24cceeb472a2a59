package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/roadloop/internal/engine/camera"
	"github.com/Faultbox/roadloop/internal/engine/shape"
	"github.com/Faultbox/roadloop/internal/game/states"
	"github.com/Faultbox/roadloop/pkg/math"
)

func newTestPanel() *Panel {
	ctx := &states.Context{Camera: camera.NewFlyCamera()}
	intro := states.NewIntroState(ctx)
	road := states.NewRoadState(ctx, states.DefaultRoadStateConfig())
	return NewPanel(states.NewManager(intro, road), intro, road)
}

func TestPanel_SetSpeed(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{5.5, 5.5},
		{-10, -10},
		{12, 10},
		{-25, -10},
	}

	p := newTestPanel()
	for _, tt := range tests {
		p.SetSpeed(tt.in)
		if got := p.Road.Car.Speed; got != tt.want {
			t.Errorf("SetSpeed(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestPanel_Steering(t *testing.T) {
	p := newTestPanel()

	p.SetSteering(45)
	if p.Road.Car.SteeringAngle != 30 {
		t.Errorf("steering = %f, want clamp at 30", p.Road.Car.SteeringAngle)
	}
	p.SetSteering(-12.5)
	if p.Road.Car.SteeringAngle != -12.5 {
		t.Errorf("steering = %f, want -12.5", p.Road.Car.SteeringAngle)
	}

	p.ResetSteering()
	if p.Road.Car.SteeringAngle != 0 {
		t.Errorf("steering = %f after reset", p.Road.Car.SteeringAngle)
	}
}

func TestPanel_SetSides(t *testing.T) {
	p := newTestPanel()

	for _, tt := range []struct{ in, want int }{
		{7, 7}, {1, shape.MinSides}, {40, shape.MaxSides},
	} {
		p.SetSides(tt.in)
		if p.Intro.Sides != tt.want {
			t.Errorf("SetSides(%d) = %d, want %d", tt.in, p.Intro.Sides, tt.want)
		}
	}
}

func TestPanel_SelectScene(t *testing.T) {
	p := newTestPanel()

	if err := p.SelectScene(1); err != nil {
		t.Fatal(err)
	}
	if p.States.Index() != 1 {
		t.Errorf("index = %d, want 1", p.States.Index())
	}
	if err := p.SelectScene(2); err == nil {
		t.Error("expected error for index 2")
	}
}

func TestPanel_SaveSettings(t *testing.T) {
	p := newTestPanel()
	if err := p.SaveSettings(); err != nil || p.SaveStatus() != "" {
		t.Errorf("no Save hook: err = %v status = %q", err, p.SaveStatus())
	}

	calls := 0
	p.Save = func() error { calls++; return nil }
	if err := p.SaveSettings(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || p.SaveStatus() != "Settings saved" {
		t.Errorf("calls = %d status = %q", calls, p.SaveStatus())
	}

	p.Save = func() error { return errors.New("disk full") }
	if err := p.SaveSettings(); err == nil {
		t.Fatal("expected save error")
	}
	if !strings.Contains(p.SaveStatus(), "disk full") {
		t.Errorf("status = %q", p.SaveStatus())
	}
}

func TestOverlay_FPS(t *testing.T) {
	o := NewOverlay()
	if o.Enabled {
		t.Error("overlay should start hidden")
	}

	// 30 frames of 20 ms is 0.6 s, enough for one sample at 50 FPS.
	for i := 0; i < 30; i++ {
		o.Update(20)
	}
	if fps := o.FPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("fps = %f, want 50", fps)
	}
}

func TestOverlay_Observe(t *testing.T) {
	p := newTestPanel()
	p.Road.Car.Speed = 3
	p.Road.Follower.Distance = 12

	p.Overlay.Observe(p.Road)

	o := p.Overlay
	if o.CarPosition != (math.Vec3{Z: 15}) || o.CarSpeed != 3 || o.Distance != 12 || !o.Autopilot {
		t.Errorf("observed %+v", o)
	}
	if o.CarHeading < 179.9 || o.CarHeading > 180.1 {
		t.Errorf("heading = %f, want 180", o.CarHeading)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
