package states

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/engine/camera"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/model"
	"github.com/Faultbox/roadloop/internal/engine/shape"
	"github.com/Faultbox/roadloop/internal/game/track"
	"github.com/Faultbox/roadloop/pkg/math"
)

type fakeState struct {
	name          string
	enters, exits int
	updates       int
	enterErr      error
}

func (f *fakeState) Name() string            { return f.name }
func (f *fakeState) Enter() error            { f.enters++; return f.enterErr }
func (f *fakeState) Exit() error             { f.exits++; return nil }
func (f *fakeState) Update(dt float64) error { f.updates++; return nil }
func (f *fakeState) Render() error           { return nil }

func TestManager_Cycle(t *testing.T) {
	a, b := &fakeState{name: "a"}, &fakeState{name: "b"}
	m := NewManager(a, b)

	if err := m.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if m.Current() != a || a.enters != 1 || a.updates != 1 {
		t.Fatalf("first update: current=%v a=%+v", m.Current(), a)
	}

	m.Next()
	if err := m.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if m.Current() != b || a.exits != 1 || b.enters != 1 {
		t.Fatalf("after Next: current=%v a=%+v b=%+v", m.Current(), a, b)
	}
	if m.Index() != 1 {
		t.Errorf("index = %d, want 1", m.Index())
	}

	m.Next()
	_ = m.Update(0.016)
	if m.Current() != a || m.Index() != 0 {
		t.Errorf("Next did not wrap: current=%v index=%d", m.Current(), m.Index())
	}
}

func TestManager_Select(t *testing.T) {
	a, b := &fakeState{name: "a"}, &fakeState{name: "b"}
	m := NewManager(a, b)
	_ = m.Update(0)

	if err := m.Select(5); err == nil {
		t.Error("expected out of range error")
	}

	// Selecting the active scene does not re-enter it.
	if err := m.Select(0); err != nil {
		t.Fatal(err)
	}
	_ = m.Update(0)
	if a.enters != 1 {
		t.Errorf("a entered %d times, want 1", a.enters)
	}

	if names := m.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v", names)
	}
}

func TestManager_EnterError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&fakeState{name: "broken", enterErr: boom})
	err := m.Update(0)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestManager_Close(t *testing.T) {
	a := &fakeState{name: "a"}
	m := NewManager(a)
	_ = m.Update(0)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if a.exits != 1 || m.Current() != nil {
		t.Errorf("close: exits=%d current=%v", a.exits, m.Current())
	}
}

func TestIntroState_Sides(t *testing.T) {
	keys := &input.Keys{}
	ctx := &Context{Controls: input.NewControls(keys, input.LiteBindings())}
	s := NewIntroState(ctx)

	if s.Sides != shape.MinSides {
		t.Fatalf("initial sides = %d", s.Sides)
	}

	for i := 0; i < 20; i++ {
		keys.Set(input.KeyUp, true)
		_ = s.Update(0.016)
		keys.EndFrame()
		keys.Set(input.KeyUp, false)
		keys.EndFrame()
	}
	if s.Sides != shape.MaxSides {
		t.Errorf("sides = %d, want clamp at %d", s.Sides, shape.MaxSides)
	}

	s.Sides = 2
	_ = s.Update(0.016)
	if s.Sides != shape.MinSides {
		t.Errorf("sides = %d, want clamp at %d", s.Sides, shape.MinSides)
	}
}

func newRoadContext() (*Context, *input.Keys) {
	keys := &input.Keys{}
	return &Context{
		Camera:   camera.NewFlyCamera(),
		Controls: input.NewControls(keys, input.LiteBindings()),
	}, keys
}

func TestRoadState_Autopilot(t *testing.T) {
	ctx, _ := newRoadContext()
	s := NewRoadState(ctx, DefaultRoadStateConfig())
	s.Car.Speed = 5
	s.Car.SteeringAngle = 30

	if err := s.Update(1); err != nil {
		t.Fatal(err)
	}

	want, heading := track.PositionAt(5)
	if !s.Car.Position.ApproxEqual(want, 1e-4) {
		t.Errorf("position = %+v, want %+v", s.Car.Position, want)
	}
	if s.Car.Heading != heading {
		t.Errorf("heading = %f, want %f (steering must be overridden)", s.Car.Heading, heading)
	}
}

func TestRoadState_ManualDriving(t *testing.T) {
	ctx, _ := newRoadContext()
	cfg := DefaultRoadStateConfig()
	cfg.Autopilot = false
	s := NewRoadState(ctx, cfg)
	s.Car.Speed = 5

	_ = s.Update(1)

	want := math.Vec3{X: 5, Z: 15}
	if !s.Car.Position.ApproxEqual(want, 1e-4) {
		t.Errorf("position = %+v, want %+v", s.Car.Position, want)
	}
}

func TestRoadState_KeyboardLimits(t *testing.T) {
	ctx, keys := newRoadContext()
	s := NewRoadState(ctx, DefaultRoadStateConfig())

	keys.Set(input.KeyUp, true)
	keys.Set(input.KeyRight, true)
	for i := 0; i < 100; i++ {
		_ = s.Update(0.1)
		keys.EndFrame()
	}

	if s.Car.Speed != MaxSpeed {
		t.Errorf("speed = %f, want %f", s.Car.Speed, float32(MaxSpeed))
	}
	if s.Car.SteeringAngle != 30 {
		t.Errorf("steering = %f, want 30", s.Car.SteeringAngle)
	}
}

func TestRoadState_Toggles(t *testing.T) {
	ctx, keys := newRoadContext()
	s := NewRoadState(ctx, DefaultRoadStateConfig())

	press := func(k input.Key) {
		keys.Set(k, true)
		_ = s.Update(0.016)
		keys.EndFrame()
		keys.Set(k, false)
		keys.EndFrame()
	}

	press(input.KeyH)
	press(input.KeyZ)
	press(input.KeyX)
	press(input.KeyB)
	press(input.KeyP)

	car := s.Car
	if !car.Headlight || !car.LeftBlinker || !car.RightBlinker || !car.Braking {
		t.Errorf("toggles not applied: %+v", car)
	}
	if s.Autopilot {
		t.Error("autopilot should be off after P")
	}

	press(input.KeyH)
	if car.Headlight {
		t.Error("second H should turn the headlight off")
	}
}

func TestRoadState_MouseLook(t *testing.T) {
	ctx, keys := newRoadContext()
	var toggles []bool
	ctx.MouseLook = func(on bool) { toggles = append(toggles, on) }
	ctx.Pointer = PointerFunc(func() (float32, float32) { return 10, 0 })
	s := NewRoadState(ctx, DefaultRoadStateConfig())

	yaw := ctx.Camera.Yaw
	_ = s.Update(0.1)
	if ctx.Camera.Yaw != yaw {
		t.Fatal("mouse moved the camera before mouse look was enabled")
	}

	keys.Set(input.KeySpace, true)
	_ = s.Update(0.1)
	keys.EndFrame()
	if !s.MouseLook || len(toggles) != 1 || !toggles[0] {
		t.Fatalf("mouse look = %v toggles = %v", s.MouseLook, toggles)
	}
	if ctx.Camera.Yaw >= yaw {
		t.Errorf("yaw = %f, want below %f after moving right", ctx.Camera.Yaw, yaw)
	}

	_ = s.Exit()
	if s.MouseLook || len(toggles) != 2 || toggles[1] {
		t.Errorf("exit must release mouse look: %v %v", s.MouseLook, toggles)
	}
}

func TestRoadState_Reset(t *testing.T) {
	ctx, _ := newRoadContext()
	s := NewRoadState(ctx, DefaultRoadStateConfig())
	s.Car.Speed = 7
	_ = s.Update(1)
	s.Autopilot = false

	s.Reset()
	if s.Car.Speed != 0 || s.Follower.Distance != 0 || !s.Autopilot {
		t.Errorf("reset left %+v distance %f autopilot %v", s.Car, s.Follower.Distance, s.Autopilot)
	}
}

func TestClampSteering(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0}, {29, 29}, {31, 30}, {-45, -30},
	}
	for _, tt := range tests {
		if got := ClampSteering(tt.in); got != tt.want {
			t.Errorf("ClampSteering(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

type fakeGPU struct {
	deleted *int
}

func (f fakeGPU) Draw()   {}
func (f fakeGPU) Delete() { *f.deleted++ }

const trianglePLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255 0 0
1 0 0 0 255 0
0 1 0 0 0 255
3 0 1 2
`

func writeModels(t *testing.T, dir string, names []string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name+".ply")
		if err := os.WriteFile(path, []byte(trianglePLY), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRoadState_Enter(t *testing.T) {
	dir := t.TempDir()
	ctx, _ := newRoadContext()
	ctx.Assets = assets.NewManager(dir)
	s := NewRoadState(ctx, DefaultRoadStateConfig())

	deleted := 0
	uploads := 0
	s.upload = func(*model.Mesh) (gpuMesh, error) {
		uploads++
		return fakeGPU{deleted: &deleted}, nil
	}

	writeModels(t, dir, s.Models())
	if err := s.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if uploads != len(assets.SceneModels) {
		t.Errorf("uploads = %d, want %d", uploads, len(assets.SceneModels))
	}

	_ = s.Exit()
	if deleted != uploads {
		t.Errorf("deleted %d of %d meshes", deleted, uploads)
	}
}

func TestRoadState_EnterMissingModel(t *testing.T) {
	dir := t.TempDir()
	ctx, _ := newRoadContext()
	ctx.Assets = assets.NewManager(dir)
	s := NewRoadState(ctx, DefaultRoadStateConfig())

	deleted := 0
	s.upload = func(*model.Mesh) (gpuMesh, error) {
		return fakeGPU{deleted: &deleted}, nil
	}

	// Everything but the wheel.
	var present []string
	for _, name := range s.Models() {
		if name != assets.Wheel {
			present = append(present, name)
		}
	}
	writeModels(t, dir, present)

	err := s.Enter()
	if !errors.Is(err, model.ErrMeshLoad) {
		t.Fatalf("err = %v, want mesh load failure", err)
	}
	var loadErr *model.LoadError
	if !errors.As(err, &loadErr) || loadErr.Kind != model.MissingFile {
		t.Errorf("err = %#v, want missing file", err)
	}
	if len(s.meshes) != 0 {
		t.Errorf("%d meshes left after failed enter", len(s.meshes))
	}
}
