package vehicle

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/roadloop/pkg/math"
)

// wheelChain rebuilds the wheel transform by hand; mirror inserts the
// right-side rotation right after the mount translation.
func wheelChain(chassis math.Mat4, offset math.Vec3, mirror bool, steerDeg, roll float32) math.Mat4 {
	m := chassis.Mul(math.TranslateVec(offset))
	if mirror {
		m = m.Mul(math.RotateY(gomath.Pi))
	}
	return m.Mul(math.Translate(0, 0, WheelAxleOffset)).
		Mul(math.RotateY(math.Radians(steerDeg))).
		Mul(math.RotateZ(roll)).
		Mul(math.Translate(0, 0, -WheelAxleOffset))
}

func TestChassis(t *testing.T) {
	s := New(math.Vec3{X: 3, Y: 0, Z: -2}, gomath.Pi/2)
	got := s.Chassis()
	want := math.Translate(3, 0, -2).Mul(math.RotateY(gomath.Pi / 2))
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Chassis() = %v, want %v", got, want)
	}
}

func TestCompose_FrameHeight(t *testing.T) {
	s := New(math.Vec3{X: 1, Y: 0, Z: 1}, 0.3)
	pose := s.Pose()

	want := s.Chassis().Mul(math.Translate(0, FrameHeight, 0))
	if !pose.Frame.Model.ApproxEqual(want, eps) {
		t.Errorf("frame = %v, want %v", pose.Frame.Model, want)
	}
	if pose.Frame.Kind != KindFrame || pose.Frame.Color != white {
		t.Errorf("frame part = %+v", pose.Frame)
	}
}

func TestCompose_RightWheelMirror(t *testing.T) {
	s := New(math.Vec3{X: 2, Y: 0, Z: -4}, 0.7)
	chassis := s.Chassis()

	// With no steering or roll the right wheel is the left chain at the
	// same mount plus the pi rotation.
	pose := s.Pose()
	for _, i := range []int{1, 3} {
		offset := WheelMounts[i].Offset
		unmirrored := wheelChain(chassis, offset, false, 0, 0)
		mirrored := wheelChain(chassis, offset, true, 0, 0)

		if !pose.Wheels[i].Model.ApproxEqual(mirrored, eps) {
			t.Errorf("wheel %d = %v, want %v", i, pose.Wheels[i].Model, mirrored)
		}
		if pose.Wheels[i].Model.ApproxEqual(unmirrored, eps) {
			t.Errorf("wheel %d is missing the mirror rotation", i)
		}
	}
	for _, i := range []int{0, 2} {
		want := wheelChain(chassis, WheelMounts[i].Offset, false, 0, 0)
		if !pose.Wheels[i].Model.ApproxEqual(want, eps) {
			t.Errorf("left wheel %d = %v, want %v", i, pose.Wheels[i].Model, want)
		}
	}
}

func TestCompose_WheelSteerAndRoll(t *testing.T) {
	s := New(math.Vec3{}, 0)
	s.SteeringAngle = 20
	s.WheelRoll = 1.1
	chassis := s.Chassis()
	pose := s.Pose()

	tests := []struct {
		name  string
		index int
		want  math.Mat4
	}{
		{"front left", 0, wheelChain(chassis, WheelMounts[0].Offset, false, 20, 1.1)},
		{"front right", 1, wheelChain(chassis, WheelMounts[1].Offset, true, 20, -1.1)},
		{"rear left", 2, wheelChain(chassis, WheelMounts[2].Offset, false, 0, 1.1)},
		{"rear right", 3, wheelChain(chassis, WheelMounts[3].Offset, true, 0, -1.1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pose.Wheels[tt.index].Model; !got.ApproxEqual(tt.want, eps) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompose_WheelsSpinTogether(t *testing.T) {
	// A point on the rim of each wheel must move the same way in world
	// space when the roll advances, whichever side the wheel is on.
	s := New(math.Vec3{}, 0)
	rim := math.Vec3{X: 0, Y: WheelRadius, Z: WheelAxleOffset}

	before := s.Pose()
	s.WheelRoll = 0.2
	after := s.Pose()

	left := after.Wheels[2].Model.TransformVec3(rim).Sub(before.Wheels[2].Model.TransformVec3(rim))
	right := after.Wheels[3].Model.TransformVec3(rim).Sub(before.Wheels[3].Model.TransformVec3(rim))
	if gomath.Signbit(float64(left.X)) != gomath.Signbit(float64(right.X)) {
		t.Errorf("rim motion differs: left %+v right %+v", left, right)
	}
}

func TestCompose_WheelsOnGround(t *testing.T) {
	s := New(math.Vec3{}, 0)
	pose := s.Pose()
	for i, w := range pose.Wheels {
		axle := w.Model.TransformVec3(math.Vec3{Z: WheelAxleOffset})
		if !approx(axle.Y, WheelMounts[i].Offset.Y) {
			t.Errorf("wheel %d axle height = %f, want %f", i, axle.Y, WheelMounts[i].Offset.Y)
		}
	}
}

func TestCompose_Headlights(t *testing.T) {
	s := New(math.Vec3{X: -5, Y: 0, Z: 5}, 1.2)
	frame := s.Chassis().Mul(math.Translate(0, FrameHeight, 0))
	pose := s.Pose()

	for i, mount := range HeadlightMounts {
		assembly := frame.Mul(math.TranslateVec(mount.Offset))
		if mount.Front {
			assembly = assembly.Mul(math.RotateZ(math.Radians(FrontLightTilt)))
		}

		light := assembly.Mul(math.Translate(0, 0, LightDepth))
		if !pose.Lights[i].Model.ApproxEqual(light, eps) {
			t.Errorf("light %d = %v, want %v", i, pose.Lights[i].Model, light)
		}

		lateral := float32(-BlinkerOffset)
		if mount.Side == Right {
			lateral = BlinkerOffset
		}
		blinker := assembly.Mul(math.Translate(0, 0, lateral))
		if !pose.Blinkers[i].Model.ApproxEqual(blinker, eps) {
			t.Errorf("blinker %d = %v, want %v", i, pose.Blinkers[i].Model, blinker)
		}
	}
}

func TestCompose_BlinkersOutward(t *testing.T) {
	s := New(math.Vec3{}, 0)
	pose := s.Pose()
	for i := range HeadlightMounts {
		light := pose.Lights[i].Model.Origin()
		blinker := pose.Blinkers[i].Model.Origin()
		if absf(blinker.Z) <= absf(light.Z-LightDepth) {
			t.Errorf("blinker %d at z=%f is not outside its light at z=%f", i, blinker.Z, light.Z)
		}
	}
}

func TestCompose_Colors(t *testing.T) {
	c := DefaultColors
	tests := []struct {
		name         string
		setup        func(*State)
		frontLight   math.Vec3
		rearLight    math.Vec3
		leftBlinker  math.Vec3
		rightBlinker math.Vec3
	}{
		{
			name:         "all off",
			setup:        func(*State) {},
			frontLight:   c.FrontOff,
			rearLight:    c.RearOff,
			leftBlinker:  c.BlinkerOff,
			rightBlinker: c.BlinkerOff,
		},
		{
			name:         "headlight",
			setup:        func(s *State) { s.Headlight = true },
			frontLight:   c.FrontOn,
			rearLight:    c.RearOff,
			leftBlinker:  c.BlinkerOff,
			rightBlinker: c.BlinkerOff,
		},
		{
			name:         "braking",
			setup:        func(s *State) { s.Braking = true },
			frontLight:   c.FrontOff,
			rearLight:    c.RearOn,
			leftBlinker:  c.BlinkerOff,
			rightBlinker: c.BlinkerOff,
		},
		{
			name:         "left blinker lit",
			setup: func(s *State) {
				s.LeftBlinker = true
				s.BlinkerOn = true
			},
			frontLight:   c.FrontOff,
			rearLight:    c.RearOff,
			leftBlinker:  c.BlinkerOn,
			rightBlinker: c.BlinkerOff,
		},
		{
			name:         "right blinker dark phase",
			setup: func(s *State) {
				s.RightBlinker = true
				s.BlinkerOn = false
			},
			frontLight:   c.FrontOff,
			rearLight:    c.RearOff,
			leftBlinker:  c.BlinkerOff,
			rightBlinker: c.BlinkerOff,
		},
		{
			name:         "phase on without request",
			setup:        func(s *State) { s.BlinkerOn = true },
			frontLight:   c.FrontOff,
			rearLight:    c.RearOff,
			leftBlinker:  c.BlinkerOff,
			rightBlinker: c.BlinkerOff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(math.Vec3{}, 0)
			tt.setup(s)
			pose := s.Pose()

			for i, mount := range HeadlightMounts {
				wantLight := tt.rearLight
				if mount.Front {
					wantLight = tt.frontLight
				}
				if pose.Lights[i].Color != wantLight {
					t.Errorf("light %d color = %+v, want %+v", i, pose.Lights[i].Color, wantLight)
				}

				wantBlinker := tt.leftBlinker
				if mount.Side == Right {
					wantBlinker = tt.rightBlinker
				}
				if pose.Blinkers[i].Color != wantBlinker {
					t.Errorf("blinker %d color = %+v, want %+v", i, pose.Blinkers[i].Color, wantBlinker)
				}
			}
		})
	}
}

func TestCompose_DoesNotMutate(t *testing.T) {
	s := New(math.Vec3{X: 1}, 0.4)
	s.Speed = 3
	s.SteeringAngle = 10
	s.LeftBlinker = true
	before := *s

	_ = s.Pose()
	if *s != before {
		t.Errorf("Compose changed state: %+v", *s)
	}
}

func TestPose_Parts(t *testing.T) {
	s := New(math.Vec3{}, 0)
	pose := s.Pose()
	parts := pose.Parts()

	if len(parts) != 13 {
		t.Fatalf("got %d parts, want 13", len(parts))
	}
	counts := map[Kind]int{}
	for _, p := range parts {
		counts[p.Kind]++
	}
	want := map[Kind]int{KindFrame: 1, KindWheel: 4, KindLight: 4, KindBlinker: 4}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("%s parts = %d, want %d", k, counts[k], n)
		}
	}
	if parts[0].Kind != KindFrame {
		t.Errorf("first part = %s, want frame", parts[0].Kind)
	}
}
