package vehicle

import (
	gomath "math"

	"github.com/Faultbox/roadloop/pkg/math"
)

// Part geometry, in the local space of the part's parent.
const (
	FrameHeight     = 0.25    // chassis origin to frame mesh origin
	WheelAxleOffset = 0.10124 // wheel mesh origin to its rotation axis
	LightDepth      = 0.029
	BlinkerOffset   = 0.06065 // lateral, outward
	FrontLightTilt  = 5.0     // degrees
)

// Side is the lateral side of a wheel or light.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Kind identifies which mesh a part is drawn with.
type Kind int

const (
	KindFrame Kind = iota
	KindWheel
	KindLight
	KindBlinker
)

func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindWheel:
		return "wheel"
	case KindLight:
		return "light"
	case KindBlinker:
		return "blinker"
	default:
		return "unknown"
	}
}

// Mount is a fixed attachment point on the car. Even indices are on the
// left; the first two are at the front.
type Mount struct {
	Offset math.Vec3
	Front  bool
	Side   Side
}

// WheelMounts are relative to the chassis.
var WheelMounts = [4]Mount{
	{Offset: math.Vec3{X: -1.29, Y: 0.245, Z: -0.57}, Front: true, Side: Left},
	{Offset: math.Vec3{X: -1.29, Y: 0.245, Z: 0.57}, Front: true, Side: Right},
	{Offset: math.Vec3{X: 1.4, Y: 0.245, Z: -0.57}, Side: Left},
	{Offset: math.Vec3{X: 1.4, Y: 0.245, Z: 0.57}, Side: Right},
}

// HeadlightMounts are relative to the frame.
var HeadlightMounts = [4]Mount{
	{Offset: math.Vec3{X: -1.9650, Y: 0.38, Z: -0.45}, Front: true, Side: Left},
	{Offset: math.Vec3{X: -1.9650, Y: 0.38, Z: 0.45}, Front: true, Side: Right},
	{Offset: math.Vec3{X: 2.0019, Y: 0.38, Z: -0.45}, Side: Left},
	{Offset: math.Vec3{X: 2.0019, Y: 0.38, Z: 0.45}, Side: Right},
}

// Colors is the tint table for the lit parts.
type Colors struct {
	FrontOn    math.Vec3
	FrontOff   math.Vec3
	RearOn     math.Vec3
	RearOff    math.Vec3
	BlinkerOn  math.Vec3
	BlinkerOff math.Vec3
}

// DefaultColors: white headlights, red tail lights, amber blinkers, each
// dimmed to half when off.
var DefaultColors = Colors{
	FrontOn:    math.Vec3{X: 1, Y: 1, Z: 1},
	FrontOff:   math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	RearOn:     math.Vec3{X: 1, Y: 0.1, Z: 0.1},
	RearOff:    math.Vec3{X: 0.5, Y: 0.1, Z: 0.1},
	BlinkerOn:  math.Vec3{X: 1, Y: 0.7, Z: 0.3},
	BlinkerOff: math.Vec3{X: 0.5, Y: 0.35, Z: 0.15},
}

// Part is one drawable piece of the car for the current frame.
type Part struct {
	Kind  Kind
	Side  Side
	Front bool
	Model math.Mat4
	Color math.Vec3
}

// Pose is the full set of part transforms derived from a State.
type Pose struct {
	Chassis  math.Mat4
	Frame    Part
	Wheels   [4]Part
	Lights   [4]Part
	Blinkers [4]Part
}

// Parts returns every part in draw order: frame, light assemblies, wheels.
func (p *Pose) Parts() []Part {
	parts := make([]Part, 0, 13)
	parts = append(parts, p.Frame)
	for i := range p.Lights {
		parts = append(parts, p.Lights[i], p.Blinkers[i])
	}
	parts = append(parts, p.Wheels[:]...)
	return parts
}

// Chassis returns translate(position) * rotateY(heading).
func (s *State) Chassis() math.Mat4 {
	return math.TranslateVec(s.Position).Mul(math.RotateY(s.Heading))
}

// Pose composes the parts from the car's own chassis transform.
func (s *State) Pose() Pose {
	return s.Compose(s.Chassis(), DefaultColors)
}

// Compose derives all part transforms and colors under chassis. It does
// not modify s.
func (s *State) Compose(chassis math.Mat4, colors Colors) Pose {
	frame := chassis.Translated(0, FrameHeight, 0)

	pose := Pose{
		Chassis: chassis,
		Frame:   Part{Kind: KindFrame, Model: frame, Color: white},
	}

	for i, mount := range WheelMounts {
		pose.Wheels[i] = Part{
			Kind:  KindWheel,
			Side:  mount.Side,
			Front: mount.Front,
			Model: s.wheel(chassis, mount),
			Color: white,
		}
	}

	for i, mount := range HeadlightMounts {
		assembly := frame.Mul(math.TranslateVec(mount.Offset))
		if mount.Front {
			assembly = assembly.Mul(math.RotateZ(math.Radians(FrontLightTilt)))
		}

		pose.Lights[i] = Part{
			Kind:  KindLight,
			Side:  mount.Side,
			Front: mount.Front,
			Model: assembly.Translated(0, 0, LightDepth),
			Color: s.lightColor(mount.Front, colors),
		}

		lateral := float32(-BlinkerOffset)
		if mount.Side == Right {
			lateral = BlinkerOffset
		}
		pose.Blinkers[i] = Part{
			Kind:  KindBlinker,
			Side:  mount.Side,
			Front: mount.Front,
			Model: assembly.Translated(0, 0, lateral),
			Color: s.blinkerColor(mount.Side, colors),
		}
	}

	return pose
}

// wheel builds the wheel chain. Right wheels are turned by pi so the rim
// faces outward; their roll is negated to keep turning the same way in
// world space. Steering is about Y, which the mirror leaves unchanged.
func (s *State) wheel(chassis math.Mat4, mount Mount) math.Mat4 {
	m := chassis.Mul(math.TranslateVec(mount.Offset))

	roll := s.WheelRoll
	if mount.Side == Right {
		m = m.Mul(math.RotateY(gomath.Pi))
		roll = -roll
	}

	m = m.Translated(0, 0, WheelAxleOffset)
	if mount.Front {
		m = m.Mul(math.RotateY(math.Radians(s.SteeringAngle)))
	}
	return m.Mul(math.RotateZ(roll)).Translated(0, 0, -WheelAxleOffset)
}

func (s *State) lightColor(front bool, colors Colors) math.Vec3 {
	if front {
		if s.Headlight {
			return colors.FrontOn
		}
		return colors.FrontOff
	}
	if s.Braking {
		return colors.RearOn
	}
	return colors.RearOff
}

func (s *State) blinkerColor(side Side, colors Colors) math.Vec3 {
	requested := s.LeftBlinker
	if side == Right {
		requested = s.RightBlinker
	}
	if requested && s.BlinkerOn {
		return colors.BlinkerOn
	}
	return colors.BlinkerOff
}

// white leaves the mesh's vertex colors unchanged.
var white = math.Splat(1)
