// Package world lays out the static scenery around the road loop.
package world

import (
	gomath "math"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/game/track"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Layout constants.
const (
	RoadWidth       = 5.0
	PatchesPerSide  = 7
	PatchLength     = track.SegmentLength / PatchesPerSide
	GroundScale     = 50.0
	GroundDepth     = -0.1
	TreeScale       = 15.0
	StreetlightY    = -0.15
	StreetlightAxis = 7.5 // distance along the edge from its midpoint

	// Streetlights stand just inside the road.
	StreetlightOffset = track.HalfLength - RoadWidth/2 - 0.25
)

// Instance is one placed copy of a model. Its transform never changes
// after the layout is built.
type Instance struct {
	Model     string
	Transform math.Mat4
	// NoCull marks meshes whose triangles are not consistently wound.
	NoCull bool
}

// Layout is the full set of static instances.
type Layout struct {
	Ground       Instance
	Tree         Instance
	Streetlights []Instance
	Corners      []Instance
	Patches      []Instance
}

// Build composes every static transform once.
func Build() *Layout {
	return &Layout{
		Ground: Instance{
			Model: assets.Grass,
			Transform: math.Translate(0, GroundDepth, 0).
				Mul(math.Scale(GroundScale, 1, GroundScale)),
		},
		Tree: Instance{
			Model:     assets.Pine,
			Transform: math.Scale(TreeScale, TreeScale, TreeScale),
			NoCull:    true,
		},
		Streetlights: streetlights(),
		Corners:      corners(),
		Patches:      patches(),
	}
}

// Instances returns every instance in draw order.
func (l *Layout) Instances() []Instance {
	all := make([]Instance, 0, 2+len(l.Streetlights)+len(l.Corners)+len(l.Patches))
	all = append(all, l.Ground, l.Tree)
	all = append(all, l.Streetlights...)
	all = append(all, l.Corners...)
	return append(all, l.Patches...)
}

// Models lists the distinct model names the layout uses.
func (l *Layout) Models() []string {
	seen := make(map[string]bool)
	var names []string
	for _, inst := range l.Instances() {
		if !seen[inst.Model] {
			seen[inst.Model] = true
			names = append(names, inst.Model)
		}
	}
	return names
}

// StreetlightPositions are two lights per edge, facing the tree.
func StreetlightPositions() []math.Vec3 {
	const o = StreetlightOffset
	const a = StreetlightAxis
	const y = StreetlightY
	return []math.Vec3{
		{X: -a, Y: y, Z: -o}, {X: a, Y: y, Z: -o},
		{X: -a, Y: y, Z: o}, {X: a, Y: y, Z: o},
		{X: -o, Y: y, Z: -a}, {X: -o, Y: y, Z: a},
		{X: o, Y: y, Z: -a}, {X: o, Y: y, Z: a},
	}
}

// FacingCenter returns the yaw that turns the streetlight mesh at pos
// toward the origin. The mesh's arm points along its local +X.
func FacingCenter(pos math.Vec3) float32 {
	toCenter := pos.Negate().Normalize()
	yaw := gomath.Atan2(float64(-toCenter.X), float64(-toCenter.Z))
	return float32(yaw) + math.Radians(90)
}

func streetlights() []Instance {
	positions := StreetlightPositions()
	lights := make([]Instance, len(positions))
	for i, pos := range positions {
		lights[i] = Instance{
			Model:     assets.Streetlight,
			Transform: math.TranslateVec(pos).Mul(math.RotateY(FacingCenter(pos))),
		}
	}
	return lights
}

func corners() []Instance {
	const h = track.HalfLength
	positions := []math.Vec3{
		{X: -h, Z: -h}, {X: h, Z: -h},
		{X: -h, Z: h}, {X: h, Z: h},
	}

	out := make([]Instance, len(positions))
	for i, pos := range positions {
		out[i] = Instance{
			Model:     assets.StreetCorner,
			Transform: math.TranslateVec(pos).Mul(math.Scale(RoadWidth, 1, RoadWidth)),
		}
	}
	return out
}

// patches tiles each edge between the corners. The side edges reuse the
// same mesh turned a quarter turn.
func patches() []Instance {
	const h = track.HalfLength
	scale := math.Scale(PatchLength, 1, RoadWidth)
	quarter := math.RotateY(math.Radians(90))

	out := make([]Instance, 0, 4*PatchesPerSide)
	for i := 0; i < PatchesPerSide; i++ {
		x := patchCenter(i)
		out = append(out,
			Instance{Model: assets.Street, Transform: math.Translate(x, 0, -h).Mul(scale)},
			Instance{Model: assets.Street, Transform: math.Translate(x, 0, h).Mul(scale)},
		)
	}
	for i := 0; i < PatchesPerSide; i++ {
		z := patchCenter(i)
		out = append(out,
			Instance{Model: assets.Street, Transform: math.Translate(-h, 0, z).Mul(quarter).Mul(scale)},
			Instance{Model: assets.Street, Transform: math.Translate(h, 0, z).Mul(quarter).Mul(scale)},
		)
	}
	return out
}

func patchCenter(i int) float32 {
	return -track.HalfLength + PatchLength/2 + float32(i)*PatchLength
}
