package shape

import (
	gomath "math"
	"testing"
)

func TestNgon_Counts(t *testing.T) {
	tests := []struct {
		sides     int
		wantVerts int
		wantIdx   int
	}{
		{5, 6, 15},
		{8, 9, 24},
		{12, 13, 36},
		{3, 6, 15},   // clamped up
		{40, 13, 36}, // clamped down
	}
	for _, tt := range tests {
		verts, idx := Ngon(tt.sides)
		if len(verts) != tt.wantVerts || len(idx) != tt.wantIdx {
			t.Errorf("Ngon(%d) = %d verts / %d indices, want %d / %d",
				tt.sides, len(verts), len(idx), tt.wantVerts, tt.wantIdx)
		}
	}
}

func TestNgon_Fan(t *testing.T) {
	verts, idx := Ngon(6)

	if verts[0].Position != [2]float32{0, 0} || verts[0].Color != [3]float32{1, 1, 1} {
		t.Errorf("center = %+v, want white origin", verts[0])
	}

	for i := 0; i < 6; i++ {
		tri := idx[i*3 : i*3+3]
		want := []uint32{0, uint32(i + 1), uint32((i+1)%6 + 1)}
		for k := range tri {
			if tri[k] != want[k] {
				t.Errorf("triangle %d = %v, want %v", i, tri, want)
				break
			}
		}
	}
	// The last triangle closes the fan back to the first perimeter vertex.
	if idx[len(idx)-1] != 1 {
		t.Errorf("last index = %d, want 1", idx[len(idx)-1])
	}

	for i, v := range verts[1:] {
		r := gomath.Hypot(float64(v.Position[0]), float64(v.Position[1]))
		if gomath.Abs(r-NgonRadius) > 1e-5 {
			t.Errorf("vertex %d radius = %v, want %v", i+1, r, NgonRadius)
		}
	}
	if gomath.Abs(float64(verts[1].Position[0])-NgonRadius) > 1e-6 || verts[1].Position[1] != 0 {
		t.Errorf("first perimeter vertex = %v, want (0.7, 0)", verts[1].Position)
	}
}

func TestRainbowColor(t *testing.T) {
	c := RainbowColor(0)
	if c[0] != 1 {
		t.Errorf("red at hue 0 = %v, want 1", c[0])
	}
	for hue := float32(0); hue < 1; hue += 0.05 {
		for k, ch := range RainbowColor(hue) {
			if ch < 0 || ch > 1 {
				t.Errorf("hue %v channel %d = %v out of [0,1]", hue, k, ch)
			}
		}
	}
}

func TestClampSides(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, MinSides}, {5, 5}, {9, 9}, {12, 12}, {13, MaxSides},
	}
	for _, tt := range tests {
		if got := ClampSides(tt.in); got != tt.want {
			t.Errorf("ClampSides(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
