package ui

import (
	"fmt"
	"runtime"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/roadloop/internal/game/states"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Overlay renders frame timing and car telemetry in a corner.
type Overlay struct {
	// Frame timing
	fps           float64
	frameTime     float64 // ms
	fpsUpdateTime float64 // seconds since last FPS update
	frameAccum    int

	// Memory stats
	memStats      runtime.MemStats
	memUpdateTime float64

	// Car telemetry
	CarPosition math.Vec3
	CarSpeed    float32
	CarHeading  float32 // degrees
	Distance    float32
	Autopilot   bool

	// Render stats
	ColorUploads int
	CacheHits    int
	CacheMisses  int

	ShowMemory bool
	Enabled    bool
}

// NewOverlay creates a hidden overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Update advances the FPS counter. deltaMs is the frame time in
// milliseconds.
func (o *Overlay) Update(deltaMs float64) {
	o.frameTime = deltaMs
	o.frameAccum++
	o.fpsUpdateTime += deltaMs / 1000.0

	// Update FPS every 0.5 seconds
	if o.fpsUpdateTime >= 0.5 {
		o.fps = float64(o.frameAccum) / o.fpsUpdateTime
		o.frameAccum = 0
		o.fpsUpdateTime = 0
	}

	if o.ShowMemory {
		o.memUpdateTime += deltaMs / 1000.0
		if o.memUpdateTime >= 2.0 {
			runtime.ReadMemStats(&o.memStats)
			o.memUpdateTime = 0
		}
	}
}

// FPS returns the last measured frame rate.
func (o *Overlay) FPS() float64 {
	return o.fps
}

// Observe copies the road scene's telemetry.
func (o *Overlay) Observe(road *states.RoadState) {
	car := road.Car
	o.CarPosition = car.Position
	o.CarSpeed = car.Speed
	o.CarHeading = math.Degrees(car.Heading)
	o.Distance = road.Follower.Distance
	o.Autopilot = road.Autopilot
}

// Render renders the overlay in the top-right corner.
func (o *Overlay) Render() {
	if !o.Enabled {
		return
	}

	viewport := imgui.MainViewport()
	pos, size := viewport.Pos(), viewport.Size()
	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+size.X-230, pos.Y+10))
	imgui.SetNextWindowSize(imgui.NewVec2(220, 0)) // Auto height

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoFocusOnAppearing |
		imgui.WindowFlagsNoInputs

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(8, 8))
	imgui.SetNextWindowBgAlpha(0.6)

	if imgui.BeginV("##StatsOverlay", nil, flags) {
		o.renderFPS()
		o.renderCar()
		o.renderRenderInfo()
		if o.ShowMemory {
			o.renderMemory()
		}
	}
	imgui.End()

	imgui.PopStyleVar()
}

func (o *Overlay) renderFPS() {
	fpsColor := imgui.NewVec4(0.2, 1.0, 0.2, 1.0) // Green
	if o.fps < 30 {
		fpsColor = imgui.NewVec4(1.0, 0.2, 0.2, 1.0) // Red
	} else if o.fps < 60 {
		fpsColor = imgui.NewVec4(1.0, 1.0, 0.2, 1.0) // Yellow
	}

	imgui.TextColored(fpsColor, fmt.Sprintf("FPS: %.1f", o.fps))
	imgui.SameLine()
	imgui.TextDisabled(fmt.Sprintf("(%.2f ms)", o.frameTime))
}

func (o *Overlay) renderCar() {
	imgui.Separator()
	p := o.CarPosition
	imgui.Text(fmt.Sprintf("Car: %.2f, %.2f, %.2f", p.X, p.Y, p.Z))
	imgui.Text(fmt.Sprintf("Speed: %.2f m/s", o.CarSpeed))
	imgui.Text(fmt.Sprintf("Heading: %.1f deg", o.CarHeading))
	if o.Autopilot {
		imgui.Text(fmt.Sprintf("Track: %.2f m", o.Distance))
	}
}

func (o *Overlay) renderRenderInfo() {
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Color uploads: %d", o.ColorUploads))
	imgui.Text(fmt.Sprintf("Mesh cache: %d hits, %d misses", o.CacheHits, o.CacheMisses))
}

func (o *Overlay) renderMemory() {
	imgui.Separator()
	imgui.Text("Memory")
	imgui.Text(fmt.Sprintf("  Alloc: %s", formatBytes(int64(o.memStats.Alloc))))
	imgui.Text(fmt.Sprintf("  Sys: %s", formatBytes(int64(o.memStats.Sys))))
	imgui.Text(fmt.Sprintf("  GC: %d", o.memStats.NumGC))
}

// formatBytes formats byte count to human readable string.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
