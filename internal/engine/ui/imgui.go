// Package ui wraps the cimgui-go SDL backend that hosts the desktop client.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roadloop/internal/engine/input"
)

// Backend wraps the ImGui SDL backend for game use.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window, the GL context and the ImGui context.
func NewBackend(title string, width, height int32, bg [3]float32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		// No imgui.ini next to the binary.
		imgui.CurrentIO().SetIniFilename("")
	})

	b.backend.SetBgColor(imgui.NewVec4(bg[0], bg[1], bg[2], 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Close asks the backend to end the loop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// FramebufferSize returns the drawable size in pixels.
func FramebufferSize() (int32, int32) {
	io := imgui.CurrentIO()
	size := io.DisplaySize()
	scale := io.DisplayFramebufferScale()
	return int32(size.X * scale.X), int32(size.Y * scale.Y)
}

// DrawSceneTexture draws a 3D scene texture as a full-window background.
func DrawSceneTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	viewport := imgui.MainViewport()
	pos, size := viewport.Pos(), viewport.Size()
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(size)

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs | imgui.WindowFlagsNoSavedSettings

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##SceneBackground", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef,
			size,
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}

var imguiKeys = map[input.Key]imgui.Key{
	input.KeyW:      imgui.KeyW,
	input.KeyA:      imgui.KeyA,
	input.KeyS:      imgui.KeyS,
	input.KeyD:      imgui.KeyD,
	input.KeyQ:      imgui.KeyQ,
	input.KeyE:      imgui.KeyE,
	input.KeyUp:     imgui.KeyUpArrow,
	input.KeyDown:   imgui.KeyDownArrow,
	input.KeyLeft:   imgui.KeyLeftArrow,
	input.KeyRight:  imgui.KeyRightArrow,
	input.KeySpace:  imgui.KeySpace,
	input.KeyT:      imgui.KeyT,
	input.KeyH:      imgui.KeyH,
	input.KeyZ:      imgui.KeyZ,
	input.KeyX:      imgui.KeyX,
	input.KeyB:      imgui.KeyB,
	input.KeyP:      imgui.KeyP,
	input.KeyF12:    imgui.KeyF12,
	input.KeyEscape: imgui.KeyEscape,
}

// PollKeys mirrors ImGui key state into keys. While a widget holds keyboard
// focus every key reads as released.
func PollKeys(keys *input.Keys) {
	captured := imgui.CurrentIO().WantCaptureKeyboard()
	keys.Poll(func(k input.Key) bool {
		ik, ok := imguiKeys[k]
		return ok && !captured && imgui.IsKeyDown(ik)
	})
}

// MouseDelta returns the mouse motion of the current frame in pixels.
func MouseDelta() (float32, float32) {
	d := imgui.CurrentIO().MouseDelta()
	return d.X, d.Y
}
