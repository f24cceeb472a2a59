// Package main is the keyboard-only client: a plain SDL window, the scene
// drawn straight to it, and the car driven from the keyboard.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/config"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/window"
	"github.com/Faultbox/roadloop/internal/game"
	"github.com/Faultbox/roadloop/internal/game/states"
	"github.com/Faultbox/roadloop/internal/logger"
	"github.com/Faultbox/roadloop/pkg/math"
)

const (
	windowTitle   = "RoadLoop Lite"
	titleInterval = 250 * time.Millisecond
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== RoadLoop Lite ===")

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	defer win.Close()

	inp := input.New()
	g, err := game.New(cfg, game.Frontend{
		Keys:      &inp.Keys,
		Bindings:  input.LiteBindings(),
		Offscreen: false,
		Pointer:   inp,
		MouseLook: win.SetRelativeMouse,
	})
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		win.ShowError(windowTitle, err.Error())
		win.Close()
		os.Exit(1)
	}
	defer g.Close()

	if err := run(win, inp, g); err != nil {
		logger.Error("game error", zap.Error(err))
		win.ShowError(windowTitle, err.Error())
	}

	logger.Info("closed normally")
}

func run(win *window.Window, inp *input.Input, g *game.Game) error {
	lastTitle := time.Now()

	for !g.ShouldQuit() {
		if inp.Update() {
			return nil
		}

		w, h := win.Size()
		if err := g.Frame(w, h); err != nil {
			return err
		}
		win.SwapBuffers()

		if time.Since(lastTitle) >= titleInterval {
			win.SetTitle(status(g))
			lastTitle = time.Now()
		}
	}
	return nil
}

// status summarizes the scene for the title bar, the lite client's only HUD.
func status(g *game.Game) string {
	cur := g.States().Current()
	if cur == nil {
		return windowTitle
	}
	if cur != states.State(g.Road()) {
		return fmt.Sprintf("%s - %s (%d sides, Up/Down)", windowTitle, cur.Name(), g.Intro().Sides)
	}

	road := g.Road()
	car := road.Car
	mode := "manual"
	if road.Autopilot {
		mode = "autopilot"
	}
	return fmt.Sprintf("%s - %.1f m/s, steer %.0f deg, heading %.0f deg, %s%s",
		windowTitle, car.Speed, car.SteeringAngle, math.Degrees(car.Heading), mode, lamps(road))
}

func lamps(road *states.RoadState) string {
	car := road.Car
	s := ""
	if car.Headlight {
		s += " [H]"
	}
	if car.LeftBlinker {
		s += " [<]"
	}
	if car.RightBlinker {
		s += " [>]"
	}
	if car.Braking {
		s += " [B]"
	}
	return s
}
