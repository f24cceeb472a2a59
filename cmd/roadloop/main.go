// Package main is the desktop client: the scene is rendered offscreen and
// shown behind an ImGui parameter panel.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/config"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/model"
	engineui "github.com/Faultbox/roadloop/internal/engine/ui"
	"github.com/Faultbox/roadloop/internal/game"
	"github.com/Faultbox/roadloop/internal/game/states"
	gameui "github.com/Faultbox/roadloop/internal/game/ui"
	"github.com/Faultbox/roadloop/internal/logger"
)

const windowTitle = "RoadLoop"

func init() {
	runtime.LockOSThread()
}

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

	logger.Info("=== RoadLoop ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	backend, err := engineui.NewBackend(windowTitle,
		int32(cfg.Graphics.Width), int32(cfg.Graphics.Height), cfg.Graphics.ClearColor)
	if err != nil {
		fatal("failed to create window", err)
	}

	frontend := game.Frontend{
		Bindings:  input.DesktopBindings(),
		Offscreen: true,
		Pointer:   states.PointerFunc(engineui.MouseDelta),
	}

	g, err := startGame(cfg, frontend)
	if err != nil {
		fatal("failed to start", err)
	}
	defer g.Close()

	panel := gameui.NewPanel(g.States(), g.Intro(), g.Road())
	panel.Save = func() error {
		err := g.SaveSettings(config.SavePath())
		if err != nil {
			logger.Warn("settings not saved", zap.Error(err))
		}
		return err
	}
	title := ""

	backend.Run(func() {
		engineui.PollKeys(g.Keys())

		w, h := engineui.FramebufferSize()
		if err := g.Frame(w, h); err != nil {
			logger.Error("frame failed", zap.Error(err))
			dialog.Message("%v", err).Title(windowTitle).Error()
			backend.Close()
			return
		}

		engineui.DrawSceneTexture(g.Scene().ColorTexture())

		overlay := panel.Overlay
		overlay.Update(g.FrameTime() * 1000)
		overlay.Observe(g.Road())
		overlay.ColorUploads = g.Scene().Renderer.ColorUploads()
		overlay.CacheHits, overlay.CacheMisses = g.Assets().Stats()
		panel.Render()

		g.Keys().EndFrame()

		if cur := g.States().Current(); cur != nil && cur.Name() != title {
			title = cur.Name()
			backend.SetWindowTitle(windowTitle + " - " + title)
		}
		if g.ShouldQuit() {
			backend.Close()
		}
	})

	logger.Info("closed normally")
}

// startGame creates the game, offering to pick another models folder while
// the models fail to load.
func startGame(cfg *config.Config, fe game.Frontend) (*game.Game, error) {
	for {
		g, err := game.New(cfg, fe)
		if err == nil || !errors.Is(err, model.ErrMeshLoad) {
			return g, err
		}

		logger.Error("models failed to load", zap.String("dir", cfg.Scene.ModelsDir), zap.Error(err))
		if !dialog.Message("%v\n\nChoose another models folder?", err).Title(windowTitle).YesNo() {
			return nil, err
		}
		dir, derr := dialog.Directory().Title("Models folder").Browse()
		if derr != nil {
			// Cancelling reports the load failure.
			return nil, err
		}
		cfg.Scene.ModelsDir = dir
	}
}

func fatal(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	dialog.Message("%s: %v", msg, err).Title(windowTitle).Error()
	logger.Sync()
	os.Exit(1)
}
