// Package app wires the window, renderer and scene together and runs the
// main loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/quiet-measure/internal/assets"
	"github.com/Faultbox/quiet-measure/internal/config"
	"github.com/Faultbox/quiet-measure/internal/engine/capture"
	"github.com/Faultbox/quiet-measure/internal/engine/frameloop"
	"github.com/Faultbox/quiet-measure/internal/engine/input"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/internal/engine/renderer"
	"github.com/Faultbox/quiet-measure/internal/engine/scene"
	"github.com/Faultbox/quiet-measure/internal/engine/window"
	"github.com/Faultbox/quiet-measure/internal/logger"
)

// App is the showcase instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	loader   *assets.Loader
	loop     *frameloop.Loop
	composer *scene.Composer
	capturer *capture.Capturer
	log      *zap.Logger
}

// viewport adapts the renderer to the composer. The composer works in window
// coordinates so breakpoints match the logical width; the GL viewport needs
// the drawable size, which is larger on high-DPI displays.
type viewport struct {
	window   *window.Window
	renderer *renderer.Renderer
}

func (v viewport) Resize(int, int) {
	v.renderer.Resize(v.window.DrawableSize())
}

func (v viewport) Draw(view scene.View) {
	v.renderer.Draw(view)
}

// New creates the window, renderer and scene. Window and GL failures are
// returned as *RenderSetupError.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("mode", cfg.Motion.Mode),
	)

	sceneCfg, err := cfg.SceneConfig()
	if err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}
	updater, err := cfg.Updater()
	if err != nil {
		return nil, fmt.Errorf("motion config: %w", err)
	}

	// Window first: it creates the OpenGL context
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, &RenderSetupError{Stage: "window", Err: err}
	}

	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		ClearColor: cfg.Window.Background,
		ClearAlpha: 1,
	})
	if err != nil {
		a.window.Close()
		return nil, &RenderSetupError{Stage: "renderer", Err: err}
	}

	a.capturer, err = capture.New(cfg.Window.ScreenshotDir, "quiet-measure", cfg.Window.ScreenshotFormat)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("screenshots: %w", err)
	}

	a.input = input.New(a.window.Size())
	a.loader = assets.NewLoader(cfg.Assets.Dir, model.DefaultBuildOptions())
	a.loop = frameloop.New()

	a.composer, err = scene.New(sceneCfg, scene.Deps{
		Loader:  a.loader,
		Drawer:  viewport{window: a.window, renderer: a.renderer},
		Loop:    a.loop,
		Updater: updater,
		Pointer: a.input,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("scene: %w", err)
	}

	a.log.Info("initialized")
	return a, nil
}

// Run drives the main loop until the window closes or ctx is cancelled.
// Each iteration polls input, delivers finished loads, ticks the frame loop
// and presents. With VSync on, SwapBuffers paces the loop to the display.
func (a *App) Run(ctx context.Context) error {
	if err := a.composer.Start(a.window.Size()); err != nil {
		return fmt.Errorf("start scene: %w", err)
	}
	a.running = true

	var clock frameClock
	var fps fpsCounter

	a.log.Info("starting main loop")
	for a.running {
		if ctx.Err() != nil {
			a.log.Info("main loop cancelled", zap.Error(ctx.Err()))
			break
		}

		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			if event.Type == input.EventWindowResize {
				a.composer.Resize(event.Width, event.Height)
			}
		}

		now := time.Now()
		a.loader.Poll()
		a.loop.Tick(clock.Next(now))
		if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
			a.screenshot()
		}
		a.window.SwapBuffers()

		if n, ok := fps.Frame(now); ok {
			st := a.renderer.Stats()
			a.log.Debug("fps",
				zap.Int("fps", n),
				zap.Int("draw_calls", st.DrawCalls),
				zap.Int("triangles", st.Triangles),
				zap.Int("skinned", st.Skinned),
				zap.Stringer("scene", a.composer.State()),
			)
		}
	}

	return nil
}

// screenshot saves the frame just drawn, before it is presented.
func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.capturer.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// Close tears down the scene, then the loader, renderer and window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.composer != nil && a.composer.State() != scene.Disposed {
		if err := a.composer.Dispose(); err != nil {
			a.log.Warn("dispose scene", zap.Error(err))
		}
	}
	if a.loop != nil {
		a.loop.Close()
	}
	if a.loader != nil {
		a.loader.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
