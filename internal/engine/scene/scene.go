// Package scene composes the camera, lights and loaded model into a
// continuously rendered scene.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/quiet-measure/internal/assets"
	"github.com/Faultbox/quiet-measure/internal/engine/animation"
	"github.com/Faultbox/quiet-measure/internal/engine/camera"
	"github.com/Faultbox/quiet-measure/internal/engine/frameloop"
	"github.com/Faultbox/quiet-measure/internal/engine/layout"
	"github.com/Faultbox/quiet-measure/internal/engine/lighting"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/internal/engine/motion"
	"github.com/Faultbox/quiet-measure/internal/logger"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Loader requests an asset and later delivers it on the frame loop goroutine.
type Loader interface {
	Request(path string, cb assets.Callback)
}

// PointerSource returns the current normalized pointer position.
type PointerSource interface {
	Pointer() math.Vec2
}

// Drawer renders a View. Resize is called synchronously from Composer.Resize.
type Drawer interface {
	Resize(width, height int)
	Draw(v View)
}

// View is everything a Drawer needs for one frame.
type View struct {
	Camera *camera.PerspectiveCamera
	Lights lighting.Rig
	Root   *model.Node // the model group; no children until the model is attached
}

// Config holds composer settings.
type Config struct {
	ModelPath string
	Camera    camera.Config
	Lights    lighting.Config
	Layout    layout.Table
	Play      animation.PlayOptions
}

// DefaultConfig returns the shipped scene.
func DefaultConfig() Config {
	return Config{
		ModelPath: "/phoenix_bird.glb",
		Camera:    camera.DefaultConfig(),
		Lights:    lighting.DefaultConfig(),
		Layout:    layout.DefaultTable(),
		Play: animation.PlayOptions{
			Policy:    animation.SelectIndex(0),
			FadeIn:    0.5,
			TimeScale: 1.5,
		},
	}
}

// Deps are the composer's collaborators.
type Deps struct {
	Loader  Loader
	Drawer  Drawer
	Loop    *frameloop.Loop
	Updater motion.Updater // nil means no procedural motion
	Pointer PointerSource  // nil means a centered pointer
}

// Composer owns the camera, lights and model group for one scene lifetime.
type Composer struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	state  State
	camera *camera.PerspectiveCamera
	lights lighting.Rig
	group  *model.Node

	model   *model.Model
	mixer   *animation.Mixer
	action  *animation.Action
	loadErr error

	sub           *frameloop.Subscription
	band          layout.Band
	width, height int
}

// New creates a composer in the Uninitialized state.
func New(cfg Config, deps Deps) (*Composer, error) {
	if deps.Loader == nil || deps.Drawer == nil || deps.Loop == nil {
		return nil, errors.New("scene: loader, drawer and loop are required")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("scene layout: %w", err)
	}
	rig, err := lighting.NewRig(cfg.Lights)
	if err != nil {
		return nil, fmt.Errorf("scene lights: %w", err)
	}
	if deps.Updater == nil {
		deps.Updater = motion.Nop{}
	}

	return &Composer{
		cfg:    cfg,
		deps:   deps,
		log:    logger.Named("scene"),
		camera: camera.NewPerspectiveCamera(cfg.Camera),
		lights: rig,
		group:  model.NewNode("model"),
	}, nil
}

// State returns the lifecycle state.
func (c *Composer) State() State {
	return c.state
}

// Camera returns the scene camera.
func (c *Composer) Camera() *camera.PerspectiveCamera {
	return c.camera
}

// Lights returns the scene lights.
func (c *Composer) Lights() lighting.Rig {
	return c.lights
}

// Group returns the node the model is attached under. Layout placement and
// procedural motion are applied to it.
func (c *Composer) Group() *model.Node {
	return c.group
}

// Model returns the attached model, or nil while loading or after a failed load.
func (c *Composer) Model() *model.Model {
	return c.model
}

// Action returns the playing clip action, or nil when the model has no clips.
func (c *Composer) Action() *animation.Action {
	return c.action
}

// LoadErr returns the load failure that left the scene without a model.
func (c *Composer) LoadErr() error {
	return c.loadErr
}

// Band returns the current layout band.
func (c *Composer) Band() layout.Band {
	return c.band
}

// View returns the current frame description.
func (c *Composer) View() View {
	return View{Camera: c.camera, Lights: c.lights, Root: c.group}
}

func (c *Composer) transition(to State) error {
	if !canTransition(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, to)
	}
	if c.state != to {
		c.log.Info("scene state", zap.Stringer("from", c.state), zap.Stringer("to", to))
	}
	c.state = to
	return nil
}

// Start sizes the viewport, begins continuous rendering and requests the
// model. Frames render lights only until the model arrives.
func (c *Composer) Start(width, height int) error {
	if err := c.transition(Loading); err != nil {
		return err
	}
	c.Resize(width, height)
	c.sub = c.deps.Loop.Subscribe(c.tick)
	c.deps.Loader.Request(c.cfg.ModelPath, c.onLoad)
	return nil
}

func (c *Composer) onLoad(m *model.Model, err error) {
	if c.state != Loading {
		// Disposed before the load finished.
		return
	}
	if err != nil {
		c.loadErr = err
		c.log.Warn("model unavailable, rendering lights only", zap.String("path", c.cfg.ModelPath), zap.Error(err))
		_ = c.transition(Ready)
		return
	}

	c.model = m
	c.group.Add(m.Root)
	c.mixer = animation.NewMixer(m.Nodes)
	c.action, err = c.mixer.Play(m.Clips, c.cfg.Play)
	if err != nil {
		c.log.Warn("animation not started", zap.Error(err))
	}
	if c.action != nil {
		c.log.Info("playing clip",
			zap.String("clip", c.action.Clip.Name),
			zap.Int("clips", len(m.Clips)),
			zap.Bool("animated", model.HasAnimation(m.Clips)),
		)
	}
	c.applyLayout()
	_ = c.transition(Ready)
}

// Resize updates the camera aspect and the drawer's output size before
// returning. A breakpoint change while Ready re-applies the placement.
func (c *Composer) Resize(width, height int) {
	if c.state == Disposed || width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.camera.SetViewport(width, height)
	c.deps.Drawer.Resize(width, height)

	band := c.cfg.Layout.Select(width).Band
	if band == c.band {
		return
	}
	c.log.Debug("breakpoint", zap.String("band", string(band)), zap.Int("width", width))
	c.band = band
	if c.state == Ready {
		c.applyLayout()
		_ = c.transition(Ready)
	}
}

func (c *Composer) applyLayout() {
	bp := c.cfg.Layout.Select(c.width)
	c.band = bp.Band
	c.group.Translation = bp.Placement.Position
	s := bp.Placement.Scale
	c.group.Scale = math.Vec3{X: s, Y: s, Z: s}
}

// motionTarget is the node procedural motion drives: the group once a model
// is attached, nil otherwise.
func (c *Composer) motionTarget() *model.Node {
	if c.model == nil {
		return nil
	}
	return c.group
}

func (c *Composer) tick(dt, elapsed float32) {
	var pointer math.Vec2
	if c.deps.Pointer != nil {
		pointer = c.deps.Pointer.Pointer()
	}

	if c.mixer != nil {
		c.mixer.Update(dt)
	}
	c.deps.Updater.Update(c.motionTarget(), motion.Frame{Delta: dt, Elapsed: elapsed, Pointer: pointer})
	c.deps.Drawer.Draw(c.View())
}

// Dispose stops rendering, animation and timelines and detaches the model.
func (c *Composer) Dispose() error {
	if err := c.transition(Disposed); err != nil {
		return err
	}
	c.sub.Cancel()
	if c.mixer != nil {
		c.mixer.Stop()
	}
	if s, ok := c.deps.Updater.(interface{ Stop() }); ok {
		s.Stop()
	}
	if c.model != nil {
		c.group.Remove(c.model.Root)
	}
	c.model = nil
	c.mixer = nil
	c.action = nil
	return nil
}
