package animation

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/kamstrup/intmap"

	"github.com/Faultbox/quiet-measure/internal/engine/easing"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// ErrInvalidOptions is returned by Play for non-finite or negative options.
var ErrInvalidOptions = errors.New("invalid play options")

// PlayOptions configures Mixer.Play.
type PlayOptions struct {
	Policy    SelectionPolicy // nil selects the first clip
	FadeIn    float32         // seconds; <= 0 starts at full weight
	TimeScale float32         // 0 means 1
	FadeCurve easing.Func     // nil means linear
}

// Action is the playback state of one clip: a looping time cursor with a
// weight that ramps in over the fade duration.
type Action struct {
	Clip      *model.Clip
	Time      float32 // seconds, in [0, Clip.Duration)
	TimeScale float32
	Weight    float32 // in [0,1]

	fadeIn    float32
	fadeTime  float32
	fadeCurve easing.Func
	playing   bool
}

// Playing reports whether the action advances on Update.
func (a *Action) Playing() bool {
	return a.playing
}

// Stop halts the action. Its pose stops contributing on the next Update.
func (a *Action) Stop() {
	a.playing = false
}

// Reset rewinds the action and restarts its fade-in.
func (a *Action) Reset() {
	a.Time = 0
	a.fadeTime = 0
	a.Weight = a.weightAt(0)
}

func (a *Action) weightAt(t float32) float32 {
	if a.fadeIn <= 0 {
		return 1
	}
	p := math.Clamp(t/a.fadeIn, 0, 1)
	curve := a.fadeCurve
	if curve == nil {
		curve = easing.Linear
	}
	return math.Clamp(float32(curve(float64(p))), 0, 1)
}

func (a *Action) advance(dt float32) {
	if a.fadeTime < a.fadeIn {
		a.fadeTime += dt
	}
	a.Weight = a.weightAt(a.fadeTime)

	d := a.Clip.Duration
	if d <= 0 {
		a.Time = 0
		return
	}
	t := stdmath.Mod(float64(a.Time)+float64(dt*a.TimeScale), float64(d))
	if t < 0 {
		t += float64(d)
	}
	a.Time = float32(t)
	if a.Time >= d {
		a.Time = 0
	}
}

// Mixer drives actions onto the nodes of one model. Actions are keyed by
// clip index and created on first use.
type Mixer struct {
	nodes   []*model.Node
	actions *intmap.Map[int, *Action]
	order   []int
	touched map[*model.Node]struct{}
}

// NewMixer binds a mixer to nodes, indexed the way clip channels target them.
func NewMixer(nodes []*model.Node) *Mixer {
	return &Mixer{
		nodes:   nodes,
		actions: intmap.New[int, *Action](4),
		touched: make(map[*model.Node]struct{}),
	}
}

// Action returns the action for clip index i, if one was created.
func (m *Mixer) Action(i int) (*Action, bool) {
	return m.actions.Get(i)
}

// Len returns the number of actions created so far.
func (m *Mixer) Len() int {
	return m.actions.Len()
}

// ClipAction returns the action for clips[i], creating it if needed.
// It returns nil when i is out of range.
func (m *Mixer) ClipAction(clips []*model.Clip, i int) *Action {
	if i < 0 || i >= len(clips) || clips[i] == nil {
		return nil
	}
	a, ok := m.actions.Get(i)
	if ok && a.Clip == clips[i] {
		return a
	}
	if !ok {
		m.order = append(m.order, i)
	}
	a = &Action{Clip: clips[i], TimeScale: 1, Weight: 1}
	m.actions.Put(i, a)
	return a
}

// Play selects a clip with opts.Policy, resets its action and starts it
// looping. With no clips it does nothing and returns a nil action.
func (m *Mixer) Play(clips []*model.Clip, opts PlayOptions) (*Action, error) {
	if len(clips) == 0 {
		return nil, nil
	}
	if !math.IsFinite(float64(opts.FadeIn)) || !math.IsFinite(float64(opts.TimeScale)) || opts.TimeScale < 0 {
		return nil, fmt.Errorf("%w: fade %v, time scale %v", ErrInvalidOptions, opts.FadeIn, opts.TimeScale)
	}

	policy := opts.Policy
	if policy == nil {
		policy = SelectIndex(0)
	}
	i := policy.Select(clips)
	a := m.ClipAction(clips, i)
	if a == nil {
		return nil, fmt.Errorf("%w: no clip at index %d", ErrInvalidOptions, i)
	}

	a.TimeScale = opts.TimeScale
	if a.TimeScale == 0 {
		a.TimeScale = 1
	}
	a.fadeIn = opts.FadeIn
	a.fadeCurve = opts.FadeCurve
	a.Reset()
	a.playing = true
	return a, nil
}

// Update advances every playing action by dt seconds and writes the blended
// pose into the bound nodes. Non-finite or negative dt is ignored.
func (m *Mixer) Update(dt float32) {
	if !math.IsFinite(float64(dt)) || dt < 0 {
		return
	}

	for _, i := range m.order {
		if a, ok := m.actions.Get(i); ok && a.playing {
			a.advance(dt)
		}
	}
	m.apply()
}

// apply resets every node a clip has touched to its rest pose, then layers
// each playing action on top by weight.
func (m *Mixer) apply() {
	for n := range m.touched {
		n.ResetToRest()
	}

	for _, i := range m.order {
		a, ok := m.actions.Get(i)
		if !ok || !a.playing || a.Weight <= 0 {
			continue
		}
		for ci := range a.Clip.Channels {
			ch := &a.Clip.Channels[ci]
			n := m.node(ch.Target)
			if n == nil {
				continue
			}
			m.touched[n] = struct{}{}
			switch ch.Path {
			case model.PathTranslation:
				n.Translation = n.Translation.Lerp(ch.SampleVector(a.Time), a.Weight)
			case model.PathRotation:
				n.Rotation = n.Rotation.Slerp(ch.SampleRotation(a.Time), a.Weight)
			case model.PathScale:
				n.Scale = n.Scale.Lerp(ch.SampleVector(a.Time), a.Weight)
			}
		}
	}
}

func (m *Mixer) node(i int) *model.Node {
	if i < 0 || i >= len(m.nodes) {
		return nil
	}
	return m.nodes[i]
}

// Stop halts every action and returns touched nodes to their rest pose.
func (m *Mixer) Stop() {
	m.actions.ForEach(func(_ int, a *Action) bool {
		a.Stop()
		return true
	})
	for n := range m.touched {
		n.ResetToRest()
	}
	clear(m.touched)
}
