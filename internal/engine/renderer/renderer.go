// Package renderer draws scene views with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/quiet-measure/internal/engine/lighting"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/internal/engine/renderer/shaders"
	"github.com/Faultbox/quiet-measure/internal/engine/scene"
	"github.com/Faultbox/quiet-measure/internal/engine/shader"
	"github.com/Faultbox/quiet-measure/internal/logger"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor string // hex; the page background behind the bird
	ClearAlpha float32
}

// DefaultConfig returns a dark background.
func DefaultConfig() Config {
	return Config{
		Width:      1280,
		Height:     720,
		ClearColor: "#0b0b12",
		ClearAlpha: 1,
	}
}

var vertexStride = int32(unsafe.Sizeof(model.Vertex{}))

// gpuPrimitive is the uploaded form of a model.Primitive.
type gpuPrimitive struct {
	vao, vbo, ebo uint32
	count         int32
	dynamic       bool
	frame         uint64
	scratch       []model.Vertex
}

// Renderer handles all OpenGL rendering. It implements scene.Drawer.
type Renderer struct {
	config  Config
	clear   [4]float32
	program *shader.Program
	log     *zap.Logger

	prims  map[*model.Primitive]*gpuPrimitive
	items  []drawItem
	joints []math.Mat4
	frame  uint64
	stats  Stats
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	bg, err := lighting.ParseColor(cfg.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("clear color: %w", err)
	}

	r := &Renderer{
		config: cfg,
		clear:  lighting.RGBA(bg, cfg.ClearAlpha),
		prims:  make(map[*model.Primitive]*gpuPrimitive),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])

	r.program, err = shader.Compile(shaders.BirdVertexShader, shaders.BirdFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("buffers", len(r.prims)))
	for prim, g := range r.prims {
		r.release(prim, g)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Stats returns counters for the last drawn frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// ReadPixels returns the current back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Draw renders one frame of v.
func (r *Renderer) Draw(v scene.View) {
	r.frame++
	r.stats = Stats{}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if v.Camera == nil {
		return
	}

	p := r.program
	p.Use()
	p.SetMat4("uViewProj", v.Camera.ViewProjection())
	p.SetVec3("uAmbient", v.Lights.Ambient.Radiance())
	p.SetVec3("uLightColor", v.Lights.Directional.Radiance())
	p.SetVec3("uLightDir", v.Lights.Directional.Direction().Array())

	r.items = drawList(v.Root, r.items[:0])
	for _, it := range r.items {
		r.drawItem(it)
	}
	gl.BindVertexArray(0)

	r.evict()
	r.stats.Buffers = len(r.prims)
}

func (r *Renderer) drawItem(it drawItem) {
	g := r.upload(it.prim, it.skin != nil)
	g.frame = r.frame

	if it.skin != nil {
		r.joints = it.skin.JointMatrices(r.joints)
		g.scratch = model.SkinVertices(it.prim, r.joints, g.scratch)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(g.scratch)*int(vertexStride), unsafe.Pointer(&g.scratch[0]))
		r.stats.Skinned++
	}

	r.program.SetMat4("uModel", it.model)
	r.program.SetMat4("uNormalMatrix", it.model.NormalMatrix())
	r.program.SetVec4("uColor", it.prim.Color)

	if it.prim.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)

	r.stats.DrawCalls++
	r.stats.Triangles += int(g.count) / 3
}

// upload returns the GPU buffers for prim, creating them on first use.
func (r *Renderer) upload(prim *model.Primitive, dynamic bool) *gpuPrimitive {
	if g, ok := r.prims[prim]; ok {
		return g
	}

	g := &gpuPrimitive{count: int32(len(prim.Indices)), dynamic: dynamic}
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(prim.Vertices)*int(vertexStride), unsafe.Pointer(&prim.Vertices[0]), usage)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(prim.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(prim.Indices)*4, unsafe.Pointer(&prim.Indices[0]), gl.STATIC_DRAW)
	}

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.prims[prim] = g
	r.log.Debug("primitive uploaded",
		zap.Uint32("vao", g.vao),
		zap.Int("vertices", len(prim.Vertices)),
		zap.Bool("dynamic", dynamic),
	)
	return g
}

// evict frees buffers of primitives that were not drawn this frame, such as
// those of a detached model.
func (r *Renderer) evict() {
	for prim, g := range r.prims {
		if g.frame != r.frame {
			r.release(prim, g)
		}
	}
}

func (r *Renderer) release(prim *model.Primitive, g *gpuPrimitive) {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	delete(r.prims, prim)
}
