// glTF 2.0 document parser (binary GLB container and JSON with embedded buffers).
package formats

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// glTF format errors.
var (
	ErrInvalidGLBMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion = errors.New("unsupported GLB version: must be 2")
	ErrTruncatedGLBData      = errors.New("truncated GLB data")
	ErrMissingJSONChunk      = errors.New("GLB file missing JSON chunk")
	ErrUnsupportedVersion    = errors.New("unsupported glTF version: must be 2.x")
	ErrInvalidBufferURI      = errors.New("invalid buffer URI")
	ErrBufferSizeMismatch    = errors.New("buffer size mismatch")
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

// Accessor component types.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Accessor element types.
const (
	AccessorScalar = "SCALAR"
	AccessorVec2   = "VEC2"
	AccessorVec3   = "VEC3"
	AccessorVec4   = "VEC4"
	AccessorMat4   = "MAT4"
)

// Animation channel target paths.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// Sampler interpolation modes.
const (
	InterpolationLinear = "LINEAR"
	InterpolationStep   = "STEP"
	InterpolationCubic  = "CUBICSPLINE"
)

// GLTF is a parsed glTF 2.0 document with its buffers resolved.
type GLTF struct {
	Asset       Asset        `json:"asset"`
	Scene       *int         `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	Skins       []Skin       `json:"skins,omitempty"`
	Animations  []Animation  `json:"animations,omitempty"`
}

// Asset holds document metadata.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Scene lists the root nodes of one scene.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node is one entry of the node hierarchy.
type Node struct {
	Name        string       `json:"name,omitempty"`
	Children    []int        `json:"children,omitempty"`
	Mesh        *int         `json:"mesh,omitempty"`
	Skin        *int         `json:"skin,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"`
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"`
	Scale       *[3]float32  `json:"scale,omitempty"`
}

// Mesh is a set of primitives drawn together.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is a single draw call worth of geometry.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

// Material holds the subset of PBR parameters used for flat shading.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PbrMetallicRoughness *PbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
}

// PbrMetallicRoughness holds the base color factor.
type PbrMetallicRoughness struct {
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`
}

// Accessor describes a typed view into a buffer view.
type Accessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Normalized    bool      `json:"normalized,omitempty"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

// Buffer is a block of binary data, resolved after parsing.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	Data       []byte `json:"-"`
}

// Skin binds a mesh to a joint hierarchy.
type Skin struct {
	Name                string `json:"name,omitempty"`
	InverseBindMatrices *int   `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int   `json:"skeleton,omitempty"`
	Joints              []int  `json:"joints"`
}

// Animation is a named set of channels driven by samplers.
type Animation struct {
	Name     string             `json:"name,omitempty"`
	Channels []AnimationChannel `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
}

// AnimationChannel binds a sampler to a node property.
type AnimationChannel struct {
	Sampler int             `json:"sampler"`
	Target  AnimationTarget `json:"target"`
}

// AnimationTarget names the animated node and property.
type AnimationTarget struct {
	Node *int   `json:"node,omitempty"`
	Path string `json:"path"`
}

// AnimationSampler pairs keyframe times (input) with values (output).
type AnimationSampler struct {
	Input         int    `json:"input"`
	Output        int    `json:"output"`
	Interpolation string `json:"interpolation,omitempty"`
}

// SceneRoots returns the root node indices of the default scene.
// Documents without scenes treat every parentless node as a root.
func (g *GLTF) SceneRoots() []int {
	if len(g.Scenes) > 0 {
		idx := 0
		if g.Scene != nil && *g.Scene >= 0 && *g.Scene < len(g.Scenes) {
			idx = *g.Scene
		}
		return g.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// LoadGLB reads and parses a .glb file from disk.
func LoadGLB(path string) (*GLTF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GLB: %w", err)
	}
	return ParseGLB(data)
}

// Parse detects the container (binary or JSON) and parses accordingly.
func Parse(data []byte) (*GLTF, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic {
		return ParseGLB(data)
	}
	return ParseGLTF(data)
}

// ParseGLB parses a binary glTF container.
func ParseGLB(data []byte) (*GLTF, error) {
	if len(data) < 12 {
		return nil, ErrTruncatedGLBData
	}

	r := bytes.NewReader(data)

	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, ErrInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedGLBVersion, header.Version)
	}

	var jsonChunk, binChunk []byte
	for {
		var chunk struct {
			Length uint32
			Type   uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: chunk header", ErrTruncatedGLBData)
		}
		if int64(chunk.Length) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: chunk of %d bytes", ErrTruncatedGLBData, chunk.Length)
		}

		payload := make([]byte, chunk.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: chunk data", ErrTruncatedGLBData)
		}

		switch chunk.Type {
		case glbChunkJSON:
			jsonChunk = payload
		case glbChunkBIN:
			binChunk = payload
		}
	}

	if jsonChunk == nil {
		return nil, ErrMissingJSONChunk
	}

	return decodeDocument(jsonChunk, binChunk)
}

// ParseGLTF parses a glTF JSON document whose buffers are embedded data URIs.
func ParseGLTF(data []byte) (*GLTF, error) {
	return decodeDocument(data, nil)
}

func decodeDocument(jsonData, binChunk []byte) (*GLTF, error) {
	var doc GLTF
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("decoding glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedVersion, doc.Asset.Version)
	}

	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && binChunk != nil:
			buf.Data = binChunk
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return nil, fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			return nil, fmt.Errorf("buffer %d: %w: external buffers are not supported", i, ErrInvalidBufferURI)
		}
		if len(buf.Data) < buf.ByteLength {
			return nil, fmt.Errorf("buffer %d: %w", i, ErrBufferSizeMismatch)
		}
	}

	return &doc, nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, ErrInvalidBufferURI
	}
	if !strings.Contains(uri[5:comma], "base64") {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrInvalidBufferURI)
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBufferURI, err)
	}
	return data, nil
}
