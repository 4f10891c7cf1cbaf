// Package formats provides parsers for the 3D asset formats the showcase loads.
package formats

// Note: binary glTF (GLB) and embedded-buffer glTF JSON are implemented in glb.go
// Note: accessor decoding is implemented in accessor.go
