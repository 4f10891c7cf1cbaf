package app

import "fmt"

// RenderSetupError reports that the window or GL context could not be
// created. The 3D scene is unavailable, but the page text still is.
type RenderSetupError struct {
	Stage string // "window" or "renderer"
	Err   error
}

func (e *RenderSetupError) Error() string {
	return fmt.Sprintf("render setup failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderSetupError) Unwrap() error {
	return e.Err
}
