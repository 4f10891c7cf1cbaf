// Package easing maps configuration names to easing curves.
package easing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownCurve is returned by Lookup for names it does not know.
var ErrUnknownCurve = errors.New("unknown easing curve")

// Func maps progress in [0,1] to eased progress in [0,1].
type Func func(t float64) float64

// Linear is the identity curve.
var Linear Func = ease.Linear

var curves = map[string]Func{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-quart":     ease.InQuart,
	"out-quart":    ease.OutQuart,
	"in-out-quart": ease.InOutQuart,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// Lookup returns the curve registered under name. Names are case-insensitive
// and an empty name means linear.
func Lookup(name string) (Func, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, nil
	}
	f, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return f, nil
}

// Names returns the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
