// Package animation plays keyframed clips onto a model's nodes.
package animation

import (
	"strconv"
	"strings"

	"github.com/Faultbox/quiet-measure/internal/engine/model"
)

// SelectionPolicy picks which clip of a model to play.
type SelectionPolicy interface {
	// Select returns an index into clips. clips is never empty.
	Select(clips []*model.Clip) int
	String() string
}

type indexPolicy int

// SelectIndex plays the clip at position i of the asset's animation list,
// or the first clip when i is out of range.
func SelectIndex(i int) SelectionPolicy {
	return indexPolicy(i)
}

func (p indexPolicy) Select(clips []*model.Clip) int {
	if int(p) < 0 || int(p) >= len(clips) {
		return 0
	}
	return int(p)
}

func (p indexPolicy) String() string {
	return "index:" + strconv.Itoa(int(p))
}

type namePolicy string

// SelectName plays the first clip called name, or the first clip when no
// clip has that name.
func SelectName(name string) SelectionPolicy {
	return namePolicy(name)
}

func (p namePolicy) Select(clips []*model.Clip) int {
	for i, c := range clips {
		if c != nil && c.Name == string(p) {
			return i
		}
	}
	return 0
}

func (p namePolicy) String() string {
	return "name:" + string(p)
}

// ParsePolicy reads a policy from configuration: an empty string or an
// integer selects by index, anything else selects by name.
func ParsePolicy(s string) SelectionPolicy {
	s = strings.TrimSpace(s)
	if s == "" {
		return SelectIndex(0)
	}
	if i, err := strconv.Atoi(s); err == nil {
		return SelectIndex(i)
	}
	return SelectName(s)
}
