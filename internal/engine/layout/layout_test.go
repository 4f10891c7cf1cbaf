package layout

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

func TestSelectBoundaries(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		width int
		want  Band
	}{
		{0, Small},
		{320, Small},
		{767, Small},
		{768, Medium},
		{1199, Medium},
		{1200, Large},
		{3840, Large},
	}
	for _, tt := range tests {
		if got := table.Select(tt.width).Band; got != tt.want {
			t.Errorf("Select(%d) = %s, want %s", tt.width, got, tt.want)
		}
	}
}

func TestSelectEmptyTable(t *testing.T) {
	bp := Table{}.Select(1000)
	if bp.Band != Large || bp.Placement.Scale != 1 {
		t.Errorf("expected unit large placement, got %+v", bp)
	}
}

func TestDefaultTableIsValid(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	if p := DefaultTable().Select(1920).Placement; p.Position != (math.Vec3{Y: -2}) {
		t.Errorf("expected large position (0,-2,0), got %v", p.Position)
	}
}

func TestValidate(t *testing.T) {
	unit := Placement{Scale: 1}
	tests := []struct {
		name  string
		table Table
	}{
		{"empty", Table{}},
		{"unsorted", Table{{Band: "a", MaxWidth: 900, Placement: unit}, {Band: "b", MaxWidth: 800, Placement: unit}, {Band: "c", Placement: unit}}},
		{"closed last", Table{{Band: "a", MaxWidth: 900, Placement: unit}}},
		{"open middle", Table{{Band: "a", Placement: unit}, {Band: "b", Placement: unit}}},
		{"zero scale", Table{{Band: "a", Placement: Placement{}}}},
		{"unnamed", Table{{Placement: unit}}},
		{"nan position", Table{{Band: "a", Placement: Placement{Position: math.Vec3{Y: float32(stdmath.NaN())}, Scale: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.table.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
