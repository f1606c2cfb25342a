package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateLightBudget(t *testing.T) {
	tests := []struct {
		name     string
		dir      int
		point    int
		n        int
		expected LightBudget
	}{
		{"fits", 1, 2, 4, LightBudget{1, 2}},
		{"exact", 2, 2, 4, LightBudget{2, 2}},
		{"proportional", 3, 5, 4, LightBudget{2, 2}},
		{"directional heavy", 7, 1, 4, LightBudget{4, 0}},
		{"point only", 0, 9, 4, LightBudget{0, 4}},
		{"directional only", 9, 0, 4, LightBudget{4, 0}},
		{"empty", 0, 0, 4, LightBudget{0, 0}},
		{"negative counts", -1, -3, 4, LightBudget{0, 0}},
		{"bad ceiling", 3, 5, 0, LightBudget{2, 2}},
		{"ceiling one", 1, 1, 1, LightBudget{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AllocateLightBudget(tt.dir, tt.point, tt.n))
		})
	}
}

func TestAllocateLightBudgetNeverExceedsCeiling(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for d := 0; d <= 10; d++ {
			for p := 0; p <= 10; p++ {
				b := AllocateLightBudget(d, p, n)
				assert.LessOrEqual(t, b.Total(), n, "d=%d p=%d n=%d", d, p, n)
				assert.GreaterOrEqual(t, b.Directional, 0)
				assert.GreaterOrEqual(t, b.Point, 0)
			}
		}
	}
}

func TestDefaultLightBudget(t *testing.T) {
	assert.Equal(t, LightBudget{Directional: 1, Point: 3}, DefaultLightBudget(4))
	assert.Equal(t, LightBudget{Directional: 1, Point: 3}, DefaultLightBudget(-2))
	assert.Equal(t, LightBudget{Directional: 1, Point: 0}, DefaultLightBudget(1))
	assert.Equal(t, "dir=1 point=3", DefaultLightBudget(4).String())
}
