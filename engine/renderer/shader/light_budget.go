package shader

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DefaultLightCeiling is the number of light slots the ubershader reserves when no ceiling is given.
const DefaultLightCeiling = 4

// LightBudget is the fixed number of directional and point light slots compiled into the ubershader.
// A zero component removes every declaration and statement for that light kind from the generated source.
type LightBudget struct {
	Directional int
	Point       int
}

// Total returns the number of light slots across both kinds.
func (b LightBudget) Total() int {
	return b.Directional + b.Point
}

// String returns the budget as "dir=N point=M".
func (b LightBudget) String() string {
	return fmt.Sprintf("dir=%d point=%d", b.Directional, b.Point)
}

// AllocateLightBudget splits a ceiling of n light slots between directional and point lights.
// When the scene fits under the ceiling the counts are used as-is. Otherwise the ceiling is shared
// proportionally, rounding the directional share up.
//
// Negative counts are treated as zero and a ceiling below 1 falls back to DefaultLightCeiling.
//
// Parameters:
//   - directional: the number of directional lights in the scene
//   - point: the number of point lights in the scene
//   - n: the maximum number of light slots
//
// Returns:
//   - LightBudget: the allocated slots, never exceeding n in total
func AllocateLightBudget(directional, point, n int) LightBudget {
	directional = max(directional, 0)
	point = max(point, 0)
	if n < 1 {
		n = DefaultLightCeiling
	}

	if directional+point <= n {
		return LightBudget{Directional: directional, Point: point}
	}

	share := float32(n) * float32(directional) / float32(directional+point)
	dir := min(int(math32.Ceil(share)), n)
	return LightBudget{Directional: dir, Point: n - dir}
}

// DefaultLightBudget returns the budget used when the renderer is built without a scene:
// one directional slot and the rest of the ceiling for point lights.
//
// Parameters:
//   - n: the maximum number of light slots
//
// Returns:
//   - LightBudget: the default split
func DefaultLightBudget(n int) LightBudget {
	if n < 1 {
		n = DefaultLightCeiling
	}
	return LightBudget{Directional: 1, Point: n - 1}
}
