package common

// Key codes delivered to window key callbacks. Printable keys use their ASCII value, the rest
// follow GLFW numbering.
const (
	KeySpace = 32
	KeyEsc   = 256
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265

	KeyB = 66 // cycle blending
	KeyC = 67 // cycle face culling
	KeyP = 80 // toggle profiler
	KeyR = 82 // reset camera
	KeyW = 87 // toggle wireframe

	Key1 = 49
	Key2 = 50
	Key3 = 51
	Key4 = 52
	Key5 = 53
	Key6 = 54
	Key7 = 55
)

// KeyDigit returns the 1-based digit for a number row key, or 0 for any other key.
func KeyDigit(keyCode uint32) int {
	if keyCode >= Key1 && keyCode <= Key1+8 {
		return int(keyCode-Key1) + 1
	}
	return 0
}
