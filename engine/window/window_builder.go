package window

import "github.com/Carmen-Shannon/oxy-gl/engine/config"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMaxSize limits how far the window can be resized up. Defaults to 1600x1200.
//
// Parameters:
//   - maxWidth: maximum width in screen coordinates
//   - maxHeight: maximum height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithMinSize limits how far the window can be resized down. Defaults to 600x200.
func WithMinSize(minWidth, minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
	}
}

// WithSize sets the requested window size. Width and Height report the framebuffer size, which
// differs on high-DPI displays. Defaults to 1280x720.
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width, w.height = width, height
	}
}

// WithVSync sets whether SwapBuffers waits for vertical blank. Defaults to true.
//
// Parameters:
//   - enabled: true to sync to the display refresh
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = enabled
	}
}

// OptionsFromConfig converts a config window section. Zero fields keep the defaults.
//
// Parameters:
//   - c: the window section of a config file
//
// Returns:
//   - []WindowBuilderOption: the options to pass to NewWindow
func OptionsFromConfig(c config.Window) []WindowBuilderOption {
	var opts []WindowBuilderOption
	if c.Title != "" {
		opts = append(opts, WithTitle(c.Title))
	}
	opts = append(opts, func(w *engineWindow) {
		keepPositive(&w.width, c.Width)
		keepPositive(&w.height, c.Height)
		keepPositive(&w.minWidth, c.MinWidth)
		keepPositive(&w.minHeight, c.MinHeight)
		keepPositive(&w.maxWidth, c.MaxWidth)
		keepPositive(&w.maxHeight, c.MaxHeight)
	})
	if c.VSync != nil {
		opts = append(opts, WithVSync(*c.VSync))
	}
	return opts
}

func keepPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
