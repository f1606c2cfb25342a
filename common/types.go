// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Residency tracks where a cached GPU resource is in its lifecycle.
// Every cache in the renderer stores one per record and queries it once per frame.
//
//	Unloaded -> Loading -> Ready
//	                    -> Failed
type Residency int

const (
	// ResidencyUnloaded means no GPU work has been attempted yet.
	ResidencyUnloaded Residency = iota

	// ResidencyLoading means the resource was seen but its backing data is not ready yet.
	ResidencyLoading

	// ResidencyReady means the GPU handle exists and may be used.
	ResidencyReady

	// ResidencyFailed means creation was attempted and can never succeed; the resource is never used.
	ResidencyFailed
)

// String returns the lower-case name of the residency state.
func (r Residency) String() string {
	switch r {
	case ResidencyUnloaded:
		return "unloaded"
	case ResidencyLoading:
		return "loading"
	case ResidencyReady:
		return "ready"
	case ResidencyFailed:
		return "failed"
	default:
		return fmt.Sprintf("residency(%d)", int(r))
	}
}

// TextureStagingData holds RGBA pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major from the top-left corner.
	Pixels []byte
	// Width is the width of the image in pixels.
	Width int
	// Height is the height of the image in pixels.
	Height int
}

// ImportedTexture represents image data extracted from a model file or referenced on disk.
// For embedded images (GLB) the Data field holds the encoded bytes.
// For external images the Path field holds the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g. "diffuse", "px").
	Name string

	// Path is the file path for external images (empty for embedded).
	Path string

	// Data contains encoded image bytes for embedded images.
	Data []byte

	// MimeType indicates the image format (e.g. "image/png"), informational only.
	MimeType string
}

// errNoImageSource is returned when an ImportedTexture carries neither bytes nor a path.
var errNoImageSource = errors.New("texture has neither data nor path")

// Decode decodes the texture into RGBA staging data.
// PNG, JPEG and GIF are decoded by the standard library; BMP, TIFF and WebP through golang.org/x/image.
//
// Returns:
//   - *TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if the source cannot be opened or decoded
func (t *ImportedTexture) Decode() (*TextureStagingData, error) {
	if t == nil {
		return nil, fmt.Errorf("texture is nil")
	}

	if len(t.Data) > 0 {
		data, err := DecodeImage(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image %q: %w", t.Name, err)
		}
		return data, nil
	}
	if t.Path == "" {
		return nil, errNoImageSource
	}

	file, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", t.Path, err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
	}
	return data, nil
}

// DecodeImage decodes any registered image format from r and converts it to RGBA staging data.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - *TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if the format is unknown or the stream is corrupt
func DecodeImage(r io.Reader) (*TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return StageImage(img), nil
}

// StageImage converts an already-decoded image into RGBA staging data.
// Images that are already *image.RGBA with a zero origin are used without copying.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - *TextureStagingData: the RGBA pixels and dimensions
func StageImage(img image.Image) *TextureStagingData {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == bounds.Dx()*4 {
		return &TextureStagingData{Pixels: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &TextureStagingData{Pixels: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
}
