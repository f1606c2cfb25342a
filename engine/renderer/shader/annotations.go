// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy GLSL shader pre-processor. Annotations are single-line GLSL comments prefixed
// with @oxy: that pull shared declaration chunks into a shader stage, so the ubershader
// and user shaders agree on the names the renderer writes.
package shader

import (
	"fmt"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the GLSL source of a registered chunk at the annotation site.
	//
	// Syntax: //@oxy:include <chunk>
	//
	// Example: //@oxy:include matrices
	AnnotationTypeInclude AnnotationType = "include"
)

// Annotation represents a single parsed @oxy: annotation from a GLSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. For include, [0] is the chunk key.
	Args []AnnotationArg

	// Line is the 1-based line number in the original source where this annotation
	// was found. Used for error reporting.
	Line int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Chunk arguments ────────────────────────────────────────────────────────────
// These identify the embedded GLSL chunks under assets/. Chunks may carry template
// actions over the LightBudget; they are only expanded when the ubershader is generated.

const (
	// AnnotationArgMatrices declares the per-draw matrix uniforms and the camera position.
	// Source: assets/matrices.glsl
	AnnotationArgMatrices AnnotationArg = "matrices"

	// AnnotationArgAttributes declares the position, normal and uv vertex inputs.
	// Source: assets/attributes.glsl
	AnnotationArgAttributes AnnotationArg = "attributes"

	// AnnotationArgLights declares the light uniforms and the lighting function. Budget driven.
	// Source: assets/lights.glsl
	AnnotationArgLights AnnotationArg = "lights"

	// AnnotationArgMaterial declares the material uniforms shared by every built-in kind.
	// Source: assets/material.glsl
	AnnotationArgMaterial AnnotationArg = "material"

	// AnnotationArgEnvironment declares the environment sampling helpers.
	// Source: assets/environment.glsl
	AnnotationArgEnvironment AnnotationArg = "environment"
)

// validChunks lists all AnnotationArg values accepted by @oxy:include.
var validChunks = []AnnotationArg{
	AnnotationArgMatrices,
	AnnotationArgAttributes,
	AnnotationArgLights,
	AnnotationArgMaterial,
	AnnotationArgEnvironment,
}

// parseAnnotation attempts to parse a single line of GLSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Chunk keys registered through WithChunk are accepted in addition to the built-in ones.
//
// Parameters:
//   - line: the raw GLSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//   - extra: additional chunk keys that are valid include targets
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int, extra []AnnotationArg) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	_, after, ok := strings.Cut(rest, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(AnnotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		arg := AnnotationArg(args[1])
		if !slices.Contains(validChunks, arg) && !slices.Contains(extra, arg) {
			return nil, fmt.Errorf("line %d: unknown chunk %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{arg},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
