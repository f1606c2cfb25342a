package shader

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"text/template"
)

// ErrValidation is returned when generated ubershader source fails its structural checks.
var ErrValidation = errors.New("shader: generated source failed validation")

// Source is the GLSL text of both stages of one program.
type Source struct {
	Vertex   string
	Fragment string
}

var (
	ubershaderVertex   = chunkSource("ubershader.vert")
	ubershaderFragment = chunkSource("ubershader.frag")
)

// MatrixUniforms are the per-draw transform uniforms every program may declare.
var MatrixUniforms = []string{
	"viewMatrix",
	"modelViewMatrix",
	"projectionMatrix",
	"normalMatrix",
	"objMatrix",
	"cameraPosition",
}

// materialUniforms are the uniforms the binder writes for built-in material kinds.
var materialUniforms = []string{
	"material",
	"mColor",
	"mOpacity",
	"mAmbient",
	"mSpecular",
	"mShininess",
	"enableMap",
	"tMap",
	"enableCubeMap",
	"tCube",
	"mixEnvMap",
	"mReflectivity",
	"useRefract",
	"mRefractionRatio",
	"m2Near",
	"mFarPlusNear",
	"mFarMinusNear",
}

// lightUniforms are the per-frame light uniforms, split by the kind they describe.
var (
	ambientUniforms     = []string{"enableLighting", "ambientLightColor"}
	directionalUniforms = []string{"directionalLightNumber", "directionalLightColor", "directionalLightDirection"}
	pointUniforms       = []string{"pointLightNumber", "pointLightColor", "pointLightPosition"}
)

// UbershaderUniforms lists every uniform the renderer writes to an ubershader generated for budget.
//
// Parameters:
//   - budget: the light budget the ubershader was generated for
//
// Returns:
//   - []string: the uniform names
func UbershaderUniforms(budget LightBudget) []string {
	names := slices.Concat(MatrixUniforms, materialUniforms, ambientUniforms)
	if budget.Directional > 0 {
		names = append(names, directionalUniforms...)
	}
	if budget.Point > 0 {
		names = append(names, pointUniforms...)
	}
	return names
}

// GenerateUbershader builds the shared program source for every built-in material kind with light
// arrays sized by budget. The output is validated before it is returned.
//
// Parameters:
//   - budget: the fixed light slot counts
//
// Returns:
//   - Source: the vertex and fragment stages
//   - error: an error wrapping ErrValidation if the output is malformed
func GenerateUbershader(budget LightBudget) (Source, error) {
	return generateUbershader(NewPreProcessor(), budget)
}

func generateUbershader(pp PreProcessor, budget LightBudget) (Source, error) {
	if budget.Directional < 0 || budget.Point < 0 {
		return Source{}, fmt.Errorf("%w: negative light budget %s", ErrValidation, budget)
	}

	vertex, err := expandStage(pp, "ubershader.vert", ubershaderVertex, budget)
	if err != nil {
		return Source{}, err
	}
	fragment, err := expandStage(pp, "ubershader.frag", ubershaderFragment, budget)
	if err != nil {
		return Source{}, err
	}

	src := Source{Vertex: vertex, Fragment: fragment}
	if err := validateUbershader(src, budget); err != nil {
		return Source{}, err
	}
	return src, nil
}

// expandStage runs the pre-processor over one stage and then the budget template.
func expandStage(pp PreProcessor, name, raw string, budget LightBudget) (string, error) {
	processed, err := pp.Process(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(processed)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, budget); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return buf.String(), nil
}

// validateUbershader checks delimiter nesting, required uniform declarations, array sizes and
// the absence of any reference to a light kind with a zero budget.
func validateUbershader(src Source, budget LightBudget) error {
	stages := []struct {
		name string
		text string
	}{
		{"vertex", src.Vertex},
		{"fragment", src.Fragment},
	}

	declared := make(map[string]glslUniform)
	for _, stage := range stages {
		if err := checkBalanced(stage.text); err != nil {
			return fmt.Errorf("%w: %s stage: %v", ErrValidation, stage.name, err)
		}
		for _, u := range parseUniforms(stage.text) {
			declared[u.name] = u
		}
	}

	for _, name := range UbershaderUniforms(budget) {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("%w: uniform %s is not declared", ErrValidation, name)
		}
	}

	defines := parseDefines(src.Fragment)
	checks := []struct {
		slots  int
		macro  string
		prefix string
	}{
		{budget.Directional, "MAX_DIR_LIGHTS", "directionalLight"},
		{budget.Point, "MAX_POINT_LIGHTS", "pointLight"},
	}
	for _, c := range checks {
		if c.slots == 0 {
			for _, stage := range stages {
				if id, ok := referencesPrefix(stage.text, c.prefix); ok {
					return fmt.Errorf("%w: %s stage references %s with a zero budget", ErrValidation, stage.name, id)
				}
				if identifiers(stage.text)[c.macro] {
					return fmt.Errorf("%w: %s stage references %s with a zero budget", ErrValidation, stage.name, c.macro)
				}
			}
			continue
		}
		if defines[c.macro] != strconv.Itoa(c.slots) {
			return fmt.Errorf("%w: %s is %q, want %d", ErrValidation, c.macro, defines[c.macro], c.slots)
		}
	}
	return nil
}
