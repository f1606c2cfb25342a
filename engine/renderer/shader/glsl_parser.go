package shader

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// uniformDeclRegex matches uniform declarations and captures the type, the name and an optional array size.
	// Precision qualifiers are accepted and ignored.
	uniformDeclRegex = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\w+)\s*\])?\s*;`)

	// inputDeclRegex matches stage input declarations, with or without a layout qualifier.
	inputDeclRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?in\s+(\w+)\s+(\w+)\s*;`)

	// defineRegex matches object-like #define directives and captures the name and its value.
	defineRegex = regexp.MustCompile(`(?m)^\s*#\s*define\s+(\w+)[ \t]+(\S+)`)

	// identRegex matches every identifier token.
	identRegex = regexp.MustCompile(`[A-Za-z_]\w*`)
)

// glslUniform is one uniform declaration found in a stage source.
type glslUniform struct {
	name     string
	typeName string
	// arraySize is the literal or macro between the brackets, empty for scalars.
	arraySize string
}

// glslInput is one stage input declaration.
type glslInput struct {
	name     string
	typeName string
}

// parseUniforms extracts every uniform declaration from GLSL source, in source order.
// Comments are ignored.
//
// Parameters:
//   - source: the GLSL source
//
// Returns:
//   - []glslUniform: the declarations found
func parseUniforms(source string) []glslUniform {
	cleaned := stripComments(source)
	var out []glslUniform
	for _, m := range uniformDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		out = append(out, glslUniform{typeName: m[1], name: m[2], arraySize: m[3]})
	}
	return out
}

// parseInputs extracts the stage input declarations from GLSL source, in source order.
//
// Parameters:
//   - source: the GLSL source of one stage
//
// Returns:
//   - []glslInput: the declarations found
func parseInputs(source string) []glslInput {
	cleaned := stripComments(source)
	var out []glslInput
	for _, m := range inputDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		out = append(out, glslInput{typeName: m[1], name: m[2]})
	}
	return out
}

// parseDefines returns the object-like macros defined in GLSL source. Later definitions win.
func parseDefines(source string) map[string]string {
	out := make(map[string]string)
	for _, m := range defineRegex.FindAllStringSubmatch(stripComments(source), -1) {
		out[m[1]] = m[2]
	}
	return out
}

// identifiers returns the set of identifier tokens used in GLSL source outside comments.
func identifiers(source string) map[string]bool {
	out := make(map[string]bool)
	for _, id := range identRegex.FindAllString(stripComments(source), -1) {
		out[id] = true
	}
	return out
}

// referencesPrefix reports whether any identifier in source starts with prefix.
func referencesPrefix(source, prefix string) (string, bool) {
	for _, id := range identRegex.FindAllString(stripComments(source), -1) {
		if strings.HasPrefix(id, prefix) {
			return id, true
		}
	}
	return "", false
}

// checkBalanced verifies that braces, brackets and parentheses nest correctly.
//
// Parameters:
//   - source: the GLSL source
//
// Returns:
//   - error: the first unmatched or unclosed delimiter with its line, or nil
func checkBalanced(source string) error {
	type open struct {
		char rune
		line int
	}
	pairs := map[rune]rune{'}': '{', ']': '[', ')': '('}

	var stack []open
	line := 1
	for _, c := range stripComments(source) {
		switch c {
		case '\n':
			line++
		case '{', '[', '(':
			stack = append(stack, open{c, line})
		case '}', ']', ')':
			if len(stack) == 0 || stack[len(stack)-1].char != pairs[c] {
				return fmt.Errorf("line %d: unmatched %q", line, c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return fmt.Errorf("line %d: unclosed %q", top.line, top.char)
	}
	return nil
}

// stripComments removes block and line comments while keeping line breaks, so line numbers
// reported against the stripped text still match the input.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	inBlock := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case inBlock:
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlock = false
				i++
			} else if c == '\n' {
				sb.WriteByte('\n')
			}
		case c == '/' && i+1 < len(source) && source[i+1] == '*':
			inBlock = true
			i++
		case c == '/' && i+1 < len(source) && source[i+1] == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
