// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader
// source code for @oxy: annotations and replaces them with the embedded chunk they name.
//
// The chunk registry maps AnnotationArg keys to GLSL source embedded from assets/. A chunk
// is injected at most once per Process call, so two chunks may include the same dependency.
package shader

import (
	"embed"
	"fmt"
	"maps"
	"slices"
	"strings"
)

//go:embed assets/*.glsl
var assetFS embed.FS

// chunkSource reads one embedded chunk. A missing asset is a build mistake and panics.
func chunkSource(name string) string {
	b, err := assetFS.ReadFile("assets/" + name + ".glsl")
	if err != nil {
		panic(fmt.Sprintf("shader: missing embedded chunk %s: %v", name, err))
	}
	return string(b)
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// chunkRegistry maps chunk keys to their GLSL source.
	chunkRegistry map[AnnotationArg]string

	// includes accumulates the chunk keys injected during a Process call, in source order.
	includes []AnnotationArg
}

// PreProcessor processes raw GLSL shader source containing @oxy: annotations, replacing
// them with the registered chunk sources.
type PreProcessor interface {
	// Process replaces every @oxy:include annotation with the named chunk. Chunks are expanded
	// recursively and each chunk is injected at most once; later includes of the same chunk are dropped.
	//
	// Parameters:
	//   - source: the raw GLSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed GLSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown chunk
	Process(source string) (string, error)

	// Includes returns the chunk keys injected during the most recent call to Process.
	//
	// Returns:
	//   - []AnnotationArg: the chunk keys in the order they were injected
	Includes() []AnnotationArg

	// Register adds or replaces a chunk so user shaders can include it.
	//
	// Parameters:
	//   - key: the name used after @oxy:include
	//   - source: the GLSL text injected in its place
	Register(key AnnotationArg, source string)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with the built-in chunks registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	registry := make(map[AnnotationArg]string, len(validChunks))
	for _, key := range validChunks {
		registry[key] = chunkSource(string(key))
	}
	return &preProcessor{chunkRegistry: registry}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]
	seen := make(map[AnnotationArg]bool)
	return p.process(source, seen, 0)
}

// maxIncludeDepth bounds recursive chunk expansion.
const maxIncludeDepth = 8

func (p *preProcessor) process(source string, seen map[AnnotationArg]bool, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("@oxy include nesting deeper than %d", maxIncludeDepth)
	}

	extra := p.extraKeys()
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, extra)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			key := a.Args[0]
			if seen[key] {
				continue
			}
			chunk, ok := p.chunkRegistry[key]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, key)
			}
			seen[key] = true
			expanded, err := p.process(chunk, seen, depth+1)
			if err != nil {
				return "", fmt.Errorf("chunk %s: %w", key, err)
			}
			p.includes = append(p.includes, key)
			out = append(out, strings.TrimRight(expanded, "\n"))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

// extraKeys lists registered chunk keys that are not built in.
func (p *preProcessor) extraKeys() []AnnotationArg {
	var extra []AnnotationArg
	for key := range maps.Keys(p.chunkRegistry) {
		if !slices.Contains(validChunks, key) {
			extra = append(extra, key)
		}
	}
	return extra
}

func (p *preProcessor) Includes() []AnnotationArg {
	return slices.Clone(p.includes)
}

func (p *preProcessor) Register(key AnnotationArg, source string) {
	p.chunkRegistry[key] = source
}
