package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorInclude(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("#version 410 core\n//@oxy:include matrices\nvoid main() {}")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#version 410 core\nuniform mat4 viewMatrix;"))
	assert.Contains(t, out, "uniform vec3 cameraPosition;")
	assert.Equal(t, []AnnotationArg{AnnotationArgMatrices}, pp.Includes())
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include matrices\n//@oxy:include lights\n//@oxy:include matrices")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "uniform mat4 viewMatrix;"))
	assert.Equal(t, []AnnotationArg{AnnotationArgMatrices, AnnotationArgLights}, pp.Includes())
}

func TestPreProcessorNestedInclude(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include lights")
	require.NoError(t, err)

	assert.Contains(t, out, "uniform mat4 viewMatrix;")
	assert.Equal(t, []AnnotationArg{AnnotationArgMatrices, AnnotationArgLights}, pp.Includes())
}

func TestPreProcessorRegister(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("noise", "float noise(vec2 p) { return 0.0; }")

	out, err := pp.Process("//@oxy:include noise")
	require.NoError(t, err)
	assert.Equal(t, "float noise(vec2 p) { return 0.0; }", out)
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{"unknown chunk", "//@oxy:include skeleton", "unknown chunk"},
		{"missing argument", "//@oxy:include", "exactly one argument"},
		{"unknown type", "//@oxy:group 0 0", "unknown @oxy annotation type"},
		{"empty", "//@oxy:", "empty @oxy annotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestPreProcessorChainedChunks(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("a", "//@oxy:include b")
	pp.Register("b", "//@oxy:include c")
	pp.Register("c", "ok")

	out, err := pp.Process("//@oxy:include a")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestPlainCommentsPassThrough(t *testing.T) {
	out, err := NewPreProcessor().Process("// not an annotation\nint x; // @oxy:include matrices")
	require.NoError(t, err)
	assert.Equal(t, "// not an annotation\nint x; // @oxy:include matrices", out)
}
