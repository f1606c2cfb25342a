package shader

// FactoryBuilderOption is a function that configures a factory instance during construction.
type FactoryBuilderOption func(*factory)

// WithChunk registers an additional GLSL chunk that custom shader sources can pull in with
// //@oxy:include <key>. Registering a built-in key replaces that chunk for the ubershader too.
//
// Parameters:
//   - key: the name used after @oxy:include
//   - source: the GLSL text injected in its place
//
// Returns:
//   - FactoryBuilderOption: a function that registers the chunk on the factory's pre-processor
func WithChunk(key AnnotationArg, source string) FactoryBuilderOption {
	return func(f *factory) {
		f.pp.Register(key, source)
	}
}

// WithPreProcessor replaces the factory's pre-processor.
func WithPreProcessor(pp PreProcessor) FactoryBuilderOption {
	return func(f *factory) {
		if pp != nil {
			f.pp = pp
		}
	}
}
