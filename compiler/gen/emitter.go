package gen

// Emitter renders source text for resolved definitions of one target
// language. Implementations live in subpackages (compiler/gen/java,
// compiler/gen/scala) and are registered on the Generator from outside the
// package to avoid import cycles.
//
// Emission must be a pure function of the resolved model: identical
// definitions render to byte-identical text regardless of call order.
type Emitter interface {
	// Target reports the language this emitter renders.
	Target() Target
	// Extension returns the rendered file extension, including the dot.
	Extension() string
	// GenRecord renders a record definition.
	GenRecord(d *Definition) (string, error)
	// GenInterface renders an interface definition.
	GenInterface(d *Definition) (string, error)
	// GenEnum renders an enum definition.
	GenEnum(d *Definition) (string, error)
}

// CodecEmitter renders JSON codec sources for resolved definitions and the
// aggregate full codec. Like Emitter, implementations are registered from
// outside the package.
type CodecEmitter interface {
	// FormatPath returns the destination path of the per-type codec for d,
	// relative to the output directory.
	FormatPath(g *Graph, d *Definition) string
	// GenFormat renders the per-type codec for d.
	GenFormat(g *Graph, d *Definition) (string, error)
	// FullCodecPath returns the destination path of the aggregate codec.
	FullCodecPath(g *Graph) string
	// GenFullCodec renders the aggregate codec composing every per-type codec.
	GenFullCodec(g *Graph) (string, error)
}
