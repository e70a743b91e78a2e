package gen

import (
	"path"
	"runtime"
	"strings"
)

// FileNamingFunc maps a resolved definition to its destination path,
// relative to the output directory.
type FileNamingFunc func(d *Definition, ext string) string

// Config carries the recognized generation settings.
type Config struct {
	// SourceDir is where schema documents are discovered. Used by the glue
	// layer only; the core never reads the file system.
	SourceDir string
	// OutputDir is where rendered sources are written. Used by the glue
	// layer only; the core returns rendered text keyed by relative path.
	OutputDir string
	// Header is the comment text placed at the top of every generated file.
	Header string
	// Workers bounds parallel emission.
	Workers int
	// SealInterfaces marks generated interfaces as closed to extension.
	// Recognized by the Scala emitter only.
	SealInterfaces bool
	// CodecNamespace is the namespace codec sources are generated under.
	// Codec generation is enabled when it is non-empty (here or in the
	// schema document).
	CodecNamespace string
	// FullCodecName is the name of the aggregate codec composing all
	// per-type codecs.
	FullCodecName string
	// FileNaming maps definitions to destination paths.
	FileNaming FileNamingFunc
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig builds a Config from the given options, applying defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func defaultConfig() *Config {
	return &Config{
		Header:     "Code generated by growable. DO NOT EDIT.",
		Workers:    runtime.GOMAXPROCS(0),
		FileNaming: NamespaceDirs,
	}
}

// WithSourceDir sets the schema discovery directory.
func WithSourceDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("SourceDir", nil, "source directory cannot be empty")
		}
		c.SourceDir = dir
		return nil
	}
}

// WithOutputDir sets the directory rendered sources are written to.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutputDir", nil, "output directory cannot be empty")
		}
		c.OutputDir = dir
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel emission workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "worker count must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithSealedInterfaces marks generated interfaces as closed to extension.
// The option is honored by the Scala emitter; the Java emitter ignores it.
func WithSealedInterfaces(sealed bool) Option {
	return func(c *Config) error {
		c.SealInterfaces = sealed
		return nil
	}
}

// WithCodec enables JSON codec generation under the given namespace.
// fullCodecName names the aggregate codec; it may be empty to skip the
// aggregate.
func WithCodec(namespace, fullCodecName string) Option {
	return func(c *Config) error {
		if namespace == "" {
			return NewConfigError("CodecNamespace", nil, "codec namespace cannot be empty")
		}
		c.CodecNamespace = namespace
		c.FullCodecName = fullCodecName
		return nil
	}
}

// WithFileNaming sets the strategy mapping definitions to destination paths.
func WithFileNaming(fn FileNamingFunc) Option {
	return func(c *Config) error {
		if fn == nil {
			return NewConfigError("FileNaming", nil, "file naming strategy cannot be nil")
		}
		c.FileNaming = fn
		return nil
	}
}

// NamespaceDirs is the default naming strategy: the namespace becomes a
// directory hierarchy and the simple name the file name.
func NamespaceDirs(d *Definition, ext string) string {
	if pkg := d.PackagePath(); pkg != "" {
		return path.Join(pkg, d.Name+ext)
	}
	return d.Name + ext
}

// Flat places every rendered source directly in the output directory,
// qualifying the file name with the namespace to keep it unique.
func Flat(d *Definition, ext string) string {
	if d.Namespace == "" {
		return d.Name + ext
	}
	return strings.ReplaceAll(d.Namespace, ".", "_") + "_" + d.Name + ext
}
