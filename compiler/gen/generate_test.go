package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growable/growable/compiler/load"
)

// stubEmitter renders a fixed-shape line per definition so tests can assert
// on destinations and content without a real language emitter.
type stubEmitter struct {
	target Target
	ext    string
	err    error
}

func (s *stubEmitter) Target() Target    { return s.target }
func (s *stubEmitter) Extension() string { return s.ext }
func (s *stubEmitter) render(kind string, d *Definition) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return kind + " " + d.QualifiedName() + "\n", nil
}
func (s *stubEmitter) GenRecord(d *Definition) (string, error)    { return s.render("record", d) }
func (s *stubEmitter) GenInterface(d *Definition) (string, error) { return s.render("interface", d) }
func (s *stubEmitter) GenEnum(d *Definition) (string, error)      { return s.render("enum", d) }

type stubCodec struct{}

func (stubCodec) FormatPath(g *Graph, d *Definition) string { return "codec/" + d.Name + "Formats.scala" }
func (stubCodec) GenFormat(g *Graph, d *Definition) (string, error) {
	return "format " + d.QualifiedName() + "\n", nil
}
func (stubCodec) FullCodecPath(g *Graph) string { return "codec/" + g.FullCodecName + ".scala" }
func (stubCodec) GenFullCodec(g *Graph) (string, error) {
	return "full " + g.FullCodecName + "\n", nil
}

func scalaStub() *stubEmitter { return &stubEmitter{target: TargetScala, ext: ".scala"} }

func twoTypeSchema() *load.Schema {
	return &load.Schema{
		Types: []*load.Definition{
			{Name: "Greeting", Type: load.TypeRecord, Namespace: "com.example"},
			{Name: "Weekday", Type: load.TypeEnum, Namespace: "com.example"},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("Renders every definition keyed by destination", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		files, err := NewGenerator(g).WithEmitter(scalaStub()).Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "record com.example.Greeting\n", files["com/example/Greeting.scala"])
		assert.Equal(t, "enum com.example.Weekday\n", files["com/example/Weekday.scala"])
	})

	t.Run("Deterministic across runs", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		gen := NewGenerator(g).WithEmitter(scalaStub()).WithWorkers(4)
		first, err := gen.Generate(context.Background())
		require.NoError(t, err)
		second, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("No emitter registered", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		files, err := NewGenerator(g).Generate(context.Background())
		require.Error(t, err)
		assert.Nil(t, files)
		assert.True(t, IsConfigError(err))
	})

	t.Run("Missing emitter for a target", func(t *testing.T) {
		g := mustGraph(t, &load.Schema{
			Types: []*load.Definition{
				{Name: "Greeting", Type: load.TypeRecord, Target: "Java"},
			},
		})
		files, err := NewGenerator(g).WithEmitter(scalaStub()).Generate(context.Background())
		require.Error(t, err)
		assert.Nil(t, files)
		assert.True(t, errors.Is(err, ErrEmissionFailed))
		assert.Contains(t, err.Error(), "Java")
	})

	t.Run("Any emission failure discards all output", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		boom := errors.New("render exploded")
		files, err := NewGenerator(g).
			WithEmitter(&stubEmitter{target: TargetScala, ext: ".scala", err: boom}).
			Generate(context.Background())
		require.Error(t, err)
		assert.Nil(t, files)
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("Duplicate destination path detected up front", func(t *testing.T) {
		c, err := NewConfig(WithFileNaming(func(d *Definition, ext string) string {
			return "collided" + ext
		}))
		require.NoError(t, err)
		g, err := NewGraph(c, twoTypeSchema())
		require.NoError(t, err)

		files, err := NewGenerator(g).WithEmitter(scalaStub()).Generate(context.Background())
		require.Error(t, err)
		assert.Nil(t, files)
		assert.True(t, errors.Is(err, ErrEmissionFailed))
		assert.Contains(t, err.Error(), "collided.scala")
	})

	t.Run("Cancelled context aborts", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		files, err := NewGenerator(g).WithEmitter(scalaStub()).Generate(ctx)
		require.Error(t, err)
		assert.Nil(t, files)
	})
}

func TestGenerateCodec(t *testing.T) {
	t.Run("Codec files added when a namespace is set", func(t *testing.T) {
		g := mustGraph(t, &load.Schema{
			CodecNamespace: "com.example.codec",
			FullCodec:      "CustomProtocol",
			Types:          twoTypeSchema().Types,
		})
		files, err := NewGenerator(g).
			WithEmitter(scalaStub()).
			WithCodec(stubCodec{}).
			Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 5)
		assert.Equal(t, "format com.example.Greeting\n", files["codec/GreetingFormats.scala"])
		assert.Equal(t, "format com.example.Weekday\n", files["codec/WeekdayFormats.scala"])
		assert.Equal(t, "full CustomProtocol\n", files["codec/CustomProtocol.scala"])
	})

	t.Run("No aggregate without a full codec name", func(t *testing.T) {
		g := mustGraph(t, &load.Schema{
			CodecNamespace: "com.example.codec",
			Types:          twoTypeSchema().Types,
		})
		files, err := NewGenerator(g).
			WithEmitter(scalaStub()).
			WithCodec(stubCodec{}).
			Generate(context.Background())
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("Codec emitter inactive without a namespace", func(t *testing.T) {
		g := mustGraph(t, twoTypeSchema())
		files, err := NewGenerator(g).
			WithEmitter(scalaStub()).
			WithCodec(stubCodec{}).
			Generate(context.Background())
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})
}
