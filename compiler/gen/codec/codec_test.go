package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growable/growable/compiler/gen"
	"github.com/growable/growable/compiler/load"
)

func resolve(t *testing.T, s *load.Schema) *gen.Graph {
	t.Helper()
	g, err := gen.NewGraph(nil, s)
	require.NoError(t, err)
	return g
}

func personSchema() *load.Schema {
	return &load.Schema{
		CodecNamespace: "com.example.codec",
		FullCodec:      "CustomProtocol",
		Types: []*load.Definition{
			{
				Name:      "Person",
				Type:      load.TypeRecord,
				Namespace: "com.example",
				Fields: []*load.Field{
					{Name: "name", Type: "String"},
					{Name: "age", Type: "Int", Since: "0.2.0", Default: "21"},
				},
			},
		},
	}
}

func TestFormatPath(t *testing.T) {
	g := resolve(t, personSchema())
	e := New()

	assert.Equal(t, "com/example/codec/PersonFormats.scala", e.FormatPath(g, g.Nodes[0]))
	assert.Equal(t, "com/example/codec/CustomProtocol.scala", e.FullCodecPath(g))
}

func TestRecordFormat(t *testing.T) {
	g := resolve(t, personSchema())
	src, err := New().GenFormat(g, g.Nodes[0])
	require.NoError(t, err)

	t.Run("Lives in the codec namespace", func(t *testing.T) {
		assert.Contains(t, src, "// Code generated by growable. DO NOT EDIT.\n")
		assert.Contains(t, src, "package com.example.codec\n")
	})

	t.Run("Self-typed trait with a lazy format", func(t *testing.T) {
		assert.Contains(t, src, "trait PersonFormats { self: sjsonnew.BasicJsonProtocol =>")
		assert.Contains(t, src, "implicit lazy val PersonFormat: JsonFormat[com.example.Person] = new JsonFormat[com.example.Person] {")
	})

	t.Run("Reads fields by name", func(t *testing.T) {
		assert.Contains(t, src, "unbuilder.beginObject(js)")
		assert.Contains(t, src, `val name = unbuilder.lookupField("name") match {`)
		assert.Contains(t, src, `case Some(_) => unbuilder.readField[String]("name")`)
		assert.Contains(t, src, "unbuilder.endObject()")
		assert.Contains(t, src, "new com.example.Person(name, age)")
	})

	t.Run("Missing required field fails decoding", func(t *testing.T) {
		assert.Contains(t, src, `case None => deserializationError("Missing required field: name")`)
	})

	t.Run("Missing versioned field falls back to its default", func(t *testing.T) {
		assert.Contains(t, src, `val age = unbuilder.lookupField("age") match {`)
		assert.Contains(t, src, "case None => 21")
	})

	t.Run("Missing document fails decoding", func(t *testing.T) {
		assert.Contains(t, src, `deserializationError("Expected JsObject but found None")`)
	})

	t.Run("Writes every field in effective order", func(t *testing.T) {
		assert.Contains(t, src, "builder.beginObject()")
		nameAt := indexOf(t, src, `builder.addField("name", obj.name)`)
		ageAt := indexOf(t, src, `builder.addField("age", obj.age)`)
		assert.Less(t, nameAt, ageAt)
		assert.Contains(t, src, "builder.endObject()")
	})
}

func TestInterfaceFormat(t *testing.T) {
	t.Run("Dispatches over nested records", func(t *testing.T) {
		g := resolve(t, &load.Schema{
			CodecNamespace: "com.example.codec",
			Types: []*load.Definition{
				{
					Name:      "Greetings",
					Type:      load.TypeInterface,
					Namespace: "com.example",
					Types: []*load.Definition{
						{Name: "SimpleGreeting", Type: load.TypeRecord},
						{Name: "FancyGreeting", Type: load.TypeRecord},
					},
				},
			},
		})
		src, err := New().GenFormat(g, g.Nodes[0])
		require.NoError(t, err)

		assert.Contains(t, src, "trait GreetingsFormats { self: sjsonnew.BasicJsonProtocol with SimpleGreetingFormats with FancyGreetingFormats =>")
		assert.Contains(t, src, `implicit lazy val GreetingsFormat: JsonFormat[com.example.Greetings] = flatUnionFormat2[com.example.Greetings, com.example.SimpleGreeting, com.example.FancyGreeting]("type")`)
	})

	t.Run("Refuses both directions without implementations", func(t *testing.T) {
		g := resolve(t, &load.Schema{
			CodecNamespace: "com.example.codec",
			Types: []*load.Definition{
				{Name: "Greetings", Type: load.TypeInterface, Namespace: "com.example"},
			},
		})
		src, err := New().GenFormat(g, g.Nodes[0])
		require.NoError(t, err)

		assert.Contains(t, src, `deserializationError("No known implementation of com.example.Greetings.")`)
		assert.Contains(t, src, `serializationError("No known implementation of com.example.Greetings.")`)
	})
}

func TestEnumFormat(t *testing.T) {
	g := resolve(t, &load.Schema{
		CodecNamespace: "com.example.codec",
		Types: []*load.Definition{
			{
				Name:      "Weekday",
				Type:      load.TypeEnum,
				Namespace: "com.example",
				Symbols:   []*load.Symbol{{Name: "Monday"}, {Name: "Tuesday"}},
			},
		},
	})
	src, err := New().GenFormat(g, g.Nodes[0])
	require.NoError(t, err)

	t.Run("Reads symbol names", func(t *testing.T) {
		assert.Contains(t, src, `case "Monday" => com.example.Weekday.Monday`)
		assert.Contains(t, src, `case "Tuesday" => com.example.Weekday.Tuesday`)
		assert.Contains(t, src, `case v => deserializationError("Unexpected value: " + v)`)
	})

	t.Run("Writes symbol names", func(t *testing.T) {
		assert.Contains(t, src, `case com.example.Weekday.Monday => "Monday"`)
		assert.Contains(t, src, "builder.writeString(str)")
	})
}

func TestFullCodec(t *testing.T) {
	g := resolve(t, &load.Schema{
		CodecNamespace: "com.example.codec",
		FullCodec:      "CustomProtocol",
		Types: []*load.Definition{
			{Name: "Person", Type: load.TypeRecord, Namespace: "com.example"},
			{Name: "Weekday", Type: load.TypeEnum, Namespace: "com.example"},
		},
	})
	src, err := New().GenFullCodec(g)
	require.NoError(t, err)

	assert.Contains(t, src, "package com.example.codec\n")
	assert.Contains(t, src, "trait CustomProtocol extends sjsonnew.BasicJsonProtocol")
	assert.Contains(t, src, "with PersonFormats")
	assert.Contains(t, src, "with WeekdayFormats")
	assert.Contains(t, src, "object CustomProtocol extends CustomProtocol")
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	i := strings.Index(s, substr)
	require.GreaterOrEqual(t, i, 0, "missing %q", substr)
	return i
}
