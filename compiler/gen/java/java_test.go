package java

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growable/growable/compiler/gen"
	"github.com/growable/growable/compiler/load"
)

func resolve(t *testing.T, s *load.Schema, opts ...gen.Option) *gen.Graph {
	t.Helper()
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	g, err := gen.NewGraph(c, s)
	require.NoError(t, err)
	return g
}

func greetingSchema() *load.Schema {
	return &load.Schema{
		Types: []*load.Definition{
			{
				Name:      "Greeting",
				Type:      load.TypeRecord,
				Namespace: "com.example",
				Target:    "Java",
				Doc:       "A greeting message.",
				Fields: []*load.Field{
					{Name: "message", Type: "String", Doc: "The text of the greeting."},
					{Name: "date", Type: "java.util.Date", Since: "0.2.0", Default: "new java.util.Date()"},
				},
			},
		},
	}
}

func TestGenRecord(t *testing.T) {
	g := resolve(t, greetingSchema())
	src, err := New().GenRecord(g.Nodes[0])
	require.NoError(t, err)

	t.Run("Header and package", func(t *testing.T) {
		assert.Contains(t, src, "// Code generated by growable. DO NOT EDIT.\n")
		assert.Contains(t, src, "package com.example;\n")
	})

	t.Run("Final serializable class", func(t *testing.T) {
		assert.Contains(t, src, "public final class Greeting implements java.io.Serializable {")
	})

	t.Run("Backing fields", func(t *testing.T) {
		assert.Contains(t, src, "private final String message;")
		assert.Contains(t, src, "private final java.util.Date date;")
	})

	t.Run("One constructor per snapshot", func(t *testing.T) {
		assert.Contains(t, src, "public Greeting(String message) {")
		assert.Contains(t, src, "public Greeting(String message, java.util.Date date) {")
		assert.Equal(t, 2, strings.Count(src, "public Greeting("))
	})

	t.Run("Older constructor delegates with the default", func(t *testing.T) {
		assert.Contains(t, src, "this(message, new java.util.Date());")
	})

	t.Run("Newest constructor assigns every field", func(t *testing.T) {
		assert.Contains(t, src, "this.message = message;")
		assert.Contains(t, src, "this.date = date;")
	})

	t.Run("Accessors", func(t *testing.T) {
		assert.Contains(t, src, "public String message() {")
		assert.Contains(t, src, "return this.message;")
		assert.Contains(t, src, "public java.util.Date date() {")
	})

	t.Run("With methods", func(t *testing.T) {
		assert.Contains(t, src, "public Greeting withMessage(String message) {")
		assert.Contains(t, src, "public Greeting withDate(java.util.Date date) {")
		assert.Contains(t, src, "return new Greeting(message, date);")
	})

	t.Run("Equality over the full field list", func(t *testing.T) {
		assert.Contains(t, src, "public boolean equals(Object obj) {")
		assert.Contains(t, src, "if (this == obj) {")
		assert.Contains(t, src, "} else if (!(obj instanceof Greeting)) {")
		assert.Contains(t, src, "java.util.Objects.equals(this.message, o.message()) && java.util.Objects.equals(this.date, o.date())")
	})

	t.Run("Hash folds with 17 and 37", func(t *testing.T) {
		assert.Contains(t, src, "int hash = 17;")
		assert.Contains(t, src, "hash = 37 * hash + java.util.Objects.hashCode(this.message);")
		assert.Contains(t, src, "hash = 37 * hash + java.util.Objects.hashCode(this.date);")
	})

	t.Run("String form pairs names with values", func(t *testing.T) {
		assert.Contains(t, src, `return "Greeting(" + "message: " + message() + ", " + "date: " + date() + ")";`)
	})

	t.Run("Doc comments", func(t *testing.T) {
		assert.Contains(t, src, " * A greeting message.")
		assert.Contains(t, src, " * The text of the greeting.")
	})
}

func TestGenRecordUnversioned(t *testing.T) {
	g := resolve(t, &load.Schema{
		Types: []*load.Definition{
			{
				Name:   "Point",
				Type:   load.TypeRecord,
				Target: "Java",
				Fields: []*load.Field{
					{Name: "x", Type: "int"},
					{Name: "y", Type: "int"},
				},
			},
		},
	})
	src, err := New().GenRecord(g.Nodes[0])
	require.NoError(t, err)

	t.Run("Single constructor", func(t *testing.T) {
		assert.Equal(t, 1, strings.Count(src, "public Point("))
		assert.Contains(t, src, "public Point(int x, int y) {")
	})

	t.Run("No package without a namespace", func(t *testing.T) {
		assert.NotContains(t, src, "package ")
	})

	t.Run("Primitive-safe equality", func(t *testing.T) {
		assert.Contains(t, src, "java.util.Objects.equals(this.x, o.x())")
	})
}

func TestGenRecordEmpty(t *testing.T) {
	g := resolve(t, &load.Schema{
		Types: []*load.Definition{
			{Name: "Unit", Type: load.TypeRecord, Target: "Java"},
		},
	})
	src, err := New().GenRecord(g.Nodes[0])
	require.NoError(t, err)

	assert.Contains(t, src, "public Unit() {")
	assert.Contains(t, src, "return true;")
	assert.Contains(t, src, `return "Unit(" + ")";`)
}

func TestGenInterface(t *testing.T) {
	g := resolve(t, &load.Schema{
		Types: []*load.Definition{
			{
				Name:      "Greetings",
				Type:      load.TypeInterface,
				Namespace: "com.example",
				Target:    "Java",
				Fields:    []*load.Field{{Name: "message", Type: "String"}},
				Messages: []*load.Message{
					{
						Name:     "send",
						Response: "void",
						Request:  []*load.Request{{Name: "to", Type: "String"}},
					},
				},
				Types: []*load.Definition{
					{
						Name:   "SimpleGreeting",
						Type:   load.TypeRecord,
						Fields: []*load.Field{{Name: "punctuation", Type: "String"}},
					},
				},
			},
		},
	})
	parent, ok := g.Lookup("com.example.Greetings")
	require.True(t, ok)
	child, ok := g.Lookup("com.example.SimpleGreeting")
	require.True(t, ok)

	e := New()
	parentSrc, err := e.GenInterface(parent)
	require.NoError(t, err)
	childSrc, err := e.GenRecord(child)
	require.NoError(t, err)

	t.Run("Abstract serializable class", func(t *testing.T) {
		assert.Contains(t, parentSrc, "public abstract class Greetings implements java.io.Serializable {")
	})

	t.Run("Abstract accessors and messages", func(t *testing.T) {
		assert.Contains(t, parentSrc, "public abstract String message();")
		assert.Contains(t, parentSrc, "public abstract void send(String to);")
	})

	t.Run("Equality through accessors", func(t *testing.T) {
		assert.Contains(t, parentSrc, "java.util.Objects.equals(message(), o.message())")
		assert.Contains(t, parentSrc, "hash = 37 * hash + java.util.Objects.hashCode(message());")
	})

	t.Run("Nested record extends the interface", func(t *testing.T) {
		assert.Contains(t, childSrc, "public final class SimpleGreeting extends Greetings implements java.io.Serializable {")
	})

	t.Run("Nested record carries inherited fields first", func(t *testing.T) {
		assert.Contains(t, childSrc, "public SimpleGreeting(String message, String punctuation) {")
	})
}

func TestGenEnum(t *testing.T) {
	g := resolve(t, &load.Schema{
		Types: []*load.Definition{
			{
				Name:      "Weekday",
				Type:      load.TypeEnum,
				Namespace: "com.example",
				Target:    "Java",
				Symbols: []*load.Symbol{
					{Name: "Monday"},
					{Name: "Tuesday", Doc: "Second day."},
					{Name: "Wednesday"},
				},
			},
		},
	})
	src, err := New().GenEnum(g.Nodes[0])
	require.NoError(t, err)

	assert.Contains(t, src, "public enum Weekday {")
	assert.Contains(t, src, "    Monday,\n")
	assert.Contains(t, src, "    Wednesday;\n")
	assert.Contains(t, src, " * Second day.")
}

func TestEmitterIdentity(t *testing.T) {
	e := New()
	assert.Equal(t, gen.TargetJava, e.Target())
	assert.Equal(t, ".java", e.Extension())
}
