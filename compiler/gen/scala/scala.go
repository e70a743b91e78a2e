// Package scala renders Scala sources for resolved definitions.
package scala

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/growable/growable/compiler/gen"
)

// Emitter renders Scala sources. It is stateless and safe for concurrent use.
type Emitter struct{}

// New creates a Scala emitter.
func New() *Emitter { return &Emitter{} }

// Target reports the language this emitter renders.
func (*Emitter) Target() gen.Target { return gen.TargetScala }

// Extension returns the rendered file extension.
func (*Emitter) Extension() string { return ".scala" }

// GenRecord renders a record as a final class whose primary constructor
// takes the full effective field list, with one apply overload per
// field-list snapshot on the companion object, one with-method per field,
// and equality, hash and string methods ranging over the full list.
func (e *Emitter) GenRecord(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())

	fields := d.EffectiveFields
	params := make([]string, len(fields))
	for i, f := range fields {
		params[i] = fmt.Sprintf("val %s: %s", f.Name, f.Type)
	}
	if len(fields) == 0 {
		fmt.Fprintf(&b, "final class %s%s {\n", d.Name, recordExtends(d))
	} else {
		fmt.Fprintf(&b, "final class %s(\n  %s)%s {\n", d.Name, strings.Join(params, ",\n  "), recordExtends(d))
	}

	e.equalsMethod(&b, d)
	e.hashCodeMethod(&b, d)
	e.toStringMethod(&b, d)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "  def with%s(%s: %s): %s = {\n", inflect.Camelize(f.Name), f.Name, f.Type, d.Name)
		fmt.Fprintf(&b, "    new %s(%s)\n", d.Name, strings.Join(names, ", "))
		b.WriteString("  }\n")
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "object %s {\n", d.Name)
	for _, s := range d.Snapshots() {
		applyParams := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			applyParams[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
		}
		args := make([]string, len(fields))
		for i, f := range fields {
			if s.Contains(f.Name) {
				args[i] = f.Name
			} else {
				args[i] = f.Default
			}
		}
		fmt.Fprintf(&b, "  def apply(%s): %s = new %s(%s)\n",
			strings.Join(applyParams, ", "), d.Name, d.Name, strings.Join(args, ", "))
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// GenInterface renders an interface as an abstract class with abstract
// accessors for the effective fields and one abstract method per message.
// Nested definitions extend it from their own files. The class is marked
// sealed when the sealing option is set.
func (e *Emitter) GenInterface(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())
	sealed := ""
	if d.SealInterfaces {
		sealed = "sealed "
	}
	fmt.Fprintf(&b, "%sabstract class %s%s {\n", sealed, d.Name, recordExtends(d))

	for _, f := range d.EffectiveFields {
		e.docComment(&b, "  ", f.DocLines())
		fmt.Fprintf(&b, "  def %s: %s\n", f.Name, f.Type)
	}
	for _, m := range d.Messages {
		e.docComment(&b, "  ", m.DocLines())
		params := make([]string, len(m.Request))
		for i, r := range m.Request {
			params[i] = fmt.Sprintf("%s: %s", r.Name, r.Type)
		}
		fmt.Fprintf(&b, "  def %s(%s): %s\n", m.Name, strings.Join(params, ", "), m.Response)
	}

	e.equalsMethod(&b, d)
	e.hashCodeMethod(&b, d)
	e.toStringMethod(&b, d)
	b.WriteString("}\n")
	return b.String(), nil
}

// GenEnum renders an enum as a sealed abstract class with one case object
// per symbol on the companion.
func (e *Emitter) GenEnum(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())
	fmt.Fprintf(&b, "sealed abstract class %s extends Serializable\n\n", d.Name)
	fmt.Fprintf(&b, "object %s {\n", d.Name)
	for _, s := range d.Symbols {
		e.docComment(&b, "  ", s.DocLines())
		fmt.Fprintf(&b, "  case object %s extends %s\n", s.Name, d.Name)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func (e *Emitter) fileHeader(b *strings.Builder, d *gen.Definition) {
	if d.Header != "" {
		fmt.Fprintf(b, "// %s\n\n", d.Header)
	}
	if d.Namespace != "" {
		fmt.Fprintf(b, "package %s\n\n", d.Namespace)
	}
}

func (e *Emitter) docComment(b *strings.Builder, indent string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(indent + "/**\n")
	for _, line := range lines {
		b.WriteString(indent + " * " + line + "\n")
	}
	b.WriteString(indent + " */\n")
}

func (e *Emitter) equalsMethod(b *strings.Builder, d *gen.Definition) {
	b.WriteString("  override def equals(o: Any): Boolean = o match {\n")
	if len(d.EffectiveFields) == 0 {
		fmt.Fprintf(b, "    case _: %s => true\n", d.Name)
	} else {
		terms := make([]string, len(d.EffectiveFields))
		for i, f := range d.EffectiveFields {
			terms[i] = fmt.Sprintf("(this.%s == x.%s)", f.Name, f.Name)
		}
		fmt.Fprintf(b, "    case x: %s => %s\n", d.Name, strings.Join(terms, " && "))
	}
	b.WriteString("    case _ => false\n")
	b.WriteString("  }\n")
}

// hashCodeMethod renders the hash as a left fold seeded with 17,
// multiplying by 37 at each step, over the full effective field list.
func (e *Emitter) hashCodeMethod(b *strings.Builder, d *gen.Definition) {
	b.WriteString("  override def hashCode: Int = {\n")
	b.WriteString("    var hash = 17\n")
	for _, f := range d.EffectiveFields {
		fmt.Fprintf(b, "    hash = 37 * hash + %s.##\n", f.Name)
	}
	b.WriteString("    hash\n")
	b.WriteString("  }\n")
}

// toStringMethod renders the simple name followed by the bare field values
// in effective-field-list order.
func (e *Emitter) toStringMethod(b *strings.Builder, d *gen.Definition) {
	var expr strings.Builder
	fmt.Fprintf(&expr, "\"%s(\"", d.Name)
	for i, f := range d.EffectiveFields {
		if i > 0 {
			expr.WriteString(" + \", \"")
		}
		expr.WriteString(" + " + f.Name)
	}
	expr.WriteString(" + \")\"")
	fmt.Fprintf(b, "  override def toString: String = %s\n", expr.String())
}

// recordExtends renders the superclass clause: the enclosing interface for
// nested definitions, Serializable otherwise (the parent already carries it).
func recordExtends(d *gen.Definition) string {
	if d.Parent != nil {
		return " extends " + d.Parent.Name
	}
	return " extends Serializable"
}
