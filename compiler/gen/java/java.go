// Package java renders Java sources for resolved definitions.
package java

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/growable/growable/compiler/gen"
)

// Emitter renders Java sources. It is stateless and safe for concurrent use.
type Emitter struct{}

// New creates a Java emitter.
func New() *Emitter { return &Emitter{} }

// Target reports the language this emitter renders.
func (*Emitter) Target() gen.Target { return gen.TargetJava }

// Extension returns the rendered file extension.
func (*Emitter) Extension() string { return ".java" }

// GenRecord renders a record as a final class: the full field list stored in
// private finals, one constructor per field-list snapshot, one accessor and
// one with-method per field, and equality, hash and string methods ranging
// over the full list.
func (e *Emitter) GenRecord(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())
	fmt.Fprintf(&b, "public final class %s%s implements java.io.Serializable {\n", d.Name, extendsClause(d))

	fields := d.EffectiveFields
	for _, f := range fields {
		fmt.Fprintf(&b, "    private final %s %s;\n", f.Type, f.Name)
	}

	snapshots := d.Snapshots()
	for i, s := range snapshots {
		b.WriteString("\n")
		fmt.Fprintf(&b, "    public %s(%s) {\n", d.Name, paramList(s.Fields))
		if i == len(snapshots)-1 {
			for _, f := range fields {
				fmt.Fprintf(&b, "        this.%s = %s;\n", f.Name, f.Name)
			}
		} else {
			fmt.Fprintf(&b, "        this(%s);\n", argList(fields, s))
		}
		b.WriteString("    }\n")
	}

	for _, f := range fields {
		b.WriteString("\n")
		e.docComment(&b, "    ", f.DocLines())
		fmt.Fprintf(&b, "    public %s %s() {\n", f.Type, f.Name)
		fmt.Fprintf(&b, "        return this.%s;\n", f.Name)
		b.WriteString("    }\n")
	}

	for _, f := range fields {
		b.WriteString("\n")
		fmt.Fprintf(&b, "    public %s with%s(%s %s) {\n", d.Name, inflect.Camelize(f.Name), f.Type, f.Name)
		args := make([]string, len(fields))
		for i, other := range fields {
			args[i] = other.Name
		}
		fmt.Fprintf(&b, "        return new %s(%s);\n", d.Name, strings.Join(args, ", "))
		b.WriteString("    }\n")
	}

	e.equalsMethod(&b, d, false)
	e.hashCodeMethod(&b, d, false)
	e.toStringMethod(&b, d)
	b.WriteString("}\n")
	return b.String(), nil
}

// GenInterface renders an interface as an abstract class exposing the
// effective fields as abstract accessors and one abstract method per
// declared message. Nested definitions extend it from their own files.
// The sealing option is not expressible in this target and is ignored.
func (e *Emitter) GenInterface(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())
	fmt.Fprintf(&b, "public abstract class %s%s implements java.io.Serializable {\n", d.Name, extendsClause(d))

	for _, f := range d.EffectiveFields {
		b.WriteString("\n")
		e.docComment(&b, "    ", f.DocLines())
		fmt.Fprintf(&b, "    public abstract %s %s();\n", f.Type, f.Name)
	}
	for _, m := range d.Messages {
		b.WriteString("\n")
		e.docComment(&b, "    ", m.DocLines())
		params := make([]string, len(m.Request))
		for i, r := range m.Request {
			params[i] = r.Type + " " + r.Name
		}
		fmt.Fprintf(&b, "    public abstract %s %s(%s);\n", m.Response, m.Name, strings.Join(params, ", "))
	}

	e.equalsMethod(&b, d, true)
	e.hashCodeMethod(&b, d, true)
	e.toStringMethod(&b, d)
	b.WriteString("}\n")
	return b.String(), nil
}

// GenEnum renders an enum using the native Java enum idiom.
func (e *Emitter) GenEnum(d *gen.Definition) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, d)
	e.docComment(&b, "", d.DocLines())
	fmt.Fprintf(&b, "public enum %s {\n", d.Name)
	for i, s := range d.Symbols {
		e.docComment(&b, "    ", s.DocLines())
		b.WriteString("    " + s.Name)
		if i < len(d.Symbols)-1 {
			b.WriteString(",")
		} else {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func (e *Emitter) fileHeader(b *strings.Builder, d *gen.Definition) {
	if d.Header != "" {
		fmt.Fprintf(b, "// %s\n\n", d.Header)
	}
	if d.Namespace != "" {
		fmt.Fprintf(b, "package %s;\n\n", d.Namespace)
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

// equalsMethod renders equality over the full effective field list.
// viaAccessor selects accessor calls over backing fields on the this side;
// interfaces have no backing fields. The other side always goes through
// accessors.
func (e *Emitter) equalsMethod(b *strings.Builder, d *gen.Definition, viaAccessor bool) {
	b.WriteString("\n")
	b.WriteString("    public boolean equals(Object obj) {\n")
	b.WriteString("        if (this == obj) {\n")
	b.WriteString("            return true;\n")
	fmt.Fprintf(b, "        } else if (!(obj instanceof %s)) {\n", d.Name)
	b.WriteString("            return false;\n")
	b.WriteString("        } else {\n")
	if len(d.EffectiveFields) == 0 {
		b.WriteString("            return true;\n")
	} else {
		fmt.Fprintf(b, "            %s o = (%s) obj;\n", d.Name, d.Name)
		terms := make([]string, len(d.EffectiveFields))
		for i, f := range d.EffectiveFields {
			terms[i] = fmt.Sprintf("java.util.Objects.equals(%s, o.%s())", fieldRef(f.Name, viaAccessor), f.Name)
		}
		fmt.Fprintf(b, "            return %s;\n", strings.Join(terms, " && "))
	}
	b.WriteString("        }\n")
	b.WriteString("    }\n")
}

// hashCodeMethod renders the hash as a left fold seeded with 17,
// multiplying by 37 at each step, over the full effective field list.
func (e *Emitter) hashCodeMethod(b *strings.Builder, d *gen.Definition, viaAccessor bool) {
	b.WriteString("\n")
	b.WriteString("    public int hashCode() {\n")
	b.WriteString("        int hash = 17;\n")
	for _, f := range d.EffectiveFields {
		fmt.Fprintf(b, "        hash = 37 * hash + java.util.Objects.hashCode(%s);\n", fieldRef(f.Name, viaAccessor))
	}
	b.WriteString("        return hash;\n")
	b.WriteString("    }\n")
}

// toStringMethod renders the simple name followed by "name: value" pairs in
// effective-field-list order, always through accessors.
func (e *Emitter) toStringMethod(b *strings.Builder, d *gen.Definition) {
	b.WriteString("\n")
	b.WriteString("    public String toString() {\n")
	var expr strings.Builder
	fmt.Fprintf(&expr, "\"%s(\"", d.Name)
	for i, f := range d.EffectiveFields {
		if i > 0 {
			expr.WriteString(" + \", \"")
		}
		fmt.Fprintf(&expr, " + \"%s: \" + %s()", f.Name, f.Name)
	}
	expr.WriteString(" + \")\"")
	fmt.Fprintf(b, "        return %s;\n", expr.String())
	b.WriteString("    }\n")
}

// fieldRef renders a reference to a field on this, through the accessor or
// the backing field.
func fieldRef(name string, viaAccessor bool) string {
	if viaAccessor {
		return name + "()"
	}
	return "this." + name
}

// extendsClause renders the superclass clause for nested definitions.
func extendsClause(d *gen.Definition) string {
	if d.Parent == nil {
		return ""
	}
	return " extends " + d.Parent.Name
}

// paramList renders a constructor parameter list for a snapshot.
func paramList(fields []*gen.Field) string {
	params := make([]string, len(fields))
	for i, f := range fields {
		params[i] = f.Type + " " + f.Name
	}
	return strings.Join(params, ", ")
}

// argList renders the delegation argument list for an older-snapshot
// constructor: fields the snapshot knows pass through by name, fields added
// later receive their declared default expression verbatim.
func argList(full []*gen.Field, s gen.Snapshot) string {
	args := make([]string, len(full))
	for i, f := range full {
		if s.Contains(f.Name) {
			args[i] = f.Name
		} else {
			args[i] = f.Default
		}
	}
	return strings.Join(args, ", ")
}
