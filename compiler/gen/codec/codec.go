// Package codec renders JSON codec sources for resolved definitions,
// in the sjson-new JsonFormat idiom. Codec sources are Scala regardless of
// the owning definition's target language and live under the configured
// codec namespace rather than the type's own namespace.
package codec

import (
	"fmt"
	"path"
	"strings"

	"github.com/growable/growable/compiler/gen"
)

// Emitter renders codec sources. It is stateless and safe for concurrent use.
type Emitter struct{}

// New creates a codec emitter.
func New() *Emitter { return &Emitter{} }

// FormatPath returns the destination of the per-type codec for d.
func (*Emitter) FormatPath(g *gen.Graph, d *gen.Definition) string {
	return path.Join(namespaceDirs(g.CodecNamespace), d.Name+"Formats.scala")
}

// FullCodecPath returns the destination of the aggregate codec.
func (*Emitter) FullCodecPath(g *gen.Graph) string {
	return path.Join(namespaceDirs(g.CodecNamespace), g.FullCodecName+".scala")
}

// GenFormat renders the per-type codec trait for d.
func (e *Emitter) GenFormat(g *gen.Graph, d *gen.Definition) (string, error) {
	switch d.Kind {
	case gen.KindRecord:
		return e.recordFormat(g, d), nil
	case gen.KindInterface:
		return e.interfaceFormat(g, d), nil
	case gen.KindEnum:
		return e.enumFormat(g, d), nil
	default:
		return "", gen.NewEmissionError("", d.Name, fmt.Sprintf("no codec form for kind %s", d.Kind), nil)
	}
}

// GenFullCodec renders the aggregate codec: one protocol trait mixing in
// every per-type format trait, plus a ready-to-import object.
func (e *Emitter) GenFullCodec(g *gen.Graph) (string, error) {
	var b strings.Builder
	e.fileHeader(&b, g)
	name := g.FullCodecName
	fmt.Fprintf(&b, "trait %s extends sjsonnew.BasicJsonProtocol", name)
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "\n  with %sFormats", n.Name)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "object %s extends %s\n", name, name)
	return b.String(), nil
}

// recordFormat renders write over the full effective field list in order and
// read by field name. Absent fields fall back to their declared default;
// fields with neither a value nor a default fail decoding.
func (e *Emitter) recordFormat(g *gen.Graph, d *gen.Definition) string {
	var b strings.Builder
	e.fileHeader(&b, g)
	b.WriteString("import _root_.sjsonnew.{ Builder, JsonFormat, Unbuilder, deserializationError }\n\n")

	qn := d.QualifiedName()
	fmt.Fprintf(&b, "trait %sFormats { self: sjsonnew.BasicJsonProtocol =>\n", d.Name)
	fmt.Fprintf(&b, "  implicit lazy val %sFormat: JsonFormat[%s] = new JsonFormat[%s] {\n", d.Name, qn, qn)

	fmt.Fprintf(&b, "    override def read[J](jsOpt: Option[J], unbuilder: Unbuilder[J]): %s = {\n", qn)
	b.WriteString("      jsOpt match {\n")
	b.WriteString("        case Some(js) =>\n")
	b.WriteString("          unbuilder.beginObject(js)\n")
	names := make([]string, len(d.EffectiveFields))
	for i, f := range d.EffectiveFields {
		names[i] = f.Name
		fmt.Fprintf(&b, "          val %s = unbuilder.lookupField(%q) match {\n", f.Name, f.Name)
		fmt.Fprintf(&b, "            case Some(_) => unbuilder.readField[%s](%q)\n", f.Type, f.Name)
		if f.Default != "" {
			fmt.Fprintf(&b, "            case None => %s\n", f.Default)
		} else {
			fmt.Fprintf(&b, "            case None => deserializationError(\"Missing required field: %s\")\n", f.Name)
		}
		b.WriteString("          }\n")
	}
	b.WriteString("          unbuilder.endObject()\n")
	fmt.Fprintf(&b, "          new %s(%s)\n", qn, strings.Join(names, ", "))
	b.WriteString("        case None =>\n")
	b.WriteString("          deserializationError(\"Expected JsObject but found None\")\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")

	fmt.Fprintf(&b, "    override def write[J](obj: %s, builder: Builder[J]): Unit = {\n", qn)
	b.WriteString("      builder.beginObject()\n")
	for _, f := range d.EffectiveFields {
		fmt.Fprintf(&b, "      builder.addField(%q, obj.%s)\n", f.Name, f.Name)
	}
	b.WriteString("      builder.endObject()\n")
	b.WriteString("    }\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

// interfaceFormat dispatches over the interface's nested concrete types with
// a "type" discriminator field. An interface without nested types gets a
// format that refuses both directions.
func (e *Emitter) interfaceFormat(g *gen.Graph, d *gen.Definition) string {
	var b strings.Builder
	e.fileHeader(&b, g)
	qn := d.QualifiedName()

	concrete := make([]*gen.Definition, 0, len(d.Children))
	for _, c := range d.Children {
		if c.IsRecord() {
			concrete = append(concrete, c)
		}
	}
	if len(concrete) == 0 {
		b.WriteString("import _root_.sjsonnew.{ Builder, JsonFormat, Unbuilder, deserializationError, serializationError }\n\n")
		fmt.Fprintf(&b, "trait %sFormats { self: sjsonnew.BasicJsonProtocol =>\n", d.Name)
		fmt.Fprintf(&b, "  implicit lazy val %sFormat: JsonFormat[%s] = new JsonFormat[%s] {\n", d.Name, qn, qn)
		fmt.Fprintf(&b, "    override def read[J](jsOpt: Option[J], unbuilder: Unbuilder[J]): %s = {\n", qn)
		fmt.Fprintf(&b, "      deserializationError(\"No known implementation of %s.\")\n", qn)
		b.WriteString("    }\n")
		fmt.Fprintf(&b, "    override def write[J](obj: %s, builder: Builder[J]): Unit = {\n", qn)
		fmt.Fprintf(&b, "      serializationError(\"No known implementation of %s.\")\n", qn)
		b.WriteString("    }\n")
		b.WriteString("  }\n")
		b.WriteString("}\n")
		return b.String()
	}

	b.WriteString("import _root_.sjsonnew.JsonFormat\n\n")
	selfTypes := []string{"sjsonnew.BasicJsonProtocol"}
	typeArgs := []string{qn}
	for _, c := range concrete {
		selfTypes = append(selfTypes, c.Name+"Formats")
		typeArgs = append(typeArgs, c.QualifiedName())
	}
	fmt.Fprintf(&b, "trait %sFormats { self: %s =>\n", d.Name, strings.Join(selfTypes, " with "))
	fmt.Fprintf(&b, "  implicit lazy val %sFormat: JsonFormat[%s] = flatUnionFormat%d[%s](\"type\")\n",
		d.Name, qn, len(concrete), strings.Join(typeArgs, ", "))
	b.WriteString("}\n")
	return b.String()
}

// enumFormat maps symbol names to and from JSON strings.
func (e *Emitter) enumFormat(g *gen.Graph, d *gen.Definition) string {
	var b strings.Builder
	e.fileHeader(&b, g)
	b.WriteString("import _root_.sjsonnew.{ Builder, JsonFormat, Unbuilder, deserializationError }\n\n")

	qn := d.QualifiedName()
	fmt.Fprintf(&b, "trait %sFormats { self: sjsonnew.BasicJsonProtocol =>\n", d.Name)
	fmt.Fprintf(&b, "  implicit lazy val %sFormat: JsonFormat[%s] = new JsonFormat[%s] {\n", d.Name, qn, qn)
	fmt.Fprintf(&b, "    override def read[J](jsOpt: Option[J], unbuilder: Unbuilder[J]): %s = {\n", qn)
	b.WriteString("      jsOpt match {\n")
	b.WriteString("        case Some(js) =>\n")
	b.WriteString("          unbuilder.readString(js) match {\n")
	for _, s := range d.Symbols {
		fmt.Fprintf(&b, "            case %q => %s.%s\n", s.Name, qn, s.Name)
	}
	b.WriteString("            case v => deserializationError(\"Unexpected value: \" + v)\n")
	b.WriteString("          }\n")
	b.WriteString("        case None =>\n")
	b.WriteString("          deserializationError(\"Expected JsString but found None\")\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	fmt.Fprintf(&b, "    override def write[J](obj: %s, builder: Builder[J]): Unit = {\n", qn)
	b.WriteString("      val str = obj match {\n")
	for _, s := range d.Symbols {
		fmt.Fprintf(&b, "        case %s.%s => %q\n", qn, s.Name, s.Name)
	}
	b.WriteString("      }\n")
	b.WriteString("      builder.writeString(str)\n")
	b.WriteString("    }\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

func (e *Emitter) fileHeader(b *strings.Builder, g *gen.Graph) {
	if g.Header != "" {
		fmt.Fprintf(b, "// %s\n\n", g.Header)
	}
	fmt.Fprintf(b, "package %s\n\n", g.CodecNamespace)
}

func namespaceDirs(namespace string) string {
	return strings.ReplaceAll(namespace, ".", "/")
}
