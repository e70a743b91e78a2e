package gen

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/growable/growable/compiler/load"
)

// Kind discriminates the three definition variants.
type Kind uint8

// Definition kinds.
const (
	KindRecord Kind = iota
	KindInterface
	KindEnum
)

// String returns the schema-document spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Target is a generation target language.
type Target string

// Supported target languages.
const (
	TargetJava  Target = "Java"
	TargetScala Target = "Scala"
)

// The following types and their exported methods are used by the emitters
// to render the generated sources.
type (
	// Graph is the resolved model of one schema document. It is built once
	// by NewGraph and read-only afterwards; emitters may consume it from
	// multiple goroutines without synchronization.
	Graph struct {
		*Config
		// Nodes holds all resolved definitions in schema order,
		// nested definitions included.
		Nodes []*Definition
		// CodecNamespace and FullCodecName are the effective codec settings:
		// configuration overrides the document values when set.
		CodecNamespace string
		FullCodecName  string

		index map[string]*Definition
	}

	// Definition is one resolved schema type.
	Definition struct {
		*Config
		// Kind discriminates record, interface and enum.
		Kind Kind
		// Name is the simple type name.
		Name string
		// Namespace is the resolved namespace, inherited from the nearest
		// enclosing definition when the document omits it.
		Namespace string
		// Target is the resolved target language.
		Target Target
		// Doc is optional documentation text.
		Doc string
		// Parent is the enclosing interface, nil for top-level definitions.
		Parent *Definition
		// Children holds nested definitions (interfaces only).
		Children []*Definition
		// Fields are the fields declared on this definition itself.
		Fields []*Field
		// EffectiveFields is the flattened field list: ancestor fields in
		// root-to-leaf order followed by Fields.
		EffectiveFields []*Field
		// Messages are the abstract operations (interfaces only).
		Messages []*Message
		// Symbols are the enum values (enums only).
		Symbols []*Symbol
	}

	// Field is a resolved data member.
	Field struct {
		// Name of the field.
		Name string
		// Type is the opaque target-language type reference, emitted verbatim.
		Type string
		// Doc is optional documentation text.
		Doc string
		// Since is the schema version this field was added at,
		// nil for baseline fields.
		Since *semver.Version
		// Default is the opaque default expression paired with Since,
		// emitted verbatim.
		Default string
	}

	// Message is a resolved abstract operation signature.
	Message struct {
		Name     string
		Response string
		Doc      string
		Request  []*Request
	}

	// Request is one parameter of a message.
	Request struct {
		Name string
		Type string
		Doc  string
	}

	// Symbol is one resolved enum value.
	Symbol struct {
		Name string
		Doc  string
	}
)

// NewGraph resolves a parsed schema into a graph model. It links nested
// definitions to their parents, inherits namespace and target, flattens
// inheritance into effective field lists and validates the schema-wide
// invariants. Any failure aborts resolution with a ValidationError.
func NewGraph(c *Config, s *load.Schema) (*Graph, error) {
	if c == nil {
		c = defaultConfig()
	}
	g := &Graph{
		Config:         c,
		CodecNamespace: s.CodecNamespace,
		FullCodecName:  s.FullCodec,
		index:          make(map[string]*Definition),
	}
	if c.CodecNamespace != "" {
		g.CodecNamespace = c.CodecNamespace
	}
	if c.FullCodecName != "" {
		g.FullCodecName = c.FullCodecName
	}
	for _, d := range s.Types {
		if _, err := g.addDefinition(c, d, nil); err != nil {
			return nil, err
		}
	}
	for _, n := range g.Nodes {
		if err := n.flatten(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Lookup returns the definition with the given qualified name, if any.
func (g *Graph) Lookup(qualified string) (*Definition, bool) {
	d, ok := g.index[qualified]
	return d, ok
}

func (g *Graph) addDefinition(c *Config, ld *load.Definition, parent *Definition) (*Definition, error) {
	d := &Definition{
		Config:    c,
		Name:      ld.Name,
		Namespace: ld.Namespace,
		Target:    Target(ld.Target),
		Doc:       ld.Doc,
		Parent:    parent,
	}
	switch ld.Type {
	case load.TypeRecord:
		d.Kind = KindRecord
	case load.TypeInterface:
		d.Kind = KindInterface
	case load.TypeEnum:
		d.Kind = KindEnum
	default:
		return nil, NewValidationError("", ld.Name, "", fmt.Sprintf("unknown definition type %q", ld.Type))
	}
	if d.Namespace == "" && parent != nil {
		d.Namespace = parent.Namespace
	}
	if d.Target == "" && parent != nil {
		d.Target = parent.Target
	}
	if d.Target == "" {
		d.Target = TargetScala
	}
	for _, lf := range ld.Fields {
		f, err := newField(d, lf)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, f)
	}
	for _, lm := range ld.Messages {
		m := &Message{Name: lm.Name, Response: lm.Response, Doc: lm.Doc}
		for _, lr := range lm.Request {
			m.Request = append(m.Request, &Request{Name: lr.Name, Type: lr.Type, Doc: lr.Doc})
		}
		d.Messages = append(d.Messages, m)
	}
	for _, ls := range ld.Symbols {
		d.Symbols = append(d.Symbols, &Symbol{Name: ls.Name, Doc: ls.Doc})
	}
	qualified := d.QualifiedName()
	if _, ok := g.index[qualified]; ok {
		return nil, NewValidationError(ReasonDuplicateName, d.Name, "", fmt.Sprintf("%s is declared more than once in namespace %q", d.Name, d.Namespace))
	}
	g.index[qualified] = d
	g.Nodes = append(g.Nodes, d)
	for _, lc := range ld.Types {
		child, err := g.addDefinition(c, lc, d)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, child)
	}
	return d, nil
}

func newField(d *Definition, lf *load.Field) (*Field, error) {
	f := &Field{
		Name:    lf.Name,
		Type:    lf.Type,
		Doc:     lf.Doc,
		Default: lf.Default,
	}
	if (lf.Since == "") != (lf.Default == "") {
		return nil, NewValidationError(ReasonIncompleteVersioning, d.Name, lf.Name, "since and default must be declared together")
	}
	if lf.Since != "" {
		v, err := semver.NewVersion(lf.Since)
		if err != nil {
			return nil, &ValidationError{
				Reason:  ReasonBadVersion,
				Type:    d.Name,
				Field:   lf.Name,
				Value:   lf.Since,
				Message: err.Error(),
			}
		}
		f.Since = v
	}
	return f, nil
}

// flatten computes the effective field list: ancestor fields in root-to-leaf
// order followed by the definition's own fields. Duplicate field names after
// concatenation fail resolution.
func (d *Definition) flatten() error {
	ancestors, err := d.ancestors()
	if err != nil {
		return err
	}
	var effective []*Field
	for _, a := range ancestors {
		effective = append(effective, a.Fields...)
	}
	effective = append(effective, d.Fields...)
	seen := make(map[string]struct{}, len(effective))
	for _, f := range effective {
		if _, ok := seen[f.Name]; ok {
			return NewValidationError(ReasonDuplicateField, d.Name, f.Name, "field appears more than once in the effective field list")
		}
		seen[f.Name] = struct{}{}
	}
	d.EffectiveFields = effective
	return nil
}

// ancestors returns the parent chain in root-to-leaf order. The traversal
// carries a visited set so a malformed parent chain is reported as a cycle
// instead of looping.
func (d *Definition) ancestors() ([]*Definition, error) {
	var chain []*Definition
	visited := map[*Definition]struct{}{d: {}}
	for p := d.Parent; p != nil; p = p.Parent {
		if _, ok := visited[p]; ok {
			return nil, NewValidationError(ReasonCyclicInheritance, d.Name, "", fmt.Sprintf("inheritance cycle through %s", p.Name))
		}
		visited[p] = struct{}{}
		chain = append(chain, p)
	}
	// Reverse to root-to-leaf order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// QualifiedName returns the namespace-qualified type name.
func (d *Definition) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// PackagePath returns the namespace as a directory path.
func (d *Definition) PackagePath() string {
	return strings.ReplaceAll(d.Namespace, ".", "/")
}

// IsRecord reports whether the definition is a record.
func (d *Definition) IsRecord() bool { return d.Kind == KindRecord }

// IsInterface reports whether the definition is an interface.
func (d *Definition) IsInterface() bool { return d.Kind == KindInterface }

// IsEnum reports whether the definition is an enum.
func (d *Definition) IsEnum() bool { return d.Kind == KindEnum }

// HasVersionedFields reports whether any effective field carries a since version.
func (d *Definition) HasVersionedFields() bool {
	for _, f := range d.EffectiveFields {
		if f.Since != nil {
			return true
		}
	}
	return false
}

// DocLines splits the documentation text into lines for comment rendering.
func (d *Definition) DocLines() []string {
	return docLines(d.Doc)
}

// DocLines splits the documentation text into lines for comment rendering.
func (f *Field) DocLines() []string {
	return docLines(f.Doc)
}

// DocLines splits the documentation text into lines for comment rendering.
func (m *Message) DocLines() []string {
	return docLines(m.Doc)
}

// DocLines splits the documentation text into lines for comment rendering.
func (s *Symbol) DocLines() []string {
	return docLines(s.Doc)
}

func docLines(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}
