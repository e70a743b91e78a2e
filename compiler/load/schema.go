// Package load parses schema documents into the AST consumed by the compiler.
// Parsing performs shape checking only; cross-reference validation happens
// during graph resolution in compiler/gen.
package load

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Recognized values of the "type" discriminator.
const (
	TypeRecord    = "record"
	TypeInterface = "interface"
	TypeEnum      = "enum"
)

type (
	// Schema is the root container of a schema document.
	Schema struct {
		Types          []*Definition `json:"types,omitempty"`
		CodecNamespace string        `json:"codecNamespace,omitempty"`
		FullCodec      string        `json:"fullCodec,omitempty"`
	}

	// Definition is one schema-declared type: a record, interface or enum,
	// discriminated by Type.
	Definition struct {
		Name      string        `json:"name,omitempty"`
		Type      string        `json:"type,omitempty"`
		Target    string        `json:"target,omitempty"`
		Namespace string        `json:"namespace,omitempty"`
		Doc       string        `json:"doc,omitempty"`
		Fields    []*Field      `json:"fields,omitempty"`
		Messages  []*Message    `json:"messages,omitempty"`
		Types     []*Definition `json:"types,omitempty"`
		Symbols   []*Symbol     `json:"symbols,omitempty"`
	}

	// Field is a data member of a record or interface. Since and Default are
	// opaque text: Since must parse as a version during resolution, Default is
	// embedded verbatim in generated output.
	Field struct {
		Name    string `json:"name,omitempty"`
		Type    string `json:"type,omitempty"`
		Doc     string `json:"doc,omitempty"`
		Since   string `json:"since,omitempty"`
		Default string `json:"default,omitempty"`
	}

	// Message is an abstract operation signature declared on an interface.
	Message struct {
		Name     string     `json:"name,omitempty"`
		Response string     `json:"response,omitempty"`
		Doc      string     `json:"doc,omitempty"`
		Request  []*Request `json:"request,omitempty"`
	}

	// Request is one parameter of a message.
	Request struct {
		Name string `json:"name,omitempty"`
		Type string `json:"type,omitempty"`
		Doc  string `json:"doc,omitempty"`
	}

	// Symbol is one named value of an enum.
	Symbol struct {
		Name string `json:"name,omitempty"`
		Doc  string `json:"doc,omitempty"`
	}
)

// Parse parses a JSON schema document.
func Parse(data []byte) (*Schema, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, NewParseError("", fmt.Sprintf("invalid JSON document: %v", err))
	}
	return ParseValue(v)
}

// ParseYAML parses a YAML schema document. The decoded tree feeds the same
// shape checks as JSON input.
func ParseYAML(data []byte) (*Schema, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, NewParseError("", fmt.Sprintf("invalid YAML document: %v", err))
	}
	return ParseValue(v)
}

// ParseValue parses an already decoded document tree (maps, slices, scalars).
func ParseValue(v any) (*Schema, error) {
	obj, err := asObject(v, "")
	if err != nil {
		return nil, err
	}
	s := &Schema{}
	if s.CodecNamespace, err = optString(obj, "codecNamespace", ""); err != nil {
		return nil, err
	}
	if s.FullCodec, err = optString(obj, "fullCodec", ""); err != nil {
		return nil, err
	}
	items, err := optList(obj, "types", "")
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		d, err := parseDefinition(item, fmt.Sprintf("types[%d]", i))
		if err != nil {
			return nil, err
		}
		s.Types = append(s.Types, d)
	}
	return s, nil
}

func parseDefinition(v any, path string) (*Definition, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	d := &Definition{}
	if d.Name, err = reqString(obj, "name", path); err != nil {
		return nil, err
	}
	if d.Type, err = reqString(obj, "type", path); err != nil {
		return nil, err
	}
	switch d.Type {
	case TypeRecord, TypeInterface, TypeEnum:
	default:
		return nil, NewParseError(path+".type", fmt.Sprintf("unknown type discriminator %q; expected %q, %q or %q", d.Type, TypeRecord, TypeInterface, TypeEnum))
	}
	if d.Target, err = optString(obj, "target", path); err != nil {
		return nil, err
	}
	switch d.Target {
	case "", "Java", "Scala":
	default:
		return nil, NewParseError(path+".target", fmt.Sprintf("unknown target %q; expected \"Java\" or \"Scala\"", d.Target))
	}
	if d.Namespace, err = optString(obj, "namespace", path); err != nil {
		return nil, err
	}
	if d.Doc, err = docText(obj, path); err != nil {
		return nil, err
	}
	if d.Type != TypeEnum {
		items, err := optList(obj, "fields", path)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			f, err := parseField(item, fmt.Sprintf("%s.fields[%d]", path, i))
			if err != nil {
				return nil, err
			}
			d.Fields = append(d.Fields, f)
		}
	}
	if d.Type == TypeInterface {
		items, err := optList(obj, "messages", path)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			m, err := parseMessage(item, fmt.Sprintf("%s.messages[%d]", path, i))
			if err != nil {
				return nil, err
			}
			d.Messages = append(d.Messages, m)
		}
		children, err := optList(obj, "types", path)
		if err != nil {
			return nil, err
		}
		for i, item := range children {
			child, err := parseDefinition(item, fmt.Sprintf("%s.types[%d]", path, i))
			if err != nil {
				return nil, err
			}
			d.Types = append(d.Types, child)
		}
	}
	if d.Type == TypeEnum {
		items, err := optList(obj, "symbols", path)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			sym, err := parseSymbol(item, fmt.Sprintf("%s.symbols[%d]", path, i))
			if err != nil {
				return nil, err
			}
			d.Symbols = append(d.Symbols, sym)
		}
	}
	return d, nil
}

func parseField(v any, path string) (*Field, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	f := &Field{}
	if f.Name, err = reqString(obj, "name", path); err != nil {
		return nil, err
	}
	if f.Type, err = reqString(obj, "type", path); err != nil {
		return nil, err
	}
	if f.Doc, err = docText(obj, path); err != nil {
		return nil, err
	}
	if f.Since, err = optString(obj, "since", path); err != nil {
		return nil, err
	}
	if f.Default, err = optString(obj, "default", path); err != nil {
		return nil, err
	}
	return f, nil
}

func parseMessage(v any, path string) (*Message, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	m := &Message{}
	if m.Name, err = reqString(obj, "name", path); err != nil {
		return nil, err
	}
	if m.Response, err = reqString(obj, "response", path); err != nil {
		return nil, err
	}
	if m.Doc, err = docText(obj, path); err != nil {
		return nil, err
	}
	items, err := optList(obj, "request", path)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		r, err := parseRequest(item, fmt.Sprintf("%s.request[%d]", path, i))
		if err != nil {
			return nil, err
		}
		m.Request = append(m.Request, r)
	}
	return m, nil
}

func parseRequest(v any, path string) (*Request, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	r := &Request{}
	if r.Name, err = reqString(obj, "name", path); err != nil {
		return nil, err
	}
	if r.Type, err = reqString(obj, "type", path); err != nil {
		return nil, err
	}
	if r.Doc, err = docText(obj, path); err != nil {
		return nil, err
	}
	return r, nil
}

// parseSymbol accepts either a bare identifier string or an object with
// a name and optional doc.
func parseSymbol(v any, path string) (*Symbol, error) {
	if s, ok := v.(string); ok {
		return &Symbol{Name: s}, nil
	}
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	sym := &Symbol{}
	if sym.Name, err = reqString(obj, "name", path); err != nil {
		return nil, err
	}
	if sym.Doc, err = docText(obj, path); err != nil {
		return nil, err
	}
	return sym, nil
}

// docText accepts "doc" as a single string or a list of strings joined
// by newlines.
func docText(obj map[string]any, path string) (string, error) {
	v, ok := obj["doc"]
	if !ok {
		return "", nil
	}
	switch doc := v.(type) {
	case string:
		return doc, nil
	case []any:
		lines := make([]string, len(doc))
		for i, line := range doc {
			s, ok := line.(string)
			if !ok {
				return "", NewParseError(fmt.Sprintf("%s.doc[%d]", path, i), fmt.Sprintf("expected a string, got %s", kindOf(line)))
			}
			lines[i] = s
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", NewParseError(path+".doc", fmt.Sprintf("expected a string or a list of strings, got %s", kindOf(v)))
	}
}

func asObject(v any, path string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, NewParseError(path, fmt.Sprintf("expected an object, got %s", kindOf(v)))
	}
	return obj, nil
}

func reqString(obj map[string]any, key, path string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", NewParseError(joinPath(path, key), "missing required key")
	}
	s, ok := v.(string)
	if !ok {
		return "", NewParseError(joinPath(path, key), fmt.Sprintf("expected a string, got %s", kindOf(v)))
	}
	return s, nil
}

func optString(obj map[string]any, key, path string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", NewParseError(joinPath(path, key), fmt.Sprintf("expected a string, got %s", kindOf(v)))
	}
	return s, nil
}

func optList(obj map[string]any, key, path string) ([]any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, NewParseError(joinPath(path, key), fmt.Sprintf("expected a list, got %s", kindOf(v)))
	}
	return items, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64, float32, int, int64, uint64:
		return "a number"
	case []any:
		return "a list"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
