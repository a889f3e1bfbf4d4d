package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/userstore/pkg/core"
)

// Serializer defines how a User is persisted as text.
type Serializer interface {
	// Name identifies the format (e.g. "json").
	Name() string
	// Marshal converts the User to bytes.
	Marshal(u core.User) ([]byte, error)
	// Unmarshal decodes a User. Missing or null fields are errors, never defaults.
	Unmarshal(data []byte) (core.User, error)
}

// DefaultSerializers returns the standard set of serializers keyed by name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(),
		"yaml": NewYAMLSerializer(),
	}
}

// SerializerNames lists the names accepted by SerializerFor, sorted.
func SerializerNames() []string {
	names := make([]string, 0, 2)
	for name := range DefaultSerializers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SerializerFor looks up a default serializer by name. Empty selects JSON.
func SerializerFor(name string) (Serializer, error) {
	if name == "" {
		name = "json"
	}
	s, ok := DefaultSerializers()[name]
	if !ok {
		return nil, fmt.Errorf("unknown serializer %q (available: %v)", name, SerializerNames())
	}
	return s, nil
}

// userWire mirrors core.User with pointers so absent fields can be detected.
type userWire struct {
	Name *string `json:"name" yaml:"name"`
	Age  *uint16 `json:"age" yaml:"age"`
}

func (w userWire) user() (core.User, error) {
	if w.Name == nil {
		return core.User{}, fmt.Errorf("missing field %q", "name")
	}
	if w.Age == nil {
		return core.User{}, fmt.Errorf("missing field %q", "age")
	}
	return core.User{Name: *w.Name, Age: *w.Age}, nil
}

// checkEncodable refuses names both encoders would rewrite to U+FFFD.
func checkEncodable(u core.User) error {
	if !utf8.ValidString(u.Name) {
		return fmt.Errorf("field %q is not valid UTF-8", "name")
	}
	return nil
}

// --- JSON Serializer ---

// JSONSerializer stores records as compact JSON objects.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Name() string { return "json" }

func (s *JSONSerializer) Marshal(u core.User) ([]byte, error) {
	if err := checkEncodable(u); err != nil {
		return nil, err
	}
	return json.Marshal(u)
}

func (s *JSONSerializer) Unmarshal(data []byte) (core.User, error) {
	w, err := decodeJSONWire(data)
	if err != nil {
		return core.User{}, fmt.Errorf("invalid json: %w", err)
	}
	return w.user()
}

// decodeJSONWire walks a single top-level object token by token. Keys match
// exactly (encoding/json folds case) and a repeated key is an error.
func decodeJSONWire(data []byte) (userWire, error) {
	var w userWire
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return w, err
	}
	if tok == nil {
		// a bare null document carries no fields
		return w, expectEOF(dec)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return w, fmt.Errorf("expected object, found %v", tok)
	}

	seen := make(map[string]bool, 2)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return w, err
		}
		key, ok := tok.(string)
		if !ok {
			return w, fmt.Errorf("unexpected token %v", tok)
		}
		if seen[key] {
			return w, fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = true

		switch key {
		case "name":
			err = dec.Decode(&w.Name)
		case "age":
			err = dec.Decode(&w.Age)
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return w, fmt.Errorf("field %q: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return w, err
	}
	return w, expectEOF(dec)
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("trailing data after object")
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer stores records as YAML mappings.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Name() string { return "yaml" }

func (s *YAMLSerializer) Marshal(u core.User) ([]byte, error) {
	if err := checkEncodable(u); err != nil {
		return nil, err
	}
	return yaml.Marshal(u)
}

func (s *YAMLSerializer) Unmarshal(data []byte) (core.User, error) {
	var w userWire
	if err := yaml.Unmarshal(data, &w); err != nil {
		return core.User{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return w.user()
}
