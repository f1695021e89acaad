package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Validator validates decoded YAML against a JSON schema, using
// [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the JSON schema in schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

// MustNewValidator is like [NewValidator] but panics on error.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates data, which must be the result of decoding into an
// [any]. Violations are returned as [*Error] pointing at the most specific
// location reported by the schema.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(normalize(data))
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := deepestCause(ve)

	return &Error{
		Err:  errors.New(leafMessage(leaf)),
		Path: pathFromLocation(leaf.InstanceLocation),
	}
}

// deepestCause returns the cause with the longest instance location.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := ve
	for _, c := range ve.Causes {
		if d := deepestCause(c); len(d.InstanceLocation) > len(best.InstanceLocation) {
			best = d
		}
	}

	return best
}

func leafMessage(ve *jsonschema.ValidationError) string {
	if ve.ErrorKind != nil {
		return ve.ErrorKind.LocalizedString(printer)
	}

	return ve.Error()
}

func pathFromLocation(location []string) *yaml.Path {
	b := NewPathBuilder().Root()
	for _, part := range location {
		if i, err := strconv.ParseUint(part, 10, 32); err == nil {
			b = b.Index(uint(i))

			continue
		}

		b = b.Child(part)
	}

	return b.Build()
}

// NewPathBuilder returns a [yaml.PathBuilder].
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// normalize converts the integer types produced by the YAML decoder into
// float64, the number type encoding/json would produce.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}

		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}

	return v
}
