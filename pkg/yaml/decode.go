// Package yaml wraps [github.com/goccy/go-yaml] for config files.
//
// Decoding errors and JSON schema violations are returned as [*Error], which
// can render the offending part of the source document.
package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads YAML documents.
type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder creates a [Decoder] reading from r. Unknown fields are rejected
// when strict is set.
func NewDecoder(r io.Reader, strict bool) *Decoder {
	var opts []yaml.DecodeOption
	if strict {
		opts = append(opts, yaml.DisallowUnknownField())
	}

	return &Decoder{d: yaml.NewDecoder(r, opts...)}
}

// Decode decodes the next document into v. Syntax and type errors are
// returned as [*Error] carrying the token they occurred at.
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return err //nolint:wrapcheck // io.EOF must stay comparable.
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	return err //nolint:wrapcheck // Not a yaml.Error.
}
