package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFile is the file name of the JSON schema written next to the config.
const SchemaFile = "config.v1beta1.json"

// GenerateSchema reflects the JSON schema of [Config].
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		Anonymous:                  true,
	}

	s := r.Reflect(&Config{})
	s.Title = "gridpick configuration"

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// MustGenerateSchema is like [GenerateSchema] but panics on error.
func MustGenerateSchema() []byte {
	b, err := GenerateSchema()
	if err != nil {
		panic(err)
	}

	return b
}

// Schema returns the JSON schema of [Config].
func Schema() []byte {
	return schemaJSON
}
