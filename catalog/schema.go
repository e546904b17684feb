package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jsv "github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchema compiles the JSON schema for Manifest once, generated by
// reflection so the schema can never drift from the struct.
var manifestSchema = sync.OnceValues(func() (*jsv.Schema, error) {
	reflector := new(jsonschema.Reflector)
	reflector.ExpandedStruct = true

	generated := reflector.Reflect(&Manifest{})
	raw, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest schema: %w", err)
	}

	compiler := jsv.NewCompiler()
	if err := compiler.AddResource("manifest.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add manifest schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	return schema, nil
})

// validateManifest checks a decoded YAML document against the manifest
// schema before it is mapped onto entities, so malformed bundles fail with
// a field-level message instead of a zero-valued descriptor.
func validateManifest(doc interface{}) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}
