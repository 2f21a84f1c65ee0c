package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var (
	documentSchema     *jsonschema.Schema
	documentSchemaOnce sync.Once
	documentSchemaErr  error
)

// compiledSchema compiles the embedded document schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.schema.json", strings.NewReader(schemaJSON)); err != nil {
			documentSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		documentSchema, documentSchemaErr = compiler.Compile("document.schema.json")
	})
	return documentSchema, documentSchemaErr
}

// validateAgainstSchema checks raw document bytes against the embedded JSON
// schema. Shape errors are returned with the schema's own diagnostics; the
// caller wraps them into the store error taxonomy.
func validateAgainstSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
