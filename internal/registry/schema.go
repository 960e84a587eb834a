package registry

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	lightsTableSchema    = "lights-table.json"
	trackballGamesSchema = "trackball-games.json"
)

var compileSchemas = sync.OnceValues(func() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	names := []string{lightsTableSchema, trackballGamesSchema}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = s
	}
	return schemas, nil
})

// validateDocument checks raw JSON against one of the embedded schemas.
func validateDocument(schemaName string, data []byte) error {
	schemas, err := compileSchemas()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schemas[schemaName].Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		// only leaves say what is actually wrong
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}
	collectErrors(err)

	if len(messages) == 0 {
		return errors.New("schema validation failed")
	}
	return fmt.Errorf("schema validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
