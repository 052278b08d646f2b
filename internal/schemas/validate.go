// Package schemas validates bulk import files against the JSON Schema
// documents shipped in the repository's schemas/ directory.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxSchemaSearchDepth bounds how many parent directories ResolveSchemaPath
// climbs. Tools run from cmd/tools/<name> at the deepest, three levels below
// the repository root.
const maxSchemaSearchDepth = 3

// ResolveSchemaPath locates relativePath against the working directory and
// then against each parent directory in turn, so the import tools find the
// shipped schemas whether they run from the repo root or a package dir. It
// returns an absolute path, or "" when nothing matched.
func ResolveSchemaPath(relativePath string) string {
	candidate := relativePath
	for depth := 0; depth <= maxSchemaSearchDepth; depth++ {
		if abs, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
		candidate = filepath.Join("..", candidate)
	}
	return ""
}

// FieldError is one schema violation at a specific JSON path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violation found in a document. Callers
// unwrap it with errors.As to print per-field messages.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError means the schema itself could not be loaded or compiled,
// as opposed to the document failing validation.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON checks the document at jsonPath against the schema at
// schemaPath. An invalid document comes back as *ValidationError; a schema
// that cannot be used at all comes back as *SchemaLoadError.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbs, err := existingFile(schemaPath, "schema file")
	if err != nil {
		return err
	}
	docAbs, err := existingFile(jsonPath, "JSON file")
	if err != nil {
		return err
	}

	schema := gojsonschema.NewReferenceLoader("file://" + schemaAbs)
	document := gojsonschema.NewReferenceLoader("file://" + docAbs)
	return evaluate(schema, document, schemaAbs)
}

// ValidateJSONString checks a JSON document against a schema, both passed as
// string content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema := gojsonschema.NewStringLoader(schemaContent)
	document := gojsonschema.NewStringLoader(jsonContent)
	return evaluate(schema, document, "(inline schema)")
}

func evaluate(schema, document gojsonschema.JSONLoader, schemaName string) error {
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		// Loader errors cover both unparseable schemas and unparseable
		// documents; either way validation never ran.
		return &SchemaLoadError{Path: schemaName, Message: "validation could not run", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// existingFile resolves path to an absolute path and confirms it exists.
func existingFile(path, what string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", what, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("%s not found: %s", what, abs)
	}
	return abs, nil
}
