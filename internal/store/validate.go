package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dandori-app/dandori/internal/task"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("document.schema.json")
	})
	return schema, schemaErr
}

// ValidationError describes one failed check, with the JSON path it
// failed at.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate checks a document against the embedded JSON Schema, falling
// back to minimal structural checks if the schema cannot be compiled.
func Validate(doc *task.Document) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	s, err := compiledSchema()
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedded schema unavailable (%v), using minimal checks", err))
		validateMinimal(doc, result)
		return result
	}
	result.UsedSchema = true

	// Round-trip through JSON so the schema sees the wire shape.
	data, err := json.Marshal(doc)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("marshal for validation: %w", err)})
		return result
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("unmarshal for validation: %w", err)})
		return result
	}

	if err := s.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	// Checks the schema cannot express.
	validateRanges(doc, result)
	return result
}

// validateMinimal performs structural checks without JSON Schema.
func validateMinimal(doc *task.Document, result *ValidationResult) {
	if doc.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schemaVersion",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, doc.SchemaVersion),
		})
	}
	if doc.Projects == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "projects",
			Err:  fmt.Errorf("missing required field"),
		})
	}
	if doc.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}
	for i := range doc.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		t := &doc.Tasks[i]
		if t.ID == "" {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")})
		}
		if t.Title == "" {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".title", Err: fmt.Errorf("missing required field")})
		}
		if !t.Kind.Valid() {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".type", Err: fmt.Errorf("invalid kind %q", t.Kind)})
		}
	}
	validateRanges(doc, result)
}

// validateRanges checks minute bounds on timed tasks. Equal start and
// end is tolerated here: documents written after an update may carry
// it, only creation rejects it.
func validateRanges(doc *task.Document, result *ValidationResult) {
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.Kind != task.KindTimed {
			continue
		}
		path := fmt.Sprintf("tasks[%d]", i)
		if t.StartMin == nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".startMin",
				Err:  fmt.Errorf("required for timed tasks"),
			})
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
