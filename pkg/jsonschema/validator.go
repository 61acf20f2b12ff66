package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Violation is a single schema failure at one location of the instance.
type Violation struct {
	// InstanceLocation is the JSON pointer of the offending value ("" for the root)
	InstanceLocation string
	// KeywordLocation is the schema keyword that failed, e.g. "/properties/data/type"
	KeywordLocation string
	Message         string
}

func (v Violation) Error() string {
	location := v.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("validation error at %s: %s", location, v.Message)
}

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool
	Errors ValidationErrors
}

// FirstViolation describes the first failure, or "" when the document is valid.
func (r Result) FirstViolation() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Error()
}

// Err returns nil for a valid result and the collected errors otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Errors
}

// Validator holds one compiled Schema Document. It is read-only after
// construction and may be shared across cases.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles schema under name. Documents that do not declare $schema
// are treated as draft-07.
func Compile(name string, schema []byte) (*Validator, error) {
	compiled, err := compile(name, string(schema))
	if err != nil {
		return nil, err
	}
	return &Validator{name: name, schema: compiled}, nil
}

// LoadFS reads and compiles the named document from fsys.
func LoadFS(fsys fs.FS, name string) (*Validator, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", name, err)
	}
	return Compile(name, data)
}

// LoadFile reads and compiles the document at path.
func LoadFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	return Compile(filepath.Base(path), data)
}

// Name returns the name the document was compiled under.
func (v *Validator) Name() string {
	return v.name
}

// Validate checks a raw JSON body. A body that is not JSON fails validation.
func (v *Validator) Validate(body []byte) Result {
	if len(bytes.TrimSpace(body)) == 0 {
		return Result{Errors: ValidationErrors{errors.New("invalid JSON: empty body")}}
	}

	var instance interface{}
	if err := json.Unmarshal(body, &instance); err != nil {
		return Result{Errors: ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}}
	}

	return v.ValidateValue(instance)
}

// ValidateValue checks an already decoded JSON value.
func (v *Validator) ValidateValue(instance interface{}) Result {
	err := v.schema.Validate(instance)
	if err == nil {
		return Result{Valid: true}
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return Result{Errors: extractValidationErrors(validationErr)}
	}
	return Result{Errors: ValidationErrors{err}}
}

func compile(name, schemaStr string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return schema, nil
}

// extractValidationErrors flattens the cause tree into its leaves, ordered by
// instance location so the first entry is stable between runs.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var leaves []Violation
	collectLeaves(err, &leaves)

	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})

	errs := make(ValidationErrors, 0, len(leaves))
	for _, leaf := range leaves {
		errs = append(errs, leaf)
	}
	return errs
}

func collectLeaves(err *jsonschema.ValidationError, leaves *[]Violation) {
	if len(err.Causes) == 0 {
		*leaves = append(*leaves, Violation{
			InstanceLocation: err.InstanceLocation,
			KeywordLocation:  err.KeywordLocation,
			Message:          err.Message,
		})
		return
	}

	for _, cause := range err.Causes {
		collectLeaves(cause, leaves)
	}
}
