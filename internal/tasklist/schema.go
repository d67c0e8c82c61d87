package tasklist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todo-go/internal/utils"
)

// schemaURL is the resource name the embedded schema is registered under.
const schemaURL = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaSource returns the JSON Schema that task files are checked against.
func SchemaSource() string {
	return schemaSource
}

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks raw task file contents and returns every problem found.
// A nil slice means the document is a valid task file.
func Validate(path string, data []byte) []error {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return []error{&ParseError{Path: path, Err: err}}
	}
	if dec.More() {
		return []error{&ParseError{Path: path, Err: errors.New("unexpected data after top-level value")}}
	}

	schema, err := taskSchema()
	if err != nil {
		return []error{&ParseError{Path: path, Err: err}}
	}

	var errs []error
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{&ParseError{Path: path, Err: err}}
		}
		collectSchemaErrors(&errs, path, ve)
		return errs
	}

	// Whitespace-only text passes minLength but would never be accepted by Add.
	items, _ := doc.([]interface{})
	for i, item := range items {
		obj, _ := item.(map[string]interface{})
		text, _ := obj["text"].(string)
		if strings.TrimSpace(text) == "" {
			errs = append(errs, &ParseError{
				Path:     path,
				Location: fmt.Sprintf("[%d].text", i),
				Err:      ErrEmptyText,
			})
		}
	}
	return errs
}

func collectSchemaErrors(errs *[]error, path string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ParseError{
			Path:     path,
			Location: utils.JSONPointerToPath(err.InstanceLocation),
			Err:      errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, path, cause)
	}
}
