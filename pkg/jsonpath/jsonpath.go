package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Document is a parsed JSON body queried with JSONPath-style expressions
// such as "$.data[0].id" or plain gjson paths such as "data.0.id".
type Document struct {
	raw string
}

// Parse wraps body for querying. It fails when body is not valid JSON.
func Parse(body []byte) (Document, error) {
	raw := string(body)
	if strings.TrimSpace(raw) == "" {
		return Document{}, fmt.Errorf("empty JSON document")
	}
	if !gjson.Valid(raw) {
		return Document{}, fmt.Errorf("invalid JSON document")
	}
	return Document{raw: raw}, nil
}

// Get returns the value at path.
func (d Document) Get(path string) gjson.Result {
	return gjson.Get(d.raw, convertToGjsonPath(path))
}

// Has reports whether path is present, including explicit nulls.
func (d Document) Has(path string) bool {
	return d.Get(path).Exists()
}

// String returns the value at path rendered as a string.
func (d Document) String(path string) string {
	return d.Get(path).String()
}

// Int returns the value at path as an integer and whether it was a number.
func (d Document) Int(path string) (int64, bool) {
	result := d.Get(path)
	if result.Type != gjson.Number {
		return 0, false
	}
	return result.Int(), true
}

// Len returns the number of elements of the array at path, or -1 when the
// value is not an array.
func (d Document) Len(path string) int {
	result := d.Get(path)
	if !result.IsArray() {
		return -1
	}
	return len(result.Array())
}

// Raw returns the raw JSON text at path.
func (d Document) Raw(path string) string {
	return d.Get(path).Raw
}

// IsEmptyObject reports whether the whole document is "{}".
func (d Document) IsEmptyObject() bool {
	root := gjson.Parse(d.raw)
	return root.IsObject() && len(root.Map()) == 0
}

// convertToGjsonPath converts a JSONPath expression to a gjson path.
//
//	$.data[0].id  ->  data.0.id
//	$['page']     ->  page
func convertToGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	// Bracketed names, single or double quoted
	for _, quote := range []string{"'", "\""} {
		path = strings.ReplaceAll(path, "["+quote, ".")
		path = strings.ReplaceAll(path, quote+"]", "")
	}

	// Index access: [n] -> .n
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	return strings.TrimPrefix(path, ".")
}
