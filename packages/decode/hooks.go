package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/qbx2/declrest/packages/core/spec"
)

// ExtractPath returns a result hook that pulls one value out of a JSON
// document by gjson path. It accepts the raw body ([]byte or string)
// or an already parsed value.
func ExtractPath(path string) spec.Hook {
	return func(value any) (any, error) {
		doc, err := asJSON(value)
		if err != nil {
			return nil, err
		}
		result := gjson.Get(doc, path)
		if !result.Exists() {
			return nil, fmt.Errorf("path %q not found", path)
		}
		return result.Value(), nil
	}
}

// ValidateSchema returns a pass-through result hook that fails the
// call when the current value does not satisfy the given JSON schema.
func ValidateSchema(schema string) spec.Hook {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	return func(value any) (any, error) {
		doc, err := asJSON(value)
		if err != nil {
			return nil, err
		}
		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, err
		}
		if !result.Valid() {
			var reasons []string
			for _, desc := range result.Errors() {
				reasons = append(reasons, desc.String())
			}
			return nil, fmt.Errorf("schema validation failed: %s", strings.Join(reasons, "; "))
		}
		return value, nil
	}
}

func asJSON(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
