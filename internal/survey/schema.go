package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"soundmap/internal/common"
)

// TableSchema declares which input columns mean what, replacing any pattern
// based column discovery. CategoryColumns order is load-bearing: it fixes the
// order of codes in composite scene keys and must be identical for encoding
// and decoding.
type TableSchema struct {
	SceneColumn     string            `json:"scene_column"`
	CategoryColumns []string          `json:"category_columns"`
	RatingAliases   map[string]string `json:"rating_aliases,omitempty"`
}

// tableSchemaJSON constrains schema config documents. Draft 2020-12 subset.
const tableSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "scene_column": {"type": "string", "minLength": 1},
    "category_columns": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "uniqueItems": true
    },
    "rating_aliases": {
      "type": "object",
      "additionalProperties": {"type": "string", "minLength": 1}
    }
  },
  "required": ["scene_column"]
}`

// DefaultTableSchema matches the plain upload layout: a "scene" identity
// column, no categorical conditions.
func DefaultTableSchema() TableSchema {
	return TableSchema{SceneColumn: "scene"}
}

// LoadTableSchema reads and validates a schema config file. An empty path
// yields the default schema. Any failure is a configuration error; schema
// problems must never surface per job.
func LoadTableSchema(path string) (TableSchema, error) {
	if path == "" {
		return DefaultTableSchema(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return TableSchema{}, common.NewAppError("CONFIG_ERROR", "reading table schema "+path, common.ErrConfiguration)
	}
	ts, err := ParseTableSchema(raw)
	if err != nil {
		return TableSchema{}, common.NewAppError("CONFIG_ERROR", "parsing table schema "+path, err)
	}
	return ts, nil
}

// ParseTableSchema validates raw against the embedded JSON Schema and decodes
// it.
func ParseTableSchema(raw []byte) (TableSchema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("table_schema.json", bytes.NewReader([]byte(tableSchemaJSON))); err != nil {
		return TableSchema{}, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("table_schema.json")
	if err != nil {
		return TableSchema{}, fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return TableSchema{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return TableSchema{}, fmt.Errorf("config does not match schema: %w", err)
	}
	var ts TableSchema
	if err := json.Unmarshal(raw, &ts); err != nil {
		return TableSchema{}, fmt.Errorf("decode config: %w", err)
	}
	if err := ts.check(); err != nil {
		return TableSchema{}, err
	}
	return ts, nil
}

func (ts TableSchema) check() error {
	scene := strings.ToLower(ts.SceneColumn)
	for _, c := range ts.CategoryColumns {
		if strings.ToLower(c) == scene {
			return fmt.Errorf("column %q cannot be both scene and category", c)
		}
	}
	return nil
}

// ratingName resolves a column header to its rating dimension, honoring
// configured aliases first, then the fixed vocabulary. Empty when the column
// is not a rating.
func (ts TableSchema) ratingName(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if ts.RatingAliases != nil {
		if dim, ok := ts.RatingAliases[h]; ok {
			return strings.ToLower(dim)
		}
	}
	return h
}
