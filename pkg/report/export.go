package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText    = "text"
	FormatCompact = "compact"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatPlot    = "plot"
)

// LZ4Ext marks a compressed JSON export.
const LZ4Ext = ".lz4"

// Export errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrInvalidReport = errors.New("report does not match schema")
)

// schema pins the export contract consumed by downstream tooling.
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["runId", "analyzer", "root", "globalStats", "driverMetrics", "aggregateMetrics"],
  "properties": {
    "runId": {"type": "string", "minLength": 1},
    "analyzer": {"enum": ["project", "laravel"]},
    "root": {"type": "string"},
    "globalStats": {
      "type": "object",
      "required": ["directories", "totalFiles", "analyzedFiles", "skippedFiles"],
      "properties": {
        "directories": {
          "type": "object",
          "required": ["size"],
          "properties": {"size": {"type": "integer", "minimum": 0}}
        },
        "totalFiles": {"type": "integer", "minimum": 0},
        "analyzedFiles": {"type": "integer", "minimum": 0},
        "skippedFiles": {"type": "integer", "minimum": 0}
      }
    },
    "driverMetrics": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["files", "loc"]
      }
    },
    "aggregateMetrics": {"type": "object"},
    "enhancedMetrics": {
      "type": "object",
      "required": ["projectType", "qualityScore", "recommendations"],
      "properties": {
        "qualityScore": {"type": "integer", "minimum": 0, "maximum": 100},
        "recommendations": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schema)

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

// WriteYAML writes rep as YAML.
func WriteYAML(w io.Writer, rep *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush yaml report: %w", err)
	}

	return nil
}

// Validate checks a JSON export against the report schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(msgs, "; "))
}

// Export writes rep to path. The extension picks the encoding: .yaml and
// .yml write YAML, .lz4 writes LZ4-framed JSON, anything else JSON. JSON
// exports are validated against the schema before they are written.
func Export(path string, rep *Report) error {
	var buf bytes.Buffer

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := WriteYAML(&buf, rep); err != nil {
			return err
		}
	default:
		if err := WriteJSON(&buf, rep); err != nil {
			return err
		}

		if err := Validate(buf.Bytes()); err != nil {
			return err
		}
	}

	data := buf.Bytes()

	if ext == LZ4Ext {
		compressed, err := compress(data)
		if err != nil {
			return err
		}

		data = compressed
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func compress(data []byte) ([]byte, error) {
	var out bytes.Buffer

	zw := lz4.NewWriter(&out)

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}

	return out.Bytes(), nil
}
