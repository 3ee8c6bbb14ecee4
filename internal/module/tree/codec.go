package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseURI splits a "json:file.json" style URI into its format and
// location. The location may be empty.
func ParseURI(uri string) (Format, string, error) {
	scheme, location, ok := strings.Cut(uri, ":")
	if !ok {
		return "", "", fmt.Errorf("uri %q has no scheme", uri)
	}

	switch f := Format(strings.ToLower(scheme)); f {
	case FormatJSON, FormatYAML:
		return f, strings.TrimPrefix(location, "//"), nil
	default:
		return "", "", fmt.Errorf("unsupported document format %q", scheme)
	}
}

// Decode parses data into a document.
func Decode(format Format, data []byte) (any, error) {
	var doc any

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}

	return doc, nil
}

// Encode renders a document.
func Encode(format Format, doc any) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}

		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// ReadFile loads and decodes the document at location.
func ReadFile(format Format, location string) (any, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return Decode(format, data)
}
