package filters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/KevinWang15/go-json5"
	"gopkg.in/yaml.v3"
)

// Format is a filter file encoding.
type Format string

const (
	YAML  Format = "yaml"
	JSON5 Format = "json5"
)

// FormatOf guesses the encoding from a file name extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json", ".json5":
		return JSON5, nil
	}
	return "", fmt.Errorf("unknown filter file extension %q", filepath.Ext(path))
}

// Write encodes f to w.
func (f *Filter) Write(w io.Writer, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case JSON5:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	return fmt.Errorf("unsupported filter format %q", format)
}

// Parse decodes and validates a filter.
func Parse(data []byte, format Format) (*Filter, error) {
	var f Filter
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &f)
	case JSON5:
		err = json5.Unmarshal(data, &f)
	default:
		err = fmt.Errorf("unsupported filter format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a filter file; the encoding follows the extension.
func Load(path string) (*Filter, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter %s: %w", path, err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing filter %s: %w", path, err)
	}
	return f, nil
}
