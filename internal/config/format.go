package config

import (
	"fmt"
	"path/filepath"
	"strings"

	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// Format identifies the syntax of a configuration file.
type Format string

const (
	// FormatAuto asks the loader to infer the format from the file extension.
	FormatAuto Format = "auto"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Formats lists every supported Format value.
var Formats = []Format{FormatAuto, FormatTOML, FormatYAML}

func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is one of the defined formats.
func (f Format) Valid() bool {
	switch f {
	case FormatAuto, FormatTOML, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseFormat converts user supplied text (for example a CLI flag) into a Format.
// An empty string selects FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", etlerrors.NewValidationError("format", fmt.Sprintf("unsupported config format %q", s), nil)
	}
}

// ResolveFormat returns the concrete format used to parse path. Explicit
// formats win; FormatAuto maps .yaml and .yml to YAML and everything else to TOML.
func ResolveFormat(path string, format Format) Format {
	switch format {
	case FormatTOML, FormatYAML:
		return format
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
