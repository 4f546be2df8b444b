package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/etlrun/internal/logger"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// Loader reads templated TOML/YAML configuration files. The environment
// snapshot is fixed at construction so loads are deterministic.
type Loader struct {
	env    Env
	logger *logger.Logger
}

// NewLoader creates a Loader rendering templates against env.
func NewLoader(env Env, log *logger.Logger) *Loader {
	return &Loader{env: env, logger: log}
}

// Load reads path with the given format using env as the template source.
func Load(path string, format Format, env Env) (map[string]any, error) {
	return NewLoader(env, nil).Load(context.Background(), path, format)
}

// Load reads, renders and parses the configuration file at path.
//
// Argument problems are reported as *errors.ValidationError before any file
// is touched. Every later failure is a *errors.LoadConfigError carrying the
// path and the format that was attempted.
func (l *Loader) Load(ctx context.Context, path string, format Format) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, etlerrors.NewValidationError("path", "config file path must not be empty", nil)
	}
	if !format.Valid() {
		return nil, etlerrors.NewValidationError("format", fmt.Sprintf("unsupported config format %q", string(format)), nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	use := ResolveFormat(path, format)
	log := l.logger.WithFields(map[string]any{"path": path, "format": use.String()})
	log.Debug("loading configuration")

	result, err := l.load(path, use)
	if err != nil {
		log.Error(err, "failed to load configuration")
		return nil, err
	}

	log.Debug("configuration loaded")
	return result, nil
}

func (l *Loader) load(path string, use Format) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, etlerrors.NewLoadConfigError(path, use.String(), err)
	}

	rendered, err := RenderTemplate(string(raw), l.env)
	if err != nil {
		var undefined *UndefinedVariableError
		if errors.As(err, &undefined) {
			return nil, etlerrors.NewUndefinedVariableError(path, use.String(), undefined.Name, err)
		}
		return nil, etlerrors.NewLoadConfigError(path, use.String(), err)
	}

	result, err := parse(rendered, use)
	if err != nil {
		return nil, etlerrors.NewLoadConfigError(path, use.String(), err)
	}
	return result, nil
}

func parse(src string, format Format) (map[string]any, error) {
	var result map[string]any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(src), &result); err != nil {
			return nil, err
		}
	default:
		if err := toml.Unmarshal([]byte(src), &result); err != nil {
			return nil, err
		}
	}

	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}
