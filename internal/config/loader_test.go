package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAMLSubstitutesEnvironment(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.yaml", "timeout: {{ TIMEOUT }}\n")

	cfg, err := Load(path, FormatAuto, EnvFromMap(map[string]string{"TIMEOUT": "30"}))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"timeout": 30}, cfg)
}

func TestLoadYAMLUndefinedVariable(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.yaml", "timeout: {{ TIMEOUT }}\n")

	cfg, err := Load(path, FormatAuto, EnvFromMap(nil))
	require.Nil(t, cfg)

	var loadErr *etlerrors.LoadConfigError
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, "TIMEOUT", loadErr.Variable)
	require.Equal(t, path, loadErr.Path)
	require.Equal(t, "yaml", loadErr.Format)
	require.Contains(t, err.Error(), "TIMEOUT")
}

func TestLoadTOMLSubstitutesEnvironment(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.toml", `name = "{{ SERVICE_NAME }}"`+"\n")

	cfg, err := Load(path, FormatAuto, EnvFromMap(map[string]string{"SERVICE_NAME": "ingest"}))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "ingest"}, cfg)
}

func TestLoadTOMLNestedTables(t *testing.T) {
	t.Parallel()

	content := `
[runtime]
max_workers = {{ WORKERS }}

[[workflows]]
id = "orders"
name = "Orders"
`
	path := writeConfig(t, "pipeline.conf", content)

	cfg, err := Load(path, FormatAuto, EnvFromMap(map[string]string{"WORKERS": "4"}))
	require.NoError(t, err)

	runtime, ok := cfg["runtime"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 4, runtime["max_workers"])

	workflows, ok := cfg["workflows"].([]any)
	require.True(t, ok)
	require.Len(t, workflows, 1)
}

func TestLoadExplicitFormatOverridesExtension(t *testing.T) {
	t.Parallel()

	yamlInTOMLFile := writeConfig(t, "cfg.toml", "name: {{ NAME }}\n")
	cfg, err := Load(yamlInTOMLFile, FormatYAML, EnvFromMap(map[string]string{"NAME": "ingest"}))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "ingest"}, cfg)

	tomlInYAMLFile := writeConfig(t, "cfg.yml", `name = "{{ NAME }}"`+"\n")
	cfg, err = Load(tomlInYAMLFile, FormatTOML, EnvFromMap(map[string]string{"NAME": "ingest"}))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "ingest"}, cfg)
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", "   "} {
		_, err := Load(path, FormatAuto, EnvFromMap(nil))

		var valErr *etlerrors.ValidationError
		require.ErrorAs(t, err, &valErr)
		require.Equal(t, "path", valErr.Field)

		var loadErr *etlerrors.LoadConfigError
		require.False(t, errors.As(err, &loadErr))
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Load("/does/not/matter.toml", Format("ini"), EnvFromMap(nil))

	var valErr *etlerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, "format", valErr.Field)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(path, FormatAuto, EnvFromMap(nil))

	var loadErr *etlerrors.LoadConfigError
	require.ErrorAs(t, err, &loadErr)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "yaml", loadErr.Format)
	require.Empty(t, loadErr.Variable)
}

func TestLoadMalformedSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		format  string
	}{
		{name: "toml", file: "bad.toml", content: "name = \n", format: "toml"},
		{name: "yaml", file: "bad.yaml", content: "name: [unterminated\n", format: "yaml"},
		{name: "yaml sequence at top level", file: "list.yaml", content: "- a\n- b\n", format: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.file, tt.content)
			cfg, err := Load(path, FormatAuto, EnvFromMap(nil))
			require.Nil(t, cfg)

			var loadErr *etlerrors.LoadConfigError
			require.ErrorAs(t, err, &loadErr)
			require.Equal(t, tt.format, loadErr.Format)
			require.Equal(t, path, loadErr.Path)
		})
	}
}

func TestLoadTemplateSyntaxErrorIsLoadError(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cfg.yaml", "name: {{ NAME | upper }}\n")
	_, err := Load(path, FormatAuto, EnvFromMap(map[string]string{"NAME": "x"}))

	var loadErr *etlerrors.LoadConfigError
	require.ErrorAs(t, err, &loadErr)
	var syntaxErr *TemplateSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestLoadEmptyYAMLDocument(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "empty.yaml", "# nothing here\n")
	cfg, err := Load(path, FormatAuto, EnvFromMap(nil))
	require.NoError(t, err)
	require.Empty(t, cfg)
	require.NotNil(t, cfg)
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(EnvFromMap(nil), nil).Load(ctx, "cfg.toml", FormatAuto)
	require.ErrorIs(t, err, context.Canceled)
}
