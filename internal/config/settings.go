package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/alexisbeaulieu97/etlrun/internal/validation"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// SettingsKey is the top-level table holding runtime settings.
const SettingsKey = "runtime"

// Settings controls how the runner executes the configured workflows.
type Settings struct {
	// MaxWorkers caps concurrently running workflows; 0 means no limit.
	MaxWorkers int    `mapstructure:"max_workers" validate:"gte=0,lte=1024"`
	FailFast   bool   `mapstructure:"fail_fast"`
	LogLevel   string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// DefaultSettings returns the settings used when a configuration omits the runtime table.
func DefaultSettings() Settings {
	return Settings{LogLevel: "info"}
}

// SettingsFrom resolves runtime settings from a loaded configuration mapping,
// applying defaults for absent keys.
func SettingsFrom(mapping map[string]any) (Settings, error) {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetDefault("max_workers", defaults.MaxWorkers)
	v.SetDefault("fail_fast", defaults.FailFast)
	v.SetDefault("log_level", defaults.LogLevel)

	if raw, ok := mapping[SettingsKey]; ok && raw != nil {
		table, ok := raw.(map[string]any)
		if !ok {
			return Settings{}, etlerrors.NewValidationError(SettingsKey, fmt.Sprintf("expected a table, got %T", raw), nil)
		}
		if err := v.MergeConfigMap(table); err != nil {
			return Settings{}, etlerrors.NewValidationError(SettingsKey, err.Error(), err)
		}
	}

	var settings Settings
	rejectUnknown := func(c *mapstructure.DecoderConfig) { c.ErrorUnused = true }
	if err := v.Unmarshal(&settings, rejectUnknown); err != nil {
		return Settings{}, etlerrors.NewValidationError(SettingsKey, err.Error(), err)
	}

	if err := validation.Struct(SettingsKey, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
