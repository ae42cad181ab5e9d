package pipeline

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// LoadConfig builds the effective configuration: defaults, overlaid
// with an optional YAML file, overlaid with BLF_* environment
// variables. An empty path skips the file layer.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if err := registerDefaults(v, cfg); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("BLF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registerDefaults seeds viper with every key of the default
// configuration. AutomaticEnv only consults the environment for keys
// viper already knows, so the BLF_* layer applies only to registered
// keys. The elastic-net block is registered as a nested map so its
// keys flatten to ElasticNet.* rather than one opaque value.
func registerDefaults(v *viper.Viper, cfg *Config) error {
	var settings, elnet map[string]any
	if err := mapstructure.Decode(cfg, &settings); err != nil {
		return fmt.Errorf("register defaults: %w", err)
	}
	if err := mapstructure.Decode(cfg.ElasticNet, &elnet); err != nil {
		return fmt.Errorf("register defaults: %w", err)
	}
	settings["ElasticNet"] = elnet
	for key, val := range settings {
		v.SetDefault(key, val)
	}
	return nil
}
