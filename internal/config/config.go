// Package config resolves skilltest settings from defaults, an optional
// .skilltest.yaml file, SKILLTEST_* environment variables and bound flags.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/bartekus/skilltest/internal/scriptexec"
	"github.com/bartekus/skilltest/internal/validate"
)

const (
	EnvPrefix = "SKILLTEST"
	FileName  = ".skilltest"
)

// Keys.
const (
	KeyTimeout            = "timeout"
	KeyDiffLimit          = "diff_limit"
	KeyParallel           = "parallel"
	KeyCompatPlaceholders = "compat_placeholders"
	KeyLogLevel           = "log_level"
	KeyLogFormat          = "log_format"
	KeyNoColor            = "no_color"
)

// Config is the resolved configuration.
type Config struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	DiffLimit          int           `mapstructure:"diff_limit"`
	Parallel           int           `mapstructure:"parallel"`
	CompatPlaceholders bool          `mapstructure:"compat_placeholders"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
	NoColor            bool          `mapstructure:"no_color"`
}

// New returns a viper instance with defaults, the environment prefix and the
// config file search path set. Without paths it searches the working
// directory, then $HOME.
func New(paths ...string) *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyTimeout, scriptexec.DefaultTimeout.String())
	v.SetDefault(KeyDiffLimit, validate.DefaultDiffLimit)
	v.SetDefault(KeyParallel, 1)
	v.SetDefault(KeyCompatPlaceholders, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "fmt")
	v.SetDefault(KeyNoColor, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "$HOME"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	return v
}

// Load reads the config file, if any, and decodes the merged settings.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if cfg.Timeout <= 0 {
		return Config{}, errors.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.DiffLimit <= 0 {
		cfg.DiffLimit = validate.DefaultDiffLimit
	}
	return cfg, nil
}
