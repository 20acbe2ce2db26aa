package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// #region types
// Config is the full runtime configuration.
type Config struct {
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Learning LearningConfig `mapstructure:"learning"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DatasetConfig locates the prototype file and its grid size.
type DatasetConfig struct {
	Path   string `mapstructure:"path"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LearningConfig is the correction step size and the rank-0 policy.
type LearningConfig struct {
	Rate        float64 `mapstructure:"rate"`
	AgreePolicy string  `mapstructure:"agree_policy"`
}

// ScoringConfig bounds the goroutines used to rescore prototypes.
type ScoringConfig struct {
	Workers int `mapstructure:"workers"`
}

// JournalConfig points at the SQLite journal; an empty path disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects the level and sinks of the module loggers.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Path    string `mapstructure:"path"`
	Console bool   `mapstructure:"console"`
}

// ServerConfig is the gRPC listen address used by serve and remote.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}
// #endregion types

// #region defaults
const (
	EnvPrefix     = "PATTERNREC"
	ConfigName    = "patternrec"
	ConfigPathEnv = "PATTERNREC_CFG_PATH"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.width", 5)
	v.SetDefault("dataset.height", 5)
	v.SetDefault("learning.rate", 0.3)
	v.SetDefault("learning.agree_policy", string(learning.AgreeNoop))
	v.SetDefault("scoring.workers", 1)
	v.SetDefault("journal.path", "")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.path", "")
	v.SetDefault("log.console", true)
	v.SetDefault("server.addr", "localhost:50061")
}
// #endregion defaults

// #region load
// Load resolves configuration from flags, PATTERNREC_* env, a YAML file and
// defaults, in that order of precedence. configFile may be empty, in which case
// patternrec.yaml is looked up in $PATTERNREC_CFG_PATH or the working
// directory and its absence is not an error. flags maps dotted config keys
// (e.g. "learning.rate") to command-line flags; it may be nil.
func Load(configFile string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		altPath := os.Getenv(ConfigPathEnv)
		if altPath == "" {
			altPath = "."
		}
		v.AddConfigPath(altPath)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for key, f := range flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
// #endregion load

// #region validate
// Validate rejects settings no session could run with.
func (c *Config) Validate() error {
	if c.Dataset.Width <= 0 || c.Dataset.Height <= 0 {
		return fmt.Errorf("config: grid %dx%d must be positive", c.Dataset.Width, c.Dataset.Height)
	}
	if c.Scoring.Workers < 1 {
		return fmt.Errorf("config: scoring.workers %d must be >= 1", c.Scoring.Workers)
	}
	if _, err := c.LearningConfig(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LearningConfig converts the learning section.
func (c *Config) LearningConfig() (learning.Config, error) {
	policy, err := learning.ParseAgreePolicy(c.Learning.AgreePolicy)
	if err != nil {
		return learning.Config{}, err
	}
	lc := learning.Config{LearningRate: c.Learning.Rate, AgreePolicy: policy}
	if err := lc.Validate(); err != nil {
		return learning.Config{}, err
	}
	return lc, nil
}

// LoggingConfig converts the log section.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Path = c.Log.Path
	lc.Console = c.Log.Console
	return lc
}
// #endregion validate
