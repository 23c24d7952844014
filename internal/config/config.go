package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds replay configuration loaded from flags, env, or config file.
type Config struct {
	Genesis   string
	Script    string
	Out       string
	PGDSN     string
	StateFile string
	EndHeight uint64
	LogLevel  string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}

	v.SetDefault("out", "./data/events.jsonl")
	v.SetDefault("log-level", "info")

	cfg := Config{
		Genesis:   v.GetString("genesis"),
		Script:    v.GetString("script"),
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		StateFile: v.GetString("state-file"),
		EndHeight: v.GetUint64("end-height"),
		LogLevel:  v.GetString("log-level"),
	}
	return cfg, nil
}

// ReportConfig holds configuration for the report subcommand.
type ReportConfig struct {
	Input    string
	LogLevel string
}

// LoadReport merges config sources for the report subcommand.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ReportConfig{}, err
	}

	v.SetDefault("log-level", "info")

	cfg := ReportConfig{
		Input:    v.GetString("in"),
		LogLevel: v.GetString("log-level"),
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FIXEDSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
