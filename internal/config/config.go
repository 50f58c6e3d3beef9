// Package config loads the optional shell configuration file. Every knob
// defaults to the fixed launch contract, so a missing file (the normal case)
// yields a fully working configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/cmdcenter/shell/internal/backend"
	"github.com/cmdcenter/shell/internal/instance"
	"github.com/cmdcenter/shell/internal/logger"
)

// FileConfig is the top-level TOML structure.
//
//	[backend]
//	tool = "uv"
//	host = "127.0.0.1"
//	port = 8766
//	dir_name = "backend"
//	stop_timeout = "5s"
//
//	[log]
//	level = "info"
//	file = ""
type FileConfig struct {
	Backend        BackendConfig `toml:"backend" mapstructure:"backend"`
	Log            logger.Config `toml:"log" mapstructure:"log"`
	SingleInstance *bool         `toml:"single_instance" mapstructure:"single_instance"`
	LockPath       string        `toml:"lock_path" mapstructure:"lock_path"`
}

type BackendConfig struct {
	Tool        string        `toml:"tool" mapstructure:"tool"`
	Command     string        `toml:"command" mapstructure:"command"`
	App         string        `toml:"app" mapstructure:"app"`
	Host        string        `toml:"host" mapstructure:"host"`
	Port        int           `toml:"port" mapstructure:"port"`
	DirName     string        `toml:"dir_name" mapstructure:"dir_name"`
	Env         []string      `toml:"env" mapstructure:"env"`
	StopTimeout time.Duration `toml:"stop_timeout" mapstructure:"stop_timeout"`
}

// Config is the resolved runtime configuration.
type Config struct {
	Backend        backend.Spec
	Log            logger.Config
	SingleInstance bool
	LockPath       string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend:        backend.Spec{}.Normalized(),
		SingleInstance: true,
		LockPath:       instance.DefaultLockPath(),
	}
}

// Load reads a TOML config file and merges it over the defaults. An empty
// path returns Default() untouched.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg := Default()
	cfg.Backend = backend.Spec{
		Tool:        fc.Backend.Tool,
		Command:     fc.Backend.Command,
		App:         fc.Backend.App,
		Host:        fc.Backend.Host,
		Port:        fc.Backend.Port,
		DirName:     fc.Backend.DirName,
		Env:         fc.Backend.Env,
		StopTimeout: fc.Backend.StopTimeout,
	}.Normalized()
	cfg.Log = fc.Log
	if fc.SingleInstance != nil {
		cfg.SingleInstance = *fc.SingleInstance
	}
	if fc.LockPath != "" {
		cfg.LockPath = fc.LockPath
	}
	return cfg, nil
}
