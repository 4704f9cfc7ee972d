// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/utils"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds two layers of configuration:
//   - user preferences (metrics opt-in), on the global viper instance, persisted under the base dir
//   - the project configuration (networks table), on its own viper instance
type Config struct {
	project *viper.Viper
}

func New() *Config {
	return &Config{
		project: newProjectViper(),
	}
}

func newProjectViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func (*Config) SetConfig(log logging.Logger, s string) {
	viper.SetConfigType("json")
	d := filepath.Dir(s)
	viper.AddConfigPath(d)
	viper.SetConfigFile(s)
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info("Using config file", zap.String("config-file", s))
	} else {
		log.Info("No config file found", zap.String("config-file", s))
	}
}

func (*Config) GetConfigPath() string {
	return viper.ConfigFileUsed()
}

func (c *Config) ConfigFileExists() bool {
	return utils.FileExists(c.GetConfigPath())
}

// SetConfigValue sets the value of a user preference and persists it
func (c *Config) SetConfigValue(key string, value interface{}) error {
	viper.Set(key, value)
	if c.ConfigFileExists() {
		return viper.WriteConfig()
	}
	return viper.SafeWriteConfigAs(c.GetConfigPath())
}

func (*Config) ConfigValueIsSet(key string) bool {
	return viper.IsSet(key)
}

func (*Config) GetConfigBoolValue(key string) bool {
	return viper.GetBool(key)
}

func (*Config) GetConfigStringValue(key string) string {
	return viper.GetString(key)
}

// LoadProjectConfig reads the project configuration (networks table).
// If [path] is empty, a file named okeydokey.{yaml,json,toml} is searched in the
// current directory; not finding one is not an error, built-in networks are used.
func (c *Config) LoadProjectConfig(log logging.Logger, path string) error {
	if path != "" {
		c.project.SetConfigFile(path)
	} else {
		c.project.SetConfigName(constants.DefaultProjectConfigName)
		c.project.AddConfigPath(".")
	}
	if err := c.project.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			log.Info("No project config file found, using built-in networks")
			return nil
		}
		return err
	}
	log.Info("Using project config file", zap.String("config-file", c.project.ConfigFileUsed()))
	return nil
}

// ProjectConfigPath returns the project config file in use, if any
func (c *Config) ProjectConfigPath() string {
	return c.project.ConfigFileUsed()
}

// Project gives access to the project configuration values
func (c *Config) Project() *viper.Viper {
	return c.project
}
