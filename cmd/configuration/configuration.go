// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

const (
	// DefaultConfigFileName is the name of the configuration file in AstroforgeHomeDir
	DefaultConfigFileName = "config"
	// AstroforgeHomeDir is the directory in the user home holding configuration and cache
	AstroforgeHomeDir = ".astroforge"
	// AstroforgeConfigEnv names the environment variable overriding the configuration file path
	AstroforgeConfigEnv = "ASTROFORGECONFIG"
)

// Loader loads the configuration
type Loader interface {
	Load() (*Config, error)
}

// DefaultConfigurationLoader loads the file named by ASTROFORGECONFIG, or
// ~/.astroforge/config when the variable is not set
type DefaultConfigurationLoader struct{}

// Load returns the configuration. A missing file yields an empty configuration.
func (d *DefaultConfigurationLoader) Load() (*Config, error) {
	if configFilePath, found := os.LookupEnv(AstroforgeConfigEnv); found {
		if configFilePath == "" {
			return nil, fmt.Errorf("the provided environment variable %s is set to empty string", AstroforgeConfigEnv)
		}
		return load(configFilePath)
	}
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return load(filepath.Join(userHomeDir, AstroforgeHomeDir, DefaultConfigFileName))
}

func load(configFilePath string) (*Config, error) {
	config := &Config{}
	if configFilePath == "" {
		return config, nil
	}
	stat, err := os.Stat(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			klog.V(4).Infof("no configuration file %s\n", configFilePath)
			return config, nil
		}
		return nil, fmt.Errorf("failed to get file info for configuration file path %s: %w", configFilePath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("the config file path %s is directory, instead of file", configFilePath)
	}
	configFile, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", configFilePath, err)
	}
	klog.V(4).Infof("configuration loaded from %s\n", configFilePath)
	return config, nil
}
