package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/atomicfile"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

const configHeader = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/parlia/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.parlia" by default, but could be changed via $PARLIA_HOME env
# variable or --home cmd flag.

`

/****** these are for production settings ***********/

// EnsureRoot creates the root, config, and data directories if they don't exist.
func EnsureRoot(rootDir string) error {
	for _, dir := range []string{
		rootDir,
		filepath.Join(rootDir, defaultConfigDir),
		filepath.Join(rootDir, defaultDataDir),
	} {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return fmt.Errorf("could not create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteConfigFile renders config as TOML and writes it to the config file
// under rootDir.
// This function is called by cmd/parlia/commands/init.go
func WriteConfigFile(rootDir string, config *Config) error {
	return config.WriteToFile(ConfigFilePath(rootDir))
}

// ConfigFilePath returns the path of the config file under rootDir.
func ConfigFilePath(rootDir string) string {
	return filepath.Join(rootDir, defaultConfigFilePath)
}

// WriteToFile writes the config to the exact file specified by the path,
// replacing any previous file atomically.
func (cfg *Config) WriteToFile(path string) error {
	var buffer bytes.Buffer
	buffer.WriteString(configHeader)

	if err := toml.NewEncoder(&buffer).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if _, err := atomicfile.WriteAll(path, &buffer, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// WriteConfigFileIfNone writes config unless a config file already exists
// under rootDir. It reports whether the file was written.
func WriteConfigFileIfNone(rootDir string, config *Config) (bool, error) {
	configFilePath := ConfigFilePath(rootDir)
	if _, err := os.Stat(configFilePath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	return true, WriteConfigFile(rootDir, config)
}

// LoadConfigFile decodes the TOML file at path into a default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}
