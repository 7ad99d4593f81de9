package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tendermint/parlia/libs/log"
)

// NOTE: Most of the structs & relevant comments + the default configuration
// options are what WriteConfigFile renders into config.toml.
var (
	DefaultParliaDir = ".parlia"
	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
	defaultMetricsFileName = "parlia.prom"

	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
	defaultMetricsFilePath = filepath.Join(defaultDataDir, defaultMetricsFileName)
)

// Config defines the top level configuration for a Parlia light client.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" toml:"instrumentation"`
}

// DefaultConfig returns a default configuration for a Parlia light client.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing.
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		Instrumentation: TestInstrumentationConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs.
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if err := cfg.Instrumentation.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [instrumentation] section: %w", err)
	}
	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for a Parlia light client.
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home" toml:"-"`

	// Identifier of the client; namespaces its records in the database
	ClientID string `mapstructure:"client-id" toml:"client-id"`

	// Path to the JSON file holding the trusted state the client is
	// created from
	Genesis string `mapstructure:"genesis-file" toml:"genesis-file"`

	// Output level for logging
	LogLevel string `mapstructure:"log-level" toml:"log-level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log-format" toml:"log-format"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db-backend" toml:"db-backend"`

	// Database directory
	DBPath string `mapstructure:"db-dir" toml:"db-dir"`
}

// DefaultBaseConfig returns a default base configuration for a Parlia light
// client.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		ClientID:  "parlia-0",
		Genesis:   defaultGenesisJSONPath,
		LogLevel:  log.LogLevelInfo,
		LogFormat: log.LogFormatPlain,
		DBBackend: "goleveldb",
		DBPath:    defaultDataDir,
	}
}

// TestBaseConfig returns a base configuration for testing a Parlia light
// client.
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.ClientID = "parlia-test"
	cfg.LogLevel = log.LogLevelDebug
	cfg.DBBackend = "memdb"
	return cfg
}

// GenesisFile returns the full path to the genesis.json file.
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory.
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	if cfg.ClientID == "" {
		return errors.New("client-id must not be empty")
	}
	switch cfg.LogFormat {
	case log.LogFormatPlain, log.LogFormatText, log.LogFormatJSON:
	default:
		return errors.New("unknown log-format (must be 'plain', 'text' or 'json')")
	}
	switch cfg.LogLevel {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("unknown log-level %q", cfg.LogLevel)
	}
	return nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, metrics are collected and written to MetricsFile after
	// every command, in the Prometheus text format.
	Prometheus bool `mapstructure:"prometheus" toml:"prometheus"`

	// Path of the file, read by a node exporter textfile collector.
	MetricsFile string `mapstructure:"metrics-file" toml:"metrics-file"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:  false,
		MetricsFile: defaultMetricsFilePath,
		Namespace:   "parlia",
	}
}

// TestInstrumentationConfig returns a default configuration for metrics
// reporting.
func TestInstrumentationConfig() *InstrumentationConfig {
	return DefaultInstrumentationConfig()
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.Prometheus && cfg.MetricsFile == "" {
		return errors.New("metrics-file can't be empty when prometheus is enabled")
	}
	return nil
}

// MetricsPath returns the full path to the metrics file.
func (cfg *InstrumentationConfig) MetricsPath(root string) string {
	return rootify(cfg.MetricsFile, root)
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
