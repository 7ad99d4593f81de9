package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/tendermint/parlia/config"
	"github.com/tendermint/parlia/libs/cli"
	"github.com/tendermint/parlia/libs/log"
)

var (
	config = cfg.DefaultConfig()
	logger = log.MustNewDefaultLogger(log.LogFormatPlain, log.LogLevelInfo)
)

func init() {
	registerFlagsRootCmd(RootCmd)
}

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log-level", config.LogLevel, "log level")
	cmd.PersistentFlags().String("log-format", config.LogFormat, "log format (plain|text|json)")
	cmd.PersistentFlags().String("client-id", config.ClientID,
		"client identifier; namespaces the client's records in the database")
}

// ParseConfig retrieves the default environment configuration,
// sets up the Parlia root and ensures that the root exists
func ParseConfig(conf *cfg.Config) (*cfg.Config, error) {
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}
	conf.SetRoot(conf.RootDir)

	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// RootCmd is the root command for the Parlia light client.
var RootCmd = &cobra.Command{
	Use:   "parlia",
	Short: "Parlia (BNB Smart Chain) light client",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		config, err = ParseConfig(config)
		if err != nil {
			return err
		}

		logger, err = log.NewDefaultLogger(config.LogFormat, config.LogLevel)
		if err != nil {
			return err
		}

		logger = logger.With("module", "main", "client", config.ClientID)
		return nil
	},
}

// outputJSON reports whether results should be printed as JSON.
func outputJSON() bool {
	return viper.GetString(cli.OutputFlag) == "json"
}
