package commands

import (
	"github.com/spf13/cobra"

	cfg "github.com/tendermint/parlia/config"
)

// MakeInitFilesCommand returns the command that initializes the home
// directory of a light client.
func MakeInitFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the config and data directories",
		RunE:  initFiles,
	}
}

func initFiles(cmd *cobra.Command, args []string) error {
	if err := cfg.EnsureRoot(config.RootDir); err != nil {
		return err
	}

	written, err := cfg.WriteConfigFileIfNone(config.RootDir, config)
	if err != nil {
		return err
	}
	if written {
		logger.Info("Generated config", "path", cfg.ConfigFilePath(config.RootDir))
	} else {
		logger.Info("Found config", "path", cfg.ConfigFilePath(config.RootDir))
	}
	return nil
}
