package main

import (
	"os"
	"path/filepath"

	cmd "github.com/tendermint/parlia/cmd/parlia/commands"
	cfg "github.com/tendermint/parlia/config"
	"github.com/tendermint/parlia/libs/cli"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.AddCommand(
		cmd.MakeInitFilesCommand(),
		cmd.MakeCreateClientCommand(),
		cmd.MakeUpdateStateCommand(),
		cmd.MakeMisbehaviourCommand(),
		cmd.MakeStatusCommand(),
	)

	baseCmd := cli.PrepareBaseCmd(rootCmd, "PARLIA", os.ExpandEnv(filepath.Join("$HOME", cfg.DefaultParliaDir)))
	if err := baseCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
