package commands

import (
	"github.com/spf13/cobra"

	"github.com/tendermint/parlia/light"
	"github.com/tendermint/parlia/types"
)

// MakeCreateClientCommand returns the command that creates the client from
// a genesis file.
func MakeCreateClientCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [genesis-file]",
		Short: "Create the light client from a trusted genesis file",
		Long: `Create the light client from a trusted genesis file holding the client
state, the consensus state at its latest height and the validator sets that
sign the next headers. Without an argument the genesis-file of the config is
used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: createClient,
	}
}

func createClient(cmd *cobra.Command, args []string) error {
	path := config.GenesisFile()
	if len(args) == 1 {
		path = args[0]
	}

	genDoc, err := types.GenesisDocFromFile(path)
	if err != nil {
		return err
	}

	return withClient(func(c *light.Client) error {
		return c.CreateClient(genDoc.ClientState, genDoc.ConsensusState, genDoc.ValidatorSets)
	})
}
