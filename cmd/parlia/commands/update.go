package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/parlia/light"
	"github.com/tendermint/parlia/types"
)

// MakeUpdateStateCommand returns the command that verifies a light header
// and advances the client.
func MakeUpdateStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update [light-header-file]",
		Short: "Verify a header chain and advance the client",
		Long: `Verify a JSON light header: a linked header chain, oldest first, whose
last header carries a vote attestation, the epoch block number of the
validator set that signed it and a proof of the IBC contract account. On
success the consensus state at the oldest header is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: updateState,
	}
}

func updateState(cmd *cobra.Command, args []string) error {
	var lh types.LightHeader
	if err := readJSONFile(args[0], &lh); err != nil {
		return err
	}

	return withClient(func(c *light.Client) error {
		update, err := c.UpdateState(&lh)
		if err != nil {
			return err
		}

		if outputJSON() {
			return printJSON(cmd, update)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "height: %d\nstate root: %v\nlatest height: %d\n",
			update.Height, update.ConsensusState.StateRoot, update.ClientState.LatestHeight)
		for _, rot := range update.ValidatorSets {
			fmt.Fprintf(cmd.OutOrStdout(), "new validator set: epoch %d, %d validators\n",
				rot.EpochBlockNumber, rot.Validators.Size())
		}
		return nil
	})
}
