package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/parlia/light"
	"github.com/tendermint/parlia/types"
)

// MakeMisbehaviourCommand returns the command that verifies evidence of
// equivocation and freezes the client.
func MakeMisbehaviourCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "misbehaviour [misbehaviour-file]",
		Short: "Submit evidence of conflicting attestations and freeze the client",
		Args:  cobra.ExactArgs(1),
		RunE:  submitMisbehaviour,
	}
}

func submitMisbehaviour(cmd *cobra.Command, args []string) error {
	var m types.Misbehaviour
	if err := readJSONFile(args[0], &m); err != nil {
		return err
	}

	return withClient(func(c *light.Client) error {
		cs, err := c.Misbehaviour(&m)
		if err != nil {
			return err
		}

		if outputJSON() {
			return printJSON(cmd, cs)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "frozen at height %d\n", cs.FrozenHeight)
		return nil
	})
}
