package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendermint/parlia/light"
)

// MakeStatusCommand returns the command that prints the state of the client.
func MakeStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status and latest trusted height of the client",
		Args:  cobra.NoArgs,
		RunE:  showStatus,
	}
}

type statusResult struct {
	Status       string    `json:"status"`
	ChainID      uint64    `json:"chain_id"`
	LatestHeight uint64    `json:"latest_height"`
	FrozenHeight uint64    `json:"frozen_height,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func showStatus(cmd *cobra.Command, args []string) error {
	return withClient(func(c *light.Client) error {
		status, err := c.Status()
		if err != nil {
			return err
		}
		cs, err := c.ClientState()
		if err != nil {
			return err
		}
		ts, err := c.Timestamp(cs.LatestHeight)
		if err != nil {
			return err
		}

		res := statusResult{
			Status:       status.String(),
			ChainID:      cs.ChainID,
			LatestHeight: cs.LatestHeight,
			FrozenHeight: cs.FrozenHeight,
			Timestamp:    ts,
		}
		if outputJSON() {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nchain id: %d\nlatest height: %d (%v)\n",
			res.Status, res.ChainID, res.LatestHeight, res.Timestamp)
		if res.FrozenHeight != 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "frozen height: %d\n", res.FrozenHeight)
		}
		return nil
	})
}
