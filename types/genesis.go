package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/creachadair/atomicfile"
)

//------------------------------------------------------------
// core types for a genesis definition

// GenesisDoc defines the trusted state a light client is created from: a
// client state, the consensus state at its latest height and the validator
// sets needed to verify the headers that follow.
type GenesisDoc struct {
	ClientState    *ClientState           `json:"client_state"`
	ConsensusState *ConsensusState        `json:"consensus_state"`
	ValidatorSets  []ValidatorSetRotation `json:"validator_sets"`
}

// SaveAs is a utility method for saving GenesisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := json.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	_, err = atomicfile.WriteAll(file, bytes.NewReader(genDocBytes), 0644)
	return err
}

// ValidateBasic checks that all necessary fields are present.
func (genDoc *GenesisDoc) ValidateBasic() error {
	if genDoc.ClientState == nil {
		return errors.New("genesis doc must include a client state")
	}
	if err := genDoc.ClientState.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid client state: %w", err)
	}
	if genDoc.ConsensusState == nil {
		return errors.New("genesis doc must include a consensus state")
	}
	if len(genDoc.ValidatorSets) == 0 {
		return errors.New("genesis doc must include at least one validator set")
	}
	seen := make(map[uint64]bool, len(genDoc.ValidatorSets))
	for _, rot := range genDoc.ValidatorSets {
		if err := rot.Validators.ValidateBasic(); err != nil {
			return fmt.Errorf("validator set of epoch %d: %w", rot.EpochBlockNumber, err)
		}
		if seen[rot.EpochBlockNumber] {
			return fmt.Errorf("duplicate validator set for epoch %d", rot.EpochBlockNumber)
		}
		seen[rot.EpochBlockNumber] = true
	}
	return nil
}

//------------------------------------------------------------
// Make genesis state from file

// GenesisDocFromJSON unmarshalls JSON data into a GenesisDoc.
func GenesisDocFromJSON(jsonBlob []byte) (*GenesisDoc, error) {
	genDoc := GenesisDoc{}
	if err := json.Unmarshal(jsonBlob, &genDoc); err != nil {
		return nil, err
	}

	if err := genDoc.ValidateBasic(); err != nil {
		return nil, err
	}

	return &genDoc, nil
}

// GenesisDocFromFile reads JSON data from a file and unmarshalls it into a GenesisDoc.
func GenesisDocFromFile(genDocFile string) (*GenesisDoc, error) {
	jsonBlob, err := os.ReadFile(genDocFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't read GenesisDoc file: %w", err)
	}
	genDoc, err := GenesisDocFromJSON(jsonBlob)
	if err != nil {
		return nil, fmt.Errorf("error reading GenesisDoc at %s: %w", genDocFile, err)
	}
	return genDoc, nil
}
