package store

import (
	"errors"

	"github.com/tendermint/parlia/types"
)

var (
	// ErrNotFound is returned when a requested entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidatorSetExists is returned when a commit would overwrite a
	// different validator set stored under the same epoch block number.
	ErrValidatorSetExists = errors.New("a different validator set is already stored for this epoch")
)

// Store persists the state of a single light client.
//
// The validator-set table is append-only: entries are added by epoch block
// number and never rewritten or deleted.
type Store interface {
	// ClientState returns the current client state.
	//
	// If the client has not been created, ErrNotFound is returned.
	ClientState() (*types.ClientState, error)

	// ConsensusState returns the consensus state stored at height.
	//
	// If none exists, ErrNotFound is returned.
	ConsensusState(height uint64) (*types.ConsensusState, error)

	// ValidatorSet returns the validator set carried by the epoch-rotation
	// block at epochBlockNumber.
	//
	// If none exists, ErrNotFound is returned.
	ValidatorSet(epochBlockNumber uint64) (*types.ValidatorSet, error)

	// Commit atomically writes every part of u: either everything is
	// persisted or nothing is. An identical validator set already stored
	// under the same epoch is left untouched; a different one fails the
	// whole commit with ErrValidatorSetExists.
	Commit(u *types.StateUpdate) error
}
