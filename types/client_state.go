package types

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Status is the externally visible state of a light client.
type Status uint8

const (
	StatusActive Status = iota + 1
	StatusFrozen
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusFrozen:
		return "Frozen"
	case StatusExpired:
		return "Expired"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// ClientState is the mutable, single-writer state of a Parlia light client.
type ClientState struct {
	// ChainID of the counterparty EVM chain.
	ChainID uint64 `json:"chain_id"`
	// IBCContractAddress is the account whose storage root is tracked.
	IBCContractAddress common.Address `json:"ibc_contract_address"`
	// UnbondingPeriod bounds how old an attestation header may be.
	UnbondingPeriod time.Duration `json:"unbonding_period"`
	// LatestHeight is the highest trusted height. It never decreases.
	LatestHeight uint64 `json:"latest_height"`
	// FrozenHeight is zero while the client is not frozen.
	FrozenHeight uint64 `json:"frozen_height"`
}

// IsFrozen reports whether misbehaviour has been proven against the client.
func (cs *ClientState) IsFrozen() bool {
	return cs.FrozenHeight != 0
}

// Copy returns a copy of the state.
func (cs *ClientState) Copy() *ClientState {
	c := *cs
	return &c
}

// ValidateBasic performs stateless checks on a client state about to be
// created.
func (cs *ClientState) ValidateBasic() error {
	switch {
	case cs.ChainID == 0:
		return errors.New("chain id must be non-zero")
	case cs.LatestHeight == 0:
		return errors.New("latest height must be non-zero")
	case cs.UnbondingPeriod <= 0:
		return fmt.Errorf("unbonding period must be positive, got %v", cs.UnbondingPeriod)
	case cs.IsFrozen():
		return fmt.Errorf("client is frozen at height %d", cs.FrozenHeight)
	}
	return nil
}

type clientStateRLP struct {
	ChainID            uint64
	IBCContractAddress common.Address
	UnbondingPeriod    uint64
	LatestHeight       uint64
	FrozenHeight       uint64
}

// Marshal returns the RLP encoding of the state.
func (cs *ClientState) Marshal() ([]byte, error) {
	if cs.UnbondingPeriod < 0 {
		return nil, fmt.Errorf("negative unbonding period %v", cs.UnbondingPeriod)
	}
	return rlp.EncodeToBytes(&clientStateRLP{
		ChainID:            cs.ChainID,
		IBCContractAddress: cs.IBCContractAddress,
		UnbondingPeriod:    uint64(cs.UnbondingPeriod),
		LatestHeight:       cs.LatestHeight,
		FrozenHeight:       cs.FrozenHeight,
	})
}

// UnmarshalClientState decodes a state produced by Marshal.
func UnmarshalClientState(bz []byte) (*ClientState, error) {
	var enc clientStateRLP
	if err := rlp.DecodeBytes(bz, &enc); err != nil {
		return nil, fmt.Errorf("decode client state: %w", err)
	}
	if enc.UnbondingPeriod > math.MaxInt64 {
		return nil, fmt.Errorf("unbonding period %d overflows", enc.UnbondingPeriod)
	}
	return &ClientState{
		ChainID:            enc.ChainID,
		IBCContractAddress: enc.IBCContractAddress,
		UnbondingPeriod:    time.Duration(enc.UnbondingPeriod),
		LatestHeight:       enc.LatestHeight,
		FrozenHeight:       enc.FrozenHeight,
	}, nil
}

func (cs *ClientState) String() string {
	return fmt.Sprintf("ClientState{chain:%d latest:%d frozen:%d unbonding:%v}",
		cs.ChainID, cs.LatestHeight, cs.FrozenHeight, cs.UnbondingPeriod)
}
