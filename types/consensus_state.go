package types

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// ConsensusState is the trusted view of the counterparty at one height.
// It is written once per height.
type ConsensusState struct {
	// ValsetEpochBlockNumber of the validator set that signed the
	// attestation proving this height.
	ValsetEpochBlockNumber uint64      `json:"valset_epoch_block_number"`
	Timestamp              time.Time   `json:"timestamp"`
	StateRoot              common.Hash `json:"state_root"`
	IBCStorageRoot         common.Hash `json:"ibc_storage_root"`
}

type consensusStateRLP struct {
	ValsetEpochBlockNumber uint64
	Timestamp              uint64
	StateRoot              common.Hash
	IBCStorageRoot         common.Hash
}

// Marshal returns the RLP encoding of the state. Timestamps are stored with
// second precision, the precision of Parlia headers.
func (cs *ConsensusState) Marshal() ([]byte, error) {
	if cs.Timestamp.Unix() < 0 {
		return nil, fmt.Errorf("timestamp %v before unix epoch", cs.Timestamp)
	}
	return rlp.EncodeToBytes(&consensusStateRLP{
		ValsetEpochBlockNumber: cs.ValsetEpochBlockNumber,
		Timestamp:              uint64(cs.Timestamp.Unix()),
		StateRoot:              cs.StateRoot,
		IBCStorageRoot:         cs.IBCStorageRoot,
	})
}

// UnmarshalConsensusState decodes a state produced by Marshal.
func UnmarshalConsensusState(bz []byte) (*ConsensusState, error) {
	var enc consensusStateRLP
	if err := rlp.DecodeBytes(bz, &enc); err != nil {
		return nil, fmt.Errorf("decode consensus state: %w", err)
	}
	return &ConsensusState{
		ValsetEpochBlockNumber: enc.ValsetEpochBlockNumber,
		Timestamp:              time.Unix(int64(enc.Timestamp), 0).UTC(),
		StateRoot:              enc.StateRoot,
		IBCStorageRoot:         enc.IBCStorageRoot,
	}, nil
}

// Equal reports whether both states have byte-identical encodings.
func (cs *ConsensusState) Equal(other *ConsensusState) bool {
	if cs == nil || other == nil {
		return cs == other
	}
	a, errA := cs.Marshal()
	b, errB := other.Marshal()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

func (cs *ConsensusState) String() string {
	return fmt.Sprintf("ConsensusState{epoch:%d time:%v root:%v ibc:%v}",
		cs.ValsetEpochBlockNumber, cs.Timestamp, cs.StateRoot, cs.IBCStorageRoot)
}

// StateUpdate is the complete write set of one accepted client operation.
// Stores commit it atomically.
type StateUpdate struct {
	ClientState *ClientState
	// Height and ConsensusState are unset for operations that do not add a
	// consensus state, such as freezing.
	Height         uint64
	ConsensusState *ConsensusState
	// ValidatorSets are appended to the epoch table.
	ValidatorSets []ValidatorSetRotation
}
