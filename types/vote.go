package types

import (
	"fmt"
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// ValidatorsBitSet selects validator-table indices: bit i set means
// Validators[i] contributed to the aggregate signature.
type ValidatorsBitSet uint64

// Count returns the number of selected validators.
func (b ValidatorsBitSet) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Test reports whether index i is selected.
func (b ValidatorsBitSet) Test(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return b&(1<<uint(i)) != 0
}

// FitsIn reports whether every selected index is below size.
func (b ValidatorsBitSet) FitsIn(size int) bool {
	if size >= 64 {
		return true
	}
	if size <= 0 {
		return b == 0
	}
	return uint64(b)>>uint(size) == 0
}

// VoteData is the (source, target) checkpoint edge of a single fast-finality
// vote.
type VoteData struct {
	SourceNumber uint64      `json:"source_number"`
	SourceHash   common.Hash `json:"source_hash"`
	TargetNumber uint64      `json:"target_number"`
	TargetHash   common.Hash `json:"target_hash"`
}

// Hash returns the message validators sign: keccak256 of the RLP encoding.
func (d *VoteData) Hash() common.Hash {
	bz, err := rlp.EncodeToBytes(d)
	if err != nil {
		// fixed-size fields only
		panic(fmt.Sprintf("encode vote data: %v", err))
	}
	return crypto.Keccak256Hash(bz)
}

func (d *VoteData) String() string {
	return fmt.Sprintf("VoteData{%d:%v -> %d:%v}",
		d.SourceNumber, d.SourceHash, d.TargetNumber, d.TargetHash)
}

// VoteAttestation is an aggregated quorum vote embedded in a header's
// extra-data.
type VoteAttestation struct {
	VoteAddressSet ValidatorsBitSet `json:"vote_address_set"`
	AggSignature   BLSSignature     `json:"agg_signature"`
	Data           *VoteData        `json:"data"`
	Extra          []byte           `json:"extra"`
}

// ValidateBasic performs stateless checks on the attestation.
func (va *VoteAttestation) ValidateBasic() error {
	if va.Data == nil {
		return ErrNilVoteData
	}
	if va.Data.SourceNumber >= va.Data.TargetNumber {
		return fmt.Errorf("attestation source %d is not below target %d",
			va.Data.SourceNumber, va.Data.TargetNumber)
	}
	return nil
}

func (va *VoteAttestation) String() string {
	return fmt.Sprintf("VoteAttestation{signers:%d %v}", va.VoteAddressSet.Count(), va.Data)
}

// HasSupermajority reports whether the signers selected by bitSet exceed two
// thirds of a validator set of the given size.
func HasSupermajority(bitSet ValidatorsBitSet, valsetSize int) bool {
	return bitSet.Count() > SupermajorityThreshold(valsetSize)
}

// SupermajorityThreshold returns floor(2*size/3); strictly more signers are
// required.
func SupermajorityThreshold(valsetSize int) int {
	return 2 * valsetSize / 3
}
