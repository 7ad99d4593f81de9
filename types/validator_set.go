package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

// BLSPublicKey is a compressed BLS12-381 G1 public key.
type BLSPublicKey [BLSPublicKeyLength]byte

// Bytes returns a copy of the key as a slice.
func (k BLSPublicKey) Bytes() []byte { return append([]byte(nil), k[:]...) }

// MarshalText implements encoding.TextMarshaler.
func (k BLSPublicKey) MarshalText() ([]byte, error) {
	return hexutil.Bytes(k[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BLSPublicKey) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("BLSPublicKey", input, k[:])
}

// BLSSignature is a compressed BLS12-381 G2 signature.
type BLSSignature [BLSSignatureLength]byte

// Bytes returns a copy of the signature as a slice.
func (s BLSSignature) Bytes() []byte { return append([]byte(nil), s[:]...) }

// MarshalText implements encoding.TextMarshaler.
func (s BLSSignature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(s[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *BLSSignature) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("BLSSignature", input, s[:])
}

// Validator is a single entry of a Parlia validator table.
type Validator struct {
	Address   common.Address `json:"address"`
	BLSPubKey BLSPublicKey   `json:"bls_pub_key"`
}

func (v Validator) String() string {
	return fmt.Sprintf("Validator{%v %X}", v.Address, v.BLSPubKey[:6])
}

// ValidatorSet is the ordered validator table carried by an epoch-rotation
// block. Order is significant: bit i of a vote address set refers to
// Validators[i].
//
// NOTE: Not goroutine-safe.
type ValidatorSet struct {
	Validators []Validator `json:"validators"`
}

// NewValidatorSet returns a ValidatorSet holding a copy of vals.
func NewValidatorSet(vals []Validator) *ValidatorSet {
	return &ValidatorSet{Validators: append([]Validator(nil), vals...)}
}

// Size returns the number of validators.
func (vals *ValidatorSet) Size() int {
	if vals == nil {
		return 0
	}
	return len(vals.Validators)
}

// IsNilOrEmpty returns true if the set is nil or holds no validators.
func (vals *ValidatorSet) IsNilOrEmpty() bool {
	return vals.Size() == 0
}

// Copy returns a deep copy of the set.
func (vals *ValidatorSet) Copy() *ValidatorSet {
	if vals == nil {
		return nil
	}
	return NewValidatorSet(vals.Validators)
}

// Equal reports whether both sets hold the same validators in the same order.
func (vals *ValidatorSet) Equal(other *ValidatorSet) bool {
	if vals.Size() != other.Size() {
		return false
	}
	for i := 0; i < vals.Size(); i++ {
		if vals.Validators[i] != other.Validators[i] {
			return false
		}
	}
	return true
}

// ValidateBasic performs stateless checks on the set.
func (vals *ValidatorSet) ValidateBasic() error {
	if vals.IsNilOrEmpty() {
		return fmt.Errorf("validator set is nil or empty")
	}
	if vals.Size() > MaxValidators {
		return ErrTooManyValidators{Count: vals.Size()}
	}
	return nil
}

// Signers returns the validators whose index is set in bitSet, in table
// order. Indices beyond the set size are ignored; use VoteAddressSet.FitsIn
// to reject them.
func (vals *ValidatorSet) Signers(bitSet ValidatorsBitSet) []Validator {
	signers := make([]Validator, 0, bitSet.Count())
	for i, val := range vals.Validators {
		if bitSet.Test(i) {
			signers = append(signers, val)
		}
	}
	return signers
}

// IsSortedByAddress reports whether vals are strictly increasing by address.
// It returns the index of the first offending entry otherwise.
func IsSortedByAddress(vals []Validator) (int, bool) {
	for i := 1; i < len(vals); i++ {
		if bytes.Compare(vals[i-1].Address[:], vals[i].Address[:]) >= 0 {
			return i, false
		}
	}
	return -1, true
}

// Marshal returns the RLP encoding of the set.
func (vals *ValidatorSet) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(vals)
}

// UnmarshalValidatorSet decodes a set produced by Marshal.
func UnmarshalValidatorSet(bz []byte) (*ValidatorSet, error) {
	vals := new(ValidatorSet)
	if err := rlp.DecodeBytes(bz, vals); err != nil {
		return nil, fmt.Errorf("decode validator set: %w", err)
	}
	return vals, nil
}

// String returns a string representation of the set.
func (vals *ValidatorSet) String() string {
	if vals == nil {
		return "nil-ValidatorSet"
	}
	strs := make([]string, 0, len(vals.Validators))
	for _, val := range vals.Validators {
		strs = append(strs, val.String())
	}
	return fmt.Sprintf("ValidatorSet{%s}", strings.Join(strs, " "))
}

// ValidatorSetRotation is a validator set keyed by the epoch-rotation block
// that carried it.
type ValidatorSetRotation struct {
	EpochBlockNumber uint64        `json:"epoch_block_number"`
	Validators       *ValidatorSet `json:"validators"`
}
