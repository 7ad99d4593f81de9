package types

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNilHeader is returned when a nil header is passed where one is required.
	ErrNilHeader = errors.New("nil header")
	// ErrNilVoteData is returned when an attestation carries no vote data.
	ErrNilVoteData = errors.New("vote attestation has no vote data")
)

// ErrInvalidExtraDataLen means the extra-data field cannot even hold the
// vanity prefix and the seal suffix.
type ErrInvalidExtraDataLen struct {
	Len int
}

func (e ErrInvalidExtraDataLen) Error() string {
	return fmt.Sprintf("invalid extra data length %d: need at least %d bytes",
		e.Len, ExtraVanityLength+ExtraSealLength)
}

// ErrNotEnoughVals means the validator table declares more entries than the
// extra-data field contains.
type ErrNotEnoughVals struct {
	Declared  int
	Available int
}

func (e ErrNotEnoughVals) Error() string {
	return fmt.Sprintf("validator table declares %d validators but only %d bytes are available (%d needed)",
		e.Declared, e.Available, e.Declared*ValidatorBytesLength)
}

// ErrInvalidTurnLength means the turn length byte following the validator
// table does not match TurnLength.
type ErrInvalidTurnLength struct {
	Got uint8
}

func (e ErrInvalidTurnLength) Error() string {
	return fmt.Sprintf("invalid turn length %d, expected %d", e.Got, TurnLength)
}

// ErrMissingValidatorCount means an epoch-rotation extra-data field holds
// nothing between its vanity and seal, not even the validator count byte.
type ErrMissingValidatorCount struct{}

func (e ErrMissingValidatorCount) Error() string {
	return "epoch rotation extra data has no validator count"
}

// ErrMissingTurnLength means an epoch-rotation extra-data field ends right
// after its validator table.
type ErrMissingTurnLength struct{}

func (e ErrMissingTurnLength) Error() string {
	return "epoch rotation extra data has no turn length"
}

// ErrInvalidAttestationEncoding wraps an RLP decoding failure of the vote
// attestation segment.
type ErrInvalidAttestationEncoding struct {
	Reason error
}

func (e ErrInvalidAttestationEncoding) Unwrap() error {
	return e.Reason
}

func (e ErrInvalidAttestationEncoding) Error() string {
	return fmt.Sprintf("invalid vote attestation encoding: %v", e.Reason)
}

// ErrTooManyValidators is returned when encoding a validator table that the
// count byte cannot describe.
type ErrTooManyValidators struct {
	Count int
}

func (e ErrTooManyValidators) Error() string {
	return fmt.Sprintf("too many validators: %d (max %d)", e.Count, MaxValidators)
}

// ErrBlockNumberTooLarge means a header number does not fit in 64 bits.
type ErrBlockNumberTooLarge struct {
	Number *big.Int
}

func (e ErrBlockNumberTooLarge) Error() string {
	return fmt.Sprintf("block number %v does not fit in uint64", e.Number)
}
