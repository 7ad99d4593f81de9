package light

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMisbehaviourHeadersMustBeDifferent means both misbehaviour chains
	// carry the same vote, which is no evidence of equivocation.
	ErrMisbehaviourHeadersMustBeDifferent = errors.New("misbehaviour headers must carry different attestations")
	// ErrClientFrozen is returned for any update of a frozen client.
	ErrClientFrozen = errors.New("client is frozen")
	// ErrClientExists is returned when creating a client twice.
	ErrClientExists = errors.New("client already exists")
)

// ErrNotEnoughHeaders means the submitted chain is shorter than
// [source, target, attestation].
type ErrNotEnoughHeaders struct {
	Got int
}

func (e ErrNotEnoughHeaders) Error() string {
	return fmt.Sprintf("not enough headers: got %d, need at least %d", e.Got, minChainLength)
}

// ErrInvalidChain means the header at Height does not link to its parent.
type ErrInvalidChain struct {
	Height uint64
	Reason error
}

func (e ErrInvalidChain) Unwrap() error {
	return e.Reason
}

func (e ErrInvalidChain) Error() string {
	return fmt.Sprintf("invalid chain at height %d: %v", e.Height, e.Reason)
}

// ErrNoAttestation means the newest header carries no vote attestation.
type ErrNoAttestation struct {
	Height uint64
}

func (e ErrNoAttestation) Error() string {
	return fmt.Sprintf("header %d carries no vote attestation", e.Height)
}

// ErrInvalidAttestation means a checkpoint of the attestation does not match
// the submitted chain.
type ErrInvalidAttestation struct {
	Height   uint64
	Expected common.Hash
	Got      common.Hash
}

func (e ErrInvalidAttestation) Error() string {
	return fmt.Sprintf("attestation checkpoint at height %d has hash %v but the chain has %v",
		e.Height, e.Expected, e.Got)
}

// ErrAttestationOutOfRange means an attestation checkpoint refers to a height
// the submitted chain does not cover.
type ErrAttestationOutOfRange struct {
	AttestationHeight uint64
	CheckpointHeight  uint64
	ChainLength       int
}

func (e ErrAttestationOutOfRange) Error() string {
	return fmt.Sprintf("attestation at height %d references height %d outside the %d submitted headers",
		e.AttestationHeight, e.CheckpointHeight, e.ChainLength)
}

// ErrInvalidVoteAddressSet means the vote address set selects validators the
// trusted set does not have.
type ErrInvalidVoteAddressSet struct {
	VoteAddressSet uint64
	ValsetSize     int
}

func (e ErrInvalidVoteAddressSet) Error() string {
	return fmt.Sprintf("vote address set %#x selects validators beyond set size %d",
		e.VoteAddressSet, e.ValsetSize)
}

// ErrTrustedValsetNotFound means no validator set is known for the epoch.
type ErrTrustedValsetNotFound struct {
	EpochBlockNumber uint64
	Reason           error
}

func (e ErrTrustedValsetNotFound) Unwrap() error {
	return e.Reason
}

func (e ErrTrustedValsetNotFound) Error() string {
	return fmt.Sprintf("trusted validator set for epoch %d not found: %v", e.EpochBlockNumber, e.Reason)
}

// ErrInvalidTrustedValsetEpochBlockNumber means the caller-supplied epoch is
// not the one authoritative for the attestation height.
type ErrInvalidTrustedValsetEpochBlockNumber struct {
	Expected uint64
	Found    uint64
}

func (e ErrInvalidTrustedValsetEpochBlockNumber) Error() string {
	return fmt.Sprintf("invalid trusted validator set epoch block number: expected %d, found %d",
		e.Expected, e.Found)
}

// ErrSupermajorityNotReached means too few validators signed.
type ErrSupermajorityNotReached struct {
	Signers    int
	ValsetSize int
}

func (e ErrSupermajorityNotReached) Error() string {
	return fmt.Sprintf("supermajority not reached: %d of %d validators signed, more than %d required",
		e.Signers, e.ValsetSize, 2*e.ValsetSize/3)
}

// ErrValsetNotSorted means the signing validators are not in strictly
// increasing address order, the order their keys were aggregated in.
type ErrValsetNotSorted struct {
	Index int
}

func (e ErrValsetNotSorted) Error() string {
	return fmt.Sprintf("signing validators not sorted by address at position %d", e.Index)
}

// ErrHeaderExpired means the attestation header is older than the unbonding
// period allows.
type ErrHeaderExpired struct {
	At  time.Time
	Now time.Time
}

func (e ErrHeaderExpired) Error() string {
	return fmt.Sprintf("header has expired at %v (now: %v)", e.At, e.Now)
}

// ErrContext wraps a failure of the host verification capability.
type ErrContext struct {
	Reason error
}

func (e ErrContext) Unwrap() error {
	return e.Reason
}

func (e ErrContext) Error() string {
	return fmt.Sprintf("verification context: %v", e.Reason)
}

// ErrMisbehaviourHeadersNotForSameHeight means the two attestation headers of
// a misbehaviour are at different heights.
type ErrMisbehaviourHeadersNotForSameHeight struct {
	HeightA uint64
	HeightB uint64
}

func (e ErrMisbehaviourHeadersNotForSameHeight) Error() string {
	return fmt.Sprintf("misbehaviour attestation headers are not for the same height: %d != %d",
		e.HeightA, e.HeightB)
}

// ErrInvalidMisbehaviour wraps the verification failure of one of the two
// misbehaviour chains.
type ErrInvalidMisbehaviour struct {
	Chain  string
	Reason error
}

func (e ErrInvalidMisbehaviour) Unwrap() error {
	return e.Reason
}

func (e ErrInvalidMisbehaviour) Error() string {
	return fmt.Sprintf("misbehaviour chain %s: %v", e.Chain, e.Reason)
}

// ErrInvalidAccountProof means the IBC contract account could not be proven
// against the state root.
type ErrInvalidAccountProof struct {
	StateRoot common.Hash
	Reason    error
}

func (e ErrInvalidAccountProof) Unwrap() error {
	return e.Reason
}

func (e ErrInvalidAccountProof) Error() string {
	return fmt.Sprintf("invalid account proof against state root %v: %v", e.StateRoot, e.Reason)
}

// ErrConsensusStateConflict means a consensus state already stored at Height
// differs from the one just verified.
type ErrConsensusStateConflict struct {
	Height uint64
}

func (e ErrConsensusStateConflict) Error() string {
	return fmt.Sprintf("a different consensus state is already stored at height %d", e.Height)
}
