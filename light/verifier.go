package light

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tendermint/parlia/types"
)

// minChainLength is the shortest verifiable chain: source, target and the
// header carrying the attestation.
const minChainLength = 3

// VerificationContext is what header verification needs from its host.
type VerificationContext interface {
	// CurrentTimestamp returns the host's notion of now.
	CurrentTimestamp() time.Time
	// ValidatorSet returns the validator set carried by the epoch-rotation
	// block at epochBlockNumber.
	ValidatorSet(epochBlockNumber uint64) (*types.ValidatorSet, error)
	// VerifyAggregate checks a BLS12-381 proof-of-possession aggregate
	// signature by pubKeys over msg.
	VerifyAggregate(pubKeys []types.BLSPublicKey, msg []byte, sig types.BLSSignature) error
}

// VerifyHeader verifies that chain, ordered oldest to newest, is a linked
// header chain whose newest header carries a vote attestation signed by a
// supermajority of the validator set authoritative at that height. It
// ensures that:
//
//	a) the chain has at least three headers (if not, ErrNotEnoughHeaders is returned)
//	b) the newest header is within the unbonding period (if not, ErrHeaderExpired is returned)
//	c) every header links to its parent (if not, ErrInvalidChain is returned)
//	d) the newest header carries an attestation (if not, ErrNoAttestation is returned)
//	e) the attestation source and target are headers of the chain
//	  (if not, ErrInvalidAttestation or ErrAttestationOutOfRange is returned)
//	f) trustedValsetEpochBlockNumber is the epoch authoritative for the
//	  attestation height (if not, ErrInvalidTrustedValsetEpochBlockNumber is returned)
//	g) more than 2/3 of that set signed (if not, ErrSupermajorityNotReached is returned)
//	h) signers are sorted by address (if not, ErrValsetNotSorted is returned)
//	i) the aggregate signature is valid (if not, ErrContext is returned)
//
// It returns the oldest header of the chain and, if that header is an
// epoch-rotation block, the validator set it carries. Nothing is written;
// the caller commits state only on success.
func VerifyHeader(
	chain []*types.Header,
	unbondingPeriod time.Duration,
	trustedValsetEpochBlockNumber uint64,
	vctx VerificationContext,
) (*types.Header, *types.ValidatorSetRotation, error) {

	if len(chain) < minChainLength {
		return nil, nil, ErrNotEnoughHeaders{Got: len(chain)}
	}

	attHeader := chain[len(chain)-1]
	if attHeader == nil {
		return nil, nil, types.ErrNilHeader
	}

	now := vctx.CurrentTimestamp()
	if HeaderExpired(attHeader, unbondingPeriod, now) {
		return nil, nil, ErrHeaderExpired{expirationTime(attHeader, unbondingPeriod), now}
	}

	source, err := VerifyChainContinuity(chain)
	if err != nil {
		return nil, nil, err
	}

	attHeight, err := types.HeaderHeight(attHeader)
	if err != nil {
		return nil, nil, err
	}

	att, err := types.VoteAttestationFromHeader(attHeader)
	if err != nil {
		return nil, nil, err
	}
	if att == nil {
		return nil, nil, ErrNoAttestation{Height: attHeight}
	}

	if err := VerifyAttestationCheckpoints(chain, att.Data); err != nil {
		return nil, nil, err
	}

	vals, err := vctx.ValidatorSet(trustedValsetEpochBlockNumber)
	if err != nil {
		return nil, nil, ErrTrustedValsetNotFound{EpochBlockNumber: trustedValsetEpochBlockNumber, Reason: err}
	}
	if vals.IsNilOrEmpty() {
		return nil, nil, ErrTrustedValsetNotFound{
			EpochBlockNumber: trustedValsetEpochBlockNumber,
			Reason:           errors.New("validator set is empty"),
		}
	}

	expected := types.SigningValsetEpochBlockNumber(attHeight, vals.Size())
	if expected != trustedValsetEpochBlockNumber {
		return nil, nil, ErrInvalidTrustedValsetEpochBlockNumber{
			Expected: expected,
			Found:    trustedValsetEpochBlockNumber,
		}
	}

	if !att.VoteAddressSet.FitsIn(vals.Size()) {
		return nil, nil, ErrInvalidVoteAddressSet{VoteAddressSet: uint64(att.VoteAddressSet), ValsetSize: vals.Size()}
	}
	if !types.HasSupermajority(att.VoteAddressSet, vals.Size()) {
		return nil, nil, ErrSupermajorityNotReached{Signers: att.VoteAddressSet.Count(), ValsetSize: vals.Size()}
	}

	signers := vals.Signers(att.VoteAddressSet)
	if idx, ok := types.IsSortedByAddress(signers); !ok {
		return nil, nil, ErrValsetNotSorted{Index: idx}
	}

	pubKeys := make([]types.BLSPublicKey, len(signers))
	for i, val := range signers {
		pubKeys[i] = val.BLSPubKey
	}
	msg := att.Data.Hash()
	if err := vctx.VerifyAggregate(pubKeys, msg[:], att.AggSignature); err != nil {
		return nil, nil, ErrContext{Reason: err}
	}

	sourceHeight, err := types.HeaderHeight(source)
	if err != nil {
		return nil, nil, err
	}
	if !types.IsEpochRotationBlock(sourceHeight) {
		return source, nil, nil
	}

	_, newVals, err := types.ParseEpochRotationExtraData(source.Extra)
	if err != nil {
		return nil, nil, err
	}
	if err := newVals.ValidateBasic(); err != nil {
		return nil, nil, fmt.Errorf("validator set of epoch %d: %w", sourceHeight, err)
	}
	return source, &types.ValidatorSetRotation{EpochBlockNumber: sourceHeight, Validators: newVals}, nil
}

// VerifyChainContinuity checks, from the newest header backwards, that every
// header's parent hash is the hash of the header before it and that its
// height is exactly one more. It returns the oldest header.
func VerifyChainContinuity(chain []*types.Header) (*types.Header, error) {
	if len(chain) < minChainLength {
		return nil, ErrNotEnoughHeaders{Got: len(chain)}
	}

	for i := len(chain) - 1; i > 0; i-- {
		child, parent := chain[i], chain[i-1]

		childHeight, err := types.HeaderHeight(child)
		if err != nil {
			return nil, err
		}
		parentHeight, err := types.HeaderHeight(parent)
		if err != nil {
			return nil, err
		}

		if parentHeight == math.MaxUint64 || childHeight != parentHeight+1 {
			return nil, ErrInvalidChain{
				Height: childHeight,
				Reason: fmt.Errorf("height does not follow parent height %d", parentHeight),
			}
		}
		if parentHash := parent.Hash(); child.ParentHash != parentHash {
			return nil, ErrInvalidChain{
				Height: childHeight,
				Reason: fmt.Errorf("parent hash %v does not match parent header hash %v", child.ParentHash, parentHash),
			}
		}
	}

	return chain[0], nil
}

// VerifyAttestationCheckpoints checks that the source and target checkpoints
// of data are headers of chain, whose newest header carries the attestation.
// chain must already be linked; see VerifyChainContinuity.
func VerifyAttestationCheckpoints(chain []*types.Header, data *types.VoteData) error {
	if data == nil {
		return types.ErrNilVoteData
	}
	if len(chain) == 0 {
		return ErrNotEnoughHeaders{Got: 0}
	}

	attHeight, err := types.HeaderHeight(chain[len(chain)-1])
	if err != nil {
		return err
	}

	if err := verifyCheckpoint(chain, attHeight, data.SourceNumber, data.SourceHash); err != nil {
		return err
	}
	return verifyCheckpoint(chain, attHeight, data.TargetNumber, data.TargetHash)
}

// verifyCheckpoint locates the header at height by its distance from the
// attestation header and compares hashes.
func verifyCheckpoint(chain []*types.Header, attHeight, height uint64, hash common.Hash) error {
	if height > attHeight || attHeight-height > uint64(len(chain)-1) {
		return ErrAttestationOutOfRange{
			AttestationHeight: attHeight,
			CheckpointHeight:  height,
			ChainLength:       len(chain),
		}
	}

	idx := len(chain) - 1 - int(attHeight-height)
	if got := chain[idx].Hash(); got != hash {
		return ErrInvalidAttestation{Height: height, Expected: hash, Got: got}
	}
	return nil
}

// HeaderExpired reports whether h is older than unbondingPeriod at now.
func HeaderExpired(h *types.Header, unbondingPeriod time.Duration, now time.Time) bool {
	return expirationTime(h, unbondingPeriod).Before(now)
}

func expirationTime(h *types.Header, unbondingPeriod time.Duration) time.Time {
	return types.HeaderTime(h).Add(unbondingPeriod)
}
