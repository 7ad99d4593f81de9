package light

import (
	"time"

	"github.com/tendermint/parlia/types"
)

// The detector half of the light client handles evidence of equivocation:
// two header chains, each carrying a supermajority attestation at the same
// height, that vote for different checkpoints. A client shown such evidence
// freezes and refuses all further updates.

// VerifyMisbehaviour verifies that m proves the validator set signed two
// conflicting votes. Both chains must end in attestation headers at the same
// height whose vote data differ, and each chain must pass VerifyHeader
// against the validator set of m.TrustedValsetEpochBlockNumber.
//
// It returns the oldest header of chain A, whose height the client is
// frozen at.
func VerifyMisbehaviour(m *types.Misbehaviour, unbondingPeriod time.Duration, vctx VerificationContext) (*types.Header, error) {
	if len(m.ChainA) < minChainLength {
		return nil, ErrInvalidMisbehaviour{Chain: "A", Reason: ErrNotEnoughHeaders{Got: len(m.ChainA)}}
	}
	if len(m.ChainB) < minChainLength {
		return nil, ErrInvalidMisbehaviour{Chain: "B", Reason: ErrNotEnoughHeaders{Got: len(m.ChainB)}}
	}

	attHeaderA, attHeaderB := m.ChainA[len(m.ChainA)-1], m.ChainB[len(m.ChainB)-1]

	heightA, err := types.HeaderHeight(attHeaderA)
	if err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "A", Reason: err}
	}
	heightB, err := types.HeaderHeight(attHeaderB)
	if err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "B", Reason: err}
	}
	if heightA != heightB {
		return nil, ErrMisbehaviourHeadersNotForSameHeight{HeightA: heightA, HeightB: heightB}
	}

	attA, err := attestationOf(attHeaderA, heightA)
	if err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "A", Reason: err}
	}
	attB, err := attestationOf(attHeaderB, heightB)
	if err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "B", Reason: err}
	}

	// Two quorums over the same vote, even with different signer sets, are
	// not equivocation.
	if attA.Data.Hash() == attB.Data.Hash() {
		return nil, ErrMisbehaviourHeadersMustBeDifferent
	}

	sourceA, _, err := VerifyHeader(m.ChainA, unbondingPeriod, m.TrustedValsetEpochBlockNumber, vctx)
	if err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "A", Reason: err}
	}
	if _, _, err := VerifyHeader(m.ChainB, unbondingPeriod, m.TrustedValsetEpochBlockNumber, vctx); err != nil {
		return nil, ErrInvalidMisbehaviour{Chain: "B", Reason: err}
	}

	return sourceA, nil
}

func attestationOf(h *types.Header, height uint64) (*types.VoteAttestation, error) {
	att, err := types.VoteAttestationFromHeader(h)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrNoAttestation{Height: height}
	}
	return att, nil
}
