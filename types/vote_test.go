package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tendermint/parlia/types"
)

func bitSetOf(n int) types.ValidatorsBitSet {
	return types.ValidatorsBitSet(uint64(1)<<uint(n) - 1)
}

func TestHasSupermajority(t *testing.T) {
	assert.False(t, types.HasSupermajority(bitSetOf(14), 21))
	assert.True(t, types.HasSupermajority(bitSetOf(15), 21))
	assert.False(t, types.HasSupermajority(bitSetOf(2), 3))
	assert.True(t, types.HasSupermajority(bitSetOf(3), 3))
	assert.False(t, types.HasSupermajority(0, 0))
}

func TestSupermajorityThresholdProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 64).Draw(t, "size")
		signers := rapid.IntRange(0, size).Draw(t, "signers")

		got := types.HasSupermajority(bitSetOf(signers), size)
		require.Equal(t, 3*signers > 2*size, got)
	})
}

func TestValidatorsBitSet(t *testing.T) {
	b := types.ValidatorsBitSet(0b10101)
	assert.Equal(t, 3, b.Count())
	assert.True(t, b.Test(0))
	assert.False(t, b.Test(1))
	assert.True(t, b.Test(4))
	assert.False(t, b.Test(64))
	assert.False(t, b.Test(-1))

	assert.True(t, b.FitsIn(5))
	assert.False(t, b.FitsIn(4))
	assert.True(t, b.FitsIn(64))
	assert.True(t, types.ValidatorsBitSet(0).FitsIn(0))
	assert.False(t, b.FitsIn(0))
}

func TestValidatorSetSigners(t *testing.T) {
	vals := makeValidators(5)
	signers := vals.Signers(0b10110)
	require.Len(t, signers, 3)
	assert.Equal(t, vals.Validators[1], signers[0])
	assert.Equal(t, vals.Validators[2], signers[1])
	assert.Equal(t, vals.Validators[4], signers[2])

	_, ok := types.IsSortedByAddress(signers)
	assert.True(t, ok)

	signers[0], signers[1] = signers[1], signers[0]
	idx, ok := types.IsSortedByAddress(signers)
	assert.False(t, ok)
	assert.Equal(t, 1, idx)

	dup := []types.Validator{vals.Validators[0], vals.Validators[0]}
	_, ok = types.IsSortedByAddress(dup)
	assert.False(t, ok)
}

func TestVoteDataHash(t *testing.T) {
	a := &types.VoteData{SourceNumber: 1, SourceHash: common.HexToHash("0xaa"), TargetNumber: 2, TargetHash: common.HexToHash("0xbb")}
	b := *a
	assert.Equal(t, a.Hash(), b.Hash())

	b.TargetHash = common.HexToHash("0xcc")
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestConsensusStateEqual(t *testing.T) {
	cs := &types.ConsensusState{ValsetEpochBlockNumber: 1000, StateRoot: common.HexToHash("0x01")}
	other := *cs
	assert.True(t, cs.Equal(&other))

	other.IBCStorageRoot = common.HexToHash("0x02")
	assert.False(t, cs.Equal(&other))
	assert.False(t, cs.Equal(nil))
}
