package types_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/parlia/types"
)

func TestClientStateValidateBasic(t *testing.T) {
	valid := func() *types.ClientState {
		return &types.ClientState{
			ChainID:            56,
			IBCContractAddress: common.HexToAddress("0x151f3951FA218cac426edFe078fA9e5C6dceA500"),
			UnbondingPeriod:    7 * 24 * time.Hour,
			LatestHeight:       1000,
		}
	}

	testCases := []struct {
		name     string
		malleate func(cs *types.ClientState)
		expPass  bool
	}{
		{"valid", func(*types.ClientState) {}, true},
		{"zero chain id", func(cs *types.ClientState) { cs.ChainID = 0 }, false},
		{"zero height", func(cs *types.ClientState) { cs.LatestHeight = 0 }, false},
		{"zero unbonding", func(cs *types.ClientState) { cs.UnbondingPeriod = 0 }, false},
		{"negative unbonding", func(cs *types.ClientState) { cs.UnbondingPeriod = -time.Second }, false},
		{"frozen", func(cs *types.ClientState) { cs.FrozenHeight = 1 }, false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cs := valid()
			tc.malleate(cs)
			if tc.expPass {
				assert.NoError(t, cs.ValidateBasic())
			} else {
				assert.Error(t, cs.ValidateBasic())
			}
		})
	}
}

func TestClientStateMarshal(t *testing.T) {
	cs := &types.ClientState{
		ChainID:         97,
		UnbondingPeriod: time.Hour,
		LatestHeight:    2100,
		FrozenHeight:    2050,
	}
	assert.True(t, cs.IsFrozen())

	bz, err := cs.Marshal()
	require.NoError(t, err)
	decoded, err := types.UnmarshalClientState(bz)
	require.NoError(t, err)
	assert.Equal(t, cs, decoded)

	// the copy is independent of the original
	cp := cs.Copy()
	cp.LatestHeight++
	assert.EqualValues(t, 2100, cs.LatestHeight)

	cs.UnbondingPeriod = -1
	_, err = cs.Marshal()
	assert.Error(t, err)
}

func TestConsensusStateMarshalTruncatesTime(t *testing.T) {
	cs := &types.ConsensusState{
		ValsetEpochBlockNumber: 1000,
		Timestamp:              time.Date(2024, 1, 1, 0, 0, 0, 999, time.UTC),
		StateRoot:              common.HexToHash("0x5e"),
		IBCStorageRoot:         common.HexToHash("0x1b"),
	}

	bz, err := cs.Marshal()
	require.NoError(t, err)
	decoded, err := types.UnmarshalConsensusState(bz)
	require.NoError(t, err)
	assert.Equal(t, cs.Timestamp.Truncate(time.Second), decoded.Timestamp)
	assert.True(t, cs.Equal(decoded))

	cs.Timestamp = time.Unix(-1, 0)
	_, err = cs.Marshal()
	assert.Error(t, err)
}
