package types_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tendermint/parlia/types"
)

var (
	vanity [types.ExtraVanityLength]byte
	seal   [types.ExtraSealLength]byte
)

func makeValidators(n int) *types.ValidatorSet {
	vals := make([]types.Validator, n)
	for i := range vals {
		vals[i].Address = common.BytesToAddress([]byte{byte(i + 1)})
		for j := range vals[i].BLSPubKey {
			vals[i].BLSPubKey[j] = byte(i*7 + j)
		}
	}
	return types.NewValidatorSet(vals)
}

func makeAttestation() *types.VoteAttestation {
	att := &types.VoteAttestation{
		VoteAddressSet: 0b1011,
		Data: &types.VoteData{
			SourceNumber: 2100,
			SourceHash:   common.HexToHash("0x01"),
			TargetNumber: 2101,
			TargetHash:   common.HexToHash("0x02"),
		},
		Extra: []byte{},
	}
	for i := range att.AggSignature {
		att.AggSignature[i] = byte(i)
	}
	return att
}

func TestParseEpochRotationExtraDataRoundTrip(t *testing.T) {
	vals := makeValidators(21)
	att := makeAttestation()

	extra, err := types.EncodeEpochRotationExtraData(vanity, vals, att, seal)
	require.NoError(t, err)

	gotAtt, gotVals, err := types.ParseEpochRotationExtraData(extra)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(vals, gotVals))
	assert.Empty(t, cmp.Diff(att, gotAtt, cmpopts.EquateEmpty()))

	extra, err = types.EncodeEpochRotationExtraData(vanity, vals, nil, seal)
	require.NoError(t, err)
	gotAtt, gotVals, err = types.ParseEpochRotationExtraData(extra)
	require.NoError(t, err)
	assert.Nil(t, gotAtt)
	assert.True(t, vals.Equal(gotVals))
}

func TestParseExtraDataRoundTrip(t *testing.T) {
	att := makeAttestation()

	extra, err := types.EncodeExtraData(vanity, att, seal)
	require.NoError(t, err)
	got, err := types.ParseExtraData(extra)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(att, got, cmpopts.EquateEmpty()))

	extra, err = types.EncodeExtraData(vanity, nil, seal)
	require.NoError(t, err)
	got, err = types.ParseExtraData(extra)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseEpochRotationExtraDataErrors(t *testing.T) {
	valid, err := types.EncodeEpochRotationExtraData(vanity, makeValidators(3), nil, seal)
	require.NoError(t, err)

	withVanity := func(body ...byte) []byte {
		bz := append(vanity[:], body...)
		return append(bz, seal[:]...)
	}

	testCases := map[string]struct {
		extra  []byte
		expErr error
	}{
		"shorter than vanity and seal": {
			extra:  make([]byte, types.ExtraVanityLength+types.ExtraSealLength-1),
			expErr: types.ErrInvalidExtraDataLen{Len: types.ExtraVanityLength + types.ExtraSealLength - 1},
		},
		"no validator count": {
			extra:  withVanity(),
			expErr: types.ErrMissingValidatorCount{},
		},
		"fewer validators than declared": {
			extra:  withVanity(append([]byte{3}, make([]byte, 2*types.ValidatorBytesLength)...)...),
			expErr: types.ErrNotEnoughVals{Declared: 3, Available: 2 * types.ValidatorBytesLength},
		},
		"missing turn length": {
			extra:  withVanity(append([]byte{1}, make([]byte, types.ValidatorBytesLength)...)...),
			expErr: types.ErrMissingTurnLength{},
		},
		"wrong turn length": {
			extra:  withVanity(append(append([]byte{1}, make([]byte, types.ValidatorBytesLength)...), 4)...),
			expErr: types.ErrInvalidTurnLength{Got: 4},
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			_, _, err := types.ParseEpochRotationExtraData(tc.extra)
			require.Error(t, err)
			assert.Equal(t, tc.expErr, err)
		})
	}

	t.Run("malformed attestation", func(t *testing.T) {
		extra := append([]byte{}, valid[:len(valid)-types.ExtraSealLength]...)
		extra = append(extra, 0xf8, 0xff, 0x01)
		extra = append(extra, seal[:]...)
		_, _, err := types.ParseEpochRotationExtraData(extra)
		var encErr types.ErrInvalidAttestationEncoding
		require.ErrorAs(t, err, &encErr)
	})
}

func TestParseExtraDataTooShort(t *testing.T) {
	_, err := types.ParseExtraData(make([]byte, 10))
	assert.Equal(t, types.ErrInvalidExtraDataLen{Len: 10}, err)
}

func TestVoteAttestationFromHeaderDispatch(t *testing.T) {
	att := makeAttestation()

	epochExtra, err := types.EncodeEpochRotationExtraData(vanity, makeValidators(4), att, seal)
	require.NoError(t, err)
	plainExtra, err := types.EncodeExtraData(vanity, att, seal)
	require.NoError(t, err)

	got, err := types.VoteAttestationFromHeader(&types.Header{Number: big.NewInt(3000), Extra: epochExtra})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(att, got, cmpopts.EquateEmpty()))

	got, err = types.VoteAttestationFromHeader(&types.Header{Number: big.NewInt(3001), Extra: plainExtra})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(att, got, cmpopts.EquateEmpty()))

	// An epoch layout at a non-epoch height is misread as an attestation.
	_, err = types.VoteAttestationFromHeader(&types.Header{Number: big.NewInt(3001), Extra: epochExtra})
	assert.Error(t, err)

	vals, err := types.ValidatorSetFromHeader(&types.Header{Number: big.NewInt(3001), Extra: plainExtra})
	require.NoError(t, err)
	assert.Nil(t, vals)

	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err = types.VoteAttestationFromHeader(&types.Header{Number: huge, Extra: plainExtra})
	assert.Equal(t, types.ErrBlockNumberTooLarge{Number: huge}, err)
}

func TestEncodeTooManyValidators(t *testing.T) {
	_, err := types.EncodeEpochRotationExtraData(vanity, makeValidators(types.MaxValidators+1), nil, seal)
	assert.Equal(t, types.ErrTooManyValidators{Count: types.MaxValidators + 1}, err)
}

func TestValidatorTableCorruptionChangesSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		vals := makeValidators(n)
		extra, err := types.EncodeEpochRotationExtraData(vanity, vals, nil, seal)
		require.NoError(t, err)

		tableStart := types.ExtraVanityLength + types.ValidatorNumberLength
		offset := rapid.IntRange(tableStart, tableStart+n*types.ValidatorBytesLength-1).Draw(t, "offset")
		flip := rapid.ByteRange(1, 255).Draw(t, "flip")
		extra[offset] ^= flip

		_, got, err := types.ParseEpochRotationExtraData(extra)
		require.NoError(t, err)
		require.Equal(t, n, got.Size())
		require.False(t, vals.Equal(got))

		entry := (offset - tableStart) / types.ValidatorBytesLength
		for i := range vals.Validators {
			if i != entry {
				require.Equal(t, vals.Validators[i], got.Validators[i])
			}
		}
	})
}

func TestExtraDataRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, types.MaxValidators).Draw(t, "n")
		vals := make([]types.Validator, n)
		for i := range vals {
			copy(vals[i].Address[:], rapid.SliceOfN(rapid.Byte(), types.AddressLength, types.AddressLength).Draw(t, "addr"))
			copy(vals[i].BLSPubKey[:], rapid.SliceOfN(rapid.Byte(), types.BLSPublicKeyLength, types.BLSPublicKeyLength).Draw(t, "key"))
		}
		valSet := types.NewValidatorSet(vals)

		var att *types.VoteAttestation
		if rapid.Bool().Draw(t, "withAttestation") {
			att = &types.VoteAttestation{
				VoteAddressSet: types.ValidatorsBitSet(rapid.Uint64().Draw(t, "bits")),
				Data: &types.VoteData{
					SourceNumber: rapid.Uint64().Draw(t, "source"),
					TargetNumber: rapid.Uint64().Draw(t, "target"),
				},
				Extra: rapid.SliceOfN(rapid.Byte(), 0, 8).Draw(t, "extra"),
			}
			copy(att.AggSignature[:], rapid.SliceOfN(rapid.Byte(), types.BLSSignatureLength, types.BLSSignatureLength).Draw(t, "sig"))
		}

		extra, err := types.EncodeEpochRotationExtraData(vanity, valSet, att, seal)
		require.NoError(t, err)
		gotAtt, gotVals, err := types.ParseEpochRotationExtraData(extra)
		require.NoError(t, err)
		require.True(t, valSet.Equal(gotVals))
		if att == nil {
			require.Nil(t, gotAtt)
			return
		}
		require.Equal(t, att.VoteAddressSet, gotAtt.VoteAddressSet)
		require.Equal(t, att.AggSignature, gotAtt.AggSignature)
		require.Equal(t, *att.Data, *gotAtt.Data)
		require.Equal(t, len(att.Extra), len(gotAtt.Extra))
	})
}
