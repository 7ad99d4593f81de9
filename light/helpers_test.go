package light_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/parlia/crypto/bls"
	"github.com/tendermint/parlia/light"
	"github.com/tendermint/parlia/light/store"
	"github.com/tendermint/parlia/types"
)

const (
	chainID         = 56
	blockInterval   = 3 * time.Second
	unbondingPeriod = 7 * 24 * time.Hour
)

var (
	vanity [types.ExtraVanityLength]byte
	seal   [types.ExtraSealLength]byte

	ibcAddress  = common.HexToAddress("0x151f3951FA218cac426edFe078fA9e5C6dceA500")
	genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bTime       = genesisTime.Add(24 * time.Hour)
)

// privKeys is a helper type for testing.
//
// It lets us simulate signing with many keys. The main use case is to create
// a set, and call signVote to get a properly signed attestation.
type privKeys []bls.PrivKey

// genPrivKeys produces n deterministic keys. Keys with different seeds
// belong to validators with different addresses.
func genPrivKeys(n int, seed byte) privKeys {
	res := make(privKeys, n)
	for i := range res {
		res[i] = bls.GenPrivKeyFromSecret([]byte{seed, byte(i)})
	}
	return res
}

// ToValidators produces a validator set sorted by address, key i at index i.
func (pkz privKeys) ToValidators(seed byte) *types.ValidatorSet {
	res := make([]types.Validator, len(pkz))
	for i, k := range pkz {
		res[i] = types.Validator{
			Address:   common.BytesToAddress([]byte{seed, byte(i + 1)}),
			BLSPubKey: k.PubKey(),
		}
	}
	return types.NewValidatorSet(res)
}

// signVote aggregates the signatures over data of the keys selected by
// signers.
func (pkz privKeys) signVote(t *testing.T, data *types.VoteData, signers types.ValidatorsBitSet) *types.VoteAttestation {
	t.Helper()

	msg := data.Hash()
	sigs := make([]types.BLSSignature, 0, signers.Count())
	for i, k := range pkz {
		if signers.Test(i) {
			sigs = append(sigs, k.Sign(msg[:]))
		}
	}

	att := &types.VoteAttestation{VoteAddressSet: signers, Data: data, Extra: []byte{}}
	if len(sigs) > 0 {
		agg, err := bls.AggregateSignatures(sigs)
		require.NoError(t, err)
		att.AggSignature = agg
	}
	return att
}

func headerTime(height uint64) time.Time {
	return genesisTime.Add(time.Duration(height) * blockInterval)
}

func genHeader(height uint64, parent common.Hash, extra []byte, root common.Hash) *types.Header {
	return &types.Header{
		ParentHash:  parent,
		UncleHash:   ethtypes.EmptyUncleHash,
		Coinbase:    common.BytesToAddress([]byte{0xc0}),
		Root:        root,
		TxHash:      ethtypes.EmptyTxsHash,
		ReceiptHash: ethtypes.EmptyReceiptsHash,
		Difficulty:  big.NewInt(2),
		Number:      new(big.Int).SetUint64(height),
		GasLimit:    140_000_000,
		Time:        uint64(headerTime(height).Unix()),
		Extra:       extra,
	}
}

func genExtra(t *testing.T, height uint64, vals *types.ValidatorSet, att *types.VoteAttestation) []byte {
	t.Helper()

	var (
		extra []byte
		err   error
	)
	if types.IsEpochRotationBlock(height) {
		extra, err = types.EncodeEpochRotationExtraData(vanity, vals, att, seal)
	} else {
		extra, err = types.EncodeExtraData(vanity, att, seal)
	}
	require.NoError(t, err)
	return extra
}

// genChain builds the headers start, start+1 and start+2. The last one
// carries an attestation of start -> start+1 signed by the keys of pkz
// selected by signers. If start is an epoch-rotation block, it carries
// rotation.
func genChain(
	t *testing.T,
	pkz privKeys,
	start uint64,
	signers types.ValidatorsBitSet,
	rotation *types.ValidatorSet,
	root common.Hash,
) []*types.Header {
	t.Helper()

	source := genHeader(start, common.Hash{0x01}, genExtra(t, start, rotation, nil), root)
	target := genHeader(start+1, source.Hash(), genExtra(t, start+1, rotation, nil), root)
	att := pkz.signVote(t, voteFor(source, target), signers)
	attHeader := genHeader(start+2, target.Hash(), genExtra(t, start+2, rotation, att), root)

	return []*types.Header{source, target, attHeader}
}

func voteFor(source, target *types.Header) *types.VoteData {
	return &types.VoteData{
		SourceNumber: source.Number.Uint64(),
		SourceHash:   source.Hash(),
		TargetNumber: target.Number.Uint64(),
		TargetHash:   target.Hash(),
	}
}

// reattest returns a copy of chain whose last header carries att instead.
func reattest(t *testing.T, chain []*types.Header, att *types.VoteAttestation) []*types.Header {
	t.Helper()

	last := ethtypes.CopyHeader(chain[len(chain)-1])
	last.Extra = genExtra(t, last.Number.Uint64(), nil, att)

	res := append([]*types.Header{}, chain[:len(chain)-1]...)
	return append(res, last)
}

// genAccountProof builds a state trie holding only the account at address
// and returns its root and the proof of the account.
func genAccountProof(t *testing.T, address common.Address, storageRoot common.Hash) (common.Hash, []hexutil.Bytes) {
	t.Helper()

	account, err := rlp.EncodeToBytes(&ethtypes.StateAccount{
		Nonce:    1,
		Balance:  uint256.NewInt(1_000_000_000_000_000_000),
		Root:     storageRoot,
		CodeHash: crypto.Keccak256(nil),
	})
	require.NoError(t, err)

	// leaf node: hex-prefix encoded full key path (even length, terminated)
	path := append([]byte{0x20}, crypto.Keccak256(address.Bytes())...)
	node, err := rlp.EncodeToBytes([][]byte{path, account})
	require.NoError(t, err)

	return crypto.Keccak256Hash(node), []hexutil.Bytes{node}
}

type testContext struct {
	now     time.Time
	valsets map[uint64]*types.ValidatorSet
}

var _ light.VerificationContext = (*testContext)(nil)

func (c *testContext) CurrentTimestamp() time.Time { return c.now }

func (c *testContext) ValidatorSet(epochBlockNumber uint64) (*types.ValidatorSet, error) {
	vals, ok := c.valsets[epochBlockNumber]
	if !ok {
		return nil, store.ErrNotFound
	}
	return vals, nil
}

func (c *testContext) VerifyAggregate(pubKeys []types.BLSPublicKey, msg []byte, sig types.BLSSignature) error {
	return bls.NewVerifier().VerifyAggregate(pubKeys, msg, sig)
}

// fixture is a network whose epoch-1000 validator set (keys) signs every
// attestation up to height 3015, and whose block 3000 rotates to next.
type fixture struct {
	keys     privKeys
	vals     *types.ValidatorSet
	next     privKeys
	nextVals *types.ValidatorSet
	root     common.Hash
	proof    []hexutil.Bytes
	storage  common.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		keys:    genPrivKeys(4, 1),
		next:    genPrivKeys(5, 2),
		storage: common.HexToHash("0x5707a6e"),
	}
	f.vals = f.keys.ToValidators(1)
	f.nextVals = f.next.ToValidators(2)
	f.root, f.proof = genAccountProof(t, ibcAddress, f.storage)
	return f
}

func (f *fixture) context() *testContext {
	return &testContext{
		now:     bTime,
		valsets: map[uint64]*types.ValidatorSet{1000: f.vals},
	}
}

// chain returns a chain starting at start signed by three of the four
// epoch-1000 validators.
func (f *fixture) chain(t *testing.T, start uint64) []*types.Header {
	return genChain(t, f.keys, start, 0b0111, f.nextVals, f.root)
}
