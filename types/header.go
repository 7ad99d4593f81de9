package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Header is a Parlia block header. Its hash is keccak256 of the RLP encoding,
// identical to the execution header format of the source chain.
type Header = ethtypes.Header

// HeaderHeight returns the header number, failing if it is nil or does not
// fit in 64 bits.
func HeaderHeight(h *Header) (uint64, error) {
	if h == nil {
		return 0, ErrNilHeader
	}
	if h.Number == nil || h.Number.Sign() < 0 || !h.Number.IsUint64() {
		return 0, ErrBlockNumberTooLarge{Number: h.Number}
	}
	return h.Number.Uint64(), nil
}

// HeaderTime returns the header timestamp.
func HeaderTime(h *Header) time.Time {
	return time.Unix(int64(h.Time), 0).UTC()
}

// LightHeader is the update message a relayer submits: a linked chain of
// headers ending in the attestation-carrying header, the epoch block number
// of the validator set that signed the attestation, and a Merkle-Patricia
// account proof of the IBC contract against the oldest header's state root.
type LightHeader struct {
	TrustedValsetEpochBlockNumber uint64          `json:"trusted_valset_epoch_block_number"`
	Chain                         []*Header       `json:"chain"`
	AccountProof                  []hexutil.Bytes `json:"account_proof"`
}

// Source returns the oldest header of the chain, or nil.
func (lh *LightHeader) Source() *Header {
	if lh == nil || len(lh.Chain) == 0 {
		return nil
	}
	return lh.Chain[0]
}

// Attestation returns the newest (attestation-carrying) header, or nil.
func (lh *LightHeader) Attestation() *Header {
	if lh == nil || len(lh.Chain) == 0 {
		return nil
	}
	return lh.Chain[len(lh.Chain)-1]
}

// Misbehaviour holds two independently verifiable header chains whose
// attestation headers share a height but carry different votes.
type Misbehaviour struct {
	TrustedValsetEpochBlockNumber uint64    `json:"trusted_valset_epoch_block_number"`
	ChainA                        []*Header `json:"chain_a"`
	ChainB                        []*Header `json:"chain_b"`
}
