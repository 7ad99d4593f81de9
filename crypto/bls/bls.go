// Package bls implements BLS12-381 proof-of-possession aggregate signatures
// in the minimal-public-key-size variant used by Parlia fast finality:
// 48-byte G1 public keys and 96-byte G2 signatures.
//
// The light client treats pairing cryptography as a host capability; this
// package is the software implementation used outside such hosts.
package bls

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/tendermint/parlia/types"
)

// DST is the hash-to-curve domain separation tag of the proof-of-possession
// scheme.
const DST = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

var dst = []byte(DST)

var (
	ErrNoPublicKeys       = errors.New("no public keys to verify against")
	ErrMalformedSignature = errors.New("signature is not a valid compressed G2 point")
	ErrInvalidSignature   = errors.New("aggregate signature verification failed")
	ErrNoSignatures       = errors.New("no signatures to aggregate")
)

// ErrInvalidPubKey means the public key at Index is not a valid G1 point.
type ErrInvalidPubKey struct {
	Index int
}

func (e ErrInvalidPubKey) Error() string {
	return fmt.Sprintf("public key %d is not a valid compressed G1 point", e.Index)
}

// Verifier checks aggregate signatures in software.
type Verifier struct{}

// NewVerifier returns a software Verifier.
func NewVerifier() Verifier { return Verifier{} }

// VerifyAggregate verifies that sig is the aggregate of signatures by every
// key in pubKeys over msg. pubKeys must be in the order the signatures were
// aggregated.
func (Verifier) VerifyAggregate(pubKeys []types.BLSPublicKey, msg []byte, sig types.BLSSignature) error {
	if len(pubKeys) == 0 {
		return ErrNoPublicKeys
	}

	pks := make([]*blst.P1Affine, len(pubKeys))
	for i := range pubKeys {
		pk := new(blst.P1Affine).Uncompress(pubKeys[i][:])
		if pk == nil || !pk.KeyValidate() {
			return ErrInvalidPubKey{Index: i}
		}
		pks[i] = pk
	}

	s := new(blst.P2Affine).Uncompress(sig[:])
	if s == nil {
		return ErrMalformedSignature
	}
	if !s.FastAggregateVerify(true, pks, msg, dst) {
		return ErrInvalidSignature
	}
	return nil
}

// PrivKey is a BLS12-381 secret key.
type PrivKey struct {
	sk *blst.SecretKey
}

// GenPrivKey generates a new random private key.
func GenPrivKey() PrivKey {
	ikm := make([]byte, 32)
	if _, err := rand.Read(ikm); err != nil {
		panic(err)
	}
	return PrivKey{sk: blst.KeyGen(ikm)}
}

// GenPrivKeyFromSecret deterministically derives a private key from secret.
// Only use it for testing.
func GenPrivKeyFromSecret(secret []byte) PrivKey {
	ikm := sha256.Sum256(secret)
	return PrivKey{sk: blst.KeyGen(ikm[:])}
}

// PubKey returns the compressed public key.
func (privKey PrivKey) PubKey() types.BLSPublicKey {
	var pk types.BLSPublicKey
	copy(pk[:], new(blst.P1Affine).From(privKey.sk).Compress())
	return pk
}

// Sign signs msg under DST.
func (privKey PrivKey) Sign(msg []byte) types.BLSSignature {
	var sig types.BLSSignature
	copy(sig[:], new(blst.P2Affine).Sign(privKey.sk, msg, dst).Compress())
	return sig
}

// AggregateSignatures combines sigs into a single signature.
func AggregateSignatures(sigs []types.BLSSignature) (types.BLSSignature, error) {
	var out types.BLSSignature
	if len(sigs) == 0 {
		return out, ErrNoSignatures
	}

	points := make([]*blst.P2Affine, len(sigs))
	for i := range sigs {
		p := new(blst.P2Affine).Uncompress(sigs[i][:])
		if p == nil {
			return out, ErrMalformedSignature
		}
		points[i] = p
	}

	agg := new(blst.P2Aggregate)
	if !agg.Aggregate(points, true) {
		return out, ErrMalformedSignature
	}
	copy(out[:], agg.ToAffine().Compress())
	return out, nil
}
