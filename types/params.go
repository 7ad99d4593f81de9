package types

// Parlia header layout. These must match the source chain bit-exactly.
const (
	// ExtraVanityLength is the fixed number of extra-data prefix bytes
	// reserved for signer vanity.
	ExtraVanityLength = 32
	// ExtraSealLength is the fixed number of extra-data suffix bytes reserved
	// for the proposer's secp256k1 seal.
	ExtraSealLength = 65

	// ValidatorNumberLength is the size of the validator count prefix on
	// epoch-rotation blocks.
	ValidatorNumberLength = 1
	// AddressLength is the size of a validator consensus address.
	AddressLength = 20
	// BLSPublicKeyLength is the size of a compressed BLS12-381 G1 public key.
	BLSPublicKeyLength = 48
	// BLSSignatureLength is the size of a compressed BLS12-381 G2 signature.
	BLSSignatureLength = 96
	// ValidatorBytesLength is the size of a single validator-table entry.
	ValidatorBytesLength = AddressLength + BLSPublicKeyLength
	// TurnLengthSize is the size of the turn length byte that follows the
	// validator table.
	TurnLengthSize = 1

	// MaxValidators is the largest validator table the count byte can declare.
	MaxValidators = 255
)

// Parlia consensus parameters.
const (
	// EpochLength is the number of blocks between validator-set rotations.
	EpochLength uint64 = 1000
	// TurnLength is the number of consecutive blocks a validator produces.
	TurnLength uint64 = 8
)
