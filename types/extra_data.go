package types

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Extra-data layout:
//
//	epoch-rotation block (height % EpochLength == 0):
//	  vanity(32) | count(1) | count * (address(20) | bls key(48)) | turn length(1) | [rlp attestation] | seal(65)
//	any other block:
//	  vanity(32) | [rlp attestation] | seal(65)

// trimExtraData strips the vanity prefix and the seal suffix.
func trimExtraData(extra []byte) ([]byte, error) {
	if len(extra) < ExtraVanityLength+ExtraSealLength {
		return nil, ErrInvalidExtraDataLen{Len: len(extra)}
	}
	return extra[ExtraVanityLength : len(extra)-ExtraSealLength], nil
}

// decodeAttestation decodes the optional attestation segment. An empty
// segment means the header carries no attestation.
func decodeAttestation(bz []byte) (*VoteAttestation, error) {
	if len(bz) == 0 {
		return nil, nil
	}
	att := new(VoteAttestation)
	if err := rlp.DecodeBytes(bz, att); err != nil {
		return nil, ErrInvalidAttestationEncoding{Reason: err}
	}
	if att.Data == nil {
		return nil, ErrInvalidAttestationEncoding{Reason: ErrNilVoteData}
	}
	return att, nil
}

// ParseEpochRotationExtraData decodes the extra-data of an epoch-rotation
// block into its optional vote attestation and its validator table.
func ParseEpochRotationExtraData(extra []byte) (*VoteAttestation, *ValidatorSet, error) {
	body, err := trimExtraData(extra)
	if err != nil {
		return nil, nil, err
	}
	if len(body) < ValidatorNumberLength {
		return nil, nil, ErrMissingValidatorCount{}
	}

	count := int(body[0])
	body = body[ValidatorNumberLength:]
	if len(body) < count*ValidatorBytesLength {
		return nil, nil, ErrNotEnoughVals{Declared: count, Available: len(body)}
	}

	vals := make([]Validator, count)
	for i := range vals {
		entry := body[i*ValidatorBytesLength : (i+1)*ValidatorBytesLength]
		copy(vals[i].Address[:], entry[:AddressLength])
		copy(vals[i].BLSPubKey[:], entry[AddressLength:])
	}
	body = body[count*ValidatorBytesLength:]

	if len(body) < TurnLengthSize {
		return nil, nil, ErrMissingTurnLength{}
	}
	if turn := body[0]; uint64(turn) != TurnLength {
		return nil, nil, ErrInvalidTurnLength{Got: turn}
	}
	body = body[TurnLengthSize:]

	att, err := decodeAttestation(body)
	if err != nil {
		return nil, nil, err
	}
	return att, &ValidatorSet{Validators: vals}, nil
}

// ParseExtraData decodes the optional vote attestation from the extra-data
// of a block that is not an epoch-rotation block.
func ParseExtraData(extra []byte) (*VoteAttestation, error) {
	body, err := trimExtraData(extra)
	if err != nil {
		return nil, err
	}
	return decodeAttestation(body)
}

// VoteAttestationFromHeader decodes the vote attestation carried by h,
// choosing the layout from the header height. It returns nil and no error if
// h carries no attestation.
func VoteAttestationFromHeader(h *Header) (*VoteAttestation, error) {
	height, err := HeaderHeight(h)
	if err != nil {
		return nil, err
	}
	if IsEpochRotationBlock(height) {
		att, _, err := ParseEpochRotationExtraData(h.Extra)
		return att, err
	}
	return ParseExtraData(h.Extra)
}

// ValidatorSetFromHeader decodes the validator table of an epoch-rotation
// header. It returns nil and no error for any other header.
func ValidatorSetFromHeader(h *Header) (*ValidatorSet, error) {
	height, err := HeaderHeight(h)
	if err != nil {
		return nil, err
	}
	if !IsEpochRotationBlock(height) {
		return nil, nil
	}
	_, vals, err := ParseEpochRotationExtraData(h.Extra)
	return vals, err
}

// EncodeExtraData builds the extra-data of a block that is not an
// epoch-rotation block. att may be nil.
func EncodeExtraData(vanity [ExtraVanityLength]byte, att *VoteAttestation, seal [ExtraSealLength]byte) ([]byte, error) {
	bz := make([]byte, 0, ExtraVanityLength+ExtraSealLength)
	bz = append(bz, vanity[:]...)
	if att != nil {
		attBz, err := rlp.EncodeToBytes(att)
		if err != nil {
			return nil, err
		}
		bz = append(bz, attBz...)
	}
	return append(bz, seal[:]...), nil
}

// EncodeEpochRotationExtraData builds the extra-data of an epoch-rotation
// block. att may be nil.
func EncodeEpochRotationExtraData(
	vanity [ExtraVanityLength]byte,
	vals *ValidatorSet,
	att *VoteAttestation,
	seal [ExtraSealLength]byte,
) ([]byte, error) {
	if vals.Size() > MaxValidators {
		return nil, ErrTooManyValidators{Count: vals.Size()}
	}

	bz := make([]byte, 0,
		ExtraVanityLength+ValidatorNumberLength+vals.Size()*ValidatorBytesLength+TurnLengthSize+ExtraSealLength)
	bz = append(bz, vanity[:]...)
	bz = append(bz, byte(vals.Size()))
	for _, val := range vals.Validators {
		bz = append(bz, val.Address[:]...)
		bz = append(bz, val.BLSPubKey[:]...)
	}
	bz = append(bz, byte(TurnLength))
	if att != nil {
		attBz, err := rlp.EncodeToBytes(att)
		if err != nil {
			return nil, err
		}
		bz = append(bz, attBz...)
	}
	return append(bz, seal[:]...), nil
}
