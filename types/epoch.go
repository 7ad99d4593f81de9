package types

// IsEpochRotationBlock reports whether the block at height carries a new
// validator set.
func IsEpochRotationBlock(height uint64) bool {
	return height%EpochLength == 0
}

// EpochBlockNumber rounds height down to its epoch boundary.
func EpochBlockNumber(height uint64) uint64 {
	return height - height%EpochLength
}

// SigningValsetEpochBlockNumber returns the epoch block number of the
// validator set that signs attestations at height, given that set's size.
//
// A set switched in at an epoch boundary only takes over after
// TurnLength*ceil(size/2) blocks, and the set carried by an epoch block
// becomes authoritative one epoch later. Heights too close to genesis resolve
// to the genesis epoch.
func SigningValsetEpochBlockNumber(height uint64, valsetSize int) uint64 {
	lag := TurnLength * ((uint64(valsetSize) + 1) / 2)
	if height < lag+EpochLength {
		return 0
	}
	return EpochBlockNumber(height - lag - EpochLength)
}
