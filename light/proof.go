package light

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

var errAccountNotFound = errors.New("account does not exist in state")

// VerifyAccountProof verifies a Merkle-Patricia proof of the account at
// address against stateRoot and returns the account's storage root.
// proof holds the RLP-encoded trie nodes from the root down.
func VerifyAccountProof(stateRoot common.Hash, address common.Address, proof []hexutil.Bytes) (common.Hash, error) {
	if len(proof) == 0 {
		return common.Hash{}, ErrInvalidAccountProof{StateRoot: stateRoot, Reason: errors.New("empty proof")}
	}

	proofDB := memorydb.New()
	for _, node := range proof {
		if err := proofDB.Put(crypto.Keccak256(node), node); err != nil {
			return common.Hash{}, ErrInvalidAccountProof{StateRoot: stateRoot, Reason: err}
		}
	}

	value, err := trie.VerifyProof(stateRoot, crypto.Keccak256(address.Bytes()), proofDB)
	if err != nil {
		return common.Hash{}, ErrInvalidAccountProof{StateRoot: stateRoot, Reason: err}
	}
	if len(value) == 0 {
		return common.Hash{}, ErrInvalidAccountProof{StateRoot: stateRoot, Reason: errAccountNotFound}
	}

	var account ethtypes.StateAccount
	if err := rlp.DecodeBytes(value, &account); err != nil {
		return common.Hash{}, ErrInvalidAccountProof{
			StateRoot: stateRoot,
			Reason:    fmt.Errorf("decoding account %v: %w", address, err),
		}
	}
	return account.Root, nil
}
