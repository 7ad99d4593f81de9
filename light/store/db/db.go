package db

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/parlia/light/store"
	"github.com/tendermint/parlia/types"
)

const (
	prefixClientState    = int64(1)
	prefixConsensusState = int64(2)
	prefixValidatorSet   = int64(3)
)

type dbs struct {
	db dbm.DB

	mtx sync.RWMutex
}

var _ store.Store = (*dbs)(nil)

// New returns a Store that wraps any DB, namespacing every key under
// clientID so that many light clients can share one DB.
func New(db dbm.DB, clientID string) store.Store {
	return &dbs{db: dbm.NewPrefixDB(db, []byte(clientID+"/"))}
}

// ClientState loads the client state.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) ClientState() (*types.ClientState, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	bz, err := s.db.Get(s.clientStateKey())
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, store.ErrNotFound
	}
	return types.UnmarshalClientState(bz)
}

// ConsensusState loads the consensus state at the given height.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) ConsensusState(height uint64) (*types.ConsensusState, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	bz, err := s.db.Get(s.consensusStateKey(height))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, store.ErrNotFound
	}
	return types.UnmarshalConsensusState(bz)
}

// ValidatorSet loads the validator set of the given epoch.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) ValidatorSet(epochBlockNumber uint64) (*types.ValidatorSet, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	bz, err := s.db.Get(s.validatorSetKey(epochBlockNumber))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, store.ErrNotFound
	}
	return types.UnmarshalValidatorSet(bz)
}

// Commit writes the update in a single batch.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) Commit(u *types.StateUpdate) error {
	if u == nil || u.ClientState == nil {
		return fmt.Errorf("state update without client state")
	}

	csBz, err := u.ClientState.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling client state: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	b := s.db.NewBatch()
	defer b.Close()

	if err = b.Set(s.clientStateKey(), csBz); err != nil {
		return err
	}

	if u.ConsensusState != nil {
		consBz, err := u.ConsensusState.Marshal()
		if err != nil {
			return fmt.Errorf("marshaling consensus state: %w", err)
		}
		if err = b.Set(s.consensusStateKey(u.Height), consBz); err != nil {
			return err
		}
	}

	staged := make(map[uint64][]byte, len(u.ValidatorSets))
	for _, rot := range u.ValidatorSets {
		if rot.Validators.IsNilOrEmpty() {
			return fmt.Errorf("empty validator set for epoch %d", rot.EpochBlockNumber)
		}
		valsBz, err := rot.Validators.Marshal()
		if err != nil {
			return fmt.Errorf("marshaling validator set %d: %w", rot.EpochBlockNumber, err)
		}

		// the batch is not readable, so epochs set earlier in this update are
		// checked against staged
		existing, ok := staged[rot.EpochBlockNumber]
		key := s.validatorSetKey(rot.EpochBlockNumber)
		if !ok {
			if existing, err = s.db.Get(key); err != nil {
				return err
			}
		}
		if len(existing) != 0 {
			if !bytes.Equal(existing, valsBz) {
				return fmt.Errorf("epoch %d: %w", rot.EpochBlockNumber, store.ErrValidatorSetExists)
			}
			continue
		}
		if err = b.Set(key, valsBz); err != nil {
			return err
		}
		staged[rot.EpochBlockNumber] = valsBz
	}

	return b.WriteSync()
}

func (s *dbs) clientStateKey() []byte {
	key, err := orderedcode.Append(nil, prefixClientState)
	if err != nil {
		panic(err)
	}
	return key
}

func (s *dbs) consensusStateKey(height uint64) []byte {
	key, err := orderedcode.Append(nil, prefixConsensusState, height)
	if err != nil {
		panic(err)
	}
	return key
}

func (s *dbs) validatorSetKey(epochBlockNumber uint64) []byte {
	key, err := orderedcode.Append(nil, prefixValidatorSet, epochBlockNumber)
	if err != nil {
		panic(err)
	}
	return key
}
