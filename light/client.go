package light

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tendermint/parlia/libs/log"
	"github.com/tendermint/parlia/light/store"
	"github.com/tendermint/parlia/types"
)

// SignatureVerifier checks BLS aggregate signatures. It is usually
// bls.Verifier, or a host precompile.
type SignatureVerifier interface {
	VerifyAggregate(pubKeys []types.BLSPublicKey, msg []byte, sig types.BLSSignature) error
}

// Option sets a parameter for the light client.
type Option func(*Client)

// Logger option can be used to set a logger for the client.
func Logger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics option sets the metrics the client reports to.
// Default: NopMetrics().
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Clock option sets the source of the current time, against which headers
// and consensus states expire. Default: time.Now.
func Clock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client is a Parlia light client. It tracks the finalized headers of one
// BNB Smart Chain network, verifying each update against the validator sets
// it has learned, and persists everything it trusts in a Store.
//
// Updates and misbehaviour submissions are serialized; reads are not.
type Client struct {
	// Where the client, consensus states and validator sets are stored.
	trustedStore store.Store
	verifier     SignatureVerifier
	now          func() time.Time

	// Serializes the verify-then-commit of writers.
	mtx sync.Mutex

	logger  log.Logger
	metrics *Metrics
}

// NewClient returns a light client backed by trustedStore. The store may be
// empty; see CreateClient.
func NewClient(trustedStore store.Store, verifier SignatureVerifier, options ...Option) *Client {
	c := &Client{
		trustedStore: trustedStore,
		verifier:     verifier,
		now:          time.Now,
		logger:       log.NewNopLogger(),
		metrics:      NopMetrics(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// CreateClient initializes an empty store with a trusted client state, the
// consensus state at its latest height and the validator sets needed to
// verify the next updates. The validator set of
// consensusState.ValsetEpochBlockNumber must be among valsets.
func (c *Client) CreateClient(
	clientState *types.ClientState,
	consensusState *types.ConsensusState,
	valsets []types.ValidatorSetRotation,
) error {

	if err := clientState.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid client state: %w", err)
	}
	if consensusState == nil {
		return errors.New("nil consensus state")
	}

	var hasTrusted bool
	seen := make(map[uint64]bool, len(valsets))
	for _, rot := range valsets {
		if err := rot.Validators.ValidateBasic(); err != nil {
			return fmt.Errorf("validator set of epoch %d: %w", rot.EpochBlockNumber, err)
		}
		if !types.IsEpochRotationBlock(rot.EpochBlockNumber) {
			return fmt.Errorf("validator set at %d is not at an epoch-rotation block", rot.EpochBlockNumber)
		}
		if seen[rot.EpochBlockNumber] {
			return fmt.Errorf("duplicate validator set for epoch %d", rot.EpochBlockNumber)
		}
		seen[rot.EpochBlockNumber] = true
		if rot.EpochBlockNumber == consensusState.ValsetEpochBlockNumber {
			hasTrusted = true
		}
	}
	if !hasTrusted {
		return ErrTrustedValsetNotFound{
			EpochBlockNumber: consensusState.ValsetEpochBlockNumber,
			Reason:           errors.New("not among the initial validator sets"),
		}
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	switch _, err := c.trustedStore.ClientState(); {
	case err == nil:
		return ErrClientExists
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("failed to load client state: %w", err)
	}

	err := c.trustedStore.Commit(&types.StateUpdate{
		ClientState:    clientState.Copy(),
		Height:         clientState.LatestHeight,
		ConsensusState: consensusState,
		ValidatorSets:  valsets,
	})
	if err != nil {
		return fmt.Errorf("failed to save initial state: %w", err)
	}

	c.logger.Info("Created client",
		"chainID", clientState.ChainID,
		"height", clientState.LatestHeight,
		"valsets", len(valsets))
	c.metrics.LatestHeight.Set(float64(clientState.LatestHeight))
	c.metrics.ValidatorSetRotations.Add(float64(len(valsets)))
	return nil
}

// UpdateState verifies lh and, on success, stores a consensus state at the
// height of its oldest header, any validator set that header rotates to, and
// the advanced client state. It returns what was committed. On failure
// nothing is written.
//
// Submitting a header whose consensus state is already stored is a no-op
// unless the stored state differs, in which case ErrConsensusStateConflict
// is returned.
func (c *Client) UpdateState(lh *types.LightHeader) (*types.StateUpdate, error) {
	if lh == nil {
		return nil, errors.New("nil light header")
	}

	start := time.Now()
	defer func() {
		c.metrics.VerificationSeconds.With("operation", "update").Observe(time.Since(start).Seconds())
	}()

	c.mtx.Lock()
	defer c.mtx.Unlock()

	update, err := c.verifyUpdate(lh)
	if err != nil {
		c.logger.Error("Rejected header update",
			"epoch", lh.TrustedValsetEpochBlockNumber,
			"headers", len(lh.Chain),
			"err", err)
		c.metrics.HeaderUpdates.With("status", "rejected").Add(1)
		return nil, err
	}

	if err := c.trustedStore.Commit(update); err != nil {
		return nil, fmt.Errorf("failed to save update at height %d: %w", update.Height, err)
	}

	c.logger.Info("Verified header",
		"height", update.Height,
		"stateRoot", update.ConsensusState.StateRoot,
		"latest", update.ClientState.LatestHeight)
	for _, rot := range update.ValidatorSets {
		c.logger.Info("Learned validator set",
			"epoch", rot.EpochBlockNumber,
			"size", rot.Validators.Size())
	}
	c.metrics.HeaderUpdates.With("status", "accepted").Add(1)
	c.metrics.ValidatorSetRotations.Add(float64(len(update.ValidatorSets)))
	c.metrics.LatestHeight.Set(float64(update.ClientState.LatestHeight))
	return update, nil
}

func (c *Client) verifyUpdate(lh *types.LightHeader) (*types.StateUpdate, error) {
	cs, err := c.clientState()
	if err != nil {
		return nil, err
	}
	if cs.IsFrozen() {
		return nil, ErrClientFrozen
	}

	source, rotation, err := VerifyHeader(lh.Chain, cs.UnbondingPeriod, lh.TrustedValsetEpochBlockNumber, c.context())
	if err != nil {
		return nil, err
	}
	height, err := types.HeaderHeight(source)
	if err != nil {
		return nil, err
	}

	storageRoot, err := VerifyAccountProof(source.Root, cs.IBCContractAddress, lh.AccountProof)
	if err != nil {
		return nil, err
	}

	consensusState := &types.ConsensusState{
		ValsetEpochBlockNumber: lh.TrustedValsetEpochBlockNumber,
		Timestamp:              types.HeaderTime(source),
		StateRoot:              source.Root,
		IBCStorageRoot:         storageRoot,
	}

	switch existing, err := c.trustedStore.ConsensusState(height); {
	case err == nil:
		if !existing.Equal(consensusState) {
			return nil, ErrConsensusStateConflict{Height: height}
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to load consensus state at height %d: %w", height, err)
	}

	newCS := cs.Copy()
	if height > newCS.LatestHeight {
		newCS.LatestHeight = height
	}

	update := &types.StateUpdate{
		ClientState:    newCS,
		Height:         height,
		ConsensusState: consensusState,
	}
	if rotation != nil {
		update.ValidatorSets = []types.ValidatorSetRotation{*rotation}
	}
	return update, nil
}

// Misbehaviour verifies m and, on success, freezes the client at the height
// of the oldest header of chain A. It returns the frozen client state.
func (c *Client) Misbehaviour(m *types.Misbehaviour) (*types.ClientState, error) {
	if m == nil {
		return nil, errors.New("nil misbehaviour")
	}

	start := time.Now()
	defer func() {
		c.metrics.VerificationSeconds.With("operation", "misbehaviour").Observe(time.Since(start).Seconds())
	}()

	c.mtx.Lock()
	defer c.mtx.Unlock()

	cs, err := c.clientState()
	if err != nil {
		return nil, err
	}
	if cs.IsFrozen() {
		return nil, ErrClientFrozen
	}

	source, err := VerifyMisbehaviour(m, cs.UnbondingPeriod, c.context())
	if err != nil {
		c.logger.Error("Rejected misbehaviour", "err", err)
		return nil, err
	}
	height, err := types.HeaderHeight(source)
	if err != nil {
		return nil, err
	}

	frozen := cs.Copy()
	// zero means not frozen
	frozen.FrozenHeight = height
	if frozen.FrozenHeight == 0 {
		frozen.FrozenHeight = 1
	}

	if err := c.trustedStore.Commit(&types.StateUpdate{ClientState: frozen}); err != nil {
		return nil, fmt.Errorf("failed to freeze client: %w", err)
	}

	c.logger.Error("Froze client on misbehaviour", "height", frozen.FrozenHeight)
	c.metrics.MisbehaviourFrozen.Add(1)
	return frozen, nil
}

// Status reports whether the client is active, frozen on misbehaviour, or
// expired because its latest consensus state is older than the unbonding
// period.
func (c *Client) Status() (types.Status, error) {
	cs, err := c.clientState()
	if err != nil {
		return 0, err
	}
	if cs.IsFrozen() {
		return types.StatusFrozen, nil
	}

	cons, err := c.trustedStore.ConsensusState(cs.LatestHeight)
	if err != nil {
		return 0, fmt.Errorf("failed to load consensus state at height %d: %w", cs.LatestHeight, err)
	}
	if cons.Timestamp.Add(cs.UnbondingPeriod).Before(c.now()) {
		return types.StatusExpired, nil
	}
	return types.StatusActive, nil
}

// LatestHeight returns the latest trusted height.
func (c *Client) LatestHeight() (uint64, error) {
	cs, err := c.clientState()
	if err != nil {
		return 0, err
	}
	return cs.LatestHeight, nil
}

// Timestamp returns the block time of the consensus state at height.
func (c *Client) Timestamp(height uint64) (time.Time, error) {
	cons, err := c.ConsensusState(height)
	if err != nil {
		return time.Time{}, err
	}
	return cons.Timestamp, nil
}

// ConsensusState returns the consensus state stored at height.
func (c *Client) ConsensusState(height uint64) (*types.ConsensusState, error) {
	cons, err := c.trustedStore.ConsensusState(height)
	if err != nil {
		return nil, fmt.Errorf("failed to load consensus state at height %d: %w", height, err)
	}
	return cons, nil
}

// ClientState returns the stored client state.
func (c *Client) ClientState() (*types.ClientState, error) {
	return c.clientState()
}

// CounterpartyChainID returns the EIP-155 chain ID of the tracked chain.
func (c *Client) CounterpartyChainID() (uint64, error) {
	cs, err := c.clientState()
	if err != nil {
		return 0, err
	}
	return cs.ChainID, nil
}

func (c *Client) clientState() (*types.ClientState, error) {
	cs, err := c.trustedStore.ClientState()
	if err != nil {
		return nil, fmt.Errorf("failed to load client state: %w", err)
	}
	return cs, nil
}

func (c *Client) context() VerificationContext {
	return storeContext{
		store:    c.trustedStore,
		verifier: c.verifier,
		now:      c.now(),
	}
}

// storeContext serves validator sets from the trusted store at a fixed time.
type storeContext struct {
	store    store.Store
	verifier SignatureVerifier
	now      time.Time
}

var _ VerificationContext = storeContext{}

func (sc storeContext) CurrentTimestamp() time.Time { return sc.now }

func (sc storeContext) ValidatorSet(epochBlockNumber uint64) (*types.ValidatorSet, error) {
	return sc.store.ValidatorSet(epochBlockNumber)
}

func (sc storeContext) VerifyAggregate(pubKeys []types.BLSPublicKey, msg []byte, sig types.BLSSignature) error {
	return sc.verifier.VerifyAggregate(pubKeys, msg, sig)
}
