package vault

import (
	"math/big"

	"poolvault/crypto"
)

// poolRecord is the persisted registration of a pool. The controller and
// strategy are also recoverable from the identifier; the record's presence is
// what marks the identifier as registered.
type poolRecord struct {
	Controller [20]byte
	Strategy   uint16
	Nonce      uint64
}

// Registry owns pool registration, per-pool asset sets, and the packed
// balance records behind them. Quoter implementations are process-local and
// re-attached after a restart; everything else is persisted.
type Registry struct {
	state   Storage
	general *mapStore
	minimal *mapStore
	two     *twoTokenStore
	quoters map[PoolID]Pool
}

func NewRegistry(state Storage) *Registry {
	r := &Registry{quoters: make(map[PoolID]Pool)}
	r.SetState(state)
	return r
}

// SetState swaps the backing storage. Attached quoters survive the swap.
func (r *Registry) SetState(state Storage) {
	if r == nil {
		return
	}
	r.state = state
	r.general = newMapStore(state, false)
	r.minimal = newMapStore(state, true)
	r.two = newTwoTokenStore(state)
}

func (r *Registry) storeFor(strategy Strategy) (balanceStore, error) {
	switch strategy {
	case GeneralStrategy:
		return r.general, nil
	case MinimalInfoStrategy:
		return r.minimal, nil
	case TwoTokenStrategy:
		return r.two, nil
	}
	return nil, ErrInvalidStrategy
}

func (r *Registry) poolCount() (uint64, error) {
	var count uint64
	if _, err := r.state.KVGet(poolCountKey, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// RegisterPool assigns a fresh identifier to the pool and persists its
// registration. The nonce is the number of pools ever registered; pools are
// never deleted, so identifiers never repeat.
func (r *Registry) RegisterPool(pool Pool, strategy Strategy) (PoolID, error) {
	if !strategy.Valid() {
		return PoolID{}, ErrInvalidStrategy
	}
	count, err := r.poolCount()
	if err != nil {
		return PoolID{}, err
	}
	id := NewPoolID(pool.Controller(), strategy, count)
	raw := pool.Controller().Raw()
	record := poolRecord{Controller: raw, Strategy: uint16(strategy), Nonce: count}
	if err := r.state.KVPut(poolKey(id), record); err != nil {
		return PoolID{}, err
	}
	if err := r.state.KVPut(poolCountKey, count+1); err != nil {
		return PoolID{}, err
	}
	r.quoters[id] = pool
	return id, nil
}

// AttachPool re-binds a quoter implementation to an already registered
// identifier, typically after a restart. The controller must match the
// registration.
func (r *Registry) AttachPool(id PoolID, pool Pool) error {
	record, err := r.record(id)
	if err != nil {
		return err
	}
	raw := pool.Controller().Raw()
	if record.Controller != raw {
		return ErrSenderNotPool
	}
	r.quoters[id] = pool
	return nil
}

func (r *Registry) record(id PoolID) (poolRecord, error) {
	var record poolRecord
	ok, err := r.state.KVGet(poolKey(id), &record)
	if err != nil {
		return poolRecord{}, err
	}
	if !ok {
		return poolRecord{}, ErrPoolNotFound
	}
	return record, nil
}

// Controller returns the registered controller address of the pool.
func (r *Registry) Controller(id PoolID) (crypto.Address, error) {
	record, err := r.record(id)
	if err != nil {
		return crypto.Address{}, err
	}
	return crypto.AddressFromRaw(record.Controller), nil
}

// Quoter returns the attached quoter for the pool.
func (r *Registry) Quoter(id PoolID) (Pool, error) {
	if _, err := r.record(id); err != nil {
		return nil, err
	}
	pool, ok := r.quoters[id]
	if !ok {
		return nil, ErrQuoterNotAttached
	}
	return pool, nil
}

// normalizeAssetList maps every denom through NormalizeAsset without the
// duplicate and native-sentinel checks, for callers re-rendering an already
// validated list.
func normalizeAssetList(assets []AssetID) []AssetID {
	normalized := make([]AssetID, len(assets))
	for i, asset := range assets {
		normalized[i] = NormalizeAsset(asset)
	}
	return normalized
}

func normalizeAssets(assets []AssetID) ([]AssetID, error) {
	normalized := make([]AssetID, len(assets))
	seen := make(map[AssetID]struct{}, len(assets))
	for i, asset := range assets {
		asset = NormalizeAsset(asset)
		if asset == NativeAsset {
			return nil, ErrInvalidAsset
		}
		if _, ok := seen[asset]; ok {
			return nil, ErrDuplicateAsset
		}
		seen[asset] = struct{}{}
		normalized[i] = asset
	}
	return normalized, nil
}

// RegisterTokens adds assets to the pool's set, with zero starting balances.
// Only the pool's controller may call it. An optional manager slice assigns
// one asset manager per asset; a zero address leaves the asset unmanaged.
func (r *Registry) RegisterTokens(id PoolID, sender crypto.Address, assets []AssetID, managers []crypto.Address) error {
	record, err := r.record(id)
	if err != nil {
		return err
	}
	if record.Controller != sender.Raw() {
		return ErrSenderNotPool
	}
	if len(assets) == 0 {
		return ErrInvalidAsset
	}
	if len(managers) != 0 && len(managers) != len(assets) {
		return ErrLengthMismatch
	}
	normalized, err := normalizeAssets(assets)
	if err != nil {
		return err
	}
	store, err := r.storeFor(Strategy(record.Strategy))
	if err != nil {
		return err
	}
	if err := store.register(id, normalized); err != nil {
		return err
	}
	for i, asset := range normalized {
		if len(managers) == 0 || managers[i].IsZero() {
			continue
		}
		if err := r.state.KVPut(assetManagerKey(id, asset), managers[i].Raw()); err != nil {
			return err
		}
	}
	return nil
}

// DeregisterTokens removes assets from the pool's set. Every named asset
// must carry a zero total; asset manager assignments are cleared with the
// registration.
func (r *Registry) DeregisterTokens(id PoolID, sender crypto.Address, assets []AssetID) error {
	record, err := r.record(id)
	if err != nil {
		return err
	}
	if record.Controller != sender.Raw() {
		return ErrSenderNotPool
	}
	if len(assets) == 0 {
		return ErrInvalidAsset
	}
	normalized, err := normalizeAssets(assets)
	if err != nil {
		return err
	}
	store, err := r.storeFor(Strategy(record.Strategy))
	if err != nil {
		return err
	}
	if err := store.deregister(id, normalized); err != nil {
		return err
	}
	for _, asset := range normalized {
		if err := r.state.KVDelete(assetManagerKey(id, asset)); err != nil {
			return err
		}
	}
	return nil
}

// PoolTokens enumerates the pool's registered assets and their totals in
// registration order.
func (r *Registry) PoolTokens(id PoolID) ([]AssetID, []*big.Int, error) {
	record, err := r.record(id)
	if err != nil {
		return nil, nil, err
	}
	store, err := r.storeFor(Strategy(record.Strategy))
	if err != nil {
		return nil, nil, err
	}
	assets, err := store.assets(id)
	if err != nil {
		return nil, nil, err
	}
	totals := make([]*big.Int, len(assets))
	for i, asset := range assets {
		bal, err := store.balance(id, asset)
		if err != nil {
			return nil, nil, err
		}
		totals[i] = bal.Total()
	}
	return assets, totals, nil
}

// PoolBalance returns the packed record for one registered asset.
func (r *Registry) PoolBalance(id PoolID, asset AssetID) (Balance, error) {
	store, err := r.storeForPool(id)
	if err != nil {
		return Balance{}, err
	}
	asset = NormalizeAsset(asset)
	ok, err := store.registered(id, asset)
	if err != nil {
		return Balance{}, err
	}
	if !ok {
		return Balance{}, ErrTokenNotRegistered
	}
	return store.balance(id, asset)
}

// AssetManager returns the manager assigned to the pool's asset, if any.
func (r *Registry) AssetManager(id PoolID, asset AssetID) (crypto.Address, bool, error) {
	var raw [crypto.AddressLength]byte
	ok, err := r.state.KVGet(assetManagerKey(id, NormalizeAsset(asset)), &raw)
	if err != nil || !ok {
		return crypto.Address{}, false, err
	}
	return crypto.AddressFromRaw(raw), true, nil
}

func (r *Registry) storeForPool(id PoolID) (balanceStore, error) {
	record, err := r.record(id)
	if err != nil {
		return nil, err
	}
	return r.storeFor(Strategy(record.Strategy))
}

// mutate loads the asset's record, applies fn, and persists the result.
func (r *Registry) mutate(id PoolID, asset AssetID, fn func(Balance) (Balance, error)) (Balance, error) {
	store, err := r.storeForPool(id)
	if err != nil {
		return Balance{}, err
	}
	ok, err := store.registered(id, asset)
	if err != nil {
		return Balance{}, err
	}
	if !ok {
		return Balance{}, ErrTokenNotRegistered
	}
	bal, err := store.balance(id, asset)
	if err != nil {
		return Balance{}, err
	}
	next, err := fn(bal)
	if err != nil {
		return Balance{}, err
	}
	if err := store.setBalance(id, asset, next); err != nil {
		return Balance{}, err
	}
	return next, nil
}

func (r *Registry) increaseHeld(id PoolID, asset AssetID, amount *big.Int) (Balance, error) {
	return r.mutate(id, asset, func(bal Balance) (Balance, error) {
		return bal.IncreaseHeld(amount)
	})
}

func (r *Registry) decreaseHeld(id PoolID, asset AssetID, amount *big.Int) (Balance, error) {
	return r.mutate(id, asset, func(bal Balance) (Balance, error) {
		return bal.DecreaseHeld(amount)
	})
}

func (r *Registry) moveHeldToManaged(id PoolID, asset AssetID, amount *big.Int) (Balance, error) {
	return r.mutate(id, asset, func(bal Balance) (Balance, error) {
		return bal.MoveHeldToManaged(amount)
	})
}

func (r *Registry) moveManagedToHeld(id PoolID, asset AssetID, amount *big.Int) (Balance, error) {
	return r.mutate(id, asset, func(bal Balance) (Balance, error) {
		return bal.MoveManagedToHeld(amount)
	})
}

func (r *Registry) setManaged(id PoolID, asset AssetID, managed *big.Int) (Balance, error) {
	return r.mutate(id, asset, func(bal Balance) (Balance, error) {
		return bal.SetManaged(managed)
	})
}
