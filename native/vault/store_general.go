package vault

// balanceStore is the per-strategy persistence behind a pool's balances. The
// registry dispatches on the strategy tag embedded in the pool identifier.
type balanceStore interface {
	register(id PoolID, assets []AssetID) error
	deregister(id PoolID, assets []AssetID) error
	assets(id PoolID) ([]AssetID, error)
	registered(id PoolID, asset AssetID) (bool, error)
	balance(id PoolID, asset AssetID) (Balance, error)
	setBalance(id PoolID, asset AssetID, bal Balance) error
}

type storedAssetList struct {
	Assets []string
}

// mapStore backs the General and Minimal-Info strategies: one packed record
// per registered asset plus an ordered asset list for enumeration. The two
// strategies differ only in zero handling. General treats an absent record as
// a zero balance and drops records the moment their total reaches zero;
// Minimal-Info writes zero records on registration and retains them, so
// record presence doubles as the registration check without touching the
// asset list.
type mapStore struct {
	state      Storage
	retainZero bool
}

func newMapStore(state Storage, retainZero bool) *mapStore {
	return &mapStore{state: state, retainZero: retainZero}
}

func (s *mapStore) loadAssets(id PoolID) ([]AssetID, error) {
	var stored storedAssetList
	if _, err := s.state.KVGet(assetListKey(id), &stored); err != nil {
		return nil, err
	}
	assets := make([]AssetID, len(stored.Assets))
	for i, asset := range stored.Assets {
		assets[i] = AssetID(asset)
	}
	return assets, nil
}

func (s *mapStore) storeAssets(id PoolID, assets []AssetID) error {
	if len(assets) == 0 {
		return s.state.KVDelete(assetListKey(id))
	}
	stored := storedAssetList{Assets: make([]string, len(assets))}
	for i, asset := range assets {
		stored.Assets[i] = string(asset)
	}
	return s.state.KVPut(assetListKey(id), stored)
}

func (s *mapStore) register(id PoolID, assets []AssetID) error {
	existing, err := s.loadAssets(id)
	if err != nil {
		return err
	}
	known := make(map[AssetID]struct{}, len(existing)+len(assets))
	for _, asset := range existing {
		known[asset] = struct{}{}
	}
	for _, asset := range assets {
		if _, ok := known[asset]; ok {
			return ErrTokenAlreadyRegistered
		}
		known[asset] = struct{}{}
		existing = append(existing, asset)
	}
	if err := s.storeAssets(id, existing); err != nil {
		return err
	}
	if !s.retainZero {
		return nil
	}
	for _, asset := range assets {
		if err := s.state.KVPut(balanceKey(id, asset), Balance{}.bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (s *mapStore) deregister(id PoolID, assets []AssetID) error {
	existing, err := s.loadAssets(id)
	if err != nil {
		return err
	}
	index := make(map[AssetID]int, len(existing))
	for i, asset := range existing {
		index[asset] = i
	}
	remove := make(map[AssetID]struct{}, len(assets))
	for _, asset := range assets {
		if _, ok := index[asset]; !ok {
			return ErrTokenNotRegistered
		}
		if _, ok := remove[asset]; ok {
			return ErrDuplicateAsset
		}
		bal, err := s.balance(id, asset)
		if err != nil {
			return err
		}
		if !bal.IsZero() {
			return ErrBalanceNotZero
		}
		remove[asset] = struct{}{}
	}
	kept := existing[:0]
	for _, asset := range existing {
		if _, ok := remove[asset]; ok {
			if err := s.state.KVDelete(balanceKey(id, asset)); err != nil {
				return err
			}
			continue
		}
		kept = append(kept, asset)
	}
	return s.storeAssets(id, kept)
}

func (s *mapStore) assets(id PoolID) ([]AssetID, error) {
	return s.loadAssets(id)
}

func (s *mapStore) registered(id PoolID, asset AssetID) (bool, error) {
	if s.retainZero {
		var raw []byte
		return s.state.KVGet(balanceKey(id, asset), &raw)
	}
	assets, err := s.loadAssets(id)
	if err != nil {
		return false, err
	}
	for _, registered := range assets {
		if registered == asset {
			return true, nil
		}
	}
	return false, nil
}

func (s *mapStore) balance(id PoolID, asset AssetID) (Balance, error) {
	var raw []byte
	ok, err := s.state.KVGet(balanceKey(id, asset), &raw)
	if err != nil {
		return Balance{}, err
	}
	if !ok {
		return Balance{}, nil
	}
	return balanceFromBytes(raw), nil
}

func (s *mapStore) setBalance(id PoolID, asset AssetID, bal Balance) error {
	if bal.IsZero() && !s.retainZero {
		return s.state.KVDelete(balanceKey(id, asset))
	}
	return s.state.KVPut(balanceKey(id, asset), bal.bytes())
}
