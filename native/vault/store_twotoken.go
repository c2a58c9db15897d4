package vault

import "github.com/holiman/uint256"

// storedTokenPair records a Two-Token pool's registered pair in canonical
// order (TokenA sorts before TokenB).
type storedTokenPair struct {
	TokenA string
	TokenB string
}

// twoTokenStore backs the Two-Token strategy. Both assets' held fields share
// one packed word and both managed fields share another, so a swap touching
// both balances costs a single read and write per word. TokenA occupies the
// low field of each word. The shared words are dropped when both totals are
// zero; the pair registration is a separate record and survives until the
// pool deregisters.
type twoTokenStore struct {
	state Storage
}

func newTwoTokenStore(state Storage) *twoTokenStore {
	return &twoTokenStore{state: state}
}

func (s *twoTokenStore) pair(id PoolID) (storedTokenPair, bool, error) {
	var stored storedTokenPair
	ok, err := s.state.KVGet(twoTokenPairKey(id), &stored)
	return stored, ok, err
}

func canonicalPair(assets []AssetID) (storedTokenPair, error) {
	if len(assets) != 2 {
		return storedTokenPair{}, ErrTwoTokensRequired
	}
	a, b := string(assets[0]), string(assets[1])
	if a == b {
		return storedTokenPair{}, ErrDuplicateAsset
	}
	if a > b {
		a, b = b, a
	}
	return storedTokenPair{TokenA: a, TokenB: b}, nil
}

func (s *twoTokenStore) register(id PoolID, assets []AssetID) error {
	pair, err := canonicalPair(assets)
	if err != nil {
		return err
	}
	if _, ok, err := s.pair(id); err != nil {
		return err
	} else if ok {
		return ErrTokenAlreadyRegistered
	}
	return s.state.KVPut(twoTokenPairKey(id), pair)
}

func (s *twoTokenStore) deregister(id PoolID, assets []AssetID) error {
	requested, err := canonicalPair(assets)
	if err != nil {
		return err
	}
	pair, ok, err := s.pair(id)
	if err != nil {
		return err
	}
	if !ok || pair != requested {
		return ErrTokenNotRegistered
	}
	held, managed, err := s.words(id)
	if err != nil {
		return err
	}
	if !held.IsZero() || !managed.IsZero() {
		return ErrBalanceNotZero
	}
	if err := s.state.KVDelete(twoTokenHeldKey(id)); err != nil {
		return err
	}
	if err := s.state.KVDelete(twoTokenManagedKey(id)); err != nil {
		return err
	}
	return s.state.KVDelete(twoTokenPairKey(id))
}

func (s *twoTokenStore) assets(id PoolID) ([]AssetID, error) {
	pair, ok, err := s.pair(id)
	if err != nil || !ok {
		return nil, err
	}
	return []AssetID{AssetID(pair.TokenA), AssetID(pair.TokenB)}, nil
}

func (s *twoTokenStore) registered(id PoolID, asset AssetID) (bool, error) {
	pair, ok, err := s.pair(id)
	if err != nil || !ok {
		return false, err
	}
	return string(asset) == pair.TokenA || string(asset) == pair.TokenB, nil
}

func (s *twoTokenStore) words(id PoolID) (heldWord, managedWord uint256.Int, err error) {
	var raw []byte
	if _, err = s.state.KVGet(twoTokenHeldKey(id), &raw); err != nil {
		return heldWord, managedWord, err
	}
	heldWord = wordFromBytes(raw)
	raw = nil
	if _, err = s.state.KVGet(twoTokenManagedKey(id), &raw); err != nil {
		return heldWord, managedWord, err
	}
	managedWord = wordFromBytes(raw)
	return heldWord, managedWord, nil
}

func (s *twoTokenStore) balance(id PoolID, asset AssetID) (Balance, error) {
	pair, ok, err := s.pair(id)
	if err != nil {
		return Balance{}, err
	}
	if !ok {
		return Balance{}, ErrPoolNotFound
	}
	heldWord, managedWord, err := s.words(id)
	if err != nil {
		return Balance{}, err
	}
	heldA, heldB := unpackPair(&heldWord)
	managedA, managedB := unpackPair(&managedWord)
	switch string(asset) {
	case pair.TokenA:
		return PackBalance(heldA, managedA)
	case pair.TokenB:
		return PackBalance(heldB, managedB)
	}
	return Balance{}, ErrTokenNotRegistered
}

func (s *twoTokenStore) setBalance(id PoolID, asset AssetID, bal Balance) error {
	pair, ok, err := s.pair(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPoolNotFound
	}
	heldWord, managedWord, err := s.words(id)
	if err != nil {
		return err
	}
	heldA, heldB := unpackPair(&heldWord)
	managedA, managedB := unpackPair(&managedWord)
	switch string(asset) {
	case pair.TokenA:
		heldA, managedA = bal.Held(), bal.Managed()
	case pair.TokenB:
		heldB, managedB = bal.Held(), bal.Managed()
	default:
		return ErrTokenNotRegistered
	}
	newHeld, err := packPair(heldA, heldB)
	if err != nil {
		return err
	}
	newManaged, err := packPair(managedA, managedB)
	if err != nil {
		return err
	}
	if newHeld.IsZero() && newManaged.IsZero() {
		if err := s.state.KVDelete(twoTokenHeldKey(id)); err != nil {
			return err
		}
		return s.state.KVDelete(twoTokenManagedKey(id))
	}
	if err := s.state.KVPut(twoTokenHeldKey(id), wordBytes(newHeld)); err != nil {
		return err
	}
	return s.state.KVPut(twoTokenManagedKey(id), wordBytes(newManaged))
}
