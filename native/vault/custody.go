package vault

import (
	"math/big"

	"poolvault/crypto"
)

// custodyEntry is the persisted internal balance of one account/asset pair.
// Exempt tracks the portion deposited during Window that may leave again
// without the withdrawal fee; the exemption dies when the settlement window
// advances.
type custodyEntry struct {
	Amount *big.Int
	Exempt *big.Int
	Window uint64
}

func (e custodyEntry) normalized() custodyEntry {
	if e.Amount == nil {
		e.Amount = big.NewInt(0)
	}
	if e.Exempt == nil {
		e.Exempt = big.NewInt(0)
	}
	return e
}

// Custody is the internal balance ledger: funds already inside the vault's
// custody that accounts can spend on settlements without an external
// transfer. The native sentinel is rejected here; callers deposit the
// wrapped denom instead.
type Custody struct {
	state  Storage
	window *SettlementWindow
}

func NewCustody(state Storage, window *SettlementWindow) *Custody {
	return &Custody{state: state, window: window}
}

// SetState swaps the backing storage.
func (c *Custody) SetState(state Storage) {
	if c == nil {
		return
	}
	c.state = state
}

func (c *Custody) load(account crypto.Address, asset AssetID) (custodyEntry, error) {
	var entry custodyEntry
	if _, err := c.state.KVGet(custodyKey(account, asset), &entry); err != nil {
		return custodyEntry{}, err
	}
	return entry.normalized(), nil
}

func (c *Custody) store(account crypto.Address, asset AssetID, entry custodyEntry) error {
	if entry.Amount.Sign() == 0 {
		return c.state.KVDelete(custodyKey(account, asset))
	}
	return c.state.KVPut(custodyKey(account, asset), entry)
}

// Balance returns the account's internal balance for the asset.
func (c *Custody) Balance(account crypto.Address, asset AssetID) (*big.Int, error) {
	asset = NormalizeAsset(asset)
	if asset.IsNative() {
		return nil, ErrInvalidNativeInternal
	}
	entry, err := c.load(account, asset)
	if err != nil {
		return nil, err
	}
	return entry.Amount, nil
}

// credit grows the account's internal balance. When exempt is set the
// credited amount is additionally marked fee-exempt for the current
// settlement window; a stale exemption from an earlier window is discarded
// first.
func (c *Custody) credit(account crypto.Address, asset AssetID, amount *big.Int, exempt bool) error {
	entry, err := c.load(account, asset)
	if err != nil {
		return err
	}
	current := c.window.Current()
	if entry.Window != current {
		entry.Exempt = big.NewInt(0)
		entry.Window = current
	}
	entry.Amount = new(big.Int).Add(entry.Amount, amount)
	if exempt {
		entry.Exempt = new(big.Int).Add(entry.Exempt, amount)
	}
	return c.store(account, asset, entry)
}

// debit shrinks the account's internal balance and returns the portion that
// was fee-exempt. The exemption only counts while its window is current.
func (c *Custody) debit(account crypto.Address, asset AssetID, amount *big.Int) (*big.Int, error) {
	entry, err := c.load(account, asset)
	if err != nil {
		return nil, err
	}
	if entry.Amount.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}
	exempt := big.NewInt(0)
	if entry.Window == c.window.Current() && entry.Exempt.Sign() > 0 {
		if entry.Exempt.Cmp(amount) < 0 {
			exempt.Set(entry.Exempt)
		} else {
			exempt.Set(amount)
		}
		entry.Exempt = new(big.Int).Sub(entry.Exempt, exempt)
	}
	entry.Amount = new(big.Int).Sub(entry.Amount, amount)
	if err := c.store(account, asset, entry); err != nil {
		return nil, err
	}
	return exempt, nil
}

// debitUpTo takes as much of amount as the account's balance covers and
// returns the taken portion. Used when a settlement prefers internal funds
// and externally sources the remainder.
func (c *Custody) debitUpTo(account crypto.Address, asset AssetID, amount *big.Int) (*big.Int, error) {
	entry, err := c.load(account, asset)
	if err != nil {
		return nil, err
	}
	taken := new(big.Int).Set(amount)
	if entry.Amount.Cmp(taken) < 0 {
		taken.Set(entry.Amount)
	}
	if taken.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if entry.Window == c.window.Current() && entry.Exempt.Sign() > 0 {
		if entry.Exempt.Cmp(taken) < 0 {
			entry.Exempt = big.NewInt(0)
		} else {
			entry.Exempt = new(big.Int).Sub(entry.Exempt, taken)
		}
	}
	entry.Amount = new(big.Int).Sub(entry.Amount, taken)
	if err := c.store(account, asset, entry); err != nil {
		return nil, err
	}
	return taken, nil
}

// Transfer moves funds between internal balances. The moved amount loses any
// fee exemption it carried.
func (c *Custody) Transfer(from, to crypto.Address, asset AssetID, amount *big.Int) error {
	asset = NormalizeAsset(asset)
	if asset.IsNative() {
		return ErrInvalidNativeInternal
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if _, err := c.debit(from, asset, amount); err != nil {
		return err
	}
	return c.credit(to, asset, amount, false)
}
