package vault

import (
	"math/big"
	"testing"

	"poolvault/core/events"
	"poolvault/core/state"
	"poolvault/core/types"
	"poolvault/crypto"
	"poolvault/storage"
)

const (
	assetAAA = AssetID("AAA")
	assetBBB = AssetID("BBB")
	assetCCC = AssetID("CCC")
	wrapped  = AssetID("WNATIVE")
)

func addr(last byte) crypto.Address {
	var raw [crypto.AddressLength]byte
	raw[crypto.AddressLength-1] = last
	return crypto.AddressFromRaw(raw)
}

var (
	vaultAddr     = addr(0x01)
	adminAddr     = addr(0x02)
	collectorAddr = addr(0x03)
	controller    = addr(0x10)
	trader        = addr(0x20)
	relayer       = addr(0x21)
	liquidity     = addr(0x22)
	manager       = addr(0x23)
)

// fakeLedger is an in-memory token ledger standing in for the external
// transfer layer. Native payouts and refunds are recorded instead of moved
// because native value has no account on the ledger side.
type fakeLedger struct {
	balances  map[AssetID]map[crypto.Address]*big.Int
	nativeOut map[crypto.Address]*big.Int
	refunds   map[crypto.Address]*big.Int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:  make(map[AssetID]map[crypto.Address]*big.Int),
		nativeOut: make(map[crypto.Address]*big.Int),
		refunds:   make(map[crypto.Address]*big.Int),
	}
}

func (l *fakeLedger) mint(asset AssetID, account crypto.Address, amount int64) {
	if l.balances[asset] == nil {
		l.balances[asset] = make(map[crypto.Address]*big.Int)
	}
	current := l.balances[asset][account]
	if current == nil {
		current = big.NewInt(0)
	}
	l.balances[asset][account] = new(big.Int).Add(current, big.NewInt(amount))
}

func (l *fakeLedger) balance(asset AssetID, account crypto.Address) *big.Int {
	if l.balances[asset] == nil || l.balances[asset][account] == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(l.balances[asset][account])
}

func (l *fakeLedger) Transfer(asset AssetID, from, to crypto.Address, amount *big.Int) error {
	have := l.balance(asset, from)
	if have.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[asset][from] = have.Sub(have, amount)
	l.mint(asset, to, 0)
	l.balances[asset][to] = new(big.Int).Add(l.balances[asset][to], amount)
	return nil
}

func (l *fakeLedger) BalanceOf(asset AssetID, account crypto.Address) (*big.Int, error) {
	return l.balance(asset, account), nil
}

func (l *fakeLedger) Wrap(to crypto.Address, amount *big.Int) error {
	l.mint(wrapped, to, 0)
	l.balances[wrapped][to] = new(big.Int).Add(l.balances[wrapped][to], amount)
	return nil
}

func (l *fakeLedger) Unwrap(from, to crypto.Address, amount *big.Int) error {
	have := l.balance(wrapped, from)
	if have.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[wrapped][from] = have.Sub(have, amount)
	current := l.nativeOut[to]
	if current == nil {
		current = big.NewInt(0)
	}
	l.nativeOut[to] = new(big.Int).Add(current, amount)
	return nil
}

func (l *fakeLedger) RefundNative(to crypto.Address, amount *big.Int) error {
	current := l.refunds[to]
	if current == nil {
		current = big.NewInt(0)
	}
	l.refunds[to] = new(big.Int).Add(current, amount)
	return nil
}

// captureEmitter retains emitted events for assertions.
type captureEmitter struct {
	events []types.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	if wrapped, ok := evt.(vaultEvent); ok {
		c.events = append(c.events, wrapped.Event())
	}
}

func (c *captureEmitter) last(eventType string) (types.Event, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i], true
		}
	}
	return types.Event{}, false
}

// stubPool answers every quote with a fixed amount and fee.
type stubPool struct {
	controller crypto.Address
	quoted     *big.Int
	fee        *big.Int
	err        error
}

func (p *stubPool) Controller() crypto.Address { return p.controller }

func (p *stubPool) QuoteSwap(req SwapRequest, balanceIn, balanceOut *big.Int) (*big.Int, *big.Int, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	return cloneAmount(p.quoted), cloneAmount(p.fee), nil
}

// stubGeneralPool records the balance slice it was quoted against.
type stubGeneralPool struct {
	controller crypto.Address
	quoted     *big.Int
	fee        *big.Int

	gotBalances []*big.Int
	gotIndexIn  int
	gotIndexOut int
}

func (p *stubGeneralPool) Controller() crypto.Address { return p.controller }

func (p *stubGeneralPool) QuoteSwapGeneral(req SwapRequest, balances []*big.Int, indexIn, indexOut int) (*big.Int, *big.Int, error) {
	p.gotBalances = balances
	p.gotIndexIn = indexIn
	p.gotIndexOut = indexOut
	return cloneAmount(p.quoted), cloneAmount(p.fee), nil
}

func newTestState(t *testing.T) Storage {
	t.Helper()
	return state.NewManager(storage.NewMemDB())
}

func newTestEngine(t *testing.T) (*Engine, *fakeLedger) {
	t.Helper()
	ledger := newFakeLedger()
	eng := NewEngine(newTestState(t), ledger, vaultAddr, wrapped, adminAddr, collectorAddr)
	return eng, ledger
}

// fundedPool registers a Minimal-Info stub pool holding amountA/amountB of
// AAA and BBB supplied by the controller.
func fundedPool(t *testing.T, eng *Engine, ledger *fakeLedger, pool *stubPool, amountA, amountB int64) PoolID {
	t.Helper()
	id, err := eng.RegisterPool(pool, MinimalInfoStrategy)
	if err != nil {
		t.Fatalf("register pool: %v", err)
	}
	if err := eng.RegisterTokens(pool.controller, id, []AssetID{assetAAA, assetBBB}, nil); err != nil {
		t.Fatalf("register tokens: %v", err)
	}
	ledger.mint(assetAAA, pool.controller, amountA)
	ledger.mint(assetBBB, pool.controller, amountB)
	funds := FundsSpec{Sender: pool.controller, Recipient: pool.controller}
	amounts := []*big.Int{big.NewInt(amountA), big.NewInt(amountB)}
	if err := eng.JoinPool(pool.controller, id, funds, []AssetID{assetAAA, assetBBB}, amounts, nil); err != nil {
		t.Fatalf("join pool: %v", err)
	}
	return id
}

func requireAmount(t *testing.T, got *big.Int, want int64, label string) {
	t.Helper()
	if got == nil || got.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("%s: expected %d, got %v", label, want, got)
	}
}
