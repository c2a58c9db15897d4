package vault

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	"poolvault/crypto"
)

// AssetID identifies a fungible asset by denom. The empty string is the
// reserved sentinel for the chain-native asset; it is translated to the
// configured wrapped denom everywhere except at the transfer boundary.
type AssetID string

// NativeAsset is the sentinel denom for the chain-native asset.
const NativeAsset AssetID = ""

// IsNative reports whether the asset is the native sentinel.
func (a AssetID) IsNative() bool {
	return a == NativeAsset
}

// NormalizeAsset canonicalises asset denoms for consistent lookups. The
// native sentinel normalises to itself.
func NormalizeAsset(asset AssetID) AssetID {
	return AssetID(strings.ToUpper(strings.TrimSpace(string(asset))))
}

// Strategy selects the storage layout backing a pool's balances.
type Strategy uint16

const (
	// GeneralStrategy keeps independent per-token records with full
	// enumeration; quoting receives every registered balance.
	GeneralStrategy Strategy = iota
	// MinimalInfoStrategy shares the General layout but quoting receives
	// only the two balances relevant to the trade.
	MinimalInfoStrategy
	// TwoTokenStrategy packs both assets' held fields into one shared word
	// and both managed fields into another; cheapest reads, exactly two
	// registered assets.
	TwoTokenStrategy
)

// Valid reports whether the strategy tag is one of the known layouts.
func (s Strategy) Valid() bool {
	switch s {
	case GeneralStrategy, MinimalInfoStrategy, TwoTokenStrategy:
		return true
	}
	return false
}

func (s Strategy) String() string {
	switch s {
	case GeneralStrategy:
		return "general"
	case MinimalInfoStrategy:
		return "minimal-info"
	case TwoTokenStrategy:
		return "two-token"
	}
	return "unknown"
}

// PoolID combines the pool's controller handle, its storage strategy, and a
// monotonic creation nonce. The strategy is recoverable from the identifier
// without a storage read: bytes 0..19 carry the handle, bytes 20..21 the
// big-endian strategy tag, bytes 24..31 the big-endian nonce.
type PoolID [32]byte

// NewPoolID encodes the handle, strategy, and nonce into a pool identifier.
func NewPoolID(handle crypto.Address, strategy Strategy, nonce uint64) PoolID {
	var id PoolID
	raw := handle.Raw()
	copy(id[:20], raw[:])
	binary.BigEndian.PutUint16(id[20:22], uint16(strategy))
	binary.BigEndian.PutUint64(id[24:32], nonce)
	return id
}

// Handle returns the controller address embedded in the identifier.
func (id PoolID) Handle() crypto.Address {
	var raw [crypto.AddressLength]byte
	copy(raw[:], id[:20])
	return crypto.AddressFromRaw(raw)
}

// Strategy returns the storage strategy tag embedded in the identifier.
func (id PoolID) Strategy() Strategy {
	return Strategy(binary.BigEndian.Uint16(id[20:22]))
}

// Nonce returns the creation nonce embedded in the identifier.
func (id PoolID) Nonce() uint64 {
	return binary.BigEndian.Uint64(id[24:32])
}

func (id PoolID) String() string {
	return hex.EncodeToString(id[:])
}

// TradeDirection selects which side of a trade step carries the known
// amount.
type TradeDirection uint8

const (
	// GivenIn means the step amount is the input quantity; the pool quotes
	// the output.
	GivenIn TradeDirection = iota
	// GivenOut means the step amount is the output quantity; the pool
	// quotes the input.
	GivenOut
)

func (d TradeDirection) String() string {
	if d == GivenOut {
		return "given-out"
	}
	return "given-in"
}

// TradeStep is one hop of a batch settlement. A zero (or nil) Amount is the
// multihop marker meaning "use the previous step's quoted amount".
type TradeStep struct {
	Pool          PoolID
	AssetInIndex  int
	AssetOutIndex int
	Amount        *big.Int
	UserData      []byte
}

// FundsSpec names the external parties of a settlement and whether internal
// custody participates on each side.
type FundsSpec struct {
	Sender       crypto.Address
	Recipient    crypto.Address
	FromInternal bool
	ToInternal   bool
}

// SwapRequest is the quoting context handed to a pool.
type SwapRequest struct {
	Direction TradeDirection
	Pool      PoolID
	AssetIn   AssetID
	AssetOut  AssetID
	// Amount is the known quantity: input for GivenIn, output for GivenOut.
	Amount   *big.Int
	UserData []byte
}

// Pool is the base interface every registered pool exposes. The pool's
// curve logic lives outside the vault; the vault only consumes quotes.
type Pool interface {
	Controller() crypto.Address
}

// MinimalInfoPool quotes against the two balances relevant to the trade.
// Pools registered with the Minimal-Info or Two-Token strategies implement
// it.
type MinimalInfoPool interface {
	Pool
	// QuoteSwap returns the paired amount for the request alongside the
	// trading fee the pool charged, denominated in the input asset.
	QuoteSwap(req SwapRequest, balanceIn, balanceOut *big.Int) (quoted *big.Int, poolFee *big.Int, err error)
}

// GeneralPool quotes against every balance the pool holds. Pools registered
// with the General strategy implement it.
type GeneralPool interface {
	Pool
	QuoteSwapGeneral(req SwapRequest, balances []*big.Int, indexIn, indexOut int) (quoted *big.Int, poolFee *big.Int, err error)
}

// FlashLoanReceiver is the counterparty of a flash loan. The vault transfers
// the borrowed amount to the receiver's address, invokes the callback, and
// asserts repayment of principal plus fee afterwards.
type FlashLoanReceiver interface {
	Address() crypto.Address
	ReceiveFlashLoan(asset AssetID, amount, fee *big.Int) error
}

// TokenLedger is the external asset boundary. Token contracts and the
// wrapped-native mint live behind it, outside the vault's custody accounting.
type TokenLedger interface {
	Transfer(asset AssetID, from, to crypto.Address, amount *big.Int) error
	BalanceOf(asset AssetID, account crypto.Address) (*big.Int, error)
	// Wrap converts caller-supplied native funds into the wrapped denom,
	// crediting the recipient.
	Wrap(to crypto.Address, amount *big.Int) error
	// Unwrap burns wrapped denom held by from and pays native funds to the
	// recipient.
	Unwrap(from, to crypto.Address, amount *big.Int) error
	// RefundNative returns unconsumed caller-supplied native funds.
	RefundNative(to crypto.Address, amount *big.Int) error
}

// Storage abstracts the subset of state manager functionality required by
// the vault modules.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

// ManagementOp enumerates the asset-manager operations on a pool balance.
type ManagementOp uint8

const (
	// ManagementWithdraw moves held funds to the manager, tracked as
	// managed.
	ManagementWithdraw ManagementOp = iota
	// ManagementDeposit returns managed funds from the manager to held.
	ManagementDeposit
	// ManagementUpdate reports the managed amount without moving funds.
	ManagementUpdate
)

// SettlementWindow is the monotonic counter shared by the engine and the
// internal custody ledger; custody fee exemptions are valid only within the
// window they were deposited in.
type SettlementWindow struct {
	current uint64
}

// Current returns the active window.
func (w *SettlementWindow) Current() uint64 {
	if w == nil {
		return 0
	}
	return w.current
}

// Set pins the active window, primarily for deterministic testing.
func (w *SettlementWindow) Set(window uint64) {
	if w == nil {
		return
	}
	w.current = window
}

// Advance moves to the next window.
func (w *SettlementWindow) Advance() {
	if w == nil {
		return
	}
	w.current++
}

func validAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}

func cloneAmount(amount *big.Int) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(amount)
}
