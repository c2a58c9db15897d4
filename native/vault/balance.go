package vault

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Pool balances pack two fields into a single 256-bit word: the held amount
// in bits 0..111 and the managed amount in bits 112..223. The Two-Token
// strategy reuses the same pair layout to share one word between two assets.
const balanceFieldBits = 112

var balanceFieldMax = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), balanceFieldBits), big.NewInt(1))

// MaxBalance returns the largest total a single balance record can carry.
func MaxBalance() *big.Int {
	return new(big.Int).Set(balanceFieldMax)
}

// Balance is a pool's per-asset balance record. The zero value is an empty
// record. The packed representation never leaves this file; callers only see
// the held/managed pair.
type Balance struct {
	word uint256.Int
}

// packPair bounds each field by the 112-bit capacity and packs both into one
// word, low field first. The fields are independent here; PackBalance adds
// the held+managed total bound on top.
func packPair(low, high *big.Int) (uint256.Int, error) {
	var word uint256.Int
	if low == nil {
		low = big.NewInt(0)
	}
	if high == nil {
		high = big.NewInt(0)
	}
	if low.Sign() < 0 || high.Sign() < 0 {
		return word, ErrInvalidAmount
	}
	if low.Cmp(balanceFieldMax) > 0 || high.Cmp(balanceFieldMax) > 0 {
		return word, ErrBalanceOverflow
	}
	lo, _ := uint256.FromBig(low)
	hi, _ := uint256.FromBig(high)
	word.Lsh(hi, balanceFieldBits)
	word.Or(&word, lo)
	return word, nil
}

// unpackPair extracts the two packed fields, low field first.
func unpackPair(word *uint256.Int) (*big.Int, *big.Int) {
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), balanceFieldBits)
	mask.SubUint64(mask, 1)

	lo := new(uint256.Int).And(word, mask)
	hi := new(uint256.Int).Rsh(word, balanceFieldBits)
	hi.And(hi, mask)
	return lo.ToBig(), hi.ToBig()
}

// PackBalance builds a record from a held/managed pair, failing with
// ErrBalanceOverflow when their sum exceeds the field capacity.
func PackBalance(held, managed *big.Int) (Balance, error) {
	if held != nil && managed != nil && held.Sign() >= 0 && managed.Sign() >= 0 {
		total := new(big.Int).Add(held, managed)
		if total.Cmp(balanceFieldMax) > 0 {
			return Balance{}, ErrBalanceOverflow
		}
	}
	word, err := packPair(held, managed)
	if err != nil {
		return Balance{}, err
	}
	return Balance{word: word}, nil
}

// Held returns the amount inside the ledger's custody.
func (b Balance) Held() *big.Int {
	held, _ := unpackPair(&b.word)
	return held
}

// Managed returns the amount delegated to an external asset manager.
func (b Balance) Managed() *big.Int {
	_, managed := unpackPair(&b.word)
	return managed
}

// Total returns held plus managed. The sum cannot overflow: packing already
// bounded it by the field capacity.
func (b Balance) Total() *big.Int {
	held, managed := unpackPair(&b.word)
	return held.Add(held, managed)
}

// IsZero reports whether both fields are zero.
func (b Balance) IsZero() bool {
	return b.word.IsZero()
}

// IncreaseHeld returns a record with the held field grown by amount.
func (b Balance) IncreaseHeld(amount *big.Int) (Balance, error) {
	if amount == nil || amount.Sign() < 0 {
		return Balance{}, ErrInvalidAmount
	}
	held, managed := unpackPair(&b.word)
	return PackBalance(held.Add(held, amount), managed)
}

// DecreaseHeld returns a record with the held field shrunk by amount,
// failing with ErrBalanceUnderflow when amount exceeds the held field.
func (b Balance) DecreaseHeld(amount *big.Int) (Balance, error) {
	if amount == nil || amount.Sign() < 0 {
		return Balance{}, ErrInvalidAmount
	}
	held, managed := unpackPair(&b.word)
	if held.Cmp(amount) < 0 {
		return Balance{}, ErrBalanceUnderflow
	}
	return PackBalance(held.Sub(held, amount), managed)
}

// MoveHeldToManaged shifts amount from held to managed; the total is
// unchanged.
func (b Balance) MoveHeldToManaged(amount *big.Int) (Balance, error) {
	if amount == nil || amount.Sign() < 0 {
		return Balance{}, ErrInvalidAmount
	}
	held, managed := unpackPair(&b.word)
	if held.Cmp(amount) < 0 {
		return Balance{}, ErrBalanceUnderflow
	}
	return PackBalance(held.Sub(held, amount), managed.Add(managed, amount))
}

// MoveManagedToHeld shifts amount from managed back to held; the total is
// unchanged.
func (b Balance) MoveManagedToHeld(amount *big.Int) (Balance, error) {
	if amount == nil || amount.Sign() < 0 {
		return Balance{}, ErrInvalidAmount
	}
	held, managed := unpackPair(&b.word)
	if managed.Cmp(amount) < 0 {
		return Balance{}, ErrBalanceUnderflow
	}
	return PackBalance(held.Add(held, amount), managed.Sub(managed, amount))
}

// SetManaged replaces the managed field, re-validating the total.
func (b Balance) SetManaged(managed *big.Int) (Balance, error) {
	if managed == nil || managed.Sign() < 0 {
		return Balance{}, ErrInvalidAmount
	}
	held, _ := unpackPair(&b.word)
	return PackBalance(held, managed)
}

// bytes returns the persisted form of the record.
func (b Balance) bytes() []byte {
	raw := b.word.Bytes32()
	return raw[:]
}

func balanceFromBytes(data []byte) Balance {
	var b Balance
	b.word.SetBytes(data)
	return b
}

func wordBytes(word uint256.Int) []byte {
	raw := word.Bytes32()
	return raw[:]
}

func wordFromBytes(data []byte) uint256.Int {
	var word uint256.Int
	word.SetBytes(data)
	return word
}
