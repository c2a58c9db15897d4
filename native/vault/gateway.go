package vault

import (
	"math/big"

	"poolvault/crypto"
)

// NativeFunds tracks the caller-supplied native value across one engine
// call. Receives consume it; FinishNative settles the remainder when the
// call ends.
type NativeFunds struct {
	supplied *big.Int
	consumed *big.Int
}

// NewNativeFunds wraps the native value attached to a call. A nil or zero
// supplied amount is a valid empty tracker.
func NewNativeFunds(supplied *big.Int) *NativeFunds {
	return &NativeFunds{supplied: cloneAmount(supplied), consumed: big.NewInt(0)}
}

// Supplied returns the attached native value.
func (n *NativeFunds) Supplied() *big.Int {
	if n == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(n.supplied)
}

// Consumed returns the portion already wrapped into settlements.
func (n *NativeFunds) Consumed() *big.Int {
	if n == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(n.consumed)
}

func (n *NativeFunds) consume(amount *big.Int) error {
	if n == nil {
		return ErrInsufficientNative
	}
	next := new(big.Int).Add(n.consumed, amount)
	if next.Cmp(n.supplied) > 0 {
		return ErrInsufficientNative
	}
	n.consumed = next
	return nil
}

// Gateway moves assets across the vault boundary. It is the only component
// that talks to the external token ledger: receives pull funds in (wrapping
// caller-supplied native value), sends push funds out, and the internal
// custody ledger short-circuits both directions.
type Gateway struct {
	ledger  TokenLedger
	custody *Custody
	vault   crypto.Address
	wrapped AssetID
}

func NewGateway(ledger TokenLedger, custody *Custody, vault crypto.Address, wrapped AssetID) *Gateway {
	return &Gateway{ledger: ledger, custody: custody, vault: vault, wrapped: NormalizeAsset(wrapped)}
}

// VaultAddress returns the address holding the vault's external balances.
func (g *Gateway) VaultAddress() crypto.Address {
	return g.vault
}

// WrappedNative returns the denom the native sentinel translates to.
func (g *Gateway) WrappedNative() AssetID {
	return g.wrapped
}

// Translate maps the native sentinel to the wrapped denom; every other asset
// is normalised and passed through. Pool accounting only ever sees the
// wrapped denom.
func (g *Gateway) Translate(asset AssetID) AssetID {
	if asset.IsNative() {
		return g.wrapped
	}
	return NormalizeAsset(asset)
}

// Receive pulls amount of asset from the sender into the vault. The native
// sentinel consumes caller-supplied native value and wraps it; other assets
// draw from the sender's internal balance first when fromInternal is set,
// with the remainder transferred externally.
func (g *Gateway) Receive(asset AssetID, amount *big.Int, from crypto.Address, fromInternal bool, native *NativeFunds) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if asset.IsNative() {
		if fromInternal {
			return ErrInvalidNativeInternal
		}
		if err := native.consume(amount); err != nil {
			return err
		}
		return g.ledger.Wrap(g.vault, amount)
	}
	asset = NormalizeAsset(asset)
	remainder := new(big.Int).Set(amount)
	if fromInternal {
		taken, err := g.custody.debitUpTo(from, asset, amount)
		if err != nil {
			return err
		}
		remainder.Sub(remainder, taken)
	}
	if remainder.Sign() == 0 {
		return nil
	}
	return g.ledger.Transfer(asset, from, g.vault, remainder)
}

// Send pushes amount of asset from the vault to the recipient. The native
// sentinel unwraps and pays out native value; other assets credit the
// recipient's internal balance (fee-exempt for the current window) when
// toInternal is set, otherwise transfer externally.
func (g *Gateway) Send(asset AssetID, amount *big.Int, to crypto.Address, toInternal bool) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if asset.IsNative() {
		if toInternal {
			return ErrInvalidNativeInternal
		}
		return g.ledger.Unwrap(g.vault, to, amount)
	}
	asset = NormalizeAsset(asset)
	if toInternal {
		return g.custody.credit(to, asset, amount, true)
	}
	return g.ledger.Transfer(asset, g.vault, to, amount)
}

// FinishNative settles the native tracker at the end of a call: unconsumed
// value is refunded, and native value attached to a call that never used it
// is rejected rather than silently absorbed.
func (g *Gateway) FinishNative(native *NativeFunds, refundTo crypto.Address) error {
	if native == nil || native.supplied.Sign() == 0 {
		return nil
	}
	if native.consumed.Sign() == 0 {
		return ErrUnallocatedNative
	}
	excess := new(big.Int).Sub(native.supplied, native.consumed)
	if excess.Sign() == 0 {
		return nil
	}
	return g.ledger.RefundNative(refundTo, excess)
}

// ExternalBalance reads the vault's external holding of asset, used by the
// flash loan repayment check.
func (g *Gateway) ExternalBalance(asset AssetID) (*big.Int, error) {
	return g.ledger.BalanceOf(g.Translate(asset), g.vault)
}

// TransferOut moves vault-held external funds without touching internal
// custody, used for flash loan principal and fee collection payouts.
func (g *Gateway) TransferOut(asset AssetID, to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return g.ledger.Transfer(g.Translate(asset), g.vault, to, amount)
}
