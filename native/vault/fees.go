package vault

import (
	"math/big"

	"poolvault/crypto"
)

// FeeRates holds the three protocol fee rates in basis points. The rates are
// independent records of one stored row; updating one never disturbs the
// others.
type FeeRates struct {
	SwapBps       uint64
	WithdrawalBps uint64
	FlashLoanBps  uint64
}

func (r FeeRates) validate() error {
	if r.SwapBps > MaxSwapFeeBps || r.WithdrawalBps > MaxWithdrawalFeeBps || r.FlashLoanBps > MaxFlashLoanFeeBps {
		return ErrFeeTooHigh
	}
	return nil
}

// Fees persists the protocol fee rates and the per-asset accrual buckets.
// Rate changes are admin-gated; collection is collector-gated.
type Fees struct {
	state     Storage
	admin     crypto.Address
	collector crypto.Address
}

func NewFees(state Storage, admin, collector crypto.Address) *Fees {
	return &Fees{state: state, admin: admin, collector: collector}
}

// SetState swaps the backing storage.
func (f *Fees) SetState(state Storage) {
	if f == nil {
		return
	}
	f.state = state
}

// Rates returns the current fee rates; absent state means all-zero rates.
func (f *Fees) Rates() (FeeRates, error) {
	var rates FeeRates
	if _, err := f.state.KVGet(feeRatesKey, &rates); err != nil {
		return FeeRates{}, err
	}
	return rates, nil
}

// SetRates replaces all three rates at once. Only the fee admin may call it,
// and each rate is bounded by its own ceiling.
func (f *Fees) SetRates(sender crypto.Address, rates FeeRates) error {
	if !sender.Equal(f.admin) {
		return ErrUnauthorizedFeeAdmin
	}
	if err := rates.validate(); err != nil {
		return err
	}
	return f.state.KVPut(feeRatesKey, rates)
}

func feeOn(amount *big.Int, bps uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return fee.Quo(fee, big.NewInt(feeDenominator))
}

// SwapFeeOn returns the protocol's cut of a pool-reported trading fee.
func (f *Fees) SwapFeeOn(poolFee *big.Int) (*big.Int, error) {
	rates, err := f.Rates()
	if err != nil {
		return nil, err
	}
	return feeOn(poolFee, rates.SwapBps), nil
}

// WithdrawalFeeOn returns the fee charged on the non-exempt portion of an
// internal withdrawal.
func (f *Fees) WithdrawalFeeOn(amount *big.Int) (*big.Int, error) {
	rates, err := f.Rates()
	if err != nil {
		return nil, err
	}
	return feeOn(amount, rates.WithdrawalBps), nil
}

// FlashLoanFeeOn returns the fee owed on a flash loan of amount.
func (f *Fees) FlashLoanFeeOn(amount *big.Int) (*big.Int, error) {
	rates, err := f.Rates()
	if err != nil {
		return nil, err
	}
	return feeOn(amount, rates.FlashLoanBps), nil
}

// Accrue adds a collected fee to the asset's accrual bucket.
func (f *Fees) Accrue(asset AssetID, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	accrued, err := f.Collected(asset)
	if err != nil {
		return err
	}
	return f.state.KVPut(accruedFeeKey(asset), new(big.Int).Add(accrued, amount))
}

// Collected returns the accrued, uncollected fees for the asset.
func (f *Fees) Collected(asset AssetID) (*big.Int, error) {
	var accrued big.Int
	if _, err := f.state.KVGet(accruedFeeKey(asset), &accrued); err != nil {
		return nil, err
	}
	return &accrued, nil
}

// withdrawCollected drains up to amount from the asset's bucket and returns
// the drained quantity. Only the collector may call it; the external payout
// is the gateway's job.
func (f *Fees) withdrawCollected(sender crypto.Address, asset AssetID, amount *big.Int) (*big.Int, error) {
	if !sender.Equal(f.collector) {
		return nil, ErrUnauthorizedCollector
	}
	accrued, err := f.Collected(asset)
	if err != nil {
		return nil, err
	}
	taken := new(big.Int).Set(accrued)
	if validAmount(amount) && amount.Cmp(taken) < 0 {
		taken.Set(amount)
	}
	if taken.Sign() == 0 {
		return big.NewInt(0), nil
	}
	remaining := new(big.Int).Sub(accrued, taken)
	if remaining.Sign() == 0 {
		if err := f.state.KVDelete(accruedFeeKey(asset)); err != nil {
			return nil, err
		}
		return taken, nil
	}
	if err := f.state.KVPut(accruedFeeKey(asset), remaining); err != nil {
		return nil, err
	}
	return taken, nil
}
