package vault

const (
	feeDenominator = 10_000

	// MaxSwapFeeBps caps the protocol's cut of pool-reported trading fees.
	MaxSwapFeeBps = 5_000
	// MaxWithdrawalFeeBps caps the fee on non-exempt internal withdrawals.
	MaxWithdrawalFeeBps = 200
	// MaxFlashLoanFeeBps caps the flash loan fee.
	MaxFlashLoanFeeBps = 100
)
