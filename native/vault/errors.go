package vault

import "errors"

var (
	// Arithmetic.

	// ErrBalanceOverflow indicates a packed record's held+managed total would
	// exceed the fixed field capacity.
	ErrBalanceOverflow = errors.New("vault: balance total exceeds capacity")
	// ErrBalanceUnderflow indicates a held decrease larger than the current
	// held amount.
	ErrBalanceUnderflow = errors.New("vault: balance decrease exceeds held amount")

	// Validation.

	ErrInvalidAmount            = errors.New("vault: amount must be positive")
	ErrInvalidAsset             = errors.New("vault: invalid asset id")
	ErrDuplicateAsset           = errors.New("vault: duplicate asset id")
	ErrInvalidStrategy          = errors.New("vault: unknown storage strategy")
	ErrAssetOutOfRange          = errors.New("vault: asset index out of range")
	ErrLengthMismatch           = errors.New("vault: input lengths do not match")
	ErrSameAsset                = errors.New("vault: trade step uses one asset on both sides")
	ErrUnknownAmountOnFirstStep = errors.New("vault: unknown amount on first trade step")
	ErrMisconstructedMultihop   = errors.New("vault: malformed multihop reference")

	// Registry.

	ErrPoolNotFound           = errors.New("vault: pool not found")
	ErrSenderNotPool          = errors.New("vault: sender is not the pool")
	ErrTokenNotRegistered     = errors.New("vault: token not registered for pool")
	ErrTokenAlreadyRegistered = errors.New("vault: token already registered for pool")
	ErrTwoTokensRequired      = errors.New("vault: two-token pools register exactly two tokens")
	ErrBalanceNotZero         = errors.New("vault: token balance not zero")
	ErrQuoterNotAttached      = errors.New("vault: pool quoter not attached")

	// Liquidity.

	ErrPoolFullyDrained    = errors.New("vault: trade would fully drain pool asset")
	ErrInsufficientBalance = errors.New("vault: insufficient internal balance")
	ErrSwapFeeTooLarge     = errors.New("vault: reported pool fee exceeds traded amount")

	// Boundary.

	ErrInvalidNativeInternal = errors.New("vault: internal custody unavailable for the native asset")
	ErrUnallocatedNative     = errors.New("vault: unallocated native funds")
	ErrInsufficientNative    = errors.New("vault: supplied native funds insufficient")
	ErrBalanceInconsistent   = errors.New("vault: flash loan balance inconsistent")

	// Authorization.

	ErrRelayerNotApproved    = errors.New("vault: relayer not approved for account")
	ErrSenderNotAssetManager = errors.New("vault: sender is not the asset manager")
	ErrUnauthorizedFeeAdmin  = errors.New("vault: sender is not the fee admin")
	ErrUnauthorizedCollector = errors.New("vault: sender is not the fee collector")

	// Fees.

	ErrFeeTooHigh = errors.New("vault: fee rate exceeds its ceiling")
)
