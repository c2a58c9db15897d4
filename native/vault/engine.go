package vault

import (
	"errors"
	"fmt"
	"math/big"

	"poolvault/core/events"
	"poolvault/core/types"
	"poolvault/crypto"
	"poolvault/native/common"
	"poolvault/observability/metrics"
)

const moduleName = "vault"

var errEngineNotReady = errors.New("vault: engine not initialised")

// Engine is the settlement engine: the single entry point tying the pool
// registry, the internal custody ledger, the transfer gateway, the fee
// module, and the relayer gate together. Every externally reachable mutating
// operation is pause-checked and wrapped by the reentrancy guard.
type Engine struct {
	registry *Registry
	custody  *Custody
	gateway  *Gateway
	fees     *Fees
	gate     *RelayerGate
	guard    *common.ReentrancyGuard
	window   *SettlementWindow
	pauses   common.PauseView
	emitter  events.Emitter
	metrics  *metrics.VaultMetrics
}

// NewEngine wires a settlement engine over the supplied storage and token
// ledger. The vault address holds all externally custodied funds; admin and
// collector gate fee changes and fee collection.
func NewEngine(state Storage, ledger TokenLedger, vault crypto.Address, wrapped AssetID, admin, collector crypto.Address) *Engine {
	window := &SettlementWindow{}
	custody := NewCustody(state, window)
	return &Engine{
		registry: NewRegistry(state),
		custody:  custody,
		gateway:  NewGateway(ledger, custody, vault, wrapped),
		fees:     NewFees(state, admin, collector),
		gate:     NewRelayerGate(state),
		guard:    &common.ReentrancyGuard{},
		window:   window,
		emitter:  events.NoopEmitter{},
	}
}

// SetState swaps the backing storage across every component.
func (e *Engine) SetState(state Storage) {
	if e == nil {
		return
	}
	e.registry.SetState(state)
	e.custody.SetState(state)
	e.fees.SetState(state)
	e.gate.SetState(state)
}

// SetPauses wires the module pause switchboard.
func (e *Engine) SetPauses(pauses common.PauseView) {
	if e == nil {
		return
	}
	e.pauses = pauses
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetMetrics wires the prometheus counters; a nil receiver stays silent.
func (e *Engine) SetMetrics(m *metrics.VaultMetrics) {
	if e == nil {
		return
	}
	e.metrics = m
}

// SetSettlementWindow pins the settlement window counter, primarily for
// deterministic testing.
func (e *Engine) SetSettlementWindow(window uint64) {
	if e == nil {
		return
	}
	e.window.Set(window)
}

// AdvanceSettlementWindow moves to the next window, expiring custody fee
// exemptions granted in the current one.
func (e *Engine) AdvanceSettlementWindow() {
	if e == nil {
		return
	}
	e.window.Advance()
}

// CurrentSettlementWindow returns the active window.
func (e *Engine) CurrentSettlementWindow() uint64 {
	if e == nil {
		return 0
	}
	return e.window.Current()
}

func (e *Engine) ready() error {
	if e == nil || e.registry == nil || e.gateway == nil {
		return errEngineNotReady
	}
	return nil
}

func (e *Engine) begin() error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := common.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	return e.guard.Enter()
}

func (e *Engine) emit(evt types.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(vaultEvent{evt: evt})
}

// --- Registry surface ---

// RegisterPool assigns a fresh pool identifier to the controller under the
// chosen storage strategy.
func (e *Engine) RegisterPool(pool Pool, strategy Strategy) (PoolID, error) {
	if err := e.begin(); err != nil {
		return PoolID{}, err
	}
	defer e.guard.Exit()
	id, err := e.registry.RegisterPool(pool, strategy)
	if err != nil {
		return PoolID{}, err
	}
	e.emit(poolRegisteredEvent(id, pool.Controller(), strategy))
	return id, nil
}

// AttachPool re-binds a quoter implementation after a restart.
func (e *Engine) AttachPool(id PoolID, pool Pool) error {
	if err := e.ready(); err != nil {
		return err
	}
	return e.registry.AttachPool(id, pool)
}

// PoolExists reports whether the identifier is registered.
func (e *Engine) PoolExists(id PoolID) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	_, err := e.registry.record(id)
	if errors.Is(err, ErrPoolNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PoolController returns the registered controller of the pool.
func (e *Engine) PoolController(id PoolID) (crypto.Address, error) {
	if err := e.ready(); err != nil {
		return crypto.Address{}, err
	}
	return e.registry.Controller(id)
}

// RegisterTokens adds assets to the pool's set with zero balances. Only the
// pool controller may call it.
func (e *Engine) RegisterTokens(caller crypto.Address, id PoolID, assets []AssetID, managers []crypto.Address) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.registry.RegisterTokens(id, caller, assets, managers); err != nil {
		return err
	}
	e.emit(tokensRegisteredEvent(id, normalizeAssetList(assets)))
	return nil
}

// DeregisterTokens removes zero-balance assets from the pool's set.
func (e *Engine) DeregisterTokens(caller crypto.Address, id PoolID, assets []AssetID) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.registry.DeregisterTokens(id, caller, assets); err != nil {
		return err
	}
	e.emit(tokensDeregisteredEvent(id, normalizeAssetList(assets)))
	return nil
}

// PoolTokens enumerates the pool's assets and their totals in registration
// order.
func (e *Engine) PoolTokens(id PoolID) ([]AssetID, []*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, nil, err
	}
	return e.registry.PoolTokens(id)
}

// PoolBalance returns the held/managed record for one registered asset.
func (e *Engine) PoolBalance(id PoolID, asset AssetID) (Balance, error) {
	if err := e.ready(); err != nil {
		return Balance{}, err
	}
	return e.registry.PoolBalance(id, e.gateway.Translate(asset))
}

// --- Internal custody surface ---

// DepositInternal pulls funds from `from` across the boundary and credits
// `to`'s internal balance. The credited funds are fee-exempt within the
// current settlement window. Callers acting for another account need relayer
// approval.
func (e *Engine) DepositInternal(caller, from, to crypto.Address, asset AssetID, amount *big.Int, native *NativeFunds) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if err := e.gate.Authorize(caller, from); err != nil {
		return err
	}
	if err := e.gateway.Receive(asset, amount, from, false, native); err != nil {
		return err
	}
	translated := e.gateway.Translate(asset)
	if err := e.custody.credit(to, translated, amount, true); err != nil {
		return err
	}
	if err := e.gateway.FinishNative(native, caller); err != nil {
		return err
	}
	e.emit(custodyDepositedEvent(to, translated, amount))
	e.metrics.CustodyMove("deposit")
	return nil
}

// WithdrawInternal debits `from`'s internal balance and pushes the funds out
// across the boundary. The withdrawal fee applies to the non-exempt portion
// only.
func (e *Engine) WithdrawInternal(caller, from, to crypto.Address, asset AssetID, amount *big.Int) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if err := e.gate.Authorize(caller, from); err != nil {
		return err
	}
	translated := e.gateway.Translate(asset)
	exempt, err := e.custody.debit(from, translated, amount)
	if err != nil {
		return err
	}
	feeBase := new(big.Int).Sub(amount, exempt)
	fee, err := e.fees.WithdrawalFeeOn(feeBase)
	if err != nil {
		return err
	}
	if fee.Sign() > 0 {
		if err := e.fees.Accrue(translated, fee); err != nil {
			return err
		}
		e.metrics.FeeAccrued("withdrawal")
	}
	payout := new(big.Int).Sub(amount, fee)
	if err := e.gateway.Send(asset, payout, to, false); err != nil {
		return err
	}
	e.emit(custodyWithdrawnEvent(from, translated, amount, fee))
	e.metrics.CustodyMove("withdraw")
	return nil
}

// TransferInternal moves funds between internal balances without crossing
// the boundary; no fee applies and no exemption carries over.
func (e *Engine) TransferInternal(caller, from, to crypto.Address, asset AssetID, amount *big.Int) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.gate.Authorize(caller, from); err != nil {
		return err
	}
	translated := e.gateway.Translate(asset)
	if err := e.custody.Transfer(from, to, translated, amount); err != nil {
		return err
	}
	e.emit(custodyTransferredEvent(from, to, translated, amount))
	e.metrics.CustodyMove("transfer")
	return nil
}

// InternalBalance returns the account's internal balance for the asset.
func (e *Engine) InternalBalance(account crypto.Address, asset AssetID) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.custody.Balance(account, e.gateway.Translate(asset))
}

// --- Trading surface ---

// BatchSwapGivenIn settles an ordered sequence of trade steps where each
// step's Amount is the input quantity. It returns the signed per-asset delta
// vector from the caller's perspective: positive deltas were owed to the
// vault, negative deltas were paid out.
func (e *Engine) BatchSwapGivenIn(caller crypto.Address, steps []TradeStep, assets []AssetID, funds FundsSpec, native *NativeFunds) ([]*big.Int, error) {
	return e.batchSwap(caller, GivenIn, steps, assets, funds, native)
}

// BatchSwapGivenOut settles an ordered sequence of trade steps where each
// step's Amount is the output quantity.
func (e *Engine) BatchSwapGivenOut(caller crypto.Address, steps []TradeStep, assets []AssetID, funds FundsSpec, native *NativeFunds) ([]*big.Int, error) {
	return e.batchSwap(caller, GivenOut, steps, assets, funds, native)
}

func (e *Engine) batchSwap(caller crypto.Address, direction TradeDirection, steps []TradeStep, assets []AssetID, funds FundsSpec, native *NativeFunds) ([]*big.Int, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()
	if err := e.gate.Authorize(caller, funds.Sender); err != nil {
		return nil, err
	}

	translated := make([]AssetID, len(assets))
	seen := make(map[AssetID]struct{}, len(assets))
	for i, asset := range assets {
		t := e.gateway.Translate(asset)
		if t == NativeAsset {
			return nil, ErrInvalidAsset
		}
		if _, ok := seen[t]; ok {
			return nil, ErrDuplicateAsset
		}
		seen[t] = struct{}{}
		translated[i] = t
	}

	deltas := make([]*big.Int, len(assets))
	for i := range deltas {
		deltas[i] = big.NewInt(0)
	}

	var prevQuoted *big.Int
	var prevQuotedAsset AssetID
	for i, step := range steps {
		if step.AssetInIndex < 0 || step.AssetInIndex >= len(assets) ||
			step.AssetOutIndex < 0 || step.AssetOutIndex >= len(assets) {
			return nil, ErrAssetOutOfRange
		}
		assetIn := translated[step.AssetInIndex]
		assetOut := translated[step.AssetOutIndex]
		if assetIn == assetOut {
			return nil, ErrSameAsset
		}

		amount := step.Amount
		if amount != nil && amount.Sign() < 0 {
			return nil, ErrInvalidAmount
		}
		if !validAmount(amount) {
			// Multihop marker: reuse the previous step's quoted amount. The
			// marker is only meaningful when this step's known side continues
			// the asset the previous step produced.
			if i == 0 {
				return nil, ErrUnknownAmountOnFirstStep
			}
			given := assetIn
			if direction == GivenOut {
				given = assetOut
			}
			if given != prevQuotedAsset {
				return nil, ErrMisconstructedMultihop
			}
			amount = prevQuoted
		}

		quoted, err := e.quoteStep(direction, step, assetIn, assetOut, amount)
		if err != nil {
			return nil, err
		}

		amountIn, amountOut := amount, quoted
		if direction == GivenOut {
			amountIn, amountOut = quoted, amount
		}

		deltas[step.AssetInIndex].Add(deltas[step.AssetInIndex], amountIn)
		deltas[step.AssetOutIndex].Sub(deltas[step.AssetOutIndex], amountOut)

		prevQuoted = quoted
		if direction == GivenIn {
			prevQuotedAsset = assetOut
		} else {
			prevQuotedAsset = assetIn
		}
	}

	for i, delta := range deltas {
		switch {
		case delta.Sign() > 0:
			if err := e.gateway.Receive(assets[i], delta, funds.Sender, funds.FromInternal, native); err != nil {
				e.metrics.SettlementFailed("batch_swap")
				return nil, err
			}
		case delta.Sign() < 0:
			if err := e.gateway.Send(assets[i], new(big.Int).Neg(delta), funds.Recipient, funds.ToInternal); err != nil {
				e.metrics.SettlementFailed("batch_swap")
				return nil, err
			}
		}
	}
	if err := e.gateway.FinishNative(native, caller); err != nil {
		return nil, err
	}

	e.emit(swapSettledEvent(direction, len(steps), funds.Sender))
	e.metrics.SwapSettled(direction.String(), len(steps))
	return deltas, nil
}

// quoteStep asks the pool for the unknown side of the trade, applies the
// protocol's cut of the pool-reported fee, and writes the updated pool
// records.
func (e *Engine) quoteStep(direction TradeDirection, step TradeStep, assetIn, assetOut AssetID, amount *big.Int) (*big.Int, error) {
	quoter, err := e.registry.Quoter(step.Pool)
	if err != nil {
		return nil, err
	}

	req := SwapRequest{
		Direction: direction,
		Pool:      step.Pool,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		Amount:    cloneAmount(amount),
		UserData:  step.UserData,
	}

	var quoted, poolFee *big.Int
	if step.Pool.Strategy() == GeneralStrategy {
		general, ok := quoter.(GeneralPool)
		if !ok {
			return nil, ErrQuoterNotAttached
		}
		poolAssets, totals, err := e.registry.PoolTokens(step.Pool)
		if err != nil {
			return nil, err
		}
		indexIn, indexOut := -1, -1
		for i, asset := range poolAssets {
			if asset == assetIn {
				indexIn = i
			}
			if asset == assetOut {
				indexOut = i
			}
		}
		if indexIn < 0 || indexOut < 0 {
			return nil, ErrTokenNotRegistered
		}
		quoted, poolFee, err = general.QuoteSwapGeneral(req, totals, indexIn, indexOut)
		if err != nil {
			return nil, fmt.Errorf("vault: pool quote: %w", err)
		}
	} else {
		minimal, ok := quoter.(MinimalInfoPool)
		if !ok {
			return nil, ErrQuoterNotAttached
		}
		balIn, err := e.registry.PoolBalance(step.Pool, assetIn)
		if err != nil {
			return nil, err
		}
		balOut, err := e.registry.PoolBalance(step.Pool, assetOut)
		if err != nil {
			return nil, err
		}
		quoted, poolFee, err = minimal.QuoteSwap(req, balIn.Total(), balOut.Total())
		if err != nil {
			return nil, fmt.Errorf("vault: pool quote: %w", err)
		}
	}
	if !validAmount(quoted) {
		return nil, ErrInvalidAmount
	}
	if poolFee == nil {
		poolFee = big.NewInt(0)
	}
	if poolFee.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	amountIn, amountOut := amount, quoted
	if direction == GivenOut {
		amountIn, amountOut = quoted, amount
	}
	if poolFee.Cmp(amountIn) > 0 {
		return nil, ErrSwapFeeTooLarge
	}

	cut, err := e.fees.SwapFeeOn(poolFee)
	if err != nil {
		return nil, err
	}
	credit := new(big.Int).Sub(amountIn, cut)
	if _, err := e.registry.increaseHeld(step.Pool, assetIn, credit); err != nil {
		return nil, err
	}
	next, err := e.registry.decreaseHeld(step.Pool, assetOut, amountOut)
	if err != nil {
		return nil, err
	}
	if next.Total().Sign() == 0 {
		return nil, ErrPoolFullyDrained
	}
	if cut.Sign() > 0 {
		if err := e.fees.Accrue(assetIn, cut); err != nil {
			return nil, err
		}
		e.metrics.FeeAccrued("swap")
	}
	return quoted, nil
}

// --- Pool funding surface ---

// JoinPool pulls per-asset amounts from the funds sender and grows the
// pool's held balances. Only the pool's controller may call it; the sender
// must have authorized the controller when they differ.
func (e *Engine) JoinPool(caller crypto.Address, id PoolID, funds FundsSpec, assets []AssetID, amounts []*big.Int, native *NativeFunds) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	controller, err := e.registry.Controller(id)
	if err != nil {
		return err
	}
	if !caller.Equal(controller) {
		return ErrSenderNotPool
	}
	if len(assets) != len(amounts) {
		return ErrLengthMismatch
	}
	if err := e.gate.Authorize(caller, funds.Sender); err != nil {
		return err
	}
	for i, asset := range assets {
		amount := amounts[i]
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		if amount.Sign() < 0 {
			return ErrInvalidAmount
		}
		if err := e.gateway.Receive(asset, amount, funds.Sender, funds.FromInternal, native); err != nil {
			return err
		}
		if _, err := e.registry.increaseHeld(id, e.gateway.Translate(asset), amount); err != nil {
			return err
		}
	}
	if err := e.gateway.FinishNative(native, caller); err != nil {
		return err
	}
	e.emit(poolJoinedEvent(id, funds.Sender))
	return nil
}

// ExitPool shrinks the pool's held balances and pushes the funds to the
// recipient. External pushes pay the withdrawal fee; internal credits do
// not. Only the pool's controller may call it.
func (e *Engine) ExitPool(caller crypto.Address, id PoolID, funds FundsSpec, assets []AssetID, amounts []*big.Int) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	controller, err := e.registry.Controller(id)
	if err != nil {
		return err
	}
	if !caller.Equal(controller) {
		return ErrSenderNotPool
	}
	if len(assets) != len(amounts) {
		return ErrLengthMismatch
	}
	for i, asset := range assets {
		amount := amounts[i]
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		if amount.Sign() < 0 {
			return ErrInvalidAmount
		}
		translated := e.gateway.Translate(asset)
		if _, err := e.registry.decreaseHeld(id, translated, amount); err != nil {
			return err
		}
		payout := amount
		if !funds.ToInternal {
			fee, err := e.fees.WithdrawalFeeOn(amount)
			if err != nil {
				return err
			}
			if fee.Sign() > 0 {
				if err := e.fees.Accrue(translated, fee); err != nil {
					return err
				}
				e.metrics.FeeAccrued("withdrawal")
				payout = new(big.Int).Sub(amount, fee)
			}
		}
		if err := e.gateway.Send(asset, payout, funds.Recipient, funds.ToInternal); err != nil {
			return err
		}
	}
	e.emit(poolExitedEvent(id, funds.Recipient))
	return nil
}

// --- Flash loan surface ---

// FlashLoan lends vault-held external funds to the receiver for the duration
// of its callback and asserts exact repayment of principal plus fee.
func (e *Engine) FlashLoan(receiver FlashLoanReceiver, asset AssetID, amount *big.Int) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	translated := e.gateway.Translate(asset)
	fee, err := e.fees.FlashLoanFeeOn(amount)
	if err != nil {
		return err
	}
	before, err := e.gateway.ExternalBalance(translated)
	if err != nil {
		return err
	}
	if before.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := e.gateway.TransferOut(translated, receiver.Address(), amount); err != nil {
		return err
	}
	if err := receiver.ReceiveFlashLoan(translated, cloneAmount(amount), cloneAmount(fee)); err != nil {
		return fmt.Errorf("vault: flash loan receiver: %w", err)
	}
	after, err := e.gateway.ExternalBalance(translated)
	if err != nil {
		return err
	}
	expected := new(big.Int).Add(before, fee)
	if after.Cmp(expected) != 0 {
		return ErrBalanceInconsistent
	}
	if fee.Sign() > 0 {
		if err := e.fees.Accrue(translated, fee); err != nil {
			return err
		}
		e.metrics.FeeAccrued("flashloan")
	}
	e.emit(flashLoanEvent(receiver.Address(), translated, amount, fee))
	e.metrics.FlashLoanCompleted()
	return nil
}

// --- Asset management surface ---

// ManagePoolBalance lets the registered asset manager move a pool's funds
// between held and managed, or report the managed amount.
func (e *Engine) ManagePoolBalance(caller crypto.Address, id PoolID, asset AssetID, op ManagementOp, amount *big.Int) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	translated := e.gateway.Translate(asset)
	manager, ok, err := e.registry.AssetManager(id, translated)
	if err != nil {
		return err
	}
	if !ok || !caller.Equal(manager) {
		return ErrSenderNotAssetManager
	}
	switch op {
	case ManagementWithdraw:
		if !validAmount(amount) {
			return ErrInvalidAmount
		}
		if _, err := e.registry.moveHeldToManaged(id, translated, amount); err != nil {
			return err
		}
		if err := e.gateway.TransferOut(translated, caller, amount); err != nil {
			return err
		}
	case ManagementDeposit:
		if !validAmount(amount) {
			return ErrInvalidAmount
		}
		if err := e.gateway.Receive(translated, amount, caller, false, nil); err != nil {
			return err
		}
		if _, err := e.registry.moveManagedToHeld(id, translated, amount); err != nil {
			return err
		}
	case ManagementUpdate:
		if amount == nil || amount.Sign() < 0 {
			return ErrInvalidAmount
		}
		if _, err := e.registry.setManaged(id, translated, amount); err != nil {
			return err
		}
	default:
		return ErrInvalidAmount
	}
	e.emit(balanceManagedEvent(id, translated, op, amount))
	return nil
}

// --- Fee surface ---

// SetProtocolFees replaces all three protocol fee rates. Fee-admin gated.
func (e *Engine) SetProtocolFees(caller crypto.Address, rates FeeRates) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.fees.SetRates(caller, rates); err != nil {
		return err
	}
	e.emit(feesUpdatedEvent(rates))
	return nil
}

// ProtocolFees returns the current fee rates.
func (e *Engine) ProtocolFees() (FeeRates, error) {
	if err := e.ready(); err != nil {
		return FeeRates{}, err
	}
	return e.fees.Rates()
}

// CollectedFees returns the accrued, uncollected fees for the asset.
func (e *Engine) CollectedFees(asset AssetID) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.fees.Collected(e.gateway.Translate(asset))
}

// WithdrawCollectedFees pays accrued fees out to the recipient and returns
// the paid amount. Collector gated; a nil amount drains the bucket.
func (e *Engine) WithdrawCollectedFees(caller crypto.Address, asset AssetID, amount *big.Int, to crypto.Address) (*big.Int, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()
	translated := e.gateway.Translate(asset)
	taken, err := e.fees.withdrawCollected(caller, translated, amount)
	if err != nil {
		return nil, err
	}
	if err := e.gateway.TransferOut(translated, to, taken); err != nil {
		return nil, err
	}
	e.emit(feesCollectedEvent(translated, taken, to))
	return taken, nil
}

// --- Access surface ---

// SetRelayerApproval grants or revokes a standing relayer approval for the
// account. The caller must be the account or already authorized for it.
func (e *Engine) SetRelayerApproval(caller, account, relayer crypto.Address, approved bool) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.gate.Authorize(caller, account); err != nil {
		return err
	}
	if err := e.gate.SetApproval(account, relayer, approved); err != nil {
		return err
	}
	e.emit(relayerApprovalEvent(account, relayer, approved))
	return nil
}

// GrantOneTimeAuthorization records a single-use grant for the relayer to
// act for the account; the first settlement relying on it consumes it.
func (e *Engine) GrantOneTimeAuthorization(caller, account, relayer crypto.Address) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.guard.Exit()
	if err := e.gate.Authorize(caller, account); err != nil {
		return err
	}
	return e.gate.GrantOneTime(account, relayer)
}

// HasRelayerApproval reports whether the relayer holds a standing approval.
func (e *Engine) HasRelayerApproval(account, relayer crypto.Address) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	return e.gate.HasApproval(account, relayer)
}
