package vault

import (
	"math/big"
	"strconv"

	"poolvault/core/types"
	"poolvault/crypto"
)

// vaultEvent adapts the module's attribute events to the emitter interface.
type vaultEvent struct {
	evt types.Event
}

func (v vaultEvent) EventType() string { return v.evt.Type }

// Event returns the underlying attribute event.
func (v vaultEvent) Event() types.Event { return v.evt }

const (
	EventTypePoolRegistered     = "vault.pool.registered"
	EventTypeTokensRegistered   = "vault.tokens.registered"
	EventTypeTokensDeregistered = "vault.tokens.deregistered"
	EventTypeSwapSettled        = "vault.swap.settled"
	EventTypePoolJoined         = "vault.pool.joined"
	EventTypePoolExited         = "vault.pool.exited"
	EventTypeBalanceManaged     = "vault.balance.managed"
	EventTypeCustodyDeposited   = "vault.custody.deposited"
	EventTypeCustodyWithdrawn   = "vault.custody.withdrawn"
	EventTypeCustodyTransferred = "vault.custody.transferred"
	EventTypeFlashLoan          = "vault.flashloan.completed"
	EventTypeFeesUpdated        = "vault.fees.updated"
	EventTypeFeesCollected      = "vault.fees.collected"
	EventTypeRelayerApproval    = "vault.relayer.approval"
)

func amountAttr(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

func assetsAttr(assets []AssetID) string {
	joined := ""
	for i, asset := range assets {
		if i > 0 {
			joined += ","
		}
		joined += string(asset)
	}
	return joined
}

func poolRegisteredEvent(id PoolID, controller crypto.Address, strategy Strategy) types.Event {
	return types.Event{
		Type: EventTypePoolRegistered,
		Attributes: map[string]string{
			"pool":       id.String(),
			"controller": controller.String(),
			"strategy":   strategy.String(),
		},
	}
}

func tokensRegisteredEvent(id PoolID, assets []AssetID) types.Event {
	return types.Event{
		Type: EventTypeTokensRegistered,
		Attributes: map[string]string{
			"pool":   id.String(),
			"assets": assetsAttr(assets),
		},
	}
}

func tokensDeregisteredEvent(id PoolID, assets []AssetID) types.Event {
	return types.Event{
		Type: EventTypeTokensDeregistered,
		Attributes: map[string]string{
			"pool":   id.String(),
			"assets": assetsAttr(assets),
		},
	}
}

func swapSettledEvent(direction TradeDirection, steps int, sender crypto.Address) types.Event {
	return types.Event{
		Type: EventTypeSwapSettled,
		Attributes: map[string]string{
			"direction": direction.String(),
			"steps":     strconv.Itoa(steps),
			"sender":    sender.String(),
		},
	}
}

func poolJoinedEvent(id PoolID, sender crypto.Address) types.Event {
	return types.Event{
		Type: EventTypePoolJoined,
		Attributes: map[string]string{
			"pool":   id.String(),
			"sender": sender.String(),
		},
	}
}

func poolExitedEvent(id PoolID, recipient crypto.Address) types.Event {
	return types.Event{
		Type: EventTypePoolExited,
		Attributes: map[string]string{
			"pool":      id.String(),
			"recipient": recipient.String(),
		},
	}
}

func balanceManagedEvent(id PoolID, asset AssetID, op ManagementOp, amount *big.Int) types.Event {
	kind := "update"
	switch op {
	case ManagementWithdraw:
		kind = "withdraw"
	case ManagementDeposit:
		kind = "deposit"
	}
	return types.Event{
		Type: EventTypeBalanceManaged,
		Attributes: map[string]string{
			"pool":   id.String(),
			"asset":  string(asset),
			"op":     kind,
			"amount": amountAttr(amount),
		},
	}
}

func custodyDepositedEvent(account crypto.Address, asset AssetID, amount *big.Int) types.Event {
	return types.Event{
		Type: EventTypeCustodyDeposited,
		Attributes: map[string]string{
			"account": account.String(),
			"asset":   string(asset),
			"amount":  amountAttr(amount),
		},
	}
}

func custodyWithdrawnEvent(account crypto.Address, asset AssetID, amount, fee *big.Int) types.Event {
	return types.Event{
		Type: EventTypeCustodyWithdrawn,
		Attributes: map[string]string{
			"account": account.String(),
			"asset":   string(asset),
			"amount":  amountAttr(amount),
			"fee":     amountAttr(fee),
		},
	}
}

func custodyTransferredEvent(from, to crypto.Address, asset AssetID, amount *big.Int) types.Event {
	return types.Event{
		Type: EventTypeCustodyTransferred,
		Attributes: map[string]string{
			"from":   from.String(),
			"to":     to.String(),
			"asset":  string(asset),
			"amount": amountAttr(amount),
		},
	}
}

func flashLoanEvent(receiver crypto.Address, asset AssetID, amount, fee *big.Int) types.Event {
	return types.Event{
		Type: EventTypeFlashLoan,
		Attributes: map[string]string{
			"receiver": receiver.String(),
			"asset":    string(asset),
			"amount":   amountAttr(amount),
			"fee":      amountAttr(fee),
		},
	}
}

func feesUpdatedEvent(rates FeeRates) types.Event {
	return types.Event{
		Type: EventTypeFeesUpdated,
		Attributes: map[string]string{
			"swapBps":       strconv.FormatUint(rates.SwapBps, 10),
			"withdrawalBps": strconv.FormatUint(rates.WithdrawalBps, 10),
			"flashLoanBps":  strconv.FormatUint(rates.FlashLoanBps, 10),
		},
	}
}

func feesCollectedEvent(asset AssetID, amount *big.Int, recipient crypto.Address) types.Event {
	return types.Event{
		Type: EventTypeFeesCollected,
		Attributes: map[string]string{
			"asset":     string(asset),
			"amount":    amountAttr(amount),
			"recipient": recipient.String(),
		},
	}
}

func relayerApprovalEvent(account, relayer crypto.Address, approved bool) types.Event {
	return types.Event{
		Type: EventTypeRelayerApproval,
		Attributes: map[string]string{
			"account":  account.String(),
			"relayer":  relayer.String(),
			"approved": strconv.FormatBool(approved),
		},
	}
}
