package vault

import "poolvault/crypto"

// RelayerGate decides whether a caller may move another account's funds.
// Accounts grant standing approvals to relayers, or one-time grants that are
// consumed by the first settlement that uses them.
type RelayerGate struct {
	state Storage
}

func NewRelayerGate(state Storage) *RelayerGate {
	return &RelayerGate{state: state}
}

// SetState swaps the backing storage.
func (g *RelayerGate) SetState(state Storage) {
	if g == nil {
		return
	}
	g.state = state
}

// SetApproval grants or revokes the relayer's standing approval to act for
// the account.
func (g *RelayerGate) SetApproval(account, relayer crypto.Address, approved bool) error {
	key := relayerApprovalKey(account, relayer)
	if !approved {
		return g.state.KVDelete(key)
	}
	return g.state.KVPut(key, true)
}

// HasApproval reports whether the relayer holds a standing approval for the
// account.
func (g *RelayerGate) HasApproval(account, relayer crypto.Address) (bool, error) {
	var approved bool
	ok, err := g.state.KVGet(relayerApprovalKey(account, relayer), &approved)
	if err != nil {
		return false, err
	}
	return ok && approved, nil
}

// GrantOneTime records a single-use authorization for the relayer to act for
// the account. The grant is consumed by the first Authorize that relies on
// it.
func (g *RelayerGate) GrantOneTime(account, relayer crypto.Address) error {
	return g.state.KVPut(oneTimeGrantKey(account, relayer), true)
}

// Authorize checks that caller may act for account: the account itself
// always passes, then standing approvals, then one-time grants. A one-time
// grant is deleted as it is used.
func (g *RelayerGate) Authorize(caller, account crypto.Address) error {
	if caller.Equal(account) {
		return nil
	}
	approved, err := g.HasApproval(account, caller)
	if err != nil {
		return err
	}
	if approved {
		return nil
	}
	var granted bool
	ok, err := g.state.KVGet(oneTimeGrantKey(account, caller), &granted)
	if err != nil {
		return err
	}
	if ok && granted {
		return g.state.KVDelete(oneTimeGrantKey(account, caller))
	}
	return ErrRelayerNotApproved
}
