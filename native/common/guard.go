package common

import "errors"

var (
	ErrModulePaused = errors.New("module paused")
	ErrReentrancy   = errors.New("reentrancy")
)

type PauseView interface {
	IsPaused(module string) bool
}

func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// ReentrancyGuard is the held/not-held flag wrapped around every externally
// reachable entry group. The platform serializes calls, so the flag only
// trips when an operation hands control to outside code that calls back in;
// a nested entry is rejected rather than deadlocked because there is no
// blocking primitive to wait on.
type ReentrancyGuard struct {
	held bool
}

// Enter acquires the guard, failing with ErrReentrancy when it is already
// held by the in-flight call.
func (g *ReentrancyGuard) Enter() error {
	if g == nil {
		return nil
	}
	if g.held {
		return ErrReentrancy
	}
	g.held = true
	return nil
}

// Exit releases the guard. It must run on every exit path, including error
// paths, so callers pair it with defer immediately after a successful Enter.
func (g *ReentrancyGuard) Exit() {
	if g == nil {
		return
	}
	g.held = false
}
