package pos

import "sync/atomic"

// requestTokens issues monotonically increasing tokens for mutating
// ledger calls. A response is applied only when its token is still the
// most recent one issued for the entity; a superseded echo is discarded
// so it can never overwrite newer in-memory state.
type requestTokens struct {
	counter atomic.Uint64
}

// next issues a new token, making it the latest outstanding request
func (t *requestTokens) next() uint64 {
	return t.counter.Add(1)
}

// isCurrent reports whether the given token is still the latest
func (t *requestTokens) isCurrent(token uint64) bool {
	return t.counter.Load() == token
}
