package keepalive

import (
	"bytes"
	"runtime"
	"strconv"
)

// dispatcherToken identifies the single goroutine all Tracker methods must
// be called from. The reference implementation this module is based on
// binds to a HandlerThread; Go has no portable equivalent, so the token is
// derived from the runtime's own per-goroutine stack trace header, which is
// stable for the lifetime of the goroutine.
type dispatcherToken uint64

// currentDispatcherToken returns a token identifying the calling goroutine.
// It parses the "goroutine N [state]:" header runtime.Stack always emits
// first. This is a debug-assertion aid only: it is never used for
// synchronization, just to fail fast when a caller violates the
// single-dispatcher contract.
func currentDispatcherToken() dispatcherToken {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]
	sp := bytes.IndexByte(b, ' ')
	if sp < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:sp]), 10, 64)
	if err != nil {
		return 0
	}
	return dispatcherToken(id)
}

// assertOnDispatcher reports whether the calling goroutine matches the
// token the Tracker was constructed on.
func (t *Tracker) assertOnDispatcher() bool {
	return currentDispatcherToken() == t.dispatcher
}
