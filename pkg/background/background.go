package background

import "sync"

// Token identifies a granted extension.
type Token uint64

// InvalidToken is never granted.
const InvalidToken Token = 0

// Service grants background execution extensions.
type Service interface {
	// Begin requests an extension. The expired handler runs if the host
	// revokes the extension before End is called. ok is false when no
	// extension is available.
	Begin(name string, expired func()) (token Token, ok bool)

	// End releases a granted extension. Unknown tokens are ignored.
	End(token Token)
}

// Extension is an owned, granted extension.
type Extension struct {
	svc Service

	mu      sync.Mutex
	token   Token
	granted bool
	ended   bool
}

// Begin requests an extension from svc. It returns nil when the request is
// denied. onExpire, if non-nil, runs after the extension has been released
// because the host revoked it.
func Begin(svc Service, name string, onExpire func()) *Extension {
	e := &Extension{svc: svc}

	token, ok := svc.Begin(name, func() {
		e.End()
		if onExpire != nil {
			onExpire()
		}
	})
	if !ok {
		return nil
	}

	e.mu.Lock()
	e.token = token
	e.granted = true
	endNow := e.ended
	e.mu.Unlock()

	// Revoked before Begin returned.
	if endNow {
		svc.End(token)
	}
	return e
}

// End releases the extension. It is safe to call more than once and on a
// nil Extension.
func (e *Extension) End() {
	if e == nil {
		return
	}

	e.mu.Lock()
	if e.ended {
		e.mu.Unlock()
		return
	}
	e.ended = true
	granted, token := e.granted, e.token
	e.mu.Unlock()

	if granted {
		e.svc.End(token)
	}
}

// Ended reports whether End has run.
func (e *Extension) Ended() bool {
	if e == nil {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}

// Token returns the granted token.
func (e *Extension) Token() Token {
	if e == nil {
		return InvalidToken
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token
}
