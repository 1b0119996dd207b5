// Package background models the best-effort extension of run time an
// application may request before the host suspends it.
//
// A Service grants tokens that the host may revoke at any time by calling
// the expiration handler. Extension wraps a granted token as an owned
// resource: End releases it exactly once, whether called by the owner, by
// the expiration handler, or both.
package background
