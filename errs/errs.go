// Package errs collects the sentinel errors surfaced at the module's
// non-hot-path boundaries (registry construction, upstream transport,
// tests). The decode/merge/order hot path never returns an error value per
// event; these sentinels exist for the surfaces that are allowed to fail
// loudly.
package errs

import "errors"

var (
	// ErrUnknownDiscriminator means no registry entry matched a discriminator.
	ErrUnknownDiscriminator = errors.New("dexstream: unknown discriminator")
	// ErrTruncatedPayload means a payload was shorter than its declared layout.
	ErrTruncatedPayload = errors.New("dexstream: truncated payload")
	// ErrInvalidUTF8 means a string field's tail bytes were not valid UTF-8.
	ErrInvalidUTF8 = errors.New("dexstream: invalid utf-8 in string field")
	// ErrQueueFull means the delivery ring had no free slot for a push.
	ErrQueueFull = errors.New("dexstream: delivery queue full")
	// ErrOrderingTimeout means a buffer flushed early because its timer fired.
	ErrOrderingTimeout = errors.New("dexstream: ordering timeout")
	// ErrMergeMismatch means two partials in the same bucket had incompatible
	// concrete types and were emitted unmerged instead.
	ErrMergeMismatch = errors.New("dexstream: merge type mismatch")
	// ErrUpstreamClosed means the upstream transaction stream ended.
	ErrUpstreamClosed = errors.New("dexstream: upstream stream closed")
	// ErrNotImplemented marks a contract-only collaborator (§6 out-of-scope
	// transports) that has no implementation in this module.
	ErrNotImplemented = errors.New("dexstream: not implemented")
	// ErrDuplicateDiscriminator means the registry builder found two entries
	// registered under the same key.
	ErrDuplicateDiscriminator = errors.New("dexstream: duplicate discriminator")
	// ErrInvalidConfig means an option carried an out-of-range value.
	ErrInvalidConfig = errors.New("dexstream: invalid configuration")
)
