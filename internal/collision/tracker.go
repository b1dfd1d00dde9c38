// Package collision detects duplicate discriminator registrations while the
// decoder registry tables are being built. Two specs registering the same
// key would make dispatch order-dependent, so the build fails loudly instead.
package collision

import (
	"fmt"

	"github.com/dexstream/dexstream/errs"
)

// Tracker records every discriminator key seen during one registry build,
// keyed by the key's raw bytes, and reports re-registrations.
type Tracker struct {
	seen map[string]string // key bytes → canonical name of the first registrant
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]string)}
}

// Track records a discriminator key registered under name. It returns
// errs.ErrDuplicateDiscriminator (wrapped with both registrants' names) if
// the same key bytes were already tracked, whether under the same name or a
// different one.
func (t *Tracker) Track(key []byte, name string) error {
	k := string(key)

	if prev, exists := t.seen[k]; exists {
		return fmt.Errorf("%w: %q and %q share key %x", errs.ErrDuplicateDiscriminator, prev, name, key)
	}

	t.seen[k] = name

	return nil
}

// Count returns the number of distinct keys tracked.
func (t *Tracker) Count() int {
	return len(t.seen)
}

// Reset clears all tracked keys, retaining map capacity so a rebuilt
// registry (tests, alternate tables) can reuse the tracker.
func (t *Tracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
}
