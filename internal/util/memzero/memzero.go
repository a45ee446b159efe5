// Package memzero wipes secrets held in byte slices once they are no
// longer needed (shared secrets, derived payload keys, ephemeral keys).
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. The copy goes through crypto/subtle so the
// write is not elided as dead.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
