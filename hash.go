package satchel

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a hex-encoded BLAKE2b-256 digest of the item's JSON
// encoding. Items that encode identically share a fingerprint, which makes
// it usable as a key when deduplicating stored stacks.
func Fingerprint(it *Item) string {
	sum := blake2b.Sum256([]byte(Encode(it)))
	return hex.EncodeToString(sum[:])
}

// SameStack reports whether a and b differ at most in amount.
func SameStack(a, b *Item) bool {
	ac, bc := *a, *b
	ac.Amount, bc.Amount = 1, 1
	return Fingerprint(&ac) == Fingerprint(&bc)
}
