package ports

import (
	"time"

	"github.com/google/uuid"
)

// SecurityPort defines the interface for encrypting and decrypting sensitive data.
// This allows us to swap the implementation (e.g., from AES to something else)
// without changing any business logic that uses it.
type SecurityPort interface {
	// Encrypt takes a plaintext and returns a secure, encrypted ciphertext.
	Encrypt(plaintext []byte) (ciphertext []byte, err error)

	// Decrypt takes a ciphertext and returns the original plaintext.
	Decrypt(ciphertext []byte) (plaintext []byte, err error)

	// SealReference wraps a user id into an opaque, URL-safe reference
	// stamped with the issue time.
	SealReference(id uuid.UUID, now time.Time) (string, error)

	// OpenReference unwraps a reference, rejecting it once older than maxAge.
	OpenReference(ref string, maxAge time.Duration, now time.Time) (uuid.UUID, error)
}
