package store

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSessionToken returns a fresh, unguessable staff session token.
// ULID keeps tokens sortable in logs while the crypto entropy makes
// them unusable as a guess target.
func NewSessionToken() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
