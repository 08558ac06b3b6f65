package token

import "time"

// Maker is the contract for anything that can create and verify
// session tokens, so the implementation can be swapped without touching
// application logic.
type Maker interface {
	CreateToken(email, role string, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
