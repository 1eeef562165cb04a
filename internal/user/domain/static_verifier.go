package domain

import "github.com/himapp/pos/pkg/auth"

// StaticVerifier verifies against a single configured credential pair. The
// password is held only as a bcrypt hash.
type StaticVerifier struct {
	username string
	hash     string
}

// NewStaticVerifier creates a verifier for one username/password pair
func NewStaticVerifier(username, password string) (*StaticVerifier, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &StaticVerifier{username: username, hash: hash}, nil
}

// Verify reports whether both fields exactly match the configured pair
func (v *StaticVerifier) Verify(username, password string) bool {
	return username == v.username && auth.CheckPassword(v.hash, password)
}
