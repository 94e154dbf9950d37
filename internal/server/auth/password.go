package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed for the process; bumping it only affects new hashes,
// existing ones keep the cost they were created with.
const bcryptCost = 10

// HashPassword derives a salted bcrypt digest from the plaintext password.
// An error here means the hashing library itself failed and is fatal for the
// request.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
}

// CheckPassword reports whether password matches hash. A mismatch is a normal
// boolean outcome; only unexpected failures (e.g. a malformed stored hash) are
// returned as errors.
func CheckPassword(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
