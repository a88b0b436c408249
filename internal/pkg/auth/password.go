package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing passwords.
const BcryptCost = 12

// HashPassword hashes a plaintext password with a per-call random salt.
// Hashing the same password twice yields different digests.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a plaintext password against a stored hash using a
// constant-time comparison. Returns false for malformed hashes, never errors.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
