package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; raising it invalidates nothing but slows new hashes.
const bcryptCost = 12

// HashPassword applies a randomly-salted bcrypt hash to the plaintext.
// The salt is generated internally and embedded in the output.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. The
// comparison is constant-time inside bcrypt. A malformed hash is
// treated as a mismatch, never an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
