package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedDigest reports a stored password digest that cannot be decoded.
// A wrong password is not an error; it verifies false.
var ErrMalformedDigest = errors.New("malformed password digest")

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// hashPassword produces an argon2id digest with a fresh random salt embedded
// in the encoding, so hashing the same password twice yields different
// digests.
func hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// verifyPassword compares in constant time. The error is non-nil only when
// the digest itself is unreadable.
func verifyPassword(password, encoded string) (bool, error) {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false, ErrMalformedDigest
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false, ErrMalformedDigest
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1, nil
}
