package services

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// verifyPassword checks password against a stored hash. New accounts get
// bcrypt; imported users files hold werkzeug-style
// "pbkdf2:<digest>:<iterations>$salt$hex" or "scrypt:<n>:<r>:<p>$salt$hex".
func verifyPassword(stored, password string) bool {
	switch {
	case strings.HasPrefix(stored, "pbkdf2:"):
		return verifyPBKDF2(stored, password)
	case strings.HasPrefix(stored, "scrypt:"):
		return verifyScrypt(stored, password)
	default:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
}

// splitSaltedHash splits "method$salt$hex" and decodes the digest.
func splitSaltedHash(stored string) (method, salt string, sum []byte, ok bool) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", "", nil, false
	}
	sum, err := hex.DecodeString(parts[2])
	if err != nil || len(sum) == 0 {
		return "", "", nil, false
	}
	return parts[0], parts[1], sum, true
}

func verifyPBKDF2(stored, password string) bool {
	method, salt, want, ok := splitSaltedHash(stored)
	if !ok {
		return false
	}
	args := strings.Split(method, ":")
	if len(args) != 3 {
		return false
	}
	var newHash func() hash.Hash
	switch args[1] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	case "sha1":
		newHash = sha1.New
	default:
		return false
	}
	iter, err := strconv.Atoi(args[2])
	if err != nil || iter <= 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iter, len(want), newHash)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func verifyScrypt(stored, password string) bool {
	method, salt, want, ok := splitSaltedHash(stored)
	if !ok {
		return false
	}
	args := strings.Split(method, ":")
	if len(args) != 4 {
		return false
	}
	var params [3]int
	for i, raw := range args[1:] {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return false
		}
		params[i] = v
	}
	got, err := scrypt.Key([]byte(password), []byte(salt), params[0], params[1], params[2], len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
