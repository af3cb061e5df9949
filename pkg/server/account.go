package server

import (
	"bytes"
	"errors"
	"strings"

	"codeberg.org/tslocum/bgmatch"
	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/sha3"
)

type account struct {
	id       int
	created  int64
	email    []byte
	username []byte
	password []byte
	rating   int
}

var passwordArgon2id = &argon2id.Params{
	Memory:      128 * 1024,
	Iterations:  16,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   64,
}

// validateRegistration checks and normalizes the fields of a new account.
func validateRegistration(a *account) error {
	a.email = bytes.ToLower(bytes.TrimSpace(a.email))
	a.username = bytes.TrimSpace(a.username)

	switch {
	case len(a.username) == 0:
		return errors.New("please enter a username")
	case len(a.email) == 0:
		return errors.New("please enter an email address")
	case len(bytes.TrimSpace(a.password)) == 0:
		return errors.New("please enter a password")
	case !bytes.ContainsRune(a.email, '@') || !bytes.ContainsRune(a.email, '.'):
		return errors.New("please enter a valid email address")
	case len(a.username) > maxUsernameLength:
		return errors.New("please enter a shorter username")
	case !alphaNumericUnderscore.Match(a.username), onlyNumbers.Match(a.username):
		return errors.New("please enter a username containing only letters, numbers and underscores")
	case bytes.HasPrefix(bytes.ToLower(a.username), []byte("guest_")):
		return errors.New("please enter a valid username")
	}
	return nil
}

func hashPassword(password []byte, salt string) ([]byte, error) {
	hash, err := argon2id.CreateHash(string(password)+salt, passwordArgon2id)
	if err != nil {
		return nil, err
	}
	return []byte(hash), nil
}

func checkPassword(a *account, password []byte, salt string) (bool, error) {
	if len(a.password) == 0 {
		return false, errors.New("account disabled")
	}
	return argon2id.ComparePasswordAndHash(string(password)+salt, string(a.password))
}

// accountIdentity returns the seat identity of a username. Guests and
// accounts share one namespace because usernames are unique among connected
// clients.
func accountIdentity(username []byte) bgmatch.Identity {
	return bgmatch.Identity(sha3.Sum256([]byte(strings.ToLower(string(username)))))
}
