// Package cryptox implements the per-note envelope encryption scheme:
// a master key derived from the user identifier and salt wraps a random
// per-note key, and the note key encrypts the note content with AES-256-GCM.
//
// All functions are pure apart from reading crypto/rand and are safe for
// concurrent use.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of master and note keys (AES-256).
	KeySize = 32
	// SaltSize is the size of a freshly generated user salt.
	SaltSize = 16
	// MinSaltSize is the shortest salt accepted by DeriveMasterKey.
	MinSaltSize = 16
	// IVSize is the GCM nonce size.
	IVSize = 12
	// TagSize is the GCM authentication tag size.
	TagSize = 16
	// WrappedKeySize is the raw size of a wrapped note key: iv || ct || tag.
	WrappedKeySize = IVSize + KeySize + TagSize

	// PBKDF2Iterations is fixed for compatibility with stored data.
	PBKDF2Iterations = 100000
)

var (
	// ErrAuthentication is returned when a ciphertext, IV, wrapped key or key
	// does not verify. It deliberately carries no detail.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidInput is returned for malformed encodings and wrong sizes.
	ErrInvalidInput = errors.New("invalid input")
)

var b64 = base64.StdEncoding

// SealedContent is the persisted form of encrypted note content.
type SealedContent struct {
	Ciphertext string // base64(ciphertext || tag)
	IV         string // base64(iv)
}

// randomBytes is a seam for tests that need a failing random source.
var randomBytes = func(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GenerateSalt returns a new hex-encoded 16-byte user salt.
func GenerateSalt() (string, error) {
	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// DecodeSalt decodes a stored hex salt and checks its length.
func DecodeSalt(s string) ([]byte, error) {
	salt, err := hex.DecodeString(s)
	if err != nil {
		return nil, invalid("salt is not hex")
	}
	if len(salt) < MinSaltSize {
		return nil, invalid("salt must be at least %d bytes, got %d", MinSaltSize, len(salt))
	}
	return salt, nil
}

// DeriveMasterKey derives the user's 256-bit master key from its stable
// identifier and salt using PBKDF2-HMAC-SHA256.
//
// The result is deterministic and must never be stored. The call is
// CPU bound and deliberately slow.
func DeriveMasterKey(identifier string, salt []byte) ([]byte, error) {
	return deriveKey(identifier, salt, PBKDF2Iterations)
}

func deriveKey(identifier string, salt []byte, iterations int) ([]byte, error) {
	if identifier == "" {
		return nil, invalid("empty identifier")
	}
	if len(salt) < MinSaltSize {
		return nil, invalid("salt must be at least %d bytes, got %d", MinSaltSize, len(salt))
	}
	return pbkdf2.Key([]byte(identifier), salt, iterations, KeySize, sha256.New), nil
}

// GenerateNoteKey returns a fresh random 256-bit note key.
func GenerateNoteKey() ([]byte, error) {
	key, err := randomBytes(KeySize)
	if err != nil {
		return nil, fmt.Errorf("generate note key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, invalid("key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// seal encrypts plaintext under key with a fresh IV. The returned
// ciphertext has the tag appended.
func seal(key, plaintext, aad []byte) (iv, ciphertext []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	iv, err = randomBytes(IVSize)
	if err != nil {
		return nil, nil, fmt.Errorf("generate iv: %w", err)
	}
	return iv, aesgcm.Seal(nil, iv, plaintext, aad), nil
}

// open verifies and decrypts. Any failure of the AEAD is reported as
// ErrAuthentication so wrong keys and corrupted data look the same.
func open(key, iv, ciphertext, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// EncryptContent encrypts note content under the note key.
func EncryptContent(plaintext string, key, aad []byte) (*SealedContent, error) {
	iv, ct, err := seal(key, []byte(plaintext), aad)
	if err != nil {
		return nil, err
	}
	return &SealedContent{
		Ciphertext: b64.EncodeToString(ct),
		IV:         b64.EncodeToString(iv),
	}, nil
}

// DecryptContent reverses EncryptContent. Tampering with the ciphertext,
// tag or IV, or using the wrong key, yields ErrAuthentication.
func DecryptContent(ciphertext, iv string, key, aad []byte) (string, error) {
	ct, err := b64.DecodeString(ciphertext)
	if err != nil {
		return "", invalid("ciphertext is not base64")
	}
	if len(ct) < TagSize {
		return "", invalid("ciphertext shorter than tag")
	}
	nonce, err := b64.DecodeString(iv)
	if err != nil {
		return "", invalid("iv is not base64")
	}
	if len(nonce) != IVSize {
		return "", invalid("iv must be %d bytes, got %d", IVSize, len(nonce))
	}

	plaintext, err := open(key, nonce, ct, aad)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", ErrAuthentication
	}
	return string(plaintext), nil
}

// WrapKey encrypts a note key under the master key. The result is
// base64(iv || ciphertext || tag), 60 raw bytes.
func WrapKey(noteKey, masterKey, aad []byte) (string, error) {
	if len(noteKey) != KeySize {
		return "", invalid("note key must be %d bytes, got %d", KeySize, len(noteKey))
	}
	iv, ct, err := seal(masterKey, noteKey, aad)
	if err != nil {
		return "", err
	}
	blob := make([]byte, 0, WrappedKeySize)
	blob = append(blob, iv...)
	blob = append(blob, ct...)
	return b64.EncodeToString(blob), nil
}

// UnwrapKey recovers a note key from its wrapped form.
func UnwrapKey(wrapped string, masterKey, aad []byte) ([]byte, error) {
	blob, err := b64.DecodeString(wrapped)
	if err != nil {
		return nil, invalid("wrapped key is not base64")
	}
	if len(blob) != WrappedKeySize {
		return nil, invalid("wrapped key must be %d bytes, got %d", WrappedKeySize, len(blob))
	}
	return open(masterKey, blob[:IVSize], blob[IVSize:], aad)
}

// RewrapKey moves a wrapped note key from one master key to another
// without touching the content it protects.
func RewrapKey(wrapped string, oldMaster, newMaster, aad []byte) (string, error) {
	noteKey, err := UnwrapKey(wrapped, oldMaster, aad)
	if err != nil {
		return "", err
	}
	defer Wipe(noteKey)
	return WrapKey(noteKey, newMaster, aad)
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
