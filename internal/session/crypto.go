package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// aead seals session payloads with AES-GCM so bearer tokens never sit on
// disk (or in a database row) in the clear.
type aead struct{ gcm cipher.AEAD }

func newAEAD(key []byte) (*aead, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aead{gcm: gcm}, nil
}

func (a *aead) seal(plaintext []byte) (string, error) {
	nonce := make([]byte, a.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := a.gcm.Seal(nil, nonce, plaintext, nil)
	return base64.RawStdEncoding.EncodeToString(append(nonce, ct...)), nil
}

func (a *aead) open(sealedB64 string) ([]byte, error) {
	buf, err := base64.RawStdEncoding.DecodeString(sealedB64)
	if err != nil {
		return nil, err
	}
	ns := a.gcm.NonceSize()
	if len(buf) < ns {
		return nil, errors.New("session: ciphertext too short")
	}
	pt, err := a.gcm.Open(nil, buf[:ns], buf[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("session: decrypt: %w", err)
	}
	return pt, nil
}

const saltSize = 16

// deriveKey stretches a passphrase into an AES-256 key.
func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
}

func newSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}
