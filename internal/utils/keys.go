package utils

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey expands master into an n-byte key bound to purpose, so one
// configured secret can feed the cookie store and the share signer.
func DeriveKey(master []byte, purpose string, n int) ([]byte, error) {
	out := make([]byte, n)
	r := hkdf.New(sha256.New, master, nil, []byte(purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
