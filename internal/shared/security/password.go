package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// Password hashes a plaintext with the user's passcode as salt.
func Password(pwd, passcode string) string {
	sum := sha256.Sum256([]byte(pwd + ":" + passcode))
	return hex.EncodeToString(sum[:])
}
