package oauthclient

import (
	"crypto/rand"
	"encoding/base64"
)

// stateLength is the number of random bytes behind each state value (256 bits).
const stateLength = 32

// GenerateState returns a URL-safe random value used as the anti-forgery state
// of one authorization flow. The caller keeps it for the callback comparison.
func GenerateState() string {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
