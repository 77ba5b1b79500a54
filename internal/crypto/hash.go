package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// PhoneHasher produces one-way, deterministic hashes of customer phone
// numbers. The stored value can never be reversed to the raw number, but the
// same phone always hashes to the same value, so repeat customers remain
// correlatable across orders. HMAC-SHA256 keyed with a deployment-wide
// secret keeps the mapping unbuildable without the key.
type PhoneHasher struct {
	key []byte
}

// NewPhoneHasher creates a hasher from a non-empty secret key.
func NewPhoneHasher(key []byte) (*PhoneHasher, error) {
	if len(key) == 0 {
		return nil, errors.New("phone hash key must not be empty")
	}
	return &PhoneHasher{key: key}, nil
}

// Hash returns the hex-encoded HMAC-SHA256 of the normalized phone number.
func (h *PhoneHasher) Hash(phone string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(normalizePhone(phone)))
	return hex.EncodeToString(mac.Sum(nil))
}

// normalizePhone strips formatting so "+62 812-3456" and "628123456" hash
// identically. A leading plus is dropped along with spaces, dashes, dots and
// parentheses; digits are kept as-is.
func normalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
