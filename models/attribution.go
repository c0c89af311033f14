package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Attribution event names understood by the conversions API.
const (
	EventInitiateCheckout = "InitiateCheckout"
	EventPurchase         = "Purchase"
)

// AttributionEvent is a fire-and-forget conversions-API event. EventID
// reuses the session/intent/transaction id so provider-side retries
// deduplicate.
type AttributionEvent struct {
	Name       string
	EventID    string
	EmailHash  string // SHA-256 of the normalized email, or ""
	ClientIP   string
	UserAgent  string
	Value      float64 // major currency units
	Currency   string
	ProductIDs []string
	Timestamp  time.Time
}

// HashEmail normalizes (trim, lowercase) and SHA-256-hashes an email the way
// the conversions API expects. Returns "" for an empty email.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
