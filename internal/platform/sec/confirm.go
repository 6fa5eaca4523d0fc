// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package sec

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// # Confirmation Codes
//
// A confirmation code proves ownership of an email address during passwordless
// signup. Codes are deterministic: they are reconstructed from the account
// state at verification time rather than stored.
//
// Binding the MAC to the identity fields means ANY change to the account
// (username, email, role) silently invalidates every previously issued code.

// Verification failure reasons, mapped to client-safe errors by the auth service.
var (
	// ErrCodeMalformed is returned when the code is not in <timestamp>-<mac> form.
	ErrCodeMalformed = errors.New("sec: confirmation code is malformed")

	// ErrCodeExpired is returned when the code's timestamp is older than the TTL.
	ErrCodeExpired = errors.New("sec: confirmation code has expired")

	// ErrCodeMismatch is returned when the reconstructed MAC does not match.
	ErrCodeMismatch = errors.New("sec: confirmation code does not match account state")
)

// macLength is the number of MAC bytes kept in the code (40 hex characters).
const macLength = 20

// AccountState is the snapshot of identity fields a confirmation code is bound to.
type AccountState struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

// CodeIssuer generates and verifies single-use confirmation codes.
//
// # Format
//
// A code is "<base36 unix timestamp>-<hex keyed-blake2b MAC>". The timestamp
// places an expiry window on the code; the MAC covers the timestamp and the
// full account state.
type CodeIssuer struct {
	secret []byte
	ttl    time.Duration

	// now is swappable in tests to exercise expiry.
	now func() time.Time
}

// NewCodeIssuer creates a CodeIssuer with the given signing secret and code lifetime.
func NewCodeIssuer(secret string, ttl time.Duration) *CodeIssuer {
	key := []byte(secret)

	// blake2b keys are capped at 64 bytes; compress longer secrets.
	if len(key) > 64 {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}

	return &CodeIssuer{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured code lifetime.
func (issuer *CodeIssuer) TTL() time.Duration {
	return issuer.ttl
}

// Issue produces a fresh confirmation code for the given account state.
func (issuer *CodeIssuer) Issue(state AccountState) string {
	timestamp := issuer.now().Unix()
	return strconv.FormatInt(timestamp, 36) + "-" + issuer.mac(state, timestamp)
}

// Verify reconstructs the code for the given account state and compares it
// in constant time.
//
// # Failure Modes
//   - [ErrCodeMalformed]: structurally invalid code.
//   - [ErrCodeExpired]: issued longer than TTL ago.
//   - [ErrCodeMismatch]: MAC mismatch (wrong secret, tampering, or the
//     account state changed since issuance).
func (issuer *CodeIssuer) Verify(state AccountState, code string) error {
	encodedTimestamp, providedMAC, found := strings.Cut(code, "-")
	if !found || encodedTimestamp == "" || providedMAC == "" {
		return ErrCodeMalformed
	}

	timestamp, err := strconv.ParseInt(encodedTimestamp, 36, 64)
	if err != nil {
		return ErrCodeMalformed
	}

	currentTime := issuer.now()
	issuedAt := time.Unix(timestamp, 0)

	if currentTime.Sub(issuedAt) > issuer.ttl {
		return ErrCodeExpired
	}

	expectedMAC := issuer.mac(state, timestamp)
	if !hmac.Equal([]byte(expectedMAC), []byte(providedMAC)) {
		return ErrCodeMismatch
	}

	return nil
}

// mac computes the keyed MAC over the timestamp and every identity field.
func (issuer *CodeIssuer) mac(state AccountState, timestamp int64) string {

	// Keyed blake2b acts as a MAC directly; no HMAC construction needed.
	hasher, err := blake2b.New256(issuer.secret)
	if err != nil {
		// Only possible with an oversized key, which the constructor prevents.
		panic("sec: blake2b init failed: " + err.Error())
	}

	// NUL separators prevent ambiguity between adjacent fields.
	hasher.Write([]byte(state.UserID))
	hasher.Write([]byte{0})
	hasher.Write([]byte(state.Username))
	hasher.Write([]byte{0})
	hasher.Write([]byte(state.Email))
	hasher.Write([]byte{0})
	hasher.Write([]byte(state.Role))
	hasher.Write([]byte{0})
	hasher.Write([]byte(strconv.FormatInt(timestamp, 10)))

	return hex.EncodeToString(hasher.Sum(nil)[:macLength])
}

// CodeDigest returns a stable digest of a code for the used-code ledger.
//
// The raw code never touches Redis; only its digest is stored.
func CodeDigest(code string) string {
	sum := blake2b.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
