// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() AccountState {
	return AccountState{
		UserID:   "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     "user",
	}
}

/*
TestCodeIssuer_RoundTrip verifies that a freshly issued code validates
against the same account state.
*/
func TestCodeIssuer_RoundTrip(t *testing.T) {
	issuer := NewCodeIssuer("test-secret", 24*time.Hour)

	code := issuer.Issue(testState())
	require.NotEmpty(t, code)

	assert.NoError(t, issuer.Verify(testState(), code))
}

/*
TestCodeIssuer_Deterministic verifies that the same state and timestamp
produce the same code.
*/
func TestCodeIssuer_Deterministic(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewCodeIssuer("test-secret", 24*time.Hour)
	issuer.now = func() time.Time { return fixed }

	assert.Equal(t, issuer.Issue(testState()), issuer.Issue(testState()))
}

/*
TestCodeIssuer_StateChangeInvalidates verifies that changing any account
field invalidates previously issued codes.
*/
func TestCodeIssuer_StateChangeInvalidates(t *testing.T) {
	issuer := NewCodeIssuer("test-secret", 24*time.Hour)
	code := issuer.Issue(testState())

	tests := []struct {
		name   string
		mutate func(s *AccountState)
	}{
		{"username_changed", func(s *AccountState) { s.Username = "alicia" }},
		{"email_changed", func(s *AccountState) { s.Email = "other@example.com" }},
		{"role_changed", func(s *AccountState) { s.Role = "admin" }},
		{"id_changed", func(s *AccountState) { s.UserID = "user-456" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testState()
			tt.mutate(&state)

			assert.ErrorIs(t, issuer.Verify(state, code), ErrCodeMismatch)
		})
	}
}

/*
TestCodeIssuer_Expiry verifies that codes older than the TTL are rejected.
*/
func TestCodeIssuer_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewCodeIssuer("test-secret", 1*time.Hour)
	issuer.now = func() time.Time { return issuedAt }

	code := issuer.Issue(testState())

	// Still valid just inside the window
	issuer.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	assert.NoError(t, issuer.Verify(testState(), code))

	// Expired past the window
	issuer.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	assert.ErrorIs(t, issuer.Verify(testState(), code), ErrCodeExpired)
}

/*
TestCodeIssuer_Malformed verifies structural validation of the code format.
*/
func TestCodeIssuer_Malformed(t *testing.T) {
	issuer := NewCodeIssuer("test-secret", 24*time.Hour)

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"no_separator", "abcdef123456"},
		{"missing_mac", "1a2b3c-"},
		{"missing_timestamp", "-deadbeef"},
		{"bad_timestamp", "!!!-deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, issuer.Verify(testState(), tt.code), ErrCodeMalformed)
		})
	}
}

/*
TestCodeIssuer_WrongSecret verifies that codes from a different issuer secret
never validate.
*/
func TestCodeIssuer_WrongSecret(t *testing.T) {
	issuerA := NewCodeIssuer("secret-a", 24*time.Hour)
	issuerB := NewCodeIssuer("secret-b", 24*time.Hour)

	code := issuerA.Issue(testState())
	assert.ErrorIs(t, issuerB.Verify(testState(), code), ErrCodeMismatch)
}

/*
TestCodeDigest verifies the used-code ledger digest is stable and distinct
from the raw code.
*/
func TestCodeDigest(t *testing.T) {
	assert.Equal(t, CodeDigest("some-code"), CodeDigest("some-code"))
	assert.NotEqual(t, "some-code", CodeDigest("some-code"))
	assert.NotEqual(t, CodeDigest("some-code"), CodeDigest("other-code"))
}
