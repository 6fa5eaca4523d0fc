// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/internal/users/auth"
)

// # Test Doubles

type fakeUserRepository struct {
	users []*auth.User
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repository.users = append(repository.users, user)
	return nil
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

type fakeUsedCodeRepository struct {
	used map[string]bool
}

func newFakeUsedCodeRepository() *fakeUsedCodeRepository {
	return &fakeUsedCodeRepository{used: make(map[string]bool)}
}

func (repository *fakeUsedCodeRepository) MarkUsed(_ context.Context, digest string, _ time.Duration) error {
	repository.used[digest] = true
	return nil
}

func (repository *fakeUsedCodeRepository) IsUsed(_ context.Context, digest string) (bool, error) {
	return repository.used[digest], nil
}

type fakeTokenMinter struct {
	minted int
}

func (minter *fakeTokenMinter) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	minter.minted++
	return "signed." + username + "." + role, nil
}

type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (mailer *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	mailer.sent = append(mailer.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// # Fixture

type authFixture struct {
	service *auth.Service
	users   *fakeUserRepository
	ledger  *fakeUsedCodeRepository
	minter  *fakeTokenMinter
	mailer  *recordingMailer
	issuer  *sec.CodeIssuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	fixture := &authFixture{
		users:  &fakeUserRepository{},
		ledger: newFakeUsedCodeRepository(),
		minter: &fakeTokenMinter{},
		mailer: &recordingMailer{},
		issuer: sec.NewCodeIssuer("test-signing-secret", time.Hour),
	}
	fixture.service = auth.NewService(
		fixture.users, fixture.ledger, fixture.issuer, fixture.minter, fixture.mailer,
		slog.New(slog.DiscardHandler),
	)
	return fixture
}

func (fixture *authFixture) seedUser(username, email string) *auth.User {
	user := &auth.User{
		ID:       "018f0000-0000-7000-8000-00000000000" + string(rune('0'+len(fixture.users.users))),
		Username: username,
		Email:    email,
		Role:     sec.RoleUser,
	}
	fixture.users.users = append(fixture.users.users, user)
	return user
}

// # Signup

/*
TestSignup_CreatesUserAndEmailsCode covers the happy path: a new pair
registers an account and receives a confirmation code by email.
*/
func TestSignup_CreatesUserAndEmailsCode(t *testing.T) {
	fixture := newAuthFixture(t)

	result, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "alice@example.com", result.Email)

	require.Len(t, fixture.users.users, 1)
	created := fixture.users.users[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, sec.RoleUser, created.Role)

	require.Len(t, fixture.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", fixture.mailer.sent[0].to)
	assert.NotEmpty(t, fixture.mailer.sent[0].body)
}

/*
TestSignup_Validation rejects malformed and reserved identities before any
storage access.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		field    string
	}{
		{"reserved_me", "me", "me@example.com", "username"},
		{"illegal_characters", "bad name!", "bad@example.com", "username"},
		{"missing_username", "", "a@example.com", "username"},
		{"invalid_email", "bob", "not-an-email", "email"},
		{"missing_email", "bob", "", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newAuthFixture(t)

			_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
				Username: tt.username,
				Email:    tt.email,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)

			assert.Empty(t, fixture.users.users)
			assert.Empty(t, fixture.mailer.sent)
		})
	}
}

/*
TestSignup_DuplicateUsername rejects a taken username when the email does
not match the registered pair.
*/
func TestSignup_DuplicateUsername(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.seedUser("alice", "alice@example.com")

	_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "other@example.com",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "username", ae.Details[0].Field)
}

/*
TestSignup_DuplicateEmail rejects a registered email under a new username.
*/
func TestSignup_DuplicateEmail(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.seedUser("alice", "alice@example.com")

	_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice2",
		Email:    "alice@example.com",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "email", ae.Details[0].Field)
}

/*
TestSignup_ResendOnExactPair re-sends a fresh code when the exact registered
(username, email) pair signs up again, without creating a second account.
*/
func TestSignup_ResendOnExactPair(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.seedUser("alice", "alice@example.com")

	result, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", result.Username)
	assert.Len(t, fixture.users.users, 1)
	require.Len(t, fixture.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", fixture.mailer.sent[0].to)
}

// # Token Exchange

/*
TestMintToken_HappyPath exchanges a freshly issued code for a signed token
and records the code as consumed.
*/
func TestMintToken_HappyPath(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser("alice", "alice@example.com")
	code := fixture.issuer.Issue(user.State())

	result, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)

	assert.Equal(t, "signed.alice.user", result.Token)
	assert.Equal(t, 1, fixture.minter.minted)
	assert.Len(t, fixture.ledger.used, 1)
}

/*
TestMintToken_UnknownUsername returns 404, matching the resource-missing
semantics of the rest of the API.
*/
func TestMintToken_UnknownUsername(t *testing.T) {
	fixture := newAuthFixture(t)

	_, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "ghost",
		ConfirmationCode: "whatever-code",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, 0, fixture.minter.minted)
}

/*
TestMintToken_PatternInvalidUsername rejects a username that could never
have registered before touching the directory: a validation failure, not
a 404.
*/
func TestMintToken_PatternInvalidUsername(t *testing.T) {
	fixture := newAuthFixture(t)

	_, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "bad name!",
		ConfirmationCode: "whatever-code",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "username", ae.Details[0].Field)
	assert.Equal(t, 0, fixture.minter.minted)
}

/*
TestMintToken_WrongCode rejects a code that does not verify against the
account state.
*/
func TestMintToken_WrongCode(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.seedUser("alice", "alice@example.com")

	_, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: "1abc2-0000000000000000000000000000000000000000",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "confirmation_code", ae.Details[0].Field)
}

/*
TestMintToken_ReplayRejected rejects a second exchange of the same code even
though the MAC still verifies.
*/
func TestMintToken_ReplayRejected(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser("alice", "alice@example.com")
	code := fixture.issuer.Issue(user.State())

	_, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)

	_, err = fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, 1, fixture.minter.minted)
}

/*
TestMintToken_StateChangeInvalidates proves that a username change voids
codes issued before the change.
*/
func TestMintToken_StateChangeInvalidates(t *testing.T) {
	fixture := newAuthFixture(t)
	user := fixture.seedUser("alice", "alice@example.com")
	code := fixture.issuer.Issue(user.State())

	// Profile edit after the code was issued.
	user.Username = "alice_renamed"

	_, err := fixture.service.MintToken(context.Background(), auth.TokenInput{
		Username:         "alice_renamed",
		ConfirmationCode: code,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}
