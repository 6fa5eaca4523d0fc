package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/mail"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/internal/platform/validate"
	"github.com/dkovalyov/revory/pkg/uuid"
)

// reservedUsernames can never be registered; "me" collides with the
// self-service profile route.
var reservedUsernames = map[string]bool{
	"me": true,
}

// TokenMinter signs access tokens for verified identities.
type TokenMinter interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

type Service struct {
	users     UserRepository
	usedCodes UsedCodeRepository
	issuer    *sec.CodeIssuer
	tokens    TokenMinter
	mailer    mail.Mailer
	logger    *slog.Logger
}

func NewService(
	users UserRepository,
	usedCodes UsedCodeRepository,
	issuer *sec.CodeIssuer,
	tokens TokenMinter,
	mailer mail.Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		usedCodes: usedCodes,
		issuer:    issuer,
		tokens:    tokens,
		mailer:    mailer,
		logger:    logger,
	}
}

// SignupInput carries the passwordless registration payload.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignupResult echoes the accepted identity back to the caller.
type SignupResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup registers a new account, or re-sends a confirmation code when the
// exact (username, email) pair is already registered. Both paths return the
// same response shape, and both end with a code in the caller's inbox.
func (service *Service) Signup(context context.Context, input SignupInput) (*SignupResult, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("username", input.Username).
		MaxLen("username", input.Username, maxUsernameLen).
		Username("username", input.Username).
		Custom("username", reservedUsernames[input.Username], "this username is reserved").
		Required("email", input.Email).
		MaxLen("email", input.Email, maxEmailLen).
		Email("email", input.Email).
		Err(); err != nil {
		return nil, err
	}

	existing, err := service.users.FindByUsername(context, input.Username)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	// Exact match on the registered pair: treat as a code re-send request.
	if existing != nil {
		if existing.Email != input.Email {
			return nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "username", Message: "this username is already taken"})
		}
		if err := service.sendConfirmationCode(context, existing); err != nil {
			return nil, err
		}
		return &SignupResult{Username: existing.Username, Email: existing.Email}, nil
	}

	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "email", Message: "this email is already registered"})
	} else if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	if err := service.sendConfirmationCode(context, user); err != nil {
		return nil, err
	}

	return &SignupResult{Username: user.Username, Email: user.Email}, nil
}

// TokenInput carries the code-for-token exchange payload.
type TokenInput struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// TokenResult carries the issued JWT.
type TokenResult struct {
	Token string `json:"token"`
}

// MintToken exchanges a valid confirmation code for a signed access token.
// An unknown username is a 404; a bad, expired, or replayed code is a 400.
func (service *Service) MintToken(context context.Context, input TokenInput) (*TokenResult, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("username", input.Username).
		Username("username", input.Username).
		Required("confirmation_code", input.ConfirmationCode).
		Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	digest := sec.CodeDigest(input.ConfirmationCode)
	used, err := service.usedCodes.IsUsed(context, digest)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, codeError("this confirmation code has already been used")
	}

	if err := service.issuer.Verify(user.State(), input.ConfirmationCode); err != nil {
		switch {
		case errors.Is(err, sec.ErrCodeExpired):
			return nil, codeError("this confirmation code has expired")
		default:
			return nil, codeError("invalid confirmation code")
		}
	}

	// Ledger entries outlive the code's own validity window, so a replay
	// is rejected either by the ledger or by expiry.
	if err := service.usedCodes.MarkUsed(context, digest, service.issuer.TTL()+time.Hour); err != nil {
		return nil, err
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.InfoContext(context, "token_issued",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &TokenResult{Token: token}, nil
}

// sendConfirmationCode issues a fresh code for the user's current account
// state and emails it.
func (service *Service) sendConfirmationCode(context context.Context, user *User) error {
	code := service.issuer.Issue(user.State())

	subject := "Your Revory confirmation code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code is:\n\n    %s\n\nExchange it for an access token within %d hours.\n",
		user.Username, code, int(service.issuer.TTL().Hours()),
	)

	if err := service.mailer.Send(context, user.Email, subject, body); err != nil {
		service.logger.ErrorContext(context, "confirmation_email_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return apperr.Internal(err)
	}

	return nil
}

func codeError(message string) error {
	return apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "confirmation_code", Message: message})
}
