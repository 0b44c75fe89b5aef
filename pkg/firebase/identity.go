package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
)

// Identity provider error codes, in the form the web client reports them.
const (
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodePhoneAlreadyInUse = "auth/phone-number-already-exists"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeNetworkFailed     = "auth/network-request-failed"
	CodeInvalidIDToken    = "auth/invalid-id-token"
	CodeIDTokenExpired    = "auth/id-token-expired"
	CodeIDTokenRevoked    = "auth/id-token-revoked"
	CodeUserDisabled      = "auth/user-disabled"
	CodeInternal          = "auth/internal-error"
)

// AuthError carries a provider error code next to the original error.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthCode extracts the provider code from err, or "" if it has none.
func AuthCode(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

// Identity is a verified ID token.
type Identity struct {
	UID   string
	Email string
}

type IdentityClient struct {
	client *auth.Client
}

func NewIdentityClient(client *auth.Client) *IdentityClient {
	return &IdentityClient{client: client}
}

func (c *IdentityClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := c.client.CreateUser(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	return user.UID, nil
}

func (c *IdentityClient) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := c.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, classify(err)
	}

	identity := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

func (c *IdentityClient) DeleteUser(ctx context.Context, uid string) error {
	if err := c.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	code := CodeInternal
	switch {
	case auth.IsEmailAlreadyExists(err):
		code = CodeEmailAlreadyInUse
	case auth.IsPhoneNumberAlreadyExists(err):
		code = CodePhoneAlreadyInUse
	case auth.IsUserNotFound(err):
		code = CodeUserNotFound
	case auth.IsIDTokenExpired(err):
		code = CodeIDTokenExpired
	case auth.IsIDTokenRevoked(err):
		code = CodeIDTokenRevoked
	case auth.IsUserDisabled(err):
		code = CodeUserDisabled
	case auth.IsIDTokenInvalid(err):
		code = CodeInvalidIDToken
	case errorutils.IsResourceExhausted(err):
		code = CodeTooManyRequests
	case errorutils.IsUnavailable(err), errorutils.IsDeadlineExceeded(err):
		code = CodeNetworkFailed
	default:
		// Argument checks in the SDK return uncoded errors.
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "email"):
			code = CodeInvalidEmail
		case strings.Contains(msg, "password"):
			code = CodeWeakPassword
		}
	}
	return &AuthError{Code: code, Err: err}
}
