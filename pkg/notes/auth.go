package notes

import (
	"context"
	"net/http"
	"time"

	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/eshaffer321/notes-go/internal/transport"
	internalTypes "github.com/eshaffer321/notes-go/internal/types"
	"github.com/pkg/errors"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
}

// Login performs authentication and stores the issued token pair
func (a *authService) Login(ctx context.Context, credentials Credentials) (*TokenPair, error) {
	var pair TokenPair
	err := a.client.execute(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   internalTypes.LoginEndpoint,
		Body:   credentials,
	}, &pair)
	if err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if pair.Access == "" {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "login response did not include an access token",
		}
	}

	// A new login replaces whatever pair was stored before
	if err := a.client.session.Clear(ctx); err != nil {
		return nil, err
	}
	if err := a.client.session.Save(ctx, &pair); err != nil {
		return nil, err
	}

	a.logger().Info("Logged in", "username", credentials.Username)

	return &pair, nil
}

// Logout clears the stored tokens and any default Authorization header.
// It makes no API call and never fails; store errors are only logged.
func (a *authService) Logout(ctx context.Context) {
	if err := a.client.session.Clear(ctx); err != nil {
		a.logger().Error("Failed to clear credentials", "error", err)
	}
	a.client.transport.ClearAuth()

	a.logger().Info("Logged out")
}

// RefreshToken exchanges the stored refresh token for a new access token
func (a *authService) RefreshToken(ctx context.Context) (string, error) {
	return a.client.transport.Refresh(ctx)
}

// Register creates a new account
func (a *authService) Register(ctx context.Context, params *RegisterParams) (*Profile, error) {
	if params == nil {
		return nil, errors.New("register params are required")
	}

	var profile Profile
	err := a.client.execute(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   internalTypes.RegisterEndpoint,
		Body:   params,
	}, &profile)
	if err != nil {
		return nil, errors.Wrap(err, "registration failed")
	}

	return &profile, nil
}

// GetProfile retrieves the logged-in user's profile
func (a *authService) GetProfile(ctx context.Context) (*Profile, error) {
	if !a.client.session.IsAuthenticated(ctx) {
		return nil, &Error{
			Kind:       KindAuthentication,
			Message:    "not logged in",
			StatusCode: http.StatusUnauthorized,
			Err:        ErrNotAuthenticated,
		}
	}

	var profile Profile
	err := a.client.execute(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   internalTypes.ProfileEndpoint,
	}, &profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return &profile, nil
}

// IsAuthenticated reports whether an access token is stored
func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.client.session.IsAuthenticated(ctx)
}

// Status describes the stored credentials. Token claims are read without
// verifying the signature; they are informational only.
func (a *authService) Status(ctx context.Context) (*SessionStatus, error) {
	pair, err := a.client.session.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	status := &SessionStatus{
		Authenticated:   pair.Access != "",
		HasRefreshToken: pair.Refresh != "",
	}
	if pair.Access == "" {
		return status, nil
	}

	claims, err := session.ParseClaims(pair.Access)
	if err != nil {
		a.logger().Debug("Access token is not a readable JWT", "error", err)
		return status, nil
	}

	status.UserID = claims.UserID
	status.ExpiresAt = claims.ExpiresAt
	status.Expired = claims.Expired(time.Now())

	return status, nil
}

func (a *authService) logger() Logger {
	if a.client.options != nil && a.client.options.Logger != nil {
		return a.client.options.Logger
	}
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
