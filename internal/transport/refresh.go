package transport

import (
	"context"
	"net/http"

	"github.com/eshaffer321/notes-go/internal/types"
)

const refreshKey = "refresh"

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// recoverSession runs after a 401. If another caller already replaced the
// token this request was sent with, the replay can go ahead immediately.
func (t *RESTTransport) recoverSession(ctx context.Context, sentToken string) error {
	current, err := t.session.AccessToken(ctx)
	if err != nil {
		return err
	}
	if current != "" && current != sentToken {
		if t.logger != nil {
			t.logger.Debug("Access token already refreshed, replaying request")
		}
		return nil
	}

	_, err = t.sharedRefresh(ctx)
	return err
}

// Refresh exchanges the stored refresh token for a new access token.
// Concurrent callers share one in-flight refresh call.
//
// A 401 from the refresh endpoint clears the stored credentials and reports
// a session-expired error. Any other failure leaves the store untouched.
func (t *RESTTransport) Refresh(ctx context.Context) (string, error) {
	token, err := t.sharedRefresh(ctx)
	if err != nil && t.hooks != nil && t.hooks.OnError != nil {
		t.hooks.OnError(ctx, err)
	}
	return token, err
}

// sharedRefresh does not report to Hooks.OnError; the request that needed
// the refresh reports the outcome once.
func (t *RESTTransport) sharedRefresh(ctx context.Context) (string, error) {
	ch := t.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		// Detached so one waiter giving up does not fail the others
		return t.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", &types.Error{
			Kind:    types.KindTransport,
			Message: "token refresh cancelled: " + ctx.Err().Error(),
			Err:     ctx.Err(),
		}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (t *RESTTransport) refresh(ctx context.Context) (string, error) {
	refreshToken, err := t.session.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", &types.Error{
			Kind:       types.KindAuthentication,
			Message:    "no refresh token stored",
			StatusCode: http.StatusUnauthorized,
			Err:        types.ErrNotAuthenticated,
		}
	}

	if t.logger != nil {
		t.logger.Info("Refreshing access token")
	}

	var pair types.TokenPair
	err = t.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   types.RefreshEndpoint,
		Body:   refreshRequest{Refresh: refreshToken},
		quiet:  true,
	}, &pair)
	if err != nil {
		if types.KindOf(err) == types.KindAuthentication {
			return "", t.expireSession(ctx, err)
		}
		if t.logger != nil {
			t.logger.Warn("Token refresh failed", "error", err)
		}
		return "", err
	}

	if pair.Access == "" {
		return "", &types.Error{
			Kind:    types.KindTransport,
			Message: "refresh response did not include an access token",
		}
	}

	if err := t.session.Save(ctx, &pair); err != nil {
		return "", err
	}

	if t.logger != nil {
		t.logger.Info("Access token refreshed", "rotated", pair.Refresh != "")
	}

	return pair.Access, nil
}

// expireSession clears the credentials and signals the host application
func (t *RESTTransport) expireSession(ctx context.Context, cause error) error {
	if err := t.session.Clear(ctx); err != nil && t.logger != nil {
		t.logger.Error("Failed to clear credentials", "error", err)
	}

	if t.logger != nil {
		t.logger.Warn("Refresh token rejected, session expired")
	}

	if t.onSessionExpired != nil {
		t.onSessionExpired(ctx)
	}

	var requestID string
	if apiErr, ok := cause.(*types.Error); ok {
		requestID = apiErr.RequestID
	}

	return &types.Error{
		Kind:       types.KindSessionExpired,
		Message:    "session expired, please log in again",
		StatusCode: http.StatusUnauthorized,
		RequestID:  requestID,
		Err:        types.ErrSessionExpired,
	}
}
