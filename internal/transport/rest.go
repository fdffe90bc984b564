package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/eshaffer321/notes-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	authHeaderKey    = "Authorization"
	requestIDHeader  = "X-Request-ID"
	appVersionHeader = "X-App-Version"
	contentType      = "application/json"

	// maxReplays bounds how many times one call is resent after a refresh
	maxReplays = 1
)

// Request describes one API call. The transport never mutates it; every
// attempt builds a fresh *http.Request from it.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// quiet keeps failures out of Hooks.OnError; the caller reports them
	quiet bool
}

// RESTTransport handles JSON-over-HTTP communication with the notes API
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	session     *session.Session
	logger      types.Logger
	hooks       *types.Hooks

	onSessionExpired func(ctx context.Context)

	headersMu sync.RWMutex
	headers   map[string]string

	refreshGroup singleflight.Group
}

// Options for REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	AppVersion  string
	Session     *session.Session
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks

	// OnSessionExpired is called after the refresh token was rejected and
	// the stored credentials were cleared.
	OnSessionExpired func(ctx context.Context)
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	if opts.AppVersion == "" {
		opts.AppVersion = types.DefaultAppVersion
	}

	if opts.Session == nil {
		opts.Session = session.New(nil)
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		retryClient.Logger = nil
		// Hand the last response back so the server's error body is normalized
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		}
	}

	// Set default headers
	headers := map[string]string{
		"Accept":         contentType,
		"Content-Type":   contentType,
		"User-Agent":     types.UserAgent,
		appVersionHeader: opts.AppVersion,
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		httpClient:       opts.HTTPClient,
		retryClient:      retryClient,
		session:          opts.Session,
		logger:           opts.Logger,
		hooks:            opts.Hooks,
		onSessionExpired: opts.OnSessionExpired,
		headers:          headers,
	}
}

// Session returns the credential accessor used by the transport
func (t *RESTTransport) Session() *session.Session {
	return t.session
}

// ClearAuth drops a default Authorization header set through Options.Headers
func (t *RESTTransport) ClearAuth() {
	t.headersMu.Lock()
	defer t.headersMu.Unlock()
	delete(t.headers, authHeaderKey)
}

// Do sends req and decodes a successful JSON response into result.
// A 401 on a non-auth endpoint triggers one refresh and one replay.
func (t *RESTTransport) Do(ctx context.Context, req *Request, result interface{}) error {
	if req == nil {
		return errors.New("nil request")
	}

	body, err := marshalBody(req.Body)
	if err != nil {
		return err
	}

	return t.dispatch(ctx, req, body, result, 0)
}

// dispatch runs one attempt; attempt counts replays after a refresh
func (t *RESTTransport) dispatch(ctx context.Context, req *Request, body []byte, result interface{}, attempt int) error {
	httpReq, sentToken, err := t.newHTTPRequest(ctx, req, body)
	if err != nil {
		return err
	}
	requestID := httpReq.Header.Get(requestIDHeader)

	// Log request
	if t.logger != nil {
		t.logger.Debug("API request", "method", req.Method, "path", req.Path, "attempt", attempt, "request_id", requestID)
	}

	// Execute request
	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		normalized := normalizeTransportError(err, requestID)
		t.reportError(ctx, req, normalized)
		return normalized
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		readErr := &types.Error{
			Kind:       types.KindTransport,
			Message:    fmt.Sprintf("failed to read response: %v", err),
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Err:        err,
		}
		t.reportError(ctx, req, readErr)
		return readErr
	}

	// Log response
	if t.logger != nil {
		t.logger.Debug("API response", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeResult(resp.StatusCode, respBody, result, requestID)
	}

	apiErr := normalizeHTTPError(resp.StatusCode, respBody, requestID)

	if resp.StatusCode == http.StatusUnauthorized && attempt < maxReplays && !types.IsAuthEndpoint(req.Path) {
		err := t.recoverSession(ctx, sentToken)
		if err == nil {
			return t.dispatch(ctx, req, body, result, attempt+1)
		}
		// Nothing to refresh with: the server's own 401 says more
		if types.KindOf(err) == types.KindAuthentication {
			err = apiErr
		}
		t.reportError(ctx, req, err)
		return err
	}

	t.reportError(ctx, req, apiErr)
	return apiErr
}

func (t *RESTTransport) reportError(ctx context.Context, req *Request, err error) {
	if req.quiet || t.hooks == nil || t.hooks.OnError == nil {
		return
	}
	t.hooks.OnError(ctx, err)
}

// newHTTPRequest applies the request interceptor: default headers, request
// id, and the bearer token for non-auth endpoints. It returns the token that
// was attached so a later 401 can tell whether it is already stale.
func (t *RESTTransport) newHTTPRequest(ctx context.Context, req *Request, body []byte) (*http.Request, string, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := t.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create request")
	}

	// Set headers
	t.headersMu.RLock()
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	t.headersMu.RUnlock()

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(requestIDHeader, uuid.New().String())

	// Set auth header
	var token string
	if types.IsAuthEndpoint(req.Path) {
		httpReq.Header.Del(authHeaderKey)
	} else {
		token, err = t.session.AccessToken(ctx)
		if err != nil {
			return nil, "", err
		}
		if token != "" {
			httpReq.Header.Set(authHeaderKey, "Bearer "+token)
		}
	}

	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	return httpReq, token, nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		// Convert to retryable request
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

func marshalBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	return data, nil
}

func decodeResult(status int, body []byte, result interface{}, requestID string) error {
	if result == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if raw, ok := result.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &types.Error{
			Kind:       types.KindTransport,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			StatusCode: status,
			RequestID:  requestID,
			Err:        err,
		}
	}
	return nil
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
