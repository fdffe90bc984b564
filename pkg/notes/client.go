package notes

import (
	"context"
	"net/http"
	"time"

	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/eshaffer321/notes-go/internal/transport"
	internalTypes "github.com/eshaffer321/notes-go/internal/types"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the default notes API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main notes API client
type Client struct {
	// Service interfaces
	Auth       AuthService
	Notes      NoteService
	Tasks      TaskService
	Categories CategoryService
	Subjects   SubjectService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	session    *session.Session
	options    *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// AppVersion is sent in the X-App-Version header
	AppVersion string

	// Headers are added to every request
	Headers map[string]string

	// Store persists the access and refresh tokens. Defaults to memory.
	Store Store

	// Logger for debug logging
	Logger Logger

	// RetryConfig enables retries of transient failures. Nil disables them.
	RetryConfig *RetryConfig

	// Hooks for observability
	Hooks *Hooks

	// OnSessionExpired is called once the refresh token has been rejected
	// and the stored credentials were cleared
	OnSessionExpired func(ctx context.Context)

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Transport handles HTTP communication with the API
type Transport interface {
	Do(ctx context.Context, req *transport.Request, result interface{}) error
	Refresh(ctx context.Context) (string, error)
	ClearAuth()
}

// NewClient creates a new notes client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	sess := session.New(opts.Store)

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:          opts.BaseURL,
		HTTPClient:       opts.HTTPClient,
		Headers:          opts.Headers,
		AppVersion:       opts.AppVersion,
		Session:          sess,
		RetryConfig:      opts.RetryConfig,
		Logger:           opts.Logger,
		Hooks:            opts.Hooks,
		OnSessionExpired: opts.OnSessionExpired,
	})

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		session:    sess,
		options:    opts,
	}

	c.initServices()

	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Notes = &noteService{resource: resource{client: c, path: "notes"}}
	c.Tasks = &taskService{resource: resource{client: c, path: "tasks"}}
	c.Categories = &categoryService{resource: resource{client: c, path: "categories"}}
	c.Subjects = &subjectService{resource: resource{client: c, path: "subjects"}}
}

// BaseURL returns the API base URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// execute sends one API call and reports failures to Sentry
func (c *Client) execute(ctx context.Context, req *transport.Request, result interface{}) error {
	start := time.Now()
	err := c.transport.Do(ctx, req, result)
	duration := time.Since(start)

	if err != nil && reportable(err) {
		capture := func(hub *sentry.Hub) {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("api.method", req.Method)
				scope.SetTag("api.path", req.Path)
				scope.SetTag("api.error_kind", string(KindOf(err)))
				scope.SetContext("api", map[string]interface{}{
					"query":    req.Query.Encode(),
					"duration": duration.String(),
				})
				hub.CaptureException(err)
			})
		}

		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			capture(hub)
		} else {
			capture(sentry.CurrentHub())
		}
	}

	return err
}

// reportable filters out errors that are normal user outcomes
func reportable(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindAuthentication, KindSessionExpired:
		return false
	}
	return true
}

// Close flushes any pending Sentry events and releases the credential store
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)

	if c.session != nil {
		if err := CloseStore(c.session.Store()); err != nil && c.options != nil && c.options.Logger != nil {
			c.options.Logger.Warn("Failed to close credential store", "error", err)
		}
	}
}
