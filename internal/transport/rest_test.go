package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eshaffer321/notes-go/internal/session"
	"github.com/eshaffer321/notes-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a small stand-in for the notes backend. Only validToken is
// accepted on protected endpoints; the refresh endpoint answers with
// refreshStatus and hands out newToken.
type fakeAPI struct {
	mu            sync.Mutex
	validToken    string
	newToken      string
	refreshStatus int
	refreshDelay  time.Duration
	refreshCalls  atomic.Int32
	noteCalls     atomic.Int32
	authHeaders   map[string][]string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{
		validToken:    "valid",
		newToken:      "valid",
		refreshStatus: http.StatusOK,
		authHeaders:   make(map[string][]string),
	}

	server := httptest.NewServer(http.HandlerFunc(api.serveHTTP))
	t.Cleanup(server.Close)

	return api, server
}

func (a *fakeAPI) serveHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.authHeaders[r.URL.Path] = append(a.authHeaders[r.URL.Path], r.Header.Get("Authorization"))
	valid := a.validToken
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case types.LoginEndpoint, types.RegisterEndpoint:
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "A", "refresh": "R"})
	case types.RefreshEndpoint:
		a.refreshCalls.Add(1)
		if a.refreshDelay > 0 {
			time.Sleep(a.refreshDelay)
		}
		if a.refreshStatus != http.StatusOK {
			w.WriteHeader(a.refreshStatus)
			_, _ = w.Write([]byte(`{"detail": "Token is invalid or expired", "code": "token_not_valid"}`))
			return
		}
		var body refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{"access": a.newToken})
	case "/notes/5/":
		a.noteCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Given token not valid for any token type"}`))
			return
		}
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id": 5, "title": "Groceries"}`))
	case "/slow/":
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	}
}

func (a *fakeAPI) headersFor(path string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.authHeaders[path]...)
}

func newTestTransport(t *testing.T, baseURL string, tokens *types.TokenPair) (*RESTTransport, *session.Session) {
	t.Helper()

	sess := session.New(session.NewMemoryStore())
	if tokens != nil {
		require.NoError(t, sess.Save(context.Background(), tokens))
	}

	return NewRESTTransport(&Options{
		BaseURL:    baseURL,
		AppVersion: "2.3.4",
		Session:    sess,
	}), sess
}

func TestDo_AttachesBearerToken(t *testing.T) {
	api, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "valid", Refresh: "R"})

	var note struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, &note)

	require.NoError(t, err)
	assert.Equal(t, 5, note.ID)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, []string{"Bearer valid"}, api.headersFor("/notes/5/"))
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	api, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, nil)

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	// Without any credentials the refresh cannot happen
	require.Error(t, err)
	assert.Equal(t, types.KindAuthentication, types.KindOf(err))
	assert.Equal(t, []string{""}, api.headersFor("/notes/5/"))
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestDo_AuthEndpointsNeverCarryToken(t *testing.T) {
	api, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "valid", Refresh: "R"})
	ctx := context.Background()

	require.NoError(t, tr.Do(ctx, &Request{Method: http.MethodPost, Path: types.LoginEndpoint, Body: map[string]string{"username": "u"}}, nil))
	require.NoError(t, tr.Do(ctx, &Request{Method: http.MethodPost, Path: types.RegisterEndpoint, Body: map[string]string{"username": "u"}}, nil))
	_, err := tr.Refresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{""}, api.headersFor(types.LoginEndpoint))
	assert.Equal(t, []string{""}, api.headersFor(types.RegisterEndpoint))
	assert.Equal(t, []string{""}, api.headersFor(types.RefreshEndpoint))
}

func TestDo_DefaultHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		assert.Equal(t, "q=hello+world", r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr, _ := newTestTransport(t, server.URL+"/", nil)
	err := tr.Do(context.Background(), &Request{
		Method:  http.MethodGet,
		Path:    "/notes/search/",
		Query:   url.Values{"q": []string{"hello world"}},
		Headers: map[string]string{"X-Trace": "abc"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "application/json", captured.Get("Content-Type"))
	assert.Equal(t, "2.3.4", captured.Get("X-App-Version"))
	assert.Equal(t, types.UserAgent, captured.Get("User-Agent"))
	assert.Equal(t, "abc", captured.Get("X-Trace"))
	assert.Len(t, captured.Get("X-Request-ID"), 36)
	assert.Empty(t, captured.Get("Authorization"))
}

func TestDo_RefreshesOnceAndReplays(t *testing.T) {
	api, server := newFakeAPI(t)
	api.validToken = "fresh"
	api.newToken = "fresh"
	tr, sess := newTestTransport(t, server.URL, &types.TokenPair{Access: "stale", Refresh: "R"})

	var note map[string]interface{}
	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, &note)

	require.NoError(t, err)
	assert.Equal(t, "Groceries", note["title"])
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, api.headersFor("/notes/5/"))

	pair, err := sess.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", pair.Access)
	assert.Equal(t, "R", pair.Refresh)
}

func TestDo_ReplayedUnauthorizedIsNotRefreshedAgain(t *testing.T) {
	api, server := newFakeAPI(t)
	api.validToken = "never-issued"
	api.newToken = "still-wrong"
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "stale", Refresh: "R"})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	require.Error(t, err)
	assert.Equal(t, types.KindAuthentication, types.KindOf(err))
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Equal(t, "Given token not valid for any token type", err.Error())
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, int32(2), api.noteCalls.Load())
}

func TestDo_RefreshRejectedExpiresSession(t *testing.T) {
	api, server := newFakeAPI(t)
	api.refreshStatus = http.StatusUnauthorized

	var expired atomic.Int32
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Save(context.Background(), &types.TokenPair{Access: "stale", Refresh: "R"}))
	tr := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Session: sess,
		OnSessionExpired: func(ctx context.Context) {
			expired.Add(1)
		},
	})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	require.Error(t, err)
	assert.Equal(t, types.KindSessionExpired, types.KindOf(err))
	assert.ErrorIs(t, err, types.ErrSessionExpired)
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, int32(1), api.noteCalls.Load(), "original request must not be replayed")

	pair, err := sess.Tokens(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pair.Access)
	assert.Empty(t, pair.Refresh)
}

func TestDo_RefreshServerErrorKeepsCredentials(t *testing.T) {
	api, server := newFakeAPI(t)
	api.refreshStatus = http.StatusServiceUnavailable
	tr, sess := newTestTransport(t, server.URL, &types.TokenPair{Access: "stale", Refresh: "R"})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.Equal(t, http.StatusServiceUnavailable, err.(*types.Error).StatusCode)

	pair, err := sess.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stale", pair.Access)
	assert.Equal(t, "R", pair.Refresh)
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	api, server := newFakeAPI(t)
	api.validToken = "fresh"
	api.newToken = "fresh"
	api.refreshDelay = 50 * time.Millisecond
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "stale", Refresh: "R"})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.refreshCalls.Load())
}

func TestDo_DeleteNoContent(t *testing.T) {
	api, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "valid", Refresh: "R"})

	var result map[string]interface{}
	err := tr.Do(context.Background(), &Request{Method: http.MethodDelete, Path: "/notes/5/"}, &result)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int32(1), api.noteCalls.Load())
}

func TestDo_NotFound(t *testing.T) {
	_, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "valid", Refresh: "R"})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/99/"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, "Not found.", err.Error())
	assert.NotEmpty(t, err.(*types.Error).RequestID)
}

func TestDo_Timeout(t *testing.T) {
	_, server := newFakeAPI(t)
	tr := NewRESTTransport(&Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 20 * time.Millisecond},
	})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/slow/"}, nil)

	require.Error(t, err)
	assert.Equal(t, types.KindTransport, types.KindOf(err))
	assert.ErrorIs(t, err, types.ErrTimeout)
}

func TestDo_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	tr, _ := newTestTransport(t, server.URL, nil)
	var out map[string]interface{}
	err := tr.Do(context.Background(), &Request{Path: "/notes/"}, &out)

	require.Error(t, err)
	assert.Equal(t, types.KindTransport, types.KindOf(err))
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestDo_Hooks(t *testing.T) {
	_, server := newFakeAPI(t)

	var requests, responses, failures atomic.Int32
	tr := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Hooks: &types.Hooks{
			OnRequest:  func(ctx context.Context, req *http.Request) { requests.Add(1) },
			OnResponse: func(ctx context.Context, resp *http.Response, d time.Duration) { responses.Add(1) },
			OnError:    func(ctx context.Context, err error) { failures.Add(1) },
		},
	})

	err := tr.Do(context.Background(), &Request{Path: "/missing/"}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, int32(1), responses.Load())
	assert.Equal(t, int32(1), failures.Load())
}

func TestClearAuth_DropsDefaultAuthorization(t *testing.T) {
	api, server := newFakeAPI(t)
	tr := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Headers: map[string]string{"Authorization": "Bearer static"},
	})

	tr.ClearAuth()
	_ = tr.Do(context.Background(), &Request{Path: "/notes/5/"}, nil)

	assert.Equal(t, []string{""}, api.headersFor("/notes/5/"))
}

func TestRefresh_MissingRefreshToken(t *testing.T) {
	api, server := newFakeAPI(t)
	tr, _ := newTestTransport(t, server.URL, &types.TokenPair{Access: "stale"})

	_, err := tr.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, types.KindAuthentication, types.KindOf(err))
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}

func newRetryTransport(t *testing.T, baseURL string, retries int, tokens *types.TokenPair) *RESTTransport {
	t.Helper()

	sess := session.New(session.NewMemoryStore())
	if tokens != nil {
		require.NoError(t, sess.Save(context.Background(), tokens))
	}

	return NewRESTTransport(&Options{
		BaseURL: baseURL,
		Session: sess,
		RetryConfig: &types.RetryConfig{
			MaxRetries: retries,
			RetryWait:  time.Millisecond,
			MaxWait:    5 * time.Millisecond,
		},
	})
}

func TestDo_RetriesServerErrorThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"detail": "try again"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": 5, "title": "Groceries"}`))
	}))
	defer server.Close()

	tr := newRetryTransport(t, server.URL, 2, nil)
	var note struct {
		ID int `json:"id"`
	}
	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, &note)

	require.NoError(t, err)
	assert.Equal(t, 5, note.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_RetriesExhaustedKeepServerDetail(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "db down"}`))
	}))
	defer server.Close()

	tr := newRetryTransport(t, server.URL, 1, nil)
	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/"}, nil)

	require.Error(t, err)
	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, types.KindTransport, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "db down", apiErr.Message)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_RetryClientLeavesUnauthorizedToRefresh(t *testing.T) {
	api, server := newFakeAPI(t)
	api.validToken = "fresh"
	api.newToken = "fresh"
	tr := newRetryTransport(t, server.URL, 3, &types.TokenPair{Access: "stale", Refresh: "R"})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(2), api.noteCalls.Load())
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, api.headersFor("/notes/5/"))
}

func TestDo_RefreshFailureReportedOnce(t *testing.T) {
	api, server := newFakeAPI(t)
	api.refreshStatus = http.StatusUnauthorized

	var failures atomic.Int32
	var reported error
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Save(context.Background(), &types.TokenPair{Access: "stale", Refresh: "R"}))
	tr := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Session: sess,
		Hooks: &types.Hooks{
			OnError: func(ctx context.Context, err error) {
				failures.Add(1)
				reported = err
			},
		},
	})

	err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/notes/5/"}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, int32(1), failures.Load())
	assert.Equal(t, types.KindSessionExpired, types.KindOf(reported))
}

func TestRefresh_FailureReportedOnce(t *testing.T) {
	api, server := newFakeAPI(t)
	api.refreshStatus = http.StatusServiceUnavailable

	var failures atomic.Int32
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Save(context.Background(), &types.TokenPair{Access: "stale", Refresh: "R"}))
	tr := NewRESTTransport(&Options{
		BaseURL: server.URL,
		Session: sess,
		Hooks: &types.Hooks{
			OnError: func(ctx context.Context, err error) { failures.Add(1) },
		},
	})

	_, err := tr.Refresh(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, int32(1), failures.Load())
}
