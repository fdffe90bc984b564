package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eshaffer321/notes-go/internal/transport"
	"github.com/pkg/errors"
)

// resource maps CRUD calls onto one REST collection such as /notes/
type resource struct {
	client *Client
	path   string
}

func (r resource) collectionPath() string {
	return "/" + r.path + "/"
}

func (r resource) itemPath(id int64) string {
	return fmt.Sprintf("/%s/%d/", r.path, id)
}

func (r resource) list(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	err := r.client.execute(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   r.collectionPath(),
		Query:  query,
	}, &raw)
	return raw, err
}

func (r resource) get(ctx context.Context, id int64, result interface{}) error {
	return r.client.execute(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   r.itemPath(id),
	}, result)
}

func (r resource) create(ctx context.Context, body, result interface{}) error {
	return r.client.execute(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   r.collectionPath(),
		Body:   body,
	}, result)
}

func (r resource) update(ctx context.Context, id int64, body, result interface{}) error {
	return r.client.execute(ctx, &transport.Request{
		Method: http.MethodPatch,
		Path:   r.itemPath(id),
		Body:   body,
	}, result)
}

func (r resource) delete(ctx context.Context, id int64) error {
	return r.client.execute(ctx, &transport.Request{
		Method: http.MethodDelete,
		Path:   r.itemPath(id),
	}, nil)
}

func (r resource) search(ctx context.Context, query string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := r.client.execute(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   r.collectionPath() + "search/",
		Query:  url.Values{"q": []string{query}},
	}, &raw)
	return raw, err
}

func (r resource) analyze(ctx context.Context, id int64, result interface{}) error {
	return r.client.execute(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   r.itemPath(id) + "analyze/",
	}, result)
}

// page is a DRF paginated response
type page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// decodePage accepts either a paginated object or a bare JSON array
func decodePage[T any](raw json.RawMessage) (*page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &page[T]{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(err, "failed to decode list")
		}
		return &page[T]{Count: len(items), Results: items}, nil
	}

	var p page[T]
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode page")
	}
	if p.Count == 0 {
		p.Count = len(p.Results)
	}
	return &p, nil
}
