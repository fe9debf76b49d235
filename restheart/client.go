// Package restheart is a small generic client for a RESTHeart-style entity
// store, where each collection lives under /{database}/{collection}.
package restheart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the store answers 404.
var ErrNotFound = errors.New("record not found")

// StatusError is a non-2xx answer from the store other than 404.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: store returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ResponseError is a 2xx answer from the store whose body could not be read
// or decoded.
type ResponseError struct {
	URL string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: invalid store response: %v", e.URL, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err means the store could not serve the
// request: it was unreachable, answered with an error status or sent an
// unreadable body.
func IsUnavailable(err error) bool {
	var statusErr *StatusError
	var responseErr *ResponseError
	var urlErr *url.Error
	return errors.As(err, &statusErr) || errors.As(err, &responseErr) || errors.As(err, &urlErr)
}

// Entity is a stored record that knows its own id.
type Entity interface {
	EntityID() string
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Database string
	Username string
	Password string
	Timeout  time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to one collection of the store.
type Client[T Entity] struct {
	collectionURL string
	username      string
	password      string
	http          *http.Client
	logger        *zap.Logger
}

// NewClient returns a client bound to the given collection.
func NewClient[T Entity](opts Options, collection string, logger *zap.Logger) *Client[T] {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	return &Client[T]{
		collectionURL: base + "/" + path.Join(opts.Database, collection),
		username:      opts.Username,
		password:      opts.Password,
		http:          httpClient,
		logger:        logger.With(zap.String("collection", collection)),
	}
}

// Save creates the entity and returns the id the store assigned, read from
// the Location header. When the store sends no Location the entity's own id
// is returned.
func (c *Client[T]) Save(ctx context.Context, entity *T) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, c.collectionURL, entity)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if id := idFromLocation(resp.Header.Get("Location")); id != "" {
		return id, nil
	}
	return (*entity).EntityID(), nil
}

// GetByID fetches a single entity.
func (c *Client[T]) GetByID(ctx context.Context, id string) (*T, error) {
	docURL := c.documentURL(id)
	resp, err := c.do(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var entity T
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, &ResponseError{URL: docURL, Err: err}
	}
	return &entity, nil
}

// FindAll lists the collection. Both a bare JSON array and a HAL document
// with an _embedded section are accepted.
func (c *Client[T]) FindAll(ctx context.Context) ([]T, error) {
	resp, err := c.do(ctx, http.MethodGet, c.collectionURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResponseError{URL: c.collectionURL, Err: err}
	}

	entities, err := decodeCollection[T](body)
	if err != nil {
		return nil, &ResponseError{URL: c.collectionURL, Err: err}
	}
	return entities, nil
}

// Update replaces the stored entity.
func (c *Client[T]) Update(ctx context.Context, id string, entity *T) error {
	resp, err := c.do(ctx, http.MethodPut, c.documentURL(id), entity)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client[T]) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.documentURL(id), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// documentURL escapes id so it always names a single document.
func (c *Client[T]) documentURL(id string) string {
	return c.collectionURL + "/" + url.PathEscape(id)
}

// do sends the request and turns non-2xx answers into errors. The caller
// owns the body of a successful response.
func (c *Client[T]) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to store: %w", err)
	}
	c.logger.Debug("store request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	return resp, nil
}

func idFromLocation(location string) string {
	location = strings.TrimRight(location, "/")
	if location == "" {
		return ""
	}
	id := location[strings.LastIndex(location, "/")+1:]
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

func decodeCollection[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []T{}, nil
	}

	if body[0] == '[' {
		var entities []T
		if err := json.Unmarshal(body, &entities); err != nil {
			return nil, err
		}
		return entities, nil
	}

	var doc struct {
		Embedded json.RawMessage `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	embedded := bytes.TrimSpace(doc.Embedded)
	if len(embedded) == 0 {
		return []T{}, nil
	}
	if embedded[0] == '[' {
		var entities []T
		if err := json.Unmarshal(embedded, &entities); err != nil {
			return nil, err
		}
		return entities, nil
	}

	// Older stores group documents by relation, e.g. {"rh:doc": [...]}.
	var groups map[string][]T
	if err := json.Unmarshal(embedded, &groups); err != nil {
		return nil, err
	}
	entities := groups["rh:doc"]
	if entities == nil {
		entities = []T{}
	}
	return entities, nil
}
