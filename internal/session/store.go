package session

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// KeyValueStore is the client-side slot that keeps the guest session id
// between requests.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]

	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

// CookieStore keeps values in response cookies for the lifetime of one
// request. Writes are visible to later reads within the same request.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    CookieOptions
	pending map[string]*string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{w: w, r: r, opts: opts, pending: make(map[string]*string)}
}

func (c *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	if value, ok := c.pending[key]; ok {
		if value == nil {
			return "", false, nil
		}

		return *value, true, nil
	}

	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false, nil
	}

	return cookie.Value, true, nil
}

func (c *CookieStore) Set(_ context.Context, key, value string) error {
	c.pending[key] = &value

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (c *CookieStore) Delete(_ context.Context, key string) error {
	c.pending[key] = nil

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
