package session

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultKey = "cart_session_id"

var sessionIDPattern = regexp.MustCompile(`^guest_[0-9]{1,20}_[a-z0-9]{6,32}$`)

// Resolver hands out the anonymous guest identity that owns a cart until
// the visitor signs in.
type Resolver struct {
	store KeyValueStore
	key   string
	now   func() time.Time
}

func NewResolver(store KeyValueStore, key string) *Resolver {
	if key == "" {
		key = DefaultKey
	}

	return &Resolver{store: store, key: key, now: time.Now}
}

// GetOrCreateSessionID returns the stored id, generating and persisting one on
// first use.
func (r *Resolver) GetOrCreateSessionID(ctx context.Context) (string, error) {
	id, ok, err := r.SessionID(ctx)
	if err != nil {
		return "", err
	}

	if ok {
		return id, nil
	}

	id = r.newID()

	if err := r.store.Set(ctx, r.key, id); err != nil {
		return "", fmt.Errorf("failed to persist session id: %w", err)
	}

	return id, nil
}

// SessionID reads the stored id without creating one. Malformed values are
// treated as absent.
func (r *Resolver) SessionID(ctx context.Context) (string, bool, error) {
	id, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read session id: %w", err)
	}

	if !ok || !Valid(id) {
		return "", false, nil
	}

	return id, true, nil
}

func (r *Resolver) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear session id: %w", err)
	}

	return nil
}

func (r *Resolver) newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	return fmt.Sprintf("guest_%d_%s", r.now().UnixMilli(), suffix)
}

func Valid(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Factory builds a cookie-backed resolver for each HTTP request.
type Factory struct {
	Key  string
	Opts CookieOptions
}

func (f Factory) ForRequest(w http.ResponseWriter, r *http.Request) *Resolver {
	return NewResolver(NewCookieStore(w, r, f.Opts), f.Key)
}
