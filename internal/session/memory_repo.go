package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo stores sessions in a freecache cache; entries expire on their own after ttl.
type MemoryRepo struct {
	cache *freecache.Cache
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewMemoryRepo(ttl time.Duration, cacheSizeMB int) *MemoryRepo {
	megabyte := 1024 * 1024
	return &MemoryRepo{
		cache:  freecache.NewCache(cacheSizeMB * megabyte),
		ttl:    ttl,
		now:    time.Now,
		tokens: map[string]struct{}{},
	}
}

func (r *MemoryRepo) Get(_ context.Context, token string) (*Session, error) {
	sessionBytes, err := r.cache.Get([]byte(token))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal(sessionBytes, s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Expired(r.ttl, r.now()) {
		return nil, ErrNotFound
	}

	return s, nil
}

func (r *MemoryRepo) Save(_ context.Context, s *Session) error {
	sessionBytes, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	expireSeconds := int((r.ttl - r.now().Sub(s.CreatedAt)).Seconds())
	if expireSeconds <= 0 {
		expireSeconds = 1
	}
	if err := r.cache.Set([]byte(s.Token), sessionBytes, expireSeconds); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	r.mu.Lock()
	r.tokens[s.Token] = struct{}{}
	r.mu.Unlock()

	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, token string) error {
	r.cache.Del([]byte(token))
	r.mu.Lock()
	delete(r.tokens, token)
	r.mu.Unlock()
	return nil
}

// ScanAndClean drops the tokens whose cache entries are gone or expired.
func (r *MemoryRepo) ScanAndClean(ctx context.Context) []string {
	r.mu.Lock()
	tokens := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		tokens = append(tokens, token)
	}
	r.mu.Unlock()

	var removed []string
	for _, token := range tokens {
		if _, err := r.Get(ctx, token); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			log.Errorf("=> memory session repo, scan and clean token %s: %s", token, err)
		}
		_ = r.Delete(ctx, token)
		removed = append(removed, token)
	}

	if len(removed) > 0 {
		log.Debugf("=> memory session repo, cleaned %d sessions", len(removed))
	}
	return removed
}
