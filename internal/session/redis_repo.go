package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix = "blogfront-session||"
	tokensSetKey     = "blogfront-sessions"
)

var _ Repo = (*RedisRepo)(nil)

type RedisRepo struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
}

func NewRedisRepo(ttl time.Duration, redisClient *redis.Client) *RedisRepo {
	return &RedisRepo{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (r *RedisRepo) Get(ctx context.Context, token string) (*Session, error) {
	cmd := r.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal([]byte(cmd.Val()), s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Expired(r.ttl, r.now()) {
		return nil, ErrNotFound
	}

	return s, nil
}

func (r *RedisRepo) Save(ctx context.Context, s *Session) error {
	sessionBytes, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.redisClient.Set(ctx, sessionKeyPrefix+s.Token, sessionBytes, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	// add token to list of sessions
	if err := r.redisClient.SAdd(ctx, tokensSetKey, s.Token).Err(); err != nil {
		return fmt.Errorf("add session token: %w", err)
	}

	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, token string) error {
	if err := r.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// remove token from the list of sessions
	if err := r.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}

	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (r *RedisRepo) ScanAndClean(ctx context.Context) []string {
	cmd := r.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! session repo, scan and clean, get sessions: %s", err)
		return nil
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> session repo, scan and clean abort, no sessions")
		return nil
	}

	log.Debugf("=> session repo, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		cmd := r.redisClient.Get(ctx, sessionKeyPrefix+token)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// dangling token
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> session repo, scan and clean token %s: %s", token, err)
			continue
		}

		s := &Session{}
		if err := json.Unmarshal([]byte(cmd.Val()), s); err != nil {
			log.Errorf("=> session repo, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if s.Expired(r.ttl, r.now()) {
			log.Tracef("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	var removed []string
	for _, token := range toRemove {
		if err := r.Delete(ctx, token); err != nil {
			log.Errorf("=> session repo, clean token %s: %s", token, err)
			continue
		}
		removed = append(removed, token)
	}

	return removed
}
