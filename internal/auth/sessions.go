package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a token does not map to a live session.
var ErrNoSession = errors.New("session not found")

// SessionCookie is the name of the browser cookie carrying the session token.
const SessionCookie = "pp_session"

// DefaultSessionTTL bounds how long a login survives without re-authenticating.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore maps opaque session tokens to user ids server-side. The
// cookie only ever carries the token.
type SessionStore interface {
	Create(ctx context.Context, userID string) (token string, err error)
	Get(ctx context.Context, token string) (userID string, err error)
	Delete(ctx context.Context, token string) error
}

// RedisSessions keeps sessions in Redis with a TTL per token.
type RedisSessions struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessions{Client: client, TTL: ttl}
}

func (s *RedisSessions) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.Client.Set(ctx, "session:"+token, userID, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.Client.Get(ctx, "session:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, "session:"+token).Err()
}

// MemorySessions is an in-process SessionStore used by tests and by
// deployments without Redis. Entries expire lazily on read.
type MemorySessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memorySession
}

type memorySession struct {
	userID  string
	expires time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessions{ttl: ttl, entries: make(map[string]memorySession)}
}

func (s *MemorySessions) Create(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.entries[token] = memorySession{userID: userID, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessions) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return "", ErrNoSession
	}
	if time.Now().After(entry.expires) {
		delete(s.entries, token)
		return "", ErrNoSession
	}
	return entry.userID, nil
}

func (s *MemorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}
