package redis

import (
	"CommunityDirectory/internal/core/ports"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_session:"
)

var _ ports.SessionStore = (*sessionStore)(nil)

type sessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewSessionStore keeps one live session per user; logging in again
// replaces the previous token.
func NewSessionStore(rdb *goredis.Client, ttl time.Duration, baseLogger *zerolog.Logger) ports.SessionStore {
	return &sessionStore{
		rdb: rdb,
		ttl: ttl,
		log: baseLogger.With().Str("component", "session_store").Logger(),
	}
}

func (s *sessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.RevokeUser(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKeyPrefix+token, userID.String(), s.ttl)
		p.Set(ctx, userSessionKeyPrefix+userID.String(), token, s.ttl)
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to store session")
		return "", err
	}
	return token, nil
}

func (s *sessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (s *sessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	key := sessionKeyPrefix + token
	if raw, err := s.rdb.Get(ctx, key).Result(); err == nil && raw != "" {
		// Only drop the mapping if it still points at this token.
		userKey := userSessionKeyPrefix + raw
		if cur, _ := s.rdb.Get(ctx, userKey).Result(); cur == token {
			s.rdb.Del(ctx, userKey)
		}
	}
	return s.rdb.Del(ctx, key).Err()
}

func (s *sessionStore) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionKeyPrefix + userID.String()
	token, err := s.rdb.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	keys := []string{userKey}
	if token != "" {
		keys = append(keys, sessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, keys...).Err()
}
