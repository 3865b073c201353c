package redis

import (
	"CommunityDirectory/internal/core/ports"
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const loginTicketPrefix = "login_ticket:"

var _ ports.LoginTicketStore = (*loginTicketStore)(nil)

type loginTicketStore struct {
	rdb *goredis.Client
}

func NewLoginTicketStore(rdb *goredis.Client) ports.LoginTicketStore {
	return &loginTicketStore{rdb: rdb}
}

func (s *loginTicketStore) Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, loginTicketPrefix+userID.String(), "1", ttl).Err()
}

// Consume is single-use: DEL reports how many keys it removed.
func (s *loginTicketStore) Consume(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.rdb.Del(ctx, loginTicketPrefix+userID.String()).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
