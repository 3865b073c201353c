package redis

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ ports.OTPRateLimiter = (*otpLimiter)(nil)

type otpLimiter struct {
	rdb         *goredis.Client
	cooldown    time.Duration
	window      time.Duration
	maxInWindow int
	log         zerolog.Logger
}

// NewOTPLimiter enforces a cooldown between codes and a cap per window.
// Exceeding the cap blocks the subject for three windows.
func NewOTPLimiter(rdb *goredis.Client, cooldown, window time.Duration, maxInWindow int, baseLogger *zerolog.Logger) ports.OTPRateLimiter {
	return &otpLimiter{
		rdb:         rdb,
		cooldown:    cooldown,
		window:      window,
		maxInWindow: maxInWindow,
		log:         baseLogger.With().Str("component", "otp_limiter").Logger(),
	}
}

func (l *otpLimiter) Allow(ctx context.Context, subject string, purpose domain.OTPPurpose) error {
	suffix := strings.ToLower(subject) + ":" + string(purpose)
	blockKey := "otp:block:" + suffix
	lastKey := "otp:last:" + suffix
	countKey := "otp:count:" + suffix

	if ttl, _ := l.rdb.TTL(ctx, blockKey).Result(); ttl > 0 {
		return fmt.Errorf("%w: try again in %d seconds", domain.ErrRateLimited, int(ttl.Seconds()))
	}
	if ttl, _ := l.rdb.TTL(ctx, lastKey).Result(); ttl > 0 {
		return fmt.Errorf("%w: please wait %d seconds before requesting another code", domain.ErrRateLimited, int(ttl.Seconds()))
	}

	if l.maxInWindow > 0 {
		cnt, err := l.incrWithExpire(ctx, countKey)
		if err != nil {
			return err
		}
		if int(cnt) > l.maxInWindow {
			block := l.window * 3
			l.rdb.Set(ctx, blockKey, "1", block)
			l.log.Warn().Str("subject", subject).Str("purpose", string(purpose)).Msg("OTP requests blocked")
			return fmt.Errorf("%w: try again in %d seconds", domain.ErrRateLimited, int(block.Seconds()))
		}
	}

	if l.cooldown > 0 {
		l.rdb.Set(ctx, lastKey, "1", l.cooldown)
	}
	return nil
}

// incrWithExpire starts the window on the first hit only.
func (l *otpLimiter) incrWithExpire(ctx context.Context, key string) (int64, error) {
	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, err
		}
	}
	return cnt, nil
}
