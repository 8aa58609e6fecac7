package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/parqio/spot-booking/internal/httperr"
)

// PayoutLimiter caps payout requests per user per calendar day. The counter
// lives in redis so the cap survives restarts and holds across instances.
type PayoutLimiter struct {
	rdb    *redis.Client
	maxPer int
}

const DefaultDailyPayouts = 3

func NewPayoutLimiter(rdb *redis.Client, maxPerDay int) *PayoutLimiter {
	if maxPerDay <= 0 {
		maxPerDay = DefaultDailyPayouts
	}
	return &PayoutLimiter{rdb: rdb, maxPer: maxPerDay}
}

// Allow consumes one attempt for the user today. Returns a business error
// once the daily cap is reached.
func (l *PayoutLimiter) Allow(ctx context.Context, userID uint, now time.Time) error {
	key := fmt.Sprintf("payout:%d:%s", userID, now.Format("2006-01-02"))

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		// first attempt today: expire the key after the day is well past
		l.rdb.Expire(ctx, key, 48*time.Hour)
	}

	if n > int64(l.maxPer) {
		return httperr.ErrBusiness("payout_limit_reached")
	}
	return nil
}
