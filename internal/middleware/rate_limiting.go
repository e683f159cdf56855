package middleware

import (
	"context"
	"fmt"

	"github.com/2beens/nutribot/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type UpdateRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit drops updates of users sending more than allowedPerMin per minute.
// Limiter errors let the update through.
func RateLimit(rateLimiter UpdateRateLimiter, allowedPerMin int, metricsManager *metrics.Manager) Middleware {
	return func(next UpdateHandler) UpdateHandler {
		return UpdateHandlerFunc(func(ctx context.Context, update tgbotapi.Update) {
			userID, ok := UpdateUserID(update)
			if !ok {
				next.HandleUpdate(ctx, update)
				return
			}

			res, err := rateLimiter.Allow(
				ctx,
				fmt.Sprintf("rate-limit::user::%d", userID),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limit check for user %d: %s", userID, err)
				next.HandleUpdate(ctx, update)
				return
			}

			if res.Allowed > 0 {
				next.HandleUpdate(ctx, update)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedUpdates.Inc()
			}
			log.Warnf("update %d from user %d rate limited, retry after %f seconds", update.UpdateID, userID, res.RetryAfter.Seconds())
		})
	}
}
