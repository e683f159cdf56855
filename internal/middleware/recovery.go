package middleware

import (
	"context"
	"runtime/debug"

	"github.com/2beens/nutribot/internal/telemetry/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

func PanicRecovery(metricsManager *metrics.Manager) Middleware {
	return func(next UpdateHandler) UpdateHandler {
		return UpdateHandlerFunc(func(ctx context.Context, update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("bot: panic handling update %d: %v\n%s", update.UpdateID, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleUpdatePanic.Inc()
					}
				}
			}()

			next.HandleUpdate(ctx, update)
		})
	}
}
