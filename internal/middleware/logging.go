package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

func LogUpdate() Middleware {
	return func(next UpdateHandler) UpdateHandler {
		return UpdateHandlerFunc(func(ctx context.Context, update tgbotapi.Update) {
			userID, _ := UpdateUserID(update)
			log.Infof(" ====> update [%d] from user [%d]: %q", update.UpdateID, userID, UpdateText(update))
			next.HandleUpdate(ctx, update)
		})
	}
}
