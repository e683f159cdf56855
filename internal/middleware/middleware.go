package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type UpdateHandlerFunc func(ctx context.Context, update tgbotapi.Update)

func (f UpdateHandlerFunc) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	f(ctx, update)
}

type Middleware func(next UpdateHandler) UpdateHandler

// Chain wraps h so that the first middleware is the outermost one.
func Chain(h UpdateHandler, middlewares ...Middleware) UpdateHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// UpdateUserID returns the id of the user who sent the update.
func UpdateUserID(update tgbotapi.Update) (int64, bool) {
	var from *tgbotapi.User
	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	}
	if from == nil {
		return 0, false
	}
	return from.ID, true
}

// UpdateText returns the message text or the callback data of the update.
func UpdateText(update tgbotapi.Update) string {
	switch {
	case update.Message != nil:
		return update.Message.Text
	case update.CallbackQuery != nil:
		return update.CallbackQuery.Data
	default:
		return ""
	}
}
