package bot

import (
	"context"
	"sync"

	"github.com/2beens/nutribot/internal/middleware"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot long-polls Telegram and hands every update, wrapped in the given
// middlewares, to the command surface. Updates of one user are handled in
// the order they arrived, different users are handled concurrently.
type Bot struct {
	api         botAPI
	commands    *Commands
	handler     middleware.UpdateHandler
	pollTimeout int
	wg          sync.WaitGroup

	// a user id is present while its queue is being drained
	queuesMu sync.Mutex
	queues   map[int64][]tgbotapi.Update
}

func NewBot(api botAPI, commands *Commands, pollTimeout int, middlewares ...middleware.Middleware) *Bot {
	b := &Bot{
		api:         api,
		commands:    commands,
		pollTimeout: pollTimeout,
		queues:      make(map[int64][]tgbotapi.Update),
	}
	b.handler = middleware.Chain(middleware.UpdateHandlerFunc(b.HandleUpdate), middlewares...)
	return b
}

// Start blocks until ctx is done, then waits for in-flight updates.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	log.Infof(" > bot polling for updates, timeout %ds", b.pollTimeout)

	defer func() {
		b.api.StopReceivingUpdates()
		b.wg.Wait()
		log.Debugln("bot: stopped receiving updates")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.enqueue(ctx, update)
		}
	}
}

func (b *Bot) enqueue(ctx context.Context, update tgbotapi.Update) {
	userID := updateUserID(update)

	b.queuesMu.Lock()
	queue, draining := b.queues[userID]
	b.queues[userID] = append(queue, update)
	b.queuesMu.Unlock()

	if draining {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.drain(ctx, userID)
	}()
}

func (b *Bot) drain(ctx context.Context, userID int64) {
	for {
		b.queuesMu.Lock()
		queue := b.queues[userID]
		if len(queue) == 0 {
			delete(b.queues, userID)
			b.queuesMu.Unlock()
			return
		}
		update := queue[0]
		b.queues[userID] = queue[1:]
		b.queuesMu.Unlock()

		b.handler.HandleUpdate(ctx, update)
	}
}

func updateUserID(update tgbotapi.Update) int64 {
	if from := update.SentFrom(); from != nil {
		return from.ID
	}
	return 0
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	replies := b.commands.Handle(ctx, Message{
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		Text:      msg.Text,
	})
	b.send(msg.Chat.ID, msg.MessageID, replies)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Errorf("bot: answer callback %s: %s", cq.ID, err)
	}

	chatID := cq.From.ID
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
	}

	replies := b.commands.HandleCallback(ctx, cq.From.ID, cq.Data)
	b.send(chatID, 0, replies)
}

func (b *Bot) send(chatID int64, replyTo int, replies []Reply) {
	for _, reply := range replies {
		var chattable tgbotapi.Chattable
		if reply.PhotoPath != "" {
			chattable = tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(reply.PhotoPath))
		} else {
			msg := tgbotapi.NewMessage(chatID, reply.Text)
			msg.ReplyToMessageID = replyTo
			if len(reply.Choices) > 0 {
				msg.ReplyMarkup = inlineKeyboard(reply.Choices)
			}
			chattable = msg
		}

		if _, err := b.api.Send(chattable); err != nil {
			log.Errorf("bot: send reply to chat %d: %s", chatID, err)
		}
	}
}

func inlineKeyboard(choices [][]Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, row := range choices {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, choice := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
