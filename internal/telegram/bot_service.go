// Package telegram notifies an administrators' Telegram chat about complaint
// activity and answers a few read-only commands there.
package telegram

import (
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ErrQueueFull is returned by Publish when notifications back up.
var ErrQueueFull = errors.New("telegram notification queue is full")

const queueSize = 64

// Sender is the part of tgbotapi.BotAPI used to post messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotService posts complaint events to one chat and serves /stats and /pending
// to members of that chat.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Sender    Sender
	Storage   storage.Storage
	Localizer *localization.Localizer
	ChatID    int64
	Lang      string

	queue chan events.Event
	log   zerolog.Logger
}

var _ events.Publisher = (*BotService)(nil)

// NewBotService authorizes the bot token and returns a service bound to chatID.
func NewBotService(token string, chatID int64, lang string, s storage.Storage, l *localization.Localizer, log zerolog.Logger) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Info().Str("account", bot.Self.UserName).Msg("telegram bot authorized")

	svc := NewNotifier(bot, chatID, lang, s, l, log)
	svc.BotAPI = bot
	return svc, nil
}

// NewNotifier builds a service that only sends. Listen needs BotAPI set.
func NewNotifier(sender Sender, chatID int64, lang string, s storage.Storage, l *localization.Localizer, log zerolog.Logger) *BotService {
	return &BotService{
		Sender:    sender,
		Storage:   s,
		Localizer: l,
		ChatID:    chatID,
		Lang:      lang,
		queue:     make(chan events.Event, queueSize),
		log:       log,
	}
}

// Publish queues ev for the notification loop. It never waits on Telegram.
func (s *BotService) Publish(_ context.Context, ev events.Event) error {
	select {
	case s.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued notifications until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.queue:
			s.notify(ctx, ev)
		}
	}
}

func (s *BotService) notify(ctx context.Context, ev events.Event) {
	text, err := s.render(ctx, ev)
	if err != nil {
		s.log.Error().Err(err).Str("complaint_id", ev.ComplaintID).Msg("failed to render notification")
		return
	}
	s.send(s.ChatID, text)
}

func (s *BotService) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.Sender.Send(msg); err != nil {
		s.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send telegram message")
	}
}

// Listen answers commands sent to the bot in the configured chat.
// It blocks until ctx is cancelled.
func (s *BotService) Listen(ctx context.Context) {
	if s.BotAPI == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)
	defer s.BotAPI.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				s.HandleCommand(ctx, update.Message)
			}
		}
	}
}
