package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/photo"
)

// DefaultSessionTTL is how long an idle chat keeps its session
const DefaultSessionTTL = 24 * time.Hour

// Config holds the Telegram settings
type Config struct {
	Token       string
	PollTimeout time.Duration
	SessionTTL  time.Duration // Idle chat sessions are closed after this; DefaultSessionTTL when 0, never when negative
}

// Bot is a running Telegram front-end
type Bot struct {
	bot        *tele.Bot
	handler    *Handler
	sessionTTL time.Duration
	logger     *zap.Logger
}

// New connects to Telegram and registers the handlers
func New(config *Config, factory SessionFactory, photos *photo.Store, logger *zap.Logger) (*Bot, error) {
	if config == nil || config.Token == "" {
		return nil, errors.New("telegram bot token is required (set POLYGLOT_BOT_TOKEN or bot.token)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pollTimeout := config.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  config.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	h := NewHandler(factory, photos, logger)
	h.RegisterHandlers(b)

	sessionTTL := config.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = DefaultSessionTTL
	}

	return &Bot{bot: b, handler: h, sessionTTL: sessionTTL, logger: logger}, nil
}

// Run polls for updates until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		b.logger.Info("Bot started", zap.String("username", b.bot.Me.Username))
		b.bot.Start()
	}()
	if b.sessionTTL > 0 {
		go expireLoop(ctx, b.handler, b.sessionTTL, b.logger)
	}

	<-ctx.Done()
	b.logger.Info("Stopping bot")
	b.bot.Stop()
	b.handler.Close()
	return nil
}

// expireLoop sweeps idle chat sessions until ctx is done
func expireLoop(ctx context.Context, h *Handler, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.ExpireSessions(ttl); n > 0 {
				logger.Info("Expired idle chat sessions", zap.Int("count", n))
			}
		}
	}
}
