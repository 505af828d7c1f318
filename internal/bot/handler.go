package bot

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
)

// SessionFactory creates the session of a new chat
type SessionFactory func(config *session.Config) *session.Controller

// Downloader fetches a file sent to the bot
type Downloader func(file *tele.File) (io.ReadCloser, error)

// Handler manages all bot interactions
type Handler struct {
	factory  SessionFactory
	photos   *photo.Store
	download Downloader
	timeout  time.Duration
	logger   *zap.Logger

	sessions *session.Pool[int64]
}

// NewHandler creates a new handler instance
func NewHandler(factory SessionFactory, photos *photo.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if photos == nil {
		photos = photo.NewStore(nil)
	}
	return &Handler{
		factory:  factory,
		photos:   photos,
		timeout:  time.Minute,
		logger:   logger,
		sessions: session.NewPool[int64](),
	}
}

// Inline keyboard buttons
var (
	btnLanguage = tele.Btn{Unique: "lang"}
	btnNext     = tele.Btn{Unique: "next"}
)

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers(b *tele.Bot) {
	h.download = b.File

	b.Use(logMiddleware(h.logger))

	// Commands
	b.Handle("/start", h.handleStart)
	b.Handle("/languages", h.handleLanguages)
	b.Handle("/learn", h.handleLearn)
	b.Handle("/next", h.handleNext)
	b.Handle("/translate", h.handleTranslate)

	// Callback queries (inline buttons)
	b.Handle(&btnLanguage, h.handleLanguageButton)
	b.Handle(&btnNext, h.handleNextButton)

	// Plain messages
	b.Handle(tele.OnText, h.handleText)
	b.Handle(tele.OnPhoto, h.handlePhoto)
}

// Session returns the session of a chat, creating it on first use
func (h *Handler) Session(chatID int64) *session.Controller {
	c, created := h.sessions.GetOrCreate(chatID, func() *session.Controller {
		return h.factory(&session.Config{ReleasePhoto: h.releasePhoto})
	})
	if created {
		h.logger.Info("Session created", zap.Int64("chat_id", chatID), zap.String("session", c.ID()))
	}
	return c
}

// ExpireSessions closes chat sessions idle for longer than ttl; the next
// message of such a chat starts over with a fresh session
func (h *Handler) ExpireSessions(ttl time.Duration) int {
	return h.sessions.Expire(ttl)
}

// Close closes every chat session
func (h *Handler) Close() {
	h.sessions.CloseAll()
}

// releasePhoto deletes a downloaded photo once its session let go of it
func (h *Handler) releasePhoto(ref photo.Ref) {
	if err := h.photos.Remove(ref); err != nil {
		h.logger.Warn("Failed to remove photo", zap.String("photo", ref.Name()), zap.Error(err))
	}
}

func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

// logMiddleware logs every update before handling it
func logMiddleware(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if chat := c.Chat(); chat != nil {
				logger.Debug("Update",
					zap.Int64("chat_id", chat.ID),
					zap.String("text", strings.TrimSpace(c.Text())),
				)
			}
			return next(c)
		}
	}
}
