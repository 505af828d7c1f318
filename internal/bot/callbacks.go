package bot

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/languages"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

func (h *Handler) handleLanguageButton(c tele.Context) error {
	lang, err := languages.Lookup(cleanCallbackData(c.Data()))
	if err != nil {
		h.logger.Warn("Unknown language button", zap.String("data", c.Data()))
		return c.Respond(&tele.CallbackResponse{Text: "Unknown language"})
	}
	if err := c.Respond(&tele.CallbackResponse{Text: "Fetching " + lang.Label + " words..."}); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.learn(c, lang)
}

func (h *Handler) handleNextButton(c tele.Context) error {
	s := h.Session(c.Chat().ID)
	s.Next()
	state := s.State()

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	err := c.Edit(formatWord(state), nextMarkup(state))
	if err == nil {
		return nil
	}
	// Already showing the last word
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	h.logger.Warn("Failed to edit message, sending new", zap.Error(err))
	return c.Send(formatWord(state), nextMarkup(state))
}
