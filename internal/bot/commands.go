package bot

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/session"
)

const helpText = `Commands:
/languages - pick a language
/learn <language> - fetch new vocabulary
/next - show the next word
/translate <text> - translate into the current language

Any other message is translated, photos too.`

func (h *Handler) handleStart(c tele.Context) error {
	s := h.Session(c.Chat().ID)
	text := fmt.Sprintf("Welcome! You are learning %s.\n\n%s", s.State().Language.Label, helpText)
	return c.Send(text, languagesMarkup())
}

func (h *Handler) handleLanguages(c tele.Context) error {
	return c.Send("Choose a language:", languagesMarkup())
}

func (h *Handler) handleLearn(c tele.Context) error {
	name := strings.Join(c.Args(), " ")
	if strings.TrimSpace(name) == "" {
		return c.Send("Usage: /learn <language>", languagesMarkup())
	}
	lang, err := languages.Lookup(name)
	if err != nil {
		return c.Send(err.Error(), languagesMarkup())
	}
	return h.learn(c, lang)
}

func (h *Handler) learn(c tele.Context, lang languages.Language) error {
	s := h.Session(c.Chat().ID)

	ctx, cancel := h.requestContext()
	defer cancel()

	if _, err := s.SelectLanguage(ctx, lang); err != nil {
		return h.sendRequestError(c, err)
	}
	return c.Send(formatWord(s.State()), nextMarkup(s.State()))
}

func (h *Handler) handleNext(c tele.Context) error {
	s := h.Session(c.Chat().ID)
	s.Next()
	return c.Send(formatWord(s.State()), nextMarkup(s.State()))
}

func (h *Handler) handleTranslate(c tele.Context) error {
	text := strings.Join(c.Args(), " ")
	if strings.TrimSpace(text) == "" {
		return c.Send("Usage: /translate <text>")
	}
	return h.translate(c, text)
}

func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Unknown commands
	if strings.HasPrefix(text, "/") {
		return c.Send(helpText)
	}
	return h.translate(c, text)
}

func (h *Handler) translate(c tele.Context, text string) error {
	s := h.Session(c.Chat().ID)

	ctx, cancel := h.requestContext()
	defer cancel()

	s.SetInput(text)
	res, err := s.TranslateInput(ctx)
	if err != nil {
		return h.sendRequestError(c, err)
	}
	return c.Send(formatTranslation(s.State().Language, res))
}

func (h *Handler) sendRequestError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		return c.Send("Nothing to translate.")
	case errors.Is(err, session.ErrUnsupported):
		return c.Send("This is not available here.")
	}
	h.logger.Error("Request rejected", zap.Int64("chat_id", c.Chat().ID), zap.Error(err))
	return c.Send("Something went wrong. Please try again later.")
}

// formatWord renders the current vocabulary word
func formatWord(s session.State) string {
	if s.VocabularyStatus == session.StatusFailed && s.LastFailure != nil {
		return s.LastFailure.Marker()
	}
	word, ok := s.CurrentWord()
	if !ok {
		return fmt.Sprintf("No %s words yet. Use /learn %s", s.Language.Label, s.Language.Label)
	}
	return fmt.Sprintf("%s %d/%d: %s", s.Language.Label, s.Index+1, len(s.Words), word)
}

// formatTranslation renders a translation result or its failure marker
func formatTranslation(lang languages.Language, res session.Result[string]) string {
	if !res.OK() {
		return res.Failure.Marker()
	}
	if res.Value == "" {
		return "(empty translation)"
	}
	return fmt.Sprintf("%s: %s", lang.Label, res.Value)
}

func languagesMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, l := range languages.All() {
		rows = append(rows, menu.Row(menu.Data(l.Label, btnLanguage.Unique, l.Code)))
	}
	menu.Inline(rows...)
	return menu
}

// nextMarkup offers a Next button while there are words left
func nextMarkup(s session.State) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	if !s.HasNext() {
		return menu
	}
	menu.Inline(menu.Row(menu.Data("Next ▶", btnNext.Unique)))
	return menu
}
