package bot

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/photo"
)

func (h *Handler) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	s := h.Session(c.Chat().ID)
	if !s.Capabilities().PhotoTranslate {
		return c.Send("Photo translation is not available here.")
	}
	if h.download == nil {
		return fmt.Errorf("bot handler not registered")
	}

	body, err := h.download(&msg.Photo.File)
	if err != nil {
		h.logger.Error("Failed to download photo", zap.Error(err))
		return c.Send("Could not download the photo.")
	}
	defer body.Close()

	ref, err := h.photos.Save(body, msg.Photo.UniqueID+".jpg")
	if err != nil {
		if errors.Is(err, photo.ErrNotImage) || errors.Is(err, photo.ErrTooLarge) {
			return c.Send("That does not look like a usable photo.")
		}
		h.logger.Error("Failed to store photo", zap.Error(err))
		return c.Send("Could not store the photo.")
	}

	if err := s.SetPhoto(ref); err != nil {
		h.releasePhoto(ref)
		return h.sendRequestError(c, err)
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	res, err := s.TranslatePhoto(ctx)
	if err != nil {
		return h.sendRequestError(c, err)
	}
	return c.Send(formatTranslation(s.State().Language, res))
}
