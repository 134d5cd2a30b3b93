package commands

import (
	"context"
	"fmt"
	"time"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/port"
	"vtobot/internal/core/service"

	"github.com/rs/zerolog/log"
)

type PersonHandler struct {
	fetcher    port.FileFetcher
	wardrobe   service.Wardrobe
	textSender port.TextSender
	command    string
}

func NewPersonHandler(fetcher port.FileFetcher, wardrobe service.Wardrobe, textSender port.TextSender,
	command string) *PersonHandler {
	return &PersonHandler{fetcher: fetcher, wardrobe: wardrobe, textSender: textSender, command: command}
}

func (h *PersonHandler) GetCommand() string {
	return h.command
}

func (h *PersonHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if message.ImageURL == "" {
		_ = h.textSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
		return nil
	}

	photo, err := h.fetcher.Fetch(ctx, message.ImageURL)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to fetch photo: %w", err), message)
	}

	h.wardrobe.SetPerson(message.ChatID, photo)

	l.Debug().Int("bytes", len(photo)).Msg("person photo stored")

	reply := "person photo saved, send a garment with /garment"
	if h.wardrobe.Get(message.ChatID).Garment != nil {
		reply = "person photo saved, run /tryon when ready"
	}

	_, err = h.textSender.SendMessageReply(ctx, message, reply)
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		return err
	}

	return nil
}
