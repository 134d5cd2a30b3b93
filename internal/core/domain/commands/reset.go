package commands

import (
	"context"
	"time"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/port"
	"vtobot/internal/core/service"

	"github.com/rs/zerolog/log"
)

type ResetHandler struct {
	wardrobe   service.Wardrobe
	textSender port.TextSender
	command    string
}

func NewResetHandler(wardrobe service.Wardrobe, textSender port.TextSender, command string) *ResetHandler {
	return &ResetHandler{wardrobe: wardrobe, textSender: textSender, command: command}
}

func (h *ResetHandler) GetCommand() string {
	return h.command
}

func (h *ResetHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	h.wardrobe.Clear(message.ChatID)

	_, err := h.textSender.SendMessageReply(ctx, message, "cleared, upload new photos with /person and /garment")
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		return err
	}

	return nil
}
