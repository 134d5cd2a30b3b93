package commands

import (
	"context"
	"time"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/port"

	"github.com/rs/zerolog/log"
)

const startText = `Virtual try-on bot.

/person - attach a photo of the person (or reply to one)
/garment - attach a photo of the product (or reply to one)
/tryon [full|upper|lower] [w=1024] [h=1024] [cfg=8.0] [seed=0] - generate
/reset - clear the uploaded photos

Tips:
- pick upper/lower/full to match the garment
- oversized or undersized photos are normalized automatically
- keep product images tightly cropped for cleaner results`

type StartHandler struct {
	textSender port.TextSender
	command    string
}

func NewStartHandler(textSender port.TextSender, command string) *StartHandler {
	return &StartHandler{textSender: textSender, command: command}
}

func (h *StartHandler) GetCommand() string {
	return h.command
}

func (h *StartHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := h.textSender.SendMessageReply(ctx, message, startText)
	if err != nil {
		log.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		return err
	}

	return nil
}
