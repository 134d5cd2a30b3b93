package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/port"
	"vtobot/internal/core/service"

	"github.com/rs/zerolog/log"
)

const tryOnUsage = "usage: /tryon [full|upper|lower] [w=1024] [h=1024] [cfg=8.0] [seed=0]"

type TryOnHandler struct {
	normalizer  port.ImageNormalizer
	generator   port.TryOnGenerator
	wardrobe    service.Wardrobe
	textSender  port.TextSender
	imageSender port.ImageSender
	command     string
	defaults    domain.TryOnParams
}

func NewTryOnHandler(normalizer port.ImageNormalizer, generator port.TryOnGenerator, wardrobe service.Wardrobe,
	textSender port.TextSender, imageSender port.ImageSender, command string,
	defaults domain.TryOnParams) *TryOnHandler {
	return &TryOnHandler{normalizer: normalizer, generator: generator, wardrobe: wardrobe,
		textSender: textSender, imageSender: imageSender, command: command, defaults: defaults}
}

func (h *TryOnHandler) GetCommand() string {
	return h.command
}

func (h *TryOnHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	actionCtx, stopAction := context.WithCancel(ctx)
	defer stopAction()

	go h.textSender.SendChatAction(actionCtx, message.ChatID, domain.SendingPhoto)

	fit := h.wardrobe.Get(message.ChatID)
	if fit.Person == nil || fit.Garment == nil {
		_ = h.textSender.NotifyAndReturnError(ctx,
			errors.New("upload a person photo with /person and a garment photo with /garment first"), message)
		return nil
	}

	class, params, err := domain.ParseTryOnArgs(domain.ParseCommandArgs(message.Text), h.defaults)
	if err != nil {
		_ = h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("%s: %w", tryOnUsage, err), message)
		return nil
	}

	// Both uploads normalize independently, nothing is shared between the
	// calls.
	sourceResult := make(chan normalizeResult, 1)
	referenceResult := make(chan normalizeResult, 1)

	go h.normalizeInto(fit.Person, domain.JPEG, sourceResult)
	go h.normalizeInto(fit.Garment, domain.PNG, referenceResult)

	source := <-sourceResult
	if source.err != nil {
		return h.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("failed to normalize person image: %w", source.err), message)
	}

	reference := <-referenceResult
	if reference.err != nil {
		return h.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("failed to normalize garment image: %w", reference.err), message)
	}

	l.Debug().Str("garmentClass", string(class)).Msg("images normalized, generating")

	generated, err := h.generator.GenerateTryOn(ctx, domain.TryOnRequest{
		SourceImage:    source.encoded,
		ReferenceImage: reference.encoded,
		GarmentClass:   class,
		Params:         params,
	})
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to generate try-on: %w", err), message)
	}

	err = h.imageSender.SendImageFileReply(ctx, message, generated)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send try-on result: %w", err), message)
	}

	stopAction()
	go h.textSender.SendChatAction(ctx, message.ChatID, domain.UploadingDocument)

	// Telegram recompresses photos, the document reply keeps the PNG lossless.
	filename := fmt.Sprintf("vto_%s_%d.png", strings.ToLower(string(class)), params.Seed)
	err = h.imageSender.SendDocumentReply(ctx, message, filename, generated)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send try-on download: %w", err), message)
	}

	return nil
}

type normalizeResult struct {
	encoded string
	err     error
}

func (h *TryOnHandler) normalizeInto(data []byte, format domain.ImageFormat, result chan<- normalizeResult) {
	encoded, err := h.normalizer.Normalize(data, format)
	result <- normalizeResult{encoded: encoded, err: err}
}
