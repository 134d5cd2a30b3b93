package handler

import (
	"context"
	"time"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/port"
	"vtobot/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type Command struct {
	commandRegistry port.CommandRegistry
	authorizer      service.Authorizer
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, authorizer service.Authorizer,
	timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, authorizer: authorizer, timeout: timeout}
}

// Handle resolves the command of an incoming update and responds in the
// background with the configured timeout.
func (c *Command) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message

	text := message.Text
	if message.Photo != nil {
		text = message.Caption
	}

	requestID, _ := uuid.NewV4()
	l := log.With().Str("requestId", requestID.String()).Logger()

	l.Debug().Str("message", text).Msg("received command")

	cmd := domain.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		l.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	if !c.authorizer.IsAuthorized(ctx, message.Chat.ID) {
		l.Warn().Int64("chatId", message.Chat.ID).Msg("rejected unauthorized chat")
		return
	}

	imageURL := make(chan string, 1)
	go c.getOptionalImage(ctx, b, message, imageURL)

	go func() {
		err := commandHandler.Respond(context.Background(), c.timeout, &domain.Message{
			ID:       message.ID,
			ChatID:   message.Chat.ID,
			Username: getUserNameOrFirstName(message.From),
			ImageURL: <-imageURL,
			Text:     text,
		})
		if err != nil {
			l.Err(err).
				Str("command", cmd).
				Msg("failed to respond to command")
		}
	}()
}

func (c *Command) getOptionalImage(ctx context.Context, b *bot.Bot, message *models.Message, url chan<- string) {
	var photos []models.PhotoSize

	if message.ReplyToMessage != nil && message.ReplyToMessage.Photo != nil {
		photos = message.ReplyToMessage.Photo
	}

	if message.Photo != nil {
		photos = message.Photo
	}

	if len(photos) == 0 {
		url <- ""
		return
	}

	f, err := b.GetFile(ctx, &bot.GetFileParams{FileID: largestPhoto(photos)})
	if err != nil {
		log.Error().Err(err).Msg("error getting file from telegram api")
		url <- ""
		return
	}

	url <- b.FileDownloadLink(f)
}

// largestPhoto picks the biggest size variant, the normalizer takes care of
// oversized inputs anyway.
func largestPhoto(photos []models.PhotoSize) string {
	return photos[len(photos)-1].FileID
}

func getUserNameOrFirstName(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
