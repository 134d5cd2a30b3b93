package main

import (
	"context"
	"os"
	"os/signal"
	"time"
	"vtobot/internal/adapters/file"
	"vtobot/internal/adapters/generator"
	"vtobot/internal/adapters/handler"
	"vtobot/internal/adapters/normalizer"
	"vtobot/internal/adapters/sender"
	"vtobot/internal/core/domain"
	"vtobot/internal/core/domain/commands"
	"vtobot/internal/core/service"

	"github.com/rs/zerolog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting vtobot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	viper.SetDefault("tryon.width", 1024)
	viper.SetDefault("tryon.height", 1024)
	viper.SetDefault("tryon.cfg_scale", 8.0)
	viper.SetDefault("tryon.seed", 0)
	viper.SetDefault("nova.timeout", "5m")
	viper.SetDefault("session.ttl", "30m")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegramSender(b)

	fittingRoom := service.NewFittingRoom(ctx)

	authorizer, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	novaTimeout, err := time.ParseDuration(viper.GetString("nova.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for nova in config")
	}

	novaGenerator := generator.NewNova(
		viper.GetString("nova.endpoint"),
		viper.GetString("nova.api_key"),
		novaTimeout)

	imageNormalizer := normalizer.NewImagingNormalizer()
	fetcher := file.NewHTTPFetcher()

	tryOnDefaults := domain.TryOnParams{
		Width:    viper.GetInt("tryon.width"),
		Height:   viper.GetInt("tryon.height"),
		CfgScale: viper.GetFloat64("tryon.cfg_scale"),
		Seed:     viper.GetInt64("tryon.seed"),
	}
	if err := tryOnDefaults.Validate(); err != nil {
		log.Panic().Err(err).Msg("invalid try-on defaults in config")
	}

	commandRegistry := &domain.CommandRegistry{}
	commandRegistry.Register(commands.NewStartHandler(s, "/start"))
	commandRegistry.Register(commands.NewPersonHandler(fetcher, fittingRoom, s, "/person"))
	commandRegistry.Register(commands.NewGarmentHandler(fetcher, fittingRoom, s, "/garment"))
	commandRegistry.Register(commands.NewTryOnHandler(imageNormalizer, novaGenerator, fittingRoom, s, s,
		"/tryon", tryOnDefaults))
	commandRegistry.Register(commands.NewResetHandler(fittingRoom, s, "/reset"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler := handler.NewCommand(commandRegistry, authorizer, handlerTimeout)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
