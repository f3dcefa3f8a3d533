package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iamwavecut/ngmod/internal/bot"
	"github.com/iamwavecut/ngmod/internal/config"
	"github.com/iamwavecut/ngmod/internal/event"
	"github.com/iamwavecut/ngmod/internal/handlers/autorole"
	"github.com/iamwavecut/ngmod/internal/handlers/gate"
	"github.com/iamwavecut/ngmod/internal/handlers/moderation"
	"github.com/iamwavecut/ngmod/internal/i18n"
	"github.com/iamwavecut/ngmod/internal/infrastructure/discord"
	"github.com/iamwavecut/ngmod/internal/lifecycle"
	"github.com/iamwavecut/ngmod/internal/logsink"
	"github.com/iamwavecut/ngmod/internal/observability"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
	"github.com/iamwavecut/ngmod/internal/restriction"
)

const shutdownTimeout = 15 * time.Second

func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	log.SetFormatter(&config.NbFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))
	i18n.SetDefaultLanguage(cfg.DefaultLanguage)
	return cfg, nil
}

func runBot(cctx *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := restriction.New(restriction.WithWarnCooldown(cfg.Moderation.WarnCooldown))
	if err := observability.Init(ctx, store.Len); err != nil {
		return errors.Wrap(err, "init observability")
	}

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	platform := discord.NewOperations(session)
	service := bot.NewService(platform, i18n.DefaultLanguage())

	scheduler := moderation.NewScheduler()
	sink := logsink.New(platform, cfg.Moderation.LogChannels, cfg.Moderation.HistoryChannels)
	evaluator := permissions.NewEvaluator(cfg.Moderation.PrivilegedRoles)

	bot.RegisterUpdateHandler("autorole", autorole.NewAutoRole(service, cfg.Moderation.AutoRoleName))
	bot.RegisterUpdateHandler("gate", gate.NewGate(service, store))
	bot.RegisterUpdateHandler("moderation", moderation.NewModeration(service, store, sink, scheduler, evaluator))
	processor := bot.NewUpdateProcessor(service, cfg.EnabledHandlers)

	queue := event.NewQueue(cfg.Dispatch.QueueSize, cfg.Dispatch.Workers, processor.Process)
	runtime := lifecycle.NewRuntime().
		Register("metrics", observability.NewMetricsServer(cfg.Observability.MetricsAddr)).
		Register("scheduler", scheduler).
		Register("queue", queue).
		Register("gateway", discord.NewClient(session, queue, cfg.SyncCommands))

	if err := runtime.Start(ctx); err != nil {
		return err
	}
	log.WithField("handlers", cfg.EnabledHandlers).Info("ngmod is running")

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := runtime.Stop(shutdownCtx)
	if err := observability.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("cant flush observability")
	}
	return stopErr
}
