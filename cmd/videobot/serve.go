package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jalilimmd/video-downloader-bot/internal/bot"
	"github.com/jalilimmd/video-downloader-bot/internal/config"
	"github.com/jalilimmd/video-downloader-bot/internal/delivery"
	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
	"github.com/jalilimmd/video-downloader-bot/internal/logger"
	"github.com/jalilimmd/video-downloader-bot/internal/server"
	"github.com/jalilimmd/video-downloader-bot/internal/session"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the ops HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config.toml")
	return cmd
}

func runServe(cfgPath string) {
	fx.New(
		fx.Provide(
			func() (config.Config, error) { return provideConfig(cfgPath) },
			provideLogger,
			provideExtractor,
			provideCorrelator,
			providePipeline,
			provideBotAPI,
			bot.New,
			provideServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(registerBot, registerServer),
	).Run()
}

func provideConfig(cfgPath string) (config.Config, error) {
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Telegram.Token == "" {
		return config.Config{}, fmt.Errorf("telegram token is required (config or TELEGRAM_TOKEN)")
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideExtractor(cfg config.Config, log *slog.Logger) (extractor.Extractor, error) {
	if cfg.Download.InstallYTDLP {
		if err := extractor.Install(context.Background()); err != nil {
			return nil, err
		}
	}
	return extractor.NewYTDLPExtractor(
		log,
		time.Duration(cfg.Download.ProbeTimeoutSeconds)*time.Second,
		time.Duration(cfg.Download.TimeoutSeconds)*time.Second,
	), nil
}

func provideCorrelator(cfg config.Config, log *slog.Logger) *session.Correlator {
	return session.NewCorrelator(
		log,
		session.Mode(cfg.Session.Mode),
		session.NewMemoryStore(),
		session.NewCodec(cfg.Session.MaxTokenBytes),
	)
}

func providePipeline(cfg config.Config, log *slog.Logger, ex extractor.Extractor, correlator *session.Correlator) (*delivery.Pipeline, error) {
	if err := os.MkdirAll(cfg.Download.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	janitor := delivery.NewJanitor(log, correlator)
	return delivery.NewPipeline(log, ex, janitor, cfg.Download.Dir, cfg.Download.MaxUploadBytes), nil
}

func provideBotAPI(cfg config.Config, log *slog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	log.Info("authorized", slog.String("username", api.Self.UserName))
	return api, nil
}

// statusSource bridges the correlator and pipeline counters to /status.
type statusSource struct {
	correlator *session.Correlator
	pipeline   *delivery.Pipeline
}

func (s statusSource) OpenCorrelations() int { return s.correlator.OpenCount() }
func (s statusSource) ActiveJobs() int64     { return s.pipeline.ActiveJobs() }

func provideServer(cfg config.Config, log *slog.Logger, correlator *session.Correlator, pipeline *delivery.Pipeline) *server.Server {
	return server.New(log, cfg.Server.Addr, statusSource{correlator: correlator, pipeline: pipeline})
}

func registerBot(lc fx.Lifecycle, b *bot.Bot, log *slog.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := b.Run(runCtx); err != nil && runCtx.Err() == nil {
					log.Error("bot stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	})
}

func registerServer(lc fx.Lifecycle, srv *server.Server, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("ops server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
