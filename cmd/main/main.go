package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sushi-bot/pkg"
	"sushi-bot/pkg/db"
	"sushi-bot/pkg/eligibility"
	"sushi-bot/pkg/events"
	"sushi-bot/pkg/handlers"
	"sushi-bot/pkg/kitsu"
	"sushi-bot/pkg/twitch"
	"sushi-bot/pkg/util"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	disgoevents "github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	app := &cli.App{
		Name:  "sushi-bot",
		Usage: "Discord community moderation bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file to load before reading the environment",
				Value:   ".env",
				EnvVars: []string{"SUSHI_ENV_FILE"},
			},
		},
		DefaultCommand: "run",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "connect to the gateway and handle events",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sync-commands",
						Usage: "register application commands before connecting",
					},
				},
				Action: runBot,
			},
			{
				Name:   "sync-commands",
				Usage:  "register application commands and exit",
				Action: syncCommands,
			},
			{
				Name:   "migrate",
				Usage:  "create the database tables and exit",
				Action: migrate,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		slog.Error("sushi: fatal error", tint.Err(err))
		os.Exit(1)
	}
}

func loadConfig(cctx *cli.Context) (*pkg.Config, error) {
	if err := godotenv.Load(cctx.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	cfg, err := env.ParseAs[pkg.Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// setupLogging installs the default logger and returns a debug logger writing to a rotating file.
func setupLogging(cfg *pkg.Config) (*slog.Logger, func()) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.SentryDSN,
		EnableTracing: false,
		EnableLogs:    true,
		Environment:   cfg.Environment,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if cfg.Production() { // only log events in prod
				return event
			}
			return nil
		},
	})
	if err != nil {
		panic(err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.DebugLogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	}
	debugLogger := slog.New(slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	logger := slog.New(slog.NewMultiHandler(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}),
		sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn},
		}.NewSentryHandler(context.Background())))
	slog.SetDefault(logger)

	return debugLogger, func() {
		sentry.Flush(2 * time.Second)
		_ = fileWriter.Close()
	}
}

func newPool(ctx context.Context, cfg *pkg.Config) (*pgxpool.Pool, *db.DB, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	database := db.NewDB(pool)
	if err := database.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to migrate the database: %w", err)
	}
	return pool, database, nil
}

func migrate(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	_, cleanup := setupLogging(cfg)
	defer cleanup()

	pool, _, err := newPool(cctx.Context, cfg)
	if err != nil {
		return err
	}
	pool.Close()
	slog.Info("sushi: database is up to date")
	return nil
}

func syncCommands(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	_, cleanup := setupLogging(cfg)
	defer cleanup()

	client, err := disgo.New(cfg.Token)
	if err != nil {
		return err
	}
	return syncAppCommands(client, cfg)
}

func syncAppCommands(client *bot.Client, cfg *pkg.Config) error {
	if err := handler.SyncCommands(client, handlers.Commands, cfg.CommandGuildIDs); err != nil {
		return fmt.Errorf("failed to sync commands: %w", err)
	}
	slog.Info("sushi: synced application commands", slog.Int("command.count", len(handlers.Commands)), slog.Any("guild.ids", cfg.CommandGuildIDs))
	return nil
}

func runBot(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	debugLogger, cleanup := setupLogging(cfg)
	defer cleanup()

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, database, err := newPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	admin := events.NewAdminChannel(cfg.AdminChannelID)
	pipeline := &events.Pipeline{
		Configs:    database,
		Blacklist:  database,
		BanLimiter: rate.NewLimiter(rate.Limit(cfg.BansPerSecond), 1),
	}
	if cfg.TwitchClientID != "" {
		streams, err := twitch.New(cfg.TwitchClientID, cfg.TwitchClientSecret, util.NewTwitchClient())
		if err != nil {
			slog.Warn("sushi: twitch lookups are disabled", tint.Err(err))
		} else {
			pipeline.Streams = streams
		}
	}

	b := &pkg.Bot{
		DB:       database,
		Kitsu:    kitsu.New(util.NewKitsuClient(), cfg.KitsuURL),
		Pipeline: pipeline,
		Admin:    admin,
	}
	h := handlers.NewHandler(b, cfg)

	messages := util.NewMessageWindow(cfg.MessageCacheSize, cfg.MessageCacheTTL)
	listener := events.NewListener(ctx, pipeline)
	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers, gateway.IntentGuildModeration,
			gateway.IntentGuildMessages, gateway.IntentMessageContent, gateway.IntentGuildPresences),
			gateway.WithPresenceOpts(gateway.WithWatchingActivity("the server"))),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagRoles, cache.FlagMembers,
			cache.FlagMessages, cache.FlagPresences),
			cache.WithMessageCachePolicy(messages.Keep)),
		bot.WithEventListeners(h, listener,
			bot.NewListenerFunc(func(e *disgoevents.GuildReady) {
				debugLogger.Debug("sushi: guild ready", slog.Any("guild.id", e.GuildID), slog.String("guild.name", e.Guild.Name))
			})))
	if err != nil {
		return err
	}

	messages.Attach(client.Caches)

	gw := events.NewDiscordGateway(client)
	pipeline.Gateway = gw
	pipeline.Reporter = events.NewErrorReporter(gw, admin)
	pipeline.Eligibility = eligibility.NewChecker(gw, cfg.AdminGuildID, cfg.EligibleRoleID, admin)

	if cctx.Bool("sync-commands") {
		if err := syncAppCommands(client, cfg); err != nil {
			return err
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if cfg.MetricsListen != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsListen,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		eg.Go(func() error {
			slog.Info("sushi: serving metrics", slog.String("addr", cfg.MetricsListen))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-egCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	eg.Go(func() error {
		if err := client.OpenGateway(egCtx); err != nil {
			return fmt.Errorf("failed to open gateway: %w", err)
		}
		slog.Info("sushi bot is now running.")
		<-egCtx.Done()
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client.Close(closeCtx)
		listener.Wait()
		return nil
	})
	return eg.Wait()
}
