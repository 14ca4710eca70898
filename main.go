package main

import (
	"context"
	"flag"
	"log/slog"

	"LineBridge/bot"
	"LineBridge/bot/line"
	"LineBridge/impl/core"
	"LineBridge/internal/config"
	"LineBridge/internal/database"
	"LineBridge/internal/http-server/api"
	"LineBridge/internal/lib/logger"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/service/hass"
	"LineBridge/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			// Set up Telegram handler for the logger
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting line bridge", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx := context.Background()

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.UseLineClient(conf.Line.HttpTimeout)

	switch conf.Store.Driver {
	case config.StoreMongo:
		db, err := repository.NewMongoClient(conf, lg)
		if err != nil {
			lg.Error("mongo client", sl.Err(err))
			return
		}
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	default:
		db, err := repository.NewSqliteClient(conf.Store.SqlitePath, lg)
		if err != nil {
			lg.Error("sqlite store", sl.Err(err))
			return
		}
		defer db.Close()
		handler.SetRepository(db)
		lg.With(
			slog.String("path", conf.Store.SqlitePath),
		).Info("sqlite store initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	handler.AddEventSink(hub)

	if conf.Hub.Enabled {
		handler.AddEventSink(hass.NewForwarder(conf, lg))
		lg.With(
			slog.String("url", conf.Hub.Url),
			sl.Secret("token", conf.Hub.Token),
		).Info("home assistant forwarder enabled")
	}

	if err := handler.Init(ctx, conf.Line.AccessToken, conf.Line.ChannelSecret); err != nil {
		lg.Error("load config entry", sl.Err(err))
		return
	}

	if usage, err := handler.Quota(ctx); err != nil {
		lg.Warn("line access token check", sl.Err(err))
	} else {
		lg.With(slog.Int64("total_usage", usage)).Info("line access token accepted")
	}

	if tgBot != nil {
		tgBot.SetCore(handler)
		handler.SetNotifier(tgBot)
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	lineBot := line.NewLineBot(handler, line.DefaultHandlers(), lg)
	if conf.Line.DedupeEvents {
		lineBot.EnableDedupe(conf.Line.DedupeSize)
	}

	// *** blocking start with http server ***
	err := api.New(conf, lg, handler, lineBot, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
