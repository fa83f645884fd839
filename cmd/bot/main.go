package main

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"news_notify/internal/app/router"
	"news_notify/internal/feature/bot/command"
	"news_notify/internal/feature/bot/commands"
	bothandler "news_notify/internal/feature/bot/transport/handler"
	botusecase "news_notify/internal/feature/bot/usecase"
	newsadapters "news_notify/internal/feature/news/adapters"
	newsusecase "news_notify/internal/feature/news/usecase"
	notifyhandler "news_notify/internal/feature/notify/transport/handler"
	notifyusecase "news_notify/internal/feature/notify/usecase"
	subscriptionusecase "news_notify/internal/feature/subscription/usecase"
	useradapters "news_notify/internal/feature/user/adapters"
	"news_notify/internal/platform/cache"
	"news_notify/internal/platform/config"
	"news_notify/internal/platform/db"
	"news_notify/internal/platform/externalapi/twse"
	platformhttp "news_notify/internal/platform/http"
	"news_notify/internal/platform/line"
	"news_notify/internal/platform/notifier"
	platformredis "news_notify/internal/platform/redis"
	"news_notify/internal/platform/scheduler"
	"news_notify/internal/shared/ratelimiter"
)

// returnURL は推播設定完了メッセージに載せるチャットへの戻りリンクです。
const returnURL = "https://line.me/R/oaMessage/%40linenotify"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// db
	gormDB := db.Open(cfg.DatabaseURL)

	// Redis（無くてもキャッシュなしで動く）
	var rdb *redisv9.Client
	if cfg.RedisAddr != "" {
		if tmp, err := platformredis.NewClient(cfg.RedisAddr, cfg.RedisPassword); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	httpClient := platformhttp.NewHTTPClient(10 * time.Second)
	twseClient := twse.NewClient(twse.LoadConfig(), httpClient)
	lineClient := line.NewClient(line.Config{ChannelToken: cfg.ChannelToken}, httpClient)

	// 通知チャネル（トランスポートは起動時に1つだけ選ぶ）
	var (
		channel   newsusecase.Channel
		exchanger notifyusecase.TokenExchanger
	)
	if cfg.NotifyTransport == config.TransportLineNotify {
		lineNotify := notifier.NewLineNotifyChannel(notifier.LineNotifyConfig{
			ClientID:     cfg.LineNotifyClientID,
			ClientSecret: cfg.LineNotifyClientSecret,
			RedirectURI:  cfg.BaseURL + "/line-notify",
		}, httpClient)
		channel = lineNotify
		exchanger = lineNotify
	} else {
		channel = notifier.NewWebhookChannel(httpClient)
	}

	// Repository
	stockRepo := newsadapters.NewStockRepository(gormDB)
	newsRepo := cache.NewCachingNewsRepository(rdb, newsadapters.NewNewsRepository(gormDB))
	userRepo := useradapters.NewUserRepository(gormDB)

	// Usecase
	notifyUC := newsusecase.NewNotifyUsecase(newsRepo, userRepo, channel,
		ratelimiter.NewRateLimiter(10, time.Second))
	ingestUC := newsusecase.NewIngestUsecase(twseClient, stockRepo, newsRepo, notifyUC)
	subscriptionUC := subscriptionusecase.NewSubscriptionUsecase(twseClient, stockRepo, newsRepo, userRepo)
	setupUC := notifyusecase.NewSetupUsecase(userRepo, channel, exchanger, returnURL)

	// Command dispatch
	registry := command.NewRegistry()
	botUC := botusecase.NewBotUsecase(registry, userRepo)
	commands.Register(registry, commands.Deps{
		Replier:        lineClient,
		State:          botUC,
		Subscriptions:  subscriptionUC,
		Notify:         setupUC,
		Ingester:       ingestUC,
		OwnerID:        cfg.OwnerID,
		RichMenuID:     cfg.RichMenuID,
		TokenTransport: cfg.NotifyTransport == config.TransportLineNotify,
	})

	// 取り込みスケジューラ
	gate := scheduler.Gate{
		IntervalMinutes: cfg.IngestInterval,
		QuietStartHour:  cfg.QuietStartHour,
		QuietEndHour:    cfg.QuietEndHour,
	}
	sched := scheduler.New(gate, ingestUC.Ingest)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Handler
	webhookH := bothandler.NewWebhookHandler(cfg.ChannelSecret, botUC)
	notifyH := notifyhandler.NewNotifyHandler(setupUC)

	r := router.NewBotRouter(webhookH, notifyH)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
