package main

import (
	"log"
	"time"

	"news_notify/internal/app/router"
	newsadapters "news_notify/internal/feature/news/adapters"
	subscriptionhandler "news_notify/internal/feature/subscription/transport/handler"
	subscriptionusecase "news_notify/internal/feature/subscription/usecase"
	useradapters "news_notify/internal/feature/user/adapters"
	"news_notify/internal/platform/config"
	"news_notify/internal/platform/db"
	"news_notify/internal/platform/externalapi/twse"
	platformhttp "news_notify/internal/platform/http"
)

// 外部ツール向けAPIプロセス。ボットと同じストレージを共有し、
// 購読の追加だけを公開します。

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	gormDB := db.Open(cfg.DatabaseURL)

	httpClient := platformhttp.NewHTTPClient(10 * time.Second)
	twseClient := twse.NewClient(twse.LoadConfig(), httpClient)

	stockRepo := newsadapters.NewStockRepository(gormDB)
	newsRepo := newsadapters.NewNewsRepository(gormDB)
	userRepo := useradapters.NewUserRepository(gormDB)

	subscriptionUC := subscriptionusecase.NewSubscriptionUsecase(twseClient, stockRepo, newsRepo, userRepo)
	stockH := subscriptionhandler.NewStockHandler(subscriptionUC)

	r := router.NewAPIRouter(stockH)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
