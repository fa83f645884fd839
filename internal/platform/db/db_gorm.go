// Package db はGORMによるデータベース接続の初期化を提供します。
package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"news_notify/internal/domain/entity"
)

// Open はデータベース接続を開き、スキーマをマイグレーションします。
// databaseURLが空の場合はローカルのSQLiteファイルにフォールバックします
// （開発・小規模運用向け）。接続失敗時はデッドラインまでリトライします。
func Open(databaseURL string) *gorm.DB {
	dialector := dialectorFor(databaseURL)

	var (
		db  *gorm.DB
		err error
	)
	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Stock{},
		&entity.News{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func dialectorFor(databaseURL string) gorm.Dialector {
	if databaseURL != "" {
		return postgres.Open(databaseURL)
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "db.sqlite3"
	}
	return sqlite.Open(path)
}
