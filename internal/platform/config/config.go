// Package config はプロセス全体の設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// 通知チャネルのトランスポート種別。
const (
	TransportWebhook    = "webhook"
	TransportLineNotify = "linenotify"
)

// Config はアプリケーション全体の設定を保持します。
// 起動時に1回読み込み、イミュータブルとして扱います。
type Config struct {
	// Messaging platform
	ChannelSecret string `validate:"required"`
	ChannelToken  string `validate:"required"`

	// Database（空の場合はSQLiteファイルにフォールバック）
	DatabaseURL string

	// Notification channel
	NotifyTransport        string `validate:"oneof=webhook linenotify"`
	LineNotifyClientID     string `validate:"required_if=NotifyTransport linenotify"`
	LineNotifyClientSecret string `validate:"required_if=NotifyTransport linenotify"`

	// BaseURL はOAuthコールバックのリダイレクト先URLの組み立てに使います。
	BaseURL string `validate:"required_if=NotifyTransport linenotify,omitempty,url"`

	// OwnerID は管理者コマンドを許可する運用者のユーザーIDです。
	// 空の場合、管理者コマンドは誰にも応答しません。
	OwnerID string

	// RichMenuID は設定完了後にユーザーへ紐付けるリッチメニューのIDです。
	// メニューの作成とアップロードは運用側で行います。空の場合は紐付けません。
	RichMenuID string

	// Ingestion
	IngestInterval int `validate:"oneof=15 30"`
	// QuietStartHour/QuietEndHour は取り込みを抑止する時間帯（UTC+8の時）です。
	// 両方-1で無効。23→6のような日跨ぎを許容します。
	QuietStartHour int `validate:"min=-1,max=23"`
	QuietEndHour   int `validate:"min=-1,max=23"`

	// Redis（空の場合はキャッシュなしで動作）
	RedisAddr     string
	RedisPassword string

	Port string
}

// Load は環境変数からConfigを読み込み、検証します。
// 必須項目が欠けている場合はエラーを返します（起動失敗）。
func Load() (*Config, error) {
	cfg := &Config{
		ChannelSecret:          os.Getenv("LINE_CHANNEL_SECRET"),
		ChannelToken:           os.Getenv("LINE_ACCESS_TOKEN"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		NotifyTransport:        envOr("NOTIFY_TRANSPORT", TransportWebhook),
		LineNotifyClientID:     os.Getenv("LINE_NOTIFY_CLIENT_ID"),
		LineNotifyClientSecret: os.Getenv("LINE_NOTIFY_CLIENT_SECRET"),
		BaseURL:                os.Getenv("APP_URL"),
		OwnerID:                os.Getenv("OWNER_ID"),
		RichMenuID:             os.Getenv("RICH_MENU_ID"),
		IngestInterval:         envInt("INGEST_INTERVAL_MINUTES", 15),
		QuietStartHour:         envInt("QUIET_START_HOUR", -1),
		QuietEndHour:           envInt("QUIET_END_HOUR", -1),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		Port:                   envOr("PORT", "8001"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	// 片方だけ設定されたクワイエットウィンドウは設定ミスとして弾く
	if (cfg.QuietStartHour == -1) != (cfg.QuietEndHour == -1) {
		return nil, fmt.Errorf("invalid configuration: QUIET_START_HOUR and QUIET_END_HOUR must be set together")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
