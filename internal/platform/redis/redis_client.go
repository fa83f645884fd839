// Package redis はキャッシュ用Redisクライアントの初期化を提供します。
package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewClient は指定されたアドレスでRedisクライアントを生成し、疎通確認します。
// 呼び出し側は失敗時にnilクライアント（キャッシュなし）で続行できます。
func NewClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
