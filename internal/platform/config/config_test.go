package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv は最小限の有効な設定を環境変数に載せます。
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_ACCESS_TOKEN", "token")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportWebhook, cfg.NotifyTransport)
	assert.Equal(t, 15, cfg.IngestInterval)
	assert.Equal(t, -1, cfg.QuietStartHour)
	assert.Equal(t, -1, cfg.QuietEndHour)
	assert.Equal(t, "8001", cfg.Port)
}

func TestLoad_MissingChannelSecret(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "")
	t.Setenv("LINE_ACCESS_TOKEN", "token")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_LineNotifyTransportRequiresOAuthSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("NOTIFY_TRANSPORT", "linenotify")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("LINE_NOTIFY_CLIENT_ID", "client-id")
	t.Setenv("LINE_NOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("APP_URL", "https://bot.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportLineNotify, cfg.NotifyTransport)
}

func TestLoad_UnknownTransportIsRejected(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("NOTIFY_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_IngestInterval(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("INGEST_INTERVAL_MINUTES", "30")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.IngestInterval)

	t.Setenv("INGEST_INTERVAL_MINUTES", "7")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_QuietWindow(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("QUIET_START_HOUR", "23")
	t.Setenv("QUIET_END_HOUR", "6")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 23, cfg.QuietStartHour)
	assert.Equal(t, 6, cfg.QuietEndHour)
}

func TestLoad_OneSidedQuietWindowIsRejected(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("QUIET_START_HOUR", "23")

	_, err := Load()
	assert.Error(t, err)
}
