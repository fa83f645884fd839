package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultNotifyBaseURL = "https://notify-api.line.me"
	defaultOAuthBaseURL  = "https://notify-bot.line.me"
)

// LineNotifyConfig はLINE Notifyトランスポートの設定です。
type LineNotifyConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	NotifyBaseURL string // 空の場合は本番エンドポイント
	OAuthBaseURL  string // 空の場合は本番エンドポイント
}

// LineNotifyChannel はOAuth交換で得たアクセストークンでプッシュ通知を送る
// トランスポートです。credentialはベアラートークンです。
// トークンの取得（認可URL生成とコード交換）と失効もこの型が担います。
type LineNotifyChannel struct {
	cfg    LineNotifyConfig
	client *http.Client
}

// NewLineNotifyChannel は指定された設定とHTTPクライアントでLineNotifyChannelを生成します。
func NewLineNotifyChannel(cfg LineNotifyConfig, client *http.Client) *LineNotifyChannel {
	if cfg.NotifyBaseURL == "" {
		cfg.NotifyBaseURL = defaultNotifyBaseURL
	}
	if cfg.OAuthBaseURL == "" {
		cfg.OAuthBaseURL = defaultOAuthBaseURL
	}
	return &LineNotifyChannel{cfg: cfg, client: client}
}

// Send はcredential（アクセストークン）でmessageをプッシュします。
func (l *LineNotifyChannel) Send(ctx context.Context, credential, message string) error {
	form := url.Values{}
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		l.cfg.NotifyBaseURL+"/api/notify", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+credential)

	return l.do(req, "notify")
}

// Revoke はアクセストークンを失効させます。
func (l *LineNotifyChannel) Revoke(ctx context.Context, credential string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		l.cfg.NotifyBaseURL+"/api/revoke", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	return l.do(req, "revoke")
}

// AuthorizeURL はユーザーを誘導する認可URLを組み立てます。
// stateは交換完了時にユーザーを同定するための一時トークンです。
func (l *LineNotifyChannel) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", l.cfg.ClientID)
	q.Set("redirect_uri", l.cfg.RedirectURI)
	q.Set("scope", "notify")
	q.Set("state", state)
	return l.cfg.OAuthBaseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode は認可コードをアクセストークンに交換します。
func (l *LineNotifyChannel) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", l.cfg.RedirectURI)
	form.Set("client_id", l.cfg.ClientID)
	form.Set("client_secret", l.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		l.cfg.OAuthBaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("line notify token exchange: http %d", res.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("line notify token exchange: empty access_token")
	}
	return body.AccessToken, nil
}

func (l *LineNotifyChannel) do(req *http.Request, op string) error {
	res, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("line notify %s: http %d", op, res.StatusCode)
	}
	return nil
}
