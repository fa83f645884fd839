package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
	"news_notify/internal/platform/externalapi/twse/dto"
)

// taipei は開示日時のローカルタイムゾーンです。
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// Client はTWSE OpenAPIからデータを取得するNewsSource実装です。
// 所有するHTTPクライアントは構築時に注入され、グローバル状態を持ちません。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// TWSE側への過剰リクエストを避けるため、呼び出しは毎秒1回にペーシングされます。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// FetchNews は直近の重大訊息の一覧を取得します。
// ウィンドウ（どこまで遡るか）はTWSE側のAPIが決めます。
func (c *Client) FetchNews(ctx context.Context) ([]entity.SourceNews, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.cfg.NewsBaseURL + "/opendata/t187ap04_L"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twse http %d", res.StatusCode)
	}

	var records []dto.Announcement
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, err
	}

	news := make([]entity.SourceNews, 0, len(records))
	for _, r := range records {
		publishedAt, err := parseROCDateTime(r.DateOfSpeech, r.TimeOfSpeech)
		if err != nil {
			// 日時が読めないレコードは同定不能なので飛ばす
			slog.Warn("skipping announcement with unparsable datetime",
				"stock_id", r.StockID, "date", r.DateOfSpeech, "time", r.TimeOfSpeech, "error", err)
			continue
		}
		news = append(news, entity.SourceNews{
			StockID:     r.StockID,
			Title:       r.Title,
			PublishedAt: publishedAt,
			Payload: map[string]string{
				"date_of_speech":     r.DateOfSpeech,
				"time_of_speech":     r.TimeOfSpeech,
				"date_of_occurrence": r.DateOfOccurrence,
				"complied_term":      r.CompliedTerm,
				"title":              r.Title,
				"explanation":        r.Explanation,
			},
		})
	}
	return news, nil
}

// FetchStock は銘柄コードまたは簡稱を正規の企業レコードに解決します。
// 一致する企業がない場合はdomain.ErrStockNotFoundを返します。
func (c *Client) FetchStock(ctx context.Context, idOrName string) (*entity.SourceStock, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.cfg.StockBaseURL + "/stocks/" + url.PathEscape(idOrName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrStockNotFound
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twse stock http %d", res.StatusCode)
	}

	var body dto.StockInfo
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ID == "" {
		return nil, domain.ErrStockNotFound
	}
	return &entity.SourceStock{ID: body.ID, Name: body.Name}, nil
}

// Close はアイドル接続を解放します。
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// parseROCDateTime は民国暦の日付（例: "1130315"）と時刻（例: "173025"）を
// UTC+8のtime.Timeに変換します。
func parseROCDateTime(date, clock string) (time.Time, error) {
	if len(date) < 5 {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", date)
	}
	year, err := strconv.Atoi(date[:len(date)-4])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ROC year in %q: %w", date, err)
	}
	month, err := strconv.Atoi(date[len(date)-4 : len(date)-2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q: %w", date, err)
	}
	day, err := strconv.Atoi(date[len(date)-2:])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q: %w", date, err)
	}

	hour, minute, sec := 0, 0, 0
	if len(clock) == 6 {
		if hour, err = strconv.Atoi(clock[:2]); err != nil {
			return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
		}
		if minute, err = strconv.Atoi(clock[2:4]); err != nil {
			return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
		}
		if sec, err = strconv.Atoi(clock[4:]); err != nil {
			return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
		}
	}

	return time.Date(year+1911, time.Month(month), day, hour, minute, sec, 0, taipei), nil
}
