package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
	"news_notify/internal/feature/news/usecase"
	useradapters "news_notify/internal/feature/user/adapters"
)

// 取り込み→解決→重複排除→ファンアウトを実リポジトリで通す結合テスト。

type fakeSource struct {
	news   []entity.SourceNews
	stocks map[string]entity.SourceStock
}

func (s *fakeSource) FetchNews(_ context.Context) ([]entity.SourceNews, error) {
	return s.news, nil
}

func (s *fakeSource) FetchStock(_ context.Context, idOrName string) (*entity.SourceStock, error) {
	stock, ok := s.stocks[idOrName]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	return &stock, nil
}

type recordingChannel struct {
	credentials []string
	messages    []string
}

func (c *recordingChannel) Send(_ context.Context, credential, message string) error {
	c.credentials = append(c.credentials, credential)
	c.messages = append(c.messages, message)
	return nil
}

type immediateLimiter struct{}

func (immediateLimiter) WaitIfNeeded() {}

func TestIngestPipeline_DeliversOnceToSubscribedUser(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	users := useradapters.NewUserRepository(db)
	stocks := NewStockRepository(db)
	newsRepo := NewNewsRepository(db)

	// U1は購読済みかつクレデンシャル設定済み。U2は購読済みだが未設定。
	token := "https://hooks.example.com/u1"
	require.NoError(t, users.Create(ctx, &entity.User{ID: "U1"}))
	require.NoError(t, users.UpdateNotifyToken(ctx, "U1", &token))
	require.NoError(t, users.Subscribe(ctx, "U1", "2330"))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "U2"}))
	require.NoError(t, users.Subscribe(ctx, "U2", "2330"))

	publishedAt := time.Date(2024, 3, 15, 1, 30, 0, 0, time.UTC)
	source := &fakeSource{
		news: []entity.SourceNews{{
			StockID:     "2330",
			Title:       "澄清媒體報導",
			PublishedAt: publishedAt,
			Payload:     map[string]string{"title": "澄清媒體報導"},
		}},
		stocks: map[string]entity.SourceStock{
			"2330": {ID: "2330", Name: "台積電"},
		},
	}
	channel := &recordingChannel{}

	notifyUC := usecase.NewNotifyUsecase(newsRepo, users, channel, immediateLimiter{})
	ingestUC := usecase.NewIngestUsecase(source, stocks, newsRepo, notifyUC)

	require.NoError(t, ingestUC.Ingest(ctx))

	// 未知の銘柄がソース経由で解決されて永続化される
	stock, err := stocks.FindByID(ctx, "2330")
	require.NoError(t, err)
	assert.Equal(t, "台積電", stock.Name)

	newsID := entity.NewsID("2330", publishedAt, "澄清媒體報導")
	news, err := newsRepo.FindByID(ctx, newsID)
	require.NoError(t, err)
	assert.Equal(t, "2330", news.StockID)

	// クレデンシャルを持つU1にだけ1通届く
	require.Len(t, channel.messages, 1)
	assert.Equal(t, token, channel.credentials[0])
	assert.Contains(t, channel.messages[0], "[2330] 台積電")
	assert.Contains(t, channel.messages[0], "澄清媒體報導")

	notifiedIDs, err := newsRepo.ListNotifiedUserIDs(ctx, newsID)
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, notifiedIDs)

	// 同じバッチの再取り込みでは新規の配信は発生しない
	require.NoError(t, ingestUC.Ingest(ctx))
	assert.Len(t, channel.messages, 1)

	var newsCount int64
	require.NoError(t, db.Model(&entity.News{}).Count(&newsCount).Error)
	assert.Equal(t, int64(1), newsCount)
}
