package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
)

type mockNewsSource struct {
	FetchNewsFunc  func(ctx context.Context) ([]entity.SourceNews, error)
	FetchStockFunc func(ctx context.Context, idOrName string) (*entity.SourceStock, error)
}

func (m *mockNewsSource) FetchNews(ctx context.Context) ([]entity.SourceNews, error) {
	return m.FetchNewsFunc(ctx)
}

func (m *mockNewsSource) FetchStock(ctx context.Context, idOrName string) (*entity.SourceStock, error) {
	return m.FetchStockFunc(ctx, idOrName)
}

type mockStockRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.Stock, error)
	CreateFunc   func(ctx context.Context, stock *entity.Stock) error
	Created      []*entity.Stock
}

func (m *mockStockRepository) FindByID(ctx context.Context, id string) (*entity.Stock, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	m.Created = append(m.Created, stock)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, stock)
	}
	return nil
}

type mockNewsRepository struct {
	GetOrCreateFunc         func(ctx context.Context, news *entity.News) (bool, error)
	ListNotifiedUserIDsFunc func(ctx context.Context, newsID string) ([]string, error)
	AddNotifiedUserFunc     func(ctx context.Context, newsID, userID string) error
	Stored                  []*entity.News
}

func (m *mockNewsRepository) GetOrCreate(ctx context.Context, news *entity.News) (bool, error) {
	m.Stored = append(m.Stored, news)
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, news)
	}
	return true, nil
}

func (m *mockNewsRepository) ListNotifiedUserIDs(ctx context.Context, newsID string) ([]string, error) {
	return m.ListNotifiedUserIDsFunc(ctx, newsID)
}

func (m *mockNewsRepository) AddNotifiedUser(ctx context.Context, newsID, userID string) error {
	return m.AddNotifiedUserFunc(ctx, newsID, userID)
}

type mockFanOut struct {
	NotifyFunc func(ctx context.Context, news *entity.News, stock *entity.Stock) error
	Calls      []string
}

func (m *mockFanOut) Notify(ctx context.Context, news *entity.News, stock *entity.Stock) error {
	m.Calls = append(m.Calls, news.ID)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, news, stock)
	}
	return nil
}

func TestIngestUsecase_Ingest(t *testing.T) {
	t.Parallel()

	publishedAt := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	record := entity.SourceNews{
		StockID:     "2330",
		Title:       "澄清媒體報導",
		PublishedAt: publishedAt,
		Payload:     map[string]string{"title": "澄清媒體報導"},
	}

	t.Run("known stock is persisted and fanned out", func(t *testing.T) {
		t.Parallel()
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return []entity.SourceNews{record}, nil
			},
		}
		stocks := &mockStockRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Stock, error) {
				return &entity.Stock{ID: "2330", Name: "台積電"}, nil
			},
		}
		news := &mockNewsRepository{}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, stocks, news, fanout).Ingest(context.Background())
		require.NoError(t, err)
		require.Len(t, news.Stored, 1)
		assert.Equal(t, entity.NewsID("2330", publishedAt, "澄清媒體報導"), news.Stored[0].ID)
		assert.Len(t, fanout.Calls, 1)
	})

	t.Run("unknown stock is resolved via source and created", func(t *testing.T) {
		t.Parallel()
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return []entity.SourceNews{record}, nil
			},
			FetchStockFunc: func(ctx context.Context, idOrName string) (*entity.SourceStock, error) {
				return &entity.SourceStock{ID: "2330", Name: "台積電"}, nil
			},
		}
		stocks := &mockStockRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Stock, error) {
				return nil, domain.ErrStockNotFound
			},
		}
		news := &mockNewsRepository{}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, stocks, news, fanout).Ingest(context.Background())
		require.NoError(t, err)
		require.Len(t, stocks.Created, 1)
		assert.Equal(t, "台積電", stocks.Created[0].Name)
		assert.Len(t, fanout.Calls, 1)
	})

	t.Run("unresolvable stock is skipped without fabrication", func(t *testing.T) {
		t.Parallel()
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return []entity.SourceNews{record}, nil
			},
			FetchStockFunc: func(ctx context.Context, idOrName string) (*entity.SourceStock, error) {
				return nil, domain.ErrStockNotFound
			},
		}
		stocks := &mockStockRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Stock, error) {
				return nil, domain.ErrStockNotFound
			},
		}
		news := &mockNewsRepository{}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, stocks, news, fanout).Ingest(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stocks.Created)
		assert.Empty(t, news.Stored)
		assert.Empty(t, fanout.Calls)
	})

	t.Run("fetch failure aborts the whole cycle", func(t *testing.T) {
		t.Parallel()
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return nil, errors.New("gateway timeout")
			},
		}
		news := &mockNewsRepository{}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, &mockStockRepository{}, news, fanout).Ingest(context.Background())
		require.Error(t, err)
		assert.Empty(t, news.Stored)
		assert.Empty(t, fanout.Calls)
	})

	t.Run("single record failure does not abort the batch", func(t *testing.T) {
		t.Parallel()
		second := record
		second.StockID = "2317"
		second.Title = "股利公告"
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return []entity.SourceNews{record, second}, nil
			},
		}
		stocks := &mockStockRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Stock, error) {
				if id == "2330" {
					return nil, errors.New("storage down")
				}
				return &entity.Stock{ID: id, Name: "鴻海"}, nil
			},
		}
		news := &mockNewsRepository{}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, stocks, news, fanout).Ingest(context.Background())
		require.NoError(t, err)
		require.Len(t, news.Stored, 1)
		assert.Equal(t, "2317", news.Stored[0].StockID)
	})

	t.Run("existing news is still fanned out", func(t *testing.T) {
		t.Parallel()
		source := &mockNewsSource{
			FetchNewsFunc: func(ctx context.Context) ([]entity.SourceNews, error) {
				return []entity.SourceNews{record}, nil
			},
		}
		stocks := &mockStockRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Stock, error) {
				return &entity.Stock{ID: "2330", Name: "台積電"}, nil
			},
		}
		news := &mockNewsRepository{
			GetOrCreateFunc: func(ctx context.Context, n *entity.News) (bool, error) {
				return false, nil
			},
		}
		fanout := &mockFanOut{}

		err := NewIngestUsecase(source, stocks, news, fanout).Ingest(context.Background())
		require.NoError(t, err)
		assert.Len(t, fanout.Calls, 1)
	})
}
