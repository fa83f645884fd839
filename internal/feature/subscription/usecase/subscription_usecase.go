// Package usecase は企業の追跡・解除・一覧のビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"news_notify/internal/domain/entity"
)

// StockResolver は銘柄コードまたは簡稱を正規の企業レコードに解決します。
// ニュースソースと同一の実装を共有します。
type StockResolver interface {
	FetchStock(ctx context.Context, idOrName string) (*entity.SourceStock, error)
}

// StockRepository は企業エンティティの永続化層を抽象化します。
type StockRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
}

// NewsRepository は重大訊息の読み出しを抽象化します。
type NewsRepository interface {
	FindByID(ctx context.Context, id string) (*entity.News, error)
	ListByStock(ctx context.Context, stockID string) ([]entity.News, error)
	CountByStock(ctx context.Context, stockID string) (int64, error)
}

// UserRepository はユーザーの購読関係の永続化を抽象化します。
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Subscribe(ctx context.Context, userID, stockID string) error
	Unsubscribe(ctx context.Context, userID, stockID string) error
	ListStocks(ctx context.Context, userID string) ([]entity.Stock, error)
}

// SubscriptionUsecase は購読管理のビジネスロジックを提供します。
// チャットコマンドとHTTP APIの両方から使われます。
type SubscriptionUsecase struct {
	resolver StockResolver
	stocks   StockRepository
	news     NewsRepository
	users    UserRepository
}

// NewSubscriptionUsecase は新しいSubscriptionUsecaseを作成します。
func NewSubscriptionUsecase(resolver StockResolver, stocks StockRepository, news NewsRepository, users UserRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{resolver: resolver, stocks: stocks, news: news, users: users}
}

// FollowStock はidOrNameを企業に解決し、必要なら作成してユーザーに紐付けます。
// 解決できない場合はdomain.ErrStockNotFound、ユーザーが未登録の場合は
// domain.ErrUserNotFoundを返します。
func (su *SubscriptionUsecase) FollowStock(ctx context.Context, userID, idOrName string) (*entity.Stock, error) {
	if _, err := su.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	resolved, err := su.resolver.FetchStock(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	stock := &entity.Stock{ID: resolved.ID, Name: resolved.Name}
	// 既存の企業は作り直さない（重複キーは成功扱い）
	if err := su.stocks.Create(ctx, stock); err != nil {
		return nil, err
	}
	if err := su.users.Subscribe(ctx, userID, stock.ID); err != nil {
		return nil, err
	}
	return stock, nil
}

// UnfollowStock は購読を解除し、表示用に企業を返します。
func (su *SubscriptionUsecase) UnfollowStock(ctx context.Context, userID, stockID string) (*entity.Stock, error) {
	stock, err := su.stocks.FindByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if err := su.users.Unsubscribe(ctx, userID, stockID); err != nil {
		return nil, err
	}
	return stock, nil
}

// ListFollowed はユーザーが追跡中の企業を返します。
// filterが空でない場合、銘柄コードまたは簡稱に部分一致するものに絞り込みます。
func (su *SubscriptionUsecase) ListFollowed(ctx context.Context, userID, filter string) ([]entity.Stock, error) {
	stocks, err := su.users.ListStocks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return stocks, nil
	}
	filtered := make([]entity.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if strings.Contains(stock.ID, filter) || strings.Contains(stock.Name, filter) {
			filtered = append(filtered, stock)
		}
	}
	return filtered, nil
}

// NewsCount は指定銘柄の推播済み重大訊息の件数を返します。
func (su *SubscriptionUsecase) NewsCount(ctx context.Context, stockID string) (int64, error) {
	return su.news.CountByStock(ctx, stockID)
}

// ListNews は指定銘柄の重大訊息を発言日時の降順で返します。
func (su *SubscriptionUsecase) ListNews(ctx context.Context, stockID string) (*entity.Stock, []entity.News, error) {
	stock, err := su.stocks.FindByID(ctx, stockID)
	if err != nil {
		return nil, nil, err
	}
	news, err := su.news.ListByStock(ctx, stockID)
	if err != nil {
		return nil, nil, err
	}
	return stock, news, nil
}

// GetNews はIDで重大訊息を取得します。
func (su *SubscriptionUsecase) GetNews(ctx context.Context, newsID string) (*entity.News, error) {
	return su.news.FindByID(ctx, newsID)
}
