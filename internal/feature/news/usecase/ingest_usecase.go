// Package usecase は重大訊息の取り込みと通知ファンアウトのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
)

// NewsSource はニュースソースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/externalapi）ではなく
// コンシューマー（usecase）が定義します。
type NewsSource interface {
	// FetchNews は直近の開示レコードの有限のバッチを返します。
	// どこまで遡るかはソース側が決めます。
	FetchNews(ctx context.Context) ([]entity.SourceNews, error)

	// FetchStock は銘柄コードまたは簡稱を正規の企業レコードに解決します。
	// 一致しない場合はdomain.ErrStockNotFoundを返します。
	FetchStock(ctx context.Context, idOrName string) (*entity.SourceStock, error)
}

// StockRepository は企業エンティティの永続化層を抽象化します。
type StockRepository interface {
	// FindByID は銘柄コードで企業を取得します。
	// 存在しない場合はdomain.ErrStockNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Stock, error)

	// Create は企業を永続化します。重複キーは既存を意味するため成功として扱います。
	Create(ctx context.Context, stock *entity.Stock) error
}

// NewsRepository は重大訊息エンティティの永続化層を抽象化します。
type NewsRepository interface {
	// GetOrCreate はIDが未登録の場合のみnewsを挿入します（挿入したらtrue）。
	// 既存の場合は何もせずfalseを返します。これが重複排除の仕組みそのものです。
	GetOrCreate(ctx context.Context, news *entity.News) (bool, error)

	// ListNotifiedUserIDs は指定ニュースを配信済みのユーザーID集合を返します。
	ListNotifiedUserIDs(ctx context.Context, newsID string) ([]string, error)

	// AddNotifiedUser は配信済みエッジを追加します。既存エッジは成功として扱います。
	AddNotifiedUser(ctx context.Context, newsID, userID string) error
}

// FanOut は取り込み済みニュースの購読者への配信を抽象化します。
type FanOut interface {
	Notify(ctx context.Context, news *entity.News, stock *entity.Stock) error
}

// IngestUsecase はニュースソースから開示レコードを取得し、
// 一意に識別されたエンティティとして永続化するユースケースです。
// クロックゲートの成立ごとに1回起動されます。
type IngestUsecase struct {
	source NewsSource
	stocks StockRepository
	news   NewsRepository
	fanout FanOut
}

// NewIngestUsecase は新しいIngestUsecaseを作成します。
func NewIngestUsecase(source NewsSource, stocks StockRepository, news NewsRepository, fanout FanOut) *IngestUsecase {
	return &IngestUsecase{source: source, stocks: stocks, news: news, fanout: fanout}
}

// Ingest は1回の取り込みサイクルを実行します。
// ソースへのネットワーク障害はサイクル全体を中断します（次のtickで暗黙に再試行）。
// 個々のレコードの失敗はログに出力し、次のレコードの処理を続けます。
func (iu *IngestUsecase) Ingest(ctx context.Context) error {
	batch, err := iu.source.FetchNews(ctx)
	if err != nil {
		return fmt.Errorf("fetch news: %w", err)
	}

	for _, raw := range batch {
		if err := iu.ingestOne(ctx, raw); err != nil {
			// 1レコードの失敗でバッチを中断しない
			slog.Error("failed to ingest news record",
				"stock_id", raw.StockID, "title", raw.Title, "error", err)
			continue
		}
	}
	return nil
}

// ingestOne は1件の開示レコードを解決・永続化し、ファンアウトに渡します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, raw entity.SourceNews) error {
	stock, err := iu.resolveStock(ctx, raw.StockID)
	if errors.Is(err, domain.ErrStockNotFound) {
		// 企業を捏造しない。解決できないレコードは飛ばす。
		slog.Warn("skipping news for unresolvable stock", "stock_id", raw.StockID)
		return nil
	}
	if err != nil {
		return err
	}

	news := &entity.News{
		ID:          entity.NewsID(stock.ID, raw.PublishedAt, raw.Title),
		Data:        raw.Payload,
		StockID:     stock.ID,
		PublishedAt: raw.PublishedAt,
	}
	if _, err := iu.news.GetOrCreate(ctx, news); err != nil {
		return err
	}

	// 新規作成か否かに関わらずファンアウトする。前回のサイクルが途中で
	// 落ちていた場合、既存ニュースにも未通知の購読者が残っている。
	return iu.fanout.Notify(ctx, news, stock)
}

// resolveStock は銘柄コードを企業エンティティに解決します。
// ストレージに無ければソースに問い合わせ、永続化してから返します。
func (iu *IngestUsecase) resolveStock(ctx context.Context, stockID string) (*entity.Stock, error) {
	stock, err := iu.stocks.FindByID(ctx, stockID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, domain.ErrStockNotFound) {
		return nil, err
	}

	fetched, err := iu.source.FetchStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	created := &entity.Stock{ID: fetched.ID, Name: fetched.Name}
	if err := iu.stocks.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}
