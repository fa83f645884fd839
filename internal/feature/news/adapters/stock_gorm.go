// Package adapters はnewsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
	"news_notify/internal/feature/news/usecase"
)

// stockGorm はStockRepositoryインターフェースのGORM実装です。
type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたDB接続でstockGormリポジトリの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// FindByID は銘柄コードで企業を取得します。
// 存在しない場合はdomain.ErrStockNotFoundを返します。
func (r *stockGorm) FindByID(ctx context.Context, id string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// Create は企業を永続化します。
// 同じ銘柄コードが既に存在する場合は成功として扱います（楽観的作成）。
// 取り込みサイクルとコマンド処理が同じ銘柄を同時に作成しても安全です。
func (r *stockGorm) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(stock).Error
}
