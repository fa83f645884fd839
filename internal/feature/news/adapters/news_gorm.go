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

// newsGorm はNewsRepositoryインターフェースのGORM実装です。
type newsGorm struct {
	db *gorm.DB
}

var _ usecase.NewsRepository = (*newsGorm)(nil)

// NewNewsRepository は指定されたDB接続でnewsGormリポジトリの新しいインスタンスを生成します。
func NewNewsRepository(db *gorm.DB) *newsGorm {
	return &newsGorm{db: db}
}

// GetOrCreate はIDが未登録の場合のみnewsを挿入し、挿入したかどうかを返します。
// 主キー衝突は「既に存在する」ことの証明なのでエラーではありません。
func (r *newsGorm) GetOrCreate(ctx context.Context, news *entity.News) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(news)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID はIDで重大訊息を取得します。
// 存在しない場合はdomain.ErrNewsNotFoundを返します。
func (r *newsGorm) FindByID(ctx context.Context, id string) (*entity.News, error) {
	var news entity.News
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&news).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, err
	}
	return &news, nil
}

// ListByStock は指定銘柄の重大訊息を発言日時の降順で返します。
func (r *newsGorm) ListByStock(ctx context.Context, stockID string) ([]entity.News, error) {
	var news []entity.News
	if err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("published_at DESC").
		Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

// CountByStock は指定銘柄の重大訊息の件数を返します。
func (r *newsGorm) CountByStock(ctx context.Context, stockID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.News{}).
		Where("stock_id = ?", stockID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListNotifiedUserIDs は指定ニュースを配信済みのユーザーIDを返します。
func (r *newsGorm) ListNotifiedUserIDs(ctx context.Context, newsID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("news_notified_users").
		Where("news_id = ?", newsID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddNotifiedUser は配信済みエッジを追加します。
// 既存エッジは成功として扱います（再実行しても重複エッジは生まれない）。
func (r *newsGorm) AddNotifiedUser(ctx context.Context, newsID, userID string) error {
	return r.db.WithContext(ctx).
		Table("news_notified_users").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{"news_id": newsID, "user_id": userID}).Error
}
