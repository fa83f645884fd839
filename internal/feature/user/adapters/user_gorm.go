// Package adapters はユーザーリポジトリのGORM実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
	botusecase "news_notify/internal/feature/bot/usecase"
	newsusecase "news_notify/internal/feature/news/usecase"
	notifyusecase "news_notify/internal/feature/notify/usecase"
	subscriptionusecase "news_notify/internal/feature/subscription/usecase"
)

// userGorm は各フィーチャーが要求するユーザーリポジトリインターフェース群の
// GORM実装です。単一のテーブル群（users, user_stocks）を共有するため
// 実装は1つにまとめています。
type userGorm struct {
	db *gorm.DB
}

var (
	_ botusecase.UserRepository          = (*userGorm)(nil)
	_ notifyusecase.UserRepository       = (*userGorm)(nil)
	_ subscriptionusecase.UserRepository = (*userGorm)(nil)
	_ newsusecase.SubscriberRepository   = (*userGorm)(nil)
)

// NewUserRepository は指定されたDB接続でuserGormリポジトリの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーを永続化します。既存IDは成功として扱います。
// フォローイベントは再フォローで重複発火するため冪等にしています。
func (r *userGorm) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user).Error
}

// FindByID はユーザーIDでユーザーを取得します。
// 存在しない場合はdomain.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByNotifyState は保留中のOAuth stateでユーザーを取得します。
// 一致しない場合はdomain.ErrUserNotFoundを返します。
func (r *userGorm) FindByNotifyState(ctx context.Context, state string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("notify_state = ?", state).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateNotifyToken は通知クレデンシャルを更新します。nilはNULL（未設定）にします。
func (r *userGorm) UpdateNotifyToken(ctx context.Context, userID string, token *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("notify_token", token).Error
}

// UpdateNotifyState は保留中のOAuth stateを更新します。nilはNULLにします。
func (r *userGorm) UpdateNotifyState(ctx context.Context, userID string, state *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("notify_state", state).Error
}

// UpdateTempData は保留中の継続を更新します。nilはNULL（継続なし）にします。
func (r *userGorm) UpdateTempData(ctx context.Context, userID string, tempData *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("temp_data", tempData).Error
}

// Subscribe は購読エッジを追加します。既存エッジは成功として扱います。
func (r *userGorm) Subscribe(ctx context.Context, userID, stockID string) error {
	return r.db.WithContext(ctx).
		Table("user_stocks").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"user_id": userID, "stock_id": stockID}).Error
}

// Unsubscribe は購読エッジを削除します。エッジが無い場合も成功です。
func (r *userGorm) Unsubscribe(ctx context.Context, userID, stockID string) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM user_stocks WHERE user_id = ? AND stock_id = ?", userID, stockID).Error
}

// ListStocks はユーザーが追蹤中の企業を銘柄コード順で返します。
func (r *userGorm) ListStocks(ctx context.Context, userID string) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Joins("JOIN user_stocks ON user_stocks.stock_id = stocks.id").
		Where("user_stocks.user_id = ?", userID).
		Order("stocks.id ASC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

// ListSubscribers は指定銘柄を追蹤中のユーザーを返します。
func (r *userGorm) ListSubscribers(ctx context.Context, stockID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_stocks ON user_stocks.user_id = users.id").
		Where("user_stocks.stock_id = ?", stockID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
