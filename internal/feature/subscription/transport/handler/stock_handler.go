// Package handler は購読管理のHTTP APIハンドラを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
)

// SubscriptionUsecase は購読操作を抽象化します。
type SubscriptionUsecase interface {
	FollowStock(ctx context.Context, userID, idOrName string) (*entity.Stock, error)
}

// StockHandler は外部ツール向けの購読APIを処理します。
type StockHandler struct {
	uc SubscriptionUsecase
}

// NewStockHandler は新しいStockHandlerを作成します。
func NewStockHandler(uc SubscriptionUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// AddStock は指定ユーザーに企業の追跡を追加するAPIです。
// 企業もユーザーも見つからない場合は404を返します。
func (h *StockHandler) AddStock(c *gin.Context) {
	userID := c.Query("user_id")
	stockID := c.Query("stock_id")
	if userID == "" || stockID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and stock_id are required"})
		return
	}

	stock, err := h.uc.FollowStock(c.Request.Context(), userID, stockID)
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "stock added", "stock_id": stock.ID})
	}
}
