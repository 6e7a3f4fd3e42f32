package repositories

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/puffvibe-api/models"
	"gorm.io/gorm"
)

func (s *GormStore) PlaceOrder(ctx context.Context, order *models.Order, changes []StockChange, ledger []models.InventoryEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			// The WHERE clause makes check-and-decrement one statement, so two
			// concurrent orders cannot both take the last units.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock_current >= ?", change.ProductID, change.Quantity).
				Updates(map[string]any{
					"stock_current": gorm.Expr("stock_current - ?", change.Quantity),
					"stock_sold":    gorm.Expr("stock_sold + ?", change.Quantity),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &StockShortage{ProductID: change.ProductID, ProductName: change.ProductName}
			}
		}

		if err := tx.Omit("User").Create(order).Error; err != nil {
			return err
		}

		if len(ledger) == 0 {
			return nil
		}
		for i := range ledger {
			ledger[i].OrderID = order.ID
		}
		return tx.Create(&ledger).Error
	})
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").Preload("User").First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) filterOrders(ctx context.Context, filter OrderFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.MinAmount != nil {
		query = query.Where("total_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("total_amount <= ?", *filter.MaxAmount)
	}

	if text := strings.TrimSpace(filter.Query); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		match := s.db.Where("LOWER(mpesa_code) LIKE ?", like).
			Or("LOWER(tracking_number) LIKE ?", like).
			Or("LOWER(delivery_address) LIKE ?", like)
		if len(filter.QueryUserIDs) > 0 {
			match = match.Or("user_id IN ?", filter.QueryUserIDs)
		}
		if id, err := strconv.ParseUint(text, 10, 64); err == nil {
			match = match.Or("id = ?", id)
		}
		query = query.Where(match)
	}

	return query
}

func (s *GormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	var total int64
	if err := s.filterOrders(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.filterOrders(ctx, filter).
		Preload("Items").
		Preload("User").
		Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func statusUpdates(status, deliveryStatus string) map[string]any {
	updates := map[string]any{}
	if status != "" {
		updates["status"] = status
	}
	if deliveryStatus != "" {
		updates["delivery_status"] = deliveryStatus
	}
	return updates
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id uint, status, deliveryStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}

	if updates := statusUpdates(status, deliveryStatus); len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetOrder(ctx, id)
}

func (s *GormStore) BulkUpdateOrderStatus(ctx context.Context, ids []uint, status, deliveryStatus string) (int64, error) {
	updates := statusUpdates(status, deliveryStatus)
	if len(ids) == 0 || len(updates) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id IN ?", ids).Updates(updates)
	return result.RowsAffected, result.Error
}

func (s *GormStore) ListLedger(ctx context.Context, from, to time.Time) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
