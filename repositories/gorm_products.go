package repositories

import (
	"context"
	"errors"

	"github.com/Kariqs/puffvibe-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func orderedTiers(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (s *GormStore) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Preload("PricingTiers", orderedTiers)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("PricingTiers", orderedTiers).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("PricingTiers", orderedTiers).
		Where("name = ?", name).
		Order("id ASC").
		First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	for i := range product.PricingTiers {
		product.PricingTiers[i].Position = i
	}
	return translate(s.db.WithContext(ctx).Create(product).Error)
}

// productColumns are the columns SaveProduct may overwrite. Stock columns are
// left out so a concurrent order's decrement is never rolled back.
var productColumns = []string{"name", "description", "buying_price", "selling_price", "active", "updated_at"}

// SaveProduct writes the descriptive product columns and replaces the tier set.
func (s *GormStore) SaveProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Product{}, product.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(product).Select(productColumns).Omit(clause.Associations).Updates(product).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.PricingTier{}).Error; err != nil {
			return err
		}
		for i := range product.PricingTiers {
			product.PricingTiers[i].ID = 0
			product.PricingTiers[i].ProductID = product.ID
			product.PricingTiers[i].Position = i
		}
		if len(product.PricingTiers) == 0 {
			return nil
		}
		return tx.Create(&product.PricingTiers).Error
	}))
}

func (s *GormStore) SetStock(ctx context.Context, id uint, current, minimum *int) (*models.Product, error) {
	updates := map[string]any{}
	if current != nil {
		updates["stock_current"] = *current
	}
	if minimum != nil {
		updates["stock_minimum"] = *minimum
	}

	if err := s.db.WithContext(ctx).Select("id").First(&models.Product{}, id).Error; err != nil {
		return nil, translate(err)
	}
	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}
