package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
)

const DefaultProductName = "ORIS"

type StockInput struct {
	Current *int `json:"current"`
	Minimum *int `json:"minimum"`
}

// ProductInput is used for both create and partial update; nil fields are
// left alone on update.
type ProductInput struct {
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	PricingTiers []models.PricingTier `json:"pricingTiers"`
	Stock        *StockInput          `json:"stock"`
	BuyingPrice  *float64             `json:"buyingPrice"`
	SellingPrice *float64             `json:"sellingPrice"`
	Active       *bool                `json:"active"`
}

type StockUpdate struct {
	ProductID uint `json:"productId"`
	Current   *int `json:"current"`
	Minimum   *int `json:"minimum"`
}

type BulkStockResult struct {
	ProductID uint            `json:"productId"`
	Product   *models.Product `json:"product,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type CatalogService struct {
	products repositories.ProductRepository
	log      *logger.Logger
}

func NewCatalogService(products repositories.ProductRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{products: products, log: log.WithComponent("catalog_service")}
}

func validateTiers(tiers []models.PricingTier) error {
	seen := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		if !models.IsTierName(tier.Name) {
			return ValidationError("Invalid pricing tier name: %q (allowed: %s)", tier.Name, strings.Join(models.TierNames, ", "))
		}
		if seen[tier.Name] {
			return ValidationError("Duplicate pricing tier: %s", tier.Name)
		}
		seen[tier.Name] = true
		if tier.Quantity < 1 {
			return ValidationError("Pricing tier %s must have a quantity of at least 1", tier.Name)
		}
		if tier.Price < 0 {
			return ValidationError("Pricing tier %s cannot have a negative price", tier.Name)
		}
	}
	return nil
}

func normaliseTiers(tiers []models.PricingTier) []models.PricingTier {
	out := make([]models.PricingTier, len(tiers))
	for i, tier := range tiers {
		if tier.Unit == "" {
			tier.Unit = "piece"
		}
		tier.ID = 0
		out[i] = tier
	}
	return out
}

func (s *CatalogService) lookupError(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFoundError("%s", message)
	}
	s.log.Error("Product lookup failed", "error", err)
	return InternalError("Error fetching product", err)
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx, true)
	if err != nil {
		return nil, InternalError("Error fetching products", err)
	}
	return products, nil
}

// ListAll returns every product, active or not, sorted by name.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx, false)
	if err != nil {
		return nil, InternalError("Error fetching products", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "Product not found")
	}
	return product, nil
}

// Pricing returns the named product, whose tiers and stock drive the storefront.
func (s *CatalogService) Pricing(ctx context.Context, name string) (*models.Product, error) {
	product, err := s.products.GetProductByName(ctx, name)
	if err != nil {
		return nil, s.lookupError(err, name+" product not found")
	}
	return product, nil
}

func validateStock(input *StockInput) error {
	if input == nil {
		return nil
	}
	if input.Current != nil && *input.Current < 0 {
		return ValidationError("Stock cannot be negative")
	}
	if input.Minimum != nil && *input.Minimum < 0 {
		return ValidationError("Minimum stock cannot be negative")
	}
	return nil
}

// applyStock sets stock on a product that has not been stored yet.
func applyStock(stock *models.Stock, input *StockInput) error {
	if err := validateStock(input); err != nil || input == nil {
		return err
	}
	if input.Current != nil {
		stock.Current = *input.Current
	}
	if input.Minimum != nil {
		stock.Minimum = *input.Minimum
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := models.Product{
		Name:   DefaultProductName,
		Active: true,
		Stock:  models.Stock{Minimum: models.DefaultMinimumStock},
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.BuyingPrice != nil {
		product.BuyingPrice = *input.BuyingPrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if err := applyStock(&product.Stock, input.Stock); err != nil {
		return nil, err
	}

	if len(input.PricingTiers) == 0 {
		product.PricingTiers = models.DefaultPricingTiers()
	} else {
		if err := validateTiers(input.PricingTiers); err != nil {
			return nil, err
		}
		product.PricingTiers = normaliseTiers(input.PricingTiers)
	}

	if err := s.products.CreateProduct(ctx, &product); err != nil {
		s.log.Error("Failed to create product", "name", product.Name, "error", err)
		return nil, InternalError("Error creating product", err)
	}
	s.log.Info("Product created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "Product not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ValidationError("Product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.BuyingPrice != nil {
		product.BuyingPrice = *input.BuyingPrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}
	if input.PricingTiers != nil {
		if err := validateTiers(input.PricingTiers); err != nil {
			return nil, err
		}
		product.PricingTiers = normaliseTiers(input.PricingTiers)
	}

	if err := s.products.SaveProduct(ctx, product); err != nil {
		s.log.Error("Failed to update product", "product_id", id, "error", err)
		return nil, InternalError("Error updating product", err)
	}
	if input.Stock != nil {
		if _, err := s.products.SetStock(ctx, id, input.Stock.Current, input.Stock.Minimum); err != nil {
			s.log.Error("Failed to update product stock", "product_id", id, "error", err)
			return nil, InternalError("Error updating product", err)
		}
	}

	updated, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "Product not found")
	}
	return updated, nil
}

// UpdateStock writes only the supplied values, leaving the rest as stored.
func (s *CatalogService) UpdateStock(ctx context.Context, id uint, current, minimum *int) (*models.Product, error) {
	if err := validateStock(&StockInput{Current: current, Minimum: minimum}); err != nil {
		return nil, err
	}

	updated, err := s.products.SetStock(ctx, id, current, minimum)
	if err != nil {
		return nil, s.lookupError(err, "Product not found")
	}
	s.log.Info("Stock updated", "product_id", id, "current", updated.Stock.Current, "minimum", updated.Stock.Minimum)
	return updated, nil
}

// BulkUpdateStock sets current stock for each product. A missing minimum is
// reset to the default of 10. Failures are reported per product.
func (s *CatalogService) BulkUpdateStock(ctx context.Context, updates []StockUpdate) ([]BulkStockResult, error) {
	if len(updates) == 0 {
		return nil, ValidationError("Updates array is required")
	}

	results := make([]BulkStockResult, 0, len(updates))
	for _, update := range updates {
		result := BulkStockResult{ProductID: update.ProductID}

		minimum := models.DefaultMinimumStock
		if update.Minimum != nil && *update.Minimum > 0 {
			minimum = *update.Minimum
		}
		switch {
		case update.Current == nil:
			result.Error = "current stock is required"
		case *update.Current < 0:
			result.Error = "Stock cannot be negative"
		default:
			product, err := s.products.SetStock(ctx, update.ProductID, update.Current, &minimum)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				result.Error = "Product not found"
			case err != nil:
				return nil, InternalError("Error bulk updating stock", err)
			default:
				result.Product = product
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// SeedDefault creates the ORIS product when the catalog is empty.
func (s *CatalogService) SeedDefault(ctx context.Context) (bool, error) {
	count, err := s.products.CountProducts(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	name := DefaultProductName
	description := "Premium ORIS products for Maseno delivery"
	current, minimum := 100, models.DefaultMinimumStock
	if _, err := s.Create(ctx, ProductInput{
		Name:        &name,
		Description: &description,
		Stock:       &StockInput{Current: &current, Minimum: &minimum},
	}); err != nil {
		return false, err
	}
	s.log.Info("Default ORIS product created")
	return true, nil
}
