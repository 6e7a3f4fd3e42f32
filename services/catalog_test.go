package services

import (
	"context"
	"testing"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultCreatesOrisOnce(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(repositories.NewMemoryStore(), logger.Discard())

	created, err := catalog.SeedDefault(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = catalog.SeedDefault(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	product, err := catalog.Pricing(ctx, "ORIS")
	require.NoError(t, err)
	assert.True(t, product.Active)
	assert.Equal(t, models.Stock{Current: 100, Minimum: 10}, product.Stock)

	names := make([]string, 0, len(product.PricingTiers))
	for _, tier := range product.PricingTiers {
		names = append(names, tier.Name)
	}
	assert.Equal(t, models.TierNames, names)

	tier, ok := product.Tier(models.TierThreePackets)
	require.True(t, ok)
	assert.Equal(t, 3, tier.Quantity)
	assert.Equal(t, 540.0, tier.Price)
	assert.Equal(t, "packets", tier.Unit)
}

func TestCreateProductValidatesTiers(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(repositories.NewMemoryStore(), logger.Discard())
	name := "ORIS Mint"

	_, err := catalog.Create(ctx, ProductInput{
		Name:         &name,
		PricingTiers: []models.PricingTier{{Name: "Crate", Quantity: 1, Price: 10}},
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = catalog.Create(ctx, ProductInput{
		Name: &name,
		PricingTiers: []models.PricingTier{
			{Name: models.TierSingle, Quantity: 1, Price: 10},
			{Name: models.TierSingle, Quantity: 1, Price: 12},
		},
	})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = catalog.Create(ctx, ProductInput{Name: &name, Stock: &StockInput{Current: intPtr(-1)}})
	assert.Equal(t, KindValidation, KindOf(err))

	product, err := catalog.Create(ctx, ProductInput{
		Name:         &name,
		PricingTiers: []models.PricingTier{{Name: models.TierSingle, Quantity: 1, Price: 12}},
	})
	require.NoError(t, err)
	require.Len(t, product.PricingTiers, 1)
	assert.Equal(t, "piece", product.PricingTiers[0].Unit)
	assert.Equal(t, models.DefaultMinimumStock, product.Stock.Minimum)
}

func TestUpdateProductIsPartial(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()
	description := "Now with menthol"
	buying := 4.0

	updated, err := f.catalog.Update(ctx, f.product.ID, ProductInput{Description: &description, BuyingPrice: &buying})
	require.NoError(t, err)
	assert.Equal(t, "ORIS", updated.Name)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, 4.0, updated.BuyingPrice)
	assert.Len(t, updated.PricingTiers, 4)
	assert.Equal(t, 100, updated.Stock.Current)

	empty := " "
	_, err = f.catalog.Update(ctx, f.product.ID, ProductInput{Name: &empty})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.catalog.Update(ctx, 999, ProductInput{Description: &description})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListActiveHidesInactiveProducts(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()
	name, inactive := "Archived", false
	_, err := f.catalog.Create(ctx, ProductInput{Name: &name, Active: &inactive})
	require.NoError(t, err)

	active, err := f.catalog.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ORIS", active[0].Name)

	all, err := f.catalog.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Archived", all[0].Name)
}

func TestUpdateStock(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	product, err := f.catalog.UpdateStock(ctx, f.product.ID, intPtr(40), nil)
	require.NoError(t, err)
	assert.Equal(t, 40, product.Stock.Current)
	assert.Equal(t, 10, product.Stock.Minimum)

	_, err = f.catalog.UpdateStock(ctx, f.product.ID, intPtr(-3), nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.catalog.UpdateStock(ctx, 77, intPtr(3), nil)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBulkUpdateStock(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.catalog.BulkUpdateStock(ctx, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	results, err := f.catalog.BulkUpdateStock(ctx, []StockUpdate{
		{ProductID: f.product.ID, Current: intPtr(55)},
		{ProductID: 404, Current: intPtr(5)},
		{ProductID: f.product.ID},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].Product)
	assert.Equal(t, 55, results[0].Product.Stock.Current)
	assert.Equal(t, models.DefaultMinimumStock, results[0].Product.Stock.Minimum)
	assert.Equal(t, "Product not found", results[1].Error)
	assert.NotEmpty(t, results[2].Error)

	assert.Equal(t, 55, f.stock(t).Current)
}

// interleavedProducts runs between once right after the first product read,
// standing in for an order committed while an edit is in flight.
type interleavedProducts struct {
	repositories.ProductRepository
	between func()
}

func (p *interleavedProducts) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := p.ProductRepository.GetProduct(ctx, id)
	if p.between != nil {
		between := p.between
		p.between = nil
		between()
	}
	return product, err
}

func TestUpdateKeepsStockSoldMeanwhile(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()
	products := &interleavedProducts{ProductRepository: f.store}
	products.between = func() { f.place(t, models.PaymentCash, f.line(models.TierFivePackets, 1)) }
	catalog := NewCatalogService(products, logger.Discard())

	description := "Premium ORIS, new flavours"
	updated, err := catalog.Update(ctx, f.product.ID, ProductInput{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, models.Stock{Current: 95, Minimum: 10, Sold: 5}, updated.Stock)
	assert.Equal(t, models.Stock{Current: 95, Minimum: 10, Sold: 5}, f.stock(t))
}

func TestUpdateStockFieldsOnly(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()
	f.place(t, models.PaymentCash, f.line(models.TierThreePackets, 1))

	updated, err := f.catalog.Update(ctx, f.product.ID, ProductInput{Stock: &StockInput{Minimum: intPtr(20)}})
	require.NoError(t, err)
	assert.Equal(t, models.Stock{Current: 97, Minimum: 20, Sold: 3}, updated.Stock)

	product, err := f.catalog.UpdateStock(ctx, f.product.ID, nil, intPtr(15))
	require.NoError(t, err)
	assert.Equal(t, models.Stock{Current: 97, Minimum: 15, Sold: 3}, product.Stock)

	_, err = f.catalog.Update(ctx, f.product.ID, ProductInput{Stock: &StockInput{Minimum: intPtr(-1)}})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 15, f.stock(t).Minimum)
}
