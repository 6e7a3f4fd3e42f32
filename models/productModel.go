package models

import "gorm.io/gorm"

const (
	TierSingle       = "Single"
	TierPacket       = "Packet"
	TierThreePackets = "3 Packets"
	TierFivePackets  = "5 Packets"

	DefaultMinimumStock = 10
)

// TierNames is the fixed enumeration a pricing tier name must belong to.
var TierNames = []string{TierSingle, TierPacket, TierThreePackets, TierFivePackets}

type PricingTier struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	ProductID uint    `json:"-" gorm:"index"`
	Position  int     `json:"-"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
}

type Stock struct {
	Current int `json:"current"`
	Minimum int `json:"minimum"`
	Sold    int `json:"sold"`
}

type Product struct {
	gorm.Model
	Name         string        `json:"name" gorm:"size:120;index"`
	Description  string        `json:"description"`
	PricingTiers []PricingTier `json:"pricingTiers" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Stock        Stock         `json:"stock" gorm:"embedded;embeddedPrefix:stock_"`
	BuyingPrice  float64       `json:"buyingPrice"`
	SellingPrice float64       `json:"sellingPrice"`
	Active       bool          `json:"active"`
}

// Tier looks a tier up by exact, case-sensitive name.
func (p *Product) Tier(name string) (PricingTier, bool) {
	for _, tier := range p.PricingTiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return PricingTier{}, false
}

func (p *Product) IsLowStock() bool {
	return p.Stock.Current <= p.Stock.Minimum
}

func (p *Product) IsCriticalStock() bool {
	return float64(p.Stock.Current) <= 0.5*float64(p.Stock.Minimum)
}

func DefaultPricingTiers() []PricingTier {
	return []PricingTier{
		{Name: TierSingle, Quantity: 1, Price: 10, Unit: "piece"},
		{Name: TierPacket, Quantity: 1, Price: 200, Unit: "packet"},
		{Name: TierThreePackets, Quantity: 3, Price: 540, Unit: "packets"},
		{Name: TierFivePackets, Quantity: 5, Price: 750, Unit: "packets"},
	}
}

func IsTierName(name string) bool {
	for _, n := range TierNames {
		if n == name {
			return true
		}
	}
	return false
}
