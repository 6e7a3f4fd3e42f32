package models

import "time"

// InventoryEntry is one sale event in the inventory ledger. Rows are only
// ever inserted.
type InventoryEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"createdAt"`
	Date         time.Time `json:"date" gorm:"index"`
	ProductID    uint      `json:"productId" gorm:"index"`
	OrderID      uint      `json:"orderId" gorm:"index"`
	UnitsSold    int       `json:"unitsSold"`
	AmountSold   float64   `json:"amountSold"`
	SellingPrice float64   `json:"sellingPrice"`
	BuyingPrice  float64   `json:"buyingPrice"`
	Profit       float64   `json:"profit"`
	CashSales    float64   `json:"cashSales"`
	MpesaSales   float64   `json:"mpesaSales"`
	TotalBalance float64   `json:"totalBalance"`
}

func (InventoryEntry) TableName() string {
	return "inventory_ledger"
}
