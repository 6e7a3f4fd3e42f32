package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/shopspring/decimal"
)

const (
	DefaultProfitMargin  = 0.5
	DefaultAnalyticsDays = 30
	DefaultPageSize      = 10
	MaxPageSize          = 100
	MaxSearchResults     = 50
	RecentOrdersLimit    = 5
	TopCustomersLimit    = 10
)

// ExportArchiver stores a rendered export somewhere durable and reports
// where it went.
type ExportArchiver interface {
	Archive(ctx context.Context, key string, body io.Reader) (string, error)
}

type PaymentBreakdown struct {
	Cash  float64 `json:"cash"`
	Mpesa float64 `json:"mpesa"`
}

type TodayStats struct {
	Sales            float64          `json:"sales"`
	Profit           float64          `json:"profit"`
	Orders           int              `json:"orders"`
	PaymentBreakdown PaymentBreakdown `json:"paymentBreakdown"`
}

type TotalStats struct {
	Orders    int64 `json:"orders"`
	Products  int64 `json:"products"`
	Customers int64 `json:"customers"`
}

type AlertStats struct {
	LowStock      int   `json:"lowStock"`
	PendingOrders int64 `json:"pendingOrders"`
}

type Dashboard struct {
	Today            TodayStats       `json:"today"`
	Totals           TotalStats       `json:"totals"`
	Alerts           AlertStats       `json:"alerts"`
	LowStockProducts []models.Product `json:"lowStockProducts"`
	RecentOrders     []models.Order   `json:"recentOrders"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DailySales struct {
	Date         string  `json:"date"`
	TotalSales   float64 `json:"totalSales"`
	OrderCount   int     `json:"orderCount"`
	AverageOrder float64 `json:"averageOrder"`
}

type ProductPerformance struct {
	ProductID    uint    `json:"productId"`
	ProductName  string  `json:"productName"`
	TotalSold    int     `json:"totalSold"`
	TotalRevenue float64 `json:"totalRevenue"`
	OrderCount   int     `json:"orderCount"`
}

type PaymentMethodStats struct {
	Method      string  `json:"method"`
	TotalAmount float64 `json:"totalAmount"`
	OrderCount  int     `json:"orderCount"`
}

type CustomerInsight struct {
	UserID       uint    `json:"userId"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	TotalSpent   float64 `json:"totalSpent"`
	OrderCount   int     `json:"orderCount"`
	AverageOrder float64 `json:"averageOrder"`
}

type AnalyticsSummary struct {
	TotalSales        float64 `json:"totalSales"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	EstimatedProfit   float64 `json:"estimatedProfit"`
	LedgerProfit      float64 `json:"ledgerProfit"`
}

type Analytics struct {
	DateRange      DateRange            `json:"dateRange"`
	SalesTrend     []DailySales         `json:"salesTrend"`
	TopProducts    []ProductPerformance `json:"topProducts"`
	PaymentMethods []PaymentMethodStats `json:"paymentMethods"`
	TopCustomers   []CustomerInsight    `json:"topCustomers"`
	Summary        AnalyticsSummary     `json:"summary"`
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

type OrderQuery struct {
	Status        string
	PaymentMethod string
	Page          int
	Limit         int
}

type SearchQuery struct {
	Query         string
	Status        string
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	MinAmount     *float64
	MaxAmount     *float64
}

type ExportQuery struct {
	From   *time.Time
	To     *time.Time
	Status string
}

// ExportRow is one order flattened for spreadsheets.
type ExportRow struct {
	OrderID         uint    `json:"Order ID"`
	Date            string  `json:"Date"`
	Customer        string  `json:"Customer"`
	Phone           string  `json:"Phone"`
	Items           string  `json:"Items"`
	Subtotal        float64 `json:"Subtotal"`
	DeliveryFee     float64 `json:"Delivery Fee"`
	TotalAmount     float64 `json:"Total Amount"`
	PaymentMethod   string  `json:"Payment Method"`
	Status          string  `json:"Status"`
	DeliveryStatus  string  `json:"Delivery Status"`
	DeliveryAddress string  `json:"Delivery Address"`
}

var exportHeader = []string{
	"Order ID", "Date", "Customer", "Phone", "Items", "Subtotal", "Delivery Fee",
	"Total Amount", "Payment Method", "Status", "Delivery Status", "Delivery Address",
}

type CustomerStats struct {
	models.User
	OrderCount int     `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

type InventoryAlerts struct {
	LowStock      []models.Product `json:"lowStock"`
	CriticalStock []models.Product `json:"criticalStock"`
	Summary       struct {
		LowStockCount      int `json:"lowStockCount"`
		CriticalStockCount int `json:"criticalStockCount"`
	} `json:"summary"`
}

// ReportingService answers the read-only admin questions.
type ReportingService struct {
	store    repositories.Store
	margin   float64
	archiver ExportArchiver
	log      *logger.Logger
	now      func() time.Time
}

func NewReportingService(store repositories.Store, margin float64, archiver ExportArchiver, log *logger.Logger) *ReportingService {
	if margin <= 0 || margin > 1 {
		margin = DefaultProfitMargin
	}
	return &ReportingService{
		store:    store,
		margin:   margin,
		archiver: archiver,
		log:      log.WithComponent("reporting_service"),
		now:      time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func lowStock(products []models.Product) []models.Product {
	low := []models.Product{}
	for i := range products {
		if products[i].IsLowStock() {
			low = append(low, products[i])
		}
	}
	return low
}

func (s *ReportingService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	from := startOfDay(now)
	to := from.Add(24*time.Hour - time.Nanosecond)

	todayOrders, _, err := s.store.ListOrders(ctx, repositories.OrderFilter{From: &from, To: &to})
	if err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}

	sales, cash, mpesa := decimal.Zero, decimal.Zero, decimal.Zero
	for _, order := range todayOrders {
		amount := decimal.NewFromFloat(order.TotalAmount)
		sales = sales.Add(amount)
		if order.PaymentMethod == models.PaymentCash {
			cash = cash.Add(amount)
		} else {
			mpesa = mpesa.Add(amount)
		}
	}

	dashboard := &Dashboard{
		Today: TodayStats{
			Sales:            sales.InexactFloat64(),
			Profit:           sales.Mul(decimal.NewFromFloat(s.margin)).InexactFloat64(),
			Orders:           len(todayOrders),
			PaymentBreakdown: PaymentBreakdown{Cash: cash.InexactFloat64(), Mpesa: mpesa.InexactFloat64()},
		},
	}

	if _, dashboard.Totals.Orders, err = s.store.ListOrders(ctx, repositories.OrderFilter{Limit: 1}); err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}
	if dashboard.Totals.Products, err = s.store.CountProducts(ctx); err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}
	if dashboard.Totals.Customers, err = s.store.CountUsers(ctx, models.RoleCustomer); err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}

	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}
	dashboard.LowStockProducts = lowStock(products)
	dashboard.Alerts.LowStock = len(dashboard.LowStockProducts)

	if _, dashboard.Alerts.PendingOrders, err = s.store.ListOrders(ctx, repositories.OrderFilter{Status: models.OrderStatusPending, Limit: 1}); err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}
	if dashboard.RecentOrders, _, err = s.store.ListOrders(ctx, repositories.OrderFilter{Limit: RecentOrdersLimit}); err != nil {
		return nil, InternalError("Error fetching dashboard stats", err)
	}
	return dashboard, nil
}

// Analytics aggregates orders inside [from, to]; the range defaults to the
// last 30 days.
func (s *ReportingService) Analytics(ctx context.Context, from, to *time.Time) (*Analytics, error) {
	end := s.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -DefaultAnalyticsDays)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return nil, ValidationError("startDate must be before endDate")
	}

	orders, _, err := s.store.ListOrders(ctx, repositories.OrderFilter{From: &start, To: &end})
	if err != nil {
		return nil, InternalError("Error fetching advanced analytics", err)
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	daily := map[string]*bucket{}
	products := map[uint]*ProductPerformance{}
	productRevenue := map[uint]decimal.Decimal{}
	methods := map[string]*bucket{}
	customers := map[uint]*bucket{}
	customerInfo := map[uint]*models.User{}
	totalSales := decimal.Zero

	for _, order := range orders {
		amount := decimal.NewFromFloat(order.TotalAmount)
		totalSales = totalSales.Add(amount)

		day := order.CreatedAt.Format(time.DateOnly)
		if daily[day] == nil {
			daily[day] = &bucket{total: decimal.Zero}
		}
		daily[day].total = daily[day].total.Add(amount)
		daily[day].count++

		if methods[order.PaymentMethod] == nil {
			methods[order.PaymentMethod] = &bucket{total: decimal.Zero}
		}
		methods[order.PaymentMethod].total = methods[order.PaymentMethod].total.Add(amount)
		methods[order.PaymentMethod].count++

		if customers[order.UserID] == nil {
			customers[order.UserID] = &bucket{total: decimal.Zero}
		}
		customers[order.UserID].total = customers[order.UserID].total.Add(amount)
		customers[order.UserID].count++
		if order.User != nil {
			customerInfo[order.UserID] = order.User
		}

		for _, item := range order.Items {
			perf := products[item.ProductID]
			if perf == nil {
				perf = &ProductPerformance{ProductID: item.ProductID, ProductName: item.ProductName}
				products[item.ProductID] = perf
				productRevenue[item.ProductID] = decimal.Zero
			}
			perf.TotalSold += item.Quantity
			perf.OrderCount++
			productRevenue[item.ProductID] = productRevenue[item.ProductID].Add(decimal.NewFromFloat(item.TotalPrice))
		}
	}

	result := &Analytics{
		DateRange:      DateRange{Start: start, End: end},
		SalesTrend:     []DailySales{},
		TopProducts:    []ProductPerformance{},
		PaymentMethods: []PaymentMethodStats{},
		TopCustomers:   []CustomerInsight{},
	}

	for day, b := range daily {
		result.SalesTrend = append(result.SalesTrend, DailySales{
			Date:         day,
			TotalSales:   b.total.InexactFloat64(),
			OrderCount:   b.count,
			AverageOrder: average(b.total, b.count),
		})
	}
	sort.Slice(result.SalesTrend, func(i, j int) bool { return result.SalesTrend[i].Date < result.SalesTrend[j].Date })

	for id, perf := range products {
		perf.TotalRevenue = productRevenue[id].InexactFloat64()
		result.TopProducts = append(result.TopProducts, *perf)
	}
	sort.Slice(result.TopProducts, func(i, j int) bool {
		if result.TopProducts[i].TotalRevenue != result.TopProducts[j].TotalRevenue {
			return result.TopProducts[i].TotalRevenue > result.TopProducts[j].TotalRevenue
		}
		return result.TopProducts[i].ProductID < result.TopProducts[j].ProductID
	})

	for method, b := range methods {
		result.PaymentMethods = append(result.PaymentMethods, PaymentMethodStats{
			Method:      method,
			TotalAmount: b.total.InexactFloat64(),
			OrderCount:  b.count,
		})
	}
	sort.Slice(result.PaymentMethods, func(i, j int) bool { return result.PaymentMethods[i].Method < result.PaymentMethods[j].Method })

	for id, b := range customers {
		insight := CustomerInsight{
			UserID:       id,
			TotalSpent:   b.total.InexactFloat64(),
			OrderCount:   b.count,
			AverageOrder: average(b.total, b.count),
		}
		if user := customerInfo[id]; user != nil {
			insight.Name, insight.Phone, insight.Email = user.Name, user.Phone, user.Email
		}
		result.TopCustomers = append(result.TopCustomers, insight)
	}
	sort.Slice(result.TopCustomers, func(i, j int) bool {
		if result.TopCustomers[i].TotalSpent != result.TopCustomers[j].TotalSpent {
			return result.TopCustomers[i].TotalSpent > result.TopCustomers[j].TotalSpent
		}
		return result.TopCustomers[i].UserID < result.TopCustomers[j].UserID
	})
	if len(result.TopCustomers) > TopCustomersLimit {
		result.TopCustomers = result.TopCustomers[:TopCustomersLimit]
	}

	ledger, err := s.store.ListLedger(ctx, start, end)
	if err != nil {
		return nil, InternalError("Error fetching advanced analytics", err)
	}
	ledgerProfit := decimal.Zero
	for _, entry := range ledger {
		ledgerProfit = ledgerProfit.Add(decimal.NewFromFloat(entry.Profit))
	}

	result.Summary = AnalyticsSummary{
		TotalSales:        totalSales.InexactFloat64(),
		TotalOrders:       len(orders),
		AverageOrderValue: average(totalSales, len(orders)),
		EstimatedProfit:   totalSales.Mul(decimal.NewFromFloat(s.margin)).InexactFloat64(),
		LedgerProfit:      ledgerProfit.InexactFloat64(),
	}
	return result, nil
}

func average(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2).InexactFloat64()
}

func (s *ReportingService) ListOrders(ctx context.Context, query OrderQuery) ([]models.Order, Pagination, error) {
	page := max(query.Page, 1)
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	if page-1 > math.MaxInt32/limit {
		return nil, Pagination{}, ValidationError("Page %d is out of range", query.Page)
	}

	orders, total, err := s.store.ListOrders(ctx, repositories.OrderFilter{
		Status:        query.Status,
		PaymentMethod: query.PaymentMethod,
		Offset:        (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		return nil, Pagination{}, InternalError("Error fetching orders", err)
	}
	return orders, Pagination{
		Current: page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Total:   total,
	}, nil
}

// Search matches free text against order fields and customer details and
// returns at most 50 orders, newest first.
func (s *ReportingService) Search(ctx context.Context, query SearchQuery) ([]models.Order, error) {
	filter := repositories.OrderFilter{
		Query:         strings.TrimSpace(query.Query),
		Status:        query.Status,
		PaymentMethod: query.PaymentMethod,
		From:          query.From,
		To:            query.To,
		MinAmount:     query.MinAmount,
		MaxAmount:     query.MaxAmount,
		Limit:         MaxSearchResults,
	}
	if filter.Query != "" {
		ids, err := s.store.SearchUsers(ctx, filter.Query)
		if err != nil {
			return nil, InternalError("Error searching orders", err)
		}
		filter.QueryUserIDs = ids
	}

	orders, _, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, InternalError("Error searching orders", err)
	}
	return orders, nil
}

func (s *ReportingService) Export(ctx context.Context, query ExportQuery) ([]ExportRow, error) {
	orders, _, err := s.store.ListOrders(ctx, repositories.OrderFilter{
		From:   query.From,
		To:     query.To,
		Status: query.Status,
	})
	if err != nil {
		return nil, InternalError("Error exporting orders", err)
	}

	rows := make([]ExportRow, 0, len(orders))
	for _, order := range orders {
		row := ExportRow{
			OrderID:         order.ID,
			Date:            order.CreatedAt.UTC().Format(time.DateOnly),
			Subtotal:        order.Subtotal,
			DeliveryFee:     order.DeliveryFee,
			TotalAmount:     order.TotalAmount,
			PaymentMethod:   order.PaymentMethod,
			Status:          order.Status,
			DeliveryStatus:  order.DeliveryStatus,
			DeliveryAddress: order.DeliveryAddress,
		}
		if order.User != nil {
			row.Customer, row.Phone = order.User.Name, order.User.Phone
		}
		items := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, fmt.Sprintf("%dx %s (%s)", item.Quantity, item.ProductName, item.PricingTier))
		}
		row.Items = strings.Join(items, "; ")
		rows = append(rows, row)
	}
	return rows, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV renders export rows with a header line.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.OrderID), 10),
			row.Date,
			row.Customer,
			row.Phone,
			row.Items,
			formatAmount(row.Subtotal),
			formatAmount(row.DeliveryFee),
			formatAmount(row.TotalAmount),
			row.PaymentMethod,
			row.Status,
			row.DeliveryStatus,
			row.DeliveryAddress,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ArchiveExport renders the export as CSV and hands it to the archiver.
func (s *ReportingService) ArchiveExport(ctx context.Context, query ExportQuery) (string, int, error) {
	if s.archiver == nil {
		return "", 0, ValidationError("Export archiving is not configured")
	}
	rows, err := s.Export(ctx, query)
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return "", 0, InternalError("Error exporting orders", err)
	}
	key := fmt.Sprintf("exports/orders-%s.csv", s.now().UTC().Format("20060102-150405"))
	location, err := s.archiver.Archive(ctx, key, &buf)
	if err != nil {
		s.log.Error("Failed to archive export", "key", key, "error", err)
		return "", 0, InternalError("Error archiving export", err)
	}
	s.log.Info("Order export archived", "location", location, "rows", len(rows))
	return location, len(rows), nil
}

func (s *ReportingService) Customers(ctx context.Context) ([]CustomerStats, error) {
	users, err := s.store.ListUsers(ctx, models.RoleCustomer)
	if err != nil {
		return nil, InternalError("Error fetching customers", err)
	}
	orders, _, err := s.store.ListOrders(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, InternalError("Error fetching customers", err)
	}

	spent := map[uint]decimal.Decimal{}
	counts := map[uint]int{}
	for _, order := range orders {
		spent[order.UserID] = spent[order.UserID].Add(decimal.NewFromFloat(order.TotalAmount))
		counts[order.UserID]++
	}

	stats := make([]CustomerStats, 0, len(users))
	for _, user := range users {
		stats = append(stats, CustomerStats{
			User:       user,
			OrderCount: counts[user.ID],
			TotalSpent: spent[user.ID].InexactFloat64(),
		})
	}
	return stats, nil
}

func (s *ReportingService) InventoryAlerts(ctx context.Context) (*InventoryAlerts, error) {
	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		return nil, InternalError("Error fetching stock alerts", err)
	}

	alerts := &InventoryAlerts{LowStock: lowStock(products), CriticalStock: []models.Product{}}
	for i := range products {
		if products[i].IsCriticalStock() {
			alerts.CriticalStock = append(alerts.CriticalStock, products[i])
		}
	}
	alerts.Summary.LowStockCount = len(alerts.LowStock)
	alerts.Summary.CriticalStockCount = len(alerts.CriticalStock)
	return alerts, nil
}
