package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	domainRepo "github.com/tiendanova/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

// floatToMoney converts a SQL aggregate back to a two-decimal amount
func floatToMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new closing report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func dayWindow(day time.Time) (time.Time, time.Time) {
	start := day.UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func (r *reportRepository) GetSalesTotals(ctx context.Context, day time.Time, storeID *uuid.UUID) (*domainRepo.SalesTotalsResult, error) {
	start, end := dayWindow(day)

	var totals struct {
		Total        float64
		Transactions int
	}
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS transactions").
		Where("created_at >= ? AND created_at < ? AND status = ?", start, end, enum.InvoiceStatusPaid)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}

	// Discounts are per unit, so each line contributes discount * quantity
	var discounts struct {
		Total float64
	}
	query = r.db.WithContext(ctx).Model(&entity.InvoiceItem{}).
		Select("COALESCE(SUM(invoice_items.discount * invoice_items.quantity), 0) AS total").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.created_at >= ? AND invoices.created_at < ? AND invoices.status = ? AND invoices.deleted_at IS NULL",
			start, end, enum.InvoiceStatusPaid)
	if storeID != nil {
		query = query.Where("invoices.store_id = ?", *storeID)
	}
	if err := query.Scan(&discounts).Error; err != nil {
		return nil, err
	}

	return &domainRepo.SalesTotalsResult{
		TotalSales:   floatToMoney(totals.Total),
		Transactions: totals.Transactions,
		Discounts:    floatToMoney(discounts.Total),
	}, nil
}

func (r *reportRepository) GetPaymentBreakdown(ctx context.Context, day time.Time, storeID *uuid.UUID) ([]domainRepo.PaymentMethodResult, error) {
	start, end := dayWindow(day)

	var rows []struct {
		Method       string
		Total        float64
		Transactions int
	}
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("payment_method AS method, COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS transactions").
		Where("created_at >= ? AND created_at < ? AND status = ?", start, end, enum.InvoiceStatusPaid).
		Group("payment_method")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Order("payment_method ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]domainRepo.PaymentMethodResult, len(rows))
	for i, row := range rows {
		results[i] = domainRepo.PaymentMethodResult{
			Method:       row.Method,
			Total:        floatToMoney(row.Total),
			Transactions: row.Transactions,
		}
	}
	return results, nil
}

func (r *reportRepository) GetProductsSold(ctx context.Context, day time.Time, storeID *uuid.UUID) ([]domainRepo.ProductSalesResult, error) {
	start, end := dayWindow(day)

	var rows []struct {
		ProductID   uuid.UUID
		ProductName string
		Quantity    int
		TotalAmount float64
	}
	query := r.db.WithContext(ctx).Model(&entity.InvoiceItem{}).
		Select("invoice_items.product_id, products.name AS product_name, SUM(invoice_items.quantity) AS quantity, COALESCE(SUM(invoice_items.line_total), 0) AS total_amount").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoices.created_at >= ? AND invoices.created_at < ? AND invoices.status = ? AND invoices.deleted_at IS NULL",
			start, end, enum.InvoiceStatusPaid).
		Group("invoice_items.product_id, products.name")
	if storeID != nil {
		query = query.Where("invoices.store_id = ?", *storeID)
	}
	if err := query.Order("total_amount DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]domainRepo.ProductSalesResult, len(rows))
	for i, row := range rows {
		results[i] = domainRepo.ProductSalesResult{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			TotalAmount: floatToMoney(row.TotalAmount),
		}
	}
	return results, nil
}
