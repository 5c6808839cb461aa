package ledger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tiendanova/pos-api/internal/application/ledger"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	"github.com/tiendanova/pos-api/internal/domain/repository"
	"github.com/tiendanova/pos-api/internal/infrastructure/database"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

type fixture struct {
	db     *gorm.DB
	svc    *ledger.Service
	store  entity.Store
	user   entity.User
	coffee entity.Product
	cake   entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{
		db:  db,
		svc: ledger.NewService(db, zap.NewNop(), decimal.RequireFromString("0.19")),
	}

	f.store = entity.Store{Name: "Main Store"}
	require.NoError(t, db.Create(&f.store).Error)

	f.user = entity.User{Username: "alice", FullName: "Alice Operator", Role: entity.RoleAdmin, Active: true}
	require.NoError(t, f.user.SetPassword("secret"))
	require.NoError(t, db.Create(&f.user).Error)

	f.coffee = entity.Product{Name: "Coffee 500g", SKU: "COF-500", Price: decimal.NewFromInt(10000)}
	f.cake = entity.Product{Name: "Chocolate Cake", SKU: "CAK-001", Price: decimal.NewFromInt(5000)}
	require.NoError(t, db.Create(&f.coffee).Error)
	require.NoError(t, db.Create(&f.cake).Error)

	require.NoError(t, db.Create(&entity.Inventory{ProductID: f.coffee.ID, StoreID: f.store.ID, Quantity: 10, MinStock: 2}).Error)
	require.NoError(t, db.Create(&entity.Inventory{ProductID: f.cake.ID, StoreID: f.store.ID, Quantity: 5, MinStock: 1}).Error)

	return f
}

func (f *fixture) openSession(t *testing.T) *pos.SessionSnapshot {
	t.Helper()
	snapshot, err := f.svc.OpenSession(context.Background(), pos.OpenSessionRequest{
		UserID:        f.user.ID,
		StoreID:       f.store.ID,
		OpeningAmount: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	return snapshot
}

func (f *fixture) checkout(t *testing.T, sessionID uuid.UUID, payment string, items ...pos.CheckoutItem) *pos.InvoiceDetail {
	t.Helper()
	detail, err := f.svc.Checkout(context.Background(), pos.CheckoutRequest{
		UserID:        f.user.ID,
		SessionID:     sessionID,
		PaymentMethod: payment,
		Items:         items,
	})
	require.NoError(t, err)
	return detail
}

func (f *fixture) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var inventory entity.Inventory
	require.NoError(t, f.db.First(&inventory, "product_id = ? AND store_id = ?", productID, f.store.ID).Error)
	return inventory.Quantity
}

func item(productID uuid.UUID, qty int, price, discount string) pos.CheckoutItem {
	return pos.CheckoutItem{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
		Discount:  decimal.RequireFromString(discount),
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	snapshot := f.openSession(t)
	assert.Equal(t, "Main Store", snapshot.StoreName)
	assert.True(t, snapshot.OpeningAmount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, snapshot.TotalSales.IsZero())

	// A second open for the same operator is rejected
	_, err := f.svc.OpenSession(context.Background(), pos.OpenSessionRequest{
		UserID:        f.user.ID,
		StoreID:       f.store.ID,
		OpeningAmount: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already open")

	f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 2, "10000", "2000"))

	current, err := f.svc.CurrentSession(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, snapshot.ID, current.ID)
	assert.True(t, current.TotalSales.Equal(decimal.NewFromInt(16000)), "got %s", current.TotalSales)

	result, err := f.svc.CloseSession(context.Background(), pos.CloseSessionRequest{
		SessionID:     snapshot.ID,
		UserID:        f.user.ID,
		ClosingAmount: decimal.NewFromInt(66000),
	})
	require.NoError(t, err)
	assert.True(t, result.TotalSales.Equal(decimal.NewFromInt(16000)))

	// Closed sessions stay closed
	_, err = f.svc.CloseSession(context.Background(), pos.CloseSessionRequest{
		SessionID:     snapshot.ID,
		UserID:        f.user.ID,
		ClosingAmount: decimal.NewFromInt(66000),
	})
	require.Error(t, err)

	current, err = f.svc.CurrentSession(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestCloseSessionByAnotherOperator(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	other := entity.User{Username: "bob", Role: entity.RoleManager, Active: true}
	require.NoError(t, other.SetPassword("secret"))
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.svc.CloseSession(context.Background(), pos.CloseSessionRequest{
		SessionID:     snapshot.ID,
		UserID:        other.ID,
		ClosingAmount: decimal.Zero,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opened the session")
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	detail := f.checkout(t, snapshot.ID, "cash",
		item(f.coffee.ID, 2, "10000", "2000"),
		item(f.cake.ID, 1, "5000", "0"))

	assert.True(t, strings.HasPrefix(detail.InvoiceNumber, "INV-"))
	assert.Equal(t, "paid", detail.Status)
	assert.True(t, detail.TotalAmount.Equal(decimal.NewFromInt(21000)), "got %s", detail.TotalAmount)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Coffee 500g", detail.Items[0].ProductName)

	assert.Equal(t, 8, f.stock(t, f.coffee.ID))
	assert.Equal(t, 4, f.stock(t, f.cake.ID))

	var saleCount int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Where("invoice_id = ?", detail.ID).Count(&saleCount).Error)
	assert.EqualValues(t, 2, saleCount)

	entries, err := f.svc.InvoiceAuditLog(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "Alice Operator", entries[0].User)
}

func TestCheckoutClampsDiscount(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	detail := f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 2, "10000", "999999"))

	assert.True(t, detail.TotalAmount.IsZero(), "got %s", detail.TotalAmount)
	assert.True(t, detail.Items[0].Discount.Equal(decimal.NewFromInt(10000)))
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	_, err := f.svc.Checkout(context.Background(), pos.CheckoutRequest{
		UserID:        f.user.ID,
		SessionID:     snapshot.ID,
		PaymentMethod: "cash",
		Items:         []pos.CheckoutItem{item(f.coffee.ID, 99, "10000", "0")},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock for Coffee 500g")
	assert.Equal(t, 10, f.stock(t, f.coffee.ID), "a rejected checkout must not consume stock")

	var invoiceCount int64
	require.NoError(t, f.db.Model(&entity.Invoice{}).Count(&invoiceCount).Error)
	assert.Zero(t, invoiceCount)
}

func TestCheckoutClosedSession(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	_, err := f.svc.CloseSession(context.Background(), pos.CloseSessionRequest{
		SessionID:     snapshot.ID,
		UserID:        f.user.ID,
		ClosingAmount: decimal.Zero,
	})
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), pos.CheckoutRequest{
		UserID:        f.user.ID,
		SessionID:     snapshot.ID,
		PaymentMethod: "cash",
		Items:         []pos.CheckoutItem{item(f.coffee.ID, 1, "10000", "0")},
	})

	assert.ErrorIs(t, err, pos.ErrSessionClosed)
}

func TestUpdateInvoiceReconcilesStock(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	detail := f.checkout(t, snapshot.ID, "cash",
		item(f.coffee.ID, 2, "10000", "0"),
		item(f.cake.ID, 1, "5000", "0"))
	require.Equal(t, 8, f.stock(t, f.coffee.ID))

	// Raise coffee to 4 units and drop the cake line
	lines := []pos.InvoiceLine{detail.Items[0]}
	lines[0].Quantity = 4
	lines[0].LineTotal = decimal.NewFromInt(40000)

	updated, err := f.svc.UpdateInvoice(context.Background(), pos.UpdateInvoiceRequest{
		InvoiceID:     detail.ID,
		UserID:        f.user.ID,
		PaymentMethod: "card",
		Items:         lines,
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(40000)), "got %s", updated.TotalAmount)
	assert.Equal(t, "card", updated.PaymentMethod)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 6, f.stock(t, f.coffee.ID), "two more coffee units consumed")
	assert.Equal(t, 5, f.stock(t, f.cake.ID), "the removed cake line restores stock")

	// Sale rows are rebuilt to mirror the new line set
	var saleCount int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Where("invoice_id = ?", detail.ID).Count(&saleCount).Error)
	assert.EqualValues(t, 1, saleCount)

	entries, err := f.svc.InvoiceAuditLog(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "update", entries[0].Action, "newest entry first")
}

func TestUpdateInvoiceInsufficientStockRolledBack(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	detail := f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 2, "10000", "0"))

	lines := []pos.InvoiceLine{detail.Items[0]}
	lines[0].Quantity = 99

	_, err := f.svc.UpdateInvoice(context.Background(), pos.UpdateInvoiceRequest{
		InvoiceID:     detail.ID,
		UserID:        f.user.ID,
		PaymentMethod: "cash",
		Items:         lines,
	})

	require.Error(t, err)
	assert.Equal(t, 8, f.stock(t, f.coffee.ID), "the failed update must leave stock untouched")

	unchanged, err := f.svc.GetInvoice(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.Items[0].Quantity)
}

func TestVoidInvoice(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	detail := f.checkout(t, snapshot.ID, "cash",
		item(f.coffee.ID, 2, "10000", "0"),
		item(f.cake.ID, 1, "5000", "0"))

	voided, err := f.svc.VoidInvoice(context.Background(), detail.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "void", voided.Status)

	assert.Equal(t, 10, f.stock(t, f.coffee.ID))
	assert.Equal(t, 5, f.stock(t, f.cake.ID))

	var saleCount int64
	require.NoError(t, f.db.Model(&entity.Sale{}).Where("invoice_id = ?", detail.ID).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	// Void is terminal on the ledger side too
	_, err = f.svc.VoidInvoice(context.Background(), detail.ID, f.user.ID)
	assert.ErrorIs(t, err, pos.ErrInvoiceVoid)
	_, err = f.svc.UpdateInvoice(context.Background(), pos.UpdateInvoiceRequest{
		InvoiceID:     detail.ID,
		UserID:        f.user.ID,
		PaymentMethod: "cash",
		Items:         detail.Items,
	})
	assert.ErrorIs(t, err, pos.ErrInvoiceVoid)

	entries, err := f.svc.InvoiceAuditLog(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "void", entries[0].Action)
}

func TestClosingReport(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 2, "10000", "2000"))
	f.checkout(t, snapshot.ID, "card", item(f.cake.ID, 1, "5000", "0"))

	// A voided invoice must not count
	voidable := f.checkout(t, snapshot.ID, "cash", item(f.cake.ID, 1, "5000", "0"))
	_, err := f.svc.VoidInvoice(context.Background(), voidable.ID, f.user.ID)
	require.NoError(t, err)

	report, err := f.svc.ClosingReport(context.Background(), pos.ReportQuery{Date: time.Now().UTC()})
	require.NoError(t, err)

	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(21000)), "got %s", report.TotalSales)
	assert.Equal(t, 2, report.Transactions)
	assert.True(t, report.TaxesCollected.Equal(decimal.RequireFromString("3990")), "got %s", report.TaxesCollected)
	assert.True(t, report.DiscountsApplied.Equal(decimal.NewFromInt(4000)), "got %s", report.DiscountsApplied)
	assert.Equal(t, "All Stores", report.StoreName)

	require.Len(t, report.PaymentBreakdown, 2)
	byMethod := map[string]pos.PaymentBreakdown{}
	for _, p := range report.PaymentBreakdown {
		byMethod[p.Method] = p
	}
	assert.True(t, byMethod["cash"].Total.Equal(decimal.NewFromInt(16000)))
	assert.Equal(t, 1, byMethod["cash"].Transactions)
	assert.True(t, byMethod["card"].Total.Equal(decimal.NewFromInt(5000)))

	require.Len(t, report.ProductsSold, 2)
	assert.Equal(t, "Coffee 500g", report.ProductsSold[0].ProductName)
	assert.Equal(t, 2, report.ProductsSold[0].Quantity)
}

func TestClosingReportScopedToStore(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 1, "10000", "0"))

	other := entity.Store{Name: "Second Store"}
	require.NoError(t, f.db.Create(&other).Error)

	report, err := f.svc.ClosingReport(context.Background(), pos.ReportQuery{
		Date:    time.Now().UTC(),
		StoreID: &other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Second Store", report.StoreName)
	assert.True(t, report.TotalSales.IsZero())
	assert.Zero(t, report.Transactions)
}

func TestSearchProducts(t *testing.T) {
	f := newFixture(t)

	products, err := f.svc.SearchProducts(context.Background(), f.store.ID, "coffee", 10)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Coffee 500g", products[0].Name)
	require.NotNil(t, products[0].Stock)
	assert.Equal(t, 10, *products[0].Stock)
}

func TestRecentInvoicesExcludeVoid(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)

	kept := f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 1, "10000", "0"))
	voided := f.checkout(t, snapshot.ID, "cash", item(f.cake.ID, 1, "5000", "0"))
	_, err := f.svc.VoidInvoice(context.Background(), voided.ID, f.user.ID)
	require.NoError(t, err)

	summaries, err := f.svc.RecentInvoices(context.Background(), &f.store.ID, 20)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, kept.InvoiceNumber, summaries[0].InvoiceNumber)
}

func TestExportInvoicesCSV(t *testing.T) {
	f := newFixture(t)
	snapshot := f.openSession(t)
	detail := f.checkout(t, snapshot.ID, "cash", item(f.coffee.ID, 2, "10000", "2000"))

	var buf bytes.Buffer
	err := f.svc.ExportInvoicesCSV(context.Background(), &buf, &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "invoice_number,date,customer,payment_method,status,total")
	assert.Contains(t, out, detail.InvoiceNumber)
	assert.Contains(t, out, "16000.00")

	enums := enum.InvoiceStatusPaid.String()
	assert.Contains(t, out, enums)
}
