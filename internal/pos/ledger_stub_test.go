package pos_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendanova/pos-api/internal/pos"
)

// stubLedger implements pos.Ledger with overridable behaviors so each
// test drives only the calls it cares about.
type stubLedger struct {
	openSessionFn    func(ctx context.Context, req pos.OpenSessionRequest) (*pos.SessionSnapshot, error)
	closeSessionFn   func(ctx context.Context, req pos.CloseSessionRequest) (*pos.SessionCloseResult, error)
	currentSessionFn func(ctx context.Context, userID uuid.UUID) (*pos.SessionSnapshot, error)
	checkoutFn       func(ctx context.Context, req pos.CheckoutRequest) (*pos.InvoiceDetail, error)
	getInvoiceFn     func(ctx context.Context, invoiceID uuid.UUID) (*pos.InvoiceDetail, error)
	updateInvoiceFn  func(ctx context.Context, req pos.UpdateInvoiceRequest) (*pos.InvoiceDetail, error)
	voidInvoiceFn    func(ctx context.Context, invoiceID, userID uuid.UUID) (*pos.InvoiceDetail, error)
	auditLogFn       func(ctx context.Context, invoiceID uuid.UUID) ([]pos.AuditEntry, error)
	closingReportFn  func(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error)

	checkoutCalls []pos.CheckoutRequest
	updateCalls   []pos.UpdateInvoiceRequest
}

func (s *stubLedger) OpenSession(ctx context.Context, req pos.OpenSessionRequest) (*pos.SessionSnapshot, error) {
	if s.openSessionFn != nil {
		return s.openSessionFn(ctx, req)
	}
	return &pos.SessionSnapshot{
		ID:            uuid.New(),
		StoreID:       req.StoreID,
		StoreName:     "Main Store",
		OpenedAt:      time.Now().UTC(),
		OpeningAmount: req.OpeningAmount,
		TotalSales:    decimal.Zero,
	}, nil
}

func (s *stubLedger) CloseSession(ctx context.Context, req pos.CloseSessionRequest) (*pos.SessionCloseResult, error) {
	if s.closeSessionFn != nil {
		return s.closeSessionFn(ctx, req)
	}
	return &pos.SessionCloseResult{
		SessionID:     req.SessionID,
		ClosedAt:      time.Now().UTC(),
		ClosingAmount: req.ClosingAmount,
		TotalSales:    decimal.Zero,
	}, nil
}

func (s *stubLedger) CurrentSession(ctx context.Context, userID uuid.UUID) (*pos.SessionSnapshot, error) {
	if s.currentSessionFn != nil {
		return s.currentSessionFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubLedger) Checkout(ctx context.Context, req pos.CheckoutRequest) (*pos.InvoiceDetail, error) {
	s.checkoutCalls = append(s.checkoutCalls, req)
	if s.checkoutFn != nil {
		return s.checkoutFn(ctx, req)
	}
	total := decimal.Zero
	items := make([]pos.InvoiceLine, len(req.Items))
	for i, item := range req.Items {
		lineTotal := item.UnitPrice.Sub(item.Discount).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		items[i] = pos.InvoiceLine{
			InvoiceItemID: ptr(uuid.New()),
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Discount:      item.Discount,
			LineTotal:     lineTotal,
		}
		total = total.Add(lineTotal)
	}
	return &pos.InvoiceDetail{
		ID:            uuid.New(),
		InvoiceNumber: "INV-1756600000-1",
		Status:        "paid",
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		CreatedAt:     time.Now().UTC(),
		Items:         items,
	}, nil
}

func (s *stubLedger) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*pos.InvoiceDetail, error) {
	if s.getInvoiceFn != nil {
		return s.getInvoiceFn(ctx, invoiceID)
	}
	return nil, pos.ErrNotFound
}

func (s *stubLedger) UpdateInvoice(ctx context.Context, req pos.UpdateInvoiceRequest) (*pos.InvoiceDetail, error) {
	s.updateCalls = append(s.updateCalls, req)
	if s.updateInvoiceFn != nil {
		return s.updateInvoiceFn(ctx, req)
	}
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.LineTotal)
	}
	return &pos.InvoiceDetail{
		ID:            req.InvoiceID,
		InvoiceNumber: "INV-1756600000-1",
		Status:        "paid",
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		CreatedAt:     time.Now().UTC(),
		Items:         req.Items,
	}, nil
}

func (s *stubLedger) VoidInvoice(ctx context.Context, invoiceID, userID uuid.UUID) (*pos.InvoiceDetail, error) {
	if s.voidInvoiceFn != nil {
		return s.voidInvoiceFn(ctx, invoiceID, userID)
	}
	return &pos.InvoiceDetail{
		ID:            invoiceID,
		InvoiceNumber: "INV-1756600000-1",
		Status:        "void",
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (s *stubLedger) InvoiceAuditLog(ctx context.Context, invoiceID uuid.UUID) ([]pos.AuditEntry, error) {
	if s.auditLogFn != nil {
		return s.auditLogFn(ctx, invoiceID)
	}
	return nil, nil
}

func (s *stubLedger) ClosingReport(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
	if s.closingReportFn != nil {
		return s.closingReportFn(ctx, query)
	}
	return &pos.ClosingReport{Date: query.Date.Format("2006-01-02")}, nil
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProduct(name, price string) pos.CartProduct {
	return pos.CartProduct{
		ID:    uuid.New(),
		Name:  name,
		SKU:   "SKU-" + name,
		Price: dec(price),
	}
}
