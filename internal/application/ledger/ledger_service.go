package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiendanova/pos-api/internal/domain/entity"
	"github.com/tiendanova/pos-api/internal/domain/enum"
	domainRepo "github.com/tiendanova/pos-api/internal/domain/repository"
	infraRepo "github.com/tiendanova/pos-api/internal/infrastructure/repository"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/pkg/apperror"
	"github.com/tiendanova/pos-api/pkg/money"
)

// Service is the authoritative side of the point of sale. It owns
// sessions, invoices, stock and audit records, and is the only writer
// of those tables. Every mutation runs in one transaction so stock,
// invoice rows and sale rows never drift apart.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	taxRate decimal.Decimal
}

// NewService creates a ledger service
func NewService(db *gorm.DB, logger *zap.Logger, taxRate decimal.Decimal) *Service {
	return &Service{db: db, logger: logger, taxRate: taxRate}
}

// repos bundles the per-transaction repository set
type repos struct {
	users     domainRepo.UserRepository
	stores    domainRepo.StoreRepository
	customers domainRepo.CustomerRepository
	products  domainRepo.ProductRepository
	inventory domainRepo.InventoryRepository
	sessions  domainRepo.SessionRepository
	invoices  domainRepo.InvoiceRepository
	items     domainRepo.InvoiceItemRepository
	sales     domainRepo.SaleRepository
	audits    domainRepo.AuditLogRepository
	reports   domainRepo.ReportRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		users:     infraRepo.NewUserRepository(db),
		stores:    infraRepo.NewStoreRepository(db),
		customers: infraRepo.NewCustomerRepository(db),
		products:  infraRepo.NewProductRepository(db),
		inventory: infraRepo.NewInventoryRepository(db),
		sessions:  infraRepo.NewSessionRepository(db),
		invoices:  infraRepo.NewInvoiceRepository(db),
		items:     infraRepo.NewInvoiceItemRepository(db),
		sales:     infraRepo.NewSaleRepository(db),
		audits:    infraRepo.NewAuditLogRepository(db),
		reports:   infraRepo.NewReportRepository(db),
	}
}

// OpenSession opens a register session for an operator. One open
// session per operator is enforced here regardless of what the
// terminal believes.
func (s *Service) OpenSession(ctx context.Context, req pos.OpenSessionRequest) (*pos.SessionSnapshot, error) {
	r := newRepos(s.db)

	existing, err := r.sessions.GetOpenByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A register session is already open for this user")
	}

	store, err := r.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}
	session := entity.RegisterSession{
		StoreID:       req.StoreID,
		UserID:        req.UserID,
		Status:        enum.SessionStatusOpen,
		OpeningAmount: req.OpeningAmount.Round(2),
		Notes:         notes,
	}
	if err := r.sessions.Create(ctx, &session); err != nil {
		return nil, err
	}

	s.logger.Info("register session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("store", store.Name))

	return &pos.SessionSnapshot{
		ID:            session.ID,
		StoreID:       store.ID,
		StoreName:     store.Name,
		OpenedAt:      session.OpenedAt,
		OpeningAmount: session.OpeningAmount,
		TotalSales:    decimal.Zero,
	}, nil
}

// CloseSession closes an open session. Only the operator who opened it
// may close it, and a closed session stays closed.
func (s *Service) CloseSession(ctx context.Context, req pos.CloseSessionRequest) (*pos.SessionCloseResult, error) {
	r := newRepos(s.db)

	session, err := r.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pos.ErrNotFound
	}
	if session.UserID != req.UserID {
		return nil, apperror.NewForbiddenError("Only the operator who opened the session can close it")
	}
	if !session.IsOpen() {
		return nil, apperror.NewConflictError("The register session is already closed")
	}

	totalSales, err := r.sessions.TotalSales(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	closing := req.ClosingAmount.Round(2)
	session.Status = enum.SessionStatusClosed
	session.ClosingAmount = &closing
	session.ClosedAt = &now
	if err := r.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("register session closed",
		zap.String("session_id", session.ID.String()),
		zap.String("total_sales", totalSales.StringFixed(2)))

	return &pos.SessionCloseResult{
		SessionID:     session.ID,
		ClosedAt:      now,
		ClosingAmount: closing,
		TotalSales:    totalSales,
	}, nil
}

// CurrentSession returns the operator's open session, or nil when none
func (s *Service) CurrentSession(ctx context.Context, userID uuid.UUID) (*pos.SessionSnapshot, error) {
	r := newRepos(s.db)

	session, err := r.sessions.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	totalSales, err := r.sessions.TotalSales(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &pos.SessionSnapshot{
		ID:            session.ID,
		StoreID:       session.StoreID,
		StoreName:     session.Store.Name,
		OpenedAt:      session.OpenedAt,
		OpeningAmount: session.OpeningAmount,
		TotalSales:    totalSales,
	}, nil
}

// Checkout turns a submitted cart into an invoice. Stock is validated
// and decremented, invoice and sale rows are written and the creation
// is audited, all in one transaction.
func (s *Service) Checkout(ctx context.Context, req pos.CheckoutRequest) (*pos.InvoiceDetail, error) {
	if len(req.Items) == 0 {
		return nil, pos.ErrEmptyCart
	}

	var invoiceID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)

		session, err := r.sessions.GetByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if session == nil || !session.IsOpen() {
			return pos.ErrSessionClosed
		}
		if session.UserID != req.UserID {
			return apperror.NewForbiddenError("The session belongs to another operator")
		}

		if req.CustomerID != nil {
			customer, err := r.customers.GetByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}

		number, err := s.nextInvoiceNumber(ctx, r)
		if err != nil {
			return err
		}

		invoice := entity.Invoice{
			InvoiceNumber: number,
			CustomerID:    req.CustomerID,
			UserID:        req.UserID,
			StoreID:       session.StoreID,
			SessionID:     session.ID,
			PaymentMethod: req.PaymentMethod,
			Status:        enum.InvoiceStatusPaid,
		}

		items := make([]entity.InvoiceItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return apperror.NewBadRequestError("Line quantity must be greater than zero")
			}
			product, err := r.products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError("Product")
			}
			if err := s.consumeStock(ctx, r, product, session.StoreID, line.Quantity); err != nil {
				return err
			}

			discount := money.ClampDiscount(line.UnitPrice, line.Discount)
			lineTotal := money.LineTotal(line.UnitPrice, discount, line.Quantity)
			items = append(items, entity.InvoiceItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice.Round(2),
				Discount:  discount.Round(2),
				LineTotal: lineTotal,
			})
			total = total.Add(lineTotal)
		}
		invoice.TotalAmount = total

		if err := r.invoices.Create(ctx, &invoice); err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := r.items.CreateBatch(ctx, items); err != nil {
			return err
		}
		if err := r.sales.CreateBatch(ctx, saleRows(&invoice, items)); err != nil {
			return err
		}
		if err := s.audit(ctx, r, invoice.ID, req.UserID, enum.AuditActionCreate,
			fmt.Sprintf("Invoice %s created", invoice.InvoiceNumber), nil); err != nil {
			return err
		}

		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout completed", zap.String("invoice_id", invoiceID.String()))
	return s.GetInvoice(ctx, invoiceID)
}

// GetInvoice returns the authoritative serialization of an invoice
func (s *Service) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*pos.InvoiceDetail, error) {
	r := newRepos(s.db)

	invoice, err := r.invoices.GetWithDetails(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, pos.ErrNotFound
	}
	return invoiceDetail(invoice), nil
}

// UpdateInvoice replaces an invoice's full line set. Stock is
// reconciled per product against the previous quantities, sale rows are
// rebuilt and the edit is audited.
func (s *Service) UpdateInvoice(ctx context.Context, req pos.UpdateInvoiceRequest) (*pos.InvoiceDetail, error) {
	if len(req.Items) == 0 {
		return nil, pos.ErrEmptyInvoice
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)

		invoice, err := r.invoices.GetWithDetails(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return pos.ErrNotFound
		}
		if invoice.IsVoid() {
			return pos.ErrInvoiceVoid
		}

		// Previous quantities per product, to reconcile stock
		oldQuantities := make(map[uuid.UUID]int)
		existingRows := make(map[uuid.UUID]entity.InvoiceItem)
		for _, item := range invoice.Items {
			oldQuantities[item.ProductID] += item.Quantity
			existingRows[item.ID] = item
		}

		newQuantities := make(map[uuid.UUID]int)
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return apperror.NewBadRequestError("Line quantity must be greater than zero")
			}
			newQuantities[line.ProductID] += line.Quantity
		}

		// Restore first, then consume, so an edit that only moves
		// quantity between lines of the same product cannot fail
		for productID, oldQty := range oldQuantities {
			delta := oldQty - newQuantities[productID]
			if delta > 0 {
				if err := r.inventory.AdjustStock(ctx, productID, invoice.StoreID, delta); err != nil {
					return err
				}
			}
		}
		for productID, newQty := range newQuantities {
			delta := newQty - oldQuantities[productID]
			if delta <= 0 {
				continue
			}
			product, err := r.products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError("Product")
			}
			if err := s.consumeStock(ctx, r, product, invoice.StoreID, delta); err != nil {
				return err
			}
		}

		// Replace the line rows: update kept, insert new, delete omitted
		kept := make(map[uuid.UUID]bool)
		var inserts []entity.InvoiceItem
		total := decimal.Zero
		for _, line := range req.Items {
			discount := money.ClampDiscount(line.UnitPrice, line.Discount)
			lineTotal := money.LineTotal(line.UnitPrice, discount, line.Quantity)
			total = total.Add(lineTotal)

			if line.InvoiceItemID != nil {
				row, ok := existingRows[*line.InvoiceItemID]
				if !ok {
					return apperror.NewBadRequestError("Unknown invoice line")
				}
				row.ProductID = line.ProductID
				row.Quantity = line.Quantity
				row.UnitPrice = line.UnitPrice.Round(2)
				row.Discount = discount.Round(2)
				row.LineTotal = lineTotal
				if err := r.items.Update(ctx, &row); err != nil {
					return err
				}
				kept[row.ID] = true
				continue
			}
			inserts = append(inserts, entity.InvoiceItem{
				InvoiceID: invoice.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice.Round(2),
				Discount:  discount.Round(2),
				LineTotal: lineTotal,
			})
		}
		for id := range existingRows {
			if !kept[id] {
				if err := r.items.Delete(ctx, id); err != nil {
					return err
				}
			}
		}
		if err := r.items.CreateBatch(ctx, inserts); err != nil {
			return err
		}

		previousTotal := invoice.TotalAmount
		invoice.TotalAmount = total
		if req.PaymentMethod != "" {
			invoice.PaymentMethod = req.PaymentMethod
		}
		invoice.Items = nil
		if err := r.invoices.Update(ctx, invoice); err != nil {
			return err
		}

		// Rebuild the denormalized sale rows from scratch
		if err := r.sales.DeleteByInvoiceID(ctx, invoice.ID); err != nil {
			return err
		}
		refreshed, err := r.items.GetByInvoiceID(ctx, invoice.ID)
		if err != nil {
			return err
		}
		if err := r.sales.CreateBatch(ctx, saleRows(invoice, refreshed)); err != nil {
			return err
		}

		metadata := fmt.Sprintf(`{"previous_total": "%s", "new_total": "%s"}`,
			previousTotal.StringFixed(2), total.StringFixed(2))
		return s.audit(ctx, r, invoice.ID, req.UserID, enum.AuditActionUpdate,
			fmt.Sprintf("Invoice %s updated", invoice.InvoiceNumber), []byte(metadata))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice updated", zap.String("invoice_id", req.InvoiceID.String()))
	return s.GetInvoice(ctx, req.InvoiceID)
}

// VoidInvoice annuls an invoice: stock is restored, sale rows are
// removed and the void is audited. The invoice row itself is kept for
// the paper trail.
func (s *Service) VoidInvoice(ctx context.Context, invoiceID, userID uuid.UUID) (*pos.InvoiceDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)

		invoice, err := r.invoices.GetWithDetails(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return pos.ErrNotFound
		}
		if invoice.IsVoid() {
			return pos.ErrInvoiceVoid
		}

		for _, item := range invoice.Items {
			if err := r.inventory.AdjustStock(ctx, item.ProductID, invoice.StoreID, item.Quantity); err != nil {
				return err
			}
		}
		if err := r.sales.DeleteByInvoiceID(ctx, invoice.ID); err != nil {
			return err
		}

		invoice.Status = enum.InvoiceStatusVoid
		invoice.Items = nil
		if err := r.invoices.Update(ctx, invoice); err != nil {
			return err
		}

		return s.audit(ctx, r, invoice.ID, userID, enum.AuditActionVoid,
			fmt.Sprintf("Invoice %s voided", invoice.InvoiceNumber), nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice voided", zap.String("invoice_id", invoiceID.String()))
	return s.GetInvoice(ctx, invoiceID)
}

// InvoiceAuditLog returns an invoice's change history, newest first
func (s *Service) InvoiceAuditLog(ctx context.Context, invoiceID uuid.UUID) ([]pos.AuditEntry, error) {
	r := newRepos(s.db)

	invoice, err := r.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, pos.ErrNotFound
	}

	logs, err := r.audits.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	entries := make([]pos.AuditEntry, len(logs))
	for i, log := range logs {
		user := log.User.FullName
		if user == "" {
			user = log.User.Username
		}
		entries[i] = pos.AuditEntry{
			Action:      string(log.Action),
			User:        user,
			Description: log.Description,
			CreatedAt:   log.CreatedAt,
		}
	}
	return entries, nil
}

// ClosingReport aggregates a day's sales, optionally scoped to a store.
// Void invoices never count. Taxes are the configured flat rate over
// total sales; discounts weigh each per-unit discount by its quantity.
func (s *Service) ClosingReport(ctx context.Context, query pos.ReportQuery) (*pos.ClosingReport, error) {
	r := newRepos(s.db)

	storeName := "All Stores"
	if query.StoreID != nil {
		store, err := r.stores.GetByID(ctx, *query.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, apperror.NewNotFoundError("Store")
		}
		storeName = store.Name
	}

	totals, err := r.reports.GetSalesTotals(ctx, query.Date, query.StoreID)
	if err != nil {
		return nil, err
	}
	breakdown, err := r.reports.GetPaymentBreakdown(ctx, query.Date, query.StoreID)
	if err != nil {
		return nil, err
	}
	products, err := r.reports.GetProductsSold(ctx, query.Date, query.StoreID)
	if err != nil {
		return nil, err
	}

	payments := make([]pos.PaymentBreakdown, len(breakdown))
	for i, row := range breakdown {
		payments[i] = pos.PaymentBreakdown{
			Method:       row.Method,
			Total:        row.Total,
			Transactions: row.Transactions,
		}
	}
	sold := make([]pos.ProductSold, len(products))
	for i, row := range products {
		sold[i] = pos.ProductSold{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			TotalAmount: row.TotalAmount,
		}
	}

	return &pos.ClosingReport{
		Date:             query.Date.UTC().Format("2006-01-02"),
		StoreID:          query.StoreID,
		StoreName:        storeName,
		TotalSales:       totals.TotalSales,
		Transactions:     totals.Transactions,
		TaxRate:          s.taxRate,
		TaxesCollected:   totals.TotalSales.Mul(s.taxRate).Round(2),
		DiscountsApplied: totals.Discounts,
		PaymentBreakdown: payments,
		ProductsSold:     sold,
	}, nil
}

// nextInvoiceNumber derives INV-<unix>-<seq>, with seq counting from
// the invoices already created today
func (s *Service) nextInvoiceNumber(ctx context.Context, r repos) (string, error) {
	count, err := r.invoices.CountForDay(ctx, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%d", time.Now().Unix(), count+1), nil
}

func (s *Service) consumeStock(ctx context.Context, r repos, product *entity.Product, storeID uuid.UUID, quantity int) error {
	err := r.inventory.AdjustStock(ctx, product.ID, storeID, -quantity)
	if errors.Is(err, domainRepo.ErrInsufficientStock) {
		return apperror.NewBadRequestError(fmt.Sprintf("Insufficient stock for %s", product.Name))
	}
	return err
}

func (s *Service) audit(ctx context.Context, r repos, invoiceID, userID uuid.UUID, action enum.AuditAction, description string, metadata []byte) error {
	return r.audits.Create(ctx, &entity.InvoiceAuditLog{
		InvoiceID:   invoiceID,
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
	})
}

func saleRows(invoice *entity.Invoice, items []entity.InvoiceItem) []entity.Sale {
	rows := make([]entity.Sale, len(items))
	for i, item := range items {
		rows[i] = entity.Sale{
			StoreID:     invoice.StoreID,
			ProductID:   item.ProductID,
			SessionID:   invoice.SessionID,
			InvoiceID:   invoice.ID,
			Quantity:    item.Quantity,
			TotalAmount: item.LineTotal,
			SaleDate:    time.Now().UTC(),
		}
	}
	return rows
}

func invoiceDetail(invoice *entity.Invoice) *pos.InvoiceDetail {
	detail := &pos.InvoiceDetail{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		CustomerName:  "Final Consumer",
		Status:        invoice.Status.String(),
		PaymentMethod: invoice.PaymentMethod,
		TotalAmount:   invoice.TotalAmount,
		CreatedAt:     invoice.CreatedAt,
		Items:         make([]pos.InvoiceLine, len(invoice.Items)),
	}
	if invoice.Customer != nil {
		detail.CustomerName = invoice.Customer.Name
	}
	for i, item := range invoice.Items {
		id := item.ID
		detail.Items[i] = pos.InvoiceLine{
			InvoiceItemID: &id,
			ProductID:     item.ProductID,
			ProductName:   item.Product.Name,
			ProductSKU:    item.Product.SKU,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Discount:      item.Discount,
			LineTotal:     item.LineTotal,
		}
	}
	return detail
}
