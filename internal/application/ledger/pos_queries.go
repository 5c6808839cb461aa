package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendanova/pos-api/internal/domain/repository"
	"github.com/tiendanova/pos-api/internal/pos"
	"github.com/tiendanova/pos-api/pkg/pagination"
)

// InvoiceSummary is one row of the recent invoice list on the sale screen
type InvoiceSummary struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SearchProducts matches products by name or SKU for the sale screen,
// each carrying its current stock at the store as an advisory figure
func (s *Service) SearchProducts(ctx context.Context, storeID uuid.UUID, query string, limit int) ([]pos.CartProduct, error) {
	r := newRepos(s.db)

	rows, err := r.products.SearchForSale(ctx, storeID, query, limit)
	if err != nil {
		return nil, err
	}

	products := make([]pos.CartProduct, len(rows))
	for i, row := range rows {
		stock := row.Stock
		products[i] = pos.CartProduct{
			ID:    row.ID,
			Name:  row.Name,
			SKU:   row.SKU,
			Price: row.Price,
			Stock: &stock,
		}
	}
	return products, nil
}

// GetCartProduct looks up one product for the cart. When a store is
// given the advisory stock figure is attached.
func (s *Service) GetCartProduct(ctx context.Context, productID uuid.UUID, storeID *uuid.UUID) (*pos.CartProduct, error) {
	r := newRepos(s.db)

	product, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pos.ErrNotFound
	}

	cartProduct := &pos.CartProduct{
		ID:    product.ID,
		Name:  product.Name,
		SKU:   product.SKU,
		Price: product.Price,
	}
	if storeID != nil {
		inventory, err := r.inventory.GetByProductAndStore(ctx, product.ID, *storeID)
		if err != nil {
			return nil, err
		}
		if inventory != nil {
			stock := inventory.Quantity
			cartProduct.Stock = &stock
		}
	}
	return cartProduct, nil
}

// ListInvoices returns invoices matching the filter, paginated
func (s *Service) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]InvoiceSummary, int64, error) {
	r := newRepos(s.db)

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	invoices, total, err := r.invoices.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]InvoiceSummary, len(invoices))
	for i, invoice := range invoices {
		name := "Final Consumer"
		if invoice.Customer != nil {
			name = invoice.Customer.Name
		}
		summaries[i] = InvoiceSummary{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  name,
			PaymentMethod: invoice.PaymentMethod,
			Status:        invoice.Status.String(),
			TotalAmount:   invoice.TotalAmount,
			CreatedAt:     invoice.CreatedAt,
		}
	}
	return summaries, total, nil
}

// RecentInvoices returns today's non-void invoices, newest first
func (s *Service) RecentInvoices(ctx context.Context, storeID *uuid.UUID, limit int) ([]InvoiceSummary, error) {
	r := newRepos(s.db)

	invoices, err := r.invoices.ListRecent(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]InvoiceSummary, len(invoices))
	for i, invoice := range invoices {
		name := "Final Consumer"
		if invoice.Customer != nil {
			name = invoice.Customer.Name
		}
		summaries[i] = InvoiceSummary{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  name,
			PaymentMethod: invoice.PaymentMethod,
			Status:        invoice.Status.String(),
			TotalAmount:   invoice.TotalAmount,
			CreatedAt:     invoice.CreatedAt,
		}
	}
	return summaries, nil
}

// ExportInvoicesCSV streams the invoices matching the filter as CSV,
// paging through the full result set
func (s *Service) ExportInvoicesCSV(ctx context.Context, w io.Writer, params *repository.InvoiceFilterParams) error {
	r := newRepos(s.db)

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Page = 1
	params.Pagination.PerPage = 100

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"invoice_number", "date", "customer", "payment_method", "status", "total"}); err != nil {
		return err
	}

	for {
		invoices, total, err := r.invoices.List(ctx, params)
		if err != nil {
			return err
		}
		for _, invoice := range invoices {
			name := "Final Consumer"
			if invoice.Customer != nil {
				name = invoice.Customer.Name
			}
			row := []string{
				invoice.InvoiceNumber,
				invoice.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				name,
				invoice.PaymentMethod,
				invoice.Status.String(),
				invoice.TotalAmount.StringFixed(2),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		if int64(params.Pagination.Page*params.Pagination.PerPage) >= total || len(invoices) == 0 {
			break
		}
		params.Pagination.Page++
	}

	writer.Flush()
	return writer.Error()
}
