package order

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"storefront/internal/domain"
)

var exportHeader = []string{"Order ID", "Date", "Customer", "Email", "Phone", "Status", "Total", "Payment Method"}

// ExportCSV writes the orders matching filter as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter domain.OrderFilter) error {
	orders, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		id := o.ID
		if len(id) > 8 {
			id = id[:8]
		}
		if err := cw.Write([]string{
			id,
			o.CreatedAt.UTC().Format(time.DateOnly),
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.Status.String(),
			o.TotalAmount.StringFixed(2),
			o.PaymentMethod.Label(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
