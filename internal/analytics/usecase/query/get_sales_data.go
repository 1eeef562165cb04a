package query

import (
	"context"

	"github.com/himapp/pos/internal/analytics/domain"
)

// GetSalesDataQuery represents the query for the demo sales series
type GetSalesDataQuery struct{}

// GetSalesDataHandler handles get sales data query
type GetSalesDataHandler struct{}

// NewGetSalesDataHandler creates a new get sales data handler
func NewGetSalesDataHandler() *GetSalesDataHandler {
	return &GetSalesDataHandler{}
}

// Handle returns the fixed six-point monthly series. Deterministic, never
// persisted; a real deployment would aggregate committed sales instead.
func (h *GetSalesDataHandler) Handle(ctx context.Context, query GetSalesDataQuery) ([]domain.SalesDataPoint, error) {
	return []domain.SalesDataPoint{
		{Label: "Jan", Sales: 4000},
		{Label: "Feb", Sales: 3000},
		{Label: "Mar", Sales: 5000},
		{Label: "Apr", Sales: 4500},
		{Label: "May", Sales: 6000},
		{Label: "Jun", Sales: 5500},
	}, nil
}
