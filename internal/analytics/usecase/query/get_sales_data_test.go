package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himapp/pos/internal/analytics/domain"
)

func TestGetSalesData(t *testing.T) {
	handler := NewGetSalesDataHandler()

	points, err := handler.Handle(context.Background(), GetSalesDataQuery{})
	require.NoError(t, err)

	assert.Equal(t, []domain.SalesDataPoint{
		{Label: "Jan", Sales: 4000},
		{Label: "Feb", Sales: 3000},
		{Label: "Mar", Sales: 5000},
		{Label: "Apr", Sales: 4500},
		{Label: "May", Sales: 6000},
		{Label: "Jun", Sales: 5500},
	}, points)

	// The series is fixed; repeated reads agree.
	again, err := handler.Handle(context.Background(), GetSalesDataQuery{})
	require.NoError(t, err)
	assert.Equal(t, points, again)
}
