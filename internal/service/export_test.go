package service

import (
	"context"
	"testing"
	"time"

	"github.com/retailops/order-intake/internal/domain"
	"github.com/retailops/order-intake/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ CodeExtractor = (*extractor.Extractor)(nil)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func exportFixtures() ([]domain.Payment, []domain.Event) {
	payments := []domain.Payment{
		{ID: 1, OrderCode: "X1", Amount: 12.5, CreatedAt: day("2024-05-01")},
		{ID: 2, OrderCode: "X2", Amount: 7, CreatedAt: day("2024-05-03")},
	}
	events := []domain.Event{
		{ID: 1, OrderCode: "X1", Kind: domain.EventReturn, CreatedAt: day("2024-05-01")},
		{ID: 2, OrderCode: "X2", Kind: domain.EventBuyback, CreatedAt: day("2024-05-05")},
	}
	return payments, events
}

func TestOrderService_ExportCSV(t *testing.T) {
	payments, events := exportFixtures()

	testCases := map[string]struct {
		opts     ExportOptions
		expected string
	}{
		"should export every record without bounds": {
			opts: ExportOptions{},
			expected: "type,order_code,date,amount_or_event,unsettled\n" +
				"payment,X1,2024-05-01,12.50,false\n" +
				"payment,X2,2024-05-03,7.00,false\n" +
				"event,X1,2024-05-01,RETURN,false\n" +
				"event,X2,2024-05-05,BUYBACK,false\n",
		},

		"should apply inclusive start and end bounds": {
			opts: ExportOptions{Start: "2024-05-02", End: "2024-05-03"},
			expected: "type,order_code,date,amount_or_event,unsettled\n" +
				"payment,X2,2024-05-03,7.00,false\n",
		},

		"should include records on the boundary dates": {
			opts: ExportOptions{Start: "2024-05-01", End: "2024-05-05"},
			expected: "type,order_code,date,amount_or_event,unsettled\n" +
				"payment,X1,2024-05-01,12.50,false\n" +
				"payment,X2,2024-05-03,7.00,false\n" +
				"event,X1,2024-05-01,RETURN,false\n" +
				"event,X2,2024-05-05,BUYBACK,false\n",
		},

		"should ignore the children, adjustments and unsettled flags": {
			opts: ExportOptions{Children: false, Adjustments: false, Unsettled: true},
			expected: "type,order_code,date,amount_or_event,unsettled\n" +
				"payment,X1,2024-05-01,12.50,false\n" +
				"payment,X2,2024-05-03,7.00,false\n" +
				"event,X1,2024-05-01,RETURN,false\n" +
				"event,X2,2024-05-05,BUYBACK,false\n",
		},

		"should export only the header when bounds exclude everything": {
			opts:     ExportOptions{Start: "2030-01-01"},
			expected: "type,order_code,date,amount_or_event,unsettled\n",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			store := &mockRecordStore{}
			store.On("ListPayments", mock.Anything).Return(payments, nil)
			store.On("ListEvents", mock.Anything).Return(events, nil)

			svc := newTestService(store, &mockCodeExtractor{})

			data, err := svc.ExportCSV(context.Background(), tc.opts)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(data))
		})
	}
}

func TestOrderService_ExportCSV_Repeatable(t *testing.T) {
	payments, events := exportFixtures()
	store := &mockRecordStore{}
	store.On("ListPayments", mock.Anything).Return(payments, nil)
	store.On("ListEvents", mock.Anything).Return(events, nil)

	svc := newTestService(store, &mockCodeExtractor{})

	first, err := svc.ExportCSV(context.Background(), ExportOptions{})
	require.NoError(t, err)
	second, err := svc.ExportCSV(context.Background(), ExportOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOrderService_ExportCSV_InvalidBounds(t *testing.T) {
	testCases := map[string]struct {
		opts  ExportOptions
		field string
	}{
		"should reject a malformed start date": {
			opts:  ExportOptions{Start: "01/05/2024"},
			field: "start",
		},

		"should reject a malformed end date": {
			opts:  ExportOptions{End: "yesterday"},
			field: "end",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(&mockRecordStore{}, &mockCodeExtractor{})

			_, err := svc.ExportCSV(context.Background(), tc.opts)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}
