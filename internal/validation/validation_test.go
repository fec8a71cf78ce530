package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/cart-pricing/internal/model"
)

func TestQuoteRequest(t *testing.T) {
	type want struct {
		valid bool
		field string
	}

	tests := []struct {
		name string
		req  model.QuoteRequest
		want want
	}{
		{
			name: "valid mixed cart",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeCoupon, Code: "ALL5"},
				{Type: model.EntryTypeItem, Category: "CAR", Price: 10},
				{Type: model.EntryTypeCoupon, Coupon: &model.CouponDefinition{
					Kind: model.CouponKindNthItemAmount, Amount: 2, Category: "car", Nth: 1,
				}},
			}},
			want: want{valid: true},
		},
		{
			name: "empty cart",
			req:  model.QuoteRequest{},
			want: want{valid: true},
		},
		{
			name: "unknown entry type",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: "gift", Category: "CAR", Price: 1},
			}},
			want: want{field: "entries[0].type"},
		},
		{
			name: "negative price",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeItem, Category: "BIKE", Price: -1},
			}},
			want: want{field: "entries[0].price"},
		},
		{
			name: "unknown category",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeItem, Category: "TRUCK", Price: 1},
			}},
			want: want{field: "entries[0].category"},
		},
		{
			name: "coupon without code or definition",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeCoupon},
			}},
			want: want{field: "entries[0]"},
		},
		{
			name: "coupon with both code and definition",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeCoupon, Code: "X", Coupon: &model.CouponDefinition{
					Kind: model.CouponKindNextItemPercent, Percentage: 5,
				}},
			}},
			want: want{field: "entries[0]"},
		},
		{
			name: "percentage above 100",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeCoupon, Coupon: &model.CouponDefinition{
					Kind: model.CouponKindPercentEveryItem, Percentage: 150,
				}},
			}},
			want: want{field: "entries[0].coupon.percentage"},
		},
		{
			name: "nth coupon without category",
			req: model.QuoteRequest{Entries: []model.QuoteEntry{
				{Type: model.EntryTypeItem, Category: "CAR", Price: 1},
				{Type: model.EntryTypeCoupon, Coupon: &model.CouponDefinition{
					Kind: model.CouponKindNthItemAmount, Amount: 1,
				}},
			}},
			want: want{field: "entries[1].coupon.category"},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.QuoteRequest(tt.req)
			if tt.want.valid {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %T: %v", err, err)
			assert.Equal(t, tt.want.field, ve.Field)
		})
	}
}

func TestCouponDefinition(t *testing.T) {
	v := New()

	err := v.CouponDefinition(model.CouponDefinition{Kind: model.CouponKindNextItemPercent, Percentage: 10})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = v.CouponDefinition(model.CouponDefinition{Code: "HALF", Kind: "bogus"})
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "kind", ve.Field)

	err = v.CouponDefinition(model.CouponDefinition{Code: "HALF", Kind: model.CouponKindNextItemPercent, Percentage: 50})
	assert.NoError(t, err)
}

func TestIsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("quote: %w", &ValidationError{Field: "entries", Reason: "bad"})

	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.Equal(t, "validation failed: entries: bad", (&ValidationError{Field: "entries", Reason: "bad"}).Error())
}
