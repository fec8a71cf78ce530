// Package model содержит доменные сущности сервиса расчёта стоимости корзины.
package model

import "time"

// CouponKind описывает вид купона в каталоге.
type CouponKind string

const (
	CouponKindPercentEveryItem CouponKind = "percent_every_item"
	CouponKindNextItemPercent  CouponKind = "next_item_percent"
	CouponKindNthItemAmount    CouponKind = "nth_item_amount"
)

// CouponDefinition описывает купон каталога или купон, переданный в запросе.
type CouponDefinition struct {
	ID         int64      `json:"id,omitempty"`
	Code       string     `json:"code,omitempty" validate:"omitempty,max=64"`
	Kind       CouponKind `json:"kind" validate:"required,oneof=percent_every_item next_item_percent nth_item_amount"`
	Percentage float64    `json:"percentage,omitempty" validate:"gte=0,lte=100"`
	Amount     float64    `json:"amount,omitempty" validate:"gte=0"`
	Category   string     `json:"category,omitempty"`
	Nth        int        `json:"nth,omitempty" validate:"gte=0"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}

// EntryType различает записи запроса на расчёт.
type EntryType string

const (
	EntryTypeItem   EntryType = "item"
	EntryTypeCoupon EntryType = "coupon"
)

// QuoteEntry описывает запись корзины в запросе: товар, код купона или описание купона.
type QuoteEntry struct {
	Type     EntryType         `json:"type" validate:"required,oneof=item coupon"`
	Category string            `json:"category,omitempty"`
	Price    float64           `json:"price,omitempty" validate:"gte=0"`
	Code     string            `json:"code,omitempty"`
	Coupon   *CouponDefinition `json:"coupon,omitempty"`
}

// QuoteRequest содержит упорядоченные записи корзины.
type QuoteRequest struct {
	Entries []QuoteEntry `json:"entries" validate:"dive"`
}

// QuotedItem описывает товар после применения купонов.
type QuotedItem struct {
	Position           int     `json:"position"`
	Category           string  `json:"category"`
	SellerPrice        float64 `json:"seller_price"`
	PriceAfterDiscount float64 `json:"price_after_discount"`
}

// Quote содержит результат расчёта стоимости корзины.
type Quote struct {
	ID             string       `json:"id"`
	FinalPrice     float64      `json:"final_price"`
	Display        string       `json:"display"`
	Items          []QuotedItem `json:"items"`
	CouponsApplied int          `json:"coupons_applied"`
	Warnings       []string     `json:"warnings,omitempty"`
}
