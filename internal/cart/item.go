// Package cart содержит модель корзины и движок применения купонов.
package cart

import (
	"fmt"
	"strings"
)

// Category описывает категорию товара в корзине.
type Category int

const (
	CategoryCar Category = iota
	CategoryBike
	CategoryScooter
)

// Categories возвращает все допустимые категории в порядке объявления.
func Categories() []Category {
	return []Category{CategoryCar, CategoryBike, CategoryScooter}
}

func (c Category) String() string {
	switch c {
	case CategoryCar:
		return "CAR"
	case CategoryBike:
		return "BIKE"
	case CategoryScooter:
		return "SCOOTER"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Valid сообщает, входит ли категория в закрытый набор.
func (c Category) Valid() bool {
	return c >= CategoryCar && c <= CategoryScooter
}

// ParseCategory разбирает название категории без учёта регистра.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CAR":
		return CategoryCar, nil
	case "BIKE":
		return CategoryBike, nil
	case "SCOOTER":
		return CategoryScooter, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// MarshalText реализует encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Item описывает товар в корзине.
// Категория и цена продавца неизменны, PriceAfterDiscount меняют купоны.
type Item struct {
	category    Category
	sellerPrice float64

	PriceAfterDiscount float64
}

// NewItem создаёт товар с ценой продавца и категорией.
func NewItem(sellerPrice float64, category Category) *Item {
	return &Item{
		category:           category,
		sellerPrice:        sellerPrice,
		PriceAfterDiscount: sellerPrice,
	}
}

// Category возвращает категорию товара.
func (i *Item) Category() Category {
	return i.category
}

// SellerPrice возвращает цену продавца до скидок.
func (i *Item) SellerPrice() float64 {
	return i.sellerPrice
}

func (i *Item) applyPercentage(pct float64) {
	i.PriceAfterDiscount = i.PriceAfterDiscount * (1 - pct/100)
}
