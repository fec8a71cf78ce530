package cart

// Виды купонов.
const (
	KindPercentEveryItem = "percent_every_item"
	KindNextItemPercent  = "next_item_percent"
	KindNthItemAmount    = "nth_item_amount"
)

// Kinded реализуют купоны, которые умеют назвать свой вид.
type Kinded interface {
	Kind() string
}

// PercentageOnEveryItem снижает цену каждого товара корзины на процент.
// Позиция купона не учитывается, скидки перемножаются с уже применёнными.
type PercentageOnEveryItem struct {
	DiscountPercentage float64
}

// SetDiscount реализует Coupon.
func (p PercentageOnEveryItem) SetDiscount(c *Cart, _ int) {
	for _, e := range c.entries {
		if e.IsSellable() {
			e.item.applyPercentage(p.DiscountPercentage)
		}
	}
}

// Kind реализует Kinded.
func (p PercentageOnEveryItem) Kind() string { return KindPercentEveryItem }

// NextItemPercentage снижает на процент цену первого товара после купона.
type NextItemPercentage struct {
	DiscountPercentage float64
}

// SetDiscount реализует Coupon. Если после купона нет товаров, ничего не происходит.
func (n NextItemPercentage) SetDiscount(c *Cart, position int) {
	for i := position + 1; i < len(c.entries); i++ {
		if e := c.entries[i]; e.IsSellable() {
			e.item.applyPercentage(n.DiscountPercentage)
			return
		}
	}
}

// Kind реализует Kinded.
func (n NextItemPercentage) Kind() string { return KindNextItemPercent }

// NthItemAmountByCategory вычитает фиксированную сумму из цены n-го (с нуля) товара категории.
// Порядковый номер считается по индексу категорий, позиция купона не учитывается.
type NthItemAmountByCategory struct {
	DiscountAmount float64
	Category       Category
	Nth            int
}

// SetDiscount реализует Coupon. Номер вне диапазона означает отсутствие скидки.
// Цена может уйти в минус, ограничение снизу не применяется.
func (n NthItemAmountByCategory) SetDiscount(c *Cart, _ int) {
	items := c.itemsByCategory[n.Category]
	if n.Nth < 0 || n.Nth >= len(items) {
		return
	}
	items[n.Nth].PriceAfterDiscount -= n.DiscountAmount
}

// Kind реализует Kinded.
func (n NthItemAmountByCategory) Kind() string { return KindNthItemAmount }

// KindOf возвращает вид купона или "custom" для сторонних реализаций.
func KindOf(c Coupon) string {
	if k, ok := c.(Kinded); ok {
		return k.Kind()
	}
	return "custom"
}
