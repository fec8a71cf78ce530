package cart

// Coupon применяет скидку к товарам корзины.
// position задаёт индекс купона в последовательности записей корзины.
type Coupon interface {
	SetDiscount(c *Cart, position int)
}

// EntryKind различает товары и купоны в корзине.
type EntryKind int

const (
	EntryItem EntryKind = iota
	EntryCoupon
)

// Entry описывает одну позицию корзины: товар или купон.
type Entry struct {
	Kind   EntryKind
	item   *Item
	coupon Coupon
}

// ItemEntry оборачивает товар в запись корзины.
func ItemEntry(item *Item) Entry {
	return Entry{Kind: EntryItem, item: item}
}

// CouponEntry оборачивает купон в запись корзины.
func CouponEntry(coupon Coupon) Entry {
	return Entry{Kind: EntryCoupon, coupon: coupon}
}

// IsSellable сообщает, что запись является товаром.
func (e Entry) IsSellable() bool {
	return e.Kind == EntryItem && e.item != nil
}

// Item возвращает товар записи или nil для купона.
func (e Entry) Item() *Item {
	if e.Kind != EntryItem {
		return nil
	}
	return e.item
}

// Coupon возвращает купон записи или nil для товара.
func (e Entry) Coupon() Coupon {
	if e.Kind != EntryCoupon {
		return nil
	}
	return e.coupon
}

// Cart хранит упорядоченные записи корзины и индекс товаров по категориям.
type Cart struct {
	entries         []Entry
	itemsByCategory map[Category][]*Item
	applied         bool
}

// New сохраняет записи в исходном порядке и строит индекс товаров по категориям.
// Купоны не применяются, для этого есть ApplyCoupons.
func New(entries []Entry) *Cart {
	c := &Cart{
		entries:         entries,
		itemsByCategory: make(map[Category][]*Item, len(Categories())),
	}

	for _, e := range c.entries {
		if e.IsSellable() {
			c.itemsByCategory[e.item.category] = append(c.itemsByCategory[e.item.category], e.item)
		}
	}

	return c
}

// Build создаёт корзину и применяет все купоны в порядке их следования.
func Build(entries []Entry) *Cart {
	c := New(entries)
	c.ApplyCoupons()
	return c
}

// ApplyCoupons последовательно применяет купоны корзины.
// Купон k видит изменения цен, сделанные купонами 1..k-1. Повторный вызов ничего не делает.
func (c *Cart) ApplyCoupons() {
	if c.applied {
		return
	}
	c.applied = true

	for i, e := range c.entries {
		if e.Kind == EntryCoupon && e.coupon != nil {
			e.coupon.SetDiscount(c, i)
		}
	}
}

// Applied сообщает, были ли уже применены купоны.
func (c *Cart) Applied() bool {
	return c.applied
}

// Len возвращает количество записей корзины.
func (c *Cart) Len() int {
	return len(c.entries)
}

// At возвращает запись по индексу.
func (c *Cart) At(i int) Entry {
	return c.entries[i]
}

// Entries возвращает копию последовательности записей.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Items возвращает товары категории в порядке их появления в корзине.
func (c *Cart) Items(category Category) []*Item {
	items := c.itemsByCategory[category]
	out := make([]*Item, len(items))
	copy(out, items)
	return out
}

// FinalPrice суммирует цены товаров после скидок. Округление не выполняется.
func (c *Cart) FinalPrice() float64 {
	var total float64
	for _, e := range c.entries {
		if e.IsSellable() {
			total += e.item.PriceAfterDiscount
		}
	}
	return total
}
