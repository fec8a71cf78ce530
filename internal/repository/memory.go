package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmeshcher/cart-pricing/internal/model"
)

// MemoryRepository хранит каталог купонов в памяти процесса.
// Используется, когда адрес БД не задан.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byCode map[string]model.CouponDefinition
	now    func() time.Time
}

// NewMemoryRepository создаёт пустой каталог в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byCode: make(map[string]model.CouponDefinition),
		now:    time.Now,
	}
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error {
	return nil
}

// CreateCoupon сохраняет купон в каталоге и возвращает его идентификатор.
func (r *MemoryRepository) CreateCoupon(_ context.Context, def model.CouponDefinition) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[def.Code]; ok {
		return 0, fmt.Errorf("%w: %s", ErrCouponExists, def.Code)
	}

	r.nextID++
	def.ID = r.nextID
	def.Category = strings.ToUpper(def.Category)
	def.CreatedAt = r.now().UTC()
	r.byCode[def.Code] = def

	return def.ID, nil
}

// GetCouponByCode возвращает купон по коду.
func (r *MemoryRepository) GetCouponByCode(_ context.Context, code string) (*model.CouponDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byCode[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return &def, nil
}

// ListCoupons возвращает все купоны каталога в порядке создания.
func (r *MemoryRepository) ListCoupons(_ context.Context) ([]model.CouponDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.CouponDefinition, 0, len(r.byCode))
	for _, def := range r.byCode {
		res = append(res, def)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}
