// Package service реализует бизнес-логику расчёта стоимости корзины.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/cart-pricing/internal/cart"
	"github.com/mmeshcher/cart-pricing/internal/metrics"
	"github.com/mmeshcher/cart-pricing/internal/model"
	"github.com/mmeshcher/cart-pricing/internal/repository"
	"github.com/mmeshcher/cart-pricing/internal/validation"
)

// Repository описывает контракт каталога купонов, используемый сервисом.
type Repository interface {
	Close() error
	CreateCoupon(ctx context.Context, def model.CouponDefinition) (int64, error)
	GetCouponByCode(ctx context.Context, code string) (*model.CouponDefinition, error)
	ListCoupons(ctx context.Context) ([]model.CouponDefinition, error)
}

// Service рассчитывает стоимость корзин и управляет каталогом купонов.
type Service struct {
	repo      Repository
	metrics   *metrics.Metrics
	logger    *zap.Logger
	validator *validation.Validator

	mu      sync.RWMutex
	catalog map[string]model.CouponDefinition
}

// NewService создаёт сервис с указанным каталогом, метриками и логгером.
func NewService(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		metrics:   m,
		logger:    logger,
		validator: validation.New(),
		catalog:   make(map[string]model.CouponDefinition),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Quote строит корзину из записей запроса, применяет купоны и возвращает итог.
func (s *Service) Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error) {
	if err := s.validator.QuoteRequest(req); err != nil {
		s.metrics.ObserveQuote("invalid")
		return nil, err
	}

	entries := make([]cart.Entry, 0, len(req.Entries))
	for i, e := range req.Entries {
		entry, err := s.toEntry(ctx, i, e)
		if err != nil {
			if validation.IsValidationError(err) {
				s.metrics.ObserveQuote("invalid")
			} else {
				s.metrics.ObserveQuote("error")
			}
			return nil, err
		}
		entries = append(entries, entry)
	}

	c := cart.Build(entries)

	quote := &model.Quote{
		ID:    uuid.NewString(),
		Items: make([]model.QuotedItem, 0, len(entries)),
	}

	for i := 0; i < c.Len(); i++ {
		e := c.At(i)
		if !e.IsSellable() {
			quote.CouponsApplied++
			s.metrics.ObserveCoupon(cart.KindOf(e.Coupon()))
			continue
		}

		item := e.Item()
		quote.Items = append(quote.Items, model.QuotedItem{
			Position:           i,
			Category:           item.Category().String(),
			SellerPrice:        item.SellerPrice(),
			PriceAfterDiscount: item.PriceAfterDiscount,
		})

		if item.PriceAfterDiscount < 0 {
			warning := fmt.Sprintf("item at position %d has negative price %.2f", i, item.PriceAfterDiscount)
			quote.Warnings = append(quote.Warnings, warning)
			s.metrics.ObserveNegativePrice()
			s.logger.Warn("negative item price after discounts",
				zap.String("quote", quote.ID),
				zap.Int("position", i),
				zap.Float64("price", item.PriceAfterDiscount),
			)
		}
	}

	quote.FinalPrice = c.FinalPrice()
	quote.Display = FormatPrice(quote.FinalPrice)

	s.metrics.ObserveQuote("ok")
	s.logger.Debug("cart quoted",
		zap.String("quote", quote.ID),
		zap.Int("entries", c.Len()),
		zap.Float64("final_price", quote.FinalPrice),
	)

	return quote, nil
}

// FormatPrice форматирует итог с двумя знаками после запятой.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (s *Service) toEntry(ctx context.Context, pos int, e model.QuoteEntry) (cart.Entry, error) {
	if e.Type == model.EntryTypeItem {
		category, err := cart.ParseCategory(e.Category)
		if err != nil {
			return cart.Entry{}, &validation.ValidationError{Field: fmt.Sprintf("entries[%d].category", pos), Reason: err.Error()}
		}
		return cart.ItemEntry(cart.NewItem(e.Price, category)), nil
	}

	def := e.Coupon
	if def == nil {
		found, err := s.lookupCoupon(ctx, strings.TrimSpace(e.Code))
		if err != nil {
			if errors.Is(err, repository.ErrCouponNotFound) {
				return cart.Entry{}, &validation.ValidationError{
					Field:  fmt.Sprintf("entries[%d].code", pos),
					Reason: fmt.Sprintf("unknown coupon %q", e.Code),
				}
			}
			return cart.Entry{}, fmt.Errorf("lookup coupon %q: %w", e.Code, err)
		}
		def = found
	}

	coupon, err := CouponFromDefinition(*def)
	if err != nil {
		return cart.Entry{}, &validation.ValidationError{Field: fmt.Sprintf("entries[%d]", pos), Reason: err.Error()}
	}

	return cart.CouponEntry(coupon), nil
}

func (s *Service) lookupCoupon(ctx context.Context, code string) (*model.CouponDefinition, error) {
	s.mu.RLock()
	def, ok := s.catalog[code]
	s.mu.RUnlock()
	if ok {
		return &def, nil
	}

	found, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalog[code] = *found
	s.mu.Unlock()

	return found, nil
}

// CouponFromDefinition превращает описание купона в реализацию cart.Coupon.
func CouponFromDefinition(def model.CouponDefinition) (cart.Coupon, error) {
	switch def.Kind {
	case model.CouponKindPercentEveryItem:
		return cart.PercentageOnEveryItem{DiscountPercentage: def.Percentage}, nil
	case model.CouponKindNextItemPercent:
		return cart.NextItemPercentage{DiscountPercentage: def.Percentage}, nil
	case model.CouponKindNthItemAmount:
		category, err := cart.ParseCategory(def.Category)
		if err != nil {
			return nil, err
		}
		return cart.NthItemAmountByCategory{
			DiscountAmount: def.Amount,
			Category:       category,
			Nth:            def.Nth,
		}, nil
	default:
		return nil, fmt.Errorf("unknown coupon kind %q", def.Kind)
	}
}

// CreateCoupon добавляет купон в каталог.
func (s *Service) CreateCoupon(ctx context.Context, def model.CouponDefinition) (int64, error) {
	def.Code = strings.TrimSpace(def.Code)
	if err := s.validator.CouponDefinition(def); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateCoupon(ctx, def)
	if err != nil {
		return 0, err
	}

	def.ID = id
	def.Category = strings.ToUpper(def.Category)
	s.mu.Lock()
	s.catalog[def.Code] = def
	s.mu.Unlock()

	return id, nil
}

// ListCoupons возвращает купоны каталога.
func (s *Service) ListCoupons(ctx context.Context) ([]model.CouponDefinition, error) {
	return s.repo.ListCoupons(ctx)
}

// RefreshCatalog перечитывает снимок каталога из репозитория.
func (s *Service) RefreshCatalog(ctx context.Context) error {
	defs, err := s.repo.ListCoupons(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	snapshot := make(map[string]model.CouponDefinition, len(defs))
	for _, def := range defs {
		snapshot[def.Code] = def
	}

	s.mu.Lock()
	s.catalog = snapshot
	s.mu.Unlock()

	return nil
}

// StartCatalogRefresh периодически обновляет снимок каталога до отмены контекста.
// При interval <= 0 сразу возвращает управление.
func (s *Service) StartCatalogRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.repo == nil {
		return
	}

	if err := s.RefreshCatalog(ctx); err != nil {
		s.logger.Warn("initial catalog refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshCatalog(ctx); err != nil {
				s.logger.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}
}
