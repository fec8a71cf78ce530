// Package handler содержит HTTP-обработчики API сервиса расчёта стоимости корзины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mmeshcher/cart-pricing/internal/metrics"
	"github.com/mmeshcher/cart-pricing/internal/model"
	"github.com/mmeshcher/cart-pricing/internal/repository"
	"github.com/mmeshcher/cart-pricing/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error)
	CreateCoupon(ctx context.Context, def model.CouponDefinition) (int64, error)
	ListCoupons(ctx context.Context) ([]model.CouponDefinition, error)
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service  Service
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// gatherer используется для отдачи /metrics; при nil берётся DefaultGatherer.
func NewHandler(s Service, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		service:  s,
		logger:   logger,
		metrics:  m,
		gatherer: gatherer,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidationError(w http.ResponseWriter, err error) bool {
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Reason, Field: ve.Field})
	return true
}

// Quote рассчитывает стоимость корзины из упорядоченных записей.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	quote, err := h.service.Quote(r.Context(), req)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		h.logger.Error("quote cart error", zap.Error(err), zap.Int("entries", len(req.Entries)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

type couponResponse struct {
	ID         int64   `json:"id"`
	Code       string  `json:"code"`
	Kind       string  `json:"kind"`
	Percentage float64 `json:"percentage,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Category   string  `json:"category,omitempty"`
	Nth        int     `json:"nth"`
	CreatedAt  string  `json:"created_at"`
}

// ListCoupons возвращает каталог купонов.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		h.logger.Error("list coupons error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if len(coupons) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]couponResponse, 0, len(coupons))
	for _, c := range coupons {
		resp = append(resp, couponResponse{
			ID:         c.ID,
			Code:       c.Code,
			Kind:       string(c.Kind),
			Percentage: c.Percentage,
			Amount:     c.Amount,
			Category:   c.Category,
			Nth:        c.Nth,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type createCouponResponse struct {
	ID int64 `json:"id"`
}

// CreateCoupon добавляет купон в каталог.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var def model.CouponDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateCoupon(r.Context(), def)
	if err != nil {
		if errors.Is(err, repository.ErrCouponExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		if writeValidationError(w, err) {
			return
		}
		h.logger.Error("create coupon error", zap.Error(err), zap.String("code", def.Code))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, createCouponResponse{ID: id})
}

// Ping отвечает на проверку живости.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
