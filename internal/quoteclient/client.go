// Package quoteclient предоставляет HTTP-клиент API расчёта стоимости корзины.
package quoteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/cart-pricing/internal/model"
)

// ErrRejected возвращается, когда сервер отклонил корзину как некорректную.
var ErrRejected = errors.New("cart rejected")

// Client инкапсулирует HTTP-взаимодействие с сервисом расчёта.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к сервису по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type rejection struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// Quote отправляет корзину на расчёт и возвращает результат и код ответа.
func (c *Client) Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, int, error) {
	if c == nil || c.baseURL == "" {
		return nil, 0, fmt.Errorf("quote client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/cart/quote", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var rej rejection
		if err := json.NewDecoder(resp.Body).Decode(&rej); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("%w: decode rejection: %v", ErrRejected, err)
		}
		return nil, resp.StatusCode, fmt.Errorf("%w: %s: %s", ErrRejected, rej.Field, rej.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var quote model.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return &quote, resp.StatusCode, nil
}
