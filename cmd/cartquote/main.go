// Package main рассчитывает стоимость эталонной корзины локально или через сервер.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/cart-pricing/internal/model"
	"github.com/mmeshcher/cart-pricing/internal/quoteclient"
	"github.com/mmeshcher/cart-pricing/internal/repository"
	"github.com/mmeshcher/cart-pricing/internal/service"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	sugar := logger.Sugar()

	server := flag.String("s", "", "address of a running cart pricing server, local calculation when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quote, err := run(ctx, *server, logger)
	if err != nil {
		sugar.Fatalw("quote failed", "error", err)
	}

	for _, w := range quote.Warnings {
		sugar.Warnw("quote warning", "warning", w)
	}
	fmt.Println(quote.Display)
}

func run(ctx context.Context, server string, logger *zap.Logger) (*model.Quote, error) {
	req := referenceCart()

	if server != "" {
		quote, _, err := quoteclient.NewClient(server).Quote(ctx, req)
		return quote, err
	}

	svc := service.NewService(repository.NewMemoryRepository(), nil, logger)
	defer svc.Close()

	return svc.Quote(ctx, req)
}

func referenceCart() model.QuoteRequest {
	coupon := func(def model.CouponDefinition) model.QuoteEntry {
		return model.QuoteEntry{Type: model.EntryTypeCoupon, Coupon: &def}
	}
	item := func(category string, price float64) model.QuoteEntry {
		return model.QuoteEntry{Type: model.EntryTypeItem, Category: category, Price: price}
	}

	return model.QuoteRequest{Entries: []model.QuoteEntry{
		coupon(model.CouponDefinition{Kind: model.CouponKindPercentEveryItem, Percentage: 5}),
		item("CAR", 10),
		item("BIKE", 15),
		coupon(model.CouponDefinition{Kind: model.CouponKindNthItemAmount, Amount: 5, Category: "CAR", Nth: 3}),
		coupon(model.CouponDefinition{Kind: model.CouponKindNextItemPercent, Percentage: 50}),
		item("CAR", 10),
		item("SCOOTER", 18),
		coupon(model.CouponDefinition{Kind: model.CouponKindNthItemAmount, Amount: 2, Category: "CAR", Nth: 2}),
		item("CAR", 16),
		item("CAR", 10),
	}}
}
