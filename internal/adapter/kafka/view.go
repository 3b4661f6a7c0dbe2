package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PopularityView = (*ProductPopularityView)(nil)

// A ProductPopularityView serves the group table of
// [ProductPopularityProcessor].
type ProductPopularityView struct {
	gv *goka.View
}

func NewProductPopularityView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (*ProductPopularityView, error) {
	const op = "NewProductPopularityView"

	opts = append([]goka.ViewOption{withNonlogViewOpt()}, opts...)
	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		new(codec.Int64),
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &ProductPopularityView{gv}, nil
}

// Run starts the view in the background, stopFn is called when it stops.
func (v *ProductPopularityView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "ProductPopularityView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go func() {
		defer stopFn()
		if err := v.gv.Run(ctx); err != nil {
			log.Error("stopped", "err", err)
			return
		}
		log.Info("stopped")
	}()
	log.Info("running")
}

// AddedUnits returns the counter of the product, zero when the product
// was never added. It fails with [domain.ErrUnavailable] until the table
// is recovered.
func (v *ProductPopularityView) AddedUnits(productID string) (int64, error) {
	const op = "ProductPopularityView.AddedUnits"

	if !v.gv.Recovered() {
		return 0, fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if value == nil {
		return 0, nil
	}

	n, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("%s: %w: %T", op, ErrInvalidValueType, value)
	}
	return n, nil
}
