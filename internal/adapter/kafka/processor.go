package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.ProductPopularityProcessor = (*ProductPopularityProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A cartEventCodec used for serde [schema.CartEventV1]
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A ProductPopularityProcessor counts units added to carts per product
// from the cart events stream into the group table.
type ProductPopularityProcessor struct {
	opPrefix string
	proc     processor
}

func NewProductPopularityProc(
	seedBrokers []string,
	inputStream string,
	group string,
	cartEventSerde Serde,
	opts ...goka.ProcessorOption,
) (*ProductPopularityProcessor, error) {
	const op = "NewProductPopularityProc"

	p := ProductPopularityProcessor{opPrefix: "ProductPopularityProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newCartEventCodec(cartEventSerde),
			p.processFn,
		),
		goka.Persist(new(codec.Int64)),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *ProductPopularityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *ProductPopularityProcessor) Close() {
	p.proc.close()
}

func (p *ProductPopularityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	event, _ := msg.(schema.CartEventV1)
	if domain.CartEventType(event.Type) != domain.CartItemAdded || event.Delta <= 0 {
		return
	}

	var added int64
	if v, ok := ctx.Value().(int64); ok {
		added = v
	}
	added += int64(event.Delta)
	ctx.SetValue(added)

	slog.Debug(
		"product popularity updated",
		"op", makeOp(p.opPrefix, op),
		"productID", ctx.Key(),
		"addedUnits", added,
	)
}
