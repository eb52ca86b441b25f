package auction

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine wraps a Core in a single-consumer command loop. All five public
// operations post a command into the mailbox and wait for the reply, so they
// never interleave at a finer granularity than one complete operation.
type Engine struct {
	core *Core
	cmds chan command
	done chan struct{}
	log  *zap.Logger
}

func NewEngine(buffer int, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		core: NewCore(),
		cmds: make(chan command, buffer),
		done: make(chan struct{}),
		log:  log,
	}
}

// Run owns the Core until ctx is cancelled. Commands still in flight when the
// loop exits receive ErrEngineStopped.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	e.log.Info("auction engine started")

	for {
		select {
		case cmd := <-e.cmds:
			e.handle(cmd)
		case <-ctx.Done():
			e.log.Info("auction engine stopped")
			return
		}
	}
}

func (e *Engine) handle(cmd command) {
	switch cmd.typ {
	case cmdSubmit:
		id, err := e.core.Submit(cmd.participant, cmd.side, cmd.price, cmd.quantity)
		if err == nil {
			e.log.Debug("order accepted",
				zap.Uint64("order_id", uint64(id)),
				zap.String("participant", cmd.participant),
				zap.String("side", string(cmd.side)),
				zap.String("price", cmd.price.String()),
				zap.String("quantity", cmd.quantity.String()))
		}
		cmd.resp <- struct {
			ID  OrderID
			Err error
		}{id, err}

	case cmdCancel:
		err := e.core.Cancel(cmd.participant, cmd.id)
		cmd.resp <- struct{ Err error }{err}

	case cmdCancelAll:
		n := e.core.CancelAll(cmd.participant)
		if n > 0 {
			e.log.Debug("orders cancelled",
				zap.String("participant", cmd.participant),
				zap.Int("count", n))
		}
		cmd.resp <- struct{ Removed int }{n}

	case cmdMatch:
		trades, err := e.core.RunMatchingPass()
		if err != nil {
			e.log.Error("matching pass aborted", zap.Error(err))
		} else if len(trades) > 0 {
			e.log.Info("matching pass", zap.Int("trades", len(trades)))
		}
		cmd.resp <- struct {
			Trades []Trade
			Err    error
		}{trades, err}

	case cmdSnapshot:
		bids, asks := e.core.Snapshot()
		cmd.resp <- struct{ Bids, Asks []Order }{bids, asks}

	case cmdOrdersOf:
		cmd.resp <- struct{ Orders []Order }{e.core.OrdersOf(cmd.participant)}
	}
}

func (e *Engine) send(ctx context.Context, cmd command) (any, error) {
	cmd.resp = make(chan any, 1)
	select {
	case e.cmds <- cmd:
	case <-e.done:
		return nil, ErrEngineStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case v := <-cmd.resp:
		return v, nil
	case <-e.done:
		return nil, ErrEngineStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) Submit(ctx context.Context, participant string, side Side, price, quantity decimal.Decimal) (OrderID, error) {
	v, err := e.send(ctx, command{
		typ:         cmdSubmit,
		participant: participant,
		side:        side,
		price:       price,
		quantity:    quantity,
	})
	if err != nil {
		return 0, err
	}
	res := v.(struct {
		ID  OrderID
		Err error
	})
	return res.ID, res.Err
}

func (e *Engine) Cancel(ctx context.Context, participant string, id OrderID) error {
	v, err := e.send(ctx, command{typ: cmdCancel, participant: participant, id: id})
	if err != nil {
		return err
	}
	return v.(struct{ Err error }).Err
}

func (e *Engine) CancelAll(ctx context.Context, participant string) (int, error) {
	v, err := e.send(ctx, command{typ: cmdCancelAll, participant: participant})
	if err != nil {
		return 0, err
	}
	return v.(struct{ Removed int }).Removed, nil
}

func (e *Engine) Match(ctx context.Context) ([]Trade, error) {
	v, err := e.send(ctx, command{typ: cmdMatch})
	if err != nil {
		return nil, err
	}
	res := v.(struct {
		Trades []Trade
		Err    error
	})
	return res.Trades, res.Err
}

func (e *Engine) Snapshot(ctx context.Context) (bids, asks []Order, err error) {
	v, err := e.send(ctx, command{typ: cmdSnapshot})
	if err != nil {
		return nil, nil, err
	}
	res := v.(struct{ Bids, Asks []Order })
	return res.Bids, res.Asks, nil
}

func (e *Engine) OrdersOf(ctx context.Context, participant string) ([]Order, error) {
	v, err := e.send(ctx, command{typ: cmdOrdersOf, participant: participant})
	if err != nil {
		return nil, err
	}
	return v.(struct{ Orders []Order }).Orders, nil
}
