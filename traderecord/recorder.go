// Package traderecord persists the trades produced by matching passes. It is
// a collaborator of the auction core, not part of it: the core only hands the
// trade list back to the caller.
package traderecord

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hakimelghazi/auction-core/internal/auction"
)

const insertTrade = `
INSERT INTO trades (id, buyer_id, seller_id, price, quantity, executed_at)
VALUES ($1, $2, $3, $4, $5, $6)`

type Recorder struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(pool *pgxpool.Pool, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{pool: pool, log: log}
}

// Record inserts all trades of one matching pass in a single transaction.
func (r *Recorder) Record(ctx context.Context, trades []auction.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tr := range trades {
		id, err := uuidFromString(tr.ID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, insertTrade,
			id,
			tr.BuyerID,
			tr.SellerID,
			numericFromDecimal(tr.Price),
			numericFromDecimal(tr.Quantity),
			tr.ExecutedAt,
		)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", tr.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug("trades recorded", zap.Int("count", len(trades)))
	return nil
}

func uuidFromString(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("trade id %q: %w", id, err)
	}
	var out pgtype.UUID
	out.Valid = true
	out.Bytes = parsed
	return out, nil
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}
