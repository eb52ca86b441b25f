package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hakimelghazi/auction-core/config"
	exdb "github.com/hakimelghazi/auction-core/db"
	"github.com/hakimelghazi/auction-core/internal/auction"
	"github.com/hakimelghazi/auction-core/metrics"
	"github.com/hakimelghazi/auction-core/traderecord"
)

type submitOrderRequest struct {
	ParticipantID string          `json:"participant_id"`
	Side          string          `json:"side"`     // "BUY" | "SELL"
	Price         decimal.Decimal `json:"price"`    // number or string
	Quantity      decimal.Decimal `json:"quantity"` // number or string
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// trade recording is optional; without a database the trades are only
	// returned to the caller
	var recorder *traderecord.Recorder
	if cfg.DatabaseURL != "" {
		pool, err := exdb.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db pool", zap.Error(err))
		}
		defer pool.Close()
		recorder = traderecord.New(pool, logger)
	} else {
		logger.Warn("no database configured, trade recording disabled")
	}

	eng := auction.NewEngine(cfg.CommandBuffer, logger)
	go eng.Run(ctx)

	metrics.StartMetricsServer(cfg.MetricsListen)

	runPass := func(ctx context.Context) ([]auction.Trade, error) {
		trades, err := eng.Match(ctx)
		if err != nil {
			return nil, err
		}
		metrics.TradesTotal.Add(float64(len(trades)))
		for _, tr := range trades {
			qty, _ := tr.Quantity.Float64()
			metrics.TradedVolume.Add(qty)
		}
		if recorder != nil {
			if err := recorder.Record(ctx, trades); err != nil {
				logger.Error("record trades", zap.Error(err))
			}
		}
		return trades, nil
	}

	if interval := cfg.MatchInterval(); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if _, err := runPass(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("periodic matching pass", zap.Error(err))
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	r := chi.NewRouter()

	// Hygiene stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Second))

	writeProblem := func(w http.ResponseWriter, r *http.Request, code int, title, detail string) {
		reqID := middleware.GetReqID(r.Context())
		w.Header().Set("Content-Type", "application/problem+json")
		w.Header().Set("X-Request-ID", reqID)
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":      title,
			"status":     code,
			"detail":     detail,
			"instance":   r.URL.Path,
			"request_id": reqID,
		})
	}

	writeEngineError := func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, auction.ErrInvalidOrder):
			writeProblem(w, r, http.StatusBadRequest, "invalid_order", err.Error())
		case errors.Is(err, auction.ErrOrderNotFound):
			writeProblem(w, r, http.StatusNotFound, "not_found", err.Error())
		default:
			writeProblem(w, r, http.StatusInternalServerError, "engine_error", err.Error())
		}
	}

	writeJSON := func(w http.ResponseWriter, r *http.Request, code int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", middleware.GetReqID(r.Context()))
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}

	// POST /orders
	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		var req submitOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, r, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		side, err := auction.ParseSide(req.Side)
		if err != nil {
			writeProblem(w, r, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		id, err := eng.Submit(r.Context(), req.ParticipantID, side, req.Price, req.Quantity)
		if err != nil {
			metrics.OrdersRejected.Inc()
			writeEngineError(w, r, err)
			return
		}
		metrics.OrdersSubmitted.Inc()
		w.Header().Set("Location", "/orders/"+strconv.FormatUint(uint64(id), 10))
		writeJSON(w, r, http.StatusCreated, map[string]any{
			"order_id":       id,
			"participant_id": req.ParticipantID,
		})
	})

	// DELETE /orders/{id}?participant_id=...
	r.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		participant := r.URL.Query().Get("participant_id")
		if participant == "" {
			writeProblem(w, r, http.StatusBadRequest, "validation_error", "participant_id required")
			return
		}
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeProblem(w, r, http.StatusBadRequest, "validation_error", "invalid order id")
			return
		}
		if err := eng.Cancel(r.Context(), participant, auction.OrderID(id)); err != nil {
			writeEngineError(w, r, err)
			return
		}
		metrics.OrdersCancelled.Inc()
		w.Header().Set("X-Request-ID", middleware.GetReqID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	// DELETE /orders?participant_id=...
	r.Delete("/orders", func(w http.ResponseWriter, r *http.Request) {
		participant := r.URL.Query().Get("participant_id")
		if participant == "" {
			writeProblem(w, r, http.StatusBadRequest, "validation_error", "participant_id required")
			return
		}
		removed, err := eng.CancelAll(r.Context(), participant)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		metrics.OrdersCancelled.Add(float64(removed))
		writeJSON(w, r, http.StatusOK, map[string]any{"removed": removed})
	})

	// GET /orders?participant_id=...
	r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
		participant := r.URL.Query().Get("participant_id")
		if participant == "" {
			writeProblem(w, r, http.StatusBadRequest, "validation_error", "participant_id required")
			return
		}
		orders, err := eng.OrdersOf(r.Context(), participant)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toOrderViews(orders))
	})

	// POST /matching/run
	r.Post("/matching/run", func(w http.ResponseWriter, r *http.Request) {
		trades, err := runPass(r.Context())
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"trades": trades})
	})

	// GET /book
	r.Get("/book", func(w http.ResponseWriter, r *http.Request) {
		bids, asks, err := eng.Snapshot(r.Context())
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{
			"bids": toOrderViews(bids),
			"asks": toOrderViews(asks),
		})
	})

	srv := &http.Server{Addr: cfg.Listen, Handler: r}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

type orderView struct {
	OrderID       auction.OrderID `json:"order_id"`
	ParticipantID string          `json:"participant_id"`
	Side          string          `json:"side"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toOrderViews(orders []auction.Order) []orderView {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = orderView{
			OrderID:       o.ID,
			ParticipantID: o.Participant,
			Side:          string(o.Side),
			Price:         o.Price,
			Quantity:      o.Quantity,
			CreatedAt:     o.CreatedAt,
		}
	}
	return out
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
