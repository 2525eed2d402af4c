package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/launchpad/core"
	"github.com/zyedidia/generic/cache"
)

type Config struct {
	BatchSize     int           `valid:"required"`
	FlushInterval time.Duration `valid:"required"`
}

type Journal struct {
	bus    core.EventBus
	trades core.TradeStore
	seen   *cache.Cache[string, struct{}]
	logger *slog.Logger
	cfg    Config
}

func New(
	bus core.EventBus,
	trades core.TradeStore,
	logger *slog.Logger,
	cfg Config,
) *Journal {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Journal{
		bus:    bus,
		trades: trades,
		seen:   cache.New[string, struct{}](4096),
		logger: logger.With("worker", "journal"),
		cfg:    cfg,
	}
}

func (w *Journal) Run(ctx context.Context) error {
	w.logger.Info("journal start")

	var (
		events = w.bus.Subscribe()
		batch  []*core.Event
		flush  = time.NewTicker(w.cfg.FlushInterval)
	)

	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = w.save(context.Background(), batch)
			return ctx.Err()
		case event := <-events:
			if _, ok := w.seen.Get(event.ID); ok {
				continue
			}

			batch = append(batch, event)
			if len(batch) >= w.cfg.BatchSize {
				if w.save(ctx, batch) == nil {
					batch = batch[:0]
				}
			}
		case <-flush.C:
			if w.save(ctx, batch) == nil {
				batch = batch[:0]
			}
		}
	}
}

func (w *Journal) save(ctx context.Context, batch []*core.Event) error {
	if len(batch) == 0 {
		return nil
	}

	if err := w.trades.Save(ctx, batch); err != nil {
		w.logger.Error("trades.Save", "count", len(batch), "err", err)
		return err
	}

	for _, event := range batch {
		w.seen.Put(event.ID, struct{}{})
	}

	return nil
}
