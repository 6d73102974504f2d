package payment

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/platform/sns"
	"github.com/fatflowers/fakepay/pkg/config"
	"github.com/fatflowers/fakepay/pkg/metrics"
)

// NewEngineFromConfig builds the process-wide session engine.
func NewEngineFromConfig(cfg *config.Config, rec Recorder) *Engine {
	return NewEngine(
		WithTTL(cfg.Payment.SessionTTL),
		WithDefaultCurrency(cfg.Payment.DefaultCurrency),
		WithShards(cfg.Payment.Shards),
		WithRecorder(rec),
	)
}

func newRecorder() (Recorder, error) {
	r, err := metrics.NewPaymentRecorder(nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func asSettlementSink(s *settlementlog.Service) SettlementSink { return s }

func asPublisher(p sns.Publisher) Publisher { return p }

// registerSweeper runs the periodic cleanup pass; lookups expire sessions lazily
// regardless.
func registerSweeper(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger, engine *Engine) {
	interval := cfg.Payment.SweepInterval
	if interval <= 0 {
		return
	}
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := engine.Sweep(); n > 0 {
							log.Debugw("expired payment sessions swept", "count", n, "live", engine.LiveSessions())
						}
					case <-done:
						return
					}
				}
			}()
			log.Infow("payment session sweeper started", "interval", interval.String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

// Module exposes the payment engine and service via Fx.
var Module = fx.Options(
	fx.Provide(newRecorder),
	fx.Provide(NewEngineFromConfig),
	fx.Provide(asSettlementSink),
	fx.Provide(asPublisher),
	fx.Provide(NewService),
	fx.Invoke(registerSweeper),
)
