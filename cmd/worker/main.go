package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/bootstrap"
	"github.com/Domenick1991/tourledger/internal/finance"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/logging"
	"github.com/Domenick1991/tourledger/internal/notify"
	"github.com/Domenick1991/tourledger/internal/repository"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Setup(cfg.Log); err != nil {
		log.Fatalf("setup logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer closeBackend()

	store := repository.NewReservationStore(backend)
	ledgerService := ledger.NewLedgerService(repository.NewReservationRepository(store))

	g, ctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationsTopic)
		defer consumer.Close()

		notifier := notify.NewNotifier(os.Stdout)
		g.Go(func() error {
			return consumer.Consume(ctx, notifier.Handle)
		})
	} else {
		log.Warn("no kafka brokers configured, voucher notices disabled")
	}

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Worker.SummarySweepMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logSummary(ctx, ledgerService, time.Now().UTC())
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("worker stopped")
		return
	}
	log.Info("worker stopped")
}

func logSummary(ctx context.Context, service ledger.LedgerUseCase, now time.Time) {
	report, err := service.MonthlyReport(ctx, int(now.Month())-1, now.Year(), ledger.BasisCreated)
	if err != nil {
		log.WithError(err).Error("monthly summary")
		return
	}
	log.WithFields(log.Fields{
		"month":   now.Month().String(),
		"year":    now.Year(),
		"count":   report.Count,
		"revenue": finance.FormatCurrency(report.Stats.TotalRevenue),
		"cost":    finance.FormatCurrency(report.Stats.TotalCost),
		"profit":  finance.FormatCurrency(report.Stats.TotalProfit),
		"paid":    finance.FormatCurrency(report.Stats.TotalPaid),
	}).Info("monthly summary")
}
