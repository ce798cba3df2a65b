package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/bootstrap"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/logging"
	"github.com/Domenick1991/tourledger/internal/repository"
	"github.com/Domenick1991/tourledger/internal/service/auth"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	log "github.com/sirupsen/logrus"
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

	ids, err := repository.IDGeneratorFor(cfg.Ledger.IDScheme)
	if err != nil {
		log.WithError(err).Fatal("id generator")
	}
	store := repository.NewReservationStore(backend)
	repo := repository.NewReservationRepository(store, repository.WithIDGenerator(ids))
	if err := repo.Initialize(ctx); err != nil {
		log.WithError(err).Fatal("initialize reservations")
	}

	var opts []ledger.LedgerServiceOption
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unreachable")
		}
		opts = append(opts, ledger.WithEvents(kafka.Retrying{Producer: producer, Attempts: 3}, cfg.Kafka.ReservationsTopic))
	}
	ledgerService := ledger.NewLedgerService(repo, opts...)

	authService := auth.NewService(
		cfg.Auth.Username,
		cfg.Auth.Password,
		cfg.Auth.TokenSecret,
		time.Duration(cfg.Auth.TokenTTLMinute)*time.Minute,
	)

	if err := bootstrap.Run(ctx, cfg, ledgerService, authService); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
