package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coinops/walletcore/api"
	"github.com/coinops/walletcore/config"
	"github.com/coinops/walletcore/events"
	"github.com/coinops/walletcore/ledger"
	"github.com/coinops/walletcore/mempool"
	"github.com/coinops/walletcore/processor"
	"github.com/coinops/walletcore/service"
	"github.com/coinops/walletcore/storage"
	"github.com/coinops/walletcore/validation"
	"github.com/coinops/walletcore/wallet"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	db, err := storage.Open(storage.Config{
		DataDir:    cfg.DataDir,
		InMemory:   cfg.InMemory,
		SyncWrites: true,
	}, log)
	if err != nil {
		log.Fatal("opening store", zap.Error(err))
	}
	defer db.Close()

	walletRepo := storage.NewWalletRepository(db)
	txRepo := storage.NewTransactionRepository(db)

	poolOpts := []mempool.Option{mempool.WithLogger(log)}

	var broker *events.Broker
	if cfg.NATSURL != "" {
		broker, err = events.NewBroker(cfg.NATSURL, log)
		if err != nil {
			log.Fatal("connecting to NATS", zap.Error(err))
		}
		defer broker.Close()
		poolOpts = append(poolOpts, mempool.WithBroker(broker))
	}

	pool := mempool.NewMempool(txRepo, poolOpts...)
	defer pool.Stop()

	proc := processor.NewProcessor(txRepo,
		validation.NewValidator(walletRepo),
		ledger.NewBalanceLedger(walletRepo, log),
		log)

	transfers := service.NewTransferService(proc, pool, txRepo, log)
	walletSvc := wallet.NewService(walletRepo, log)

	hub := api.NewHub(log)
	defer hub.Close()
	if broker != nil {
		bridgeMempoolEvents(broker, hub, log)
	}

	handler := api.NewHandler(transfers, walletSvc, hub, log)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(handler),
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

// bridgeMempoolEvents forwards mempool lifecycle events from NATS to the
// websocket hub.
func bridgeMempoolEvents(broker *events.Broker, hub *api.Hub, log *zap.Logger) {
	forward := func(eventType string) nats.MsgHandler {
		return func(msg *nats.Msg) {
			hub.Broadcast(api.Event{Type: eventType, Payload: json.RawMessage(msg.Data)})
		}
	}

	if _, err := broker.Subscribe(mempool.SubjectTxAdmitted, forward(api.EventTxAdmitted)); err != nil {
		log.Warn("subscribing to admissions", zap.Error(err))
	}
	if _, err := broker.Subscribe(mempool.SubjectTxConfirmed, forward(api.EventTxConfirmed)); err != nil {
		log.Warn("subscribing to confirmations", zap.Error(err))
	}
}
