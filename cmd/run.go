package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"coinbot/application"
	"coinbot/cmd/shell"
	"coinbot/config"
	"coinbot/domain/services"
	"coinbot/events"
	"coinbot/infrastructure"
	"coinbot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Run wires the ledger and serves the interactive shell on stdin until the
// shell exits or ctx is cancelled
func Run(ctx context.Context) error {
	return run(ctx, os.Stdin, os.Stdout)
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg := config.Get()
	if err := cfg.ConfigureLogging(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"store":       cfg.StoreBackend,
	}).Info("Starting coinbot...")

	economyCfg, err := cfg.Economy()
	if err != nil {
		return err
	}

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down metrics")
		}
	}()
	metrics := observability.GetMetrics()

	// Initialize ledger store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	instrumented := infrastructure.NewInstrumentedStore(store, metrics, cfg.StoreBackend)

	// Initialize event bus
	eventBus := events.NewBus()
	metrics.SubscribeToBus(eventBus)

	if cfg.NATSServers != "" {
		natsClient, err := connectNATS(ctx, cfg.NATSServers)
		if err != nil {
			return err
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Error("Failed to close NATS connection")
			}
		}()
		infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper()).ForwardFrom(eventBus)
		log.Info("Forwarding ledger events to NATS")
	}

	economy, err := services.NewEconomyService(instrumented, eventBus, services.NewRandomizer(), economyCfg)
	if err != nil {
		return fmt.Errorf("failed to create economy service: %w", err)
	}
	dispatcher := application.NewDispatcher(economy)

	shellDone := make(chan error, 1)
	go func() {
		shellDone <- shell.New(dispatcher, in, out, defaultShellUser(economyCfg.BotAccountID)).Run(ctx)
	}()

	var shellErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down coinbot...")
		// The shell returns once its current command is done
		shellErr = <-shellDone
	case shellErr = <-shellDone:
	}
	if shellErr != nil {
		log.WithError(shellErr).Error("Shell stopped with error")
	}

	// No more emits can happen; let in-flight handlers (metrics, NATS forwarding) finish
	eventBus.Wait()
	log.Info("coinbot stopped")
	return nil
}

func connectNATS(ctx context.Context, servers string) (*infrastructure.NATSClient, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(connectCtx); err != nil {
		return nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.EconomyEventStream, mapper.GetAllSubjects()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// defaultShellUser picks a starting identity that is not the bot account
func defaultShellUser(botID int64) int64 {
	if botID == 1 {
		return 2
	}
	return 1
}
