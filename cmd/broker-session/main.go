package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"brokerd/internal/busservice"
	"brokerd/internal/config"
	"brokerd/internal/logging"
	"brokerd/internal/relay"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	r, err := relay.FromConfig(cfg)
	if err != nil {
		log.Fatalf("configure relay: %v", err)
	}

	svc, err := busservice.ServeSession(cfg, r, logger)
	if err != nil {
		log.Fatalf("serve session broker: %v", err)
	}
	defer svc.Close()

	<-ctx.Done()
	logger.Info("broker-session shutting down")
}
