package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"brokerd/internal/audit"
	"brokerd/internal/broker"
	"brokerd/internal/busservice"
	"brokerd/internal/config"
	"brokerd/internal/logging"
	"brokerd/internal/socketserver"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	lock := flock.New(cfg.LockPath())
	held, err := lock.TryLock()
	if err != nil {
		log.Fatalf("acquire lock: %v", err)
	}
	if !held {
		log.Fatalf("another brokerd instance is already running (lock %s)", cfg.LockPath())
	}
	defer lock.Unlock() //nolint:errcheck

	var auditLog *audit.Log
	if cfg.Audit.Enabled {
		auditLog, err = audit.Open(cfg.AuditPath())
		if err != nil {
			log.Fatalf("open audit log: %v", err)
		}
		defer auditLog.Close()
	}

	var impl broker.Broker = broker.Unimplemented{}
	var deviceImpl broker.DeviceBroker = broker.UnimplementedDevice{}

	socketSrv, err := socketserver.New(ctx, cfg.Socket.Path, impl, auditLog, logger)
	if err != nil {
		log.Fatalf("start socket server: %v", err)
	}
	defer socketSrv.Close()
	socketSrv.Serve()

	systemSvc, err := busservice.ServeSystem(cfg, impl, auditLog, logger)
	if err != nil {
		log.Fatalf("serve system broker: %v", err)
	}
	defer systemSvc.Close()

	deviceSvc, err := busservice.ServeDevice(deviceImpl, logger)
	if err != nil {
		log.Fatalf("serve device broker: %v", err)
	}
	defer deviceSvc.Close()

	<-ctx.Done()
	logger.Info("brokerd shutting down")
}
