package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Wikid82/lockward/internal/api/routes"
	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/database"
	"github.com/Wikid82/lockward/internal/logger"
	"github.com/Wikid82/lockward/internal/metrics"
	"github.com/Wikid82/lockward/internal/server"
	"github.com/Wikid82/lockward/internal/services"
	"github.com/Wikid82/lockward/internal/version"
)

const defaultTokenTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "issue-token" {
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatalf("create log directory: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "lockward.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Log to both stdout and file
	out := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(out)
	logger.Init(cfg.IsDevelopment(), out)

	os.Exit(serve(cfg, rotator))
}

// serve runs the server, then closes the log file. It returns the process
// exit code; os.Exit skips deferred calls, so nothing may be left to defer here.
func serve(cfg config.Config, logFile io.Closer) int {
	err := run(cfg)
	if err != nil {
		logger.Log().WithError(err).Error("server exited")
	}
	if cerr := logFile.Close(); cerr != nil {
		log.Printf("close log file: %v", cerr)
	}
	if err != nil {
		return 1
	}
	return 0
}

func run(cfg config.Config) error {
	lg := logger.Log()
	lg.Infof("starting %s %s", version.Name, version.Full())

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	metrics.Register(prometheus.DefaultRegisterer)

	accessLogs := services.NewAccessLogService(db)
	reporter := services.NewErrorReporter(cfg.Alert)
	writer := services.NewAuditWriter(accessLogs, reporter, cfg.Audit.BufferSize)
	defer writer.Close()

	pruner := services.NewAuditPruner(accessLogs, cfg.Audit)
	if err := pruner.Start(); err != nil {
		return err
	}
	defer pruner.Stop()

	srv, err := server.New(db, cfg, routes.Options{Audit: writer, Reporter: reporter})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.WithField("port", cfg.HTTPPort).Info("listening")
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	lg.Info("shutting down, flushing access log queue")
	return nil
}

// issueToken prints a signed admin API token:
//
//	lockward issue-token <subject> [role] [ttl]
func issueToken(cfg config.Config, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: %s issue-token <subject> [role] [ttl]", os.Args[0])
	}
	role, ttl := "admin", defaultTokenTTL
	if len(args) > 1 {
		role = args[1]
	}
	if len(args) > 2 {
		d, err := time.ParseDuration(args[2])
		if err != nil {
			return fmt.Errorf("invalid ttl %q: %w", args[2], err)
		}
		ttl = d
	}

	token, err := services.NewTokenService(cfg.JWTSecret).Issue(args[0], role, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
