package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/chamasoft/notify-engine/internal/config/scanner"
	"github.com/chamasoft/notify-engine/internal/obs"
	pg "github.com/chamasoft/notify-engine/internal/repository/postgres"
	"github.com/chamasoft/notify-engine/internal/services/dispatcher"
	"github.com/chamasoft/notify-engine/internal/services/scanner"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "", "path to config yaml")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	l.Info("starting scanner",
		zap.Duration("interval", cfg.Scan.Interval),
		zap.Duration("dedup_window", cfg.Scan.DedupWindow),
		zap.String("http_addr", cfg.Scan.HTTPAddr),
		zap.String("metrics_addr", cfg.Scan.MetricsAddr),
	)

	otelCloser, err := obs.SetupOTel(ctx, cfg.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	ms := obs.BootstrapMetricsServer(cfg.Scan.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

	// The scanner dispatches in-process against the shared database.
	var sms *dispatcher.SNSSender
	if cfg.SMS.Enable {
		sms, err = dispatcher.NewSNSSender(ctx, cfg.SMS, l)
		if err != nil {
			l.Fatal("sns init", zap.Error(err))
		}
	}
	disp := &dispatcher.Dispatcher{
		Profiles:    pg.NewProfileRepo(db),
		Store:       pg.NewNotificationRepo(db),
		Mail:        dispatcher.NewMailer(cfg.SMTP, l),
		Log:         l,
		SendTimeout: cfg.Dispatch.SendTimeout,
	}
	if sms != nil {
		disp.SMS = sms
	}

	uc := &scanner.Usecase{
		Members:     pg.NewMemberRepo(db),
		Oracle:      pg.NewOracleClient(db),
		Log:         pg.NewNotificationRepo(db),
		Notifier:    disp,
		Clock:       sysClock{},
		DedupWindow: cfg.Scan.DedupWindow,
		Logger:      l,
	}
	runner := scanner.New(l, uc, cfg.Scan.Interval)
	api := scanner.NewServer(runner, l)

	errCh := make(chan error, 2)
	go func() { errCh <- runner.Run(ctx) }()
	go func() { errCh <- api.Start(cfg.Scan.HTTPAddr) }()

	l.Info("scanner started")

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
			l.Error("runner error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = api.Shutdown(shCtx)
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
