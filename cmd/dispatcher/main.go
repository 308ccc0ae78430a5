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

	config "github.com/chamasoft/notify-engine/internal/config/dispatcher"
	"github.com/chamasoft/notify-engine/internal/obs"
	kafkaRepo "github.com/chamasoft/notify-engine/internal/repository/kafka"
	pg "github.com/chamasoft/notify-engine/internal/repository/postgres"
	"github.com/chamasoft/notify-engine/internal/services/dispatcher"
)

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
	l.Info("starting dispatcher",
		zap.Any("kafka_in", cfg.KafkaIn),
		zap.String("http_addr", cfg.Server.HTTPAddr),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
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

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

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

	consumer := kafkaRepo.BootstrapConsumer(ctx, cfg.AsConsumerConfig(l), l)
	defer func() { _ = consumer.Close() }()

	api := dispatcher.NewServer(disp, l)

	errCh := make(chan error, 2)
	go func() { errCh <- consumer.Consume(ctx, dispatcher.EventHandler(disp, l)) }()
	go func() { errCh <- api.Start(cfg.Server.HTTPAddr) }()

	l.Info("dispatcher started")

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
