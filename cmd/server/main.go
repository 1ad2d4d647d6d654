package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gatepass/internal/analytics"
	analyticshandler "gatepass/internal/analytics/handler"
	"gatepass/internal/audit"
	"gatepass/internal/card"
	"gatepass/internal/entry"
	entryhandler "gatepass/internal/entry/handler"
	"gatepass/internal/event"
	eventhandler "gatepass/internal/event/handler"
	"gatepass/internal/files"
	fileshandler "gatepass/internal/files/handler"
	"gatepass/internal/filetoken"
	"gatepass/internal/platform/config"
	"gatepass/internal/platform/httpserver"
	"gatepass/internal/platform/logger"
	"gatepass/internal/platform/metrics"
	"gatepass/internal/platform/postgres"
	"gatepass/internal/platform/redis"
	"gatepass/internal/staff"
	staffhandler "gatepass/internal/staff/handler"
	"gatepass/internal/tourist"
	touristhandler "gatepass/internal/tourist/handler"
	transport "gatepass/internal/transport/http"
	"gatepass/pkg/mailer"
)

func main() {
	cfg := config.Load()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		eventStore     event.Store
		touristStore   tourist.Store
		staffStore     staff.Store
		entryStore     entry.Store
		auditStore     audit.Store
		analyticsStore analytics.Store
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		eventStore = event.NewPostgresStore(db)
		touristStore = tourist.NewPostgresStore(db)
		staffStore = staff.NewPostgresStore(db)
		entryStore = entry.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
		analyticsStore = analytics.NewPostgresStore(db)
		log.Info("using postgres storage")
	} else {
		entryMem := entry.NewMemoryStore()
		eventStore = event.NewMemoryStore()
		touristStore = tourist.NewMemoryStore()
		staffStore = staff.NewMemoryStore()
		entryStore = entryMem
		auditStore = audit.NewMemoryStore()
		analyticsStore = analytics.NewMemoryStore(entryMem)
		log.Warn("no database configured, using in-memory storage")
	}

	var gateCache event.GateCache = event.NoopGateCache{}
	if cfg.RedisURL != "" {
		redisClient, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		gateCache = event.NewRedisGateCache(redisClient, cfg.GateCacheTTL, m)
		log.Info("gate cache enabled")
	}

	auditPub := audit.NewPublisher(256)
	var auditSink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditSink = sink
		log.Info("audit kafka sink enabled", "topic", cfg.AuditTopic)
	}
	auditWorker := audit.NewWorker(auditPub, auditStore, auditSink, log)

	fileTokens := filetoken.NewService(cfg.JWTSigningKey, cfg.FileTokenTTL)
	staffTokens := staff.NewTokenService(cfg.JWTSigningKey, 24*time.Hour)
	linkSigner := files.NewLinkSigner(cfg.PublicLinkSecret)
	cardGen := card.NewGenerator(cfg.CardTemplatePath, filepath.Join(cfg.StaticDir, "cards"))
	mail := mailer.New(cfg.SMTPAddr, cfg.SMTPFrom, log)

	eventSvc := event.NewService(eventStore, gateCache, log)
	staffSvc := staff.NewService(staffStore, staffTokens, auditPub, log)
	if err := staffSvc.Bootstrap(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		log.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}
	// entry and tourist need each other; the status-only instance handed to
	// tourist shares the entry store, so the second construction below just
	// adds the tourist resolver.
	entrySvc := entry.NewService(entryStore, nil, auditPub, m, log)
	touristSvc := tourist.NewService(tourist.ServiceParams{
		Store:      touristStore,
		Events:     eventSvc,
		Cards:      cardGen,
		Tokens:     fileTokens,
		Entries:    entrySvc,
		Mailer:     mail,
		Audit:      auditPub,
		Metrics:    m,
		Logger:     log,
		UploadsDir: filepath.Join(cfg.StaticDir, "uploads"),
	})
	entrySvc = entry.NewService(entryStore, touristSvc, auditPub, m, log)
	analyticsSvc := analytics.NewService(analyticsStore, eventSvc)

	handler := transport.New(transport.Deps{
		Logger:    log,
		Metrics:   m,
		Validator: staffTokens,
		Events:    eventhandler.New(eventSvc, staffSvc, log),
		Tourists:  touristhandler.New(touristSvc, log),
		Entries:   entryhandler.New(entrySvc, staffSvc, log),
		Analytics: analyticshandler.New(analyticsSvc, log),
		Staff:     staffhandler.New(staffSvc, log),
		Files:     fileshandler.New(linkSigner, cfg.StaticDir, log),
	})

	srv := httpserver.New(cfg.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return auditWorker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
