package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "travel_inquiry/internal/adapters/http_server"
	"travel_inquiry/internal/adapters/mailer"
	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/adapters/pdf"
	redisad "travel_inquiry/internal/adapters/redis"
	"travel_inquiry/internal/app"
	"travel_inquiry/internal/form"
	"travel_inquiry/internal/shared"
	mysqlrepo "travel_inquiry/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// set global logger (console in dev, JSON otherwise) before config warnings
	log.Logger = observability.NewLogger(shared.AppEnv())
	cfg := shared.Load()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer db.Close()
	if err := mysqlrepo.Migrate(ctx, db, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rc.Close()

	renderer, err := pdf.New(cfg.PDFStrategy, cfg.GotenbergURL, cfg.RenderRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("pdf renderer init failed")
	}
	m, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("smtp client init failed")
	}

	cat := form.DefaultCatalog()
	wiz := form.NewWizard(cat)
	submit := app.NewSubmitService(wiz, repo, cfg.Timezone)

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:  cat,
		Sessions: app.NewSessionService(redisad.NewSessionStore(rc, cfg.SessionTTL), wiz, submit),
		Notify:   app.NewNotifyService(renderer, m, cfg.AgencyEmail),
		Queries:  app.NewQueryService(repo, redisad.NewCache(rc), cfg.CacheTTL, cfg.Timezone),
		Loc:      cfg.Timezone,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("pdf", cfg.PDFStrategy).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
