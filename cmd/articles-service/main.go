package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pribylovaa/articles-service/internal/config"
	apihttp "github.com/pribylovaa/articles-service/internal/http"
	"github.com/pribylovaa/articles-service/internal/pkg/redact"
	"github.com/pribylovaa/articles-service/internal/service"
	"github.com/pribylovaa/articles-service/internal/storage/mongo"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	defaultBasePath = "/api"
)

func main() {
	var (
		configPath string
		routes     bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&routes, "routes", false, "print REST routes as markdown and exit")
	flag.Parse()

	if routes {
		r := apihttp.NewRouter(nil, apihttp.Options{BasePath: defaultBasePath})
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/pribylovaa/articles-service",
			Intro:       "articles-service REST routes.",
		}))
		return
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	os.Exit(run(cfg, log))
}

// run поднимает хранилище и HTTP-сервер и блокируется до сигнала или ошибки Serve.
// Возвращает код выхода; все defer (включая закрытие Mongo) отрабатывают до os.Exit.
func run(cfg *config.Config, log *slog.Logger) int {
	log.Info("starting articles-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	connectCtx, connectCancel := context.WithTimeout(rootCtx, cfg.DB.ConnectTimeout)
	store, err := mongo.New(connectCtx, cfg)
	connectCancel()
	if err != nil {
		log.Error("mongo_connect_failed",
			slog.String("url", redact.URI(cfg.DB.URL)),
			slog.String("err", err.Error()),
		)
		return 1
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if cerr := store.Close(closeCtx); cerr != nil {
			log.Warn("mongo_close_failed", slog.String("err", cerr.Error()))
			return
		}
		log.Info("mongo_closed")
	}()

	log.Info("mongo_connected", slog.String("url", redact.URI(cfg.DB.URL)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var ready atomic.Bool

	handler := apihttp.NewRouter(service.New(store), apihttp.Options{
		Logger:         log,
		Timeout:        cfg.Timeouts.Service,
		BasePath:       cfg.HTTP.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Registry:       reg,
		Pinger:         store,
		Ready:          &ready,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return 1
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr), slog.String("base_path", cfg.HTTP.BasePath))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	ready.Store(true)
	log.Info("service_ready")

	code := 0
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
			code = 1
		}
	}

	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	return code
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
