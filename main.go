package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/grid"
	"github.com/LucasCostaLobato/auditory-system-api/internal/calc/inputsignal"
	"github.com/LucasCostaLobato/auditory-system-api/internal/config"
	"github.com/LucasCostaLobato/auditory-system-api/internal/middleware"
	"github.com/LucasCostaLobato/auditory-system-api/internal/repo"
	"github.com/LucasCostaLobato/auditory-system-api/internal/server"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func handler(cfg config.Config, deps server.Deps) http.Handler {
	var h http.Handler = server.NewRouter(deps)
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		h = limiter.LimitMiddleware(h)
	}
	return middleware.Logging(middleware.CORS(h))
}

func loadParameters(ctx context.Context, cfg config.Config) (*repo.Repository, error) {
	sources := []repo.Source{repo.NewFileSource(cfg.ParamsDir)}
	if cfg.ParamsXLSX != "" {
		sources = append(sources, repo.NewXLSXSource(cfg.ParamsXLSX))
	}
	if cfg.DatabaseURL != "" {
		db, err := repo.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Read once at startup; the repository is immutable afterwards.
		defer db.Close()
		sources = append(sources, repo.NewPostgresSource(db))
	}
	return repo.Load(ctx, cfg.ReferenceFit, sources...)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	grid.MaxBins = cfg.MaxBins

	params, err := loadParameters(ctx, cfg)
	if err != nil {
		log.Fatalf("load middle ear parameters: %v", err)
	}
	log.Printf("loaded reference fits %v, default %s", params.Fits(), params.DefaultFit())

	signals, err := inputsignal.LoadLibrary(cfg.SignalDataDir)
	if err != nil {
		log.Fatalf("load input signals: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler(cfg, server.Deps{Repo: params, Signals: signals}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on %s", cfg.Addr)
		var err error
		if cfg.TLS() {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
