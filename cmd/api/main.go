package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cyclopex/Performia-sub001/internal/api"
	"github.com/cyclopex/Performia-sub001/internal/auth"
	"github.com/cyclopex/Performia-sub001/internal/config"
	"github.com/cyclopex/Performia-sub001/internal/domain"
	"github.com/cyclopex/Performia-sub001/internal/importer"
	persistence "github.com/cyclopex/Performia-sub001/internal/persistence/postgres"
	"github.com/cyclopex/Performia-sub001/internal/strava"
	httptransport "github.com/cyclopex/Performia-sub001/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	service := domain.NewService(
		persistence.NewWorkoutRepository(pool),
		persistence.NewRaceRepository(pool),
		persistence.NewMeasurementRepository(pool),
	)

	stravaClient := strava.NewClient(strava.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		BaseURL:      cfg.StravaBaseURL,
		RedirectURL:  cfg.AppBaseURL + "/v1/strava/callback",
		Window:       cfg.ImportWindow,
		PageSize:     cfg.ImportPageSize,
	}, &http.Client{Timeout: cfg.HTTPClientTimeout})

	imp := importer.New(service)

	handler := api.NewHandler(service, stravaClient, imp, cfg.AppBaseURL)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	// The OAuth redirect endpoints are browser navigations and cannot carry a
	// bearer token; health and metrics stay open for probes and scrapers.
	skipper := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" ||
			r.URL.Path == "/metrics" ||
			strings.HasPrefix(r.URL.Path, "/v1/strava/connect") ||
			strings.HasPrefix(r.URL.Path, "/v1/strava/callback")
	}
	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, skipper)

	// CORS is outermost so preflight OPTIONS requests, which carry no bearer
	// token, are answered before auth sees them.
	cors := httptransport.CORS(cfg.AppBaseURL)
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, cors(logger(authMiddleware.Wrap(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fittrack api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
