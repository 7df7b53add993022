package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/httpapi"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/obs"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/org"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/stream"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Organization-mapping database. Optional: without it the service still
	// serves admin routes but tenant routes cannot resolve a scope.
	var (
		db    *sql.DB
		orgs  org.Store
		pgsql *org.PGStore
	)
	if cfg.PostgresDSN != "" {
		pgsql, err = org.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = pgsql.DB()
		orgs = pgsql
	} else {
		log.Printf("POYNTS_PG_DSN not set, organization resolution disabled")
		orgs = org.NewMemoryStore()
	}

	resolver, err := proxy.NewCredentialResolver(cfg, orgs)
	if err != nil {
		log.Fatalf("credential resolver: %v", err)
	}
	client, err := proxy.NewClient(cfg, resolver)
	if err != nil {
		log.Fatalf("proxy client: %v", err)
	}

	activity := stream.New()
	api := httpapi.New(cfg, client, orgs, httpapi.ReadyProbe{DB: db}, activity, version)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second, // SSE subscribers hold connections open
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting poynts-admin-api %s on %s (backend %s)", version, srv.Addr, cfg.BackendAPIURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// gRPC health listener for platform probes.
	grpcSrv := httpapi.NewGRPCServer(httpapi.ReadyProbe{DB: db})
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				log.Printf("grpc serve: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	grpcSrv.GracefulStop()
	if pgsql != nil {
		_ = pgsql.Close()
	}
	log.Println("Stopped")
}
