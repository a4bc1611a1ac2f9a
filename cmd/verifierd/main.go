// Copyright 2025 Certen Protocol

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/independant-validator/pkg/config"
	"github.com/certen/independant-validator/pkg/groth16verifier"
	"github.com/certen/independant-validator/pkg/laneracer"
	"github.com/certen/independant-validator/pkg/mockverifier"
	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/router"
	"github.com/certen/independant-validator/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := log.New(log.Writer(), "[verifierd] ", log.LstdFlags)

	ownerAddr := common.HexToAddress(cfg.OwnerAddress)
	r := router.New(ownerAddr, log.New(log.Writer(), "[router] ", log.LstdFlags))

	groth16Selector, err := decodeSelector(cfg.Groth16Selector)
	if err != nil {
		log.Fatalf("Invalid GROTH16_SELECTOR: %v", err)
	}
	groth16Backend := groth16verifier.New(groth16Selector)
	groth16Addr := common.HexToAddress(cfg.Groth16Address)
	r.RegisterBackend(groth16Addr, groth16Backend)
	if err := r.AddVerifier(ownerAddr, groth16Selector, groth16Addr); err != nil {
		log.Fatalf("Failed to register Groth16 verifier: %v", err)
	}

	if cfg.MockVerifierEnabled {
		mockSelector, err := decodeSelector(cfg.MockSelector)
		if err != nil {
			log.Fatalf("Invalid MOCK_SELECTOR: %v", err)
		}
		mockBackend := mockverifier.New(mockSelector)
		mockAddr := common.HexToAddress(cfg.MockAddress)
		r.RegisterBackend(mockAddr, mockBackend)
		if err := r.AddVerifier(ownerAddr, mockSelector, mockAddr); err != nil {
			log.Fatalf("Failed to register mock verifier: %v", err)
		}
		logger.Printf("mock verifier enabled at selector %x — do not use in production", mockSelector)
	}

	imageID, err := decodeDigest(cfg.LaneRacerImageID)
	if err != nil {
		log.Fatalf("Invalid LANE_RACER_IMAGE_ID: %v", err)
	}
	adapter := laneracer.New(r, imageID)

	registry := prometheus.NewRegistry()
	metrics := server.NewMetrics(registry)
	handlers := server.NewHandlers(r, adapter, metrics, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("/api/v1/verify", handlers.HandleVerify)
	mux.HandleFunc("/api/v1/registry/add", handlers.HandleAddVerifier)
	mux.HandleFunc("/api/v1/registry/remove", handlers.HandleRemoveVerifier)
	mux.HandleFunc("/api/v1/registry/", handlers.HandleGetVerifier)
	mux.HandleFunc("/api/v1/lanerace/start", handlers.HandleStartGame)
	mux.HandleFunc("/api/v1/lanerace/submit", handlers.HandleSubmitScore)
	mux.HandleFunc("/api/v1/lanerace/leaderboard", handlers.HandleLeaderboard)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()
	go func() {
		logger.Printf("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server failed: %v", err)
		}
	}()

	go sweepLoop(r, cfg.VerifierLeaseWindow, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	_ = metricsServer.Shutdown(ctx)
}

// sweepLoop periodically evicts expired router entries. This is pure
// storage hygiene — it never changes a Tombstone back to Unset, and a
// swept Active entry simply becomes re-registerable.
func sweepLoop(r *router.Router, leaseWindow time.Duration, logger *log.Logger) {
	interval := leaseWindow / 90 // default config yields a 24h sweep cadence
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if n := r.Sweep(time.Now()); n > 0 {
			logger.Printf("swept %d expired verifier entries", n)
		}
	}
}

func decodeSelector(s string) ([4]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != 4 {
		return [4]byte{}, fmt.Errorf("expected 4 hex-encoded bytes, got %q", s)
	}
	var sel [4]byte
	copy(sel[:], b)
	return sel, nil
}

func decodeDigest(s string) (receipt.Digest32, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != 32 {
		return receipt.Digest32{}, fmt.Errorf("expected 32 hex-encoded bytes, got %q", s)
	}
	var d receipt.Digest32
	copy(d[:], b)
	return d, nil
}
