package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-insights/analyzer"
	"comment-insights/analyzer/youtube"
	"comment-insights/server"
	"comment-insights/shared/ai"
	"comment-insights/shared/config"
	"comment-insights/shared/monitoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	youtubeClient, err := youtube.NewClient(ctx, &cfg.YouTube)
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	var geminiClient *ai.Client
	if cfg.RemoteEnabled() {
		geminiClient, err = ai.NewClient(ctx, &cfg.AI)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		log.Printf("Remote classification enabled (model %s)", cfg.AI.Model)
	} else {
		log.Println("GEMINI_API_KEY not set, running in local-only mode")
	}

	monitor := monitoring.NewMonitor()
	pipeline := analyzer.New(cfg, youtubeClient, geminiClient, monitor)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(pipeline, monitor).Router(),
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: shutdown did not complete cleanly: %v", err)
	}
}
