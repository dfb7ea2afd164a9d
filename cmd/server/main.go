package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notifyme/internal/config"
	"notifyme/internal/domain/notification"
	"notifyme/internal/domain/template"
	"notifyme/internal/infra/email"
	"notifyme/internal/infra/store"
	render "notifyme/internal/infra/template"
	"notifyme/internal/router"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase stores
	supaClient, err := store.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize supabase client", "error", err)
		os.Exit(1)
	}
	templateStore := store.NewSupabaseTemplateStore(supaClient)
	notificationStore := store.NewSupabaseNotificationStore(supaClient)
	slog.Info("supabase stores initialized")

	// Delivery channel
	sender := email.NewResendProvider(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName)

	// Services
	templateService := template.NewService(templateStore)
	notificationService := notification.NewService(notificationStore, templateStore, render.NewEngine(), sender)

	// Handlers
	templateHandler := template.NewHandler(templateService)
	notificationHandler := notification.NewHandler(notificationService)

	// Router
	r := router.New(cfg, templateHandler, notificationHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
