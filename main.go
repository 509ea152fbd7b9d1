package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"churnscope/internal"
	"churnscope/internal/config"
	"churnscope/internal/container"
	"churnscope/internal/ops"
	"churnscope/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.With("Main")
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// The dataset is loaded once at startup. A failed load is reported here and then
	// served as an error page; it is not retried.
	if _, err := appContainer.Store.Load(ctx); err != nil {
		logger.Error("Dataset load failed: %v", err)
	}

	server, err := ui.NewServer(appContainer.Store, embeddedFiles)
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	servers := []*http.Server{{
		Addr:              net.JoinHostPort("", appConfig.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	servers = append(servers, &http.Server{
		Addr:              net.JoinHostPort("", appConfig.Profiling.Port),
		Handler:           ops.NewRouter(appContainer.Store, ops.Config{Profiling: appConfig.Profiling.Enabled}),
		ReadHeaderTimeout: 10 * time.Second,
	})

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		logger.Info("Listening on http://localhost%s", srv.Addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		logger.Error("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Shutdown of %s: %v", srv.Addr, err)
		}
	}
}
