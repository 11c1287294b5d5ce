package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/charmbracelet/log"

	"github.com/jun/drivepicker/internal/app"
	"github.com/jun/drivepicker/internal/config"
	"github.com/jun/drivepicker/internal/logging"
	"github.com/jun/drivepicker/internal/secret"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("development", "info").Fatal("failed to load config", "err", err)
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := secret.New(ctx, cfg.DevMode)
	if err != nil {
		logger.Fatal("failed to create secret resolver", "err", err)
	}
	application := app.NewApp(cfg, resolver, logger.WithPrefix("api"))

	mux := http.NewServeMux()
	mux.Handle("/api/", lambdaHandler(application, logger))
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		logger.Info("serving static files", "dir", cfg.StaticDir)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting local server", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", "err", err)
	}
}

// lambdaHandler adapts net/http requests to the API Gateway handler.
func lambdaHandler(application *app.App, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ",")
		}
		queryParams := make(map[string]string)
		for k, v := range r.URL.Query() {
			queryParams[k] = v[0]
		}

		resp, err := application.HandleRequest(r.Context(), events.APIGatewayProxyRequest{
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			Headers:               headers,
			QueryStringParameters: queryParams,
			Body:                  string(body),
		})
		if err != nil {
			logger.Error("handler failed", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}
}
