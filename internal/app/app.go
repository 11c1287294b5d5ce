// Package app serves the browser bootstrap for the picker through API
// Gateway. The same handler backs the Lambda and the local server.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/charmbracelet/log"

	"github.com/jun/drivepicker/internal/config"
	"github.com/jun/drivepicker/internal/schema"
	"github.com/jun/drivepicker/internal/secret"
)

// Bootstrap is everything the browser needs to call createGooglePicker.
type Bootstrap struct {
	ClientID     string        `json:"clientId"`
	DeveloperKey string        `json:"developerKey"`
	AppID        string        `json:"appId"`
	Config       schema.Config `json:"config"`
}

// App holds the dependencies for the Lambda function.
type App struct {
	cfg      *config.Config
	resolver secret.Resolver
	logger   *log.Logger
}

// NewApp returns an App reading secrets through resolver.
func NewApp(cfg *config.Config, resolver secret.Resolver, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default().WithPrefix("api")
	}
	return &App{cfg: cfg, resolver: resolver, logger: logger}
}

// HandleRequest routes API Gateway requests.
func (app *App) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := req.Path
	method := req.HTTPMethod

	app.logger.Debug("request", "method", method, "path", path)

	if method == http.MethodOptions {
		return app.corsResponse(events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}), nil
	}

	if !app.originAllowed(ctx, req) {
		app.logger.Warn("blocked request without a valid X-Origin-Verify header", "path", path)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusForbidden,
			Body:       "Forbidden: Access denied",
		}, nil
	}

	// CloudFront forwards /api/* unchanged.
	path = strings.TrimPrefix(path, "/api")

	switch {
	case path == "/healthz" && method == http.MethodGet:
		return app.corsResponse(jsonResponse(http.StatusOK, map[string]string{"status": "ok"})), nil
	case path == "/picker/config" && method == http.MethodGet:
		return app.corsResponse(app.pickerConfig(ctx)), nil
	}

	return app.corsResponse(events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Body:       fmt.Sprintf("Not Found: %s %s", method, path),
	}), nil
}

func (app *App) originAllowed(ctx context.Context, req events.APIGatewayProxyRequest) bool {
	if app.cfg.DevMode || app.cfg.OriginVerifyParam == "" {
		return true
	}
	want, err := app.resolver.GetSecret(ctx, app.cfg.OriginVerifyParam)
	if err != nil {
		app.logger.Error("failed to resolve origin secret", "err", err)
		return false
	}
	got := req.Headers["X-Origin-Verify"]
	if got == "" {
		got = req.Headers["x-origin-verify"]
	}
	return got == want
}

func (app *App) pickerConfig(ctx context.Context) events.APIGatewayProxyResponse {
	b, err := app.Bootstrap(ctx)
	if err != nil {
		app.logger.Error("failed to build picker bootstrap", "err", err)
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "picker configuration unavailable"})
	}
	return jsonResponse(http.StatusOK, b)
}

// Bootstrap resolves the developer key and returns the validated picker
// settings with every default applied.
func (app *App) Bootstrap(ctx context.Context) (Bootstrap, error) {
	key, err := app.resolver.GetSecret(ctx, app.cfg.DeveloperKeyParam)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("resolve developer key: %w", err)
	}
	creds, pc, err := schema.Parse(app.cfg.GoogleClientID, key, app.cfg.GoogleAppID, app.cfg.PickerConfig())
	if err != nil {
		return Bootstrap{}, err
	}
	return Bootstrap{
		ClientID:     creds.ClientID,
		DeveloperKey: creds.DeveloperKey,
		AppID:        creds.AppID,
		Config:       pc,
	}, nil
}

// corsResponse adds CORS headers to an API Gateway response.
func (app *App) corsResponse(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers["Access-Control-Allow-Origin"] = app.cfg.FrontendURL
	resp.Headers["Access-Control-Allow-Methods"] = "GET,OPTIONS"
	resp.Headers["Access-Control-Allow-Headers"] = "Content-Type"
	return resp
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: "Internal Server Error"}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
