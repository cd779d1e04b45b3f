// Command lambda serves the dashboard JSON from AWS Lambda behind API
// Gateway. Secrets come from SSM Parameter Store (see internal/config).
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	httpadapter "github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/http"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/app"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/config"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/dashboard"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// eventsPath returns enriched events instead of view models.
const eventsPath = "/api/v1/dashboard/events"

var (
	mu    sync.Mutex
	built *app.App

	// newApp is replaced in tests.
	newApp = loadApp
)

// build caches the app for the life of the container so warm invocations
// reuse it and its geocoding cache. Failures are not cached; the next
// invocation tries again.
func build(ctx context.Context) (*app.App, error) {
	mu.Lock()
	defer mu.Unlock()
	if built != nil {
		return built, nil
	}
	a, err := newApp(ctx)
	if err != nil {
		return nil, err
	}
	built = a
	return built, nil
}

func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	return app.New(ctx, cfg, logger, observability.NewMetrics())
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	a, err := build(ctx)
	if err != nil {
		slog.Error("dashboard init failed", "error", err)
		return respond(http.StatusInternalServerError, map[string]string{"error": "configuration error"}), nil
	}

	limit, err := httpadapter.ParseLimit(req.QueryStringParameters["limit"])
	if err != nil {
		return respond(http.StatusBadRequest, map[string]string{"error": err.Error()}), nil
	}

	enriched, err := a.Dashboard.GetDashboardEvents(ctx, limit)
	if err != nil {
		return respond(httpadapter.StatusFor(err), map[string]string{"error": err.Error()}), nil
	}

	var body any = dashboard.ToViewModels(enriched)
	if req.Path == eventsPath {
		body = nonNil(enriched)
	}
	return respond(http.StatusOK, body), nil
}

func nonNil(events []domain.EnrichedEvent) []domain.EnrichedEvent {
	if events == nil {
		return []domain.EnrichedEvent{}
	}
	return events
}

func respond(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		slog.Warn("AWS_LAMBDA_FUNCTION_NAME is not set; secrets will be read from the environment")
	}
	lambda.Start(handler)
}
