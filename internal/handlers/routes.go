package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything RegisterRoutes mounts. Metrics may be nil to
// leave /metrics unmounted.
type Handlers struct {
	Auth        *auth.AuthHandler
	Trips       *TripHandler
	Catalog     *CatalogHandler
	RateLimiter *middleware.RateLimiter
	Metrics     http.Handler
	Logger      *slog.Logger
}

var authenticated = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

type HealthOutput struct {
	Body struct {
		Status    string    `json:"status" example:"ok"`
		Timestamp time.Time `json:"timestamp"`
	}
}

func handleHealth(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Timestamp = time.Now().UTC()
	return out, nil
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) huma.API {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(chimw.Recoverer)
	if cfg.CORSOrigin != "" {
		r.Use(middleware.NewCORSMiddleware(cfg.CORSOrigin))
	}

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Itinerary API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)
	api.UseMiddleware(h.Auth.Middleware(api))

	// Public routes
	huma.Get(api, "/health", handleHealth)
	registerAuthRoutes(api, h)
	registerCatalogRoutes(api, h.Catalog)
	registerTripRoutes(api, h.Trips)

	return api
}

func registerAuthRoutes(api huma.API, h Handlers) {
	var limited huma.Middlewares
	if h.RateLimiter != nil {
		limited = huma.Middlewares{h.RateLimiter.Operation(api)}
	}

	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/auth/signup",
		Summary:       "Create a password account",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   limited,
	}, h.Auth.HandleSignup)
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
		Middlewares: limited,
	}, h.Auth.HandleLogin)
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    authenticated,
	}, h.Auth.HandleMe)
	huma.Register(api, huma.Operation{
		OperationID: "discord-login",
		Method:      http.MethodGet,
		Path:        "/auth/discord/login",
		Summary:     "Start Discord single sign-on",
		Tags:        []string{"Auth"},
	}, h.Auth.HandleDiscordLogin)
	huma.Register(api, huma.Operation{
		OperationID: "discord-callback",
		Method:      http.MethodGet,
		Path:        "/auth/discord/callback",
		Summary:     "Finish Discord single sign-on",
		Tags:        []string{"Auth"},
	}, h.Auth.HandleDiscordCallback)
}

func registerCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cities",
		Method:      http.MethodGet,
		Path:        "/cities",
		Summary:     "Search cities",
		Tags:        []string{"Catalog"},
	}, h.HandleListCities)
	huma.Register(api, huma.Operation{
		OperationID: "get-city",
		Method:      http.MethodGet,
		Path:        "/cities/{id}",
		Summary:     "Get a city",
		Tags:        []string{"Catalog"},
	}, h.HandleGetCity)
	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "Search activities",
		Tags:        []string{"Catalog"},
	}, h.HandleListActivities)
	huma.Register(api, huma.Operation{
		OperationID: "get-activity",
		Method:      http.MethodGet,
		Path:        "/activities/{id}",
		Summary:     "Get an activity",
		Tags:        []string{"Catalog"},
	}, h.HandleGetActivity)
}

func registerTripRoutes(api huma.API, h *TripHandler) {
	// Readable by anyone when the trip is public.
	huma.Register(api, huma.Operation{
		OperationID: "get-public-trip",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/public",
		Summary:     "Get a public trip",
		Tags:        []string{"Trips"},
	}, h.HandleGetPublic)
	huma.Register(api, huma.Operation{
		OperationID: "get-trip-budget",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/budget",
		Summary:     "Budget breakdown",
		Tags:        []string{"Views"},
	}, h.HandleBudget)
	huma.Register(api, huma.Operation{
		OperationID: "get-trip-map",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/map",
		Summary:     "Map points of the trip route",
		Tags:        []string{"Views"},
	}, h.HandleMap)
	huma.Register(api, huma.Operation{
		OperationID: "get-trip-timeline",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/timeline",
		Summary:     "Activities grouped by day",
		Tags:        []string{"Views"},
	}, h.HandleTimeline)

	// Protected routes
	huma.Register(api, huma.Operation{
		OperationID: "list-trips",
		Method:      http.MethodGet,
		Path:        "/trips",
		Summary:     "List own and public trips",
		Tags:        []string{"Trips"},
		Security:    authenticated,
	}, h.HandleList)
	huma.Register(api, huma.Operation{
		OperationID:   "create-trip",
		Method:        http.MethodPost,
		Path:          "/trips",
		Summary:       "Create a trip",
		Tags:          []string{"Trips"},
		DefaultStatus: http.StatusCreated,
		Security:      authenticated,
	}, h.HandleCreate)
	huma.Register(api, huma.Operation{
		OperationID: "get-trip",
		Method:      http.MethodGet,
		Path:        "/trips/{id}",
		Summary:     "Get an own trip",
		Tags:        []string{"Trips"},
		Security:    authenticated,
	}, h.HandleGet)
	huma.Register(api, huma.Operation{
		OperationID: "update-trip",
		Method:      http.MethodPatch,
		Path:        "/trips/{id}",
		Summary:     "Update a trip",
		Tags:        []string{"Trips"},
		Security:    authenticated,
	}, h.HandleUpdate)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-trip",
		Method:        http.MethodDelete,
		Path:          "/trips/{id}",
		Summary:       "Delete a trip with its stops, activities and expenses",
		Tags:          []string{"Trips"},
		DefaultStatus: http.StatusOK,
		Security:      authenticated,
	}, h.HandleDelete)
	huma.Register(api, huma.Operation{
		OperationID:   "copy-trip",
		Method:        http.MethodPost,
		Path:          "/trips/{id}/copy",
		Summary:       "Copy a public or own trip",
		Tags:          []string{"Trips"},
		DefaultStatus: http.StatusCreated,
		Security:      authenticated,
	}, h.HandleCopy)
	huma.Register(api, huma.Operation{
		OperationID: "get-trip-summary",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/summary",
		Summary:     "Budget summary",
		Tags:        []string{"Views"},
		Security:    authenticated,
	}, h.HandleSummary)

	huma.Register(api, huma.Operation{
		OperationID:   "create-stop",
		Method:        http.MethodPost,
		Path:          "/trips/{id}/stops",
		Summary:       "Add a stop",
		Tags:          []string{"Stops"},
		DefaultStatus: http.StatusCreated,
		Security:      authenticated,
	}, h.HandleCreateStop)
	huma.Register(api, huma.Operation{
		OperationID: "update-stop",
		Method:      http.MethodPatch,
		Path:        "/trips/{id}/stops/{stopId}",
		Summary:     "Update a stop",
		Tags:        []string{"Stops"},
		Security:    authenticated,
	}, h.HandleUpdateStop)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-stop",
		Method:        http.MethodDelete,
		Path:          "/trips/{id}/stops/{stopId}",
		Summary:       "Delete a stop with its activities",
		Tags:          []string{"Stops"},
		DefaultStatus: http.StatusOK,
		Security:      authenticated,
	}, h.HandleDeleteStop)

	huma.Register(api, huma.Operation{
		OperationID:   "add-trip-activity",
		Method:        http.MethodPost,
		Path:          "/trips/{id}/stops/{stopId}/activities",
		Summary:       "Schedule a catalog activity at a stop",
		Tags:          []string{"Activities"},
		DefaultStatus: http.StatusCreated,
		Security:      authenticated,
	}, h.HandleAddActivity)
	huma.Register(api, huma.Operation{
		OperationID: "update-trip-activity",
		Method:      http.MethodPatch,
		Path:        "/trips/{id}/activities/{tripActivityId}",
		Summary:     "Update a scheduled activity",
		Tags:        []string{"Activities"},
		Security:    authenticated,
	}, h.HandleUpdateActivity)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-trip-activity",
		Method:        http.MethodDelete,
		Path:          "/trips/{id}/activities/{tripActivityId}",
		Summary:       "Remove a scheduled activity",
		Tags:          []string{"Activities"},
		DefaultStatus: http.StatusOK,
		Security:      authenticated,
	}, h.HandleDeleteActivity)

	huma.Register(api, huma.Operation{
		OperationID: "list-expenses",
		Method:      http.MethodGet,
		Path:        "/trips/{id}/expenses",
		Summary:     "List trip expenses",
		Tags:        []string{"Expenses"},
		Security:    authenticated,
	}, h.HandleListExpenses)
	huma.Register(api, huma.Operation{
		OperationID:   "create-expense",
		Method:        http.MethodPost,
		Path:          "/trips/{id}/expenses",
		Summary:       "Add an expense",
		Tags:          []string{"Expenses"},
		DefaultStatus: http.StatusCreated,
		Security:      authenticated,
	}, h.HandleCreateExpense)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-expense",
		Method:        http.MethodDelete,
		Path:          "/trips/{id}/expenses/{expenseId}",
		Summary:       "Delete an expense",
		Tags:          []string{"Expenses"},
		DefaultStatus: http.StatusOK,
		Security:      authenticated,
	}, h.HandleDeleteExpense)
}
