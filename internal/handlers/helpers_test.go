package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/metrics"
	"github.com/gdg-garage/itinerary-api/internal/middleware"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/testutil"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	copied    []models.Trip
	published []models.Trip
}

func (f *fakeNotifier) NotifyTripCopied(user models.User, copied models.Trip) error {
	f.copied = append(f.copied, copied)
	return nil
}

func (f *fakeNotifier) NotifyTripPublished(user models.User, trip models.Trip) error {
	f.published = append(f.published, trip)
	return nil
}

type testServer struct {
	api      humatest.TestAPI
	db       *gorm.DB
	auth     *auth.AuthHandler
	registry *prometheus.Registry
	notifier *fakeNotifier

	owner  *models.User
	other  *models.User
	paris  *models.City
	london *models.City
	louvre *models.Activity
	eiffel *models.Activity
	bigBen *models.Activity
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		TokenTTL:          24 * time.Hour,
		CORSOrigin:        "*",
		AuthRatePerMinute: 3,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	n := &fakeNotifier{}
	authHandler := auth.NewAuthHandler(cfg, db, collector)

	r := chi.NewMux()
	api := RegisterRoutes(r, cfg, Handlers{
		Auth:        authHandler,
		Trips:       NewTripHandler(db, trips.NewStore(db, logger), collector, n, logger),
		Catalog:     NewCatalogHandler(db),
		RateLimiter: middleware.NewRateLimiter(cfg.AuthRatePerMinute),
		Metrics:     metrics.Handler(reg),
		Logger:      logger,
	})

	s := &testServer{
		api:      humatest.Wrap(t, api),
		db:       db,
		auth:     authHandler,
		registry: reg,
		notifier: n,
		owner:    testutil.CreateUser(t, db, "owner@example.com"),
		other:    testutil.CreateUser(t, db, "other@example.com"),
		paris:    testutil.CreateCity(t, db, "Paris", testutil.WithCoordinates(48.8566, 2.3522)),
		london:   testutil.CreateCity(t, db, "London", testutil.WithCoordinates(51.5074, -0.1278)),
	}
	s.louvre = testutil.CreateActivity(t, db, s.paris.ID, "Louvre Tour", 25)
	s.eiffel = testutil.CreateActivity(t, db, s.paris.ID, "Eiffel Tower Visit", 30)
	s.bigBen = testutil.CreateActivity(t, db, s.london.ID, "Big Ben & Westminster", 0)
	return s
}

// as returns the Authorization header argument for user.
func (s *testServer) as(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := s.auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

// europe saves the sample two-stop trip owned by s.owner.
func (s *testServer) europe(t *testing.T, opts ...testutil.TripOption) *models.Trip {
	t.Helper()
	trip := testutil.NewTrip(s.owner.ID, "Europe Adventure", "2026-03-01", "2026-03-10", opts...)
	trip.Stops = []models.TripStop{
		testutil.NewStop(s.paris.ID, "2026-03-01", "2026-03-05", 0,
			testutil.NewTripActivity(s.louvre.ID, "2026-03-02", 25),
			testutil.NewTripActivity(s.eiffel.ID, "2026-03-03", 30),
		),
		testutil.NewStop(s.london.ID, "2026-03-05", "2026-03-10", 1,
			testutil.NewTripActivity(s.bigBen.ID, "2026-03-06", 0),
		),
	}
	trip.Expenses = []models.Expense{
		{Category: "stay", EstimatedCost: 500},
		{Category: "food", EstimatedCost: 200},
	}
	return testutil.CreateTrip(t, s.db, trip)
}

func (s *testServer) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

// problem is the huma error document.
type problem struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

func (p problem) locations() []string {
	locs := make([]string, 0, len(p.Errors))
	for _, e := range p.Errors {
		locs = append(locs, e.Location)
	}
	return locs
}

func hasLocationPrefix(p problem, prefix string) bool {
	for _, loc := range p.locations() {
		if strings.HasPrefix(loc, prefix) {
			return true
		}
	}
	return false
}
