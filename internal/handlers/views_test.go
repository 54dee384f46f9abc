package handlers

import (
	"net/http"
	"testing"

	"github.com/gdg-garage/itinerary-api/internal/budget"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t, testutil.Public())

	t.Run("owner", func(t *testing.T) {
		resp := s.api.Get("/trips/"+trip.ID+"/summary", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		got := decode[budget.Summary](t, resp)
		assert.Equal(t, 755.0, got.TotalCost)
		assert.Equal(t, 10, got.Days)
		assert.Equal(t, 75.5, got.AvgPerDay)
		assert.Equal(t, map[string]float64{"stay": 500, "food": 200, budget.ActivitiesCategory: 55}, got.Categories)
	})

	t.Run("public trip of another user", func(t *testing.T) {
		resp := s.api.Get("/trips/"+trip.ID+"/summary", s.as(t, s.other))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		resp := s.api.Get("/trips/" + trip.ID + "/summary")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestBudget(t *testing.T) {
	s := newTestServer(t)
	public := s.europe(t, testutil.Public())
	private := s.europe(t)

	t.Run("anonymous reader of a public trip", func(t *testing.T) {
		resp := s.api.Get("/trips/" + public.ID + "/budget")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		got := decode[BudgetResponse](t, resp)
		assert.Equal(t, 755.0, got.TotalCost)
		assert.Equal(t, 75.5, got.AvgPerDay)
		assert.Equal(t, 55.0, got.ByCategory[budget.ActivitiesCategory])
		assert.Len(t, got.ByDay, 10)
		assert.Equal(t, 30.0, got.ByDay["2026-03-03"])
		assert.Empty(t, got.OverBudgetDays)
	})

	t.Run("over budget day", func(t *testing.T) {
		var stop models.TripStop
		require.NoError(t, s.db.Where("trip_id = ? AND order_index = 0", private.ID).First(&stop).Error)
		require.NoError(t, s.db.Create(&models.TripActivity{
			StopID:        stop.ID,
			ActivityID:    s.louvre.ID,
			ScheduledDate: testutil.Date("2026-03-04"),
			CustomCost:    testutil.Ptr(400.0),
		}).Error)

		resp := s.api.Get("/trips/"+private.ID+"/budget", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		got := decode[BudgetResponse](t, resp)
		assert.Equal(t, 1155.0, got.TotalCost)
		assert.Equal(t, []string{"2026-03-04"}, got.OverBudgetDays)
	})

	t.Run("private trip hidden from others", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.api.Get("/trips/"+private.ID+"/budget").Code)
		assert.Equal(t, http.StatusNotFound, s.api.Get("/trips/"+private.ID+"/budget", s.as(t, s.other)).Code)
	})
}

func TestMap(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t, testutil.Public())

	resp := s.api.Get("/trips/" + trip.ID + "/map")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	points := decode[[]budget.MapPoint](t, resp)
	require.Len(t, points, 2)
	assert.Equal(t, budget.MapPoint{Lat: 48.8566, Lng: 2.3522, Name: "Paris", Order: 1, CityID: s.paris.ID}, points[0])
	assert.Equal(t, "London", points[1].Name)
	assert.Equal(t, 2, points[1].Order)
}

func TestTimeline(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t, testutil.Public())

	resp := s.api.Get("/trips/" + trip.ID + "/timeline")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	days := decode[[]budget.Day](t, resp)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "Monday", days[0].DayOfWeek)
	require.Len(t, days[0].Activities, 1)
	assert.Equal(t, "Louvre Tour", days[0].Activities[0].Name)
	assert.Equal(t, "Paris", days[0].Activities[0].Place)
	assert.Equal(t, 25.0, days[0].TotalCost)
	assert.Equal(t, "2026-03-06", days[2].Date)
	assert.Equal(t, "London", days[2].Activities[0].Place)
}

func TestBudgetSchemaListsEveryField(t *testing.T) {
	s := newTestServer(t)

	schema, ok := s.api.OpenAPI().Components.Schemas.Map()["BudgetResponse"]
	require.True(t, ok)
	for _, field := range []string{"total_cost", "avg_per_day", "by_category", "by_day", "over_budget_days"} {
		assert.Contains(t, schema.Properties, field)
	}
}
