package handlers

import (
	"net/http"
	"testing"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrip(t *testing.T) {
	s := newTestServer(t)

	resp := s.api.Post("/trips", s.as(t, s.owner), map[string]any{
		"name":        "  Lisbon <b>weekend</b> ",
		"start_date":  "2026-05-01",
		"end_date":    "2026-05-01",
		"description": "Pastéis & trams",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	trip := decode[TripResponse](t, resp)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, s.owner.ID, trip.UserID)
	assert.Equal(t, "Lisbon weekend", trip.Name)
	assert.Equal(t, "2026-05-01", trip.StartDate)
	assert.Equal(t, "2026-05-01", trip.EndDate)
	require.NotNil(t, trip.Description)
	assert.Equal(t, "Pastéis & trams", *trip.Description)
	assert.False(t, trip.IsPublic)
	assert.Nil(t, trip.Stops)
	assert.Empty(t, s.notifier.published)
}

func TestCreateTripValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]any
		location string
	}{
		{
			name:     "end before start",
			body:     map[string]any{"name": "Backwards", "start_date": "2026-05-10", "end_date": "2026-05-01"},
			location: "body.end_date",
		},
		{
			name:     "blank name after sanitizing",
			body:     map[string]any{"name": "<i></i>", "start_date": "2026-05-01", "end_date": "2026-05-02"},
			location: "body.name",
		},
		{
			name:     "missing name",
			body:     map[string]any{"start_date": "2026-05-01", "end_date": "2026-05-02"},
			location: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.api.Post("/trips", s.as(t, s.owner), tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
			assert.True(t, hasLocationPrefix(decode[problem](t, resp), tt.location), resp.Body.String())
		})
	}
	assert.Zero(t, s.count(t, &models.Trip{}))
}

func TestCreatePublicTripNotifies(t *testing.T) {
	s := newTestServer(t)

	resp := s.api.Post("/trips", s.as(t, s.owner), map[string]any{
		"name":       "Open Road",
		"start_date": "2026-06-01",
		"end_date":   "2026-06-03",
		"is_public":  true,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.Len(t, s.notifier.published, 1)
	assert.Equal(t, "Open Road", s.notifier.published[0].Name)
}

func TestListTrips(t *testing.T) {
	s := newTestServer(t)
	own := s.europe(t)
	public := testutil.CreateTrip(t, s.db, testutil.NewTrip(s.other.ID, "Shared", "2026-04-01", "2026-04-02", testutil.Public()))
	testutil.CreateTrip(t, s.db, testutil.NewTrip(s.other.ID, "Hidden", "2026-04-01", "2026-04-02"))

	ids := func(list []TripResponse) []string {
		out := make([]string, 0, len(list))
		for _, tr := range list {
			out = append(out, tr.ID)
		}
		return out
	}

	t.Run("own and public", func(t *testing.T) {
		resp := s.api.Get("/trips", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.ElementsMatch(t, []string{own.ID, public.ID}, ids(decode[[]TripResponse](t, resp)))
	})

	t.Run("own only", func(t *testing.T) {
		resp := s.api.Get("/trips?user=true", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []string{own.ID}, ids(decode[[]TripResponse](t, resp)))
	})

	t.Run("expanded", func(t *testing.T) {
		resp := s.api.Get("/trips?user=true&expand=stops,expenses", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code)
		list := decode[[]TripResponse](t, resp)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].Stops)
		assert.Len(t, *list[0].Stops, 2)
		assert.Nil(t, (*list[0].Stops)[0].Activities)
		require.NotNil(t, list[0].Expenses)
		assert.Len(t, *list[0].Expenses, 2)
	})

	t.Run("unknown expansion", func(t *testing.T) {
		resp := s.api.Get("/trips?expand=hotels", s.as(t, s.owner))
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Contains(t, decode[problem](t, resp).locations(), "query.expand")
	})
}

func TestGetTrip(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)

	t.Run("owner with activities", func(t *testing.T) {
		resp := s.api.Get("/trips/"+trip.ID+"?expand=activities", s.as(t, s.owner))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		got := decode[TripResponse](t, resp)
		require.NotNil(t, got.Stops)
		stops := *got.Stops
		require.Len(t, stops, 2)
		assert.Equal(t, "Paris", stops[0].Place)
		assert.Equal(t, "London", stops[1].Place)
		require.NotNil(t, stops[0].City)
		assert.Equal(t, s.paris.ID, stops[0].City.ID)

		require.NotNil(t, stops[0].Activities)
		acts := *stops[0].Activities
		require.Len(t, acts, 2)
		assert.Equal(t, "2026-03-02", acts[0].ScheduledDate)
		require.NotNil(t, acts[0].Activity)
		assert.Equal(t, "Louvre Tour", acts[0].Activity.Name)
	})

	t.Run("private trip of another user", func(t *testing.T) {
		resp := s.api.Get("/trips/"+trip.ID, s.as(t, s.other))
		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "Trip not found", decode[problem](t, resp).Detail)
	})

	t.Run("missing", func(t *testing.T) {
		resp := s.api.Get("/trips/nope", s.as(t, s.owner))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestGetPublicTrip(t *testing.T) {
	s := newTestServer(t)
	private := s.europe(t)
	public := s.europe(t, testutil.Public())

	resp := s.api.Get("/trips/" + public.ID + "/public?expand=stops")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	got := decode[TripResponse](t, resp)
	assert.True(t, got.IsPublic)
	require.NotNil(t, got.Stops)
	assert.Len(t, *got.Stops, 2)

	// Even the owner cannot read a private trip through the public route.
	resp = s.api.Get("/trips/"+private.ID+"/public", s.as(t, s.owner))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Public trip not found", decode[problem](t, resp).Detail)
}

func TestUpdateTrip(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t, testutil.WithDescription("old"))

	t.Run("partial update", func(t *testing.T) {
		resp := s.api.Patch("/trips/"+trip.ID, s.as(t, s.owner), map[string]any{
			"name":        "Europe Revisited",
			"description": "",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		got := decode[TripResponse](t, resp)
		assert.Equal(t, "Europe Revisited", got.Name)
		assert.Equal(t, "2026-03-01", got.StartDate)
		assert.Nil(t, got.Description)
		assert.Empty(t, s.notifier.published)
	})

	t.Run("range checked against stored dates", func(t *testing.T) {
		resp := s.api.Patch("/trips/"+trip.ID, s.as(t, s.owner), map[string]any{
			"end_date": "2026-02-01",
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Contains(t, decode[problem](t, resp).locations(), "body.end_date")
	})

	t.Run("publishing notifies once", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := s.api.Patch("/trips/"+trip.ID, s.as(t, s.owner), map[string]any{"is_public": true})
			require.Equal(t, http.StatusOK, resp.Code)
		}
		require.Len(t, s.notifier.published, 1)
		assert.Equal(t, trip.ID, s.notifier.published[0].ID)
	})

	t.Run("not the owner", func(t *testing.T) {
		resp := s.api.Patch("/trips/"+trip.ID, s.as(t, s.other), map[string]any{"name": "Mine now"})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestUpdateTrip_DatesMustCoverItinerary(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)
	path := "/trips/" + trip.ID

	t.Run("shrinking the end past a stop", func(t *testing.T) {
		resp := s.api.Patch(path, s.as(t, s.owner), map[string]any{"end_date": "2026-03-04"})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Contains(t, decode[problem](t, resp).locations(), "body.end_date")
	})

	t.Run("moving the start past a stop", func(t *testing.T) {
		resp := s.api.Patch(path, s.as(t, s.owner), map[string]any{"start_date": "2026-03-02"})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Contains(t, decode[problem](t, resp).locations(), "body.start_date")
	})

	var stored models.Trip
	require.NoError(t, s.db.First(&stored, "id = ?", trip.ID).Error)
	assert.Equal(t, "2026-03-01", models.FormatDate(stored.StartDate))
	assert.Equal(t, "2026-03-10", models.FormatDate(stored.EndDate))

	t.Run("widening is allowed", func(t *testing.T) {
		resp := s.api.Patch(path, s.as(t, s.owner), map[string]any{
			"start_date": "2026-02-27",
			"end_date":   "2026-03-12",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		budget := decode[BudgetResponse](t, s.api.Get(path+"/budget", s.as(t, s.owner)))
		assert.Len(t, budget.ByDay, 14)
		for day := range budget.ByDay {
			assert.True(t, day >= "2026-02-27" && day <= "2026-03-12", day)
		}
	})
}

func TestDeleteTrip(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)

	resp := s.api.Delete("/trips/"+trip.ID, s.as(t, s.other))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, int64(1), s.count(t, &models.Trip{}))

	resp = s.api.Delete("/trips/"+trip.ID, s.as(t, s.owner))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Empty(t, resp.Body.String())

	assert.Zero(t, s.count(t, &models.Trip{}))
	assert.Zero(t, s.count(t, &models.TripStop{}))
	assert.Zero(t, s.count(t, &models.TripActivity{}))
	assert.Zero(t, s.count(t, &models.Expense{}))
	// The catalog is untouched.
	assert.Equal(t, int64(3), s.count(t, &models.Activity{}))
}

func TestCopyTrip(t *testing.T) {
	s := newTestServer(t)
	public := s.europe(t, testutil.Public())

	resp := s.api.Post("/trips/"+public.ID+"/copy", s.as(t, s.other))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	copied := decode[TripResponse](t, resp)
	assert.NotEqual(t, public.ID, copied.ID)
	assert.Equal(t, s.other.ID, copied.UserID)
	assert.Equal(t, "Europe Adventure (Copy)", copied.Name)
	assert.False(t, copied.IsPublic)

	assert.Equal(t, int64(2), s.count(t, &models.Trip{}))
	assert.Equal(t, int64(4), s.count(t, &models.TripStop{}))
	assert.Equal(t, int64(6), s.count(t, &models.TripActivity{}))
	assert.Equal(t, int64(4), s.count(t, &models.Expense{}))

	require.Len(t, s.notifier.copied, 1)
	assert.Equal(t, copied.ID, s.notifier.copied[0].ID)

	n, err := promtest.GatherAndCount(s.registry, "itinerary_trip_copies_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCopyPrivateTrip(t *testing.T) {
	s := newTestServer(t)
	private := s.europe(t)

	resp := s.api.Post("/trips/"+private.ID+"/copy", s.as(t, s.other))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, s.notifier.copied)

	// Owners may copy their own private trips.
	resp = s.api.Post("/trips/"+private.ID+"/copy", s.as(t, s.owner))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, s.owner.ID, decode[TripResponse](t, resp).UserID)
}
