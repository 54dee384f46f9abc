package handlers

import (
	"net/http"
	"testing"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenses(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)
	path := "/trips/" + trip.ID + "/expenses"

	resp := s.api.Get(path, s.as(t, s.owner))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[[]ExpenseResponse](t, resp), 2)

	resp = s.api.Post(path, s.as(t, s.owner), map[string]any{
		"category":       "Transport",
		"estimated_cost": 120,
		"description":    "Eurostar",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[ExpenseResponse](t, resp)
	assert.Equal(t, trip.ID, created.TripID)
	assert.Equal(t, "Transport", created.Category)
	assert.Equal(t, 120.0, created.EstimatedCost)

	// Categories are bucketed case-insensitively.
	resp = s.api.Get("/trips/"+trip.ID+"/budget", s.as(t, s.owner))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 120.0, decode[BudgetResponse](t, resp).ByCategory["transport"])

	resp = s.api.Delete(path+"/"+created.ID, s.as(t, s.owner))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, int64(2), s.count(t, &models.Expense{}))

	resp = s.api.Delete(path+"/"+created.ID, s.as(t, s.owner))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Expense not found", decode[problem](t, resp).Detail)
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)
	path := "/trips/" + trip.ID + "/expenses"

	tests := []struct {
		name     string
		body     map[string]any
		location string
	}{
		{"negative cost", map[string]any{"category": "food", "estimated_cost": -5}, "body.estimated_cost"},
		{"empty category", map[string]any{"category": "", "estimated_cost": 5}, "body.category"},
		{"markup only category", map[string]any{"category": "<b></b>", "estimated_cost": 5}, "body.category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.api.Post(path, s.as(t, s.owner), tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
			assert.Contains(t, decode[problem](t, resp).locations(), tt.location)
		})
	}
}

func TestExpensesOfAnotherUser(t *testing.T) {
	s := newTestServer(t)
	trip := s.europe(t)
	path := "/trips/" + trip.ID + "/expenses"

	assert.Equal(t, http.StatusNotFound, s.api.Get(path, s.as(t, s.other)).Code)
	assert.Equal(t, http.StatusNotFound, s.api.Post(path, s.as(t, s.other), map[string]any{
		"category":       "food",
		"estimated_cost": 1,
	}).Code)
	assert.Equal(t, http.StatusNotFound, s.api.Delete(path+"/"+trip.Expenses[0].ID, s.as(t, s.other)).Code)
	assert.Equal(t, int64(2), s.count(t, &models.Expense{}))
}
