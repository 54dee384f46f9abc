package handlers

import (
	"html"
	"strings"
	"time"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"github.com/microcosm-cc/bluemonday"
)

// Responses render every calendar date as yyyy-mm-dd.

type TripResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Name        string             `json:"name"`
	StartDate   string             `json:"start_date" format:"date"`
	EndDate     string             `json:"end_date" format:"date"`
	Description *string            `json:"description,omitempty"`
	IsPublic    bool               `json:"is_public"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Stops       *[]StopResponse    `json:"stops,omitempty"`
	Expenses    *[]ExpenseResponse `json:"expenses,omitempty"`
}

type StopResponse struct {
	ID            string                  `json:"id"`
	TripID        string                  `json:"trip_id"`
	CityID        *string                 `json:"city_id,omitempty"`
	City          *models.City            `json:"city,omitempty"`
	StoppingPlace *string                 `json:"stopping_place,omitempty"`
	Place         string                  `json:"place"`
	StartDate     string                  `json:"start_date" format:"date"`
	EndDate       string                  `json:"end_date" format:"date"`
	OrderIndex    int                     `json:"order_index"`
	Activities    *[]TripActivityResponse `json:"activities,omitempty"`
}

type TripActivityResponse struct {
	ID            string           `json:"id"`
	StopID        string           `json:"stop_id"`
	ActivityID    string           `json:"activity_id"`
	Activity      *models.Activity `json:"activity,omitempty"`
	ScheduledDate string           `json:"scheduled_date" format:"date"`
	CustomCost    *float64         `json:"custom_cost,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

type ExpenseResponse struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	Category      string    `json:"category"`
	EstimatedCost float64   `json:"estimated_cost"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func newTripResponse(t *models.Trip, expand trips.Expand) TripResponse {
	resp := TripResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		StartDate:   models.FormatDate(t.StartDate),
		EndDate:     models.FormatDate(t.EndDate),
		Description: t.Description,
		IsPublic:    t.IsPublic,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if expand.Has(trips.ExpandStops) {
		stops := make([]StopResponse, 0, len(t.Stops))
		for i := range t.Stops {
			stops = append(stops, newStopResponse(&t.Stops[i], expand.Has(trips.ExpandActivities)))
		}
		resp.Stops = &stops
	}
	if expand.Has(trips.ExpandExpenses) {
		expenses := make([]ExpenseResponse, 0, len(t.Expenses))
		for i := range t.Expenses {
			expenses = append(expenses, newExpenseResponse(&t.Expenses[i]))
		}
		resp.Expenses = &expenses
	}
	return resp
}

func newStopResponse(s *models.TripStop, withActivities bool) StopResponse {
	resp := StopResponse{
		ID:            s.ID,
		TripID:        s.TripID,
		CityID:        s.CityID,
		City:          s.City,
		StoppingPlace: s.StoppingPlace,
		Place:         s.PlaceName(),
		StartDate:     models.FormatDate(s.StartDate),
		EndDate:       models.FormatDate(s.EndDate),
		OrderIndex:    s.OrderIndex,
	}
	if withActivities {
		activities := make([]TripActivityResponse, 0, len(s.Activities))
		for i := range s.Activities {
			activities = append(activities, newTripActivityResponse(&s.Activities[i]))
		}
		resp.Activities = &activities
	}
	return resp
}

func newTripActivityResponse(a *models.TripActivity) TripActivityResponse {
	resp := TripActivityResponse{
		ID:            a.ID,
		StopID:        a.StopID,
		ActivityID:    a.ActivityID,
		ScheduledDate: models.FormatDate(a.ScheduledDate),
		CustomCost:    a.CustomCost,
		Notes:         a.Notes,
	}
	if a.Activity.ID != "" {
		activity := a.Activity
		resp.Activity = &activity
	}
	return resp
}

func newExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		TripID:        e.TripID,
		Category:      e.Category,
		EstimatedCost: e.EstimatedCost,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user supplied free text.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// cleanOptional is cleanText for optional fields; blank text becomes nil.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := cleanText(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
