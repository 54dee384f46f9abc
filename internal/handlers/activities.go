package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripActivityOutput struct {
	Body TripActivityResponse
}

// parseScheduled parses a scheduled date, which must fall within the trip.
func parseScheduled(trip *models.Trip, s string) (time.Time, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, validationError("body.scheduled_date", "expected a yyyy-mm-dd date", s)
	}
	if d.Before(trip.StartDate) || d.After(trip.EndDate) {
		return time.Time{}, validationError("body.scheduled_date", "scheduled_date must be within the trip dates", s)
	}
	return d, nil
}

type AddActivityInput struct {
	TripID string `path:"id"`
	StopID string `path:"stopId"`
	Body   struct {
		ActivityID    string   `json:"activity_id" minLength:"1" doc:"Catalog activity"`
		ScheduledDate *string  `json:"scheduled_date,omitempty" format:"date" doc:"Defaults to the stop's start date"`
		CustomCost    *float64 `json:"custom_cost,omitempty" minimum:"0"`
		Notes         *string  `json:"notes,omitempty" maxLength:"2000"`
	}
}

func (h *TripHandler) HandleAddActivity(ctx context.Context, input *AddActivityInput) (*TripActivityOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, stop, err := h.store.GetOwnedStop(ctx, input.TripID, input.StopID, userID)
	if err != nil {
		return nil, h.storeError(err, "load stop")
	}

	var activity models.Activity
	err = h.db.WithContext(ctx).First(&activity, "id = ?", input.Body.ActivityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Activity not found")
	}
	if err != nil {
		return nil, h.storeError(err, "load activity")
	}

	scheduled := stop.StartDate
	if input.Body.ScheduledDate != nil {
		if scheduled, err = parseScheduled(trip, *input.Body.ScheduledDate); err != nil {
			return nil, err
		}
	}

	ta := &models.TripActivity{
		StopID:        stop.ID,
		ActivityID:    activity.ID,
		ScheduledDate: scheduled,
		CustomCost:    input.Body.CustomCost,
		Notes:         cleanOptional(input.Body.Notes),
	}
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(ta).Error; err != nil {
		return nil, h.storeError(err, "add activity")
	}
	ta.Activity = activity
	return &TripActivityOutput{Body: newTripActivityResponse(ta)}, nil
}

type UpdateActivityInput struct {
	TripID         string `path:"id"`
	TripActivityID string `path:"tripActivityId"`
	Body           struct {
		CustomCost      *float64 `json:"custom_cost,omitempty" minimum:"0"`
		ClearCustomCost bool     `json:"clear_custom_cost,omitempty" doc:"Drops the custom cost so the activity counts as free"`
		ScheduledDate   *string  `json:"scheduled_date,omitempty" format:"date"`
		Notes           *string  `json:"notes,omitempty" maxLength:"2000" doc:"Empty string clears the notes"`
	}
}

func (h *TripHandler) HandleUpdateActivity(ctx context.Context, input *UpdateActivityInput) (*TripActivityOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetOwned(ctx, input.TripID, userID, 0)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}
	ta, err := h.store.GetOwnedTripActivity(ctx, trip.ID, input.TripActivityID, userID)
	if err != nil {
		return nil, h.storeError(err, "load activity")
	}

	switch {
	case input.Body.ClearCustomCost && input.Body.CustomCost != nil:
		return nil, validationError("body.clear_custom_cost", "clear_custom_cost cannot be combined with custom_cost", true)
	case input.Body.ClearCustomCost:
		ta.CustomCost = nil
	case input.Body.CustomCost != nil:
		ta.CustomCost = input.Body.CustomCost
	}
	if input.Body.ScheduledDate != nil {
		if ta.ScheduledDate, err = parseScheduled(trip, *input.Body.ScheduledDate); err != nil {
			return nil, err
		}
	}
	if input.Body.Notes != nil {
		ta.Notes = cleanOptional(input.Body.Notes)
	}

	err = h.db.WithContext(ctx).Model(ta).
		Select("custom_cost", "scheduled_date", "notes").
		Updates(ta).Error
	if err != nil {
		return nil, h.storeError(err, "update activity")
	}
	return &TripActivityOutput{Body: newTripActivityResponse(ta)}, nil
}

type TripActivityIDInput struct {
	TripID         string `path:"id"`
	TripActivityID string `path:"tripActivityId"`
}

func (h *TripHandler) HandleDeleteActivity(ctx context.Context, input *TripActivityIDInput) (*struct{}, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.store.DeleteTripActivity(ctx, input.TripID, input.TripActivityID, userID); err != nil {
		return nil, h.storeError(err, "delete activity")
	}
	return nil, nil
}
