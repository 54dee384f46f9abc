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

type StopOutput struct {
	Body StopResponse
}

// checkWithinTrip rejects stop dates outside the trip's own range.
func checkWithinTrip(trip *models.Trip, start, end time.Time) error {
	if start.Before(trip.StartDate) || start.After(trip.EndDate) {
		return validationError("body.start_date", "start_date must be within the trip dates", models.FormatDate(start))
	}
	if end.After(trip.EndDate) {
		return validationError("body.end_date", "end_date must be within the trip dates", models.FormatDate(end))
	}
	return nil
}

type CreateStopInput struct {
	TripID string `path:"id"`
	Body   struct {
		CityID        *string `json:"city_id,omitempty" doc:"Catalog city; either this or stopping_place is required"`
		StoppingPlace *string `json:"stopping_place,omitempty" maxLength:"200" doc:"Free-text place"`
		StartDate     string  `json:"start_date" format:"date"`
		EndDate       string  `json:"end_date" format:"date"`
		OrderIndex    int     `json:"order_index,omitempty" minimum:"0"`
	}
}

func (h *TripHandler) HandleCreateStop(ctx context.Context, input *CreateStopInput) (*StopOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	place := cleanOptional(input.Body.StoppingPlace)
	if input.Body.CityID == nil && place == nil {
		return nil, validationError("body.city_id", "either city_id or stopping_place is required", nil)
	}
	start, end, err := parseRange(input.Body.StartDate, input.Body.EndDate)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetOwned(ctx, input.TripID, userID, 0)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}
	if err := checkWithinTrip(trip, start, end); err != nil {
		return nil, err
	}

	stop := &models.TripStop{
		TripID:        trip.ID,
		CityID:        input.Body.CityID,
		StoppingPlace: place,
		StartDate:     start,
		EndDate:       end,
		OrderIndex:    input.Body.OrderIndex,
	}
	if stop.CityID != nil {
		var city models.City
		err := h.db.WithContext(ctx).First(&city, "id = ?", *stop.CityID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("City not found")
		}
		if err != nil {
			return nil, h.storeError(err, "load city")
		}
		stop.City = &city
	}

	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(stop).Error; err != nil {
		return nil, h.storeError(err, "create stop")
	}
	return &StopOutput{Body: newStopResponse(stop, false)}, nil
}

type UpdateStopInput struct {
	TripID string `path:"id"`
	StopID string `path:"stopId"`
	Body   struct {
		StartDate  *string `json:"start_date,omitempty" format:"date"`
		EndDate    *string `json:"end_date,omitempty" format:"date"`
		OrderIndex *int    `json:"order_index,omitempty" minimum:"0"`
	}
}

func (h *TripHandler) HandleUpdateStop(ctx context.Context, input *UpdateStopInput) (*StopOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, stop, err := h.store.GetOwnedStop(ctx, input.TripID, input.StopID, userID)
	if err != nil {
		return nil, h.storeError(err, "load stop")
	}

	start, end := models.FormatDate(stop.StartDate), models.FormatDate(stop.EndDate)
	if input.Body.StartDate != nil {
		start = *input.Body.StartDate
	}
	if input.Body.EndDate != nil {
		end = *input.Body.EndDate
	}
	if stop.StartDate, stop.EndDate, err = parseRange(start, end); err != nil {
		return nil, err
	}
	if err := checkWithinTrip(trip, stop.StartDate, stop.EndDate); err != nil {
		return nil, err
	}
	if input.Body.OrderIndex != nil {
		stop.OrderIndex = *input.Body.OrderIndex
	}

	err = h.db.WithContext(ctx).Model(stop).
		Select("start_date", "end_date", "order_index").
		Updates(stop).Error
	if err != nil {
		return nil, h.storeError(err, "update stop")
	}

	if err := h.db.WithContext(ctx).Preload("City").First(stop, "id = ?", stop.ID).Error; err != nil {
		return nil, h.storeError(err, "load stop")
	}
	return &StopOutput{Body: newStopResponse(stop, false)}, nil
}

type StopIDInput struct {
	TripID string `path:"id"`
	StopID string `path:"stopId"`
}

func (h *TripHandler) HandleDeleteStop(ctx context.Context, input *StopIDInput) (*struct{}, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.store.DeleteStop(ctx, input.TripID, input.StopID, userID); err != nil {
		return nil, h.storeError(err, "delete stop")
	}
	h.metrics.RecordCascadeDelete("stop")
	return nil, nil
}
