package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/metrics"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/notifier"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripHandler struct {
	db       *gorm.DB
	store    *trips.Store
	metrics  metrics.Recorder
	notifier notifier.Notifier
	logger   *slog.Logger
}

// NewTripHandler wires the trip operations. rec and n may be nil.
func NewTripHandler(db *gorm.DB, store *trips.Store, rec metrics.Recorder, n notifier.Notifier, logger *slog.Logger) *TripHandler {
	if rec == nil {
		rec = (*metrics.Collector)(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TripHandler{db: db, store: store, metrics: rec, notifier: n, logger: logger}
}

func validationError(location, message string, value any) error {
	return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
		Location: location,
		Message:  message,
		Value:    value,
	})
}

func parseExpand(s string) (trips.Expand, error) {
	e, err := trips.ParseExpand(s)
	if err != nil {
		return 0, validationError("query.expand", err.Error(), s)
	}
	return e, nil
}

// parseRange parses a pair of calendar dates and checks end >= start.
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := models.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, validationError("body.start_date", "expected a yyyy-mm-dd date", start)
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, validationError("body.end_date", "expected a yyyy-mm-dd date", end)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, validationError("body.end_date", "end_date must not be before start_date", end)
	}
	return s, e, nil
}

// checkDatesCovered rejects a new trip range that would leave a stop or a
// scheduled activity outside the trip.
func (h *TripHandler) checkDatesCovered(ctx context.Context, tripID, userID string, start, end time.Time) error {
	graph, err := h.store.GetOwned(ctx, tripID, userID, trips.ExpandStops|trips.ExpandActivities)
	if err != nil {
		return h.storeError(err, "load trip")
	}
	d, ok := trips.DateOutside(graph, start, end)
	if !ok {
		return nil
	}
	msg := "trip dates must cover " + models.FormatDate(d) + ", used by a stop or activity"
	if d.Before(start) {
		return validationError("body.start_date", msg, models.FormatDate(start))
	}
	return validationError("body.end_date", msg, models.FormatDate(end))
}

// storeError maps store failures onto API errors. Missing and foreign trips
// look the same to the caller.
func (h *TripHandler) storeError(err error, action string) error {
	switch {
	case errors.Is(err, trips.ErrNotFound):
		return huma.Error404NotFound("Trip not found")
	case errors.Is(err, trips.ErrStopNotFound):
		return huma.Error404NotFound("Stop not found")
	case errors.Is(err, trips.ErrTripActivityNotFound):
		return huma.Error404NotFound("Trip activity not found")
	case errors.Is(err, trips.ErrExpenseNotFound):
		return huma.Error404NotFound("Expense not found")
	}
	h.logger.Error("trip operation failed", slog.String("action", action), slog.String("error", err.Error()))
	return huma.Error500InternalServerError("Failed to " + action)
}

// notify sends a trip event for the trip's owner. Failures are logged only.
func (h *TripHandler) notify(ctx context.Context, event string, trip *models.Trip, send func(models.User) error) {
	if h.notifier == nil {
		return
	}
	var user models.User
	err := h.db.WithContext(ctx).First(&user, "id = ?", trip.UserID).Error
	if err == nil {
		err = send(user)
	}
	if err != nil {
		h.logger.Warn("notification failed",
			slog.String("event", event),
			slog.String("trip_id", trip.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *TripHandler) notifyPublished(ctx context.Context, trip *models.Trip) {
	h.notify(ctx, "published", trip, func(u models.User) error {
		return h.notifier.NotifyTripPublished(u, *trip)
	})
}

type TripOutput struct {
	Body TripResponse
}

type TripListOutput struct {
	Body []TripResponse
}

type ListTripsInput struct {
	User   bool   `query:"user" doc:"Only list the caller's own trips"`
	Expand string `query:"expand" doc:"Comma separated: stops, activities, expenses" example:"stops,activities"`
}

func (h *TripHandler) HandleList(ctx context.Context, input *ListTripsInput) (*TripListOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	expand, err := parseExpand(input.Expand)
	if err != nil {
		return nil, err
	}

	list, err := h.store.List(ctx, userID, !input.User, expand)
	if err != nil {
		return nil, h.storeError(err, "list trips")
	}

	out := &TripListOutput{Body: make([]TripResponse, 0, len(list))}
	for i := range list {
		out.Body = append(out.Body, newTripResponse(&list[i], expand))
	}
	return out, nil
}

type GetTripInput struct {
	ID     string `path:"id"`
	Expand string `query:"expand" doc:"Comma separated: stops, activities, expenses"`
}

func (h *TripHandler) HandleGet(ctx context.Context, input *GetTripInput) (*TripOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	expand, err := parseExpand(input.Expand)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetOwned(ctx, input.ID, userID, expand)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}
	return &TripOutput{Body: newTripResponse(trip, expand)}, nil
}

func (h *TripHandler) HandleGetPublic(ctx context.Context, input *GetTripInput) (*TripOutput, error) {
	expand, err := parseExpand(input.Expand)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetPublic(ctx, input.ID, expand)
	if errors.Is(err, trips.ErrNotFound) {
		return nil, huma.Error404NotFound("Public trip not found")
	}
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}
	return &TripOutput{Body: newTripResponse(trip, expand)}, nil
}

type CreateTripInput struct {
	Body struct {
		Name        string  `json:"name" minLength:"1" maxLength:"200"`
		StartDate   string  `json:"start_date" format:"date" example:"2026-03-01"`
		EndDate     string  `json:"end_date" format:"date" example:"2026-03-10"`
		Description *string `json:"description,omitempty" maxLength:"5000"`
		IsPublic    bool    `json:"is_public,omitempty"`
	}
}

func (h *TripHandler) HandleCreate(ctx context.Context, input *CreateTripInput) (*TripOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := cleanText(input.Body.Name)
	if name == "" {
		return nil, validationError("body.name", "name is required", input.Body.Name)
	}
	start, end, err := parseRange(input.Body.StartDate, input.Body.EndDate)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		UserID:      userID,
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Description: cleanOptional(input.Body.Description),
		IsPublic:    input.Body.IsPublic,
	}
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(trip).Error; err != nil {
		return nil, h.storeError(err, "create trip")
	}

	if trip.IsPublic {
		h.notifyPublished(ctx, trip)
	}
	return &TripOutput{Body: newTripResponse(trip, 0)}, nil
}

type UpdateTripInput struct {
	ID   string `path:"id"`
	Body struct {
		Name        *string `json:"name,omitempty" minLength:"1" maxLength:"200"`
		StartDate   *string `json:"start_date,omitempty" format:"date"`
		EndDate     *string `json:"end_date,omitempty" format:"date"`
		Description *string `json:"description,omitempty" maxLength:"5000" doc:"Empty string clears the description"`
		IsPublic    *bool   `json:"is_public,omitempty"`
	}
}

func (h *TripHandler) HandleUpdate(ctx context.Context, input *UpdateTripInput) (*TripOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetOwned(ctx, input.ID, userID, 0)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}
	wasPublic := trip.IsPublic

	body := input.Body
	if body.Name != nil {
		name := cleanText(*body.Name)
		if name == "" {
			return nil, validationError("body.name", "name must not be blank", *body.Name)
		}
		trip.Name = name
	}
	start, end := models.FormatDate(trip.StartDate), models.FormatDate(trip.EndDate)
	if body.StartDate != nil {
		start = *body.StartDate
	}
	if body.EndDate != nil {
		end = *body.EndDate
	}
	newStart, newEnd, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	if !newStart.Equal(trip.StartDate) || !newEnd.Equal(trip.EndDate) {
		if err := h.checkDatesCovered(ctx, trip.ID, userID, newStart, newEnd); err != nil {
			return nil, err
		}
	}
	trip.StartDate, trip.EndDate = newStart, newEnd
	if body.Description != nil {
		trip.Description = cleanOptional(body.Description)
	}
	if body.IsPublic != nil {
		trip.IsPublic = *body.IsPublic
	}

	err = h.db.WithContext(ctx).Model(trip).
		Select("name", "start_date", "end_date", "description", "is_public").
		Updates(trip).Error
	if err != nil {
		return nil, h.storeError(err, "update trip")
	}

	if trip.IsPublic && !wasPublic {
		h.notifyPublished(ctx, trip)
	}
	return &TripOutput{Body: newTripResponse(trip, 0)}, nil
}

type TripIDInput struct {
	ID string `path:"id"`
}

func (h *TripHandler) HandleDelete(ctx context.Context, input *TripIDInput) (*struct{}, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.store.Delete(ctx, input.ID, userID); err != nil {
		return nil, h.storeError(err, "delete trip")
	}
	h.metrics.RecordCascadeDelete("trip")
	return nil, nil
}

func (h *TripHandler) HandleCopy(ctx context.Context, input *TripIDInput) (*TripOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	copied, err := h.store.Copy(ctx, input.ID, userID)
	if errors.Is(err, trips.ErrNotFound) {
		return nil, huma.Error404NotFound("Trip not found")
	}
	h.metrics.RecordCopy(err == nil)
	if err != nil {
		h.logger.Error("trip copy failed", slog.String("trip_id", input.ID), slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("Failed to copy trip")
	}

	h.notify(ctx, "copied", copied, func(u models.User) error {
		return h.notifier.NotifyTripCopied(u, *copied)
	})
	return &TripOutput{Body: newTripResponse(copied, 0)}, nil
}
