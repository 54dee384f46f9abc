package trips

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gdg-garage/itinerary-api/internal/budget"
	"github.com/gdg-garage/itinerary-api/internal/models"
)

// Aggregations are best effort: a trip that cannot be loaded yields a zeroed
// view. Only ErrNotFound is surfaced, so access rules still hold.

func (s *Store) loadForView(ctx context.Context, id, viewerID string, expand Expand, view string) (*models.Trip, error) {
	trip, err := s.GetVisible(ctx, id, viewerID, expand)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("aggregation inputs unavailable",
			slog.String("view", view),
			slog.String("trip_id", id),
			slog.Any("error", err),
		)
		return nil, nil
	}
	return trip, nil
}

// Budget computes the budget breakdown of a trip visible to viewerID.
func (s *Store) Budget(ctx context.Context, id, viewerID string) (budget.Breakdown, error) {
	trip, err := s.loadForView(ctx, id, viewerID, ExpandAll, "budget")
	if err != nil {
		return budget.Empty(), err
	}
	return budget.Compute(trip), nil
}

// Summary computes the owner-only budget summary.
func (s *Store) Summary(ctx context.Context, id, userID string) (budget.Summary, error) {
	trip, err := s.loadForView(ctx, id, userID, ExpandAll, "summary")
	if err != nil {
		return budget.Summarize(nil), err
	}
	if trip != nil && !trip.OwnedBy(userID) {
		return budget.Summarize(nil), ErrNotFound
	}
	return budget.Summarize(trip), nil
}

// MapPoints extracts the route of a trip visible to viewerID.
func (s *Store) MapPoints(ctx context.Context, id, viewerID string) ([]budget.MapPoint, error) {
	trip, err := s.loadForView(ctx, id, viewerID, ExpandStops, "map")
	if err != nil || trip == nil {
		return budget.MapPoints(nil), err
	}
	return budget.MapPoints(trip.Stops), nil
}

// Timeline groups the activities of a trip visible to viewerID by day.
func (s *Store) Timeline(ctx context.Context, id, viewerID string) ([]budget.Day, error) {
	trip, err := s.loadForView(ctx, id, viewerID, ExpandActivities, "timeline")
	if err != nil {
		return budget.Timeline(nil), err
	}
	return budget.Timeline(trip), nil
}
