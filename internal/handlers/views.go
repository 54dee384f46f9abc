package handlers

import (
	"context"

	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/budget"
)

type SummaryOutput struct {
	Body budget.Summary
}

// HandleSummary is the owner-only budget summary.
func (h *TripHandler) HandleSummary(ctx context.Context, input *TripIDInput) (*SummaryOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.store.Summary(ctx, input.ID, userID)
	if err != nil {
		return nil, h.storeError(err, "compute summary")
	}
	h.metrics.RecordAggregation("summary")
	return &SummaryOutput{Body: summary}, nil
}

type BudgetResponse struct {
	TotalCost      float64            `json:"total_cost"`
	AvgPerDay      float64            `json:"avg_per_day"`
	ByCategory     map[string]float64 `json:"by_category"`
	ByDay          map[string]float64 `json:"by_day"`
	OverBudgetDays []string           `json:"over_budget_days"`
}

func newBudgetResponse(b budget.Breakdown) BudgetResponse {
	return BudgetResponse{
		TotalCost:      b.TotalCost,
		AvgPerDay:      b.AvgPerDay,
		ByCategory:     b.ByCategory,
		ByDay:          b.ByDay,
		OverBudgetDays: budget.OverBudgetDays(b),
	}
}

type BudgetOutput struct {
	Body BudgetResponse
}

// HandleBudget serves the budget breakdown of an owned or public trip.
func (h *TripHandler) HandleBudget(ctx context.Context, input *TripIDInput) (*BudgetOutput, error) {
	breakdown, err := h.store.Budget(ctx, input.ID, auth.UserID(ctx))
	if err != nil {
		return nil, h.storeError(err, "compute budget")
	}
	h.metrics.RecordAggregation("budget")
	return &BudgetOutput{Body: newBudgetResponse(breakdown)}, nil
}

type MapOutput struct {
	Body []budget.MapPoint
}

func (h *TripHandler) HandleMap(ctx context.Context, input *TripIDInput) (*MapOutput, error) {
	points, err := h.store.MapPoints(ctx, input.ID, auth.UserID(ctx))
	if err != nil {
		return nil, h.storeError(err, "compute map")
	}
	h.metrics.RecordAggregation("map")
	return &MapOutput{Body: points}, nil
}

type TimelineOutput struct {
	Body []budget.Day
}

func (h *TripHandler) HandleTimeline(ctx context.Context, input *TripIDInput) (*TimelineOutput, error) {
	days, err := h.store.Timeline(ctx, input.ID, auth.UserID(ctx))
	if err != nil {
		return nil, h.storeError(err, "compute timeline")
	}
	h.metrics.RecordAggregation("timeline")
	return &TimelineOutput{Body: days}, nil
}
