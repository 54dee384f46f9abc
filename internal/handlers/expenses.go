package handlers

import (
	"context"

	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"gorm.io/gorm/clause"
)

type ExpenseListOutput struct {
	Body []ExpenseResponse
}

func (h *TripHandler) HandleListExpenses(ctx context.Context, input *TripIDInput) (*ExpenseListOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := h.store.GetOwned(ctx, input.ID, userID, trips.ExpandExpenses)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}

	out := &ExpenseListOutput{Body: make([]ExpenseResponse, 0, len(trip.Expenses))}
	for i := range trip.Expenses {
		out.Body = append(out.Body, newExpenseResponse(&trip.Expenses[i]))
	}
	return out, nil
}

type CreateExpenseInput struct {
	ID   string `path:"id"`
	Body struct {
		Category      string  `json:"category" minLength:"1" maxLength:"50" example:"stay"`
		EstimatedCost float64 `json:"estimated_cost" minimum:"0"`
		Description   *string `json:"description,omitempty" maxLength:"2000"`
	}
}

type ExpenseOutput struct {
	Body ExpenseResponse
}

func (h *TripHandler) HandleCreateExpense(ctx context.Context, input *CreateExpenseInput) (*ExpenseOutput, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	category := cleanText(input.Body.Category)
	if category == "" {
		return nil, validationError("body.category", "category is required", input.Body.Category)
	}

	trip, err := h.store.GetOwned(ctx, input.ID, userID, 0)
	if err != nil {
		return nil, h.storeError(err, "load trip")
	}

	expense := &models.Expense{
		TripID:        trip.ID,
		Category:      category,
		EstimatedCost: input.Body.EstimatedCost,
		Description:   cleanOptional(input.Body.Description),
	}
	if err := h.db.WithContext(ctx).Omit(clause.Associations).Create(expense).Error; err != nil {
		return nil, h.storeError(err, "create expense")
	}
	return &ExpenseOutput{Body: newExpenseResponse(expense)}, nil
}

type ExpenseIDInput struct {
	TripID    string `path:"id"`
	ExpenseID string `path:"expenseId"`
}

func (h *TripHandler) HandleDeleteExpense(ctx context.Context, input *ExpenseIDInput) (*struct{}, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.store.DeleteExpense(ctx, input.TripID, input.ExpenseID, userID); err != nil {
		return nil, h.storeError(err, "delete expense")
	}
	return nil, nil
}
