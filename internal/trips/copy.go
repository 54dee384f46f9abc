package trips

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CopySuffix is appended to the name of every copied trip.
const CopySuffix = " (Copy)"

// Copy duplicates the trip sourceID, with its stops, their activities and
// its expenses, into a new private trip owned by userID. The source must be
// public or owned by userID, otherwise ErrNotFound is returned. The copy is
// created in a single transaction: on any failure nothing is persisted.
func (s *Store) Copy(ctx context.Context, sourceID, userID string) (*models.Trip, error) {
	var copied *models.Trip
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := s.find(ctx, tx, sourceID, ExpandAll)
		if err != nil {
			return err
		}
		if !src.VisibleTo(userID) {
			return ErrNotFound
		}

		dst := &models.Trip{
			UserID:      userID,
			Name:        src.Name + CopySuffix,
			StartDate:   src.StartDate,
			EndDate:     src.EndDate,
			Description: src.Description,
			IsPublic:    false,
		}
		if err := tx.Omit(clause.Associations).Create(dst).Error; err != nil {
			return fmt.Errorf("creating trip: %w", err)
		}

		for _, srcStop := range src.Stops {
			stop := models.TripStop{
				TripID:        dst.ID,
				CityID:        srcStop.CityID,
				StoppingPlace: srcStop.StoppingPlace,
				StartDate:     srcStop.StartDate,
				EndDate:       srcStop.EndDate,
				OrderIndex:    srcStop.OrderIndex,
			}
			if err := tx.Omit(clause.Associations).Create(&stop).Error; err != nil {
				return fmt.Errorf("creating stop: %w", err)
			}

			for _, srcActivity := range srcStop.Activities {
				activity := models.TripActivity{
					StopID:        stop.ID,
					ActivityID:    srcActivity.ActivityID,
					ScheduledDate: srcActivity.ScheduledDate,
					CustomCost:    srcActivity.CustomCost,
					Notes:         srcActivity.Notes,
				}
				if err := tx.Omit(clause.Associations).Create(&activity).Error; err != nil {
					return fmt.Errorf("creating activity: %w", err)
				}
				stop.Activities = append(stop.Activities, activity)
			}
			dst.Stops = append(dst.Stops, stop)
		}

		for _, srcExpense := range src.Expenses {
			expense := models.Expense{
				TripID:        dst.ID,
				Category:      srcExpense.Category,
				EstimatedCost: srcExpense.EstimatedCost,
				Description:   srcExpense.Description,
			}
			if err := tx.Omit(clause.Associations).Create(&expense).Error; err != nil {
				return fmt.Errorf("creating expense: %w", err)
			}
			dst.Expenses = append(dst.Expenses, expense)
		}

		copied = dst
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trip copied",
		slog.String("source_trip_id", sourceID),
		slog.String("trip_id", copied.ID),
		slog.String("user_id", userID),
		slog.Int("stops", len(copied.Stops)),
		slog.Int("expenses", len(copied.Expenses)),
	)
	return copied, nil
}
